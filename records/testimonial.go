package records

import (
	"context"
	"database/sql"
	"fmt"
)

// Testimonial is a marketing quote with an optional avatar image. The
// avatar column stores a bare storage key.
type Testimonial struct {
	ID     int64
	Name   string
	Avatar string
}

func InsertTestimonial(ctx context.Context, tx *Tx, t *Testimonial) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO testimonials (name, avatar) VALUES (?, ?)`, t.Name, t.Avatar)
	if err != nil {
		return fmt.Errorf("insert testimonial: %w", err)
	}
	t.ID, err = result.LastInsertId()
	return err
}

func UpdateTestimonial(ctx context.Context, tx *Tx, t *Testimonial) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE testimonials SET name = ?, avatar = ? WHERE id = ?`, t.Name, t.Avatar, t.ID)
	if err != nil {
		return fmt.Errorf("update testimonial %d: %w", t.ID, err)
	}
	return nil
}

func DeleteTestimonial(ctx context.Context, tx *Tx, id int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM testimonials WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial %d: %w", id, err)
	}
	return nil
}

func (d *DB) TestimonialByID(ctx context.Context, id int64) (*Testimonial, error) {
	t := &Testimonial{}
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, name, avatar FROM testimonials WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Avatar)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("testimonial %d not found", id)
		}
		return nil, fmt.Errorf("get testimonial %d: %w", id, err)
	}
	return t, nil
}
