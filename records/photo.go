package records

import (
	"context"
	"database/sql"
	"fmt"
)

// Photo is one image in an album. URL columns store full media URLs,
// not bare storage keys, which is why the reference tracker matches
// them by suffix.
type Photo struct {
	ID           int64
	AlbumID      int64
	URL          string
	ThumbnailURL string
	MediumURL    string
}

// InsertPhoto inserts p within the transaction and fills in its ID.
func InsertPhoto(ctx context.Context, tx *Tx, p *Photo) error {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO photos (album_id, url, thumbnail_url, medium_url) VALUES (?, ?, ?, ?)`,
		p.AlbumID, p.URL, p.ThumbnailURL, p.MediumURL)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	p.ID, err = result.LastInsertId()
	return err
}

// UpdatePhotoURLs replaces the three URL columns of the photo.
func UpdatePhotoURLs(ctx context.Context, tx *Tx, p *Photo) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE photos SET url = ?, thumbnail_url = ?, medium_url = ? WHERE id = ?`,
		p.URL, p.ThumbnailURL, p.MediumURL, p.ID)
	if err != nil {
		return fmt.Errorf("update photo %d: %w", p.ID, err)
	}
	return nil
}

// DeletePhoto removes the photo row.
func DeletePhoto(ctx context.Context, tx *Tx, id int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete photo %d: %w", id, err)
	}
	return nil
}

// PhotoByID loads one photo outside of any transaction.
func (d *DB) PhotoByID(ctx context.Context, id int64) (*Photo, error) {
	p := &Photo{}
	err := d.sql.QueryRowContext(ctx,
		`SELECT id, album_id, url, thumbnail_url, medium_url FROM photos WHERE id = ?`, id,
	).Scan(&p.ID, &p.AlbumID, &p.URL, &p.ThumbnailURL, &p.MediumURL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("photo %d not found", id)
		}
		return nil, fmt.Errorf("get photo %d: %w", id, err)
	}
	return p, nil
}

// PhotosMissingThumbnails lists photos that have a full-size URL but no
// thumbnail, i.e. photos uploaded before rendition generation existed.
// The reoptimizer worker processes these.
func (d *DB) PhotosMissingThumbnails(ctx context.Context) ([]*Photo, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, album_id, url, thumbnail_url, medium_url FROM photos
		 WHERE url != '' AND thumbnail_url = '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list photos missing thumbnails: %w", err)
	}
	defer rows.Close()
	var photos []*Photo
	for rows.Next() {
		p := &Photo{}
		if err = rows.Scan(&p.ID, &p.AlbumID, &p.URL, &p.ThumbnailURL, &p.MediumURL); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}
