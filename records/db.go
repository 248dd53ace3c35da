// Package records is the relational store for the entities that bear
// stored files: photos, testimonials, portfolio and service-gallery
// images, videos, and generic media items. Its transactions carry an
// explicit post-commit hook list so media-lifecycle work can be
// deferred until a mutation is durably committed.
package records

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle for the record store.
type DB struct {
	sql *sql.DB
}

// Open opens (or creates) the record database at dbPath and configures
// it for use. Use ":memory:" in tests.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open record database: %w", err)
	}
	if _, err = db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err = db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)
	if err = db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping record database: %w", err)
	}
	return &DB{sql: db}, nil
}

// SQL exposes the underlying handle for read-only queries, e.g. the
// reference tracker's scans.
func (d *DB) SQL() *sql.DB {
	return d.sql
}

func (d *DB) Close() error {
	return d.sql.Close()
}

// Migrate creates the record tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate record database: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS photos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		album_id INTEGER NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		thumbnail_url TEXT NOT NULL DEFAULT '',
		medium_url TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS testimonials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS portfolio_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS service_gallery_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_file TEXT NOT NULL DEFAULT '',
		thumbnail TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS media_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file TEXT NOT NULL DEFAULT ''
	)`,
}
