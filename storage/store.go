// Package storage defines the backend interface for stored media bytes
// and provides local-filesystem and S3 implementations. Storage keys are
// paths relative to the backend's media root, always using forward
// slashes, regardless of the host OS.
package storage

import "context"

// Store is the backend the media pipeline writes renditions to and the
// deletion scheduler removes them from. A key is a root-relative path
// like "albums/1693401600000/0-rose_thumb.webp".
type Store interface {
	// Write stores data under key, creating any missing parent
	// directories or key prefixes.
	Write(ctx context.Context, key string, data []byte) error

	// Read returns the bytes stored under key.
	Read(ctx context.Context, key string) ([]byte, error)

	// Delete removes the bytes stored under key. If the backend cannot
	// remove the file because another process holds it open, Delete
	// returns a *LockedError so callers can retry. Deleting a key that
	// does not exist is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key currently has stored bytes.
	Exists(ctx context.Context, key string) (bool, error)

	// ResolvePath returns the absolute local path for key, for backends
	// that have one. Backends without local paths (S3) return
	// ErrNoLocalPath; callers should skip directory cleanup for those.
	ResolvePath(key string) (string, error)
}
