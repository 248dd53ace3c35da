package storage

import (
	"errors"
	"fmt"
)

// ErrNoLocalPath is returned by ResolvePath on backends whose keys do
// not correspond to local filesystem paths.
var ErrNoLocalPath = errors.New("storage backend has no local paths")

// LockedError indicates a delete failed because another process holds
// the file open. The deletion scheduler treats this as transient and
// retries with backoff. All other delete failures are permanent.
type LockedError struct {
	Key string
	Err error
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("file %s is locked by another process: %v", e.Key, e.Err)
}

func (e *LockedError) Unwrap() error {
	return e.Err
}

// IsLocked returns true if err is or wraps a *LockedError.
func IsLocked(err error) bool {
	var lockedErr *LockedError
	return errors.As(err, &lockedErr)
}
