package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// FSStore stores files under a single media root on the local
// filesystem. All keys resolve to paths inside the root; keys that
// would escape it are rejected.
type FSStore struct {
	root string
}

// NewFSStore returns an FSStore rooted at mediaRoot. The root directory
// is created if it does not exist.
func NewFSStore(mediaRoot string) (*FSStore, error) {
	absRoot, err := filepath.Abs(mediaRoot)
	if err != nil {
		return nil, err
	}
	if err = os.MkdirAll(absRoot, 0755); err != nil {
		return nil, err
	}
	return &FSStore{root: absRoot}, nil
}

// Root returns the absolute path of the media root. The deletion
// scheduler uses this as the boundary for directory cleanup.
func (s *FSStore) Root() string {
	return s.root
}

func (s *FSStore) Write(ctx context.Context, key string, data []byte) error {
	fullPath, err := s.ResolvePath(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

func (s *FSStore) Read(ctx context.Context, key string) ([]byte, error) {
	fullPath, err := s.ResolvePath(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(fullPath)
}

// Delete removes the file for key. A missing file is not an error,
// since the same key may have been deleted on a prior attempt. Locked
// files come back as *LockedError so the caller can retry.
func (s *FSStore) Delete(ctx context.Context, key string) error {
	fullPath, err := s.ResolvePath(key)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	if isFileInUse(err) {
		return &LockedError{Key: key, Err: err}
	}
	return err
}

func (s *FSStore) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := s.ResolvePath(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fullPath)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ResolvePath maps key to an absolute path under the media root.
// Keys containing traversal segments that would escape the root are
// rejected.
func (s *FSStore) ResolvePath(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("storage key cannot be empty")
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(key))
	fullPath = filepath.Clean(fullPath)
	if fullPath != s.root && !strings.HasPrefix(fullPath, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %s resolves outside media root", key)
	}
	return fullPath, nil
}

// isFileInUse reports whether err came from the OS refusing to touch a
// file that another process holds open. Windows raises a sharing
// violation as a permission error; Linux can return EBUSY or ETXTBSY.
func isFileInUse(err error) bool {
	if os.IsPermission(err) {
		return true
	}
	return errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY)
}
