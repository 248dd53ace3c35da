package media

import (
	"context"
	"fmt"
	"path"

	"github.com/op/go-logging"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/storage"
)

// Writer persists renditions through a storage backend under a
// caller-supplied target directory, returning the storage keys it
// wrote. If any write in a set fails, renditions written earlier in
// the same set are removed again (best effort), so a failed upload
// never leaves a partial set behind.
type Writer struct {
	store  storage.Store
	logger *logging.Logger
}

func NewWriter(store storage.Store, logger *logging.Logger) *Writer {
	return &Writer{
		store:  store,
		logger: logger,
	}
}

// WriteSet writes every rendition in set under targetDir and returns a
// map of kind to storage key. Keys use forward slashes. On failure the
// returned map is nil and any keys already written are deleted again.
func (w *Writer) WriteSet(ctx context.Context, set RenditionSet, targetDir string) (map[string]string, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	keys := make(map[string]string, len(constants.RenditionKinds))
	written := make([]string, 0, len(constants.RenditionKinds))
	for _, kind := range constants.RenditionKinds {
		rendition := set[kind]
		key := path.Join(targetDir, rendition.FileName)
		if err := w.store.Write(ctx, key, rendition.Data); err != nil {
			w.rollback(ctx, written)
			return nil, fmt.Errorf("writing %s rendition to %s: %w", kind, key, err)
		}
		keys[kind] = key
		written = append(written, key)
	}
	return keys, nil
}

// WriteOne writes a single rendition under targetDir and returns its
// storage key.
func (w *Writer) WriteOne(ctx context.Context, rendition *Rendition, targetDir string) (string, error) {
	key := path.Join(targetDir, rendition.FileName)
	if err := w.store.Write(ctx, key, rendition.Data); err != nil {
		return "", fmt.Errorf("writing rendition to %s: %w", key, err)
	}
	return key, nil
}

// rollback removes keys written before a mid-set failure. Failures here
// are logged and swallowed: the write error is what the caller needs to
// see, and a leaked file is recoverable later.
func (w *Writer) rollback(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := w.store.Delete(ctx, key); err != nil {
			w.logger.Warningf("Could not remove partial rendition %s: %v", key, err)
		}
	}
}
