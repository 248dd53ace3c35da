package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/storage"
)

func TestFSStoreWriteReadDelete(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFSStore(t.TempDir())
	require.Nil(t, err)

	key := "albums/1700000000000/0-rose_thumb.webp"
	data := []byte("webp bytes")
	require.Nil(t, store.Write(ctx, key, data))

	exists, err := store.Exists(ctx, key)
	require.Nil(t, err)
	assert.True(t, exists)

	read, err := store.Read(ctx, key)
	require.Nil(t, err)
	assert.Equal(t, data, read)

	require.Nil(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.Nil(t, err)
	assert.False(t, exists)
}

func TestFSStoreDeleteMissingKey(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	require.Nil(t, err)
	assert.Nil(t, store.Delete(context.Background(), "never/existed.webp"))
}

func TestFSStoreResolvePath(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewFSStore(root)
	require.Nil(t, err)

	fullPath, err := store.ResolvePath("albums/1/pic.webp")
	require.Nil(t, err)
	assert.Equal(t, filepath.Join(store.Root(), "albums", "1", "pic.webp"), fullPath)

	_, err = store.ResolvePath("")
	assert.NotNil(t, err)
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	require.Nil(t, err)

	for _, key := range []string{
		"../outside.webp",
		"albums/../../outside.webp",
		"..",
	} {
		_, resolveErr := store.ResolvePath(key)
		assert.NotNil(t, resolveErr, key)
		writeErr := store.Write(context.Background(), key, []byte("x"))
		assert.NotNil(t, writeErr, key)
	}
}

func TestFSStoreLockedError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not bind root")
	}
	ctx := context.Background()
	root := t.TempDir()
	store, err := storage.NewFSStore(root)
	require.Nil(t, err)

	key := "albums/1/held.webp"
	require.Nil(t, store.Write(ctx, key, []byte("x")))

	// Make the parent directory unwritable so the unlink fails with a
	// permission error, which Delete reports as locked.
	dir := filepath.Join(store.Root(), "albums", "1")
	require.Nil(t, os.Chmod(dir, 0555))
	defer os.Chmod(dir, 0755)

	err = store.Delete(ctx, key)
	require.NotNil(t, err)
	assert.True(t, storage.IsLocked(err))

	var lockedErr *storage.LockedError
	require.ErrorAs(t, err, &lockedErr)
	assert.Equal(t, key, lockedErr.Key)
}

func TestIsLocked(t *testing.T) {
	assert.False(t, storage.IsLocked(nil))
	assert.False(t, storage.IsLocked(os.ErrNotExist))
	assert.True(t, storage.IsLocked(&storage.LockedError{Key: "k"}))
}
