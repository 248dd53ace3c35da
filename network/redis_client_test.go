package network_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/models/service"
	"github.com/qrpstudio/media-services/network"
	"github.com/qrpstudio/media-services/util/testutil"
)

func newTestRedisClient(t *testing.T) *network.RedisClient {
	t.Helper()
	server := testutil.NewRedisServer()
	t.Cleanup(server.Close)
	client := network.NewRedisClient(server.Addr(), "", 0)
	_, err := client.Ping()
	require.Nil(t, err)
	return client
}

func TestDeletionStateSaveAndGet(t *testing.T) {
	client := newTestRedisClient(t)

	state := &service.DeletionState{
		Key:         "albums/1/pic_full.webp",
		Attempts:    3,
		Disposition: service.DispositionPending,
		LastError:   "held open",
	}
	require.Nil(t, client.DeletionStateSave(state))

	loaded, err := client.DeletionStateGet("albums/1/pic_full.webp")
	require.Nil(t, err)
	assert.Equal(t, state.Key, loaded.Key)
	assert.Equal(t, 3, loaded.Attempts)
	assert.Equal(t, service.DispositionPending, loaded.Disposition)
	assert.Equal(t, "held open", loaded.LastError)
}

func TestDeletionStateGetMissing(t *testing.T) {
	client := newTestRedisClient(t)
	_, err := client.DeletionStateGet("never/recorded.webp")
	assert.NotNil(t, err)
}

func TestDeletionStateDelete(t *testing.T) {
	client := newTestRedisClient(t)

	state := &service.DeletionState{
		Key:         "albums/2/x.webp",
		Disposition: service.DispositionSucceeded,
	}
	require.Nil(t, client.DeletionStateSave(state))
	require.Nil(t, client.DeletionStateDelete("albums/2/x.webp"))

	_, err := client.DeletionStateGet("albums/2/x.webp")
	assert.NotNil(t, err)
}

func TestStateKeeperLifecycle(t *testing.T) {
	client := newTestRedisClient(t)
	key := "albums/3/stuck.webp"

	client.DeletionAttempted(key, 1, "held open")
	loaded, err := client.DeletionStateGet(key)
	require.Nil(t, err)
	assert.Equal(t, service.DispositionPending, loaded.Disposition)
	assert.Equal(t, 1, loaded.Attempts)
	assert.False(t, loaded.UpdatedAt.IsZero())

	client.DeletionExhausted(key, 8, "still held open")
	loaded, err = client.DeletionStateGet(key)
	require.Nil(t, err)
	assert.Equal(t, service.DispositionExhausted, loaded.Disposition)
	assert.Equal(t, 8, loaded.Attempts)
	assert.Equal(t, "still held open", loaded.LastError)

	client.DeletionSucceeded("albums/3/ok.webp", 2)
	loaded, err = client.DeletionStateGet("albums/3/ok.webp")
	require.Nil(t, err)
	assert.Equal(t, service.DispositionSucceeded, loaded.Disposition)
	assert.Empty(t, loaded.LastError)
}
