package workers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/models/common"
	"github.com/qrpstudio/media-services/network"
	"github.com/qrpstudio/media-services/records"
	"github.com/qrpstudio/media-services/util/logger"
	"github.com/qrpstudio/media-services/util/testutil"
	"github.com/qrpstudio/media-services/workers"
)

func TestReoptimizeQueueRunOnce(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	var mu sync.Mutex
	var published []string
	nsqd := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		published = append(published, r.URL.Query().Get("topic")+":"+string(body))
		mu.Unlock()
		w.Write([]byte("OK"))
	}))
	defer nsqd.Close()

	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		legacy := &records.Photo{URL: "https://cdn.example.com/media/old/1.jpg"}
		if insertErr := records.InsertPhoto(ctx, tx, legacy); insertErr != nil {
			return insertErr
		}
		done := &records.Photo{
			URL:          "https://cdn.example.com/media/albums/1/d_full.webp",
			ThumbnailURL: "https://cdn.example.com/media/albums/1/d_thumb.webp",
		}
		return records.InsertPhoto(ctx, tx, done)
	})
	require.Nil(t, err)

	queue := workers.NewReoptimizeQueue(&common.Context{
		Config:    &common.Config{},
		Logger:    logger.DiscardLogger(),
		NSQClient: network.NewNSQClient(nsqd.URL),
		RecordDB:  db,
	})

	queued, err := queue.RunOnce(ctx)
	require.Nil(t, err)
	assert.Equal(t, 1, queued)
	require.Len(t, published, 1)
	assert.Equal(t, "media_reoptimize:1", published[0])
}

func TestReoptimizeQueueNsqdDown(t *testing.T) {
	db := testutil.OpenTestDB(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.InsertPhoto(ctx, tx, &records.Photo{URL: "https://cdn.example.com/media/old/2.jpg"})
	})
	require.Nil(t, err)

	queue := workers.NewReoptimizeQueue(&common.Context{
		Config:    &common.Config{},
		Logger:    logger.DiscardLogger(),
		NSQClient: network.NewNSQClient("http://127.0.0.1:1"),
		RecordDB:  db,
	})

	// Publish failures are logged and skipped, not fatal.
	queued, err := queue.RunOnce(ctx)
	require.Nil(t, err)
	assert.Equal(t, 0, queued)
}
