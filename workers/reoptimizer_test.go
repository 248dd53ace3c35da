package workers_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrpstudio/media-services/cleanup"
	"github.com/qrpstudio/media-services/models/common"
	"github.com/qrpstudio/media-services/records"
	"github.com/qrpstudio/media-services/storage"
	"github.com/qrpstudio/media-services/util/logger"
	"github.com/qrpstudio/media-services/util/testutil"
	"github.com/qrpstudio/media-services/workers"
)

func newReoptimizerFixture(t *testing.T) (*workers.Reoptimizer, *storage.FSStore, *records.DB, *cleanup.Scheduler) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	store, err := storage.NewFSStore(t.TempDir())
	require.Nil(t, err)

	appContext := &common.Context{
		Config: &common.Config{
			BaseURL:     "https://cdn.example.com/media",
			MediaPrefix: "/media/",
			MediaRoot:   store.Root(),
		},
		Logger:   logger.DiscardLogger(),
		RecordDB: db,
		Store:    store,
	}

	scheduler := cleanup.NewScheduler(store, cleanup.SchedulerSettings{
		MaxAttempts: 8,
		BackoffBase: time.Millisecond,
		BackoffMax:  4 * time.Millisecond,
		MediaRoot:   store.Root(),
	}, logger.DiscardLogger())
	t.Cleanup(scheduler.Stop)

	tracker := cleanup.NewTracker(db, cleanup.DefaultReferenceSites(), logger.DiscardLogger())
	hooks := cleanup.NewHooks(tracker, scheduler, "/media/", logger.DiscardLogger())

	worker := &workers.Reoptimizer{
		Context: appContext,
		Hooks:   hooks,
	}
	return worker, store, db, scheduler
}

func TestReoptimizePhoto(t *testing.T) {
	worker, store, db, scheduler := newReoptimizerFixture(t)
	ctx := context.Background()

	// A legacy photo: original JPEG on disk, no renditions.
	require.Nil(t, store.Write(ctx, "albums/legacy/rose.jpg", testutil.JpegImage(1600, 800)))
	photo := &records.Photo{URL: "https://cdn.example.com/media/albums/legacy/rose.jpg"}
	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.InsertPhoto(ctx, tx, photo)
	})
	require.Nil(t, err)

	require.Nil(t, worker.ReoptimizePhoto(ctx, photo.ID))

	updated, err := db.PhotoByID(ctx, photo.ID)
	require.Nil(t, err)
	assert.Equal(t, "https://cdn.example.com/media/albums/legacy/rose_full.webp", updated.URL)
	assert.Equal(t, "https://cdn.example.com/media/albums/legacy/rose_medium.webp", updated.MediumURL)
	assert.Equal(t, "https://cdn.example.com/media/albums/legacy/rose_thumb.webp", updated.ThumbnailURL)

	for _, key := range []string{
		"albums/legacy/rose_full.webp",
		"albums/legacy/rose_medium.webp",
		"albums/legacy/rose_thumb.webp",
	} {
		exists, existsErr := store.Exists(ctx, key)
		require.Nil(t, existsErr)
		assert.True(t, exists, key)
	}

	// The superseded JPEG is reclaimed once the update commits.
	scheduler.Drain()
	exists, err := store.Exists(ctx, "albums/legacy/rose.jpg")
	require.Nil(t, err)
	assert.False(t, exists)
}

func TestReoptimizePhotoSkipsAlreadyOptimized(t *testing.T) {
	worker, store, db, _ := newReoptimizerFixture(t)
	ctx := context.Background()

	photo := &records.Photo{
		URL:          "https://cdn.example.com/media/albums/1/done_full.webp",
		ThumbnailURL: "https://cdn.example.com/media/albums/1/done_thumb.webp",
	}
	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.InsertPhoto(ctx, tx, photo)
	})
	require.Nil(t, err)

	// No source file on disk, which would fail if the worker tried to
	// read it. Skipping means no error.
	require.Nil(t, worker.ReoptimizePhoto(ctx, photo.ID))
	exists, err := store.Exists(ctx, "albums/1/done_full_full.webp")
	require.Nil(t, err)
	assert.False(t, exists)
}

func TestReoptimizePhotoMissingRecord(t *testing.T) {
	worker, _, _, _ := newReoptimizerFixture(t)
	assert.NotNil(t, worker.ReoptimizePhoto(context.Background(), 9999))
}

func TestReoptimizePhotoBadURL(t *testing.T) {
	worker, _, db, _ := newReoptimizerFixture(t)
	ctx := context.Background()

	photo := &records.Photo{URL: "https://elsewhere.example.com/static/pic.jpg"}
	err := db.WithTransaction(ctx, func(tx *records.Tx) error {
		return records.InsertPhoto(ctx, tx, photo)
	})
	require.Nil(t, err)

	assert.NotNil(t, worker.ReoptimizePhoto(ctx, photo.ID))
}

func TestSettingsToJSON(t *testing.T) {
	settings := &workers.Settings{
		ChannelBufferSize: 20,
		NSQChannel:        "media_reoptimize_worker_chan",
		NSQTopic:          "media_reoptimize",
		NumberOfWorkers:   3,
	}
	jsonData := settings.ToJSON()
	assert.Contains(t, jsonData, `"NSQTopic":"media_reoptimize"`)
	assert.Contains(t, jsonData, `"NumberOfWorkers":3`)
}
