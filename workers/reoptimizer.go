package workers

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/nsqio/go-nsq"

	"github.com/qrpstudio/media-services/cleanup"
	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/media"
	"github.com/qrpstudio/media-services/models/common"
	"github.com/qrpstudio/media-services/records"
)

// Reoptimizer regenerates renditions for photos that predate the
// transcoding pipeline: it receives photo IDs from NSQ, rebuilds the
// full rendition set from the stored original, rewrites the photo's
// URLs, and lets the lifecycle hooks reclaim the superseded file.
type Reoptimizer struct {
	Context     *common.Context
	Settings    *Settings
	Hooks       *cleanup.Hooks
	NSQConsumer *nsq.Consumer
}

func NewReoptimizer(context *common.Context, hooks *cleanup.Hooks, bufSize, numWorkers int) *Reoptimizer {
	settings := &Settings{
		ChannelBufferSize: bufSize,
		NSQChannel:        constants.TopicReoptimize + "_worker_chan",
		NSQTopic:          constants.TopicReoptimize,
		NumberOfWorkers:   numWorkers,
	}
	worker := &Reoptimizer{
		Context:  context,
		Settings: settings,
		Hooks:    hooks,
	}
	context.Logger.Infof("Reoptimizer started with settings: %s", settings.ToJSON())
	err := worker.registerAsNsqConsumer()
	if err != nil {
		panic(fmt.Sprintf("Cannot start reoptimizer: %v", err))
	}
	return worker
}

// registerAsNsqConsumer subscribes this worker to the reoptimize
// topic. As soon as this returns, the worker handles messages if any
// are available.
func (r *Reoptimizer) registerAsNsqConsumer() error {
	config := nsq.NewConfig()
	config.Set("heartbeat_interval", "10s")
	config.Set("max_in_flight", r.Settings.ChannelBufferSize)
	consumer, err := nsq.NewConsumer(r.Settings.NSQTopic, r.Settings.NSQChannel, config)
	if err != nil {
		return err
	}
	r.NSQConsumer = consumer
	r.NSQConsumer.AddConcurrentHandlers(r, r.Settings.NumberOfWorkers)
	err = r.NSQConsumer.ConnectToNSQLookupd(r.Context.Config.NsqLookupd)
	if err != nil {
		return err
	}
	r.Context.Logger.Info("Registered as NSQ consumer")
	return nil
}

// HandleMessage processes one photo ID from NSQ. Returning an error
// tells NSQ to requeue; permanent failures return nil so the message
// is not retried forever.
func (r *Reoptimizer) HandleMessage(message *nsq.Message) error {
	msgBody := strings.TrimSpace(string(message.Body))
	photoID, err := strconv.ParseInt(msgBody, 10, 64)
	if err != nil || photoID == 0 {
		r.Context.Logger.Errorf("Could not get photo ID from NSQ message body %q: %v", msgBody, err)
		return nil
	}
	err = r.ReoptimizePhoto(context.Background(), photoID)
	if err != nil {
		r.Context.Logger.Errorf("Reoptimize of photo %d failed: %v", photoID, err)
		return nil
	}
	r.Context.Logger.Infof("Reoptimized photo %d", photoID)
	return nil
}

// ReoptimizePhoto rebuilds the rendition set for one photo from its
// stored full-size file and updates the photo's URLs. Photos that
// already have thumbnails are skipped.
func (r *Reoptimizer) ReoptimizePhoto(ctx context.Context, photoID int64) error {
	photo, err := r.Context.RecordDB.PhotoByID(ctx, photoID)
	if err != nil {
		return err
	}
	if photo.ThumbnailURL != "" {
		r.Context.Logger.Infof("Photo %d already has thumbnails, skipping", photoID)
		return nil
	}

	sourceKey, err := media.KeyFromURL(photo.URL, r.Context.Config.MediaPrefix)
	if err != nil {
		return fmt.Errorf("photo %d has unusable URL: %w", photoID, err)
	}
	data, err := r.Context.Store.Read(ctx, sourceKey)
	if err != nil {
		return fmt.Errorf("reading source for photo %d: %w", photoID, err)
	}

	set, err := media.Transcode(data, path.Base(sourceKey))
	if err != nil {
		return err
	}
	writer := media.NewWriter(r.Context.Store, r.Context.Logger)
	keys, err := writer.WriteSet(ctx, set, path.Dir(sourceKey))
	if err != nil {
		return err
	}

	baseURL := r.Context.Config.BaseURL
	oldURL := photo.URL
	photo.URL = media.BuildURL(baseURL, keys[constants.KindFull])
	photo.MediumURL = media.BuildURL(baseURL, keys[constants.KindMedium])
	photo.ThumbnailURL = media.BuildURL(baseURL, keys[constants.KindThumbnail])

	return r.Context.RecordDB.WithTransaction(ctx, func(tx *records.Tx) error {
		if err := records.UpdatePhotoURLs(ctx, tx, photo); err != nil {
			return err
		}
		// The original upload is superseded; reclaim it once the
		// update commits, unless something else still points at it.
		r.Hooks.URLReplaced(tx, constants.EntityPhoto, photo.ID, oldURL, photo.URL)
		return nil
	})
}
