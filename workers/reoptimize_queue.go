package workers

import (
	"context"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/models/common"
)

// ReoptimizeQueue scans the record store for photos that have no
// thumbnail rendition and pushes their IDs into the reoptimize topic,
// where the reoptimizer worker picks them up. Run it once after a
// deploy or on a cron.
type ReoptimizeQueue struct {
	Context *common.Context
}

func NewReoptimizeQueue(context *common.Context) *ReoptimizeQueue {
	return &ReoptimizeQueue{
		Context: context,
	}
}

// RunOnce performs one scan and returns the number of photos queued.
func (q *ReoptimizeQueue) RunOnce(ctx context.Context) (int, error) {
	photos, err := q.Context.RecordDB.PhotosMissingThumbnails(ctx)
	if err != nil {
		return 0, err
	}
	q.Context.Logger.Infof("Found %d photos missing thumbnails", len(photos))
	queued := 0
	for _, photo := range photos {
		err = q.Context.NSQClient.Enqueue(constants.TopicReoptimize, photo.ID)
		if err != nil {
			q.Context.Logger.Errorf("Could not queue photo %d: %v", photo.ID, err)
			continue
		}
		q.Context.Logger.Infof("Queued photo %d (%s)", photo.ID, photo.URL)
		queued++
	}
	return queued, nil
}
