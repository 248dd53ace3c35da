package cleanup

import (
	"context"

	"github.com/op/go-logging"

	"github.com/qrpstudio/media-services/media"
	"github.com/qrpstudio/media-services/records"
)

// Hooks connects record mutations to file reclamation. Every hook
// registers its work as a post-commit callback on the surrounding
// transaction: the reference check and the enqueue run only after the
// mutation is durably committed, never inside a transaction that could
// still roll back. Call sites are the update and delete paths of the
// record-persistence layer.
//
// The check-then-enqueue pair is not protected by any cross-transaction
// lock on the storage key. Two concurrent transactions that both stop
// referencing the same file can, in a narrow window, both pass or both
// fail the check. Accepted as a best-effort property under low write
// concurrency on the same file.
type Hooks struct {
	tracker     *Tracker
	scheduler   *Scheduler
	mediaPrefix string
	logger      *logging.Logger
}

// NewHooks builds lifecycle hooks over the given tracker and
// scheduler. mediaPrefix is the URL path prefix media is served under
// (e.g. "/media/"), used to turn stored URLs back into storage keys.
func NewHooks(tracker *Tracker, scheduler *Scheduler, mediaPrefix string, logger *logging.Logger) *Hooks {
	return &Hooks{
		tracker:     tracker,
		scheduler:   scheduler,
		mediaPrefix: mediaPrefix,
		logger:      logger,
	}
}

// FileReplaced schedules reclamation of oldKey after the transaction
// replacing it commits. No-op when the key is unchanged or empty. The
// updated row itself is excluded from the reference scan, since it
// still shows oldKey until the commit lands.
func (h *Hooks) FileReplaced(tx *records.Tx, entity string, id int64, oldKey, newKey string) {
	if oldKey == "" || oldKey == newKey {
		return
	}
	exclude := &Exclusion{Entity: entity, ID: id}
	tx.OnCommit(func() {
		h.checkAndEnqueue(oldKey, exclude)
	})
}

// RecordDeleted schedules reclamation of every key the deleted record
// held, after the deleting transaction commits. No exclusion is needed:
// by the time the hook runs, the row is gone.
func (h *Hooks) RecordDeleted(tx *records.Tx, entity string, id int64, keys []string) {
	for _, key := range keys {
		key := key
		if key == "" {
			continue
		}
		tx.OnCommit(func() {
			h.checkAndEnqueue(key, nil)
		})
	}
}

// URLReplaced is FileReplaced for columns that store full media URLs
// instead of bare keys (photo records). URLs that do not resolve to a
// key inside the media root are skipped.
func (h *Hooks) URLReplaced(tx *records.Tx, entity string, id int64, oldURL, newURL string) {
	if oldURL == "" || oldURL == newURL {
		return
	}
	key, err := media.KeyFromURL(oldURL, h.mediaPrefix)
	if err != nil {
		h.logger.Warningf("Not reclaiming replaced URL on %s %d: %v", entity, id, err)
		return
	}
	h.FileReplaced(tx, entity, id, key, "")
}

// URLsDeleted is RecordDeleted for URL-bearing columns.
func (h *Hooks) URLsDeleted(tx *records.Tx, entity string, id int64, urls []string) {
	keys := make([]string, 0, len(urls))
	for _, rawURL := range urls {
		if rawURL == "" {
			continue
		}
		key, err := media.KeyFromURL(rawURL, h.mediaPrefix)
		if err != nil {
			h.logger.Warningf("Not reclaiming deleted URL on %s %d: %v", entity, id, err)
			continue
		}
		keys = append(keys, key)
	}
	h.RecordDeleted(tx, entity, id, keys)
}

func (h *Hooks) checkAndEnqueue(key string, exclude *Exclusion) {
	if h.tracker.IsReferenced(context.Background(), key, exclude) {
		h.logger.Infof("Keeping stored file %s: still referenced", key)
		return
	}
	h.scheduler.Enqueue(key)
}
