package media

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/op/go-logging"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/util"
)

// UploadFile is one raw file in an upload batch: opaque bytes plus the
// name the client declared for it. Transient; nothing here is persisted.
type UploadFile struct {
	Name string
	Data []byte
}

// UploadResult reports the outcome for one file in a batch. Err is set
// when that file failed; other files in the batch are unaffected.
type UploadResult struct {
	// Keys maps rendition kind to storage key.
	Keys map[string]string

	// URL, MediumURL and ThumbnailURL are the externally addressable
	// URLs for the full, medium and thumbnail renditions.
	URL          string
	MediumURL    string
	ThumbnailURL string

	Err error
}

// Uploader runs the full upload pipeline for a batch of images:
// transcode each file, persist its rendition set under a batch
// directory, and build the URLs the owning records will store. The
// HTTP endpoint that receives multipart uploads lives elsewhere and
// calls this.
type Uploader struct {
	writer  *Writer
	baseURL string
	logger  *logging.Logger

	now func() time.Time
}

func NewUploader(writer *Writer, baseURL string, logger *logging.Logger) *Uploader {
	return &Uploader{
		writer:  writer,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload processes every file in the batch, writing each file's
// renditions under a shared millisecond-timestamp directory. Each
// file succeeds or fails on its own: a corrupt third file does not
// undo the first two. Results come back in input order.
func (u *Uploader) Upload(ctx context.Context, files []UploadFile) []UploadResult {
	// Batch ID appears in every log line for this batch, so one bad
	// upload can be traced across files.
	batchID := uuid.New().String()
	batchDir := path.Join("albums", fmt.Sprintf("%d", u.now().UnixMilli()))
	u.logger.Infof("Upload batch %s: %d files into %s", batchID, len(files), batchDir)
	results := make([]UploadResult, len(files))
	for i, file := range files {
		results[i] = u.uploadOne(ctx, i, file, batchDir)
		if results[i].Err != nil {
			u.logger.Errorf("Upload batch %s: file %d (%s) failed: %v", batchID, i, file.Name, results[i].Err)
		} else {
			u.logger.Infof("Upload batch %s: processed file %d (%s)", batchID, i, file.Name)
		}
	}
	return results
}

func (u *Uploader) uploadOne(ctx context.Context, index int, file UploadFile, batchDir string) UploadResult {
	safeName := util.SafeFileName(index, file.Name)
	set, err := Transcode(file.Data, safeName)
	if err != nil {
		return UploadResult{Err: err}
	}
	keys, err := u.writer.WriteSet(ctx, set, batchDir)
	if err != nil {
		return UploadResult{Err: err}
	}
	return UploadResult{
		Keys:         keys,
		URL:          BuildURL(u.baseURL, keys[constants.KindFull]),
		MediumURL:    BuildURL(u.baseURL, keys[constants.KindMedium]),
		ThumbnailURL: BuildURL(u.baseURL, keys[constants.KindThumbnail]),
	}
}
