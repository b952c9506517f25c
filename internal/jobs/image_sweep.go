package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vinhtqfx07044/laptop/internal/storage"
)

// ImageSweepJobName is the name of the orphaned image cleanup job
const ImageSweepJobName = "image_sweep"

// ImageIndex exposes the set of image filenames the database knows about.
type ImageIndex interface {
	AllImageFilenames(ctx context.Context) (map[uuid.UUID]map[string]bool, error)
}

// ImageSweepJob deletes stored images that no longer have a matching
// database row. Such orphans appear when an upload succeeds but the
// surrounding transaction rolls back.
type ImageSweepJob struct {
	index   ImageIndex
	storage storage.Storage
	logger  *zap.Logger
	timeout time.Duration
}

// NewImageSweepJob creates a new orphaned image cleanup job.
func NewImageSweepJob(index ImageIndex, store storage.Storage, logger *zap.Logger, timeout time.Duration) *ImageSweepJob {
	return &ImageSweepJob{
		index:   index,
		storage: store,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the sweep. This is called by the scheduler according
// to the configured cron expression.
func (j *ImageSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting image sweep job")

	known, err := j.index.AllImageFilenames(ctx)
	if err != nil {
		j.logger.Error("image sweep failed to load image index",
			zap.Error(err))
		return
	}

	objects, err := j.storage.List(ctx)
	if err != nil {
		j.logger.Error("image sweep failed to list stored objects",
			zap.Error(err))
		return
	}

	var scanned, removed, failed int
	for _, obj := range objects {
		scanned++
		if known[obj.RequestID][obj.Filename] {
			continue
		}
		if err := j.storage.DeleteIfExists(ctx, obj.RequestID, obj.Filename); err != nil {
			failed++
			j.logger.Error("image sweep failed to delete orphan",
				zap.String("request_id", obj.RequestID.String()),
				zap.String("filename", obj.Filename),
				zap.Error(err))
			continue
		}
		removed++
		j.logger.Info("image sweep removed orphan",
			zap.String("request_id", obj.RequestID.String()),
			zap.String("filename", obj.Filename))
	}

	j.logger.Info("image sweep job finished",
		zap.Int("scanned", scanned),
		zap.Int("removed", removed),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
}
