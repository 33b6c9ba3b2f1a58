package storage

import (
	"context"
	"time"

	"github.com/pders01/slyde/internal/slideshow"
)

// Recorder bookmarks every slideshow the pipeline returns.
type Recorder struct {
	store ProjectStore
	now   func() time.Time
}

func NewRecorder(store ProjectStore) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

func (r *Recorder) RecordView(ctx context.Context, meta slideshow.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.store.Upsert(ProjectFromMetadata(meta, r.now()))
	return err
}
