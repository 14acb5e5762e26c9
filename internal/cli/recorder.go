package cli

import (
	"context"

	"github.com/dkalnina/notedrop/internal/capture"
	"github.com/dkalnina/notedrop/internal/history"
	"github.com/dkalnina/notedrop/internal/logging"
)

// historyRecorder lands pipeline outcomes in the history table. Recording is
// best effort: a storage failure is logged and otherwise ignored.
type historyRecorder struct {
	repo history.Repository
	log  logging.Logger
}

func (r *historyRecorder) Record(ctx context.Context, rec capture.Record) {
	s := &history.Submission{
		Title:          rec.Title,
		ImagesTotal:    rec.ImagesTotal,
		ImagesUploaded: rec.ImagesUploaded,
		Status:         history.StatusPublished,
	}
	if rec.Err != nil {
		s.Status = history.StatusFailed
		s.Error = rec.Err.Error()
	}

	// a cancelled run must still leave a trace
	ctx = context.WithoutCancel(ctx)
	if err := r.repo.Add(ctx, s); err != nil {
		r.log.Warn(ctx, "failed to record submission", "error", err)
	}
}
