// Package history keeps a local log of submission outcomes. It is the
// secondary channel through which failures become visible: the capture
// prompt never blocks on the network, so the only places an outcome can
// surface are the log stream and this table.
package history

import (
	"context"
	"time"
)

// Submission statuses.
const (
	StatusPublished = "published"
	StatusFailed    = "failed"
)

type Submission struct {
	ID             string
	CreatedAt      time.Time
	Title          string
	ImagesTotal    int
	ImagesUploaded int
	Status         string
	Error          string
}

type Repository interface {
	Add(ctx context.Context, s *Submission) error
	Recent(ctx context.Context, limit int) ([]*Submission, error)
}
