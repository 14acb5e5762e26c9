// Package capture implements the submission pipeline: one user-initiated
// capture (text and/or images) is turned into exactly one new Notion page,
// with images uploaded to the configured image host first and embedded by
// public URL.
//
// A pipeline run is single-use: each Request is a fresh run that walks
// resolving secrets → uploading images → publishing, and every stage honors
// context cancellation so dismissing the capture session aborts outstanding
// network calls.
package capture

import (
	"context"
	"errors"
)

// Request is one capture, committed by the user. Text may be empty and
// Images may be empty, but not both; it is immutable once submission begins.
type Request struct {
	Text   string
	Images []string
}

// Empty reports whether the request carries neither text nor images. The
// shell gates such requests before the pipeline is ever invoked; Submit
// additionally rejects them with ErrEmptyRequest.
func (r Request) Empty() bool {
	return r.Text == "" && len(r.Images) == 0
}

// UploadResult is the outcome for a single input image. An empty URL (Err
// set) means the image is silently dropped from the published page; it is
// not retried and does not fail the submission.
type UploadResult struct {
	Source string
	URL    string
	Err    error
}

// Secrets is the credential lookup the pipeline fails fast on. Satisfied by
// secrets.Provider.
type Secrets interface {
	Resolve(ctx context.Context, name string) (string, bool, error)
}

// Recorder receives one record per finished pipeline run. Implementations
// must not block the pipeline on failure; recording is best effort.
type Recorder interface {
	Record(ctx context.Context, rec Record)
}

// Record summarizes one finished submission for the history log.
type Record struct {
	Title          string
	ImagesTotal    int
	ImagesUploaded int
	Err            error
}

var (
	// ErrEmptyRequest rejects a capture with no text and no images.
	ErrEmptyRequest = errors.New("empty capture request")

	// ErrCredentialMissing aborts a submission before any network call when
	// one of the three required secrets is absent.
	ErrCredentialMissing = errors.New("credentials missing")
)
