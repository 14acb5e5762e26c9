package capture

import (
	"context"
	"fmt"

	"github.com/dkalnina/notedrop/internal/imghost"
	"github.com/dkalnina/notedrop/internal/logging"
	"github.com/dkalnina/notedrop/internal/notion"
	"github.com/dkalnina/notedrop/internal/secrets"
)

// Pipeline orchestrates secret resolution, the upload fan-out, and the
// publish call for one capture at a time. It holds no per-run state, so a
// single Pipeline value serves any number of sequential submissions.
type Pipeline struct {
	secrets   Secrets
	uploader  imghost.Uploader
	publisher notion.Publisher
	recorder  Recorder
	log       logging.Logger
}

func NewPipeline(sec Secrets, uploader imghost.Uploader, publisher notion.Publisher, recorder Recorder, log logging.Logger) *Pipeline {
	return &Pipeline{
		secrets:   sec,
		uploader:  uploader,
		publisher: publisher,
		recorder:  recorder,
		log:       log.With("component", "pipeline"),
	}
}

// Submit runs one capture to completion. Credential and publish failures are
// terminal for the submission and returned to the caller; individual image
// upload failures are absorbed, degrading the page rather than losing the
// note. The error taxonomy is ErrEmptyRequest, ErrCredentialMissing,
// *imghost.UploadError (absorbed, visible only in logs and history counts),
// *notion.PublishError, and context errors.
func (p *Pipeline) Submit(ctx context.Context, req Request) error {
	if req.Empty() {
		return ErrEmptyRequest
	}

	return p.run(ctx, req)
}

func (p *Pipeline) run(ctx context.Context, req Request) error {
	databaseID, err := p.resolveSecrets(ctx)
	if err != nil {
		p.record(ctx, req, 0, err)
		return err
	}

	results := p.uploadAll(ctx, req.Images)

	if err := ctx.Err(); err != nil {
		p.record(ctx, req, countUploaded(results), err)
		return fmt.Errorf("submission cancelled: %w", err)
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.URL != "" {
			urls = append(urls, r.URL)
		}
	}

	page := notion.Page{DatabaseID: databaseID, Title: req.Text, ImageURLs: urls}
	if err := p.publisher.CreatePage(ctx, page); err != nil {
		p.record(ctx, req, len(urls), err)
		return fmt.Errorf("publish capture: %w", err)
	}

	p.log.Info(ctx, "capture published",
		"images_total", len(req.Images), "images_uploaded", len(urls))
	p.record(ctx, req, len(urls), nil)
	return nil
}

// resolveSecrets applies the fail-fast policy: all three secrets must be
// present before any network call is made. It returns the database id, the
// only secret the pipeline itself consumes; the clients re-resolve their own
// credentials at request time.
func (p *Pipeline) resolveSecrets(ctx context.Context) (string, error) {
	var databaseID string
	for _, name := range secrets.Names {
		v, present, err := p.secrets.Resolve(ctx, name)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", name, err)
		}
		if !present {
			return "", fmt.Errorf("%w: %s", ErrCredentialMissing, name)
		}
		if name == secrets.NotionDatabaseID {
			databaseID = v
		}
	}
	return databaseID, nil
}

func (p *Pipeline) record(ctx context.Context, req Request, uploaded int, err error) {
	if p.recorder == nil {
		return
	}
	p.recorder.Record(ctx, Record{
		Title:          req.Text,
		ImagesTotal:    len(req.Images),
		ImagesUploaded: uploaded,
		Err:            err,
	})
}

func countUploaded(results []UploadResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil && r.URL != "" {
			n++
		}
	}
	return n
}
