package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dkalnina/notedrop/internal/imghost"
	"github.com/dkalnina/notedrop/internal/logging"
	"github.com/dkalnina/notedrop/internal/notion"
	"github.com/dkalnina/notedrop/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecrets resolves from a fixed map; missing keys are absent, not errors.
type fakeSecrets map[string]string

func (f fakeSecrets) Resolve(ctx context.Context, name string) (string, bool, error) {
	v, ok := f[name]
	return v, ok, nil
}

func allSecrets() fakeSecrets {
	return fakeSecrets{
		secrets.NotionToken:      "tok",
		secrets.NotionDatabaseID: "db-1",
		secrets.ImgurClientID:    "cid",
	}
}

// fakeUploader maps paths to canned URLs or errors and counts calls.
type fakeUploader struct {
	mu    sync.Mutex
	urls  map[string]string
	errs  map[string]error
	calls []string
	block chan struct{} // when set, Upload waits for ctx or the channel
}

func (f *fakeUploader) Upload(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if err, ok := f.errs[path]; ok {
		return "", err
	}
	if url, ok := f.urls[path]; ok {
		return url, nil
	}
	return "", errors.New("unexpected path: " + path)
}

func (f *fakeUploader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakePublisher captures every page it is asked to create.
type fakePublisher struct {
	mu    sync.Mutex
	pages []notion.Page
	err   error
}

func (f *fakePublisher) CreatePage(ctx context.Context, page notion.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.pages = append(f.pages, page)
	return nil
}

func (f *fakePublisher) published() []notion.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notion.Page(nil), f.pages...)
}

// fakeRecorder collects pipeline records.
type fakeRecorder struct {
	mu   sync.Mutex
	recs []Record
}

func (f *fakeRecorder) Record(ctx context.Context, rec Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recs = append(f.recs, rec)
}

func newPipeline(sec Secrets, up imghost.Uploader, pub notion.Publisher, rec Recorder) *Pipeline {
	return NewPipeline(sec, up, pub, rec, logging.NewDefault())
}

func TestSubmit_TextOnly(t *testing.T) {
	up := &fakeUploader{}
	pub := &fakePublisher{}
	p := newPipeline(allSecrets(), up, pub, nil)

	err := p.Submit(context.Background(), Request{Text: "Buy milk"})
	require.NoError(t, err)

	pages := pub.published()
	require.Len(t, pages, 1)
	assert.Equal(t, "db-1", pages[0].DatabaseID)
	assert.Equal(t, "Buy milk", pages[0].Title)
	assert.Empty(t, pages[0].ImageURLs)
	assert.Equal(t, 0, up.callCount())
}

func TestSubmit_ImageOnlyEmptyTitle(t *testing.T) {
	up := &fakeUploader{urls: map[string]string{"/tmp/a.png": "https://img/a"}}
	pub := &fakePublisher{}
	p := newPipeline(allSecrets(), up, pub, nil)

	err := p.Submit(context.Background(), Request{Images: []string{"/tmp/a.png"}})
	require.NoError(t, err)

	require.Equal(t, 1, up.callCount())
	pages := pub.published()
	require.Len(t, pages, 1)
	assert.Equal(t, "", pages[0].Title)
	assert.Equal(t, []string{"https://img/a"}, pages[0].ImageURLs)
}

func TestSubmit_PartialUploadFailureIsAbsorbed(t *testing.T) {
	up := &fakeUploader{
		urls: map[string]string{"/tmp/good.png": "https://img/good"},
		errs: map[string]error{"/tmp/bad.png": &imghost.UploadError{Path: "/tmp/bad.png", Kind: imghost.KindLocalFile}},
	}
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	p := newPipeline(allSecrets(), up, pub, rec)

	err := p.Submit(context.Background(), Request{Text: "note", Images: []string{"/tmp/good.png", "/tmp/bad.png"}})
	require.NoError(t, err, "partial upload failure must not fail the submission")

	pages := pub.published()
	require.Len(t, pages, 1)
	assert.Equal(t, "note", pages[0].Title)
	assert.Equal(t, []string{"https://img/good"}, pages[0].ImageURLs)

	require.Len(t, rec.recs, 1)
	assert.Equal(t, 2, rec.recs[0].ImagesTotal)
	assert.Equal(t, 1, rec.recs[0].ImagesUploaded)
	assert.NoError(t, rec.recs[0].Err)
}

func TestSubmit_AllUploadsFailStillPublishes(t *testing.T) {
	boom := errors.New("boom")
	up := &fakeUploader{errs: map[string]error{"/a": boom, "/b": boom}}
	pub := &fakePublisher{}
	p := newPipeline(allSecrets(), up, pub, nil)

	err := p.Submit(context.Background(), Request{Text: "title", Images: []string{"/a", "/b"}})
	require.NoError(t, err)

	pages := pub.published()
	require.Len(t, pages, 1)
	assert.Empty(t, pages[0].ImageURLs)
	assert.Equal(t, "title", pages[0].Title)
}

func TestSubmit_MissingSecretFailsFastWithoutNetworkCalls(t *testing.T) {
	for _, missing := range secrets.Names {
		sec := allSecrets()
		delete(sec, missing)

		up := &fakeUploader{urls: map[string]string{"/a": "https://img/a"}}
		pub := &fakePublisher{}
		p := newPipeline(sec, up, pub, nil)

		err := p.Submit(context.Background(), Request{Text: "x", Images: []string{"/a"}})
		require.ErrorIs(t, err, ErrCredentialMissing, "missing %s", missing)

		assert.Equal(t, 0, up.callCount(), "missing %s must block uploads", missing)
		assert.Empty(t, pub.published(), "missing %s must block publish", missing)
	}
}

func TestSubmit_EmptyRequestRejected(t *testing.T) {
	pub := &fakePublisher{}
	p := newPipeline(allSecrets(), &fakeUploader{}, pub, nil)

	err := p.Submit(context.Background(), Request{})
	require.ErrorIs(t, err, ErrEmptyRequest)
	assert.Empty(t, pub.published())
}

func TestSubmit_PublishFailureIsTerminal(t *testing.T) {
	pub := &fakePublisher{err: &notion.PublishError{Kind: notion.KindHTTPStatus, Status: 500}}
	rec := &fakeRecorder{}
	p := newPipeline(allSecrets(), &fakeUploader{}, pub, rec)

	err := p.Submit(context.Background(), Request{Text: "x"})
	var pe *notion.PublishError
	require.ErrorAs(t, err, &pe)

	require.Len(t, rec.recs, 1)
	assert.Error(t, rec.recs[0].Err)
}

func TestSubmit_NoDeduplication(t *testing.T) {
	pub := &fakePublisher{}
	p := newPipeline(allSecrets(), &fakeUploader{}, pub, nil)

	req := Request{Text: "same note"}
	require.NoError(t, p.Submit(context.Background(), req))
	require.NoError(t, p.Submit(context.Background(), req))

	assert.Len(t, pub.published(), 2, "identical captures create two pages")
}

func TestSubmit_CancellationAbortsBeforePublish(t *testing.T) {
	up := &fakeUploader{
		urls:  map[string]string{"/a": "https://img/a"},
		block: make(chan struct{}),
	}
	pub := &fakePublisher{}
	p := newPipeline(allSecrets(), up, pub, nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- p.Submit(ctx, Request{Text: "x", Images: []string{"/a"}})
	}()

	// wait until the upload is in flight, then dismiss the session
	require.Eventually(t, func() bool { return up.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, pub.published(), "cancelled submission must not publish")
}

func TestSubmit_RecordsSuccess(t *testing.T) {
	rec := &fakeRecorder{}
	p := newPipeline(allSecrets(), &fakeUploader{}, &fakePublisher{}, rec)

	require.NoError(t, p.Submit(context.Background(), Request{Text: "hello"}))

	require.Len(t, rec.recs, 1)
	assert.Equal(t, "hello", rec.recs[0].Title)
	assert.NoError(t, rec.recs[0].Err)
}
