package capture

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// uploadAll fans the uploader out over every image concurrently and joins
// when all uploads have either succeeded or failed. The returned slice is
// positionally aligned with paths regardless of completion order, and a
// failed upload never aborts its siblings: goroutines always return nil and
// park their outcome in the indexed slot.
func (p *Pipeline) uploadAll(ctx context.Context, paths []string) []UploadResult {
	results := make([]UploadResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			url, err := p.uploader.Upload(ctx, path)
			if err != nil {
				p.log.Warn(ctx, "image upload failed", "path", path, "error", err)
				results[i] = UploadResult{Source: path, Err: err}
				return nil
			}
			results[i] = UploadResult{Source: path, URL: url}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
