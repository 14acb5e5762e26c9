package cli

import (
	"context"

	"github.com/dkalnina/notedrop/internal/capture"
	"github.com/dkalnina/notedrop/internal/filex"
)

// Capture collects one note (text and/or image paths) and hands it to the
// pipeline in the background. The prompt returns immediately; outcomes land
// in the log stream and the history table.
//
// An input with no text and no images is dropped here and the pipeline is
// never invoked.
func (a *App) Capture(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Note text", a.out)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	images, err := GetLines(a.reader, "Image paths, one per line", a.out)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	for _, path := range images {
		if !filex.IsReadableFile(path) {
			printlnFn("Warning: cannot read", path)
		}
	}

	req := capture.Request{Text: text, Images: images}
	if req.Empty() {
		printlnFn("Nothing to send")
		return nil
	}

	a.submit(req)
	printlnFn("Sending in the background...")
	return nil
}

// submit runs the pipeline on its own goroutine, bound to the app session
// rather than the capture prompt: returning to the prompt never aborts a
// committed note, exiting the shell cancels whatever is still on the wire.
func (a *App) submit(req capture.Request) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.pipeline.Submit(a.sessionCtx, req); err != nil {
			a.log.Error(a.sessionCtx, "submission failed", "error", err)
			return
		}
		a.log.Info(a.sessionCtx, "note published", "images", len(req.Images))
	}()
}
