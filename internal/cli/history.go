package cli

import (
	"context"
	"fmt"
)

// historyLimit bounds the history listing.
const historyLimit = 10

// History prints the most recent submissions, newest first.
func (a *App) History(ctx context.Context) error {
	items, err := a.history.Recent(ctx, historyLimit)
	if err != nil {
		printlnFn(err.Error())
		return err
	}

	if len(items) == 0 {
		printlnFn("No submissions yet")
		return nil
	}

	for _, s := range items {
		line := fmt.Sprintf("%s  %-9s  %d/%d  %s",
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Status, s.ImagesUploaded, s.ImagesTotal, title(s.Title))
		if s.Error != "" {
			line += "  (" + s.Error + ")"
		}
		printlnFn(line)
	}
	return nil
}

// title shortens long note text for the one-line listing.
func title(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
