// Package notion creates pages in a Notion database through the public REST
// API. Only the narrow create-page surface this tool needs is modeled: one
// title property plus an array of external image blocks.
package notion

import (
	"context"
	"errors"
	"fmt"
)

// apiVersion is sent as the Notion-Version header on every request.
const apiVersion = "2022-06-28"

// Page is the input to CreatePage: the target database, the note text used
// as the title (may be empty for image-only notes), and the public image
// URLs to embed, in order.
type Page struct {
	DatabaseID string
	Title      string
	ImageURLs  []string
}

// Publisher creates one remote page per successful submission.
type Publisher interface {
	CreatePage(ctx context.Context, page Page) error
}

// Credentials resolves named secrets. Satisfied by secrets.Provider.
type Credentials interface {
	Resolve(ctx context.Context, name string) (string, bool, error)
}

// ErrMissingCredential is returned when the integration token cannot be
// resolved at request time.
var ErrMissingCredential = errors.New("credential missing")

// ErrSerialize marks a payload that could not be encoded; terminal for the
// submission, never retried.
var ErrSerialize = errors.New("serialize payload")

// ErrorKind classifies publish failures.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http-status"
)

// PublishError describes a failed create-page call.
type PublishError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *PublishError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("publish page: %s %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("publish page: %s: %v", e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
