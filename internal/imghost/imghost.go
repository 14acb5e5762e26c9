// Package imghost uploads local image files to a public image host and
// returns the resulting public URLs. Imgur is the default backend; an
// S3-compatible bucket can be selected instead via configuration.
package imghost

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredential is returned when the backend's credential cannot be
// resolved. The pipeline fails fast before uploads start, so hitting this
// means the secret disappeared between resolution and use.
var ErrMissingCredential = errors.New("credential missing")

// Uploader uploads one local file and returns its public URL. An error for
// one file must not affect uploads of other files; callers treat each upload
// as an independent failure domain.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Credentials resolves named secrets for the upload backends. Satisfied by
// secrets.Provider.
type Credentials interface {
	Resolve(ctx context.Context, name string) (string, bool, error)
}

// ErrorKind classifies upload failures.
type ErrorKind string

const (
	// KindTransport covers connection, DNS, and timeout failures.
	KindTransport ErrorKind = "transport"
	// KindHTTPStatus covers non-2xx responses.
	KindHTTPStatus ErrorKind = "http-status"
	// KindMalformedResponse covers unparseable or incomplete response bodies.
	KindMalformedResponse ErrorKind = "malformed-response"
	// KindLocalFile covers failures reading the source file itself.
	KindLocalFile ErrorKind = "local-file"
)

// UploadError describes a failed upload of a single file.
type UploadError struct {
	Path   string
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *UploadError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("upload %s: %s %d", e.Path, e.Kind, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("upload %s: %s: %v", e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("upload %s: %s", e.Path, e.Kind)
}

func (e *UploadError) Unwrap() error { return e.Err }
