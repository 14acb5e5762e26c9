package imghost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkalnina/notedrop/internal/secrets"
)

// ImgurClient uploads images to the Imgur API with anonymous (client-id)
// authorization.
type ImgurClient struct {
	baseURL string
	creds   Credentials
	http    *http.Client
}

// NewImgurClient returns an ImgurClient for the given API root (no trailing
// slash). The client id is resolved from creds on every upload, so values
// entered via setup take effect without restarting.
func NewImgurClient(baseURL string, creds Credentials, timeout time.Duration) *ImgurClient {
	return &ImgurClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: timeout},
	}
}

// imgurResponse is the subset of the Imgur response body we care about.
type imgurResponse struct {
	Data struct {
		Link string `json:"link"`
	} `json:"data"`
}

// Upload POSTs the file at path as a single multipart part named "image" and
// returns the public link Imgur assigns to it.
func (c *ImgurClient) Upload(ctx context.Context, path string) (string, error) {
	clientID, present, err := c.creds.Resolve(ctx, secrets.ImgurClientID)
	if err != nil {
		return "", fmt.Errorf("resolve imgur client id: %w", err)
	}
	if !present {
		return "", fmt.Errorf("resolve imgur client id: %w", ErrMissingCredential)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindLocalFile, Err: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreatePart(imagePartHeader(path))
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindLocalFile, Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return "", &UploadError{Path: path, Kind: KindLocalFile, Err: err}
	}
	if err := writer.Close(); err != nil {
		return "", &UploadError{Path: path, Kind: KindLocalFile, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/3/image", &body)
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Authorization", "Client-ID "+clientID)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &UploadError{Path: path, Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	var parsed imgurResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UploadError{Path: path, Kind: KindMalformedResponse, Err: err}
	}
	if parsed.Data.Link == "" {
		return "", &UploadError{Path: path, Kind: KindMalformedResponse, Err: fmt.Errorf("response has no data.link")}
	}

	return parsed.Data.Link, nil
}

// imagePartHeader builds the MIME header for the single "image" form part,
// with the content type derived from the file extension.
func imagePartHeader(path string) textproto.MIMEHeader {
	filename := filepath.Base(path)

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	return h
}

func escapeQuotes(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}
