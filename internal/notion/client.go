package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkalnina/notedrop/internal/secrets"
)

// Client is an HTTP Publisher against the Notion REST API.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
}

// NewClient returns a Client for the given API root (no trailing slash). The
// integration token is resolved from creds per request.
func NewClient(baseURL string, creds Credentials, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: timeout},
	}
}

// Wire shapes of the create-page request. Only the fields this tool produces
// are present; see the Notion "Create a page" reference for the full schema.
type createPageRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties pageProperties `json:"properties"`
	Children   []pageBlock    `json:"children"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type pageProperties struct {
	Title titleProperty `json:"Title"`
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type richText struct {
	Type string   `json:"type"`
	Text textBody `json:"text"`
}

type textBody struct {
	Content string `json:"content"`
}

type pageBlock struct {
	Object string     `json:"object"`
	Type   string     `json:"type"`
	Image  imageBlock `json:"image"`
}

type imageBlock struct {
	Type     string       `json:"type"`
	External externalFile `json:"external"`
}

type externalFile struct {
	URL string `json:"url"`
}

// buildCreatePageRequest maps a Page onto the wire shape. The title is always
// a single rich-text run, even when empty, and children preserve the input
// URL order. An empty URL list yields an empty (not null) children array.
func buildCreatePageRequest(page Page) createPageRequest {
	children := make([]pageBlock, 0, len(page.ImageURLs))
	for _, u := range page.ImageURLs {
		children = append(children, pageBlock{
			Object: "block",
			Type:   "image",
			Image: imageBlock{
				Type:     "external",
				External: externalFile{URL: u},
			},
		})
	}

	return createPageRequest{
		Parent: pageParent{DatabaseID: page.DatabaseID},
		Properties: pageProperties{
			Title: titleProperty{
				Title: []richText{{Type: "text", Text: textBody{Content: page.Title}}},
			},
		},
		Children: children,
	}
}

// CreatePage issues one POST /v1/pages call. The response body is not parsed
// beyond the status code; a page either exists afterwards or it does not.
func (c *Client) CreatePage(ctx context.Context, page Page) error {
	token, present, err := c.creds.Resolve(ctx, secrets.NotionToken)
	if err != nil {
		return fmt.Errorf("resolve notion token: %w", err)
	}
	if !present {
		return fmt.Errorf("resolve notion token: %w", ErrMissingCredential)
	}

	body, err := json.Marshal(buildCreatePageRequest(page))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return &PublishError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &PublishError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &PublishError{Kind: KindHTTPStatus, Status: resp.StatusCode}
	}

	return nil
}
