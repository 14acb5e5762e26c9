// Package config holds runtime settings for the notedrop shell and the
// submission pipeline. Values are layered: defaults, then an optional JSON
// file, then command-line flags, with later sources taking precedence.
package config

import "time"

// Supported image host backends.
const (
	ImageHostImgur = "imgur"
	ImageHostS3    = "s3"
)

type Config struct {
	// NotionBaseURL is the Notion API root, without a trailing slash.
	NotionBaseURL string
	// ImgurBaseURL is the Imgur API root, without a trailing slash.
	ImgurBaseURL string
	// ImageHost selects the upload backend: "imgur" (default) or "s3".
	ImageHost string
	// DataDir holds the local database and the vault keyfile.
	DataDir string
	// RequestTimeout bounds each outbound HTTP request.
	RequestTimeout time.Duration

	// S3 settings, used only when ImageHost is "s3".
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	S3PublicBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.NotionBaseURL = "https://api.notion.com"
	c.ImgurBaseURL = "https://api.imgur.com"
	c.ImageHost = ImageHostImgur
	c.DataDir = "notedrop-data"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
