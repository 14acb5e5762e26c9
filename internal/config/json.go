package config

import (
	"encoding/json"
	"os"

	"github.com/dkalnina/notedrop/internal/flagx"
	"github.com/dkalnina/notedrop/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds. Empty fields leave the current value
// untouched.
type JsonConfig struct {
	NotionBaseURL   string         `json:"notion_base_url"`
	ImgurBaseURL    string         `json:"imgur_base_url"`
	ImageHost       string         `json:"image_host"`
	DataDir         string         `json:"data_dir"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	S3PublicBaseURL string         `json:"s3_public_base_url"`
}

// parseJson overlays cfg with values loaded from the JSON file given via the
// -c/-config flags. If no file is specified, nothing happens. Read or
// unmarshal errors panic; callers run this at startup where a bad config file
// should be fatal.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.NotionBaseURL != "" {
		cfg.NotionBaseURL = jc.NotionBaseURL
	}
	if jc.ImgurBaseURL != "" {
		cfg.ImgurBaseURL = jc.ImgurBaseURL
	}
	if jc.ImageHost != "" {
		cfg.ImageHost = jc.ImageHost
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RequestTimeout != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Std()
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3PublicBaseURL != "" {
		cfg.S3PublicBaseURL = jc.S3PublicBaseURL
	}
}
