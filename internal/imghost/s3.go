package imghost

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Seams for tests, mirroring how the SDK is constructed in production.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// S3Config configures the alternate S3 image host.
type S3Config struct {
	Bucket string
	Region string
	// BaseEndpoint overrides the SDK endpoint (e.g. a MinIO address). Empty
	// means AWS proper.
	BaseEndpoint string
	// PublicBaseURL is the root under which uploaded keys are publicly
	// reachable. Empty derives the standard AWS virtual-hosted URL.
	PublicBaseURL string
	// AccessKeyID/SecretAccessKey switch the SDK to static credentials when
	// both are set; otherwise the default chain applies.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Uploader stores images in a public S3 bucket under random date-scoped
// keys.
type S3Uploader struct {
	cfg S3Config
}

func NewS3Uploader(cfg S3Config) *S3Uploader {
	return &S3Uploader{cfg: cfg}
}

func (u *S3Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(u.cfg.Region),
	}
	if u.cfg.AccessKeyID != "" && u.cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(u.cfg.AccessKeyID, u.cfg.SecretAccessKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(u.cfg.BaseEndpoint)
		}
	})

	return client, nil
}

// storageKey returns a date-scoped random object key preserving the source
// extension.
func storageKey(path string) string {
	d := time.Now()
	return fmt.Sprintf("captures/%d/%02d/%02d/%s%s",
		d.Year(), int(d.Month()), d.Day(), uuid.New(), filepath.Ext(path))
}

func (u *S3Uploader) Upload(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindLocalFile, Err: err}
	}

	client, err := u.getClient(ctx)
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindTransport, Err: err}
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := storageKey(path)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", &UploadError{Path: path, Kind: KindTransport, Err: err}
	}

	return u.publicURL(key), nil
}

func (u *S3Uploader) publicURL(key string) string {
	if u.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s", u.cfg.PublicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}
