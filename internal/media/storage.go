package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// S3Uploader writes objects to a bucket. A custom endpoint switches to
// path-style addressing for S3-compatible stores.
type S3Uploader struct {
	client *s3.Client
	opts   S3Options
}

func NewS3Uploader(opts S3Options) *S3Uploader {
	cfg := aws.Config{
		Region:      opts.Region,
		Credentials: aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{client: client, opts: opts}
}

func (u *S3Uploader) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.opts.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return u.URL(key), nil
}

func (u *S3Uploader) URL(key string) string {
	switch {
	case u.opts.PublicBaseURL != "":
		return strings.TrimRight(u.opts.PublicBaseURL, "/") + "/" + key
	case u.opts.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.opts.Endpoint, "/"), u.opts.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.opts.Bucket, u.opts.Region, key)
	}
}
