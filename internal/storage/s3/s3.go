// Package s3 stores uploaded book documents in an S3-compatible bucket.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type Client struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string

	httpc *http.Client
}

// NewClient builds a client for any S3-compatible endpoint (AWS, R2, MinIO)
// from AWS_ENDPOINT / AWS_REGION / AWS_BUCKET and static credentials.
func NewClient(ctx context.Context) (*Client, error) {
	endpoint := os.Getenv("AWS_ENDPOINT")
	region := os.Getenv("AWS_REGION")
	bucket := os.Getenv("AWS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_BUCKET not set")
	}

	creds := credentials.NewStaticCredentialsProvider(
		os.Getenv("AWS_ACCESS_KEY_ID"),
		os.Getenv("AWS_SECRET_ACCESS_KEY"),
		"",
	)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &Client{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
		httpc:     &http.Client{Timeout: 2 * time.Minute},
	}, nil
}

// Upload streams body to the bucket through a presigned PUT. contentLength
// must be set: some S3-compatible stores reject chunked uploads without it.
func (c *Client) Upload(ctx context.Context, objectKey string, body io.Reader, contentType string, contentLength int64) error {
	uploadURL, err := c.presignPut(ctx, objectKey, contentType)
	if err != nil {
		return fmt.Errorf("generate presigned upload url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("create put request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", strconv.FormatInt(contentLength, 10))
	req.ContentLength = contentLength // ensure no chunked encoding

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("put to object store failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("object store upload failed status=%d", resp.StatusCode)
	}
	return nil
}

// DownloadURL returns a presigned GET URL for a stored document.
func (c *Client) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	req, err := c.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 15 * time.Minute
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

// Delete removes an object (cleanup after a failed insert).
func (c *Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3: delete object %s: %w", objectKey, err)
	}
	return nil
}

func (c *Client) presignPut(ctx context.Context, objectKey, contentType string) (string, error) {
	req, err := c.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.Bucket),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 15 * time.Minute
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
