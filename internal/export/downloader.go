package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Downloader saves an exported file. It is the only place an export
// touches the outside world.
type Downloader interface {
	Download(ctx context.Context, filename, contentType string, content []byte) error
}

// DownloaderFunc adapts a function to Downloader
type DownloaderFunc func(ctx context.Context, filename, contentType string, content []byte) error

// Download calls f
func (f DownloaderFunc) Download(ctx context.Context, filename, contentType string, content []byte) error {
	return f(ctx, filename, contentType, content)
}

// ErrResponseStarted marks a download that failed after the response
// headers were sent. Nothing more may be written to that response.
var ErrResponseStarted = errors.New("response already started")

// ResponseDownloader streams the file to a browser as an attachment
type ResponseDownloader struct {
	W http.ResponseWriter
}

// Download writes the attachment headers and the content. A failed body
// write is reported wrapped in ErrResponseStarted.
func (d ResponseDownloader) Download(_ context.Context, filename, contentType string, content []byte) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := d.W.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	d.W.WriteHeader(http.StatusOK)
	if _, err := d.W.Write(content); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseStarted, err)
	}
	return nil
}

// DirDownloader writes files into a local directory
type DirDownloader struct {
	Dir string
}

// Download writes content to Dir/filename. Only the base name of filename
// is used.
func (d DirDownloader) Download(_ context.Context, filename, _ string, content []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	target := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// S3API is the subset of the S3 client used for uploads
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Downloader uploads exports to an S3 bucket
type S3Downloader struct {
	Client S3API
	Bucket string
	Prefix string
}

// Download uploads content to s3://Bucket/Prefix/filename
func (d S3Downloader) Download(ctx context.Context, filename, contentType string, content []byte) error {
	key := objectKey(d.Prefix, filename)
	_, err := d.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", d.Bucket, key, err)
	}
	return nil
}

// GCSDownloader uploads exports to a Cloud Storage bucket
type GCSDownloader struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

// Download uploads content to gs://Bucket/Prefix/filename
func (d GCSDownloader) Download(ctx context.Context, filename, contentType string, content []byte) error {
	key := objectKey(d.Prefix, filename)
	w := d.Client.Bucket(d.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return fmt.Errorf("upload gs://%s/%s: %w", d.Bucket, key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("upload gs://%s/%s: %w", d.Bucket, key, err)
	}
	return nil
}

func objectKey(prefix, filename string) string {
	return path.Join(prefix, path.Base(filename))
}
