package export

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"google.golang.org/api/option"

	"github.com/orion-ad/guardian/internal/config"
)

// Sink is a Downloader that may hold resources needing release
type Sink struct {
	Downloader
	Name  string
	close func() error
}

// Close releases the sink's client, if any
func (s *Sink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewSink builds the archive sink selected by cfg.Sink
func NewSink(ctx context.Context, cfg config.ExportConfig) (*Sink, error) {
	switch cfg.Sink {
	case config.SinkDir, "":
		return &Sink{Downloader: DirDownloader{Dir: cfg.Dir}, Name: "dir:" + cfg.Dir}, nil
	case config.SinkS3:
		return newS3Sink(ctx, cfg)
	case config.SinkGCS:
		return newGCSSink(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported export sink: %s", cfg.Sink)
	}
}

func newS3Sink(ctx context.Context, cfg config.ExportConfig) (*Sink, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Sink{
		Downloader: S3Downloader{Client: s3Client, Bucket: cfg.S3Bucket, Prefix: cfg.S3Prefix},
		Name:       fmt.Sprintf("s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix),
	}, nil
}

func newGCSSink(ctx context.Context, cfg config.ExportConfig) (*Sink, error) {
	var opts []option.ClientOption
	if cfg.GCSCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCSCredentialsFile))
	}

	gcsClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &Sink{
		Downloader: GCSDownloader{Client: gcsClient, Bucket: cfg.GCSBucket, Prefix: cfg.GCSPrefix},
		Name:       fmt.Sprintf("gs://%s/%s", cfg.GCSBucket, cfg.GCSPrefix),
		close:      gcsClient.Close,
	}, nil
}
