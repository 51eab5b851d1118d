package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectAPI is the subset of the S3 client used for artifacts.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds the remote artifact location.
type S3Config struct {
	Bucket string
	Prefix string
	Region string
}

// S3Source mirrors artifacts between an S3 prefix and the local store.
type S3Source struct {
	client ObjectAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Source builds a client from the default AWS credential chain.
func NewS3Source(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewS3SourceWithClient(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewS3SourceWithClient wraps an existing client.
func NewS3SourceWithClient(client ObjectAPI, cfg S3Config, logger *slog.Logger) *S3Source {
	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
	}
}

func (s *S3Source) key(name string) string {
	return path.Join(s.prefix, name)
}

// Fetch downloads both artifacts into the store's directory.
func (s *S3Source) Fetch(ctx context.Context, store *ArtifactStore) error {
	for _, dst := range []string{store.PreprocessorPath(), store.ModelPath()} {
		key := s.key(filepath.Base(dst))

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
		}

		err = store.writeFile(dst, func(w io.Writer) error {
			_, err := io.Copy(w, out.Body)
			return err
		})
		out.Body.Close()
		if err != nil {
			return err
		}
		s.logger.Info("fetched artifact", "bucket", s.bucket, "key", key, "path", dst)
	}
	return nil
}

// Push uploads both local artifacts.
func (s *S3Source) Push(ctx context.Context, store *ArtifactStore) error {
	for _, src := range []string{store.PreprocessorPath(), store.ModelPath()} {
		key := s.key(filepath.Base(src))

		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("open artifact: %w", err)
		}
		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        f,
			ContentType: aws.String("application/json"),
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
		}
		s.logger.Info("pushed artifact", "bucket", s.bucket, "key", key, "path", src)
	}
	return nil
}
