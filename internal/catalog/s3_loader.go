package catalog

import (
	"compress/gzip"
	"context"
	"fmt"

	"spendly/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for reading gzipped seed files from AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based catalog loader.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-catalog-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 catalog loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Load reads a gzipped JSON-lines seed file from S3. The key parameter is
// the full S3 key including any prefix.
func (l *s3Loader) Load(ctx context.Context, key string) ([]model.Product, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading catalog seed from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to get seed object from S3")
		return nil, fmt.Errorf("failed to get seed object %s: %w", key, err)
	}
	defer result.Body.Close()

	gzipReader, err := gzip.NewReader(result.Body)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", key, err)
	}
	defer gzipReader.Close()

	products, err := decodeProducts(ctx, gzipReader)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("error reading seed object")
		return nil, fmt.Errorf("error reading seed object %s: %w", key, err)
	}

	l.logger.Info().
		Str("key", key).
		Int("products", len(products)).
		Msg("catalog seed loaded from S3")

	return products, nil
}
