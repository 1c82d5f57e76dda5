package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info for the recipe catalog
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Key        string
}

// NewS3Config initializes the S3 client from the AWS default credential chain
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, config.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.CatalogS3Bucket,
		Key:        cfg.CatalogS3Key,
	}, nil
}
