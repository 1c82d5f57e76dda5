package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:embed seed.yaml
var seedCatalog []byte

// Source opens a catalog document. Name carries the extension used to pick a decoder.
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a catalog from the local filesystem
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	return f, nil
}

// ObjectGetter is the subset of the S3 client used to fetch a catalog
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a catalog object from S3
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

func (s S3Source) Name() string { return path.Base(s.Key) }

func (s S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	return out.Body, nil
}

// EmbeddedSource is the default catalog compiled into the binary
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "seed.yaml" }

func (EmbeddedSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(seedCatalog)), nil
}
