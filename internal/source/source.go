package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Reader opens export files by URI. Plain paths read from the local
// filesystem; s3://bucket/key URIs are fetched from S3. The S3 client is
// created on first use so local-only runs never touch AWS config.
type Reader struct {
	region  string
	profile string
	s3      *s3.Client
}

func New(region, profile string) *Reader {
	return &Reader{region: region, profile: profile}
}

func (r *Reader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if strings.HasPrefix(uri, "s3://") {
		return r.openS3(ctx, uri)
	}
	f, err := os.Open(uri)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uri, err)
	}
	return f, nil
}

func (r *Reader) openS3(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return nil, err
	}

	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get S3 object %s: %w", uri, err)
	}
	return out.Body, nil
}

func (r *Reader) client(ctx context.Context) (*s3.Client, error) {
	if r.s3 != nil {
		return r.s3, nil
	}

	var awsCfg aws.Config
	var err error
	if r.profile != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(r.region),
			awsconfig.WithSharedConfigProfile(r.profile),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(r.region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	r.s3 = s3.NewFromConfig(awsCfg)
	return r.s3, nil
}

func splitS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q", uri)
	}
	return parts[0], parts[1], nil
}
