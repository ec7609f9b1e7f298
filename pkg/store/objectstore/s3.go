// Package objectstore fetches sales CSV extracts from S3 so they can be
// bulk loaded like local files.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

const DefaultRegion = "us-east-1"

// Getter is the part of *s3.Client the download needs.
type Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// ClientFactory builds a Getter for a shared AWS config profile. An empty
// profile uses the default credential chain.
type ClientFactory func(ctx context.Context, profile string) (Getter, error)

type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// ParseURI reports ok=false for anything that is not an s3:// URI.
func ParseURI(uri string) (loc Location, ok bool, err error) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return Location{}, false, nil
	}
	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return Location{}, true, fmt.Errorf("invalid s3 object uri %q", uri)
	}
	return Location{Bucket: bucket, Key: key}, true, nil
}

func NewS3Client(ctx context.Context, profile string) (Getter, error) {
	opts := []func(*config.LoadOptions) error{config.WithDefaultRegion(DefaultRegion)}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Download copies the object into a new temporary file under dir and returns
// its path. The caller removes the file.
func Download(ctx context.Context, client Getter, loc Location, dir string) (string, error) {
	logger := zerolog.Ctx(ctx)

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return "", fmt.Errorf("get %s: %w", loc, err)
	}
	defer out.Body.Close()

	f, err := os.CreateTemp(dir, "salespulse-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	n, err := io.Copy(f, out.Body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("download %s: %w", loc, err)
	}

	logger.Debug().Str("object", loc.String()).Int64("bytes", n).Msg("downloaded object")
	return f.Name(), nil
}
