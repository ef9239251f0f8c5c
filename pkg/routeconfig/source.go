package routeconfig

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	rerrors "github.com/vango-dev/vrouter/internal/errors"
	"github.com/vango-dev/vrouter/pkg/router"
)

// MaxFileSize bounds how much of a route file is read.
const MaxFileSize = 4 << 20

// Source supplies the bytes of a route file.
type Source interface {
	// Name identifies the file; its extension selects the format.
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads a route file from disk.
type FileSource string

func (s FileSource) Name() string { return string(s) }

func (s FileSource) Read(ctx context.Context) ([]byte, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLimited(f)
}

// S3API is the subset of *s3.Client a S3Source uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a route file from an S3 object.
type S3Source struct {
	Client S3API
	Bucket string
	Key    string
}

// NewS3Source returns a source for an "s3://bucket/key" URI using the
// default AWS credential chain.
func NewS3Source(ctx context.Context, uri string, optFns ...func(*awsconfig.LoadOptions) error) (*S3Source, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Source{Client: s3.NewFromConfig(cfg), Bucket: bucket, Key: key}, nil
}

// ParseS3URI splits "s3://bucket/key" into its bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 URI: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 URI needs a bucket and a key: %q", uri)
	}
	return bucket, key, nil
}

func (s *S3Source) Name() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s *S3Source) Read(ctx context.Context) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer out.Body.Close()
	return readLimited(out.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("route file exceeds %d bytes", MaxFileSize)
	}
	return data, nil
}

// Open returns the source for location: an S3 source for "s3://" URIs,
// a file otherwise.
func Open(ctx context.Context, location string) (Source, error) {
	if strings.HasPrefix(location, "s3://") {
		src, err := NewS3Source(ctx, location)
		if err != nil {
			return nil, rerrors.New("R020").Wrap(err)
		}
		return src, nil
	}
	return FileSource(location), nil
}

// Load reads and decodes src and builds its routes against reg.
func Load(ctx context.Context, src Source, reg *Registry) ([]router.RouteConfig, error) {
	if _, err := FormatOf(src.Name()); err != nil {
		return nil, err
	}
	data, err := src.Read(ctx)
	if err != nil {
		return nil, rerrors.New("R020").WithDetail(fmt.Sprintf("Reading %s failed.", src.Name())).Wrap(err)
	}
	f, err := Decode(src.Name(), data)
	if err != nil {
		return nil, err
	}
	return f.Build(reg)
}

// LoadLocation opens location and loads it.
func LoadLocation(ctx context.Context, location string, reg *Registry) ([]router.RouteConfig, error) {
	src, err := Open(ctx, location)
	if err != nil {
		return nil, err
	}
	return Load(ctx, src, reg)
}
