package shttp

import (
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
)

// S3GetObjectAPI is the part of the S3 client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves static files from a bucket, below an optional key prefix.
type S3Source struct {
	client S3GetObjectAPI
	bucket string
	prefix string
}

// NewS3Source inits a file source on bucket.
func NewS3Source(client S3GetObjectAPI, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// Open fetches the object. Missing keys yield ErrFileNotFound.
func (s *S3Source) Open(ctx context.Context, name string) (*File, error) {
	key := path.Join(s.prefix, name)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil, errors.Mark(errors.Wrapf(err, "get %q", key), ErrFileNotFound)
	} else if err != nil {
		return nil, errors.Wrapf(err, "get %q", key)
	}

	return &File{
		Body:          out.Body,
		Size:          aws.ToInt64(out.ContentLength),
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: out.ContentLength != nil,
	}, nil
}

var _ FileSource = &S3Source{}
