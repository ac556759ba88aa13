package snapshots

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/taskboard/internal/server/models"
)

// S3API is the part of *s3.Client used by S3Repository.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Repository keeps the snapshot as one JSON object. A PutObject replaces
// the object as a whole, which gives Save its atomicity.
type S3Repository struct {
	client S3API
	bucket string
	key    string
}

func NewS3Repository(client S3API, bucket, key string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, key: key}
}

func (r *S3Repository) Load(ctx context.Context) (*models.Snapshot, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return models.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("s3 get object %s/%s: %w", r.bucket, r.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read object %s/%s: %w", r.bucket, r.key, err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("s3 object %s/%s: %w", r.bucket, r.key, err)
	}
	return s, nil
}

func (r *S3Repository) Save(ctx context.Context, s *models.Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(r.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put object %s/%s: %w", r.bucket, r.key, err)
	}
	return nil
}
