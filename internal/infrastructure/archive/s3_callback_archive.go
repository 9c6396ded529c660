package archive

import (
	"bytes"
	"context"
	"fmt"

	"mobilepay_ledger/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3CallbackArchive keeps every raw gateway callback body for audit and
// dispute handling.
type S3CallbackArchive struct {
	client S3API
	bucket string
	logger *zap.Logger
}

var _ interfaces.ICallbackArchive = (*S3CallbackArchive)(nil)

func NewS3CallbackArchive(client S3API, bucket string, logger *zap.Logger) *S3CallbackArchive {
	return &S3CallbackArchive{client: client, bucket: bucket, logger: logger.With(zap.String("component", "callback_archive"))}
}

func (a *S3CallbackArchive) Store(ctx context.Context, key string, raw []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(raw),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(raw))),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}
	a.logger.Debug("callback archived", zap.String("key", key), zap.Int("bytes", len(raw)))
	return nil
}

// NoopArchive is used when no bucket is configured.
type NoopArchive struct{}

var _ interfaces.ICallbackArchive = NoopArchive{}

func (NoopArchive) Store(context.Context, string, []byte) error { return nil }
