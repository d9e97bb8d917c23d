package objstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3API is the subset of *s3.Client used by S3Storage.
type S3API interface {
	s3.HeadObjectAPIClient
	manager.UploadAPIClient
}

// S3Storage implements Storage on top of any S3-compatible service.
type S3Storage struct {
	client   S3API
	uploader *manager.Uploader
}

type s3Bucket struct {
	name    string
	storage *S3Storage
}

func NewS3Storage(client S3API) *S3Storage {
	return &S3Storage{
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

func (s *S3Storage) Bucket(name string) Bucket {
	return &s3Bucket{name: name, storage: s}
}

func (b *s3Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.storage.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking s3://%s/%s: %w", b.name, key, err)
}

func (b *s3Bucket) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := b.storage.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", b.name, key, err)
	}
	return nil
}

// isNotFound recognizes missing objects across S3 flavors: AWS returns a typed
// NotFound for HEAD requests, some compatible services only a bare 404.
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}
