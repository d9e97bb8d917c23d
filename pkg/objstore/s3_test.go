package objstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/ankproject/ank-api/pkg/configng"
	"github.com/ankproject/ank-api/pkg/testservices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]MemoryObject
	headErr error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]MemoryObject{}}
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = MemoryObject{
		Body:        body,
		ContentType: aws.ToString(in.ContentType),
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart uploads are not supported")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart uploads are not supported")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart uploads are not supported")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errors.New("multipart uploads are not supported")
}

func TestS3Storage(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	b := NewS3Storage(client).Bucket("main")

	exists, err := b.Exists(ctx, "accounts/acc_1/account.json")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, PutJSON(ctx, b, "accounts/acc_1/account.json", map[string]string{"account_id": "acc_1"}))

	exists, err = b.Exists(ctx, "accounts/acc_1/account.json")
	require.NoError(t, err)
	assert.True(t, exists)

	o := client.objects["main/accounts/acc_1/account.json"]
	assert.Equal(t, ContentTypeJSON, o.ContentType)
	assert.Equal(t, `{"account_id":"acc_1"}`, string(o.Body))
}

func TestS3StorageExistsError(t *testing.T) {
	client := newFakeS3()
	client.headErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
	_, err := NewS3Storage(client).Bucket("main").Exists(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://main/k")
}

func TestIsNotFound(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"typed not found", &types.NotFound{}, true},
		{"typed no such key", &types.NoSuchKey{}, true},
		{"api error code", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"other api error", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{
			"bare 404",
			&smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusNotFound}},
				Err:      errors.New("not found"),
			},
			true,
		},
		{
			"bare 403",
			&smithyhttp.ResponseError{
				Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusForbidden}},
				Err:      errors.New("forbidden"),
			},
			false,
		},
		{"unrelated", errors.New("connection reset"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, isNotFound(c.err))
		})
	}
}

func TestS3StorageMinio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping docker-backed test in short mode")
	}
	s3cfg, teardown, err := testservices.Minio("ank-objstore")
	if err != nil {
		t.Skipf("minio is unavailable: %s", err)
	}
	defer teardown()

	client, err := configng.NewS3ClientV2(s3cfg)
	require.NoError(t, err)

	ctx := context.Background()
	b := NewS3Storage(client).Bucket(s3cfg.Bucket)

	exists, err := b.Exists(ctx, "users/u1/user.json")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, PutJSON(ctx, b, "users/u1/user.json", map[string]string{"uid": "u1"}))

	exists, err = b.Exists(ctx, "users/u1/user.json")
	require.NoError(t, err)
	assert.True(t, exists)

	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s3cfg.Bucket), Key: aws.String("users/u1/user.json")})
	require.NoError(t, err)
	defer out.Body.Close()
	body, err := io.ReadAll(out.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"uid":"u1"}`, string(body))
	assert.Equal(t, ContentTypeJSON, aws.ToString(out.ContentType))
}
