package testservices

import (
	"context"
	"testing"

	"github.com/ankproject/ank-api/pkg/configng"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

func TestMinio(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping docker-backed test in short mode")
	}
	s3cfg, teardown, err := Minio("ank-testservices")
	if err != nil {
		t.Skipf("minio is unavailable: %s", err)
	}
	defer teardown()

	s3cfg.VerifyBucket = true
	client, err := configng.NewS3ClientV2(s3cfg)
	require.NoError(t, err)
	_, err = client.HeadBucket(context.Background(), &s3.HeadBucketInput{Bucket: aws.String("ank-testservices")})
	require.NoError(t, err)
}
