package testservices

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ankproject/ank-api/pkg/configng"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/ory/dockertest/v3"
)

type Teardown func() error

const (
	minioUser     = "ankminio"
	minioPassword = "ankminio-secret"
)

// Minio will spin up a MinIO container with an empty bucket and return S3 configuration for it
// plus a tear down function that needs to be called to spin the container down.
func Minio(bucket string) (configng.S3Config, Teardown, error) {
	var s3cfg configng.S3Config
	pool, err := dockertest.NewPool("")
	if err != nil {
		return s3cfg, nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return s3cfg, nil, fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 60 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=" + minioUser,
			"MINIO_ROOT_PASSWORD=" + minioPassword,
		},
	})
	if err != nil {
		return s3cfg, nil, fmt.Errorf("could not start resource: %w", err)
	}
	teardown := func() error {
		if err := pool.Purge(resource); err != nil {
			return fmt.Errorf("could not purge resource: %w", err)
		}
		return nil
	}

	endpoint := fmt.Sprintf("http://localhost:%s", resource.GetPort("9000/tcp"))
	client := cleanhttp.DefaultClient()
	if err := pool.Retry(func() error {
		resp, err := client.Get(endpoint + "/minio/health/live")
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio is not live yet: %s", resp.Status)
		}
		return nil
	}); err != nil {
		teardown()
		return s3cfg, nil, fmt.Errorf("could not connect to minio: %w", err)
	}

	s3cfg = configng.S3Config{
		Flavor:   configng.FlavorMinio,
		Endpoint: endpoint,
		Region:   "us-east-1",
		Bucket:   bucket,
		Key:      minioUser,
		Secret:   minioPassword,
	}
	s3client, err := configng.NewS3ClientV2(s3cfg)
	if err != nil {
		teardown()
		return s3cfg, nil, err
	}
	_, err = s3client.CreateBucket(context.Background(), &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		teardown()
		return s3cfg, nil, fmt.Errorf("could not create bucket %s: %w", bucket, err)
	}

	return s3cfg, teardown, nil
}
