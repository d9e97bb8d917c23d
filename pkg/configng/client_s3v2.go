package configng

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func NewS3ClientV2(s3cfg S3Config) (*s3.Client, error) {
	var (
		client *s3.Client
		err    error
	)
	switch s3cfg.Flavor {
	case FlavorAWS, "":
		client, err = newS3ClientV2AWS(s3cfg)
	case FlavorOVH:
		client, err = newS3ClientV2OVH(s3cfg)
	case FlavorMinio:
		client, err = newS3ClientV2Minio(s3cfg)
	default:
		return nil, fmt.Errorf("invalid s3 flavor: %s", s3cfg.Flavor)
	}
	if err != nil {
		return nil, err
	}
	if err := verifyBucket(client, s3cfg); err != nil {
		return nil, err
	}
	return client, nil
}

func staticCredentials(s3cfg S3Config) aws.CredentialsProvider {
	if s3cfg.Key == "" {
		return nil
	}
	return credentials.NewStaticCredentialsProvider(s3cfg.Key, s3cfg.Secret, "")
}

func loadOptions(s3cfg S3Config) []func(*config.LoadOptions) error {
	opts := []func(*config.LoadOptions) error{}
	if s3cfg.Region != "" {
		opts = append(opts, config.WithRegion(s3cfg.Region))
	}
	if p := staticCredentials(s3cfg); p != nil {
		opts = append(opts, config.WithCredentialsProvider(p))
	}
	return opts
}

func newS3ClientV2AWS(s3cfg S3Config) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(), loadOptions(s3cfg)...)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws sdk configuration: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func newS3ClientV2Minio(s3cfg S3Config) (*s3.Client, error) {
	opts := append(loadOptions(s3cfg),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: s3cfg.Endpoint, HostnameImmutable: true}, nil
			})),
	)
	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws sdk configuration: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = true }), nil
}

func newS3ClientV2OVH(s3cfg S3Config) (*s3.Client, error) {
	endpointResolver := func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:           s3cfg.Endpoint,
			SigningRegion: s3cfg.Region,
		}, nil
	}

	credentialsProvider := credentials.StaticCredentialsProvider{
		Value: aws.Credentials{
			AccessKeyID:     s3cfg.Key,
			SecretAccessKey: s3cfg.Secret,
			Source:          "StaticCredentials", // OVH S3 requires this source value
		},
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(s3cfg.Region),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(endpointResolver)),
		config.WithCredentialsProvider(credentialsProvider),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws sdk configuration: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func verifyBucket(client *s3.Client, s3cfg S3Config) error {
	if !s3cfg.VerifyBucket || s3cfg.Bucket == "" {
		return nil
	}
	_, err := client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: aws.String(s3cfg.Bucket),
	})
	if err != nil {
		return fmt.Errorf("failed to verify bucket %s: %w", s3cfg.Bucket, err)
	}
	return nil
}
