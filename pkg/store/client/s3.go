package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

const (
	errCodeNoSuchTagSet       = "NoSuchTagSet"
	errCodeNoEncryptionConfig = "ServerSideEncryptionConfigurationNotFoundError"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	s3.ListObjectsV2APIClient
	GetBucketTagging(ctx context.Context, params *s3.GetBucketTaggingInput, optFns ...func(*s3.Options)) (*s3.GetBucketTaggingOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	GetBucketEncryption(ctx context.Context, params *s3.GetBucketEncryptionInput, optFns ...func(*s3.Options)) (*s3.GetBucketEncryptionOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client S3API
}

func NewS3Store(cfg aws.Config) *S3Store {
	return &S3Store{
		client: s3.NewFromConfig(cfg),
	}
}

func NewS3StoreWithClient(client S3API) *S3Store {
	return &S3Store{client: client}
}

func (s *S3Store) GetBucketTags(ctx context.Context, bucket string) (map[string]string, error) {
	resp, err := s.client.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if hasErrorCode(err, errCodeNoSuchTagSet) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to get tags of bucket %s: %w", bucket, err)
	}

	tags := make(map[string]string, len(resp.TagSet))
	for _, tag := range resp.TagSet {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags, nil
}

func (s *S3Store) GetBucketVersioning(ctx context.Context, bucket string) (bool, error) {
	resp, err := s.client.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get versioning of bucket %s: %w", bucket, err)
	}
	return resp.Status == types.BucketVersioningStatusEnabled, nil
}

func (s *S3Store) GetBucketEncryption(ctx context.Context, bucket string) (bool, error) {
	resp, err := s.client.GetBucketEncryption(ctx, &s3.GetBucketEncryptionInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if hasErrorCode(err, errCodeNoEncryptionConfig) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get encryption of bucket %s: %w", bucket, err)
	}
	if resp.ServerSideEncryptionConfiguration == nil {
		return false, nil
	}

	for _, rule := range resp.ServerSideEncryptionConfiguration.Rules {
		if rule.ApplyServerSideEncryptionByDefault != nil &&
			rule.ApplyServerSideEncryptionByDefault.SSEAlgorithm != "" {
			return true, nil
		}
	}
	return false, nil
}

func (s *S3Store) ListObjects(ctx context.Context, bucket string, fn func(key string) bool) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects of bucket %s: %w", bucket, err)
		}
		for _, obj := range page.Contents {
			if !fn(aws.ToString(obj.Key)) {
				return nil
			}
		}
	}
	return nil
}

func (s *S3Store) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to close object body")
		}
	}(resp.Body)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

func (s *S3Store) PutObject(ctx context.Context, bucket, key string, body []byte, opts PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.Encrypt {
		input.ServerSideEncryption = types.ServerSideEncryptionAes256
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func hasErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return false
}
