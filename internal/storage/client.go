// Package storage wraps the S3 operations used by the bucket and object tasks.
package storage

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/maxkimambo/manage/internal/config"
	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
)

// API is the subset of *s3.Client used by this package.
type API interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient

	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	GetBucketLocation(ctx context.Context, params *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)

	GetBucketPolicy(ctx context.Context, params *s3.GetBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.GetBucketPolicyOutput, error)
	PutBucketPolicy(ctx context.Context, params *s3.PutBucketPolicyInput, optFns ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	DeletePublicAccessBlock(ctx context.Context, params *s3.DeletePublicAccessBlockInput, optFns ...func(*s3.Options)) (*s3.DeletePublicAccessBlockOutput, error)
	PutBucketLifecycleConfiguration(ctx context.Context, params *s3.PutBucketLifecycleConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketLifecycleConfigurationOutput, error)
	GetBucketVersioning(ctx context.Context, params *s3.GetBucketVersioningInput, optFns ...func(*s3.Options)) (*s3.GetBucketVersioningOutput, error)
	PutBucketWebsite(ctx context.Context, params *s3.PutBucketWebsiteInput, optFns ...func(*s3.Options)) (*s3.PutBucketWebsiteOutput, error)

	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectVersions(ctx context.Context, params *s3.ListObjectVersionsInput, optFns ...func(*s3.Options)) (*s3.ListObjectVersionsOutput, error)
}

// requestTimeout bounds a single S3 request, including PutObject bodies.
const requestTimeout = 5 * time.Minute

// ProgressInterval throttles progress lines during multi-step uploads.
const ProgressInterval = 2 * time.Second

// DefaultSniffTimeout bounds the response headers and the first bytes of a
// URL download. The full transfer gets the HTTP client's longer timeout.
const DefaultSniffTimeout = 15 * time.Second

// DefaultPartSize is the multipart chunk size, the S3 minimum for all but the last part.
const DefaultPartSize int64 = 5 * 1024 * 1024

// Client performs bucket and object operations against one region.
type Client struct {
	api        API
	region     string
	httpClient *http.Client

	// PartSize is used by UploadLargeFile and the upload manager.
	PartSize int64
	// SniffTimeout is the budget for UploadFromURL to detect the content type.
	SniffTimeout time.Duration
	now          func() time.Time
}

// NewClient builds an S3 client from cfg and verifies it with ListBuckets.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(requestTimeout)),
	}

	if cfg.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	} else {
		logger.Op.WithFields(map[string]interface{}{
			"missing": strings.Join(cfg.MissingCredentials(), ","),
		}).Warn("AWS credentials not fully set in environment, falling back to the default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, taskerrors.NewCredentialsError("Load AWS configuration", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	c := NewClientWithAPI(s3Client, cfg.Region)
	if err := c.VerifyAccess(ctx); err != nil {
		return nil, err
	}

	logger.Op.WithFields(map[string]interface{}{
		"region":   cfg.Region,
		"endpoint": cfg.Endpoint,
	}).Debug("S3 client initialized")
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation.
func NewClientWithAPI(api API, region string) *Client {
	return &Client{
		api:          api,
		region:       region,
		httpClient:   &http.Client{Timeout: 10 * time.Minute},
		PartSize:     DefaultPartSize,
		SniffTimeout: DefaultSniffTimeout,
		now:          time.Now,
	}
}

// WithHTTPClient replaces the client used for URL downloads.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithClock replaces the time source used for version cutoffs.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Region is the region buckets are created in.
func (c *Client) Region() string {
	return c.region
}

// VerifyAccess issues a ListBuckets call so credential problems surface before any task work.
func (c *Client) VerifyAccess(ctx context.Context) error {
	_, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err == nil {
		return nil
	}

	code := ErrorCode(err)
	switch code {
	case "InvalidClientTokenId", "SignatureDoesNotMatch", "InvalidAccessKeyId":
		return taskerrors.NewCredentialsError("Verify S3 connection", err).WithContext("code", code)
	}
	return taskerrors.NewS3APIError("Verify S3 connection", code, err)
}

func (c *Client) uploader() *manager.Uploader {
	return manager.NewUploader(c.api, func(u *manager.Uploader) {
		u.PartSize = c.PartSize
	})
}
