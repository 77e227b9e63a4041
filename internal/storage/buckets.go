package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
)

// Bucket is one entry of ListBuckets.
type Bucket struct {
	Name         string
	CreationDate time.Time
}

// ListBuckets returns the caller's buckets sorted by name.
func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, wrap("List buckets", err)
	}

	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, Bucket{
			Name:         aws.ToString(b.Name),
			CreationDate: aws.ToTime(b.CreationDate),
		})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Name < buckets[j].Name })

	logger.Op.WithFields(map[string]interface{}{"count": len(buckets)}).Debug("listed buckets")
	return buckets, nil
}

// BucketExists reports whether bucket exists and is reachable.
// A 403 is treated as absent since ownership cannot be confirmed.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		logger.Op.WithFields(map[string]interface{}{"bucket": bucket}).Debug("bucket does not exist")
		return false, nil
	case isForbidden(err):
		logger.Op.WithFields(map[string]interface{}{"bucket": bucket}).Warn("access denied to bucket, cannot confirm existence")
		return false, nil
	}
	return false, wrap("Head bucket", err).WithContext("bucket", bucket)
}

// CreateBucket creates bucket in the client region. us-east-1 takes no location constraint.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if c.region != "" && c.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}

	if _, err := c.api.CreateBucket(ctx, input); err != nil {
		return wrap("Create bucket", err).
			WithContext("bucket", bucket).
			WithContext("region", c.region)
	}

	logger.Op.WithFields(map[string]interface{}{
		"bucket": bucket,
		"region": c.region,
	}).Info("bucket created")
	return nil
}

// EnsureBucket creates bucket unless it already exists. It reports whether it created it.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	exists, err := c.BucketExists(ctx, bucket)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	return true, c.CreateBucket(ctx, bucket)
}

// DeleteBucket removes an empty bucket.
func (c *Client) DeleteBucket(ctx context.Context, bucket string) error {
	_, err := c.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		logger.Op.WithFields(map[string]interface{}{"bucket": bucket}).Info("bucket deleted")
		return nil
	}
	switch ErrorCode(err) {
	case "BucketNotEmpty":
		return taskerrors.NewBucketNotEmptyError(bucket, err)
	case "NoSuchBucket":
		return taskerrors.NewBucketNotFoundError(bucket, "Delete bucket").WithOriginalError(err)
	}
	return wrap("Delete bucket", err).WithContext("bucket", bucket)
}

// BucketRegion resolves the bucket's region. An empty location constraint means us-east-1.
func (c *Client) BucketRegion(ctx context.Context, bucket string) (string, error) {
	out, err := c.api.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", wrap("Get bucket location", err).WithContext("bucket", bucket)
	}
	if out.LocationConstraint == "" {
		return "us-east-1", nil
	}
	return string(out.LocationConstraint), nil
}

// GetBucketPolicy returns the bucket policy document. found is false when none is set.
func (c *Client) GetBucketPolicy(ctx context.Context, bucket string) (policy string, found bool, err error) {
	out, err := c.api.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{Bucket: aws.String(bucket)})
	if err != nil {
		if ErrorCode(err) == "NoSuchBucketPolicy" {
			return "", false, nil
		}
		return "", false, wrap("Get bucket policy", err).WithContext("bucket", bucket)
	}
	return aws.ToString(out.Policy), true, nil
}

// PutBucketPolicy applies a policy document.
func (c *Client) PutBucketPolicy(ctx context.Context, bucket, policy string) error {
	_, err := c.api.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(bucket),
		Policy: aws.String(policy),
	})
	if err != nil {
		return wrap("Put bucket policy", err).WithContext("bucket", bucket)
	}
	logger.Op.WithFields(map[string]interface{}{"bucket": bucket}).Info("bucket policy applied")
	return nil
}

// DeletePublicAccessBlock removes the bucket's PAB. removed is false when none was configured.
func (c *Client) DeletePublicAccessBlock(ctx context.Context, bucket string) (removed bool, err error) {
	_, err = c.api.DeletePublicAccessBlock(ctx, &s3.DeletePublicAccessBlockInput{Bucket: aws.String(bucket)})
	if err != nil {
		if ErrorCode(err) == "NoSuchPublicAccessBlockConfiguration" {
			return false, nil
		}
		return false, wrap("Delete public access block", err).WithContext("bucket", bucket)
	}
	return true, nil
}

// PolicyDocument is an IAM-style bucket policy.
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

// PolicyStatement is a single Allow/Deny statement.
type PolicyStatement struct {
	Sid       string      `json:"Sid"`
	Effect    string      `json:"Effect"`
	Principal string      `json:"Principal"`
	Action    interface{} `json:"Action"`
	Resource  interface{} `json:"Resource"`
}

// PublicReadPolicy grants anonymous s3:GetObject on the given prefixes of bucket.
// With no prefixes the whole bucket is readable.
func PublicReadPolicy(bucket string, prefixes ...string) string {
	stmt := PolicyStatement{
		Sid:       "PublicReadGetObject",
		Effect:    "Allow",
		Principal: "*",
		Action:    "s3:GetObject",
		Resource:  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
	}
	if len(prefixes) > 0 {
		resources := make([]string, 0, len(prefixes))
		for _, p := range prefixes {
			resources = append(resources, fmt.Sprintf("arn:aws:s3:::%s/%s/*", bucket, p))
		}
		stmt.Sid = "PublicReadDevTestPrefixes"
		stmt.Action = []string{"s3:GetObject"}
		stmt.Resource = resources
	}

	doc, _ := json.Marshal(PolicyDocument{Version: "2012-10-17", Statement: []PolicyStatement{stmt}})
	return string(doc)
}

// MakePublic drops the PAB and applies a public-read policy for prefixes.
// The policy is not attempted when the PAB cannot be removed.
func (c *Client) MakePublic(ctx context.Context, bucket string, prefixes ...string) error {
	if _, err := c.DeletePublicAccessBlock(ctx, bucket); err != nil {
		return err
	}
	return c.PutBucketPolicy(ctx, bucket, PublicReadPolicy(bucket, prefixes...))
}

// ApplyPublicReadPolicy is the lenient form of MakePublic used by set-policy:
// a PAB failure is returned as warn and the policy is still attempted.
func (c *Client) ApplyPublicReadPolicy(ctx context.Context, bucket string, skipPAB bool) (warn error, err error) {
	if skipPAB {
		logger.User.Infof("Skipping public access block removal for '%s'", bucket)
	} else {
		logger.User.Startingf("Removing public access block from '%s'", bucket)
		if _, pabErr := c.DeletePublicAccessBlock(ctx, bucket); pabErr != nil {
			warn = pabErr
			logger.User.Warnf("Could not remove public access block for '%s'; the policy might not be effective", bucket)
			logger.Op.WithFields(map[string]interface{}{
				"bucket": bucket,
				"error":  pabErr.Error(),
			}).Warn("could not delete public access block")
		}
	}
	return warn, c.PutBucketPolicy(ctx, bucket, PublicReadPolicy(bucket))
}

// PutExpirationLifecycle expires every object in bucket after days.
func (c *Client) PutExpirationLifecycle(ctx context.Context, bucket string, days int) (string, error) {
	ruleID := fmt.Sprintf("delete-after-%d-days", days)
	_, err := c.api.PutBucketLifecycleConfiguration(ctx, &s3.PutBucketLifecycleConfigurationInput{
		Bucket: aws.String(bucket),
		LifecycleConfiguration: &types.BucketLifecycleConfiguration{
			Rules: []types.LifecycleRule{{
				ID:         aws.String(ruleID),
				Status:     types.ExpirationStatusEnabled,
				Filter:     &types.LifecycleRuleFilter{Prefix: aws.String("")},
				Expiration: &types.LifecycleExpiration{Days: aws.Int32(int32(days))},
			}},
		},
	})
	if err != nil {
		return "", wrap("Put lifecycle configuration", err).WithContext("bucket", bucket)
	}
	return ruleID, nil
}

// VersioningStatus is "Enabled", "Suspended", or "Not Enabled" for buckets that never had it.
func (c *Client) VersioningStatus(ctx context.Context, bucket string) (string, error) {
	out, err := c.api.GetBucketVersioning(ctx, &s3.GetBucketVersioningInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", wrap("Get bucket versioning", err).WithContext("bucket", bucket)
	}
	if out.Status == "" {
		return "Not Enabled", nil
	}
	return string(out.Status), nil
}
