package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/storage/storagetest"
)

func newTestClient(region string) (*Client, *storagetest.FakeAPI) {
	fake := storagetest.New()
	return NewClientWithAPI(fake, region), fake
}

func TestBucketLifecycle(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient("eu-west-1")

	exists, err := c.BucketExists(ctx, "demo")
	require.NoError(t, err)
	assert.False(t, exists)

	created, err := c.EnsureBucket(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "eu-west-1", fake.Bucket("demo").Region)

	created, err = c.EnsureBucket(ctx, "demo")
	require.NoError(t, err)
	assert.False(t, created)

	buckets, err := c.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "demo", buckets[0].Name)

	region, err := c.BucketRegion(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", region)

	require.NoError(t, c.DeleteBucket(ctx, "demo"))
	assert.Nil(t, fake.Bucket("demo"))
}

func TestCreateBucketUSEast1HasNoLocation(t *testing.T) {
	c, fake := newTestClient("us-east-1")
	require.NoError(t, c.CreateBucket(context.Background(), "east"))

	region, err := c.BucketRegion(context.Background(), "east")
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", region)
	assert.Equal(t, "us-east-1", fake.Bucket("east").Region)
}

func TestDeleteBucketErrors(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("full", "us-west-2")
	fake.AddVersion("full", "a.txt", []byte("a"), fake.Now())

	err := c.DeleteBucket(ctx, "full")
	var taskErr *taskerrors.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.CodeBucketNotEmpty, taskErr.Code)
	assert.Contains(t, taskErr.Troubleshooting, "Buckets must be empty before deletion")

	err = c.DeleteBucket(ctx, "missing")
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.CodeBucketNotFound, taskErr.Code)
}

func TestBucketExistsPropagatesUnexpectedErrors(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.FailOn("HeadBucket", storagetest.APIError("Forbidden", "denied"))

	exists, err := c.BucketExists(context.Background(), "secret")
	require.NoError(t, err)
	assert.False(t, exists)

	fake.FailOn("HeadBucket", storagetest.APIError("InternalError", "boom"))
	_, err = c.BucketExists(context.Background(), "secret")
	assert.Error(t, err)
}

func TestPolicies(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("site", "us-west-2")

	_, found, err := c.GetBucketPolicy(ctx, "site")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.MakePublic(ctx, "site", "dev", "test"))

	policy, found, err := c.GetBucketPolicy(ctx, "site")
	require.NoError(t, err)
	require.True(t, found)

	var doc PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(policy), &doc))
	assert.Equal(t, "2012-10-17", doc.Version)
	require.Len(t, doc.Statement, 1)
	assert.Equal(t, "PublicReadDevTestPrefixes", doc.Statement[0].Sid)
	assert.Equal(t, []interface{}{"arn:aws:s3:::site/dev/*", "arn:aws:s3:::site/test/*"}, doc.Statement[0].Resource)

	removed, err := c.DeletePublicAccessBlock(ctx, "site")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestMakePublicSkipPABKeepsBlock(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("locked", "us-west-2")

	_, err := c.ApplyPublicReadPolicy(context.Background(), "locked", true)
	require.Error(t, err)
	assert.Equal(t, 0, fake.Count("DeletePublicAccessBlock"))
}

func TestMakePublicStopsOnPABFailure(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("locked", "us-west-2")
	fake.FailOn("DeletePublicAccessBlock", storagetest.APIError("AccessDenied", "denied"))

	err := c.MakePublic(context.Background(), "locked", "dev")
	require.Error(t, err)
	assert.Equal(t, "PERMISSION-"+taskerrors.CodeAccessDenied, taskerrors.GetErrorCode(err))
	assert.Equal(t, 0, fake.Count("PutBucketPolicy"))
}

func TestApplyPublicReadPolicyWarnsOnPABFailure(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("open", "us-west-2")
	fake.Bucket("open").PAB = false
	fake.FailOn("DeletePublicAccessBlock", storagetest.APIError("AccessDenied", "denied"))

	warn, err := c.ApplyPublicReadPolicy(context.Background(), "open", false)
	require.NoError(t, err)
	assert.Error(t, warn)
	assert.Equal(t, 1, fake.Count("PutBucketPolicy"))
}

func TestPublicReadPolicyWholeBucket(t *testing.T) {
	var doc PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(PublicReadPolicy("b")), &doc))
	assert.Equal(t, "PublicReadGetObject", doc.Statement[0].Sid)
	assert.Equal(t, "arn:aws:s3:::b/*", doc.Statement[0].Resource)
	assert.Equal(t, "s3:GetObject", doc.Statement[0].Action)
}

func TestLifecycleAndVersioning(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("demo", "us-west-2")

	ruleID, err := c.PutExpirationLifecycle(ctx, "demo", 120)
	require.NoError(t, err)
	assert.Equal(t, "delete-after-120-days", ruleID)

	lc := fake.Bucket("demo").Lifecycle
	require.NotNil(t, lc)
	require.Len(t, lc.Rules, 1)
	assert.Equal(t, int32(120), aws.ToInt32(lc.Rules[0].Expiration.Days))
	assert.Equal(t, types.ExpirationStatusEnabled, lc.Rules[0].Status)

	status, err := c.VersioningStatus(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Not Enabled", status)

	fake.EnableVersioning("demo")
	status, err = c.VersioningStatus(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "Enabled", status)
}
