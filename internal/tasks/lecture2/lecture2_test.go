package lecture2

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/storage/storagetest"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/task/tasktest"
)

var run = tasktest.Run

func TestEnsureBucket(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")

	out, err := run(t, NewEnsureBucketTask(f.Env), "--bucket-name", "course-bucket")
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket 'course-bucket' not found or inaccessible. Attempting to create...")
	assert.Contains(t, out, "Bucket 'course-bucket' created successfully.")
	require.NotNil(t, f.Fake.Bucket("course-bucket"))
	assert.Equal(t, "us-west-2", f.Fake.Bucket("course-bucket").Region)

	out, err = run(t, NewEnsureBucketTask(f.Env), "--bucket-name", "course-bucket")
	require.NoError(t, err)
	assert.Equal(t, "Bucket 'course-bucket' already exists.\n", out)
	assert.Equal(t, 1, f.Fake.Count("CreateBucket"))
}

func TestEnsureBucketRejectsInvalidName(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")

	_, err := run(t, NewEnsureBucketTask(f.Env), "--bucket-name", "Bad_Name")
	var taskErr *taskerrors.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.ErrorCategoryValidation, taskErr.Category)
	assert.Equal(t, 0, f.Fake.Count("HeadBucket"))
}

func TestDevTestPolicy(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")
	f.Fake.AddBucket("shared", "us-west-2")

	out, err := run(t, NewDevTestPolicyTask(f.Env), "--bucket-name", "shared")
	require.NoError(t, err)
	assert.Contains(t, out, "No policy found for 'shared'. Applying policy...")
	assert.Contains(t, out, "Successfully applied policy to bucket 'shared'.")

	b := f.Fake.Bucket("shared")
	assert.False(t, b.PAB)
	require.NotNil(t, b.Policy)
	assert.Contains(t, *b.Policy, "arn:aws:s3:::shared/dev/*")
	assert.Contains(t, *b.Policy, "arn:aws:s3:::shared/test/*")

	out, err = run(t, NewDevTestPolicyTask(f.Env), "--bucket-name", "shared")
	require.NoError(t, err)
	assert.Equal(t, "Bucket 'shared' already has a policy.\n", out)
}

func TestDevTestPolicyStopsOnPABFailure(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")
	f.Fake.AddBucket("shared", "us-west-2")
	f.Fake.FailOn("DeletePublicAccessBlock", storagetest.APIError("AccessDenied", "denied"))

	out, err := run(t, NewDevTestPolicyTask(f.Env), "--bucket-name", "shared")
	var taskErr *taskerrors.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.CodeAccessDenied, taskErr.Code)
	assert.Contains(t, out, "Failed to delete public access block for 'shared'")
	assert.NotContains(t, out, "Successfully applied policy")
	assert.Equal(t, 0, f.Fake.Count("PutBucketPolicy"))
	assert.Nil(t, f.Fake.Bucket("shared").Policy)
}

func TestDeleteBucketTask(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")

	out, err := run(t, NewDeleteBucketTask(f.Env), "--bucket-name", "ghost")
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket 'ghost' does not exist or is inaccessible.\n")
	assert.Contains(t, out, "Failed to find bucket for 'ghost'")

	f.Fake.AddBucket("full", "us-west-2")
	f.Fake.AddVersion("full", "a.txt", []byte("a"), f.Fake.Now())
	_, err = run(t, NewDeleteBucketTask(f.Env), "--bucket-name", "full")
	var taskErr *taskerrors.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.CodeBucketNotEmpty, taskErr.Code)
	assert.Contains(t, taskerrors.FormatForCLI(err), "Buckets must be empty before deletion")

	f.Fake.AddBucket("empty", "us-west-2")
	out, err = run(t, NewDeleteBucketTask(f.Env), "--bucket-name", "empty")
	require.NoError(t, err)
	assert.Contains(t, out, "Bucket 'empty' found. Attempting deletion...")
	assert.Contains(t, out, "Bucket 'empty' deleted successfully.")
	assert.Nil(t, f.Fake.Bucket("empty"))
}

func TestManagementTaskRequiresCommand(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")
	mt := NewManagementTask(f.Env)

	assert.Contains(t, mt.Usage(), "Available commands: list, exists, create, delete, upload")

	out, err := run(t, mt)
	require.Error(t, err)
	assert.Contains(t, out, "Usage: manage task2.4")
	assert.True(t, taskerrors.IsUserError(err))
}

func TestListAndExists(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")

	out, err := run(t, NewManagementTask(f.Env), "list")
	require.NoError(t, err)
	assert.Equal(t, "No buckets found or accessible.\n", out)

	f.Fake.AddBucket("beta", "us-west-2")
	f.Fake.AddBucket("alpha", "eu-west-1")
	out, err = run(t, NewManagementTask(f.Env), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Buckets:")
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "beta"))

	out, err = run(t, NewManagementTask(f.Env), "exists", "--bucket-name", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "Bucket 'alpha' exists.\n", out)

	out, err = run(t, NewManagementTask(f.Env), "exists", "--bucket-name", "gamma")
	require.NoError(t, err)
	assert.Equal(t, "Bucket 'gamma' does not exist or is inaccessible.\n", out)
}

func TestDeletePrompts(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "no\n")
	f.Fake.AddBucket("keep", "us-west-2")

	out, err := run(t, NewManagementTask(f.Env), "delete", "--bucket-name", "keep")
	require.NoError(t, err)
	assert.Contains(t, out, "WARNING: About to delete bucket")
	assert.Contains(t, out, "Deletion cancelled.")
	assert.NotNil(t, f.Fake.Bucket("keep"))

	out, err = run(t, NewManagementTask(f.Env), "delete", "--bucket-name", "keep", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "WARNING")
	assert.Nil(t, f.Fake.Bucket("keep"))
}

func TestPolicyCommands(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")
	f.Fake.AddBucket("web", "us-west-2")
	mt := func() task.Task { return NewManagementTask(f.Env) }

	out, err := run(t, mt(), "get-policy", "--bucket-name", "web")
	require.NoError(t, err)
	assert.Equal(t, "No policy found for bucket 'web'.\n", out)

	_, err = run(t, mt(), "set-policy", "--bucket-name", "web", "--skip-pab-delete")
	require.Error(t, err, "policy is rejected while the public access block is on")

	out, err = run(t, mt(), "delete-pab", "--bucket-name", "web")
	require.NoError(t, err)
	assert.Equal(t, "Public access block removed from bucket 'web'.\n", out)

	out, err = run(t, mt(), "delete-pab", "--bucket-name", "web")
	require.NoError(t, err)
	assert.Equal(t, "No public access block configured for bucket 'web'.\n", out)

	out, err = run(t, mt(), "set-policy", "--bucket-name", "web")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully applied public-read policy to bucket 'web'.")

	out, err = run(t, mt(), "get-policy", "--bucket-name", "web")
	require.NoError(t, err)
	assert.Contains(t, out, "Policy for bucket 'web':")
	assert.Contains(t, out, `  "Version": "2012-10-17"`)
	assert.Contains(t, out, "arn:aws:s3:::web/*")
}

func TestSetPolicyReportsPABFailure(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")
	f.Fake.AddBucket("web", "us-west-2")
	f.Fake.FailOn("DeletePublicAccessBlock", storagetest.APIError("AccessDenied", "denied"))

	out, err := run(t, NewManagementTask(f.Env), "set-policy", "--bucket-name", "web")
	require.Error(t, err)
	assert.Contains(t, out, "Failed to delete public access block for 'web'")
}

func TestSetObjectACL(t *testing.T) {
	f := tasktest.NewFixture("us-west-2", "")
	f.Fake.AddBucket("media", "us-west-2")
	f.Fake.AddVersion("media", "a.png", []byte("x"), f.Fake.Now())

	out, err := run(t, NewManagementTask(f.Env), "set-object-acl", "--bucket-name", "media", "--s3-key", "a.png")
	require.NoError(t, err)
	assert.Equal(t, "Successfully set ACL 'public-read' on s3://media/a.png\n", out)
	assert.Equal(t, "public-read", f.Fake.Object("media", "a.png").ACL)

	_, err = run(t, NewManagementTask(f.Env), "set-object-acl", "--bucket-name", "media", "--s3-key", "a.png", "--acl", "everyone")
	assert.True(t, taskerrors.IsUserError(err))
}

func TestUploadFromURLCommand(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	f := tasktest.NewFixture("us-west-2", "")
	f.Client.WithHTTPClient(srv.Client())
	f.Fake.AddBucket("media", "us-west-2")

	out, err := run(t, NewManagementTask(f.Env), "upload",
		"--bucket-name", "media", "--url", srv.URL+"/cat.png", "--s3-key", "cats/cat.png")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully uploaded "+srv.URL+"/cat.png to s3://media/cats/cat.png")
	assert.Contains(t, out, "File accessible at: https://media.s3.amazonaws.com/cats/cat.png")
	assert.Equal(t, "image/png", f.Fake.Object("media", "cats/cat.png").ContentType)
}
