package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskErrorError(t *testing.T) {
	err := NewS3Error(CodeS3API, "S3 request failed", "Create bucket")
	assert.Equal(t, "S3-001: S3 request failed", err.Error())

	err.WithOriginalError(fmt.Errorf("boom"))
	assert.Equal(t, "S3-001: S3 request failed: boom", err.Error())
}

func TestTaskErrorUnwrap(t *testing.T) {
	base := fmt.Errorf("base")
	wrapped := fmt.Errorf("outer: %w", NewDownloadError("http://x", base))

	assert.True(t, Is(wrapped, base))

	var taskErr *TaskError
	require.True(t, As(wrapped, &taskErr))
	assert.Equal(t, ErrorCategoryNetwork, taskErr.Category)
	assert.Equal(t, "http://x", taskErr.Context["url"])
}

func TestNewS3APIErrorClassification(t *testing.T) {
	tests := []struct {
		code     string
		category ErrorCategory
	}{
		{"AccessDenied", ErrorCategoryPermission},
		{"InvalidClientTokenId", ErrorCategoryConfiguration},
		{"SignatureDoesNotMatch", ErrorCategoryConfiguration},
		{"NoSuchBucket", ErrorCategoryS3},
		{"BucketAlreadyExists", ErrorCategoryS3},
		{"", ErrorCategoryS3},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := NewS3APIError("Op", tt.code, fmt.Errorf("api"))
			assert.Equal(t, tt.category, err.Category)
			assert.NotEmpty(t, err.Troubleshooting)
		})
	}
}

func TestFormatForCLI(t *testing.T) {
	err := NewTaskNotFoundError("task9.9", []string{"task1.1", "task1.2"})
	out := FormatForCLI(err)

	assert.Contains(t, out, "Error [TASK-001]")
	assert.Contains(t, out, "Task 'task9.9' not found")
	assert.Contains(t, out, "Failed Operation: Task lookup")
	assert.Contains(t, out, "  available: task1.1, task1.2\n  task: task9.9\n")
	assert.Contains(t, out, "How to resolve:\n  1. Run 'manage available_tasks'")

	plain := FormatForCLI(fmt.Errorf("plain failure"))
	assert.Equal(t, "\nError: plain failure\n", plain)
}

func TestFormatForCLIIncludesNestedHints(t *testing.T) {
	inner := NewBucketNotEmptyError("demo", nil)
	outer := NewTaskFailedError("task2.3", inner)

	out := FormatForCLI(outer)
	assert.Contains(t, out, "Buckets must be empty before deletion")
	assert.Contains(t, out, "Technical details: S3-003")
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(NewValidationFailedError("--days", "0", "must be positive")))
	assert.True(t, IsUserError(NewCredentialsError("Connect", nil)))
	assert.False(t, IsUserError(NewBucketNotFoundError("demo", "Head bucket")))
	assert.False(t, IsUserError(fmt.Errorf("plain")))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, "VALIDATION-002", GetErrorCode(NewInvalidFileTypeError("text/html", []string{"image/png"})))
	assert.Equal(t, "UNKNOWN", GetErrorCode(fmt.Errorf("plain")))
}

func TestDisplayErrorSummary(t *testing.T) {
	assert.Equal(t, "S3-002: Bucket 'demo' not found",
		DisplayErrorSummary(NewBucketNotFoundError("demo", "Head bucket")))

	long := fmt.Errorf("%0150d", 0)
	summary := DisplayErrorSummary(long)
	assert.Len(t, summary, 100)
	assert.True(t, len(summary) > 3 && summary[97:] == "...")
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewDownloadError("http://x", nil)))
	assert.True(t, IsRetryableError(NewS3APIError("Put", "SlowDown", fmt.Errorf("api error SlowDown"))))
	assert.False(t, IsRetryableError(NewValidationFailedError("a", "b", "c")))
	assert.False(t, IsRetryableError(fmt.Errorf("timeout")))
}
