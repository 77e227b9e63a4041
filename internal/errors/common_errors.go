package errors

import (
	"fmt"
	"strings"
)

// Error codes, unique within a category.
const (
	CodeS3API          = "001"
	CodeBucketNotFound = "002"
	CodeBucketNotEmpty = "003"
	CodeObjectNotFound = "004"
	CodeUpload         = "005"

	CodeAccessDenied = "001"

	CodeValidationInput = "001"
	CodeInvalidFileType = "002"

	CodeCredentials = "001"
	CodeEnvFile     = "002"

	CodeDownload = "001"

	CodeTaskNotFound = "001"
	CodeTaskFailed   = "002"
)

// NewTaskNotFoundError reports an unknown task identifier.
func NewTaskNotFoundError(name string, available []string) *TaskError {
	return NewTaskError(ErrorCategoryTask, CodeTaskNotFound,
		fmt.Sprintf("Task '%s' not found", name),
		"Task lookup").
		WithContext("task", name).
		WithContext("available", strings.Join(available, ", ")).
		WithTroubleshooting(
			"Run 'manage available_tasks' to list the registered tasks",
			"Task identifiers have the form task<lecture>.<index>, e.g. task2.4",
		)
}

// NewTaskFailedError wraps an error returned by a task's Run.
func NewTaskFailedError(name string, originalErr error) *TaskError {
	return NewTaskError(ErrorCategoryTask, CodeTaskFailed,
		fmt.Sprintf("Error executing task '%s'", name),
		"Task execution").
		WithContext("task", name).
		WithOriginalError(originalErr)
}

// NewBucketNotFoundError creates an error for a missing bucket
func NewBucketNotFoundError(bucket, operation string) *TaskError {
	return NewS3Error(CodeBucketNotFound,
		fmt.Sprintf("Bucket '%s' not found", bucket),
		operation).
		WithContext("bucket", bucket).
		WithTroubleshooting(
			"Verify the bucket name is spelled correctly",
			"Run 'manage task2.4 list' to see accessible buckets",
		)
}

// NewBucketNotEmptyError is returned when deleting a bucket that still holds objects.
func NewBucketNotEmptyError(bucket string, originalErr error) *TaskError {
	return NewS3Error(CodeBucketNotEmpty,
		fmt.Sprintf("Bucket '%s' is not empty", bucket),
		"Delete bucket").
		WithContext("bucket", bucket).
		WithOriginalError(originalErr).
		WithTroubleshooting(
			"Buckets must be empty before deletion",
			"Delete objects (and all object versions if versioning is enabled) first",
		)
}

// NewObjectNotFoundError creates an error for a missing object key
func NewObjectNotFoundError(bucket, key, operation string) *TaskError {
	return NewS3Error(CodeObjectNotFound,
		fmt.Sprintf("Object 's3://%s/%s' not found", bucket, key),
		operation).
		WithContext("bucket", bucket).
		WithContext("key", key)
}

// NewS3APIError classifies an S3 failure by its API error code.
func NewS3APIError(operation, code string, originalErr error) *TaskError {
	switch code {
	case "AccessDenied", "Forbidden", "AllAccessDisabled":
		return NewPermissionError(CodeAccessDenied,
			"Access denied by S3", operation).
			WithContext("code", code).
			WithOriginalError(originalErr).
			WithTroubleshooting(
				"Check the IAM policy attached to the configured credentials",
				"Bucket policies and Public Access Block settings can also deny access",
			)
	case "InvalidClientTokenId", "SignatureDoesNotMatch", "InvalidAccessKeyId", "ExpiredToken":
		return NewCredentialsError(operation, originalErr).WithContext("code", code)
	case "NoSuchBucket":
		return NewS3Error(CodeBucketNotFound, "The specified bucket does not exist", operation).
			WithContext("code", code).
			WithOriginalError(originalErr).
			WithTroubleshooting("Run 'manage task2.4 list' to see accessible buckets")
	}

	err := NewS3Error(CodeS3API, "S3 request failed", operation).
		WithOriginalError(originalErr)
	if code != "" {
		err.WithContext("code", code)
	}

	switch code {
	case "BucketAlreadyExists":
		err.WithTroubleshooting(
			"Bucket names are global across all AWS accounts",
			"Choose a different, more specific bucket name",
		)
	case "BucketAlreadyOwnedByYou":
		err.WithTroubleshooting("The bucket already exists in your account")
	case "InvalidBucketName":
		err.WithTroubleshooting("Bucket names must be 3-63 lowercase letters, digits, dots or hyphens")
	case "IllegalLocationConstraintException":
		err.WithTroubleshooting("The configured region does not match the bucket's region (aws_region_name)")
	default:
		err.WithTroubleshooting(
			"Check your network connection and the S3 service health",
			"Re-run with --debug for request details",
		)
	}
	return err
}

// NewCredentialsError reports invalid or expired AWS credentials.
func NewCredentialsError(operation string, originalErr error) *TaskError {
	return NewConfigurationError(CodeCredentials,
		"AWS credentials (key, secret, or token) may be invalid or expired",
		operation).
		WithOriginalError(originalErr).
		WithTroubleshooting(
			"Set aws_access_key_id, aws_secret_access_key and aws_region_name in the env file",
			"Session tokens expire; refresh aws_session_token if you use temporary credentials",
		)
}

// NewEnvFileError reports an env file that could not be read.
func NewEnvFileError(path string, originalErr error) *TaskError {
	return NewConfigurationError(CodeEnvFile,
		fmt.Sprintf("Could not load env file '%s'", path),
		"Load configuration").
		WithContext("path", path).
		WithOriginalError(originalErr)
}

// NewValidationFailedError creates an error for input validation failures
func NewValidationFailedError(field, value, reason string) *TaskError {
	return NewValidationError(CodeValidationInput,
		fmt.Sprintf("Invalid value for %s: '%s' (%s)", field, value, reason),
		"Validate input").
		WithContext("field", field).
		WithContext("value", value).
		WithTroubleshooting("Use --desc or --help to see the task's flags")
}

// NewInvalidFileTypeError rejects uploads outside the MIME allow-list.
func NewInvalidFileTypeError(detected string, allowed []string) *TaskError {
	return NewValidationError(CodeInvalidFileType,
		fmt.Sprintf("Invalid file type detected: '%s'", detected),
		"Validate upload").
		WithContext("detected", detected).
		WithTroubleshooting(fmt.Sprintf("Allowed types: %s", strings.Join(allowed, ", ")))
}

// NewDownloadError wraps HTTP download failures.
func NewDownloadError(url string, originalErr error) *TaskError {
	return NewNetworkError(CodeDownload,
		fmt.Sprintf("Failed to download '%s'", url),
		"Download file").
		WithContext("url", url).
		WithOriginalError(originalErr).
		WithTroubleshooting("Verify the URL is reachable and returns a 2xx status")
}

// IsRetryableError reports whether re-running the task may succeed.
func IsRetryableError(err error) bool {
	var taskErr *TaskError
	if !As(err, &taskErr) {
		return false
	}
	if taskErr.Category == ErrorCategoryNetwork {
		return true
	}
	if taskErr.Category == ErrorCategoryS3 && taskErr.OriginalError != nil {
		errStr := strings.ToLower(taskErr.OriginalError.Error())
		return strings.Contains(errStr, "timeout") ||
			strings.Contains(errStr, "slowdown") ||
			strings.Contains(errStr, "internalerror") ||
			strings.Contains(errStr, "503")
	}
	return false
}
