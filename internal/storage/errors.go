package storage

import (
	"errors"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
)

// ErrorCode returns the S3 API error code carried by err, or "".
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// StatusCode returns the HTTP status of a failed S3 response, or 0.
func StatusCode(err error) int {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

func isNotFound(err error) bool {
	switch ErrorCode(err) {
	case "NotFound", "NoSuchBucket", "404":
		return true
	}
	return StatusCode(err) == 404
}

func isForbidden(err error) bool {
	switch ErrorCode(err) {
	case "Forbidden", "AccessDenied", "403":
		return true
	}
	return StatusCode(err) == 403
}

func wrap(operation string, err error) *taskerrors.TaskError {
	return taskerrors.NewS3APIError(operation, ErrorCode(err), err)
}
