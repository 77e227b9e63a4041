package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// As is errors.As, re-exported so callers need only this package.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// DisplayErrorSummary provides a brief summary of the error for logs
func DisplayErrorSummary(err error) string {
	var taskErr *TaskError
	if As(err, &taskErr) {
		return fmt.Sprintf("%s-%s: %s", taskErr.Category, taskErr.Code, taskErr.Message)
	}

	errStr := err.Error()
	if len(errStr) > 100 {
		return errStr[:97] + "..."
	}
	return errStr
}

// FormatForCLI formats an error for command-line display
func FormatForCLI(err error) string {
	var taskErr *TaskError
	if !As(err, &taskErr) {
		return fmt.Sprintf("\nError: %v\n", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\nError [%s-%s]\n", taskErr.Category, taskErr.Code))
	sb.WriteString(fmt.Sprintf("  %s\n", taskErr.Message))

	if taskErr.Operation != "" {
		sb.WriteString(fmt.Sprintf("\nFailed Operation: %s\n", taskErr.Operation))
	}

	if len(taskErr.Context) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, key := range sortedKeys(taskErr.Context) {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", key, taskErr.Context[key]))
		}
	}

	// Nested task errors contribute their own hints.
	steps := taskErr.Troubleshooting
	var inner *TaskError
	if taskErr.OriginalError != nil && As(taskErr.OriginalError, &inner) {
		steps = append(append([]string{}, steps...), inner.Troubleshooting...)
	}
	if len(steps) > 0 {
		sb.WriteString("\nHow to resolve:\n")
		for i, step := range steps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	if taskErr.OriginalError != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical details: %v\n", taskErr.OriginalError))
	}

	return sb.String()
}

// IsUserError determines if an error is due to user input/configuration
func IsUserError(err error) bool {
	var taskErr *TaskError
	if As(err, &taskErr) {
		return taskErr.Category == ErrorCategoryValidation ||
			taskErr.Category == ErrorCategoryConfiguration
	}
	return false
}

// GetErrorCode extracts the error code for reporting
func GetErrorCode(err error) string {
	var taskErr *TaskError
	if As(err, &taskErr) {
		return fmt.Sprintf("%s-%s", taskErr.Category, taskErr.Code)
	}
	return "UNKNOWN"
}
