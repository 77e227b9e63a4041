package errors

import (
	"fmt"
	"sort"
)

// ErrorCategory represents the category of error
type ErrorCategory string

const (
	// ErrorCategoryS3 represents S3 API errors
	ErrorCategoryS3 ErrorCategory = "S3"
	// ErrorCategoryValidation represents bad flags or input values
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	// ErrorCategoryPermission represents permission/authorization errors
	ErrorCategoryPermission ErrorCategory = "PERMISSION"
	// ErrorCategoryNetwork represents download and HTTP errors
	ErrorCategoryNetwork ErrorCategory = "NETWORK"
	// ErrorCategoryConfiguration represents env/credential errors
	ErrorCategoryConfiguration ErrorCategory = "CONFIGURATION"
	// ErrorCategoryTask represents dispatcher errors
	ErrorCategoryTask ErrorCategory = "TASK"
)

// TaskError is a structured error with context and troubleshooting information
type TaskError struct {
	Category        ErrorCategory
	Code            string
	Message         string
	Operation       string
	Context         map[string]interface{}
	Troubleshooting []string
	OriginalError   error
}

// Error keeps to one line; FormatForCLI renders the full report.
func (e *TaskError) Error() string {
	msg := fmt.Sprintf("%s-%s: %s", e.Category, e.Code, e.Message)
	if e.OriginalError != nil {
		msg += ": " + e.OriginalError.Error()
	}
	return msg
}

// Unwrap returns the original error for error chain compatibility
func (e *TaskError) Unwrap() error {
	return e.OriginalError
}

// NewTaskError creates a new task error with the specified parameters
func NewTaskError(category ErrorCategory, code, message, operation string) *TaskError {
	return &TaskError{
		Category:        category,
		Code:            code,
		Message:         message,
		Operation:       operation,
		Context:         make(map[string]interface{}),
		Troubleshooting: []string{},
	}
}

// WithContext adds context information to the error
func (e *TaskError) WithContext(key string, value interface{}) *TaskError {
	e.Context[key] = value
	return e
}

// WithTroubleshooting adds troubleshooting steps to the error
func (e *TaskError) WithTroubleshooting(steps ...string) *TaskError {
	e.Troubleshooting = append(e.Troubleshooting, steps...)
	return e
}

// WithOriginalError adds the original error
func (e *TaskError) WithOriginalError(err error) *TaskError {
	e.OriginalError = err
	return e
}

func NewS3Error(code, message, operation string) *TaskError {
	return NewTaskError(ErrorCategoryS3, code, message, operation)
}

func NewValidationError(code, message, operation string) *TaskError {
	return NewTaskError(ErrorCategoryValidation, code, message, operation)
}

func NewPermissionError(code, message, operation string) *TaskError {
	return NewTaskError(ErrorCategoryPermission, code, message, operation)
}

func NewConfigurationError(code, message, operation string) *TaskError {
	return NewTaskError(ErrorCategoryConfiguration, code, message, operation)
}

func NewNetworkError(code, message, operation string) *TaskError {
	return NewTaskError(ErrorCategoryNetwork, code, message, operation)
}

// sortedKeys keeps Context output stable.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
