package utils

import (
	"fmt"
	"strings"
)

// ErrorContext provides additional context for non-fatal warnings
type ErrorContext struct {
	Operation  string
	Resource   string
	Reason     string
	Suggestion string
	Command    string
}

// FormatError creates a detailed error message with context
func FormatError(ctx ErrorContext, err error) string {
	var sb strings.Builder

	sb.WriteString("\n[ERROR] ")
	if ctx.Operation != "" {
		sb.WriteString(fmt.Sprintf("Failed to %s", ctx.Operation))
		if ctx.Resource != "" {
			sb.WriteString(fmt.Sprintf(" for '%s'", ctx.Resource))
		}
	} else {
		sb.WriteString("Operation failed")
	}
	sb.WriteString("\n")

	if ctx.Reason != "" {
		sb.WriteString(fmt.Sprintf("        Reason: %s\n", ctx.Reason))
	} else if err != nil {
		sb.WriteString(fmt.Sprintf("        Reason: %v\n", err))
	}
	if ctx.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("        Action: %s\n", ctx.Suggestion))
	}
	if ctx.Command != "" {
		sb.WriteString(fmt.Sprintf("        Command to check: %s\n", ctx.Command))
	}

	return sb.String()
}

// PermissionError formats an access-denied warning for a bucket operation
func PermissionError(operation, bucket string) string {
	return FormatError(ErrorContext{
		Operation:  operation,
		Resource:   bucket,
		Reason:     "Insufficient permissions",
		Suggestion: "Ensure the configured IAM user may perform this S3 action",
		Command:    fmt.Sprintf("aws s3api get-bucket-policy --bucket %s", bucket),
	}, nil)
}

// PublicAccessBlockError explains a failed PAB removal before a policy change
func PublicAccessBlockError(bucket string, err error) string {
	return FormatError(ErrorContext{
		Operation:  "delete public access block",
		Resource:   bucket,
		Suggestion: "A public policy may be rejected while Block Public Access is enabled",
		Command:    fmt.Sprintf("aws s3api get-public-access-block --bucket %s", bucket),
	}, err)
}

// ResourceNotFoundError formats a missing bucket or object warning
func ResourceNotFoundError(resourceType, resourceName string) string {
	return FormatError(ErrorContext{
		Operation:  fmt.Sprintf("find %s", resourceType),
		Resource:   resourceName,
		Reason:     fmt.Sprintf("%s does not exist", resourceType),
		Suggestion: fmt.Sprintf("Verify the %s name", resourceType),
		Command:    "aws s3 ls",
	}, nil)
}
