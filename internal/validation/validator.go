package validation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net"
	"regexp"
	"sort"
	"strings"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
)

//go:embed allowed_mimetypes.json
var allowedMimeTypesJSON []byte

// MimeAllowList is the set of content types accepted by URL uploads
type MimeAllowList struct {
	UploadTypes map[string]MimeTypeInfo `json:"uploadTypes"`
}

// MimeTypeInfo describes one allowed type
type MimeTypeInfo struct {
	Extension string `json:"extension"`
}

var allowList *MimeAllowList

func init() {
	var err error
	allowList, err = loadAllowList(allowedMimeTypesJSON)
	if err != nil {
		allowList = getDefaultAllowList()
	}
}

func loadAllowList(data []byte) (*MimeAllowList, error) {
	var list MimeAllowList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mime allow-list: %w", err)
	}
	if len(list.UploadTypes) == 0 {
		return nil, fmt.Errorf("mime allow-list is empty")
	}
	return &list, nil
}

func getDefaultAllowList() *MimeAllowList {
	return &MimeAllowList{
		UploadTypes: map[string]MimeTypeInfo{
			"image/bmp":  {Extension: "bmp"},
			"image/jpeg": {Extension: "jpg"},
			"image/png":  {Extension: "png"},
			"image/webp": {Extension: "webp"},
			"video/mp4":  {Extension: "mp4"},
		},
	}
}

// NormalizeMimeType lowercases a content type and drops any parameters.
func NormalizeMimeType(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// IsAllowedMimeType reports whether uploads of mimeType are permitted
func IsAllowedMimeType(mimeType string) bool {
	_, ok := allowList.UploadTypes[NormalizeMimeType(mimeType)]
	return ok
}

// AllowedMimeTypes returns the allow-list in sorted order
func AllowedMimeTypes() []string {
	types := make([]string, 0, len(allowList.UploadTypes))
	for t := range allowList.UploadTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ValidateUploadMimeType returns a validation error for types outside the allow-list.
func ValidateUploadMimeType(mimeType string) error {
	if IsAllowedMimeType(mimeType) {
		return nil
	}
	return taskerrors.NewInvalidFileTypeError(NormalizeMimeType(mimeType), AllowedMimeTypes())
}

var bucketNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)

// ValidateBucketName applies the S3 general purpose bucket naming rules
func ValidateBucketName(name string) error {
	fail := func(reason string) error {
		return taskerrors.NewValidationFailedError("bucket name", name, reason)
	}

	if name == "" {
		return fail("bucket name cannot be empty")
	}
	if len(name) < 3 || len(name) > 63 {
		return fail("must be between 3 and 63 characters")
	}
	if !bucketNamePattern.MatchString(name) {
		return fail("only lowercase letters, digits, dots and hyphens; must start and end with a letter or digit")
	}
	if strings.Contains(name, "..") {
		return fail("must not contain two adjacent periods")
	}
	if net.ParseIP(name) != nil {
		return fail("must not be formatted as an IP address")
	}
	if strings.HasPrefix(name, "xn--") {
		return fail("must not start with 'xn--'")
	}
	if strings.HasSuffix(name, "-s3alias") {
		return fail("must not end with '-s3alias'")
	}
	return nil
}

// CannedACLs are the object ACLs accepted by set-object-acl
var CannedACLs = []string{
	"private",
	"public-read",
	"public-read-write",
	"authenticated-read",
	"aws-exec-read",
	"bucket-owner-read",
	"bucket-owner-full-control",
}

// ValidateCannedACL checks acl against CannedACLs
func ValidateCannedACL(acl string) error {
	for _, candidate := range CannedACLs {
		if acl == candidate {
			return nil
		}
	}
	return taskerrors.NewValidationFailedError("--acl", acl,
		"must be one of "+strings.Join(CannedACLs, ", "))
}

// ValidateRequired fails when value is empty; flag names the missing option.
func ValidateRequired(flag, value string) error {
	if strings.TrimSpace(value) == "" {
		return taskerrors.NewValidationFailedError(flag, value, "is required")
	}
	return nil
}

// ValidatePositive validates that a day count or similar value is above zero
func ValidatePositive(flag string, value int) error {
	if value < 1 {
		return taskerrors.NewValidationFailedError(flag, fmt.Sprint(value), "must be a positive integer")
	}
	return nil
}
