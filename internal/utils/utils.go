package utils

import (
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DefaultContentType is used when no type is known for a file extension.
const DefaultContentType = "application/octet-stream"

// ObjectURL is the virtual-hosted URL of an uploaded object.
func ObjectURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
}

// WebsiteURL returns the static website endpoint for a bucket in region.
// us-east-1 still uses the legacy dashed form.
func WebsiteURL(bucket, region string) string {
	if region == "" || region == "us-east-1" {
		return fmt.Sprintf("http://%s.s3-website-us-east-1.amazonaws.com", bucket)
	}
	return fmt.Sprintf("http://%s.s3-website.%s.amazonaws.com", bucket, region)
}

// Extension returns the lowercase extension of key without the dot, or "".
// Leading dots of the base name are not extension separators, so ".bashrc"
// has no extension.
func Extension(key string) string {
	base := strings.TrimLeft(path.Base(key), ".")
	ext := path.Ext(base)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ContentTypeByExtension guesses a Content-Type from a file name.
func ContentTypeByExtension(name string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		return DefaultContentType
	}
	return ct
}

// ToObjectKey converts a relative filesystem path into an object key.
func ToObjectKey(rel string) string {
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}

// TimestampedName builds "<prefix>_<tag>_<YYYYMMDD_HHMMSS>.<ext>".
func TimestampedName(prefix, tag, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, tag, now.Format("20060102_150405"), ext)
}
