package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadDirectoryAndPublish(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.weird"), []byte("?"), 0o644))

	ctx := context.Background()
	c, fake := newTestClient("eu-central-1")
	require.NoError(t, c.CreateBucket(ctx, "site"))

	keys, err := c.UploadDirectory(ctx, "site", dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index.html", "css/site.css", "blob.weird"}, keys)
	assert.Equal(t, "text/html; charset=utf-8", fake.Object("site", "index.html").ContentType)
	assert.Equal(t, "text/css; charset=utf-8", fake.Object("site", "css/site.css").ContentType)
	assert.Equal(t, "application/octet-stream", fake.Object("site", "blob.weird").ContentType)

	url, err := c.PublishWebsite(ctx, "site")
	require.NoError(t, err)
	assert.Equal(t, "http://site.s3-website.eu-central-1.amazonaws.com", url)

	b := fake.Bucket("site")
	require.NotNil(t, b.Website)
	assert.Equal(t, "index.html", aws.ToString(b.Website.IndexDocument.Suffix))
	assert.Equal(t, "error.html", aws.ToString(b.Website.ErrorDocument.Key))
	assert.False(t, b.PAB)
	assert.NotNil(t, b.Policy)
}

func TestUploadDirectoryRejectsMissingSource(t *testing.T) {
	c, _ := newTestClient("us-west-2")
	_, err := c.UploadDirectory(context.Background(), "site", filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
