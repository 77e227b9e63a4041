package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/storage/storagetest"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestUploadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cat.png":
			_, _ = w.Write(pngBytes)
		case "/page.html":
			_, _ = w.Write([]byte("<!DOCTYPE html><html><body>hi</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c, fake := newTestClient("us-west-2")
	c.WithHTTPClient(srv.Client())
	fake.AddBucket("media", "us-west-2")

	url, err := c.UploadFromURL(ctx, "media", "img/cat.png", srv.URL+"/cat.png")
	require.NoError(t, err)
	assert.Equal(t, "https://media.s3.amazonaws.com/img/cat.png", url)

	obj := fake.Object("media", "img/cat.png")
	require.NotNil(t, obj)
	assert.Equal(t, pngBytes, obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)

	_, err = c.UploadFromURL(ctx, "media", "page.html", srv.URL+"/page.html")
	var taskErr *taskerrors.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.CodeInvalidFileType, taskErr.Code)
	assert.Nil(t, fake.Object("media", "page.html"))

	_, err = c.UploadFromURL(ctx, "media", "x", srv.URL+"/missing")
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.ErrorCategoryNetwork, taskErr.Category)
}

func TestUploadFromURLStalledServer(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("\x89PNG"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	c, fake := newTestClient("us-west-2")
	c.WithHTTPClient(srv.Client())
	c.SniffTimeout = 50 * time.Millisecond
	fake.AddBucket("media", "us-west-2")

	start := time.Now()
	_, err := c.UploadFromURL(context.Background(), "media", "slow.png", srv.URL+"/slow.png")
	var taskErr *taskerrors.TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, taskerrors.ErrorCategoryNetwork, taskErr.Category)
	assert.Contains(t, taskerrors.FormatForCLI(err), "no content received within 50ms")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Nil(t, fake.Object("media", "slow.png"))
}

func TestUploadSmallFile(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("b", "us-west-2")
	path := writeTemp(t, "notes.txt", []byte("hello"))

	require.NoError(t, c.UploadSmallFile(context.Background(), "b", "docs/notes.txt", path))
	obj := fake.Object("b", "docs/notes.txt")
	require.NotNil(t, obj)
	assert.Equal(t, "hello", string(obj.Data))
	assert.Equal(t, "text/plain; charset=utf-8", obj.ContentType)

	err := c.UploadSmallFile(context.Background(), "b", "k", filepath.Join(t.TempDir(), "nope"))
	assert.True(t, taskerrors.IsUserError(err))
}

func TestUploadLargeFileMultipart(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	c.PartSize = 5
	fake.AddBucket("b", "us-west-2")
	path := writeTemp(t, "big.bin", []byte("abcdefghijkl"))

	parts, err := c.UploadLargeFile(context.Background(), "b", "big.bin", path)
	require.NoError(t, err)
	assert.Equal(t, 3, parts)
	assert.Equal(t, "abcdefghijkl", string(fake.Object("b", "big.bin").Data))
	assert.Equal(t, 0, fake.PendingUploads())
}

func TestUploadLargeFileAbortsOnPartFailure(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	c.PartSize = 5
	fake.AddBucket("b", "us-west-2")
	fake.FailOnKey("UploadPart", "2", storagetest.APIError("InternalError", "boom"))
	path := writeTemp(t, "big.bin", []byte("abcdefghijkl"))

	_, err := c.UploadLargeFile(context.Background(), "b", "big.bin", path)
	require.Error(t, err)
	assert.Len(t, fake.Aborted, 1)
	assert.Equal(t, 0, fake.PendingUploads())
	assert.Nil(t, fake.Object("b", "big.bin"))
}

func TestUploadFileWithManager(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("b", "us-west-2")
	path := writeTemp(t, "photo.png", pngBytes)

	require.NoError(t, c.UploadFileWithManager(context.Background(), "b", "photo.png", path))
	assert.Equal(t, pngBytes, fake.Object("b", "photo.png").Data)
}

func TestUploadFileByType(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("b", "us-west-2")
	path := writeTemp(t, "picture.data", pngBytes)

	key, err := c.UploadFileByType(context.Background(), "b", path)
	require.NoError(t, err)
	assert.Equal(t, "image/png/picture.data", key)
	assert.Equal(t, "image/png", fake.Object("b", key).ContentType)

	textPath := writeTemp(t, "readme.md", []byte("plain words here"))
	key, err = c.UploadFileByType(context.Background(), "b", textPath)
	require.NoError(t, err)
	assert.Equal(t, "text/plain/readme.md", key)
}

func TestSetObjectACL(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("b", "us-west-2")
	fake.AddVersion("b", "a.png", pngBytes, fake.Now())

	require.NoError(t, c.SetObjectACL(ctx, "b", "a.png", "public-read"))
	assert.Equal(t, "public-read", fake.Object("b", "a.png").ACL)

	err := c.SetObjectACL(ctx, "b", "a.png", "world")
	assert.True(t, taskerrors.IsUserError(err))
	assert.Equal(t, 1, fake.Count("PutObjectAcl"))

	assert.Error(t, c.SetObjectACL(ctx, "b", "missing.png", "private"))
}

func TestDeleteObject(t *testing.T) {
	c, fake := newTestClient("us-west-2")
	fake.AddBucket("b", "us-west-2")
	fake.AddVersion("b", "a.txt", []byte("a"), fake.Now())

	require.NoError(t, c.DeleteObject(context.Background(), "b", "a.txt"))
	assert.Nil(t, fake.Object("b", "a.txt"))
}

func TestCopySource(t *testing.T) {
	assert.Equal(t, "b/dir/a%20b.txt", CopySource("b", "dir/a b.txt", ""))
	assert.Equal(t, "b/a.txt?versionId=v%2B1", CopySource("b", "a.txt", "v+1"))
}
