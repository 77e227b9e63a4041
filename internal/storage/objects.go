package storage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/progress"
	"github.com/maxkimambo/manage/internal/utils"
	"github.com/maxkimambo/manage/internal/validation"
)

// sniffLen is how many leading bytes are inspected to detect a download's type.
const sniffLen = 2048

// UploadFromURL streams url into bucket/key after checking its detected MIME type
// against the allow-list. It returns the public object URL.
func (c *Client) UploadFromURL(ctx context.Context, bucket, key, rawURL string) (string, error) {
	dlCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	sniffDeadline := time.AfterFunc(c.SniffTimeout, cancel)
	defer sniffDeadline.Stop()

	failed := func(err error) error {
		if dlCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("no content received within %s", c.SniffTimeout)
		}
		return taskerrors.NewDownloadError(rawURL, err)
	}

	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", taskerrors.NewDownloadError(rawURL, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", failed(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", taskerrors.NewDownloadError(rawURL, fmt.Errorf("unexpected status %s", resp.Status)).
			WithContext("status", resp.StatusCode)
	}

	body := bufio.NewReaderSize(resp.Body, sniffLen)
	head, err := body.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", failed(err)
	}
	if !sniffDeadline.Stop() {
		return "", failed(context.DeadlineExceeded)
	}

	if len(head) == 0 {
		return "", taskerrors.NewDownloadError(rawURL, fmt.Errorf("downloaded file appears empty"))
	}

	mimeType := validation.NormalizeMimeType(mimetype.Detect(head).String())
	logger.Op.WithFields(map[string]interface{}{
		"url":  rawURL,
		"mime": mimeType,
	}).Debug("detected download content type")

	if err := validation.ValidateUploadMimeType(mimeType); err != nil {
		return "", err
	}

	_, err = c.uploader().Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", wrap("Upload object", err).
			WithContext("bucket", bucket).
			WithContext("key", key)
	}
	return utils.ObjectURL(bucket, key), nil
}

// UploadBytes stores data at bucket/key.
func (c *Client) UploadBytes(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return wrap("Put object", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	return nil
}

// UploadSmallFile sends path in a single PutObject.
func (c *Client) UploadSmallFile(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return taskerrors.NewValidationFailedError("--file-path", path, err.Error())
	}
	defer f.Close()

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(utils.ContentTypeByExtension(path)),
	})
	if err != nil {
		return wrap("Put object", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	return nil
}

// UploadLargeFile performs a manual multipart upload of path in PartSize chunks.
// Any failure aborts the upload so no orphaned parts remain.
func (c *Client) UploadLargeFile(ctx context.Context, bucket, key, path string) (parts int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, taskerrors.NewValidationFailedError("--file-path", path, err.Error())
	}
	defer f.Close()

	created, err := c.api.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(utils.ContentTypeByExtension(path)),
	})
	if err != nil {
		return 0, wrap("Create multipart upload", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	uploadID := created.UploadId

	abort := func(cause error) error {
		_, abortErr := c.api.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(bucket),
			Key:      aws.String(key),
			UploadId: uploadID,
		})
		if abortErr != nil {
			logger.Op.WithFields(map[string]interface{}{
				"upload_id": aws.ToString(uploadID),
				"error":     abortErr.Error(),
			}).Error("failed to abort multipart upload")
		}
		return cause
	}

	var (
		completed []types.CompletedPart
		sent      int64
		total     int
	)
	if info, statErr := f.Stat(); statErr == nil {
		total = int((info.Size() + c.PartSize - 1) / c.PartSize)
	}
	reporter := progress.NewReporter(ProgressInterval)

	buf := make([]byte, c.PartSize)
	for partNumber := int32(1); ; partNumber++ {
		n, readErr := io.ReadFull(f, buf)
		if n > 0 {
			out, err := c.api.UploadPart(ctx, &s3.UploadPartInput{
				Bucket:     aws.String(bucket),
				Key:        aws.String(key),
				UploadId:   uploadID,
				PartNumber: aws.Int32(partNumber),
				Body:       bytes.NewReader(buf[:n]),
			})
			if err != nil {
				return 0, abort(wrap("Upload part", err).
					WithContext("key", key).
					WithContext("part", partNumber))
			}
			completed = append(completed, types.CompletedPart{
				ETag:       out.ETag,
				PartNumber: aws.Int32(partNumber),
			})
			logger.Op.WithFields(map[string]interface{}{
				"key":   key,
				"part":  partNumber,
				"bytes": n,
			}).Debug("uploaded part")

			sent += int64(n)
			status := progress.Info{Phase: progress.PhaseUpload, Operation: key, Unit: "parts",
				Done: int(partNumber), Total: total, Bytes: sent}
			if reporter.ShouldReport(status) {
				logger.User.Info(reporter.Report(status))
			}
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return 0, abort(fmt.Errorf("read %s: %w", path, readErr))
		}
	}

	_, err = c.api.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(bucket),
		Key:             aws.String(key),
		UploadId:        uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return 0, abort(wrap("Complete multipart upload", err).WithContext("key", key))
	}
	return len(completed), nil
}

// UploadFileWithManager hands path to the SDK upload manager.
func (c *Client) UploadFileWithManager(ctx context.Context, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return taskerrors.NewValidationFailedError("--file-path", path, err.Error())
	}
	defer f.Close()

	_, err = c.uploader().Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(utils.ContentTypeByExtension(path)),
	}, func(u *manager.Uploader) {
		u.LeavePartsOnError = false
	})
	if err != nil {
		return wrap("Upload object", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	return nil
}

// DetectFileMimeType sniffs path's content type with parameters stripped.
// An undetectable type yields "unknown".
func DetectFileMimeType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", taskerrors.NewValidationFailedError("--file", path, err.Error())
	}
	t := validation.NormalizeMimeType(mt.String())
	if t == "" {
		return "unknown", nil
	}
	return t, nil
}

// UploadFileByType stores path under "<mime>/<basename>" and returns the key.
func (c *Client) UploadFileByType(ctx context.Context, bucket, path string) (string, error) {
	mimeType, err := DetectFileMimeType(path)
	if err != nil {
		return "", err
	}
	key := mimeType + "/" + filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return "", taskerrors.NewValidationFailedError("--file", path, err.Error())
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if mimeType != "unknown" {
		input.ContentType = aws.String(mimeType)
	}
	if _, err := c.api.PutObject(ctx, input); err != nil {
		return "", wrap("Put object", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	return key, nil
}

// SetObjectACL applies a canned ACL to one object.
func (c *Client) SetObjectACL(ctx context.Context, bucket, key, acl string) error {
	if err := validation.ValidateCannedACL(acl); err != nil {
		return err
	}
	_, err := c.api.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACL(acl),
	})
	if err != nil {
		return wrap("Put object ACL", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	return nil
}

// DeleteObject removes key. In a versioned bucket this adds a delete marker.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrap("Delete object", err).WithContext("bucket", bucket).WithContext("key", key)
	}
	return nil
}

func (c *Client) copyObject(ctx context.Context, bucket, srcKey, versionID, dstKey string) error {
	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(CopySource(bucket, srcKey, versionID)),
	})
	if err != nil {
		return wrap("Copy object", err).
			WithContext("bucket", bucket).
			WithContext("source", srcKey).
			WithContext("destination", dstKey)
	}
	return nil
}

// CopySource builds the URL-encoded "bucket/key[?versionId=v]" copy header.
func CopySource(bucket, key, versionID string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	src := bucket + "/" + strings.Join(segments, "/")
	if versionID != "" {
		src += "?versionId=" + url.QueryEscape(versionID)
	}
	return src
}
