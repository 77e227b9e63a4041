package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
)

// maxDeleteBatch is the DeleteObjects per-request limit.
const maxDeleteBatch = 1000

// ObjectVersion is one version or delete marker of a key.
type ObjectVersion struct {
	Key            string
	VersionID      string
	LastModified   time.Time
	Size           int64
	IsLatest       bool
	IsDeleteMarker bool
}

// ListVersions returns the versions and delete markers of exactly key, newest first.
func (c *Client) ListVersions(ctx context.Context, bucket, key string) ([]ObjectVersion, error) {
	var versions []ObjectVersion
	input := &s3.ListObjectVersionsInput{
		Bucket: aws.String(bucket),
		Prefix: aws.String(key),
	}

	for {
		out, err := c.api.ListObjectVersions(ctx, input)
		if err != nil {
			return nil, wrap("List object versions", err).WithContext("bucket", bucket).WithContext("key", key)
		}

		for _, v := range out.Versions {
			if aws.ToString(v.Key) != key {
				continue
			}
			versions = append(versions, ObjectVersion{
				Key:          key,
				VersionID:    aws.ToString(v.VersionId),
				LastModified: aws.ToTime(v.LastModified),
				Size:         aws.ToInt64(v.Size),
				IsLatest:     aws.ToBool(v.IsLatest),
			})
		}
		for _, m := range out.DeleteMarkers {
			if aws.ToString(m.Key) != key {
				continue
			}
			versions = append(versions, ObjectVersion{
				Key:            key,
				VersionID:      aws.ToString(m.VersionId),
				LastModified:   aws.ToTime(m.LastModified),
				IsLatest:       aws.ToBool(m.IsLatest),
				IsDeleteMarker: true,
			})
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		input.KeyMarker = out.NextKeyMarker
		input.VersionIdMarker = out.NextVersionIdMarker
	}

	sort.SliceStable(versions, func(i, j int) bool {
		if versions[i].LastModified.Equal(versions[j].LastModified) {
			return versions[i].IsLatest && !versions[j].IsLatest
		}
		return versions[i].LastModified.After(versions[j].LastModified)
	})
	return versions, nil
}

// RestorePrevious copies the second-newest real version of key over the current one.
// It returns the restored version id.
func (c *Client) RestorePrevious(ctx context.Context, bucket, key string) (string, error) {
	versions, err := c.ListVersions(ctx, bucket, key)
	if err != nil {
		return "", err
	}

	if len(versions) == 0 {
		return "", taskerrors.NewObjectNotFoundError(bucket, key, "Restore previous version")
	}

	var actual []ObjectVersion
	for _, v := range versions {
		if v.IsDeleteMarker || v.VersionID == "" || v.VersionID == "null" {
			continue
		}
		actual = append(actual, v)
	}
	if len(actual) < 2 {
		return "", taskerrors.NewValidationError(taskerrors.CodeValidationInput,
			fmt.Sprintf("Not enough versions of '%s' to restore (found %d)", key, len(actual)),
			"Restore previous version").
			WithContext("bucket", bucket).
			WithContext("key", key).
			WithTroubleshooting("Versioning must be enabled and the object uploaded at least twice")
	}

	previous := actual[1]
	if err := c.copyObject(ctx, bucket, key, previous.VersionID, key); err != nil {
		return "", err
	}
	logger.Op.WithFields(map[string]interface{}{
		"bucket":     bucket,
		"key":        key,
		"version_id": previous.VersionID,
	}).Info("restored previous version")
	return previous.VersionID, nil
}

// DeleteReport summarizes DeleteOldVersions.
type DeleteReport struct {
	Queued  int
	Deleted int
	Failed  int
	Skipped []string
}

// DeleteOldVersions removes non-latest versions and delete markers of keys last
// modified before cutoff. The latest entry of a key is always kept, even when
// it is a delete marker. Keys whose listing fails are skipped.
func (c *Client) DeleteOldVersions(ctx context.Context, bucket string, keys []string, cutoff time.Time) (*DeleteReport, error) {
	report := &DeleteReport{}
	var queue []types.ObjectIdentifier

	for _, key := range keys {
		versions, err := c.ListVersions(ctx, bucket, key)
		if err != nil {
			logger.Op.WithFields(map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			}).Warn("skipping key, could not list versions")
			report.Skipped = append(report.Skipped, key)
			continue
		}
		for _, v := range versions {
			if v.IsLatest {
				continue
			}
			if !v.LastModified.Before(cutoff) {
				continue
			}
			queue = append(queue, types.ObjectIdentifier{
				Key:       aws.String(v.Key),
				VersionId: aws.String(v.VersionID),
			})
		}
	}
	report.Queued = len(queue)

	for start := 0; start < len(queue); start += maxDeleteBatch {
		end := start + maxDeleteBatch
		if end > len(queue) {
			end = len(queue)
		}
		batch := queue[start:end]

		out, err := c.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: batch, Quiet: aws.Bool(false)},
		})
		if err != nil {
			return report, wrap("Delete objects", err).WithContext("bucket", bucket)
		}
		report.Deleted += len(out.Deleted)
		report.Failed += len(out.Errors)
		for _, e := range out.Errors {
			logger.Op.WithFields(map[string]interface{}{
				"key":        aws.ToString(e.Key),
				"version_id": aws.ToString(e.VersionId),
				"code":       aws.ToString(e.Code),
			}).Warn("failed to delete version")
		}
	}
	return report, nil
}

// SixMonthsBefore is the default cutoff for DeleteOldVersions.
func SixMonthsBefore(t time.Time) time.Time {
	return t.AddDate(0, -6, 0)
}

// Now is the client's clock.
func (c *Client) Now() time.Time {
	return c.now()
}
