package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/progress"
	"github.com/maxkimambo/manage/internal/utils"
)

// Website documents configured by ConfigureWebsite.
const (
	IndexDocument = "index.html"
	ErrorDocument = "error.html"
)

// ConfigureWebsite enables static website hosting with index.html and error.html.
func (c *Client) ConfigureWebsite(ctx context.Context, bucket string) error {
	_, err := c.api.PutBucketWebsite(ctx, &s3.PutBucketWebsiteInput{
		Bucket: aws.String(bucket),
		WebsiteConfiguration: &types.WebsiteConfiguration{
			IndexDocument: &types.IndexDocument{Suffix: aws.String(IndexDocument)},
			ErrorDocument: &types.ErrorDocument{Key: aws.String(ErrorDocument)},
		},
	})
	if err != nil {
		return wrap("Put bucket website", err).WithContext("bucket", bucket)
	}
	return nil
}

// UploadDirectory uploads every regular file under dir, keyed by its slash-separated
// relative path. It returns the uploaded keys in walk order.
func (c *Client) UploadDirectory(ctx context.Context, bucket, dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, taskerrors.NewValidationFailedError("--source", dir, "must be an existing directory")
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, taskerrors.NewValidationFailedError("--source", dir, err.Error())
	}

	reporter := progress.NewReporter(ProgressInterval)
	keys := make([]string, 0, len(files))
	var sent int64
	for i, path := range files {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return keys, err
		}
		key := utils.ToObjectKey(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return keys, err
		}
		if err := c.UploadBytes(ctx, bucket, key, data, utils.ContentTypeByExtension(path)); err != nil {
			return keys, err
		}
		logger.Op.WithFields(map[string]interface{}{"key": key, "bytes": len(data)}).Debug("uploaded site file")
		keys = append(keys, key)

		sent += int64(len(data))
		status := progress.Info{Phase: progress.PhaseUpload, Operation: key, Unit: "files",
			Done: i + 1, Total: len(files), Bytes: sent}
		if reporter.ShouldReport(status) {
			logger.User.Info(reporter.Report(status))
		}
	}
	return keys, nil
}

// PublishWebsite configures hosting, opens the bucket for public reads and
// returns the website URL for the bucket's region.
func (c *Client) PublishWebsite(ctx context.Context, bucket string) (string, error) {
	if err := c.ConfigureWebsite(ctx, bucket); err != nil {
		return "", err
	}
	if err := c.MakePublic(ctx, bucket); err != nil {
		return "", err
	}
	region, err := c.BucketRegion(ctx, bucket)
	if err != nil {
		return "", err
	}
	return utils.WebsiteURL(bucket, region), nil
}
