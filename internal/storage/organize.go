package storage

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/utils"
)

// OrganizeReport counts what OrganizeByExtension did.
type OrganizeReport struct {
	Scanned      int
	Moved        int
	Skipped      int
	Errors       int
	PerExtension map[string]int
}

// OrganizeByExtension moves root-level objects into "<ext>/<key>".
// Nested, empty and extension-less keys are skipped. A failure on one object
// is counted and the scan continues.
func (c *Client) OrganizeByExtension(ctx context.Context, bucket string) (*OrganizeReport, error) {
	report := &OrganizeReport{PerExtension: map[string]int{}}
	logger.User.Startingf("Organizing root-level objects in '%s'", bucket)

	paginator := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return report, wrap("List objects", err).WithContext("bucket", bucket)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			report.Scanned++

			ext := utils.Extension(key)
			if strings.Contains(key, "/") || aws.ToInt64(obj.Size) == 0 {
				report.Skipped++
				continue
			}
			if ext == "" {
				logger.User.Infof("Skipping '%s' (no extension found)", key)
				report.Skipped++
				continue
			}

			dst := ext + "/" + key
			log := logger.Op.WithFields(map[string]interface{}{"key": key, "destination": dst})
			if err := c.copyObject(ctx, bucket, key, "", dst); err != nil {
				log.WithField("error", err.Error()).Error("copy failed")
				logger.User.Errorf("Could not move '%s'", key)
				report.Errors++
				continue
			}
			if err := c.DeleteObject(ctx, bucket, key); err != nil {
				log.WithField("error", err.Error()).Error("delete after copy failed")
				logger.User.Errorf("Copied '%s' but could not delete the original", key)
				report.Errors++
				continue
			}

			report.Moved++
			report.PerExtension[ext]++
			logger.User.Successf("Moved '%s' to '%s'", key, dst)
		}
	}
	return report, nil
}
