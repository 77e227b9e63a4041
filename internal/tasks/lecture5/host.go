package lecture5

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
	"github.com/maxkimambo/manage/internal/validation"
)

func hostCommand(env *task.Env) *cobra.Command {
	var bucket, source string
	cmd := s3cmd.Leaf("host", "Deploy a local directory as a static website", func(cmd *cobra.Command, client *storage.Client) error {
		if err := validation.ValidateBucketName(bucket); err != nil {
			return err
		}
		ctx := cmd.Context()

		created, err := client.EnsureBucket(ctx, bucket)
		if err != nil {
			return err
		}
		if created {
			logger.User.Bucketf("Created bucket '%s' in %s", bucket, client.Region())
		}

		keys, err := client.UploadDirectory(ctx, bucket, source)
		if err != nil {
			return err
		}
		logger.User.Uploadf("Uploaded %d file(s) from '%s'", len(keys), source)

		url, err := client.PublishWebsite(ctx, bucket)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Successfully deployed static website from '%s'\n", source)
		fmt.Fprintf(out, "Your website is now available at: %s\n", url)
		if !hasIndex(keys) {
			fmt.Fprintln(out, utils.NewBox(utils.WarningMessage, "No index.html uploaded").
				AddLine(fmt.Sprintf("'%s' has no top-level %s, so the site root will return an error page.", source, storage.IndexDocument)).
				AddBullet(fmt.Sprintf("Add %s to the root of '%s'", storage.IndexDocument, source)).
				AddBullet("Run task5.1 host again").
				Render())
		}
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket to host the website in.")
	cmd.Flags().StringVar(&source, "source", "", "Directory holding the website files")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func hasIndex(keys []string) bool {
	for _, k := range keys {
		if k == storage.IndexDocument {
			return true
		}
	}
	return false
}
