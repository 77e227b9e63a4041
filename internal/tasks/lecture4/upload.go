package lecture4

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
)

func uploadByTypeCommand(env *task.Env) *cobra.Command {
	var bucket, file string
	cmd := s3cmd.Leaf("upload-by-type", "Upload a file into a folder named after its MIME type", func(cmd *cobra.Command, client *storage.Client) error {
		key, err := client.UploadFileByType(cmd.Context(), bucket, file)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully uploaded '%s' to s3://%s/%s\n", file, bucket, key)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The destination bucket.")
	cmd.Flags().StringVar(&file, "file", "", "Local file to upload")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func deleteOldVersionCommand(env *task.Env) *cobra.Command {
	var (
		bucket string
		keys   []string
	)
	cmd := s3cmd.Leaf("delete-old-version", "Delete non-current versions older than 6 months", func(cmd *cobra.Command, client *storage.Client) error {
		cutoff := storage.SixMonthsBefore(client.Now())
		report, err := client.DeleteOldVersions(cmd.Context(), bucket, keys, cutoff)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\n--- Deletion Summary ---")
		fmt.Fprintf(out, "Cutoff: %s\n", cutoff.UTC().Format("2006-01-02 15:04:05"))
		if len(report.Skipped) > 0 {
			fmt.Fprintf(out, "Skipped keys (listing failed): %v\n", report.Skipped)
		}
		if report.Queued == 0 {
			fmt.Fprintln(out, "No old versions were found matching the criteria or specified keys.")
			return nil
		}
		fmt.Fprintf(out, "Queued: %d\nDeleted: %d\nFailed: %d\n", report.Queued, report.Deleted, report.Failed)
		if report.Failed > 0 {
			fmt.Fprintln(out, utils.Error("Some versions were not deleted",
				fmt.Sprintf("%d version(s) failed; see the log for the S3 error codes.", report.Failed)))
		}
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket holding the objects.")
	cmd.Flags().StringSliceVar(&keys, "object-keys", nil, "Keys whose old versions are deleted")
	_ = cmd.MarkFlagRequired("object-keys")
	// "--object-keys a b c" leaves b and c as positional args.
	cmd.Args = cobra.ArbitraryArgs
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		keys = append(keys, args...)
	}
	return cmd
}
