package lecture3

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/validation"
)

// DefaultLifecycleDays is how long objects live under set-lifecycle.
const DefaultLifecycleDays = 120

func fileFlags(cmd *cobra.Command, path, key *string) {
	cmd.Flags().StringVar(path, "file-path", "", "Local file to upload")
	cmd.Flags().StringVar(key, "s3-key", "", "Destination object key")
	_ = cmd.MarkFlagRequired("file-path")
	_ = cmd.MarkFlagRequired("s3-key")
}

func uploadSmallCommand(env *task.Env) *cobra.Command {
	var bucket, path, key string
	cmd := s3cmd.Leaf("upload-small", "Upload a file with a single PutObject", func(cmd *cobra.Command, client *storage.Client) error {
		if err := client.UploadSmallFile(cmd.Context(), bucket, key, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully uploaded '%s' to s3://%s/%s\n", path, bucket, key)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The destination bucket.")
	fileFlags(cmd, &path, &key)
	return cmd
}

func uploadLargeCommand(env *task.Env) *cobra.Command {
	var (
		bucket, path, key string
		standard          bool
	)
	cmd := s3cmd.Leaf("upload-large", "Upload a file in multiple parts", func(cmd *cobra.Command, client *storage.Client) error {
		out := cmd.OutOrStdout()
		if standard {
			if err := client.UploadFileWithManager(cmd.Context(), bucket, key, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "Successfully uploaded '%s' to s3://%s/%s using the upload manager\n", path, bucket, key)
			return nil
		}

		parts, err := client.UploadLargeFile(cmd.Context(), bucket, key, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Successfully uploaded '%s' to s3://%s/%s in %d part(s)\n", path, bucket, key, parts)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The destination bucket.")
	fileFlags(cmd, &path, &key)
	cmd.Flags().BoolVar(&standard, "use-standard", false, "Use the SDK upload manager instead of manual multipart")
	return cmd
}

func setLifecycleCommand(env *task.Env) *cobra.Command {
	var (
		bucket string
		days   int
	)
	cmd := s3cmd.Leaf("set-lifecycle", "Expire every object after a number of days", func(cmd *cobra.Command, client *storage.Client) error {
		if err := validation.ValidatePositive("days", days); err != nil {
			return err
		}
		ruleID, err := client.PutExpirationLifecycle(cmd.Context(), bucket, days)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Lifecycle rule '%s' applied to bucket '%s': objects expire after %d days.\n", ruleID, bucket, days)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket to configure.")
	cmd.Flags().IntVar(&days, "days", DefaultLifecycleDays, "Days after which objects expire")
	return cmd
}

func deleteObjectCommand(env *task.Env) *cobra.Command {
	var bucket, key string
	cmd := s3cmd.Leaf("delete-object", "Delete an object", func(cmd *cobra.Command, client *storage.Client) error {
		if err := client.DeleteObject(cmd.Context(), bucket, key); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Object '%s' deleted from bucket '%s'.\n", key, bucket)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket holding the object.")
	cmd.Flags().StringVar(&key, "key", "", "The object key to delete")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
