package lecture3

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
)

func keyFlag(cmd *cobra.Command, key *string) {
	cmd.Flags().StringVar(key, "key", "", "The object key")
	_ = cmd.MarkFlagRequired("key")
}

func getVersioningCommand(env *task.Env) *cobra.Command {
	var bucket string
	cmd := s3cmd.Leaf("get-versioning", "Show the bucket's versioning status", func(cmd *cobra.Command, client *storage.Client) error {
		status, err := client.VersioningStatus(cmd.Context(), bucket)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Versioning status for bucket '%s': %s\n", bucket, status)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket to inspect.")
	return cmd
}

func listVersionsCommand(env *task.Env) *cobra.Command {
	var bucket, key string
	cmd := s3cmd.Leaf("list-versions", "List the versions of an object", func(cmd *cobra.Command, client *storage.Client) error {
		versions, err := client.ListVersions(cmd.Context(), bucket, key)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(versions) == 0 {
			fmt.Fprintf(out, "No versions found for '%s' in bucket '%s'.\n", key, bucket)
			return nil
		}

		table := utils.NewTableFormatter("Version ID", "Last Modified", "Size", "Latest", "Delete Marker")
		for _, v := range versions {
			size := strconv.FormatInt(v.Size, 10)
			if v.IsDeleteMarker {
				size = "-"
			}
			table.AddRow(v.VersionID,
				v.LastModified.UTC().Format("2006-01-02 15:04:05"),
				size,
				strconv.FormatBool(v.IsLatest),
				strconv.FormatBool(v.IsDeleteMarker))
		}
		fmt.Fprintf(out, "Versions of '%s' in bucket '%s':\n", key, bucket)
		_, err = table.WriteTo(out)
		return err
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket holding the object.")
	keyFlag(cmd, &key)
	return cmd
}

func restorePreviousCommand(env *task.Env) *cobra.Command {
	var bucket, key string
	cmd := s3cmd.Leaf("restore-previous", "Restore the previous version of an object", func(cmd *cobra.Command, client *storage.Client) error {
		versionID, err := client.RestorePrevious(cmd.Context(), bucket, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored '%s' in bucket '%s' to version %s.\n", key, bucket, versionID)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket holding the object.")
	keyFlag(cmd, &key)
	return cmd
}
