package lecture2

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
	"github.com/maxkimambo/manage/internal/validation"
)

// Commands is the task2.4 command set. Lecture 3 builds on it.
func Commands() s3cmd.Set {
	return s3cmd.Set{
		{Name: "list", Build: listCommand},
		{Name: "exists", Build: existsCommand},
		{Name: "create", Build: createCommand},
		{Name: "delete", Build: deleteCommand},
		{Name: "upload", Build: uploadCommand},
		{Name: "set-object-acl", Build: setObjectACLCommand},
		{Name: "get-policy", Build: getPolicyCommand},
		{Name: "set-policy", Build: setPolicyCommand},
		{Name: "delete-pab", Build: deletePABCommand},
	}
}

// NewManagementTask returns task2.4.
func NewManagementTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task2.4",
		Summary: "Manages S3 buckets and objects through subcommands.",
		Help:    "manage task2.4 <command> [flags]",
	}, env, Commands())
}

func listCommand(env *task.Env) *cobra.Command {
	return s3cmd.Leaf("list", "List all S3 buckets", func(cmd *cobra.Command, client *storage.Client) error {
		buckets, err := client.ListBuckets(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(buckets) == 0 {
			fmt.Fprintln(out, "No buckets found or accessible.")
			return nil
		}

		table := utils.NewTableFormatter("Name", "Created")
		for _, b := range buckets {
			created := ""
			if !b.CreationDate.IsZero() {
				created = b.CreationDate.UTC().Format("2006-01-02 15:04:05")
			}
			table.AddRow(b.Name, created)
		}
		fmt.Fprintln(out, "Buckets:")
		_, err = table.WriteTo(out)
		return err
	}, env)
}

func existsCommand(env *task.Env) *cobra.Command {
	var bucket string
	cmd := s3cmd.Leaf("exists", "Check whether a bucket exists", func(cmd *cobra.Command, client *storage.Client) error {
		exists, err := client.BucketExists(cmd.Context(), bucket)
		if err != nil {
			return err
		}
		if exists {
			fmt.Fprintf(cmd.OutOrStdout(), "Bucket '%s' exists.\n", bucket)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Bucket '%s' does not exist or is inaccessible.\n", bucket)
		}
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The name of the bucket to check.")
	return cmd
}

func createCommand(env *task.Env) *cobra.Command {
	var bucket string
	cmd := s3cmd.Leaf("create", "Create a bucket in the configured region", func(cmd *cobra.Command, client *storage.Client) error {
		if err := validation.ValidateBucketName(bucket); err != nil {
			return err
		}
		if err := client.CreateBucket(cmd.Context(), bucket); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bucket '%s' created successfully in %s.\n", bucket, client.Region())
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The name of the bucket to create.")
	return cmd
}

func deleteCommand(env *task.Env) *cobra.Command {
	var (
		bucket string
		yes    bool
	)
	cmd := s3cmd.Leaf("delete", "Delete an empty bucket", func(cmd *cobra.Command, client *storage.Client) error {
		out := cmd.OutOrStdout()
		ok, err := utils.PromptForConfirmation(env.In, out, yes, "delete bucket", bucket)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Deletion cancelled.")
			return nil
		}
		if err := client.DeleteBucket(cmd.Context(), bucket); err != nil {
			return err
		}
		logger.User.Deletef("Bucket '%s' deleted", bucket)
		fmt.Fprintf(out, "Bucket '%s' deleted successfully.\n", bucket)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The name of the bucket to delete.")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func uploadCommand(env *task.Env) *cobra.Command {
	var bucket, url, key string
	cmd := s3cmd.Leaf("upload", "Download a file from a URL and upload it", func(cmd *cobra.Command, client *storage.Client) error {
		objectURL, err := client.UploadFromURL(cmd.Context(), bucket, key, url)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Successfully uploaded %s to s3://%s/%s\n", url, bucket, key)
		fmt.Fprintf(out, "File accessible at: %s\n", objectURL)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The destination bucket.")
	cmd.Flags().StringVar(&url, "url", "", "The URL of the file to download")
	cmd.Flags().StringVar(&key, "s3-key", "", "The object key to store the file under")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("s3-key")
	return cmd
}

func setObjectACLCommand(env *task.Env) *cobra.Command {
	var bucket, key, acl string
	cmd := s3cmd.Leaf("set-object-acl", "Apply a canned ACL to an object", func(cmd *cobra.Command, client *storage.Client) error {
		if err := client.SetObjectACL(cmd.Context(), bucket, key, acl); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully set ACL '%s' on s3://%s/%s\n", acl, bucket, key)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket holding the object.")
	cmd.Flags().StringVar(&key, "s3-key", "", "The object key")
	cmd.Flags().StringVar(&acl, "acl", "public-read", "Canned ACL to apply")
	_ = cmd.MarkFlagRequired("s3-key")
	return cmd
}

func getPolicyCommand(env *task.Env) *cobra.Command {
	var bucket string
	cmd := s3cmd.Leaf("get-policy", "Print the bucket policy", func(cmd *cobra.Command, client *storage.Client) error {
		policy, found, err := client.GetBucketPolicy(cmd.Context(), bucket)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !found {
			fmt.Fprintf(out, "No policy found for bucket '%s'.\n", bucket)
			return nil
		}
		fmt.Fprintf(out, "Policy for bucket '%s':\n", bucket)
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(policy), "", "  "); err != nil {
			fmt.Fprintln(out, policy)
			return nil
		}
		fmt.Fprintln(out, pretty.String())
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket whose policy to print.")
	return cmd
}

func setPolicyCommand(env *task.Env) *cobra.Command {
	var (
		bucket  string
		skipPAB bool
	)
	cmd := s3cmd.Leaf("set-policy", "Apply a public-read policy to the whole bucket", func(cmd *cobra.Command, client *storage.Client) error {
		out := cmd.OutOrStdout()
		warn, err := client.ApplyPublicReadPolicy(cmd.Context(), bucket, skipPAB)
		if warn != nil {
			fmt.Fprint(out, utils.PublicAccessBlockError(bucket, warn))
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Successfully applied public-read policy to bucket '%s'.\n", bucket)
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket to make public.")
	cmd.Flags().BoolVar(&skipPAB, "skip-pab-delete", false, "Do not remove the public access block first")
	return cmd
}

func deletePABCommand(env *task.Env) *cobra.Command {
	var bucket string
	cmd := s3cmd.Leaf("delete-pab", "Remove the bucket's public access block", func(cmd *cobra.Command, client *storage.Client) error {
		removed, err := client.DeletePublicAccessBlock(cmd.Context(), bucket)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintf(cmd.OutOrStdout(), "Public access block removed from bucket '%s'.\n", bucket)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No public access block configured for bucket '%s'.\n", bucket)
		}
		return nil
	}, env)
	s3cmd.BucketFlag(cmd, &bucket, "The bucket to update.")
	return cmd
}
