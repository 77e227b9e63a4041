package lecture2

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
	"github.com/maxkimambo/manage/internal/utils"
	"github.com/maxkimambo/manage/internal/validation"
)

// bucketTask is the shared shape of the single-bucket tasks.
type bucketTask struct {
	task.Base
	env    *task.Env
	bucket string
	help   string
}

func (t *bucketTask) Configure(cmd *cobra.Command) {
	s3cmd.BucketFlag(cmd, &t.bucket, t.help)
}

// EnsureBucketTask creates a bucket unless it already exists.
type EnsureBucketTask struct{ bucketTask }

func NewEnsureBucketTask(env *task.Env) *EnsureBucketTask {
	return &EnsureBucketTask{bucketTask{
		Base: task.Base{
			ID:      "task2.1",
			Summary: "Checks existence of an S3 bucket and creates it if missing.",
			Help:    "manage task2.1 --bucket-name <your-bucket-name>",
		},
		env:  env,
		help: "The name of the S3 bucket to check or create.",
	}}
}

func (t *EnsureBucketTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	if err := validation.ValidateBucketName(t.bucket); err != nil {
		return err
	}
	client, err := s3cmd.Client(cmd, t.env)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	exists, err := client.BucketExists(ctx, t.bucket)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(out, "Bucket '%s' already exists.\n", t.bucket)
		return nil
	}

	fmt.Fprintf(out, "Bucket '%s' not found or inaccessible. Attempting to create...\n", t.bucket)
	if err := client.CreateBucket(ctx, t.bucket); err != nil {
		return err
	}
	fmt.Fprintf(out, "Bucket '%s' created successfully.\n", t.bucket)
	return nil
}

// DevTestPolicyTask opens the dev/ and test/ prefixes of a bucket for public reads.
type DevTestPolicyTask struct{ bucketTask }

func NewDevTestPolicyTask(env *task.Env) *DevTestPolicyTask {
	return &DevTestPolicyTask{bucketTask{
		Base: task.Base{
			ID:      "task2.2",
			Summary: "Checks/Applies a public-read policy for dev/ and test/ prefixes.",
			Help:    "manage task2.2 --bucket-name <your-bucket-name>",
		},
		env:  env,
		help: "The name of the S3 bucket to check/update policy for.",
	}}
}

func (t *DevTestPolicyTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	client, err := s3cmd.Client(cmd, t.env)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, found, err := client.GetBucketPolicy(ctx, t.bucket)
	if err != nil {
		var taskErr *taskerrors.TaskError
		if taskerrors.As(err, &taskErr) && taskErr.Category == taskerrors.ErrorCategoryPermission {
			fmt.Fprintln(out, utils.PermissionError("get bucket policy", t.bucket))
		}
		return err
	}
	if found {
		fmt.Fprintf(out, "Bucket '%s' already has a policy.\n", t.bucket)
		return nil
	}

	fmt.Fprintf(out, "No policy found for '%s'. Applying policy...\n", t.bucket)
	if err := client.MakePublic(ctx, t.bucket, "dev", "test"); err != nil {
		var taskErr *taskerrors.TaskError
		if taskerrors.As(err, &taskErr) && taskErr.Operation == "Delete public access block" {
			fmt.Fprint(out, utils.PublicAccessBlockError(t.bucket, err))
		}
		return err
	}
	fmt.Fprintf(out, "Successfully applied policy to bucket '%s'.\n", t.bucket)
	return nil
}

// DeleteBucketTask deletes a bucket when it exists.
type DeleteBucketTask struct{ bucketTask }

func NewDeleteBucketTask(env *task.Env) *DeleteBucketTask {
	return &DeleteBucketTask{bucketTask{
		Base: task.Base{
			ID:      "task2.3",
			Summary: "Checks if an S3 bucket exists and deletes it if found.",
			Help:    "manage task2.3 --bucket-name <your-bucket-name>",
		},
		env:  env,
		help: "The name of the S3 bucket to check and potentially delete.",
	}}
}

func (t *DeleteBucketTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	client, err := s3cmd.Client(cmd, t.env)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	exists, err := client.BucketExists(ctx, t.bucket)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintf(out, "Bucket '%s' does not exist or is inaccessible.\n", t.bucket)
		fmt.Fprintln(out, utils.ResourceNotFoundError("bucket", t.bucket))
		return nil
	}

	fmt.Fprintf(out, "Bucket '%s' found. Attempting deletion...\n", t.bucket)
	if err := client.DeleteBucket(ctx, t.bucket); err != nil {
		return err
	}
	logger.User.Deletef("Bucket '%s' deleted", t.bucket)
	fmt.Fprintf(out, "Bucket '%s' deleted successfully.\n", t.bucket)
	return nil
}
