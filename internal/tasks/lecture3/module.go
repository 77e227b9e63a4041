// Package lecture3 extends the bucket command set with object operations.
// Each task reuses the previous task's commands and adds its own.
package lecture3

import (
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/lecture2"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
)

// Module registers the lecture 3 tasks.
type Module struct {
	Env *task.Env
}

func (m Module) Register(r *task.Registry) error {
	for _, t := range []task.Task{
		NewUploadTask(m.Env),
		NewDeleteObjectTask(m.Env),
		NewVersioningTask(m.Env),
		NewOrganizeTask(m.Env),
	} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// UploadCommands is task3.1: task2.4 plus uploads and lifecycle.
func UploadCommands() s3cmd.Set {
	return lecture2.Commands().With(
		s3cmd.Subcommand{Name: "upload-small", Build: uploadSmallCommand},
		s3cmd.Subcommand{Name: "upload-large", Build: uploadLargeCommand},
		s3cmd.Subcommand{Name: "set-lifecycle", Build: setLifecycleCommand},
	)
}

// DeleteObjectCommands is task3.2.
func DeleteObjectCommands() s3cmd.Set {
	return UploadCommands().With(s3cmd.Subcommand{Name: "delete-object", Build: deleteObjectCommand})
}

// VersioningCommands is task3.3.
func VersioningCommands() s3cmd.Set {
	return DeleteObjectCommands().With(
		s3cmd.Subcommand{Name: "get-versioning", Build: getVersioningCommand},
		s3cmd.Subcommand{Name: "list-versions", Build: listVersionsCommand},
		s3cmd.Subcommand{Name: "restore-previous", Build: restorePreviousCommand},
	)
}

// OrganizeCommands is task3.4. It builds on task3.2, not task3.3.
func OrganizeCommands() s3cmd.Set {
	return DeleteObjectCommands().With(s3cmd.Subcommand{Name: "organize-by-extension", Build: organizeCommand})
}

func NewUploadTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task3.1",
		Summary: "Adds small/large file uploads and an expiration lifecycle to the S3 manager.",
		Help:    "manage task3.1 <command> [flags]",
	}, env, UploadCommands())
}

func NewDeleteObjectTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task3.2",
		Summary: "Adds object deletion to the S3 manager.",
		Help:    "manage task3.2 <command> [flags]",
	}, env, DeleteObjectCommands())
}

func NewVersioningTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task3.3",
		Summary: "Adds versioning inspection and restore to the S3 manager.",
		Help:    "manage task3.3 <command> [flags]",
	}, env, VersioningCommands())
}

func NewOrganizeTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task3.4",
		Summary: "Adds organizing root objects into extension folders to the S3 manager.",
		Help:    "manage task3.4 <command> [flags]",
	}, env, OrganizeCommands())
}
