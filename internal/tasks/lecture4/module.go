// Package lecture4 covers type-based uploads, version cleanup and static hosting.
package lecture4

import (
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
)

// Module registers the lecture 4 tasks.
type Module struct {
	Env *task.Env
}

func (m Module) Register(r *task.Registry) error {
	for _, t := range []task.Task{
		NewUploadByTypeTask(m.Env),
		NewDeleteOldVersionsTask(m.Env),
		NewHostStaticSiteTask(m.Env),
	} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func NewUploadByTypeTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task4.1",
		Summary: "Uploads a file to S3 under a folder named after its MIME type.",
		Help:    "manage task4.1 upload-by-type --file <path> --bucket-name <s3_bucket_name>",
	}, env, s3cmd.Set{{Name: "upload-by-type", Build: uploadByTypeCommand}})
}

func NewDeleteOldVersionsTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task4.2",
		Summary: "Deletes object versions older than 6 months for the given keys.",
		Help:    "manage task4.2 delete-old-version --bucket-name <s3_bucket_name> --object-keys <key1> [key2...]",
	}, env, s3cmd.Set{{Name: "delete-old-version", Build: deleteOldVersionCommand}})
}

func NewHostStaticSiteTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task4.3",
		Summary: "Creates index.html, uploads, enables S3 hosting & public policy.",
		Help:    "manage task4.3 host-static-site --bucket-name <s3_bucket_name> --first-name <first_name> --last-name <last_name>",
	}, env, s3cmd.Set{{Name: "host-static-site", Build: hostStaticSiteCommand}})
}
