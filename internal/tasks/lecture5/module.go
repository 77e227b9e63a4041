// Package lecture5 deploys a local directory as a website and fetches quotes.
package lecture5

import (
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/s3cmd"
)

// Module registers the lecture 5 tasks.
type Module struct {
	Env *task.Env
}

func (m Module) Register(r *task.Registry) error {
	for _, t := range []task.Task{NewHostTask(m.Env), NewQuoteTask(m.Env)} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func NewHostTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task5.1",
		Summary: "Hosts a static website on S3 from a local directory.",
		Help:    "manage task5.1 host --source <directory> --bucket-name <s3_bucket_name>",
	}, env, s3cmd.Set{{Name: "host", Build: hostCommand}})
}

func NewQuoteTask(env *task.Env) *s3cmd.ManagementTask {
	return s3cmd.New(task.Base{
		ID:      "task5.2",
		Summary: "Fetches inspirational quotes and can save them to an S3 bucket.",
		Help:    `manage task5.2 inspire [--author "Author Name"] [--bucket-name <s3_bucket_name> --save]`,
	}, env, s3cmd.Set{{Name: "inspire", Build: inspireCommand}})
}
