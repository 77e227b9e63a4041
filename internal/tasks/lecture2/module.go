// Package lecture2 holds the S3 bucket exercises.
package lecture2

import "github.com/maxkimambo/manage/internal/task"

// Module registers the lecture 2 tasks.
type Module struct {
	Env *task.Env
}

func (m Module) Register(r *task.Registry) error {
	for _, t := range []task.Task{
		NewEnsureBucketTask(m.Env),
		NewDevTestPolicyTask(m.Env),
		NewDeleteBucketTask(m.Env),
		NewManagementTask(m.Env),
	} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
