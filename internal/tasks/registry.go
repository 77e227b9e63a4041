// Package tasks assembles the registry of every lecture's tasks.
package tasks

import (
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks/lecture1"
	"github.com/maxkimambo/manage/internal/tasks/lecture2"
	"github.com/maxkimambo/manage/internal/tasks/lecture3"
	"github.com/maxkimambo/manage/internal/tasks/lecture4"
	"github.com/maxkimambo/manage/internal/tasks/lecture5"
)

// Default registers lectures 1 through 5 against env.
func Default(env *task.Env) (*task.Registry, error) {
	r := task.NewRegistry()
	err := r.RegisterModules(
		lecture1.Module{},
		lecture2.Module{Env: env},
		lecture3.Module{Env: env},
		lecture4.Module{Env: env},
		lecture5.Module{Env: env},
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}
