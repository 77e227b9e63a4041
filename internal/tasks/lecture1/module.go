// Package lecture1 holds the numeric, string and seat exercises.
package lecture1

import "github.com/maxkimambo/manage/internal/task"

// Module registers the lecture 1 tasks.
type Module struct{}

func (Module) Register(r *task.Registry) error {
	for _, t := range []task.Task{
		NewArmstrongTask(),
		NewNumberExtractorTask(),
		NewSeatFinderTask(),
	} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
