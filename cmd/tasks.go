package cmd

import (
	"github.com/spf13/cobra"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/task"
)

// addTaskCommands mounts one subcommand per registered task.
func addTaskCommands(root *cobra.Command, registry *task.Registry) {
	for _, t := range registry.List() {
		cmd := task.Command(t)
		name := t.Name()
		run := cmd.RunE
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if err == nil {
				return nil
			}
			var taskErr *taskerrors.TaskError
			if !taskerrors.As(err, &taskErr) {
				err = taskerrors.NewTaskFailedError(name, err)
			}
			logger.Op.WithFields(map[string]interface{}{
				"task":      name,
				"code":      taskerrors.GetErrorCode(err),
				"error":     taskerrors.DisplayErrorSummary(err),
				"retryable": taskerrors.IsRetryableError(err),
			}).Debug("task failed")
			return err
		}
		root.AddCommand(cmd)
	}
}
