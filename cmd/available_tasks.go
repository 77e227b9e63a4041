package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/task"
)

func newAvailableTasksCmd(registry *task.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "available_tasks [query]",
		Short: "List registered tasks, optionally filtered",
		Long: `List registered tasks with their short descriptions.

A query keeps tasks whose index (the number after the dot) contains it.`,
		Example: `manage available_tasks
manage available_tasks 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			out := cmd.OutOrStdout()
			found := registry.Filter(query)
			if len(found) == 0 {
				if query != "" {
					fmt.Fprintf(out, "No tasks found matching prefix '%s'\n", query)
				} else {
					fmt.Fprintln(out, "No tasks found")
				}
				return nil
			}

			fmt.Fprintln(out, "Available tasks:")
			for _, t := range found {
				fmt.Fprintf(out, "  %s: %s\n", t.Name(), t.ShortDesc())
			}
			return nil
		},
	}
}
