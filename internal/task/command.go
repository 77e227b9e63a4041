package task

import (
	"github.com/spf13/cobra"
)

// Command builds the cobra command for t, including its --desc flag.
func Command(t Task) *cobra.Command {
	var desc bool
	cmd := &cobra.Command{
		Use:           t.Name(),
		Short:         t.ShortDesc(),
		Long:          t.ShortDesc() + "\n\nUsage: " + t.Usage(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if desc {
				DescribeTo(cmd.OutOrStdout(), t)
				return nil
			}
			return t.Run(cmd.Context(), cmd, args)
		},
	}
	cmd.Flags().BoolVar(&desc, "desc", false, "Show the task description and usage")
	t.Configure(cmd)
	return cmd
}
