package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/task"
	"github.com/maxkimambo/manage/internal/tasks"
)

var (
	debug    bool
	verbose  bool
	jsonLogs bool
	quiet    bool
	envFile  string
	version  = "v0.1.0"
)

// Execute runs the CLI against the process's stdin and environment.
func Execute() error {
	root, err := newRootCmd(newEnv(os.Stdin))
	if err != nil {
		return err
	}
	return root.Execute()
}

func newRootCmd(env *task.Env) (*cobra.Command, error) {
	registry, err := tasks.Default(env)
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:   "manage <task> [args...]",
		Short: "Runs the cloud coursework tasks",
		Long: `Runs the cloud coursework tasks: numeric exercises, S3 bucket and object
management, static website hosting and a quotes client.

Run "manage available_tasks [query]" to list the registered tasks.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Setup(verbose || debug, jsonLogs, quiet)
			if debug {
				logger.Op.Debug("Debug logging enabled")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return taskerrors.NewValidationFailedError("task", "", "a task name is required")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available tasks:")
			for _, name := range registry.Names() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return taskerrors.NewTaskNotFoundError(args[0], registry.Names())
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a dotenv file with AWS settings (default .env)")

	rootCmd.AddCommand(newAvailableTasksCmd(registry))
	addTaskCommands(rootCmd, registry)
	return rootCmd, nil
}
