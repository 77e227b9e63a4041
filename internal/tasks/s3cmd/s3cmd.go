// Package s3cmd builds the subcommand-driven S3 management tasks. Later
// lectures extend an earlier command Set instead of redefining it.
package s3cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
)

// Subcommand is one named action of a management task.
type Subcommand struct {
	Name  string
	Build func(env *task.Env) *cobra.Command
}

// Set is an ordered list of subcommands.
type Set []Subcommand

// With returns a copy of s extended by more.
func (s Set) With(more ...Subcommand) Set {
	out := make(Set, 0, len(s)+len(more))
	out = append(out, s...)
	return append(out, more...)
}

// Names lists the subcommand names in order.
func (s Set) Names() []string {
	names := make([]string, len(s))
	for i, sub := range s {
		names[i] = sub.Name
	}
	return names
}

// ManagementTask is a task whose work happens in subcommands.
type ManagementTask struct {
	task.Base
	env      *task.Env
	commands Set
}

// New creates a management task over commands.
func New(base task.Base, env *task.Env, commands Set) *ManagementTask {
	return &ManagementTask{Base: base, env: env, commands: commands}
}

// Commands exposes the task's command set so later tasks can extend it.
func (t *ManagementTask) Commands() Set {
	return t.commands
}

func (t *ManagementTask) Usage() string {
	return fmt.Sprintf("%s\nAvailable commands: %s", t.Base.Usage(), strings.Join(t.commands.Names(), ", "))
}

func (t *ManagementTask) Configure(cmd *cobra.Command) {
	for _, sub := range t.commands {
		c := sub.Build(t.env)
		c.SilenceUsage = true
		c.SilenceErrors = true
		cmd.AddCommand(c)
	}
}

// Run is reached only when no subcommand was given.
func (t *ManagementTask) Run(ctx context.Context, cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Usage: %s\n", t.Usage())
	given := ""
	if len(args) > 0 {
		given = args[0]
	}
	return taskerrors.NewValidationFailedError("command", given,
		"one of "+strings.Join(t.commands.Names(), ", ")+" is required")
}

// Client resolves the shared storage client for a subcommand.
func Client(cmd *cobra.Command, env *task.Env) (*storage.Client, error) {
	if env == nil || env.Storage == nil {
		return nil, taskerrors.NewConfigurationError(taskerrors.CodeCredentials,
			"S3 client is not configured", "Initialize S3 client")
	}
	return env.Storage(cmd.Context())
}

// BucketFlag registers a required --bucket-name flag bound to target.
func BucketFlag(cmd *cobra.Command, target *string, help string) {
	cmd.Flags().StringVar(target, "bucket-name", "", help)
	_ = cmd.MarkFlagRequired("bucket-name")
}

// Leaf builds a subcommand with the conventional silence settings.
func Leaf(use, short string, run func(cmd *cobra.Command, client *storage.Client) error, env *task.Env) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Client(cmd, env)
			if err != nil {
				return err
			}
			return run(cmd, client)
		},
	}
}
