// Package task defines the contract every coursework task implements and the
// registry the dispatcher resolves task identifiers against.
package task

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/maxkimambo/manage/internal/config"
	"github.com/maxkimambo/manage/internal/quotes"
	"github.com/maxkimambo/manage/internal/storage"
)

// Task is a self-contained exercise runnable as "manage <name>".
type Task interface {
	// Name is the task identifier, e.g. "task2.4".
	Name() string
	ShortDesc() string
	Usage() string
	// Configure declares the task's flags and subcommands on cmd.
	Configure(cmd *cobra.Command)
	Run(ctx context.Context, cmd *cobra.Command, args []string) error
}

// Module groups the tasks of one lecture.
type Module interface {
	Register(r *Registry) error
}

// Env carries the shared clients tasks build lazily. Pure tasks never touch it.
type Env struct {
	// In is where confirmation prompts read from.
	In      io.Reader
	Config  func() (*config.Config, error)
	Storage func(ctx context.Context) (*storage.Client, error)
	Quotes  func() (*quotes.Client, error)
}

// Base implements the descriptive half of Task.
type Base struct {
	ID      string
	Summary string
	Help    string
}

func (b Base) Name() string      { return b.ID }
func (b Base) ShortDesc() string { return b.Summary }
func (b Base) Usage() string     { return b.Help }

// DescribeTo writes the --desc output for t.
func DescribeTo(w io.Writer, t Task) {
	fmt.Fprintf(w, "Task: %s\n", t.Name())
	fmt.Fprintf(w, "Description: %s\n", t.ShortDesc())
	fmt.Fprintf(w, "Usage: %s\n", t.Usage())
}
