// Package tasktest runs tasks against captured output and an in-memory S3.
package tasktest

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/maxkimambo/manage/internal/config"
	"github.com/maxkimambo/manage/internal/quotes"
	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/storage/storagetest"
	"github.com/maxkimambo/manage/internal/task"
)

// Fixture bundles a fake-backed Env.
type Fixture struct {
	Env    *task.Env
	Fake   *storagetest.FakeAPI
	Client *storage.Client
}

// NewFixture returns an Env whose storage is an in-memory S3 in region.
// Prompts read from input.
func NewFixture(region, input string) *Fixture {
	fake := storagetest.New()
	client := storage.NewClientWithAPI(fake, region)
	cfg := &config.Config{Region: region, QuotesBaseURL: config.DefaultQuotesURL}

	return &Fixture{
		Fake:   fake,
		Client: client,
		Env: &task.Env{
			In:     strings.NewReader(input),
			Config: func() (*config.Config, error) { return cfg, nil },
			Storage: func(ctx context.Context) (*storage.Client, error) {
				return client, nil
			},
			Quotes: func() (*quotes.Client, error) {
				return quotes.NewClient(cfg.QuotesBaseURL), nil
			},
		},
	}
}

// FixedClock pins both the fake and the client to t.
func (f *Fixture) FixedClock(t time.Time) {
	f.Fake.Now = func() time.Time { return t }
	f.Client.WithClock(func() time.Time { return t })
}

// Run executes tk with args and returns everything written to stdout and stderr.
func Run(t *testing.T, tk task.Task, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := task.Command(tk)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
