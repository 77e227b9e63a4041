package cmd

import (
	"context"
	"io"
	"sync"

	"github.com/maxkimambo/manage/internal/config"
	"github.com/maxkimambo/manage/internal/logger"
	"github.com/maxkimambo/manage/internal/quotes"
	"github.com/maxkimambo/manage/internal/storage"
	"github.com/maxkimambo/manage/internal/task"
)

// newEnv builds clients on first use. Configuration is read from --env-file
// at that point, after flags are parsed.
func newEnv(in io.Reader) *task.Env {
	var (
		cfgOnce sync.Once
		cfg     *config.Config
		cfgErr  error

		s3Once   sync.Once
		s3Client *storage.Client
		s3Err    error
	)

	loadConfig := func() (*config.Config, error) {
		cfgOnce.Do(func() {
			cfg, cfgErr = config.Load(envFile)
			if cfgErr == nil {
				logger.Op.Debugf("configuration loaded (region %s, env file %q)", cfg.Region, envFile)
			}
		})
		return cfg, cfgErr
	}

	return &task.Env{
		In:     in,
		Config: loadConfig,
		Storage: func(ctx context.Context) (*storage.Client, error) {
			s3Once.Do(func() {
				c, err := loadConfig()
				if err != nil {
					s3Err = err
					return
				}
				s3Client, s3Err = storage.NewClient(ctx, c)
			})
			return s3Client, s3Err
		},
		Quotes: func() (*quotes.Client, error) {
			c, err := loadConfig()
			if err != nil {
				return nil, err
			}
			return quotes.NewClient(c.QuotesBaseURL), nil
		},
	}
}
