// Package config loads task configuration from an env file and the process
// environment.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
)

// DefaultEnvFile is read from the working directory when no other file is given.
const DefaultEnvFile = ".env"

// DefaultQuotesURL is the quotes API used by task5.2.
const DefaultQuotesURL = "https://api.quotable.kurokeita.dev/api/quotes"

// Config holds the settings shared by the storage and quotes tasks.
type Config struct {
	AccessKeyID     string `env:"aws_access_key_id"`
	SecretAccessKey string `env:"aws_secret_access_key"`
	SessionToken    string `env:"aws_session_token"`
	Region          string `env:"aws_region_name" envDefault:"us-west-2"`
	Endpoint        string `env:"aws_endpoint_url"`
	QuotesBaseURL   string `env:"quotes_api_url" envDefault:"https://api.quotable.kurokeita.dev/api/quotes"`
}

// Load reads envFile into the environment and parses Config from it.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	if err := godotenv.Load(envFile); err != nil {
		_, statErr := os.Stat(envFile)
		// A missing default file is fine; an explicit one must exist.
		if !(os.IsNotExist(statErr) && envFile == DefaultEnvFile) {
			return nil, taskerrors.NewEnvFileError(envFile, err)
		}
	}

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, taskerrors.NewConfigurationError(taskerrors.CodeEnvFile,
			"Invalid configuration in environment", "Load configuration").
			WithOriginalError(err)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// MissingCredentials lists the unset variables needed for static credentials.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.AccessKeyID == "" {
		missing = append(missing, "aws_access_key_id")
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, "aws_secret_access_key")
	}
	if c.Region == "" {
		missing = append(missing, "aws_region_name")
	}
	return missing
}

// HasStaticCredentials reports whether key, secret and region are all set.
func (c *Config) HasStaticCredentials() bool {
	return len(c.MissingCredentials()) == 0
}
