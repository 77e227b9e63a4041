package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"aws_access_key_id", "aws_secret_access_key", "aws_session_token",
		"aws_region_name", "aws_endpoint_url", "quotes_api_url",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "aws_access_key_id=AKIA\naws_secret_access_key=secret\naws_region_name=eu-central-1\naws_endpoint_url=http://localhost:4566\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "AKIA", cfg.AccessKeyID)
	assert.Equal(t, "secret", cfg.SecretAccessKey)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "http://localhost:4566", cfg.Endpoint)
	assert.Equal(t, DefaultQuotesURL, cfg.QuotesBaseURL)
	assert.True(t, cfg.HasStaticCredentials())
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("aws_region_name", "ap-south-1")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("aws_region_name=eu-west-1\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", cfg.Region)
}

func TestLoadMissingDefaultFileIsIgnored(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "us-west-2", cfg.Region)
	assert.ElementsMatch(t, []string{"aws_access_key_id", "aws_secret_access_key"}, cfg.MissingCredentials())
	assert.False(t, cfg.HasStaticCredentials())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.Error(t, err)
	assert.True(t, taskerrors.IsUserError(err))
	assert.Equal(t, "CONFIGURATION-002", taskerrors.GetErrorCode(err))
}

type envTestConfig struct {
	Port int `env:"MANAGE_TEST_PORT" envDefault:"123"`
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("MANAGE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
