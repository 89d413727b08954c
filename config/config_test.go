package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:80", cfg.Addr)
	assert.Equal(t, "qbrief.sqlite", cfg.DBUrl)
	assert.Equal(t, 2*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "http://localhost:80", cfg.Url())
	assert.Error(t, cfg.Validate())
}

func TestLoadEnvThenFlags(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QB_PORT", "8080")
	t.Setenv("QB_DB_URL", "env.sqlite")
	t.Setenv("QB_TOKEN_SECRET", "from-env")

	cfg, err := Load(newFlags(t, "--db-url", "flag.sqlite", "--debug"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "flag.sqlite", cfg.DBUrl)
	assert.Equal(t, "from-env", cfg.TokenSecret)
	assert.True(t, cfg.Debug)
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("QB_PORT", "not-a-number")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
