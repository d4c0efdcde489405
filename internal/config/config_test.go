package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, env := range envBindings {
		t.Setenv(env, "")
	}

	cfg := Load(viper.New())

	require.Equal(t, DefaultBrainRepo, cfg.BrainRepo)
	require.Equal(t, DefaultCredsDir, cfg.CredsDir)
	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.Equal(t, "store", filepath.Base(cfg.StoreDir))
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("NANOCLAW_STORE_DIR", "/tmp/nanoclaw-store")
	t.Setenv("BRAIN_REPO_PATH", "/repo")
	t.Setenv("GOOGLE_CREDS_DIR", "/creds")
	t.Setenv("NANOCLAW_LOG_LEVEL", "debug")

	cfg := Load(viper.New())

	require.Equal(t, "/tmp/nanoclaw-store", cfg.StoreDir)
	require.Equal(t, "/repo", cfg.BrainRepo)
	require.Equal(t, "/creds", cfg.CredsDir)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("NANOCLAW_STORE_DIR", "/from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--store-dir", "/from-flag"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag(KeyStoreDir, flags.Lookup("store-dir")))

	cfg := Load(v)
	require.Equal(t, "/from-flag", cfg.StoreDir)
}

func TestLoad_UnchangedFlagKeepsEnv(t *testing.T) {
	t.Setenv("NANOCLAW_STORE_DIR", "/from-env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("store-dir", "", "")
	require.NoError(t, flags.Parse(nil))

	v := viper.New()
	require.NoError(t, v.BindPFlag(KeyStoreDir, flags.Lookup("store-dir")))

	cfg := Load(v)
	require.Equal(t, "/from-env", cfg.StoreDir)
}

func TestConfig_DBPath(t *testing.T) {
	cfg := &Config{StoreDir: "/tmp/test"}
	require.Equal(t, "/tmp/test/messages.db", cfg.DBPath())
}
