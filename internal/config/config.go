package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Viper keys. Each one is bound to an environment variable in Load and may
// be bound to a command flag by the caller.
const (
	KeyStoreDir  = "store_dir"
	KeyBrainRepo = "brain_repo_path"
	KeyCredsDir  = "google_creds_dir"
	KeyLogLevel  = "log_level"
)

const (
	DefaultBrainRepo = "~/src/mylife/brain"
	DefaultCredsDir  = "~/.google_workspace_mcp/credentials"
	DefaultLogLevel  = "warn"
)

var envBindings = map[string]string{
	KeyStoreDir:  "NANOCLAW_STORE_DIR",
	KeyBrainRepo: "BRAIN_REPO_PATH",
	KeyCredsDir:  "GOOGLE_CREDS_DIR",
	KeyLogLevel:  "NANOCLAW_LOG_LEVEL",
}

// Config holds the settings shared by the bootstrap commands.
type Config struct {
	StoreDir  string // NANOCLAW_STORE_DIR
	BrainRepo string // BRAIN_REPO_PATH, used for mounts and git sync
	CredsDir  string // GOOGLE_CREDS_DIR
	LogLevel  string // NANOCLAW_LOG_LEVEL
}

// Load resolves the configuration from v. Flags bound to v win over the
// environment, and empty environment values fall back to the defaults.
func Load(v *viper.Viper) *Config {
	v.SetDefault(KeyStoreDir, defaultStoreDir())
	v.SetDefault(KeyBrainRepo, DefaultBrainRepo)
	v.SetDefault(KeyCredsDir, DefaultCredsDir)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return &Config{
		StoreDir:  v.GetString(KeyStoreDir),
		BrainRepo: v.GetString(KeyBrainRepo),
		CredsDir:  v.GetString(KeyCredsDir),
		LogLevel:  v.GetString(KeyLogLevel),
	}
}

// DBPath returns the path of the shared message store.
func (c *Config) DBPath() string {
	return filepath.Join(c.StoreDir, "messages.db")
}

func defaultStoreDir() string {
	return filepath.Join(projectRoot(), "store")
}

func projectRoot() string {
	// Walk up from this file's location to find the module root (go.mod).
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "."
}
