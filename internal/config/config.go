package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentx-labs/stack-init/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyNPM            = "npm"
	KeyBackendPort    = "backend_port"
	KeyViteVersion    = "vite_version"
	KeyNodeConstraint = "node_constraint"
	KeyLogLevel       = "log_level"
)

// Settings is the resolved configuration consumed by the CLI.
type Settings struct {
	NPM            string // package manager binary
	BackendPort    int    // default port baked into the backend entry point
	ViteVersion    string // dist-tag or version passed to create-vite
	NodeConstraint string // semver constraint checked by doctor
	LogLevel       string
}

// Dir returns the path to the config directory (~/.stack-init/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.stack-init/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Calling it again discards previously loaded state.
func Load() {
	viper.Reset()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	viper.SetDefault(KeyNPM, "npm")
	viper.SetDefault(KeyBackendPort, 5000)
	viper.SetDefault(KeyViteVersion, "latest")
	viper.SetDefault(KeyNodeConstraint, ">=20.19.0")
	viper.SetDefault(KeyLogLevel, "info")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the loaded settings. Load must be called first.
func Current() Settings {
	return Settings{
		NPM:            viper.GetString(KeyNPM),
		BackendPort:    viper.GetInt(KeyBackendPort),
		ViteVersion:    viper.GetString(KeyViteVersion),
		NodeConstraint: viper.GetString(KeyNodeConstraint),
		LogLevel:       viper.GetString(KeyLogLevel),
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
