// Package config wraps the viper singleton behind typed accessors.
// Precedence, highest first: command-line flags (applied by the CLI in
// PersistentPreRun), environment variables, config file, defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton. Called once at
// application startup, before any command runs.
//
// The config file is .kit/config.yaml, looked up by walking from the current
// directory toward the root so commands work from project subdirectories,
// then falling back to the user config directory (~/.config/kit/config.yaml).
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false

	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".kit", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "kit", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// KIT_JSON, KIT_PORT, KIT_NO_INSTALL, ...
	v.SetEnvPrefix("KIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("json", false)
	v.SetDefault("port", 3000)
	v.SetDefault("no-install", false)
	v.SetDefault("template", "default")
	v.SetDefault("version-range", "latest")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// Set sets a configuration value, used by the CLI to apply flag overrides.
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
