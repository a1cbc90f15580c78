package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	// FileName is the config file searched for when no path is given.
	FileName = ".phpshift.yaml"

	// EnvPrefix prefixes environment overrides, e.g. PHPSHIFT_LOGGING_LEVEL.
	EnvPrefix = "PHPSHIFT"
)

// LoadConfig reads configuration from configPath, or from FileName in the
// working directory and then $HOME when configPath is empty. Environment
// variables override file values and defaults fill the rest. A missing file
// in the search path is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))

		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, new(viper.ConfigFileNotFoundError)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func searchDirs() []string {
	dirs := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, home)
	}

	return dirs
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
