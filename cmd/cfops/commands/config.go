package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// CLIConfig is the persisted configuration written by login.
type CLIConfig struct {
	API               string `yaml:"api"`
	Account           string `yaml:"account,omitempty"`
	User              string `yaml:"user"`
	Secret            string `yaml:"secret"`
	SkipTLSValidation bool   `yaml:"skip_tls_validation,omitempty"`
}

var configMutex sync.Mutex

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".cfops", "config.yml"), nil
}

// loadConfig reads the persisted configuration; a missing or unreadable
// file yields an empty config.
func loadConfig() *CLIConfig {
	config := &CLIConfig{}

	path, err := configPath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfig writes the configuration with owner-only permissions since it
// carries credentials.
func saveConfig(config *CLIConfig) error {
	configMutex.Lock()
	defer configMutex.Unlock()

	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
