package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables consulted by GetDefaults and the passphrase prompt.
const (
	EnvConfigPath = "APERTURAMA_CONFIG_PATH"
	EnvHome       = "APERTURAMA_HOME"
	EnvPassphrase = "APERTURAMA_PASSPHRASE"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - APERTURAMA_CONFIG_PATH: config file location (default: ~/.config/aperturama.toml)
//   - APERTURAMA_HOME: base directory for aperturama data (default: ~/.local/share/aperturama)
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome(EnvConfigPath, ".config", "aperturama.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome(EnvHome, ".local", "share", "aperturama")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns the value of env, or a path under the home directory
// when it is unset.
func envOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
