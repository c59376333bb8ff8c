package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".crewboard"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("CREWBOARD_CONFIG")); explicit != "" {
		return expandHome(explicit)
	}
	home, err := resolveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

func resolveHomeDir() (string, error) {
	if h := strings.TrimSpace(os.Getenv("CREWBOARD_HOME")); h != "" {
		return expandHome(h)
	}
	return os.UserHomeDir()
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], string(filepath.Separator))), nil
}

// Load reads the config file (if present), applies environment overrides, and
// expands ~ in path settings. A missing config file is not an error; defaults
// plus environment are used.
func Load() (*Config, error) {
	// Optional .env next to the working directory; ignored when absent.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := envconfig.Process("crewboard", cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if cfg.Paths.Workspace, err = expandHome(cfg.Paths.Workspace); err != nil {
		return nil, err
	}
	if cfg.Paths.SkillsDir, err = expandHome(cfg.Paths.SkillsDir); err != nil {
		return nil, err
	}
	if cfg.Store.DBPath, err = expandHome(cfg.Store.DBPath); err != nil {
		return nil, err
	}
	for i, root := range cfg.Paths.FileRoots {
		if cfg.Paths.FileRoots[i], err = expandHome(root); err != nil {
			return nil, err
		}
	}
	if len(cfg.Paths.FileRoots) == 0 && cfg.Paths.Workspace != "" {
		cfg.Paths.FileRoots = []string{cfg.Paths.Workspace}
	}

	return cfg, nil
}

// Save writes the config file, creating the directory when needed.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
