package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName     = ".wboardrc"
	defaultTerminalURL = "ws://localhost:8000/ws/terminal"
	defaultStoreName   = "wboard.db"
)

type Config struct {
	SaveDirectory    string `yaml:"save_directory"`
	StorePath        string `yaml:"store_path"`
	TerminalURL      string `yaml:"terminal_url"`
	DiscoverTerminal bool   `yaml:"discover_terminal"`
	MetricsAddr      string `yaml:"metrics_addr"`
	Confirmations    bool   `yaml:"confirmations"`
}

func defaultConfig() *Config {
	return &Config{
		TerminalURL:   defaultTerminalURL,
		Confirmations: true,
	}
}

// loadConfig reads path, or ~/.wboardrc when path is empty. A missing file
// yields the defaults; a malformed one is an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	homeDir, homeErr := os.UserHomeDir()
	if path == "" {
		if homeErr != nil {
			return config, nil
		}
		path = filepath.Join(homeDir, configFileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, config.normalize(homeDir)
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, config.normalize(homeDir)
}

func (c *Config) normalize(homeDir string) error {
	var err error
	if c.SaveDirectory, err = expandPath(c.SaveDirectory, homeDir); err != nil {
		return err
	}
	if c.StorePath == "" && homeDir != "" {
		c.StorePath = filepath.Join(homeDir, ".local", "share", "wboard", defaultStoreName)
	}
	if c.StorePath, err = expandPath(c.StorePath, homeDir); err != nil {
		return err
	}
	if c.TerminalURL == "" {
		c.TerminalURL = defaultTerminalURL
	}
	return nil
}

func expandPath(value, homeDir string) (string, error) {
	if value == "" {
		return "", nil
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		abs, err := filepath.Abs(value)
		if err != nil {
			return "", fmt.Errorf("resolve %s: %w", value, err)
		}
		value = abs
	}
	return value, nil
}

func (c *Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" {
		return filename, nil
	}
	if err := os.MkdirAll(c.SaveDirectory, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return filepath.Join(c.SaveDirectory, filename), nil
}
