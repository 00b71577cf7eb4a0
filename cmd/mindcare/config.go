// Config loading and shared helpers for the mindcare CLI commands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThePerryDev/MindCare-sub000/internal/client"
	"github.com/ThePerryDev/MindCare-sub000/internal/progression"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyAPIURL    = "api_url"
	cfgKeyToken     = "token"
	cfgKeyStorePath = "store_path"

	defaultAPIURL = "http://localhost:8080"
)

const defaultConfigYAML = `# MindCare CLI configuration

# Backend API base URL
api_url: http://localhost:8080

# Session token, written by "mindcare login"
# token:

# Progression store path (optional, defaults to progress.json
# next to this file)
# store_path:
`

// resolveConfigDir honors --config-dir and falls back to ~/.mindcare.
func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mindcare"), nil
}

// loadConfig reads config.yaml from the resolved config directory,
// creating the directory and a default config.yaml on first run.
func loadConfig() (*viper.Viper, string, error) {
	dir, err := resolveConfigDir()
	if err != nil {
		return nil, "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", fmt.Errorf("ensure config dir: %w", err)
	}

	configPath := filepath.Join(dir, configFileExt)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
			return nil, "", fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault(cfgKeyAPIURL, defaultAPIURL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, "", fmt.Errorf("read config: %w", err)
		}
	}

	return v, dir, nil
}

// newAPIClient builds the backend client with the saved session token,
// if any.
func newAPIClient() (*client.Client, *viper.Viper, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	apiClient := client.New(cfg.GetString(cfgKeyAPIURL))
	if token := cfg.GetString(cfgKeyToken); token != "" {
		apiClient.SetToken(token)
	}
	return apiClient, cfg, nil
}

// newTracker opens the device-local progression store.
func newTracker() (*progression.Tracker, error) {
	cfg, dir, err := loadConfig()
	if err != nil {
		return nil, err
	}

	storePath := cfg.GetString(cfgKeyStorePath)
	if storePath == "" {
		storePath = filepath.Join(dir, "progress.json")
	}

	store, err := progression.NewFileStore(storePath)
	if err != nil {
		return nil, fmt.Errorf("open progression store: %w", err)
	}
	return progression.NewTracker(store), nil
}

// saveToken persists the session token into config.yaml.
func saveToken(cfg *viper.Viper, token string) error {
	cfg.Set(cfgKeyToken, token)
	if err := cfg.WriteConfig(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
