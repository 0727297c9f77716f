package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the persisted application configuration. The bearer
// token is deliberately not stored here; it always comes from the
// environment.
type Config struct {
	BaseURL      string `json:"base_url"`
	Theme        string `json:"theme"`
	PostStyle    string `json:"post_style"`
	PostTone     string `json:"post_tone"`
	TargetLength int    `json:"target_length"`
}

// Manager handles configuration persistence
type Manager struct {
	configPath string
	config     *Config
}

// NewManager creates a config manager backed by ~/.scout/config.json
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".scout")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{
		configPath: filepath.Join(configDir, "config.json"),
		config:     &Config{},
	}

	if err := m.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return m, nil
}

// Load reads the configuration from disk
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, m.config); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// BaseURL returns the backend base URL. The SCOUT_API_URL environment
// variable wins over the stored value.
func (m *Manager) BaseURL() string {
	if env := os.Getenv("SCOUT_API_URL"); env != "" {
		return env
	}
	if m.config.BaseURL != "" {
		return m.config.BaseURL
	}
	return "http://localhost:8000"
}

// Token returns the bearer token from the environment, empty if unset
func (m *Manager) Token() string {
	return os.Getenv("SCOUT_API_TOKEN")
}

// Theme returns the configured UI theme name
func (m *Manager) Theme() string {
	return m.config.Theme
}

// PostDefaults returns the default LinkedIn generation parameters
func (m *Manager) PostDefaults() (style, tone string, targetLength int) {
	return m.config.PostStyle, m.config.PostTone, m.config.TargetLength
}

// SetBaseURL updates and persists the backend base URL
func (m *Manager) SetBaseURL(base string) error {
	m.config.BaseURL = base
	return m.Save()
}
