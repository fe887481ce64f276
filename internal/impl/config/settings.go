package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drujensen/reactagent/internal/domain/errors"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Settings tune the agent loop. They live in a YAML file so they can change
// without touching the environment.
type Settings struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   *int    `yaml:"max_tokens,omitempty"`
	// MaxSteps bounds model calls per user question.
	MaxSteps int `yaml:"max_steps"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Temperature: 0.6,
		MaxSteps:    10,
	}
}

// DefaultSettingsPath is ~/.config/aiagent/settings.yaml.
func DefaultSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.ValidationErrorf("cannot locate settings file, set %s: %w", EnvSettings, err)
	}
	return filepath.Join(home, ".config", "aiagent", "settings.yaml"), nil
}

// SettingsPath returns AIAGENT_SETTINGS when set, otherwise the default path.
func SettingsPath() (string, error) {
	if path := strings.TrimSpace(os.Getenv(EnvSettings)); path != "" {
		return path, nil
	}
	return DefaultSettingsPath()
}

// LoadSettings reads path over the defaults. A missing file yields the
// defaults; a malformed one is a ValidationError.
func LoadSettings(path string, logger *zap.Logger) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("Settings file does not exist, using defaults", zap.String("path", path))
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, errors.ValidationErrorf("failed to parse settings file %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Loaded settings", zap.String("path", path))
	return settings, nil
}

func (s *Settings) Validate() error {
	if s.Temperature < 0 || s.Temperature > 2 {
		return errors.ValidationErrorf("temperature must be between 0 and 2, got %v", s.Temperature)
	}
	if s.MaxSteps < 1 {
		return errors.ValidationErrorf("max_steps must be at least 1, got %d", s.MaxSteps)
	}
	if s.MaxTokens != nil && *s.MaxTokens < 1 {
		return errors.ValidationErrorf("max_tokens must be positive, got %d", *s.MaxTokens)
	}
	return nil
}

// SaveSettings writes settings to path, creating the directory if needed.
func SaveSettings(path string, settings *Settings, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	logger.Debug("Saved settings", zap.String("path", path))
	return nil
}
