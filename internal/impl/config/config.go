package config

import (
	"os"
	"strings"

	"github.com/drujensen/reactagent/internal/domain/errors"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvAPIKey   = "DEEPSEEK_API_KEY"
	EnvModel    = "DEEPSEEK_MODEL"
	EnvBaseURL  = "DEEPSEEK_BASE_URL"
	EnvLogLevel = "AIAGENT_LOG_LEVEL"
	EnvSettings = "AIAGENT_SETTINGS"

	defaultModel   = "deepseek-chat"
	defaultBaseURL = "https://api.deepseek.com"
)

type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	SettingsPath string
	Settings     *Settings
}

// InitConfig loads .env from the working directory when present, reads the
// environment and then the settings file. A missing API key is a
// ValidationError.
func InitConfig(logger *zap.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No .env file found; falling back to system environment variables")
		} else {
			logger.Error("Config file load error", zap.Error(err))
			return nil, errors.ValidationErrorf("failed to load .env file: %w", err)
		}
	} else {
		logger.Debug("Successfully loaded .env file")
	}

	apiKey := strings.TrimSpace(os.Getenv(EnvAPIKey))
	if apiKey == "" {
		return nil, errors.ValidationErrorf("%s is not set", EnvAPIKey)
	}

	settingsPath, err := SettingsPath()
	if err != nil {
		return nil, err
	}

	config := &Config{
		APIKey:       apiKey,
		Model:        envOrDefault(EnvModel, defaultModel),
		BaseURL:      envOrDefault(EnvBaseURL, defaultBaseURL),
		SettingsPath: settingsPath,
	}

	settings, err := LoadSettings(config.SettingsPath, logger)
	if err != nil {
		return nil, err
	}
	config.Settings = settings

	logger.Debug("Configuration loaded",
		zap.String("api_key", maskKey(config.APIKey)),
		zap.String("model", config.Model),
		zap.String("base_url", config.BaseURL),
		zap.String("settings", config.SettingsPath))
	return config, nil
}

// LogLevel reads AIAGENT_LOG_LEVEL; anything unparsable means warn.
func LogLevel() zapcore.Level {
	value := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if value == "" {
		return zapcore.WarnLevel
	}
	level, err := zapcore.ParseLevel(value)
	if err != nil {
		return zapcore.WarnLevel
	}
	return level
}

// NewLogger builds the development logger used by the command line, writing
// to stderr so it never mixes with the conversation on stdout.
func NewLogger() (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(LogLevel())
	return logConfig.Build()
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
