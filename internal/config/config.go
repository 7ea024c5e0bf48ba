package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type BudgetConfig struct {
	ContextCeiling int `toml:"context_ceiling"`
}

type RetryConfig struct {
	MaxRetries       int `toml:"max_retries"`
	BaseDelaySeconds int `toml:"base_delay_seconds"`
}

type Config struct {
	DataDir    string       `toml:"data_dir"`
	ProfileDir string       `toml:"profile_dir"`
	LLM        LLMConfig    `toml:"llm"`
	Budget     BudgetConfig `toml:"budget"`
	Retry      RetryConfig  `toml:"retry"`
}

func Default() Config {
	defaultDataDir := defaultDataDir()
	return Config{
		DataDir:    defaultDataDir,
		ProfileDir: filepath.Join(defaultDataDir, "profiles"),
		LLM: LLMConfig{
			Endpoint:       "https://api.openai.com",
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 300,
		},
		Budget: BudgetConfig{
			ContextCeiling: 6000,
		},
		Retry: RetryConfig{
			MaxRetries:       3,
			BaseDelaySeconds: 10,
		},
	}
}

func LoadOrCreate(path string) (Config, error) {
	config := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return config, err
			}

			configData, err := toml.Marshal(config)
			if err != nil {
				return config, err
			}

			if err := os.WriteFile(path, configData, 0o644); err != nil {
				return config, err
			}

			return config, nil
		}

		return config, err
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := toml.Unmarshal(configData, &config); err != nil {
		return config, err
	}

	config.DataDir = expandPath(config.DataDir)
	config.ProfileDir = expandPath(config.ProfileDir)
	config.LLM.Endpoint = strings.TrimSpace(config.LLM.Endpoint)

	if config.LLM.Endpoint == "" {
		return config, errors.New("llm endpoint is required")
	}

	if config.Budget.ContextCeiling <= 0 {
		return config, errors.New("budget context_ceiling must be positive")
	}

	if config.Retry.MaxRetries < 0 {
		return config, errors.New("retry max_retries must not be negative")
	}

	return config, nil
}

func defaultDataDir() string {
	homeDir, _ := os.UserHomeDir()

	if homeDir == "" {
		return ".squadrun"
	}

	return filepath.Join(homeDir, ".squadrun")
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		homeDir, _ := os.UserHomeDir()
		if homeDir != "" {
			return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
		}
	}

	return path
}
