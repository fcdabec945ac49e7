// Package config loads server configuration from an optional JSON file
// with environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Gemini configures the natural-language classifier endpoint.
type Gemini struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// Voice configures the live voice endpoint the bridge dials.
type Voice struct {
	Endpoint string `json:"endpoint"`
	Model    string `json:"model"`
}

// Config is the full server configuration.
type Config struct {
	Addr      string        `json:"addr"`
	DBPath    string        `json:"dbPath"`
	JWTSecret string        `json:"jwtSecret"`
	TokenTTL  time.Duration `json:"-"`
	TokenTTLh int           `json:"tokenTTLHours"`
	Gemini    Gemini        `json:"gemini"`
	Voice     Voice         `json:"voice"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Addr:      ":8080",
		DBPath:    "./data/moneytalk.db",
		TokenTTLh: 24,
		Gemini: Gemini{
			Model: "gemini-flash-lite-latest",
		},
		Voice: Voice{
			Endpoint: "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent",
			Model:    "gemini-2.5-flash-native-audio-preview-09-2025",
		},
	}
}

// Load builds the configuration from defaults, an optional JSON file at
// path (ignored when empty or absent), and environment overrides, in that
// order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(cfg)
	cfg.TokenTTL = time.Duration(cfg.TokenTTLh) * time.Hour

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Addr, "ADDR")
	setFromEnv(&cfg.DBPath, "DB_PATH")
	setFromEnv(&cfg.JWTSecret, "JWT_SECRET")
	setFromEnv(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "GEMINI_MODEL")
	setFromEnv(&cfg.Voice.Endpoint, "VOICE_ENDPOINT")
	setFromEnv(&cfg.Voice.Model, "VOICE_MODEL")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
