package assistant

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config tunes the assistant: which model tiers to call, which substrings
// mark a query as diagnostic, which voice to speak with. All fields have
// working defaults; a config file only overrides.
type Config struct {
	FastModel          string   `toml:"fast_model"`
	DeepModel          string   `toml:"deep_model"`
	TTSModel           string   `toml:"tts_model"`
	LiveModel          string   `toml:"live_model"`
	ThinkingBudget     int      `toml:"thinking_budget"`
	Temperature        float64  `toml:"temperature"`
	DiagnosticKeywords []string `toml:"diagnostic_keywords"`
	Voice              string   `toml:"voice"`
}

// DefaultConfig returns the production model lineup.
func DefaultConfig() *Config {
	return &Config{
		FastModel:          "gemini-3-flash-preview",
		DeepModel:          "gemini-3-pro-preview",
		TTSModel:           "gemini-2.5-flash-preview-tts",
		LiveModel:          "gemini-2.5-flash-native-audio-preview-12-2025",
		ThinkingBudget:     32768,
		Temperature:        0.7,
		DiagnosticKeywords: DefaultDiagnosticKeywords,
		Voice:              string(DefaultVoice),
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing file is
// not an error; the defaults are returned as-is.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse assistant config: %w", err)
	}
	if !ValidVoice(Voice(cfg.Voice)) {
		return nil, fmt.Errorf("unknown voice %q", cfg.Voice)
	}
	return cfg, nil
}
