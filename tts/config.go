package tts

import (
	"fmt"
	"strings"
	"time"
)

// Config contains all TTS configuration options.
type Config struct {
	// Engine selection
	Engine string `yaml:"engine" env:"SAYLINE_TTS_ENGINE"`
	Voice  string `yaml:"voice" env:"SAYLINE_TTS_VOICE"`

	// Speech settings
	Rate   int     `yaml:"rate" env:"SAYLINE_TTS_RATE"`
	Volume float64 `yaml:"volume" env:"SAYLINE_TTS_VOLUME"`

	// Cache settings
	CacheDir     string `yaml:"cache_dir" env:"SAYLINE_TTS_CACHE_DIR"`
	CacheEnabled bool   `yaml:"cache_enabled" env:"SAYLINE_TTS_CACHE_ENABLED"`
	CacheMaxMB   int    `yaml:"cache_max_mb" env:"SAYLINE_TTS_CACHE_MAX_MB"`

	// Engine-specific configurations
	Espeak EspeakConfig `yaml:"espeak"`
	Piper  PiperConfig  `yaml:"piper"`
}

// EspeakConfig contains espeak-ng specific settings.
type EspeakConfig struct {
	Binary  string        `yaml:"binary" env:"SAYLINE_TTS_ESPEAK_BINARY"`
	Voice   string        `yaml:"voice" env:"SAYLINE_TTS_ESPEAK_VOICE"`
	Timeout time.Duration `yaml:"timeout" env:"SAYLINE_TTS_ESPEAK_TIMEOUT"`
}

// PiperConfig contains Piper specific settings.
type PiperConfig struct {
	Binary     string        `yaml:"binary" env:"SAYLINE_TTS_PIPER_BINARY"`
	ModelPath  string        `yaml:"model_path" env:"SAYLINE_TTS_PIPER_MODEL_PATH"`
	ConfigPath string        `yaml:"config_path" env:"SAYLINE_TTS_PIPER_CONFIG_PATH"`
	SampleRate int           `yaml:"sample_rate" env:"SAYLINE_TTS_PIPER_SAMPLE_RATE"`
	Timeout    time.Duration `yaml:"timeout" env:"SAYLINE_TTS_PIPER_TIMEOUT"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:       "espeak",
		Rate:         175,
		Volume:       1.0,
		CacheEnabled: true,
		CacheMaxMB:   100,
		Espeak: EspeakConfig{
			Voice:   "en",
			Timeout: 30 * time.Second,
		},
		Piper: PiperConfig{
			Binary:     "piper",
			SampleRate: 22050,
			Timeout:    30 * time.Second,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, ok := knownEngines[strings.ToLower(c.Engine)]; !ok {
		return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownEngine, c.Engine, strings.Join(EngineNames(), ", "))
	}
	if c.Rate < 20 || c.Rate > 600 {
		return fmt.Errorf("%w: %d (valid: 20-600 words/min)", ErrInvalidRate, c.Rate)
	}
	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidVolume, c.Volume)
	}
	if c.CacheMaxMB < 1 || c.CacheMaxMB > 10000 {
		return fmt.Errorf("%w: cache_max_mb must be between 1 and 10000, got %d", ErrInvalidConfig, c.CacheMaxMB)
	}
	return nil
}

// EngineSettings derives the per-run engine settings from the config,
// preferring the engine-specific voice when the global one is unset.
func (c *Config) EngineSettings() EngineConfig {
	voice := c.Voice
	if voice == "" && strings.ToLower(c.Engine) == "espeak" {
		voice = c.Espeak.Voice
	}
	return EngineConfig{
		Voice:  voice,
		Rate:   c.Rate,
		Volume: c.Volume,
	}
}
