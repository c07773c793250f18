// Package piper implements the TTS engine interface using the Piper
// neural synthesizer. Piper is run as a subprocess per request with
// --output-raw, which writes signed 16-bit PCM to stdout.
package piper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/sayline/tts"
)

// Engine implements the TTS engine interface for Piper.
type Engine struct {
	config       tts.PiperConfig
	engineConfig tts.EngineConfig

	binary string

	mu          sync.Mutex
	initialized bool
	shutdown    bool
}

// New creates a new Piper engine with the given settings.
func New(config tts.PiperConfig) *Engine {
	if config.Binary == "" {
		config.Binary = "piper"
	}
	if config.SampleRate == 0 {
		config.SampleRate = 22050
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Engine{config: config}
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return "piper" }

// Initialize verifies the piper binary and voice model are reachable.
func (e *Engine) Initialize(config tts.EngineConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return tts.ErrEngineShutdown
	}
	if e.initialized {
		return nil
	}

	binary, err := exec.LookPath(e.config.Binary)
	if err != nil {
		return fmt.Errorf("piper binary not accessible: %w", err)
	}

	if e.config.ModelPath == "" {
		return errors.New("piper requires a voice model: set piper.model_path")
	}
	if _, err := os.Stat(e.config.ModelPath); err != nil {
		return fmt.Errorf("piper model not accessible: %w", err)
	}

	e.binary = binary
	e.engineConfig = config
	e.initialized = true
	log.Debug("piper engine initialized", "binary", binary, "model", filepath.Base(e.config.ModelPath))
	return nil
}

// Synthesize feeds text to a fresh piper process and collects the raw PCM.
func (e *Engine) Synthesize(text string) (*tts.Audio, error) {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		return nil, tts.ErrEngineShutdown
	}
	if !e.initialized {
		e.mu.Unlock()
		return nil, tts.ErrEngineNotInitialized
	}
	binary := e.binary
	cfg := e.config
	rate := e.engineConfig.Rate
	e.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	args := []string{
		"--model", cfg.ModelPath,
		"--output-raw",
	}
	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err == nil {
			args = append(args, "--config", cfg.ConfigPath)
		}
	}
	// Piper controls pace through length_scale: 1.0 is the model's native
	// rate, larger is slower. Treat 175 wpm as native.
	if rate > 0 && rate != 175 {
		args = append(args, "--length_scale", fmt.Sprintf("%.2f", 175.0/float64(rate)))
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(text + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("piper failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("piper failed: %w", err)
	}

	data := stdout.Bytes()
	if len(data) == 0 {
		return nil, tts.ErrSynthesisFailed
	}

	return &tts.Audio{
		Data:       data,
		SampleRate: cfg.SampleRate,
		Channels:   1,
		Duration:   tts.PCMDuration(len(data), cfg.SampleRate, 1),
	}, nil
}

// IsAvailable reports whether the engine is initialized and not shut down.
func (e *Engine) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && !e.shutdown
}

// Shutdown releases the engine.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return nil
	}
	e.shutdown = true
	e.initialized = false
	log.Debug("piper engine shut down")
	return nil
}
