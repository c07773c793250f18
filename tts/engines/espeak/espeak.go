// Package espeak implements the TTS engine interface on top of the
// espeak-ng (or legacy espeak) command line synthesizer.
package espeak

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/sayline/internal/audio"
	"github.com/dgnsrekt/sayline/tts"
)

// candidate binaries, in preference order.
var binaries = []string{"espeak-ng", "espeak"}

// Engine drives espeak-ng as a fresh subprocess per synthesis request.
// espeak starts in a few milliseconds, so there is no long-lived process
// to babysit the way piper needs.
type Engine struct {
	config       tts.EspeakConfig
	engineConfig tts.EngineConfig

	binary string

	mu          sync.Mutex
	initialized bool
	shutdown    bool
}

// New creates a new espeak engine with the given settings.
func New(config tts.EspeakConfig) *Engine {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &Engine{config: config}
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return "espeak" }

// Initialize locates the espeak binary and records the speech settings.
func (e *Engine) Initialize(config tts.EngineConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return tts.ErrEngineShutdown
	}
	if e.initialized {
		return nil
	}

	binary := e.config.Binary
	if binary == "" {
		for _, candidate := range binaries {
			if path, err := exec.LookPath(candidate); err == nil {
				binary = path
				break
			}
		}
	} else if path, err := exec.LookPath(binary); err == nil {
		binary = path
	} else {
		return fmt.Errorf("espeak binary not accessible: %w", err)
	}
	if binary == "" {
		return errors.New("espeak binary not found: install espeak-ng or espeak")
	}

	e.binary = binary
	e.engineConfig = config
	e.initialized = true
	log.Debug("espeak engine initialized", "binary", binary, "voice", e.voice(), "rate", config.Rate)
	return nil
}

// Synthesize runs espeak with --stdout and decodes the WAV it produces.
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
	cfg := e.engineConfig
	timeout := e.config.Timeout
	voice := e.voice()
	e.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil, tts.ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// espeak amplitude runs 0-200; map volume 0.0-1.0 onto it.
	args := []string{
		"-v", voice,
		"-s", strconv.Itoa(cfg.Rate),
		"-a", strconv.Itoa(int(cfg.Volume * 200)),
		"--stdout",
		text,
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("espeak failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("espeak failed: %w", err)
	}

	result, err := audio.DecodeWAV(out)
	if err != nil {
		return nil, fmt.Errorf("espeak produced unreadable audio: %w", err)
	}
	return result, nil
}

// IsAvailable reports whether the engine is initialized and not shut down.
func (e *Engine) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && !e.shutdown
}

// Shutdown releases the engine. There is no persistent subprocess to stop;
// the flag just refuses further synthesis.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return nil
	}
	e.shutdown = true
	e.initialized = false
	log.Debug("espeak engine shut down")
	return nil
}

func (e *Engine) voice() string {
	if e.engineConfig.Voice != "" {
		return e.engineConfig.Voice
	}
	if e.config.Voice != "" {
		return e.config.Voice
	}
	return "en"
}
