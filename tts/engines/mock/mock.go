// Package mock provides a deterministic TTS engine for testing.
package mock

import (
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/sayline/tts"
)

// Engine implements the TTS engine interface for testing. It records
// every call so tests can assert on ordering and counts.
type Engine struct {
	mu sync.Mutex

	// Configuration
	config tts.EngineConfig
	delay  time.Duration

	// Failure injection
	initError    error
	failOn       map[string]error
	failAll      error // fails every Synthesize call when set

	// Recorded state
	initialized   bool
	shutdown      bool
	SpokenTexts   []string
	InitCalls     int
	ShutdownCalls int
}

// New creates a new mock TTS engine.
func New() *Engine {
	return &Engine{
		failOn: make(map[string]error),
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return "mock" }

// SetDelay makes every Synthesize call sleep for d first.
func (e *Engine) SetDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
}

// SetInitFailure makes Initialize return err.
func (e *Engine) SetInitFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initError = err
}

// SetFailure makes every Synthesize call return err.
func (e *Engine) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAll = err
}

// FailOn makes Synthesize return err only for the given text.
func (e *Engine) FailOn(text string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failOn[text] = err
}

// ClearFailure removes all injected synthesis failures.
func (e *Engine) ClearFailure() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failAll = nil
	e.failOn = make(map[string]error)
}

// Initialize prepares the mock engine.
func (e *Engine) Initialize(config tts.EngineConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.InitCalls++
	if e.initError != nil {
		return e.initError
	}
	if e.shutdown {
		return tts.ErrEngineShutdown
	}
	e.config = config
	e.initialized = true
	return nil
}

// Synthesize records the text and returns short silence sized by word count.
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
	delay := e.delay
	if err, ok := e.failOn[text]; ok {
		e.mu.Unlock()
		return nil, err
	}
	if e.failAll != nil {
		err := e.failAll
		e.mu.Unlock()
		return nil, err
	}
	e.SpokenTexts = append(e.SpokenTexts, text)
	e.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	// Silence, roughly 150 words per minute.
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	duration := time.Duration(words) * time.Minute / 150
	sampleRate := 22050
	samples := int(duration.Seconds() * float64(sampleRate))
	if samples < sampleRate/100 {
		samples = sampleRate / 100
	}

	return &tts.Audio{
		Data:       make([]byte, samples*2),
		SampleRate: sampleRate,
		Channels:   1,
		Duration:   duration,
	}, nil
}

// IsAvailable reports whether the engine is initialized and not shut down.
func (e *Engine) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized && !e.shutdown
}

// Shutdown releases the mock engine and counts the call.
func (e *Engine) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ShutdownCalls++
	e.shutdown = true
	e.initialized = false
	return nil
}

// Spoken returns a copy of the recorded synthesis calls.
func (e *Engine) Spoken() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.SpokenTexts))
	copy(out, e.SpokenTexts)
	return out
}
