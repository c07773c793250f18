package tts

import (
	"errors"
	"fmt"
)

// Common errors for the TTS system.
var (
	// Engine errors
	ErrEngineNotAvailable   = errors.New("TTS engine is not available")
	ErrEngineNotInitialized = errors.New("TTS engine is not initialized")
	ErrEngineShutdown       = errors.New("engine has been shut down")
	ErrUnknownEngine        = errors.New("unknown TTS engine")
	ErrSynthesisFailed      = errors.New("speech synthesis failed")

	// Configuration errors
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidRate    = errors.New("speech rate out of range")
	ErrInvalidVolume  = errors.New("volume must be between 0.0 and 1.0")
	ErrEmptyText      = errors.New("empty text item")
	ErrInvalidOutput  = errors.New("unsupported output file format")
)

// InitError reports a fatal engine initialization failure. A run that hits
// an InitError aborts with a non-zero exit code.
type InitError struct {
	Engine string
	Err    error
}

// Error implements the error interface.
func (e *InitError) Error() string {
	return fmt.Sprintf("engine %q failed to initialize: %v", e.Engine, e.Err)
}

// Unwrap returns the underlying error.
func (e *InitError) Unwrap() error { return e.Err }

// NewInitError wraps an engine initialization failure.
func NewInitError(engine string, err error) *InitError {
	return &InitError{Engine: engine, Err: err}
}

// SynthesisError reports a per-item synthesis failure. It is recoverable:
// the worker logs it, skips the item, and continues with the next one.
type SynthesisError struct {
	Engine string
	Text   string
	Err    error
}

// Error implements the error interface.
func (e *SynthesisError) Error() string {
	return fmt.Sprintf("engine %q could not synthesize %q: %v", e.Engine, truncate(e.Text, 40), e.Err)
}

// Unwrap returns the underlying error.
func (e *SynthesisError) Unwrap() error { return e.Err }

// NewSynthesisError wraps a per-item synthesis failure.
func NewSynthesisError(engine, text string, err error) *SynthesisError {
	return &SynthesisError{Engine: engine, Text: text, Err: err}
}

// IsRecoverable reports whether the worker loop may continue after err.
// Initialization failures and shutdown are fatal; everything else, including
// per-item synthesis errors, is recoverable.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}

	var initErr *InitError
	if errors.As(err, &initErr) {
		return false
	}

	switch {
	case errors.Is(err, ErrEngineNotAvailable),
		errors.Is(err, ErrEngineShutdown),
		errors.Is(err, ErrUnknownEngine),
		errors.Is(err, ErrInvalidConfig):
		return false
	}

	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
