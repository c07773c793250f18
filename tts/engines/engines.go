// Package engines constructs TTS engines by name.
package engines

import (
	"github.com/dgnsrekt/sayline/tts"
	"github.com/dgnsrekt/sayline/tts/engines/espeak"
	"github.com/dgnsrekt/sayline/tts/engines/mock"
	"github.com/dgnsrekt/sayline/tts/engines/piper"
)

// New returns an uninitialized engine for the identifier in config.Engine.
// The caller owns the engine and must call Initialize and, eventually,
// Shutdown from the same goroutine.
func New(config tts.Config) (tts.Engine, error) {
	name, err := tts.ValidateEngineSelection(config.Engine)
	if err != nil {
		return nil, err
	}

	switch name {
	case "espeak":
		return espeak.New(config.Espeak), nil
	case "piper":
		return piper.New(config.Piper), nil
	case "mock":
		return mock.New(), nil
	}
	return nil, tts.ErrUnknownEngine
}
