// Package tts defines the engine API shared by all speech backends.
package tts

import (
	"time"
)

// Engine is the interface implemented by text-to-speech backends.
// An engine is owned by exactly one goroutine for its whole lifetime;
// implementations are not required to be safe for concurrent use.
type Engine interface {
	// Initialize prepares the engine for use with the given configuration.
	Initialize(config EngineConfig) error

	// Synthesize converts text to audio data synchronously.
	Synthesize(text string) (*Audio, error)

	// IsAvailable reports whether the engine is ready for use.
	IsAvailable() bool

	// Name returns the engine identifier used in config and logs.
	Name() string

	// Shutdown cleanly stops the engine and releases resources.
	// It must be safe to call after a failed Initialize.
	Shutdown() error
}

// EngineConfig holds the per-run settings passed to Engine.Initialize.
type EngineConfig struct {
	Voice  string  // Voice identifier, engine-specific
	Rate   int     // Speech rate in words per minute
	Volume float64 // Volume level (0.0 to 1.0)
}

// Audio represents synthesized audio data.
type Audio struct {
	Data       []byte        // Raw PCM data, signed 16-bit little-endian
	SampleRate int           // Sample rate in Hz
	Channels   int           // Number of audio channels
	Duration   time.Duration // Duration of the audio
}

// PCMDuration computes the play time of raw PCM16 data.
func PCMDuration(dataLen, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := dataLen / (2 * channels)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
