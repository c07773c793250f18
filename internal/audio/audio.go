// Package audio provides WAV handling and playback for synthesized speech.
package audio

import (
	"errors"

	"github.com/dgnsrekt/sayline/tts"
)

// Player plays synthesized audio on the default output device.
// Play blocks until the audio has finished; the speech worker plays
// utterances strictly one at a time.
type Player interface {
	// Play blocks until the audio has been played in full.
	Play(a *tts.Audio) error

	// SetVolume sets the playback volume (0.0 to 1.0).
	SetVolume(volume float64)

	// Close releases the audio device.
	Close() error
}

var (
	// ErrPlayerClosed is returned when Play is called after Close.
	ErrPlayerClosed = errors.New("audio player is closed")

	// ErrNothingToPlay is returned for empty audio.
	ErrNothingToPlay = errors.New("no audio to play")

	// ErrFormatMismatch is returned when audio does not match the format
	// the device context was opened with.
	ErrFormatMismatch = errors.New("audio format does not match device context")
)
