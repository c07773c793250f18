//go:build nocgo
// +build nocgo

package audio

import (
	"errors"
	"math"
	"sync"

	"github.com/dgnsrekt/sayline/tts"
)

// Stub implementation for builds without CGO. File export still works;
// only device playback is unavailable.

// OtoPlayer is the nocgo stand-in for the oto-backed player.
type OtoPlayer struct {
	mu     sync.Mutex
	volume float64
	closed bool
}

// NewOtoPlayer creates the stub player.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{volume: 1.0}
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *OtoPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Max(0, math.Min(1, volume))
}

// Play always fails: there is no audio device in nocgo builds.
func (p *OtoPlayer) Play(a *tts.Audio) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPlayerClosed
	}
	return errors.New("audio playback not available in nocgo build")
}

// Close marks the player closed.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
