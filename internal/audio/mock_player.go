package audio

import (
	"sync"

	"github.com/dgnsrekt/sayline/tts"
)

// MockPlayer implements Player for testing. It records every Play call
// instead of touching an audio device.
type MockPlayer struct {
	mu sync.Mutex

	// Failure injection
	playError error

	// Recorded state
	played     []*tts.Audio
	volume     float64
	closed     bool
	CloseCalls int
}

// NewMockPlayer creates a new mock player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{volume: 1.0}
}

// SetPlayError makes every Play call return err.
func (p *MockPlayer) SetPlayError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playError = err
}

// Play records the audio.
func (p *MockPlayer) Play(a *tts.Audio) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPlayerClosed
	}
	if a == nil || len(a.Data) == 0 {
		return ErrNothingToPlay
	}
	if p.playError != nil {
		return p.playError
	}
	p.played = append(p.played, a)
	return nil
}

// SetVolume records the requested volume.
func (p *MockPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

// Close marks the player closed.
func (p *MockPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.CloseCalls++
	return nil
}

// Played returns a copy of the recorded Play calls.
func (p *MockPlayer) Played() []*tts.Audio {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*tts.Audio, len(p.played))
	copy(out, p.played)
	return out
}

// PlayCount returns the number of successful Play calls.
func (p *MockPlayer) PlayCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.played)
}

// Volume returns the last volume set.
func (p *MockPlayer) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}
