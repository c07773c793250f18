//go:build !nocgo
// +build !nocgo

package audio

import (
	"bytes"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/dgnsrekt/sayline/tts"
	"github.com/ebitengine/oto/v3"
)

// Format is the OTO sample format for all synthesized audio.
const Format = oto.FormatSignedInt16LE

// OtoPlayer plays PCM16 audio through the default output device using oto.
// The device context is created lazily on the first Play call, using that
// audio's sample rate and channel count; every later utterance from the
// same engine shares the format.
type OtoPlayer struct {
	mu sync.Mutex

	context    *oto.Context
	sampleRate int
	channels   int

	volume float64
	closed bool
}

// NewOtoPlayer creates a player. No audio device is touched until Play.
func NewOtoPlayer() *OtoPlayer {
	return &OtoPlayer{volume: 1.0}
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *OtoPlayer) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = math.Max(0, math.Min(1, volume))
}

// Play blocks until the audio has been played in full.
func (p *OtoPlayer) Play(a *tts.Audio) error {
	if a == nil || len(a.Data) == 0 {
		return ErrNothingToPlay
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	if p.context == nil {
		if err := p.openContext(a.SampleRate, a.Channels); err != nil {
			p.mu.Unlock()
			return err
		}
	} else if a.SampleRate != p.sampleRate || a.Channels != p.channels {
		p.mu.Unlock()
		return fmt.Errorf("%w: got %dHz/%dch, device is %dHz/%dch",
			ErrFormatMismatch, a.SampleRate, a.Channels, p.sampleRate, p.channels)
	}
	ctx := p.context
	volume := p.volume
	p.mu.Unlock()

	player := ctx.NewPlayer(bytes.NewReader(a.Data))
	player.SetVolume(volume)
	player.Play()

	// oto plays asynchronously; poll until the device buffer drains.
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	return player.Close()
}

// Close marks the player closed. oto contexts cannot be torn down, so the
// device stays open until process exit, but no further Play calls succeed.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// openContext creates the oto context and waits for the device to be ready.
// Caller holds p.mu.
func (p *OtoPlayer) openContext(sampleRate, channels int) error {
	options := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       Format,
	}

	// Platform-specific buffer size adjustments
	switch runtime.GOOS {
	case "darwin":
		options.BufferSize = time.Millisecond * 100
	default:
		options.BufferSize = time.Millisecond * 50
	}

	ctx, readyChan, err := oto.NewContext(options)
	if err != nil {
		return fmt.Errorf("failed to create audio context: %w", err)
	}
	<-readyChan

	p.context = ctx
	p.sampleRate = sampleRate
	p.channels = channels
	return nil
}
