package audio

import (
	"errors"
	"testing"

	"github.com/dgnsrekt/sayline/tts"
)

// TestMockPlayerRecordsPlays checks call recording.
func TestMockPlayerRecordsPlays(t *testing.T) {
	p := NewMockPlayer()
	a := &tts.Audio{Data: []byte{0, 0}, SampleRate: 22050, Channels: 1}

	if err := p.Play(a); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if p.PlayCount() != 1 {
		t.Errorf("Expected 1 play, got %d", p.PlayCount())
	}
	if got := p.Played(); len(got) != 1 || got[0] != a {
		t.Error("Expected the played audio to be recorded")
	}
}

// TestMockPlayerEmptyAudio checks empty input is rejected.
func TestMockPlayerEmptyAudio(t *testing.T) {
	p := NewMockPlayer()
	if err := p.Play(&tts.Audio{}); !errors.Is(err, ErrNothingToPlay) {
		t.Errorf("Expected ErrNothingToPlay, got %v", err)
	}
	if err := p.Play(nil); !errors.Is(err, ErrNothingToPlay) {
		t.Errorf("Expected ErrNothingToPlay for nil, got %v", err)
	}
}

// TestMockPlayerClosed checks closed players refuse playback.
func TestMockPlayerClosed(t *testing.T) {
	p := NewMockPlayer()
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	a := &tts.Audio{Data: []byte{0, 0}, SampleRate: 22050, Channels: 1}
	if err := p.Play(a); !errors.Is(err, ErrPlayerClosed) {
		t.Errorf("Expected ErrPlayerClosed, got %v", err)
	}
}

// TestMockPlayerFailureInjection checks injected errors surface.
func TestMockPlayerFailureInjection(t *testing.T) {
	p := NewMockPlayer()
	boom := errors.New("boom")
	p.SetPlayError(boom)

	a := &tts.Audio{Data: []byte{0, 0}, SampleRate: 22050, Channels: 1}
	if err := p.Play(a); !errors.Is(err, boom) {
		t.Errorf("Expected injected error, got %v", err)
	}
	if p.PlayCount() != 0 {
		t.Errorf("Failed plays must not be recorded, got %d", p.PlayCount())
	}
}
