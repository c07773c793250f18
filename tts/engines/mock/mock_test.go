package mock

import (
	"errors"
	"testing"

	"github.com/dgnsrekt/sayline/tts"
)

// TestLifecycle checks the init/available/shutdown sequence.
func TestLifecycle(t *testing.T) {
	engine := New()
	if engine.IsAvailable() {
		t.Error("Engine should not be available before Initialize")
	}

	if err := engine.Initialize(tts.EngineConfig{Rate: 175, Volume: 1.0}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !engine.IsAvailable() {
		t.Error("Engine should be available after Initialize")
	}

	if err := engine.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if engine.IsAvailable() {
		t.Error("Engine should not be available after Shutdown")
	}
	if engine.ShutdownCalls != 1 {
		t.Errorf("Expected 1 shutdown call, got %d", engine.ShutdownCalls)
	}
}

// TestSynthesizeRecordsCalls checks ordering and audio shape.
func TestSynthesizeRecordsCalls(t *testing.T) {
	engine := New()
	if err := engine.Initialize(tts.EngineConfig{Rate: 175, Volume: 1.0}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	texts := []string{"first", "second sentence here"}
	for _, text := range texts {
		a, err := engine.Synthesize(text)
		if err != nil {
			t.Fatalf("Synthesize(%q) failed: %v", text, err)
		}
		if len(a.Data) == 0 {
			t.Errorf("Expected audio data for %q", text)
		}
		if a.SampleRate != 22050 || a.Channels != 1 {
			t.Errorf("Unexpected format: %d/%d", a.SampleRate, a.Channels)
		}
		if a.Duration <= 0 {
			t.Error("Expected positive duration")
		}
	}

	spoken := engine.Spoken()
	if len(spoken) != len(texts) {
		t.Fatalf("Expected %d recorded calls, got %d", len(texts), len(spoken))
	}
	for i := range texts {
		if spoken[i] != texts[i] {
			t.Errorf("Call %d: expected %q, got %q", i, texts[i], spoken[i])
		}
	}
}

// TestSynthesizeBeforeInitialize checks the uninitialized error path.
func TestSynthesizeBeforeInitialize(t *testing.T) {
	engine := New()
	if _, err := engine.Synthesize("early"); !errors.Is(err, tts.ErrEngineNotInitialized) {
		t.Errorf("Expected ErrEngineNotInitialized, got %v", err)
	}
}

// TestFailureInjection checks SetFailure, FailOn, and ClearFailure.
func TestFailureInjection(t *testing.T) {
	engine := New()
	_ = engine.Initialize(tts.EngineConfig{Rate: 175, Volume: 1.0})

	boom := errors.New("boom")
	engine.SetFailure(boom)
	if _, err := engine.Synthesize("anything"); !errors.Is(err, boom) {
		t.Errorf("Expected injected error, got %v", err)
	}

	engine.ClearFailure()
	if _, err := engine.Synthesize("fine"); err != nil {
		t.Errorf("Unexpected error after clearing: %v", err)
	}

	engine.FailOn("cursed", boom)
	if _, err := engine.Synthesize("cursed"); !errors.Is(err, boom) {
		t.Errorf("Expected targeted failure, got %v", err)
	}
	if _, err := engine.Synthesize("blessed"); err != nil {
		t.Errorf("Unexpected error for other text: %v", err)
	}

	// Failed calls must not be recorded as spoken.
	for _, text := range engine.Spoken() {
		if text == "cursed" || text == "anything" {
			t.Errorf("Failed call %q was recorded", text)
		}
	}
}

// TestInitFailureInjection checks SetInitFailure.
func TestInitFailureInjection(t *testing.T) {
	engine := New()
	boom := errors.New("no device")
	engine.SetInitFailure(boom)

	if err := engine.Initialize(tts.EngineConfig{}); !errors.Is(err, boom) {
		t.Errorf("Expected injected init error, got %v", err)
	}
	if engine.IsAvailable() {
		t.Error("Engine must not be available after failed Initialize")
	}
}

// TestSynthesizeAfterShutdown checks the shutdown latch.
func TestSynthesizeAfterShutdown(t *testing.T) {
	engine := New()
	_ = engine.Initialize(tts.EngineConfig{Rate: 175, Volume: 1.0})
	_ = engine.Shutdown()

	if _, err := engine.Synthesize("late"); !errors.Is(err, tts.ErrEngineShutdown) {
		t.Errorf("Expected ErrEngineShutdown, got %v", err)
	}
}
