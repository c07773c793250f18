package cache

import (
	"math/rand"
	"testing"
	"time"

	"github.com/dgnsrekt/sayline/tts"
)

func sampleAudio(size int) *tts.Audio {
	return &tts.Audio{
		Data:       make([]byte, size),
		SampleRate: 22050,
		Channels:   1,
		Duration:   tts.PCMDuration(size, 22050, 1),
	}
}

// TestKeyStability checks the cache key is deterministic and sensitive to
// every input.
func TestKeyStability(t *testing.T) {
	base := Key("espeak", "en", 175, "hello")
	if base != Key("espeak", "en", 175, "hello") {
		t.Error("Key must be deterministic")
	}

	variants := []string{
		Key("piper", "en", 175, "hello"),
		Key("espeak", "de", 175, "hello"),
		Key("espeak", "en", 200, "hello"),
		Key("espeak", "en", 175, "goodbye"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("Variant %d collided with base key", i)
		}
	}
}

// TestPutGetRoundTrip checks stored audio comes back intact.
func TestPutGetRoundTrip(t *testing.T) {
	dc, err := New(t.TempDir(), 10*1024*1024)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	a := sampleAudio(4410)
	key := Key("mock", "", 175, "round trip")

	if err := dc.Put(key, a); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := dc.Get(key)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if len(got.Data) != len(a.Data) {
		t.Errorf("Expected %d bytes, got %d", len(a.Data), len(got.Data))
	}
	if got.SampleRate != a.SampleRate || got.Channels != a.Channels {
		t.Errorf("Format mismatch: got %d/%d", got.SampleRate, got.Channels)
	}
	if got.Duration != a.Duration {
		t.Errorf("Expected duration %v, got %v", a.Duration, got.Duration)
	}
}

// TestGetMiss checks unknown keys miss cleanly.
func TestGetMiss(t *testing.T) {
	dc, err := New(t.TempDir(), 1024*1024)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	if _, ok := dc.Get(Key("mock", "", 175, "absent")); ok {
		t.Error("Expected miss for absent key")
	}
	if stats := dc.GetStats(); stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
}

// TestIndexSurvivesReopen checks entries written by one cache instance are
// visible to the next.
func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key := Key("mock", "", 175, "persistent")

	dc, err := New(dir, 1024*1024)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := dc.Put(key, sampleAudio(1000)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	dc.Close() //nolint:errcheck

	reopened, err := New(dir, 1024*1024)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close() //nolint:errcheck

	if _, ok := reopened.Get(key); !ok {
		t.Error("Expected entry to survive reopen")
	}
}

// TestEviction checks the LRU eviction keeps the cache under capacity.
func TestEviction(t *testing.T) {
	// Silence compresses to nearly nothing, so use noise the compressor
	// cannot squeeze and a capacity that fits roughly two entries.
	const capacity = 10 * 1024
	dc, err := New(t.TempDir(), capacity)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer dc.Close() //nolint:errcheck

	rng := rand.New(rand.NewSource(42))
	for i, text := range []string{"one", "two", "three", "four"} {
		a := sampleAudio(4096)
		rng.Read(a.Data)
		if err := dc.Put(Key("mock", "", 175, text), a); err != nil {
			t.Fatalf("Put %d failed: %v", i, err)
		}
		time.Sleep(5 * time.Millisecond) // distinct access times
	}

	if dc.Size() > capacity {
		t.Errorf("Expected size under capacity, got %d", dc.Size())
	}
	if stats := dc.GetStats(); stats.Evictions == 0 {
		t.Error("Expected at least one eviction")
	}
}
