package audio

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/dgnsrekt/sayline/tts"
)

func testAudio() *tts.Audio {
	// 100ms of silence at 22050Hz mono.
	data := make([]byte, 22050/10*2)
	return &tts.Audio{
		Data:       data,
		SampleRate: 22050,
		Channels:   1,
		Duration:   100 * time.Millisecond,
	}
}

// TestEncodeWAVHeader checks the RIFF header fields.
func TestEncodeWAVHeader(t *testing.T) {
	a := testAudio()
	buf := EncodeWAV(a)

	if len(buf) != 44+len(a.Data) {
		t.Fatalf("Expected %d bytes, got %d", 44+len(a.Data), len(buf))
	}
	if string(buf[0:4]) != "RIFF" || string(buf[8:12]) != "WAVE" {
		t.Error("Missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(buf[24:28]); got != 22050 {
		t.Errorf("Expected sample rate 22050, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(buf[22:24]); got != 1 {
		t.Errorf("Expected 1 channel, got %d", got)
	}
	if got := binary.LittleEndian.Uint16(buf[34:36]); got != 16 {
		t.Errorf("Expected 16 bits per sample, got %d", got)
	}
	if got := binary.LittleEndian.Uint32(buf[40:44]); got != uint32(len(a.Data)) {
		t.Errorf("Expected data size %d, got %d", len(a.Data), got)
	}
}

// TestDecodeWAVRoundTrip checks encode then decode preserves the audio.
func TestDecodeWAVRoundTrip(t *testing.T) {
	a := testAudio()
	decoded, err := DecodeWAV(EncodeWAV(a))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}

	if len(decoded.Data) != len(a.Data) {
		t.Errorf("Expected %d data bytes, got %d", len(a.Data), len(decoded.Data))
	}
	if decoded.SampleRate != a.SampleRate {
		t.Errorf("Expected sample rate %d, got %d", a.SampleRate, decoded.SampleRate)
	}
	if decoded.Channels != a.Channels {
		t.Errorf("Expected %d channels, got %d", a.Channels, decoded.Channels)
	}
	if decoded.Duration != a.Duration {
		t.Errorf("Expected duration %v, got %v", a.Duration, decoded.Duration)
	}
}

// TestDecodeWAVStreamingSizes checks tolerance for the placeholder chunk
// sizes espeak writes when streaming to stdout.
func TestDecodeWAVStreamingSizes(t *testing.T) {
	a := testAudio()
	buf := EncodeWAV(a)

	// Streaming writers leave RIFF and data sizes as 0xFFFFFFFF.
	binary.LittleEndian.PutUint32(buf[4:8], 0xFFFFFFFF)
	binary.LittleEndian.PutUint32(buf[40:44], 0xFFFFFFFF)

	decoded, err := DecodeWAV(buf)
	if err != nil {
		t.Fatalf("DecodeWAV failed on streamed header: %v", err)
	}
	if len(decoded.Data) != len(a.Data) {
		t.Errorf("Expected %d data bytes, got %d", len(a.Data), len(decoded.Data))
	}
}

// TestDecodeWAVRejectsGarbage checks non-WAV input fails cleanly.
func TestDecodeWAVRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("not audio at all"),
		make([]byte, 100), // zeroed, no magic
	}
	for i, data := range cases {
		if _, err := DecodeWAV(data); !errors.Is(err, ErrNotWAV) {
			t.Errorf("Case %d: expected ErrNotWAV, got %v", i, err)
		}
	}
}

// TestDecodeWAVRejectsNonPCM16 checks unsupported encodings are refused.
func TestDecodeWAVRejectsNonPCM16(t *testing.T) {
	buf := EncodeWAV(testAudio())
	binary.LittleEndian.PutUint16(buf[34:36], 8) // 8-bit samples

	if _, err := DecodeWAV(buf); !errors.Is(err, ErrUnsupportedWAV) {
		t.Errorf("Expected ErrUnsupportedWAV, got %v", err)
	}
}

// TestPCMDuration checks the length computation used across the system.
func TestPCMDuration(t *testing.T) {
	tests := []struct {
		dataLen    int
		sampleRate int
		channels   int
		want       time.Duration
	}{
		{44100 * 2, 44100, 1, time.Second},
		{22050 * 2 * 2, 22050, 2, time.Second},
		{0, 22050, 1, 0},
		{100, 0, 1, 0},
	}
	for i, tt := range tests {
		if got := tts.PCMDuration(tt.dataLen, tt.sampleRate, tt.channels); got != tt.want {
			t.Errorf("Case %d: expected %v, got %v", i, tt.want, got)
		}
	}
}
