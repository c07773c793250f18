package utils

import (
	"os"
	"path/filepath"
	"testing"
)

// TestExpandPath checks tilde and env var expansion.
func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/audio"); got != filepath.Join(home, "audio") {
		t.Errorf("Expected home expansion, got %q", got)
	}

	t.Setenv("SAYLINE_TEST_DIR", "/tmp/sayline")
	if got := ExpandPath("$SAYLINE_TEST_DIR/out.wav"); got != "/tmp/sayline/out.wav" {
		t.Errorf("Expected env expansion, got %q", got)
	}

	if got := ExpandPath("/plain/path"); got != "/plain/path" {
		t.Errorf("Plain paths must pass through, got %q", got)
	}
}

// TestIsWAVPath checks the output extension gate.
func TestIsWAVPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"out.wav", true},
		{"OUT.WAV", true},
		{"nested/dir/speech.wav", true},
		{"out.mp3", false},
		{"out", false},
		{"wav", false},
	}
	for _, tt := range tests {
		if got := IsWAVPath(tt.path); got != tt.want {
			t.Errorf("IsWAVPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
