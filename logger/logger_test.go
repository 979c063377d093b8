package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no key", "https://example.com/video.mp4", "https://example.com/video.mp4"},
		{"only param", "https://example.com/v?key=abc123", "https://example.com/v?key=***"},
		{"middle param", "https://example.com/v?alt=media&key=abc123&x=1", "https://example.com/v?alt=media&key=***&x=1"},
		{"not a param", "monkey=banana", "monkey=banana"},
		{"after a lookalike", "https://example.com/v?monkey=1&key=SECRET123", "https://example.com/v?monkey=1&key=***"},
		{"two keys", "?key=a&alt=media&key=b", "?key=***&alt=media&key=***"},
		{"quoted", `url="https://x/v?key=abc" ok`, `url="https://x/v?key=***" ok`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactURL(tt.input); got != tt.want {
				t.Errorf("RedactURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "secret-value", "model", "veo", "dangling"})
	if len(out) != 5 {
		t.Fatalf("sanitizeKVs() returned %d items, want 5", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Errorf("api_key value = %v, want [REDACTED]", out[1])
	}
	if out[3] != "veo" {
		t.Errorf("model value = %v, want veo", out[3])
	}
	if out[4] != "dangling" {
		t.Errorf("dangling key = %v, want dangling", out[4])
	}
}

func TestNewWithoutDebugIsNop(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	// must not panic
	l.Debug("ignored", "k", "v")
	l.Sync()
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "andary.log")

	l, err := New(Options{Debug: true, File: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	l.Info("chat request", "model", "gemini-3-flash-preview", "api_key", "top-secret")
	l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "chat request") {
		t.Errorf("log does not contain message: %s", content)
	}
	if strings.Contains(content, "top-secret") {
		t.Errorf("log leaked the api key: %s", content)
	}
}
