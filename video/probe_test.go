package video

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestParseProbeOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		duration time.Duration
		res      string
		codec    string
		wantErr  bool
	}{
		{
			name: "veo output",
			input: `{"streams": [{"codec_type": "audio", "codec_name": "aac"},
				{"codec_type": "video", "codec_name": "h264", "width": 1280, "height": 720}],
				"format": {"duration": "8.000000", "size": "4194304"}}`,
			duration: 8 * time.Second,
			res:      "1280x720",
			codec:    "h264",
		},
		{
			name:     "no streams",
			input:    `{"format": {"duration": "1.5"}}`,
			duration: 1500 * time.Millisecond,
		},
		{
			name:    "bad duration",
			input:   `{"format": {"duration": "abc"}}`,
			wantErr: true,
		},
		{
			name:    "not json",
			input:   `N/A`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseProbeOutput([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProbeOutput() failed: %v", err)
			}
			if info.Duration != tt.duration {
				t.Errorf("Duration = %v, want %v", info.Duration, tt.duration)
			}
			if info.Resolution() != tt.res {
				t.Errorf("Resolution() = %q, want %q", info.Resolution(), tt.res)
			}
			if info.Codec != tt.codec {
				t.Errorf("Codec = %q, want %q", info.Codec, tt.codec)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{8 * time.Second, "00:08"},
		{3*time.Minute + 30*time.Second, "03:30"},
		{1*time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIsVideoFile(t *testing.T) {
	tests := map[string]bool{
		"lecture.mp4": true,
		"LECTURE.MOV": true,
		"notes.pdf":   false,
		"noext":       false,
	}
	for path, want := range tests {
		if got := IsVideoFile(path); got != want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestGetVideoInfoMissingFile(t *testing.T) {
	_, err := GetVideoInfo(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Error("GetVideoInfo() should fail for a missing file")
	}
}
