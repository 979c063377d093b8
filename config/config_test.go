package config

import (
	"strings"
	"testing"
	"time"

	"andary/gemini"
	"andary/i18n"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"ANDARY_LANG", "ANDARY_CHAT_MODEL", "ANDARY_LECTURE_MODEL", "ANDARY_VIDEO_MODEL",
		"ANDARY_BASE_URL", "ANDARY_POLL_INTERVAL", "ANDARY_MAX_POLLS", "ANDARY_OUTPUT_DIR",
		"ANDARY_DEBUG", "ANDARY_LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Language != i18n.Arabic {
		t.Errorf("Language = %v, want ar", cfg.Language)
	}
	if cfg.ChatModel != DefaultChatModel {
		t.Errorf("ChatModel = %v, want %v", cfg.ChatModel, DefaultChatModel)
	}
	if cfg.LectureModel != DefaultLectureModel {
		t.Errorf("LectureModel = %v, want %v", cfg.LectureModel, DefaultLectureModel)
	}
	if cfg.VideoModel != DefaultVideoModel {
		t.Errorf("VideoModel = %v, want %v", cfg.VideoModel, DefaultVideoModel)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.MaxPolls != 0 {
		t.Errorf("MaxPolls = %d, want 0", cfg.MaxPolls)
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults failed: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANDARY_LANG", "en")
	t.Setenv("ANDARY_POLL_INTERVAL", "250ms")
	t.Setenv("ANDARY_MAX_POLLS", "12")
	t.Setenv("ANDARY_DEBUG", "true")
	t.Setenv("ANDARY_OUTPUT_DIR", "/tmp/out")

	cfg := Load()

	if cfg.Language != i18n.English {
		t.Errorf("Language = %v, want en", cfg.Language)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v, want 250ms", cfg.PollInterval)
	}
	if cfg.MaxPolls != 12 {
		t.Errorf("MaxPolls = %d, want 12", cfg.MaxPolls)
	}
	if !cfg.Debug {
		t.Error("Debug should be true")
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %v, want /tmp/out", cfg.OutputDir)
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{"", DefaultPollInterval, false},
		{"10s", 10 * time.Second, false},
		{"3", 3 * time.Second, false},
		{"garbage", DefaultPollInterval, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ANDARY_TEST_DURATION", tt.value)
			got, err := getDurationEnv("ANDARY_TEST_DURATION", DefaultPollInterval)
			if got != tt.want {
				t.Errorf("getDurationEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("getDurationEnv(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsUnparsableNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"poll interval", "ANDARY_POLL_INTERVAL", "soon"},
		{"max polls", "ANDARY_MAX_POLLS", "ten"},
		{"fractional polls", "ANDARY_MAX_POLLS", "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ANDARY_POLL_INTERVAL", "")
			t.Setenv("ANDARY_MAX_POLLS", "")
			t.Setenv("ANDARY_OUTPUT_DIR", "")
			t.Setenv(tt.key, tt.value)

			err := Load().Validate()
			if err == nil {
				t.Fatalf("Validate() accepted %s=%q", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestDefaultModelsMatchClient(t *testing.T) {
	want := gemini.DefaultModels()
	if DefaultChatModel != want.Chat || DefaultLectureModel != want.Lecture || DefaultVideoModel != want.Video {
		t.Errorf("defaults = %s/%s/%s, client defaults = %+v",
			DefaultChatModel, DefaultLectureModel, DefaultVideoModel, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero interval", func(c *Config) { c.PollInterval = 0 }, true},
		{"negative polls", func(c *Config) { c.MaxPolls = -1 }, true},
		{"empty model", func(c *Config) { c.VideoModel = "" }, true},
		{"empty output", func(c *Config) { c.OutputDir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ChatModel:    DefaultChatModel,
				LectureModel: DefaultLectureModel,
				VideoModel:   DefaultVideoModel,
				PollInterval: DefaultPollInterval,
				OutputDir:    DefaultOutputDir,
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
