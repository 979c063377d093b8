// Package config reads Andary's settings from the environment.
// Call godotenv.Load before Load so values from a .env file are visible.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"andary/gemini"
	"andary/i18n"
)

const (
	DefaultChatModel    = gemini.DefaultChatModel
	DefaultLectureModel = gemini.DefaultLectureModel
	DefaultVideoModel   = gemini.DefaultVideoModel

	DefaultPollInterval = 5 * time.Second
	DefaultOutputDir    = "./lectures"
	DefaultLogFile      = "andary.log"
)

type Config struct {
	Language i18n.Language

	ChatModel    string
	LectureModel string
	VideoModel   string

	// BaseURL overrides the Gemini API endpoint (proxies, tests)
	BaseURL string

	PollInterval time.Duration
	// MaxPolls bounds the status checks of one video job. 0 means unbounded.
	MaxPolls int

	OutputDir string

	Debug   bool
	LogFile string

	// values that were set but could not be parsed
	parseErrs []error
}

// Load builds a Config from environment variables, applying defaults
func Load() *Config {
	var errs []error
	cfg := &Config{
		Language:     i18n.Parse(getEnv("ANDARY_LANG", string(i18n.DefaultLanguage))),
		ChatModel:    getEnv("ANDARY_CHAT_MODEL", DefaultChatModel),
		LectureModel: getEnv("ANDARY_LECTURE_MODEL", DefaultLectureModel),
		VideoModel:   getEnv("ANDARY_VIDEO_MODEL", DefaultVideoModel),
		BaseURL:      getEnv("ANDARY_BASE_URL", ""),
		PollInterval: durationEnv(&errs, "ANDARY_POLL_INTERVAL", DefaultPollInterval),
		MaxPolls:     intEnv(&errs, "ANDARY_MAX_POLLS", 0),
		OutputDir:    getEnv("ANDARY_OUTPUT_DIR", DefaultOutputDir),
		Debug:        getBoolEnv("ANDARY_DEBUG", false),
		LogFile:      getEnv("ANDARY_LOG_FILE", DefaultLogFile),
	}
	cfg.parseErrs = errs
	return cfg
}

// Validate reports settings that cannot work
func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return c.parseErrs[0]
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("ANDARY_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.MaxPolls < 0 {
		return fmt.Errorf("ANDARY_MAX_POLLS must not be negative, got %d", c.MaxPolls)
	}
	if c.ChatModel == "" || c.LectureModel == "" || c.VideoModel == "" {
		return fmt.Errorf("model names must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("ANDARY_OUTPUT_DIR must not be empty")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func intEnv(errs *[]error, key string, def int) int {
	v, err := getIntEnv(key, def)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v
}

func durationEnv(errs *[]error, key string, def time.Duration) time.Duration {
	v, err := getDurationEnv(key, def)
	if err != nil {
		*errs = append(*errs, err)
	}
	return v
}

func getIntEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return i, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	// bare numbers are seconds
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return def, fmt.Errorf("%s: invalid duration %q", key, v)
}
