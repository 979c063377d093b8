package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"andary/i18n"
	"andary/lecture"
)

func TestGenerateDotEnv(t *testing.T) {
	result := generateDotEnv(SetupOptions{
		APIKey:    "AIza-test-key",
		Language:  i18n.English,
		OutputDir: "./lectures",
	})

	expected := []string{
		"# Andary configuration",
		"GEMINI_API_KEY=AIza-test-key",
		"ANDARY_LANG=en",
		"ANDARY_OUTPUT_DIR=./lectures",
	}
	for _, want := range expected {
		if !strings.Contains(result, want) {
			t.Errorf("expected %q in output:\n%s", want, result)
		}
	}
}

func TestGenerateDotEnv_OmitsEmptyValues(t *testing.T) {
	result := generateDotEnv(SetupOptions{Language: i18n.Arabic})

	if strings.Contains(result, "GEMINI_API_KEY") {
		t.Error("should not contain GEMINI_API_KEY when empty")
	}
	if strings.Contains(result, "ANDARY_OUTPUT_DIR") {
		t.Error("should not contain ANDARY_OUTPUT_DIR when empty")
	}
	if !strings.Contains(result, "ANDARY_LANG=ar") {
		t.Error("expected ANDARY_LANG=ar")
	}
}

func TestGenerateDotEnv_ValidFormat(t *testing.T) {
	result := generateDotEnv(SetupOptions{
		APIKey:    "key-123",
		Language:  i18n.Arabic,
		OutputDir: "/tmp/my lectures",
	})

	for _, line := range strings.Split(strings.TrimSpace(result), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.Contains(line, "=") {
			t.Errorf("invalid .env line: %q", line)
		}
		if strings.HasPrefix(line, "export ") {
			t.Errorf(".env lines should not use export: %q", line)
		}
	}
}

func TestWriteDotEnv_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ".env")

	content := generateDotEnv(SetupOptions{
		APIKey:    "AIza-round-trip",
		Language:  i18n.English,
		OutputDir: "/tmp/my lectures",
	})
	if err := writeDotEnv(path, content); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if env["GEMINI_API_KEY"] != "AIza-round-trip" {
		t.Errorf("GEMINI_API_KEY = %q", env["GEMINI_API_KEY"])
	}
	if env["ANDARY_LANG"] != "en" {
		t.Errorf("ANDARY_LANG = %q", env["ANDARY_LANG"])
	}
	if env["ANDARY_OUTPUT_DIR"] != "/tmp/my lectures" {
		t.Errorf("ANDARY_OUTPUT_DIR = %q", env["ANDARY_OUTPUT_DIR"])
	}
}

func TestWriteDotEnv_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not enforced on Windows")
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := writeDotEnv(path, "GEMINI_API_KEY=secret\n"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 600", perm)
	}
}

func TestQuoteEnvValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./lectures", "./lectures"},
		{"/tmp/my lectures", `"/tmp/my lectures"`},
		{"dir#1", `"dir#1"`},
		{`say "hi"`, `"say \"hi\""`},
	}

	for _, tt := range tests {
		if got := quoteEnvValue(tt.in); got != tt.want {
			t.Errorf("quoteEnvValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortenPath(t *testing.T) {
	homeDir := "/home/testuser"

	tests := []struct {
		path     string
		expected string
	}{
		{"/home/testuser/.env", "~/.env"},
		{"/home/testuser/Documents/file.txt", "~/Documents/file.txt"},
		{"/other/path/file.txt", "/other/path/file.txt"},
		{"/home/testuser", "~"},
		{"/home/testuser2/file", "/home/testuser2/file"},
	}

	for _, tt := range tests {
		result := shortenPath(filepath.FromSlash(tt.path), filepath.FromSlash(homeDir))
		if result != filepath.FromSlash(tt.expected) {
			t.Errorf("shortenPath(%q, %q) = %q, want %q", tt.path, homeDir, result, tt.expected)
		}
	}

	if got := shortenPath("/a/b", ""); got != "/a/b" {
		t.Errorf("empty home should leave the path alone, got %q", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !fileExists(path) {
		t.Error("fileExists should return true for existing file")
	}
	if fileExists(dir) {
		t.Error("fileExists should return false for a directory")
	}

	os.Remove(path)
	if fileExists(path) {
		t.Error("fileExists should return false for removed file")
	}
}

func TestParseLectureArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantOutput  string
		wantSources []string
		overwrite   bool
		noFront     bool
		help        bool
	}{
		{
			name:        "sources only",
			args:        []string{"a.png", "b.pdf"},
			wantSources: []string{"a.png", "b.pdf"},
		},
		{
			name:        "short output flag",
			args:        []string{"-o", "./out", "slides/"},
			wantOutput:  "./out",
			wantSources: []string{"slides/"},
		},
		{
			name:        "long flags",
			args:        []string{"--output", "out", "--overwrite", "--no-frontmatter", "x.jpg"},
			wantOutput:  "out",
			wantSources: []string{"x.jpg"},
			overwrite:   true,
			noFront:     true,
		},
		{
			name: "help",
			args: []string{"--help"},
			help: true,
		},
		{
			name:        "unknown flags ignored",
			args:        []string{"--verbose", "page1.png"},
			wantSources: []string{"page1.png"},
		},
		{
			name: "trailing output flag without value",
			args: []string{"-o"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, sources := parseLectureArgs(tt.args)
			if opts.OutputDir != tt.wantOutput {
				t.Errorf("OutputDir = %q, want %q", opts.OutputDir, tt.wantOutput)
			}
			if opts.Overwrite != tt.overwrite {
				t.Errorf("Overwrite = %v, want %v", opts.Overwrite, tt.overwrite)
			}
			if opts.NoFrontMatter != tt.noFront {
				t.Errorf("NoFrontMatter = %v, want %v", opts.NoFrontMatter, tt.noFront)
			}
			if opts.Help != tt.help {
				t.Errorf("Help = %v, want %v", opts.Help, tt.help)
			}
			if strings.Join(sources, ",") != strings.Join(tt.wantSources, ",") {
				t.Errorf("sources = %v, want %v", sources, tt.wantSources)
			}
		})
	}
}

func TestHasHelpFlag(t *testing.T) {
	if !hasHelpFlag([]string{"what", "-h"}) {
		t.Error("expected -h to be detected")
	}
	if !hasHelpFlag([]string{"--help"}) {
		t.Error("expected --help to be detected")
	}
	if hasHelpFlag([]string{"help me with calculus"}) {
		t.Error("a question mentioning help is not a flag")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m 30s"},
		{5*time.Minute + 2*time.Second, "5m 2s"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	if got := displayPath(""); got != "-" {
		t.Errorf("displayPath(\"\") = %q, want -", got)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	inside := filepath.Join(wd, "lectures", "video.mp4")
	if got := displayPath(inside); got != filepath.Join("lectures", "video.mp4") {
		t.Errorf("displayPath(%q) = %q", inside, got)
	}

	outside := filepath.Join(filepath.Dir(wd), "elsewhere.mp4")
	if got := displayPath(outside); got != outside {
		t.Errorf("paths outside the working directory should stay absolute, got %q", got)
	}
}

func TestVersionInfo(t *testing.T) {
	out := versionInfo()
	for _, want := range []string{"andary " + version, "commit: " + commit, runtime.Version(), runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintLectureEvent(t *testing.T) {
	events := []lecture.Event{
		{Kind: lecture.EventStateChanged, State: lecture.Processing{}},
		{Kind: lecture.EventStateChanged, State: lecture.Generating{Job: "operations/1"}},
		{Kind: lecture.EventPoll, Attempt: 1},
		{Kind: lecture.EventPoll, Attempt: 2, Done: true},
		{Kind: lecture.EventStateChanged, State: lecture.Completed{Media: []byte("mp4")}},
		{Kind: lecture.EventStateChanged, State: lecture.Failed{Message: "boom"}},
	}
	for _, e := range events {
		printLectureEvent(e)
	}
}
