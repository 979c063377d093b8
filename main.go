package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"andary/config"
	"andary/credential"
	"andary/gemini"
	"andary/i18n"
	"andary/lecture"
	"andary/logger"
	"andary/tui"
)

// Build info - set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C5CFF")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8A8A8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)

	andaryLogo = `
    ╭─────────────────────────────────────╮
    │  🎓 Andary - AI University Tutor    │
    ╰─────────────────────────────────────╯`
)

// app bundles what every subcommand needs
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *credential.Store
	client *gemini.Client
}

func main() {
	os.Exit(run())
}

func run() int {
	// Parse flags
	versionFlag := flag.Bool("version", false, "Print version information")
	shortVersionFlag := flag.Bool("v", false, "Print version information (short)")
	langFlag := flag.String("lang", "", "UI language: ar or en")
	debugFlag := flag.Bool("debug", false, "Write debug logs to the log file")
	flag.Usage = printHelp
	flag.Parse()

	if *versionFlag || *shortVersionFlag {
		fmt.Print(versionInfo())
		return 0
	}

	// Load .env file if it exists (won't error if missing)
	_ = godotenv.Load()

	args := flag.Args()
	command := ""
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	// commands that never talk to Gemini
	switch command {
	case "help":
		printHelp()
		return 0
	case "update":
		return runUpdate(args)
	case "setup":
		return runSetup(args)
	}

	cfg := config.Load()
	if *langFlag != "" {
		cfg.Language = i18n.Parse(*langFlag)
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	a, err := newApp(cfg)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}
	defer a.log.Sync()

	switch command {
	case "":
		return a.runInteractive()
	case "ask":
		return a.runAsk(args)
	case "explain":
		return a.runExplain(args)
	case "lecture":
		return a.runLecture(args)
	default:
		fmt.Println(errorStyle.Render("Unknown command: " + command))
		printHelp()
		return 2
	}
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(logger.Options{Debug: cfg.Debug, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	store := credential.FromEnv()

	opts := []gemini.ClientOption{
		gemini.WithModels(gemini.Models{
			Chat:    cfg.ChatModel,
			Lecture: cfg.LectureModel,
			Video:   cfg.VideoModel,
		}),
		gemini.WithLogger(log),
		gemini.WithDebug(cfg.Debug),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.BaseURL))
	}

	client, err := gemini.NewClient(store, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Info("starting", "version", version, "lang", string(cfg.Language), "debug", cfg.Debug)
	return &app{cfg: cfg, log: log, store: store, client: client}, nil
}

// lectureOptions applies the configured polling limits
func (a *app) lectureOptions() []lecture.Option {
	return []lecture.Option{
		lecture.WithPollInterval(a.cfg.PollInterval),
		lecture.WithMaxPolls(a.cfg.MaxPolls),
	}
}

// runInteractive starts the full-screen UI
func (a *app) runInteractive() int {
	err := tui.Run(tui.AppConfig{
		Tutor:          a.client,
		Store:          a.store,
		Models:         a.client.Models(),
		Language:       a.cfg.Language,
		OutputDir:      a.cfg.OutputDir,
		Logger:         a.log,
		LectureOptions: a.lectureOptions(),
	})
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}
	fmt.Println(subtitleStyle.Render("🎓 " + i18n.For(a.cfg.Language).AppName))
	return 0
}

func versionInfo() string {
	return fmt.Sprintf("andary %s\n  commit: %s\n  built:  %s\n  go:     %s\n  os/arch: %s/%s\n",
		version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func printHelp() {
	help := titleStyle.Render(andaryLogo) + `

USAGE:
    andary [FLAGS]                      Start the interactive tutor
    andary [FLAGS] <command> [ARGS]

COMMANDS:
    ask <question>                      Ask the tutor a question
    explain <file> [prompt]             Explain an image or PDF
    lecture [OPTIONS] <files...>        Generate a video lecture from up to 3 files
    setup                               Write a .env file with your API key
    update                              Update andary to the latest release
    help                                Show this help

FLAGS:
    -lang <ar|en>                       UI and answer language (default: ar)
    -debug                              Write debug logs to andary.log
    -v, -version                        Print version information

ENVIRONMENT:
    GEMINI_API_KEY                      Your Google Gemini API key
    GOOGLE_API_KEY                      Alternative API key variable
    ANDARY_LANG                         Default language
    ANDARY_CHAT_MODEL                   Model for chat and file analysis
    ANDARY_LECTURE_MODEL                Model for lecture scripts
    ANDARY_VIDEO_MODEL                  Model for lecture videos
    ANDARY_POLL_INTERVAL                Delay between video status checks (default: 5s)
    ANDARY_MAX_POLLS                    Give up after this many checks (default: unlimited)
    ANDARY_OUTPUT_DIR                   Where lectures are saved (default: ./lectures)
    ANDARY_LOG_FILE                     Debug log destination

Run 'andary lecture --help' for lecture options.
`
	fmt.Println(help)
}
