package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"andary/config"
	"andary/credential"
	"andary/i18n"
)

// SetupOptions are the values written by the setup command
type SetupOptions struct {
	APIKey    string
	Language  i18n.Language
	OutputDir string
}

// runSetup asks for the API key and preferences and writes them to .env
func runSetup(args []string) int {
	path := ".env"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-f", "--file":
			if i+1 < len(args) {
				path = args[i+1]
				i++
			}
		case "-h", "--help":
			fmt.Println("\nUSAGE:\n    andary setup [-f <path>]\n\nWrites GEMINI_API_KEY, ANDARY_LANG and ANDARY_OUTPUT_DIR to a .env file (default: ./.env)")
			return 0
		}
	}

	opts := SetupOptions{
		APIKey:    credential.EnvKey(),
		Language:  i18n.Parse(os.Getenv("ANDARY_LANG")),
		OutputDir: config.DefaultOutputDir,
	}
	lang := string(opts.Language)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Get one at https://aistudio.google.com/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&opts.APIKey).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return fmt.Errorf("API key is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("العربية", string(i18n.Arabic)),
					huh.NewOption("English", string(i18n.English)),
				).
				Value(&lang),
			huh.NewInput().
				Title("Lecture output directory").
				Value(&opts.OutputDir),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return 0
		}
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}
	opts.Language = i18n.Parse(lang)

	if fileExists(path) {
		var overwrite bool
		confirm := huh.NewConfirm().
			Title(fmt.Sprintf("%s already exists. Replace it?", shortenPath(path, userHome()))).
			Affirmative("Replace").
			Negative("Keep").
			Value(&overwrite)
		if err := huh.NewForm(huh.NewGroup(confirm)).WithTheme(huh.ThemeCatppuccin()).Run(); err != nil || !overwrite {
			fmt.Println(infoStyle.Render("Setup cancelled."))
			return 0
		}
	}

	if err := writeDotEnv(path, generateDotEnv(opts)); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}
	fmt.Println(successStyle.Render("✅ Saved settings to " + shortenPath(path, userHome())))
	return 0
}

// generateDotEnv renders opts as .env lines
func generateDotEnv(opts SetupOptions) string {
	var b strings.Builder
	b.WriteString("# Andary configuration\n")
	if key := strings.TrimSpace(opts.APIKey); key != "" {
		fmt.Fprintf(&b, "GEMINI_API_KEY=%s\n", key)
	}
	if opts.Language != "" {
		fmt.Fprintf(&b, "ANDARY_LANG=%s\n", opts.Language)
	}
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		fmt.Fprintf(&b, "ANDARY_OUTPUT_DIR=%s\n", quoteEnvValue(dir))
	}
	return b.String()
}

// quoteEnvValue quotes values that godotenv would otherwise split
func quoteEnvValue(v string) string {
	if strings.ContainsAny(v, " #\"'") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}

// writeDotEnv writes content readable by the owner only
func writeDotEnv(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// shortenPath replaces homeDir with ~
func shortenPath(path, homeDir string) string {
	if homeDir == "" {
		return path
	}
	if path == homeDir {
		return "~"
	}
	if strings.HasPrefix(path, homeDir+string(filepath.Separator)) {
		return "~" + path[len(homeDir):]
	}
	return path
}

func userHome() string {
	home, _ := os.UserHomeDir()
	return home
}
