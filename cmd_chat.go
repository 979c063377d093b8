package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"andary/asset"
	"andary/chat"
	"andary/credential"
	"andary/gemini"
	"andary/i18n"
)

const chatTimeout = 5 * time.Minute

// ensureKey prompts for an API key on the terminal when none is configured
func (a *app) ensureKey(ctx context.Context) bool {
	a.store.SetSelectHandler(credential.PromptHandler(a.store, i18n.For(a.cfg.Language).SelectKey))
	if a.store.HasSelectedKey() {
		return true
	}
	if err := a.store.OpenSelectKey(ctx); err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		fmt.Println(infoStyle.Render(gemini.GetAPIKeyHelp()))
		return false
	}
	return true
}

// runAsk answers a single question. With no arguments the question is read
// from a form.
func (a *app) runAsk(args []string) int {
	if hasHelpFlag(args) {
		printAskHelp()
		return 0
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		tr := i18n.For(a.cfg.Language)
		input := huh.NewText().
			Title("🎓 " + tr.AskAnything).
			Placeholder(tr.Placeholder).
			CharLimit(4000).
			Value(&question)

		err := huh.NewForm(huh.NewGroup(input)).
			WithTheme(huh.ThemeCatppuccin()).
			Run()
		if err != nil {
			if err == huh.ErrUserAborted {
				return 0
			}
			fmt.Println(errorStyle.Render("Error: " + err.Error()))
			return 1
		}
	}

	conv := chat.New(a.client, chat.ModeChat, a.cfg.Language, chat.WithLogger(a.log))
	return a.sendAndPrint(conv, question)
}

// runExplain explains one image or PDF
func (a *app) runExplain(args []string) int {
	if hasHelpFlag(args) || len(args) == 0 {
		printExplainHelp()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	file, err := asset.Load(args[0])
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("📄 %s (%s, %s)", file.Name, file.MIMEType, asset.FormatSize(file.Size))))

	conv := chat.New(a.client, chat.ModeFiles, a.cfg.Language, chat.WithLogger(a.log))
	conv.Attach(file)
	return a.sendAndPrint(conv, strings.Join(args[1:], " "))
}

func (a *app) sendAndPrint(conv *chat.Conversation, text string) int {
	ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
	defer cancel()

	if !a.ensureKey(ctx) {
		return 1
	}

	tr := i18n.For(a.cfg.Language)
	var reply chat.Message
	var sendErr error

	err := spinner.New().
		Title(fmt.Sprintf("🎓 %s...", tr.TeacherName)).
		Action(func() {
			reply, sendErr = conv.Send(ctx, text)
		}).
		Run()

	if sendErr != nil {
		fmt.Println(errorStyle.Render("Error: " + sendErr.Error()))
		return 1
	}
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 1
	}

	if reply.Failed {
		fmt.Println(errorStyle.Render(reply.Content))
		fmt.Println(infoStyle.Render("Run with -debug and check the log file for details."))
		return 1
	}

	fmt.Println(subtitleStyle.Render(tr.TeacherName))
	fmt.Println(reply.Content)
	return 0
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func printAskHelp() {
	fmt.Println(`
USAGE:
    andary ask <question>

    With no question, an input form is shown.

EXAMPLES:
    andary ask "Why is the sky blue?"
    andary -lang en ask What is a Fourier transform`)
}

func printExplainHelp() {
	fmt.Println(`
USAGE:
    andary explain <file> [prompt]

ARGUMENTS:
    <file>      An image (png, jpg, webp, gif) or a PDF, up to 20 MB
    [prompt]    What to explain (default: "Explain this in detail.")

EXAMPLES:
    andary explain ./notes/lecture3.pdf
    andary explain diagram.png "What does the third arrow mean?"`)
}
