package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"andary/chat"
	"andary/credential"
	"andary/gemini"
	"andary/i18n"
	"andary/lecture"
	"andary/logger"
)

const sidebarWidth = 24

// Tutor is everything the UI needs from the Gemini adapter
type Tutor interface {
	chat.Tutor
	lecture.Generator
}

// AppConfig wires the UI to the rest of the program
type AppConfig struct {
	Tutor     Tutor
	Store     *credential.Store
	Models    gemini.Models
	Language  i18n.Language
	OutputDir string
	Logger    *logger.Logger

	// LectureOptions are passed to the lecture workflow
	LectureOptions []lecture.Option
}

// App is the root Bubble Tea model: a sidebar of screens plus a header
type App struct {
	screen screen
	lang   i18n.Language

	ask      ChatModel
	explain  ChatModel
	lecture  LectureModel
	settings SettingsModel

	keys *KeyPrompt
	log  *logger.Logger

	width    int
	height   int
	quitting bool

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the application model. The store's select handler is routed
// to the settings screen.
func NewApp(cfg AppConfig) App {
	ctx, cancel := context.WithCancel(context.Background())

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	keys := NewKeyPrompt(nil)
	cfg.Store.SetSelectHandler(keys.Open)

	convOpts := []chat.Option{chat.WithLogger(log)}
	lectureOpts := append([]lecture.Option{lecture.WithLogger(log)}, cfg.LectureOptions...)

	m := App{
		screen:   screenAsk,
		lang:     cfg.Language,
		ask:      NewChatModel(ctx, screenAsk, chat.New(cfg.Tutor, chat.ModeChat, cfg.Language, convOpts...), cfg.Language),
		explain:  NewChatModel(ctx, screenExplain, chat.New(cfg.Tutor, chat.ModeFiles, cfg.Language, convOpts...), cfg.Language),
		settings: NewSettingsModel(cfg.Store, cfg.Models, cfg.Language),
		keys:     keys,
		log:      log,
		width:    100,
		height:   30,
		ctx:      ctx,
		cancel:   cancel,
	}
	m.lecture = NewLectureModel(ctx, cfg.Tutor, cfg.Store, LectureConfig{
		OutputDir:    cfg.OutputDir,
		LectureModel: cfg.Models.Lecture,
		VideoModel:   cfg.Models.Video,
		Language:     cfg.Language,
	}, lectureOpts...)
	m.resize()
	return m
}

// Init initializes the model
func (m App) Init() tea.Cmd {
	return tea.Batch(
		m.ask.Init(),
		m.lecture.Init(),
	)
}

// Update handles messages
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.cancel()
			m.keys.resolve(context.Canceled)
			return m, tea.Quit
		case "ctrl+l":
			m.setLanguage(m.lang.Toggle())
			return m, nil
		case "tab":
			if !m.capturing() {
				return m.switchTo((m.screen + 1) % screenCount)
			}
		case "shift+tab":
			if !m.capturing() {
				return m.switchTo((m.screen + screenCount - 1) % screenCount)
			}
		}
		return m.updateActive(msg)

	case keyRequestMsg:
		m.log.Info("key selection requested")
		m.screen = screenSettings
		return m, m.settings.RequestKey()

	case keySelectedMsg:
		m.keys.resolve(nil)
		return m, nil

	case keyDismissedMsg:
		m.keys.resolve(errKeyDismissed)
		return m, nil

	case chatReplyMsg:
		var cmd tea.Cmd
		if msg.target == screenExplain {
			m.explain, cmd = m.explain.Update(msg)
		} else {
			m.ask, cmd = m.ask.Update(msg)
		}
		return m, cmd

	case assetLoadedMsg:
		var cmd tea.Cmd
		switch msg.target {
		case screenAsk:
			m.ask, cmd = m.ask.Update(msg)
		case screenExplain:
			m.explain, cmd = m.explain.Update(msg)
		case screenLecture:
			m.lecture, cmd = m.lecture.Update(msg)
		}
		return m, cmd

	case lectureEventMsg, lectureDoneMsg, lectureSavedMsg:
		var cmd tea.Cmd
		m.lecture, cmd = m.lecture.Update(msg)
		return m, cmd
	}

	return m.broadcast(msg)
}

// updateActive forwards a key to the visible screen
func (m App) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenAsk:
		m.ask, cmd = m.ask.Update(msg)
	case screenExplain:
		m.explain, cmd = m.explain.Update(msg)
	case screenLecture:
		m.lecture, cmd = m.lecture.Update(msg)
	case screenSettings:
		m.settings, cmd = m.settings.Update(msg)
	}
	return m, cmd
}

// broadcast forwards a message to every screen. Components ignore messages
// addressed to other instances.
func (m App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [4]tea.Cmd
	m.ask, cmds[0] = m.ask.Update(msg)
	m.explain, cmds[1] = m.explain.Update(msg)
	m.lecture, cmds[2] = m.lecture.Update(msg)
	m.settings, cmds[3] = m.settings.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m App) switchTo(s screen) (tea.Model, tea.Cmd) {
	m.screen = s
	switch s {
	case screenAsk:
		return m, m.ask.input.Focus()
	case screenExplain:
		return m, m.explain.input.Focus()
	}
	return m, nil
}

// capturing reports whether the active screen wants tab for itself
func (m App) capturing() bool {
	switch m.screen {
	case screenAsk:
		return m.ask.Picking()
	case screenExplain:
		return m.explain.Picking()
	case screenLecture:
		return m.lecture.Picking()
	case screenSettings:
		return m.settings.Editing()
	}
	return false
}

func (m *App) setLanguage(lang i18n.Language) {
	m.lang = lang
	m.ask.SetLanguage(lang)
	m.explain.SetLanguage(lang)
	m.lecture.SetLanguage(lang)
	m.settings.SetLanguage(lang)
	m.log.Debug("language changed", "lang", string(lang))
}

func (m *App) resize() {
	w := max(m.width-sidebarWidth-4, 20)
	h := max(m.height-6, 8)
	m.ask.SetSize(w, h)
	m.explain.SetSize(w, h)
	m.lecture.SetSize(w, h)
	m.settings.SetSize(w, h)
}

// View renders the UI
func (m App) View() string {
	if m.quitting {
		return MutedStyle.Render("Goodbye!\n")
	}

	var content string
	switch m.screen {
	case screenAsk:
		content = m.ask.View()
	case screenExplain:
		content = m.explain.View()
	case screenLecture:
		content = m.lecture.View()
	case screenSettings:
		content = m.settings.View()
	}

	contentStyle := lipgloss.NewStyle().
		Width(max(m.width-sidebarWidth-4, 20)).
		Padding(0, 1)

	var body string
	if m.lang.IsRTL() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, contentStyle.Render(content), m.renderSidebar())
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), contentStyle.Render(content))
	}

	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m App) renderHeader() string {
	tr := i18n.For(m.lang)
	title := lipgloss.NewStyle().Bold(true).Foreground(ColorBrand).Render(tr.AppName)
	online := BadgeSuccessStyle.Render(tr.Online)
	toggle := MutedStyle.Render("ctrl+l ") + InfoStyle.Render(tr.ToggleLanguage)

	left := title + "  " + online
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(toggle)-2, 1)
	if m.lang.IsRTL() {
		return toggle + strings.Repeat(" ", gap) + online + "  " + title
	}
	return left + strings.Repeat(" ", gap) + toggle
}

func (m App) renderSidebar() string {
	tr := i18n.For(m.lang)
	items := []struct {
		s     screen
		label string
	}{
		{screenAsk, tr.AskAnything},
		{screenExplain, tr.ExplainFiles},
		{screenLecture, tr.VideoLecture},
		{screenSettings, tr.Settings},
	}

	itemWidth := sidebarWidth - 4
	lines := make([]string, 0, len(items)+2)
	for _, it := range items {
		style := SidebarItemStyle
		if it.s == m.screen {
			style = SidebarActiveStyle
		}
		lines = append(lines, align(m.lang.IsRTL(), itemWidth, style.Render(it.label)))
	}

	st := m.lecture.Workflow().State()
	if st.Status() != lecture.StatusIdle {
		lines = append(lines, "", align(m.lang.IsRTL(), itemWidth, MutedStyle.Render(fmt.Sprintf("lecture: %s", st.Status()))))
	}

	return SidebarStyle.Height(max(m.height-6, 8)).Render(strings.Join(lines, "\n"))
}

func (m App) renderFooter() string {
	return KeyHelp("tab", "Next screen", "ctrl+l", "Language", "ctrl+c", "Quit")
}

// Run starts the full-screen program and blocks until it exits
func Run(cfg AppConfig) error {
	app := NewApp(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	app.keys.SetSender(p.Send)

	_, err := p.Run()
	app.cancel()
	return err
}
