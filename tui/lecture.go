package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"andary/asset"
	"andary/credential"
	"andary/gemini"
	"andary/i18n"
	"andary/lecture"
	"andary/video"
)

// lectureEventMsg relays a workflow event to the UI
type lectureEventMsg lecture.Event

// lectureDoneMsg is sent when a run reaches Completed or Failed
type lectureDoneMsg struct {
	state lecture.State
}

// lectureSavedMsg is sent when the lecture has been written to disk
type lectureSavedMsg struct {
	result *gemini.WriteResult
	info   *video.Info
	err    error
}

// LectureConfig holds the settings the lecture screen shows and saves with
type LectureConfig struct {
	OutputDir    string
	LectureModel string
	VideoModel   string
	Language     i18n.Language
}

// LectureModel is the view over the asset-to-video workflow
type LectureModel struct {
	wf     *lecture.Workflow
	cfg    LectureConfig
	lang   i18n.Language
	events chan lecture.Event

	picker   filepicker.Model
	spinner  spinner.Model
	analysis viewport.Model
	feed     *ActivityFeed

	picking bool
	cursor  int
	notice  string

	saved     *gemini.WriteResult
	savedInfo *video.Info
	saving    bool

	startTime time.Time
	width     int
	height    int

	// Context for cancellation
	ctx    context.Context
	cancel context.CancelFunc
}

// NewLectureModel creates the lecture screen and its workflow. Extra options
// are passed to lecture.New.
func NewLectureModel(ctx context.Context, gen lecture.Generator, keys credential.Selector, cfg LectureConfig, opts ...lecture.Option) LectureModel {
	events := make(chan lecture.Event, 64)
	observer := func(e lecture.Event) {
		select {
		case events <- e:
		default:
		}
	}

	wfOpts := append([]lecture.Option{
		lecture.WithLanguage(cfg.Language),
		lecture.WithObserver(observer),
	}, opts...)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"[=   ]", "[==  ]", "[=== ]", "[ ===]", "[  ==]", "[   =]"},
		FPS:    time.Second / 8,
	}
	s.Style = lipgloss.NewStyle().Foreground(ColorBrand)

	return LectureModel{
		wf:       lecture.New(gen, keys, wfOpts...),
		cfg:      cfg,
		lang:     cfg.Language,
		events:   events,
		picker:   newAssetPicker(),
		spinner:  s,
		analysis: viewport.New(60, 10),
		feed:     NewActivityFeed(60, 6),
		width:    80,
		height:   20,
		ctx:      ctx,
	}
}

// Init starts listening for workflow events
func (m LectureModel) Init() tea.Cmd {
	return waitForLectureEvent(m.events)
}

// waitForLectureEvent waits for the next workflow event
func waitForLectureEvent(ch chan lecture.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return lectureEventMsg(e)
	}
}

// Update handles messages for the lecture screen
func (m LectureModel) Update(msg tea.Msg) (LectureModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)

	case lectureEventMsg:
		m.feed.AddEvent(lecture.Event(msg), m.cfg.VideoModel)
		return m, waitForLectureEvent(m.events)

	case lectureDoneMsg:
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		if c, ok := msg.state.(lecture.Completed); ok {
			m.analysis.SetContent(lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(c.Analysis))
			m.analysis.GotoTop()
		}
		return m, nil

	case lectureSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.saved = msg.result
		m.savedInfo = msg.info
		return m, nil

	case assetLoadedMsg:
		if msg.target != screenLecture {
			return m, nil
		}
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		if err := m.wf.AddAssets(msg.asset); err != nil {
			var verr *asset.ValidationError
			if errors.As(err, &verr) {
				m.notice = i18n.For(m.lang).MaxFilesHint
			} else {
				m.notice = err.Error()
			}
			return m, nil
		}
		m.notice = ""
		m.cursor = len(m.wf.Assets()) - 1
		return m, nil

	case spinner.TickMsg:
		if !m.running() && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// handleKey handles keyboard input for the current workflow state
func (m LectureModel) handleKey(msg tea.KeyMsg) (LectureModel, tea.Cmd) {
	switch m.wf.State().(type) {
	case lecture.Idle:
		switch msg.String() {
		case "ctrl+o", "a":
			m.picking = true
			return m, m.picker.Init()
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.wf.Assets())-1 {
				m.cursor++
			}
		case "ctrl+x", "x", "delete":
			assets := m.wf.Assets()
			if m.cursor < len(assets) {
				m.wf.RemoveAsset(assets[m.cursor].ID)
				if m.cursor > 0 && m.cursor >= len(assets)-1 {
					m.cursor--
				}
			}
		case "enter":
			return m.start()
		}

	case lecture.Processing, lecture.Generating:
		if msg.String() == "esc" && m.cancel != nil {
			m.cancel()
		}

	case lecture.Completed:
		switch msg.String() {
		case "s":
			if m.saved == nil && !m.saving {
				m.saving = true
				return m, tea.Batch(m.spinner.Tick, m.save())
			}
		case "n":
			if err := m.wf.Reset(); err == nil {
				m.resetView()
			}
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.analysis, cmd = m.analysis.Update(msg)
			return m, cmd
		}

	case lecture.Failed:
		if msg.String() == "r" || msg.String() == "enter" {
			if err := m.wf.Retry(); err == nil {
				m.notice = ""
			}
		}
	}
	return m, nil
}

func (m LectureModel) updatePicker(msg tea.KeyMsg) (LectureModel, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "ctrl+o" {
		m.picking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m, tea.Batch(cmd, loadAsset(screenLecture, path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = fmt.Sprintf("unsupported file type: %s", filepath.Base(path))
	}
	return m, cmd
}

// start moves the workflow to Processing and runs it in the background
func (m LectureModel) start() (LectureModel, tea.Cmd) {
	if err := m.wf.Start(); err != nil {
		if errors.Is(err, lecture.ErrNoAssets) {
			m.notice = i18n.For(m.lang).UploadAssets
		} else {
			m.notice = err.Error()
		}
		return m, nil
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.notice = ""
	m.startTime = time.Now()
	m.feed.Clear()
	m.feed.AddRequest(m.cfg.LectureModel, m.wf.Assets())

	wf := m.wf
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return lectureDoneMsg{state: wf.Run(ctx)}
		},
	)
}

// save writes the completed lecture and inspects the video if ffprobe is available
func (m LectureModel) save() tea.Cmd {
	done, ok := m.wf.State().(lecture.Completed)
	if !ok {
		return nil
	}

	var sources []string
	for _, a := range m.wf.Assets() {
		sources = append(sources, a.Name)
	}
	res := &gemini.LectureResult{
		VideoURI:  done.VideoURI,
		Analysis:  done.Analysis,
		Media:     done.Media,
		Sources:   sources,
		Language:  string(m.lang),
		CreatedAt: time.Now(),
	}
	opts := gemini.WriteOptions{
		OutputDir:      m.cfg.OutputDir,
		AddFrontMatter: true,
	}
	ctx := m.ctx

	return func() tea.Msg {
		wr, err := gemini.SaveLecture(res, opts)
		if err != nil {
			return lectureSavedMsg{err: err}
		}
		var info *video.Info
		if wr.VideoPath != "" && video.CheckFFprobe() == nil {
			info, _ = video.GetVideoInfo(ctx, wr.VideoPath)
		}
		return lectureSavedMsg{result: wr, info: info}
	}
}

func (m *LectureModel) resetView() {
	m.cursor = 0
	m.notice = ""
	m.saved = nil
	m.savedInfo = nil
	m.feed.Clear()
	m.analysis.SetContent("")
}

func (m LectureModel) running() bool {
	switch m.wf.State().(type) {
	case lecture.Processing, lecture.Generating:
		return true
	default:
		return false
	}
}

// SetLanguage switches the display language and the workflow's messages
func (m *LectureModel) SetLanguage(lang i18n.Language) {
	m.lang = lang
	m.wf.SetLanguage(lang)
}

// SetSize resizes the screen to the content area
func (m *LectureModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.analysis.Width = width
	m.analysis.Height = max(height-10, 3)
	m.feed.SetSize(max(width-4, 20), max(height/3, 4))
	m.picker.SetHeight(max(height-8, 3))
}

// View renders the lecture screen for the current state
func (m LectureModel) View() string {
	tr := i18n.For(m.lang)

	if m.picking {
		return TitleStyle.Render(tr.UploadAssets) + "\n" +
			MutedStyle.Render(tr.MaxFilesHint) + "\n\n" +
			m.picker.View() + "\n" +
			KeyHelp("enter", "Select", "h/l", "Up/Open", "esc", "Close")
	}

	var body, help string
	switch s := m.wf.State().(type) {
	case lecture.Idle:
		body = m.renderIdle(tr)
		help = KeyHelp("a", tr.UploadAssets, "j/k", "Navigate", "x", "Remove", "enter", tr.GenerateVideo)
	case lecture.Processing:
		body = m.renderRunning(tr.Processing, "")
		help = KeyHelp("esc", "Cancel")
	case lecture.Generating:
		body = m.renderRunning(tr.GeneratingVideo, fmt.Sprintf("%d status checks", s.Polls))
		help = KeyHelp("esc", "Cancel")
	case lecture.Completed:
		body = m.renderCompleted(tr, s)
		help = KeyHelp("s", tr.DownloadVideo, "n", tr.NewLecture, "pgup/pgdn", "Scroll")
	case lecture.Failed:
		body = m.renderFailed(tr, s)
		help = KeyHelp("r", tr.Retry)
	}

	if m.notice != "" {
		body += "\n" + align(m.lang.IsRTL(), m.width, WarningStyle.Render(m.notice))
	}
	return body + "\n" + help
}

func (m LectureModel) renderIdle(tr i18n.Translation) string {
	rtl := m.lang.IsRTL()
	var b strings.Builder

	b.WriteString(align(rtl, m.width, TitleStyle.Render(tr.VideoLectureTitle)))
	b.WriteString("\n")
	b.WriteString(align(rtl, m.width, MutedStyle.Width(max(m.width-4, 20)).Render(tr.VideoLectureBody)))
	b.WriteString("\n\n")

	assets := m.wf.Assets()
	var items strings.Builder
	if len(assets) == 0 {
		items.WriteString(MutedStyle.Render(tr.MaxFilesHint))
	}
	for i, a := range assets {
		cursor := "  "
		style := BodyStyle
		if i == m.cursor {
			cursor = "> "
			style = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		}
		items.WriteString(style.Render(fmt.Sprintf("%s%d. %s", cursor, i+1, a.Name)) +
			MutedStyle.Render(fmt.Sprintf(" - %s, %s", a.MIMEType, asset.FormatSize(a.Size))) + "\n")
	}

	count := fmt.Sprintf("%d/%d", len(assets), asset.MaxLectureAssets)
	b.WriteString(BoxStyle.Render(SubtitleStyle.Render(tr.UploadAssets+" "+count) + "\n\n" + items.String()))
	return b.String()
}

func (m LectureModel) renderRunning(status, detail string) string {
	line := m.spinner.View() + " " + BodyStyle.Render(status)
	elapsed := MutedStyle.Render(fmt.Sprintf("Elapsed: %s", video.FormatDuration(time.Since(m.startTime))))
	if detail != "" {
		elapsed += MutedStyle.Render("  |  " + detail)
	}
	return BoxStyle.Render(line+"\n\n"+elapsed) + "\n" + m.feed.View()
}

func (m LectureModel) renderCompleted(tr i18n.Translation, s lecture.Completed) string {
	title := SuccessStyle.Render(tr.UniversityLectureMode) + " " +
		BadgeSuccessStyle.Render(asset.FormatSize(int64(len(s.Media))))

	var saved string
	switch {
	case m.saving:
		saved = m.spinner.View() + " " + MutedStyle.Render(tr.DownloadVideo+"...")
	case m.saved != nil:
		saved = SuccessStyle.Render(tr.Saved) + " " + BodyStyle.Render(m.saved.VideoPath)
		if m.savedInfo != nil {
			saved += MutedStyle.Render(fmt.Sprintf(" (%s", video.FormatDuration(m.savedInfo.Duration)))
			if r := m.savedInfo.Resolution(); r != "" {
				saved += MutedStyle.Render(", " + r)
			}
			saved += MutedStyle.Render(")")
		}
		if m.saved.AnalysisPath != "" {
			saved += "\n" + MutedStyle.Render("  - "+filepath.Base(m.saved.AnalysisPath))
		}
	default:
		saved = MutedStyle.Render(truncateString(displayURI(s.VideoURI), max(m.width-4, 20)))
	}

	return title + "\n" + saved + "\n\n" +
		SubtitleStyle.Render(tr.AnalysisTitle) + "\n" +
		m.analysis.View()
}

func (m LectureModel) renderFailed(tr i18n.Translation, s lecture.Failed) string {
	errorBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(1, 2).
		Render(s.Message)

	out := ErrorStyle.Render(tr.ErrorTitle) + "\n" + errorBox
	if s.CredentialIssue {
		out += "\n" + WarningStyle.Render(tr.UpdateKey+": "+tr.Settings)
	}
	return out
}

// displayURI drops the query string of a result URI
func displayURI(uri string) string {
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		return uri[:i]
	}
	return uri
}

// Workflow returns the underlying workflow
func (m LectureModel) Workflow() *lecture.Workflow { return m.wf }

// Picking reports whether the file picker is open
func (m LectureModel) Picking() bool { return m.picking }
