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
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"andary/asset"
	"andary/chat"
	"andary/gemini"
	"andary/i18n"
)

// chatReplyMsg carries a tutor reply back to the screen that asked
type chatReplyMsg struct {
	target screen
	reply  chat.Message
}

// ChatModel is the view over one conversation: the transcript, the input
// line and an optional staged attachment
type ChatModel struct {
	target screen
	conv   *chat.Conversation
	lang   i18n.Language

	viewport viewport.Model
	input    textinput.Model
	picker   filepicker.Model
	spinner  spinner.Model

	picking bool
	notice  string

	width  int
	height int

	ctx context.Context
}

// NewChatModel creates the view for conv
func NewChatModel(ctx context.Context, target screen, conv *chat.Conversation, lang i18n.Language) ChatModel {
	ti := textinput.New()
	ti.Placeholder = i18n.For(lang).Placeholder
	ti.CharLimit = 4000
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorBrand)

	m := ChatModel{
		target:   target,
		conv:     conv,
		lang:     lang,
		viewport: viewport.New(80, 14),
		input:    ti,
		picker:   newAssetPicker(),
		spinner:  s,
		width:    80,
		height:   20,
		ctx:      ctx,
	}
	m.refresh()
	return m
}

// Init starts the cursor blink
func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the chat screen
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)

	case chatReplyMsg:
		if msg.target != m.target {
			return m, nil
		}
		m.refresh()
		return m, nil

	case assetLoadedMsg:
		if msg.target != m.target {
			return m, nil
		}
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.conv.Attach(msg.asset)
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		if !m.conv.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m ChatModel) handleKey(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		m.picking = true
		m.input.Blur()
		return m, m.picker.Init()

	case "ctrl+x":
		m.conv.Detach()
		m.notice = ""
		return m, nil

	case "enter":
		p, err := m.conv.Submit(m.input.Value())
		if err != nil {
			if errors.Is(err, chat.ErrBusy) {
				m.notice = i18n.For(m.lang).Processing
			}
			return m, nil
		}
		m.input.Reset()
		m.notice = ""
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, m.resolve(p))

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ChatModel) updatePicker(msg tea.KeyMsg) (ChatModel, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "ctrl+o" {
		m.picking = false
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m, tea.Batch(cmd, m.input.Focus(), loadAsset(m.target, path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = fmt.Sprintf("unsupported file type: %s", filepath.Base(path))
	}
	return m, cmd
}

// resolve fetches the reply for p in the background
func (m ChatModel) resolve(p *chat.Pending) tea.Cmd {
	conv, ctx, target := m.conv, m.ctx, m.target
	return func() tea.Msg {
		return chatReplyMsg{target: target, reply: conv.Resolve(ctx, p)}
	}
}

// SetLanguage switches the display language and the error text of new replies
func (m *ChatModel) SetLanguage(lang i18n.Language) {
	m.lang = lang
	m.conv.SetLanguage(lang)
	m.input.Placeholder = i18n.For(lang).Placeholder
	m.refresh()
}

// SetSize resizes the transcript to the content area
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-6, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-6, 3)
	m.picker.SetHeight(max(height-8, 3))
	m.refresh()
}

// refresh re-renders the transcript into the viewport
func (m *ChatModel) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m ChatModel) renderTranscript() string {
	tr := i18n.For(m.lang)
	rtl := m.lang.IsRTL()
	messages := m.conv.Messages()

	if len(messages) == 0 {
		title, body := tr.Welcome, tr.WelcomeBody
		if m.conv.Mode() == chat.ModeFiles {
			title, body = tr.ExplainFiles, tr.ExplainFilesBody
		}
		bodyWidth := max(m.width-4, 20)
		return align(rtl, m.width, TitleStyle.Render(title)) + "\n" +
			align(rtl, m.width, MutedStyle.Width(bodyWidth).Render(body))
	}

	bubbleWidth := max(m.width*3/4, 20)
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(m.renderMessage(msg, tr, bubbleWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ChatModel) renderMessage(msg chat.Message, tr i18n.Translation, width int) string {
	rtl := m.lang.IsRTL()
	label := tr.You
	style := UserBubbleStyle
	if msg.Role == gemini.RoleModel {
		label = tr.TeacherName
		style = ModelBubbleStyle
		if msg.Failed {
			style = FailedBubbleStyle
		}
	}

	content := msg.Content
	if msg.HasAttachment() {
		doc := InfoStyle.Render(fmt.Sprintf("[%s: %s]", tr.DocumentUploaded, msg.AttachmentName))
		if content == "" {
			content = doc
		} else {
			content = doc + "\n" + content
		}
	}

	header := SubtitleStyle.Render(label) + " " + MutedStyle.Render(msg.Timestamp.Format(time.Kitchen))
	bubble := style.Width(width).Render(content)

	// the user's side is the reading-start side
	right := (msg.Role == gemini.RoleUser) == rtl
	return align(right, m.width, header) + "\n" + align(right, m.width, bubble)
}

// View renders the chat screen
func (m ChatModel) View() string {
	tr := i18n.For(m.lang)
	rtl := m.lang.IsRTL()

	if m.picking {
		title := TitleStyle.Render(tr.UploadAssets)
		hint := MutedStyle.Render(strings.Join(asset.SupportedExtensions, " "))
		return title + "\n" + hint + "\n\n" + m.picker.View() + "\n" +
			KeyHelp("enter", "Select", "h/l", "Up/Open", "esc", "Close")
	}

	var b strings.Builder
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.conv.Busy() {
		b.WriteString(align(rtl, m.width, m.spinner.View()+" "+MutedStyle.Render(tr.TeacherName+"...")))
		b.WriteString("\n")
	}

	if a, ok := m.conv.Attachment(); ok {
		badge := BadgeStyle.Render(fmt.Sprintf("%s (%s)", a.Name, asset.FormatSize(a.Size)))
		b.WriteString(align(rtl, m.width, badge+" "+MutedStyle.Render("ctrl+x")))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(align(rtl, m.width, WarningStyle.Render(m.notice)))
		b.WriteString("\n")
	}

	b.WriteString(FocusedBoxStyle.Padding(0, 1).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(KeyHelp("enter", "Send", "ctrl+o", "Attach", "ctrl+x", "Remove file", "pgup/pgdn", "Scroll"))
	return b.String()
}

// Conversation returns the underlying conversation
func (m ChatModel) Conversation() *chat.Conversation { return m.conv }

// Picking reports whether the file picker is open
func (m ChatModel) Picking() bool { return m.picking }
