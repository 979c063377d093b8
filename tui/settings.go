package tui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"andary/credential"
	"andary/gemini"
	"andary/i18n"
)

// errKeyDismissed is returned to a waiting OpenSelectKey when the user
// leaves the key form without entering a key
var errKeyDismissed = errors.New("key selection dismissed")

// keyRequestMsg asks the app to show the key form
type keyRequestMsg struct{}

// keySelectedMsg is sent by the settings screen when a key was entered
type keySelectedMsg struct{}

// keyDismissedMsg is sent when the key form was closed without a key
type keyDismissedMsg struct{}

// KeyPrompt routes credential.Store.OpenSelectKey to the settings screen and
// blocks the caller until the user enters a key, closes the form, or ctx ends
type KeyPrompt struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	waiters []chan error
}

// NewKeyPrompt creates a prompt that delivers requests with send. send may be
// set later with SetSender once the program exists.
func NewKeyPrompt(send func(tea.Msg)) *KeyPrompt {
	return &KeyPrompt{send: send}
}

// SetSender sets the function used to reach the running program
func (k *KeyPrompt) SetSender(send func(tea.Msg)) {
	k.mu.Lock()
	k.send = send
	k.mu.Unlock()
}

// Open is a credential select handler
func (k *KeyPrompt) Open(ctx context.Context) error {
	ch := make(chan error, 1)

	k.mu.Lock()
	send := k.send
	k.waiters = append(k.waiters, ch)
	k.mu.Unlock()

	if send == nil {
		k.release(ch)
		return errors.New("key form is not available")
	}
	send(keyRequestMsg{})

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		k.release(ch)
		return ctx.Err()
	}
}

// resolve wakes every waiting Open call with err
func (k *KeyPrompt) resolve(err error) {
	k.mu.Lock()
	waiters := k.waiters
	k.waiters = nil
	k.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}
}

func (k *KeyPrompt) release(ch chan error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, w := range k.waiters {
		if w == ch {
			k.waiters = append(k.waiters[:i], k.waiters[i+1:]...)
			return
		}
	}
}

// SettingsModel shows the key status, the masked key form, the language and
// the billing link
type SettingsModel struct {
	store  *credential.Store
	models gemini.Models
	lang   i18n.Language

	input   textinput.Model
	editing bool
	notice  string

	width int
}

// NewSettingsModel creates the settings screen
func NewSettingsModel(store *credential.Store, models gemini.Models, lang i18n.Language) SettingsModel {
	ti := textinput.New()
	ti.Placeholder = "AIza..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128
	ti.Width = 48

	return SettingsModel{
		store:  store,
		models: models,
		lang:   lang,
		input:  ti,
		width:  80,
	}
}

// Update handles messages for the settings screen
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if !m.editing {
		if keyMsg.String() == "enter" || keyMsg.String() == "e" {
			return m, m.edit()
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "enter":
		key := strings.TrimSpace(m.input.Value())
		if key == "" {
			return m, nil
		}
		m.store.Select(key)
		m.input.Reset()
		m.input.Blur()
		m.editing = false
		m.notice = i18n.For(m.lang).APIKeyStatus
		return m, func() tea.Msg { return keySelectedMsg{} }
	case "esc":
		m.input.Reset()
		m.input.Blur()
		m.editing = false
		return m, func() tea.Msg { return keyDismissedMsg{} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// edit opens the key form
func (m *SettingsModel) edit() tea.Cmd {
	m.editing = true
	m.notice = ""
	return m.input.Focus()
}

// RequestKey opens the key form on behalf of a running operation
func (m *SettingsModel) RequestKey() tea.Cmd {
	cmd := m.edit()
	m.notice = i18n.For(m.lang).UpdateKey
	return cmd
}

// SetLanguage switches the display language
func (m *SettingsModel) SetLanguage(lang i18n.Language) {
	m.lang = lang
}

// SetSize resizes the screen to the content area
func (m *SettingsModel) SetSize(width, _ int) {
	m.width = width
	m.input.Width = max(min(width-10, 64), 16)
}

// Editing reports whether the key form has focus
func (m SettingsModel) Editing() bool { return m.editing }

// View renders the settings screen
func (m SettingsModel) View() string {
	tr := i18n.For(m.lang)
	rtl := m.lang.IsRTL()
	cardWidth := max(m.width-4, 30)

	var status string
	if key, err := m.store.APIKey(context.Background()); err == nil {
		status = BadgeSuccessStyle.Render(tr.APIKeyStatus) + " " + MutedStyle.Render(credential.Mask(key))
	} else {
		status = BadgeErrorStyle.Render(tr.APIKeyMissing)
	}

	keyBody := status + "\n\n"
	if m.editing {
		keyBody += m.input.View() + "\n" + MutedStyle.Render("enter: "+tr.UpdateKey+"  esc: Cancel")
	} else {
		keyBody += MutedStyle.Render("enter: " + tr.UpdateKey)
	}
	if m.notice != "" {
		keyBody += "\n" + InfoStyle.Render(m.notice)
	}

	langBody := BodyStyle.Render(m.lang.Name()) + "  " + MutedStyle.Render("ctrl+l: "+tr.ToggleLanguage)

	modelBody := lipgloss.JoinVertical(lipgloss.Left,
		MutedStyle.Render("chat:    ")+BodyStyle.Render(m.models.Chat),
		MutedStyle.Render("lecture: ")+BodyStyle.Render(m.models.Lecture),
		MutedStyle.Render("video:   ")+BodyStyle.Render(m.models.Video),
	)

	sections := []string{
		align(rtl, m.width, TitleStyle.Render(tr.Settings)),
		Card(tr.SelectKey, keyBody, cardWidth),
		Card(tr.Language, langBody, cardWidth),
		Card(tr.BillingInfo, tr.BillingBody, cardWidth),
		Card("Gemini", modelBody, cardWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
