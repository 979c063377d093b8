// Package chat holds the conversation logic behind the "ask anything" and
// "explain files" screens.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"andary/asset"
	"andary/gemini"
	"andary/i18n"
	"andary/logger"
)

// DefaultFilePrompt is sent with an attachment when the user typed nothing
const DefaultFilePrompt = "Explain this in detail."

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("a reply is already pending")
)

// Mode selects the tutor persona
type Mode int

const (
	ModeChat Mode = iota
	ModeFiles
)

func (m Mode) String() string {
	switch m {
	case ModeChat:
		return "chat"
	case ModeFiles:
		return "files"
	default:
		return "unknown"
	}
}

// SystemInstruction returns the persona sent with every plain chat request
func (m Mode) SystemInstruction() string {
	if m == ModeFiles {
		return "You are Andary, specialized in analyzing educational documents. Break down complex topics."
	}
	return "You are Andary, an expert AI university professor. Answer with academic precision and clarity."
}

// Tutor is the part of the Gemini adapter a conversation needs
type Tutor interface {
	Chat(ctx context.Context, message string, history []gemini.Turn, instruction string) (string, error)
	AnalyzeFile(ctx context.Context, payload, mimeType, prompt string, lang i18n.Language) (string, error)
}

// Message is one entry of the transcript
type Message struct {
	ID             string
	Role           gemini.Role
	Content        string
	Timestamp      time.Time
	Attachment     string
	AttachmentType string
	AttachmentName string

	// Failed marks a model message that carries the error text
	Failed bool
}

// HasAttachment reports whether the message carried a file
func (m Message) HasAttachment() bool {
	return m.Attachment != ""
}

// sentText is the text the model saw for this message. A file sent without
// a question went out with DefaultFilePrompt.
func (m Message) sentText() string {
	if m.Content == "" && m.Role == gemini.RoleUser && m.HasAttachment() {
		return DefaultFilePrompt
	}
	return m.Content
}

// Pending is a submitted message waiting for its reply
type Pending struct {
	Message    Message
	history    []gemini.Turn
	attachment *asset.Asset
}

// Conversation is an append-only transcript with at most one reply in flight
type Conversation struct {
	mu         sync.Mutex
	tutor      Tutor
	mode       Mode
	lang       i18n.Language
	messages   []Message
	attachment *asset.Asset
	pending    bool
	log        *logger.Logger
	now        func() time.Time
}

type Option func(*Conversation)

func WithLogger(l *logger.Logger) Option {
	return func(c *Conversation) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(c *Conversation) {
		c.now = now
	}
}

func New(tutor Tutor, mode Mode, lang i18n.Language, opts ...Option) *Conversation {
	c := &Conversation{
		tutor: tutor,
		mode:  mode,
		lang:  lang,
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conversation) Mode() Mode {
	return c.mode
}

func (c *Conversation) SetLanguage(lang i18n.Language) {
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
}

// Attach stages a file for the next message, replacing any staged file
func (c *Conversation) Attach(a asset.Asset) {
	c.mu.Lock()
	c.attachment = &a
	c.mu.Unlock()
}

// Detach drops the staged file
func (c *Conversation) Detach() {
	c.mu.Lock()
	c.attachment = nil
	c.mu.Unlock()
}

// Attachment returns the staged file, if any
func (c *Conversation) Attachment() (asset.Asset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attachment == nil {
		return asset.Asset{}, false
	}
	return *c.attachment, true
}

// Messages returns a copy of the transcript
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Busy reports whether a reply is in flight
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Submit appends the user's message right away and snapshots what the
// request needs. The reply is produced by Resolve.
func (c *Conversation) Submit(text string) (*Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" && c.attachment == nil {
		return nil, ErrEmptyMessage
	}
	if c.pending {
		return nil, ErrBusy
	}

	history := make([]gemini.Turn, 0, len(c.messages))
	for _, m := range c.messages {
		if text := m.sentText(); text != "" {
			history = append(history, gemini.Turn{Role: m.Role, Text: text})
		}
	}

	msg := Message{
		ID:        uuid.NewString(),
		Role:      gemini.RoleUser,
		Content:   text,
		Timestamp: c.now(),
	}
	p := &Pending{history: history}
	if c.attachment != nil {
		a := *c.attachment
		msg.Attachment = a.Data
		msg.AttachmentType = a.MIMEType
		msg.AttachmentName = a.Name
		p.attachment = &a
	}
	p.Message = msg

	c.messages = append(c.messages, msg)
	c.pending = true
	return p, nil
}

// Resolve calls the tutor for a submitted message and appends the reply. A
// failed call appends the localized error text instead, so Resolve never
// fails.
func (c *Conversation) Resolve(ctx context.Context, p *Pending) Message {
	c.mu.Lock()
	lang := c.lang
	c.mu.Unlock()

	var (
		reply string
		err   error
	)
	if p.attachment != nil {
		reply, err = c.tutor.AnalyzeFile(ctx, p.attachment.Data, p.attachment.MIMEType, p.Message.sentText(), lang)
	} else {
		reply, err = c.tutor.Chat(ctx, p.Message.Content, p.history, c.mode.SystemInstruction())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// the staged file is consumed whatever the outcome, unless the user
	// already staged a different one
	if p.attachment != nil && c.attachment != nil && c.attachment.ID == p.attachment.ID {
		c.attachment = nil
	}
	c.pending = false

	msg := Message{
		ID:        uuid.NewString(),
		Role:      gemini.RoleModel,
		Content:   reply,
		Timestamp: c.now(),
	}
	if err != nil {
		c.log.Warn("tutor reply failed", "mode", c.mode.String(), "error", err)
		msg.Content = i18n.For(lang).ChatError
		msg.Failed = true
	}
	c.messages = append(c.messages, msg)
	return msg
}

// Send is Submit followed by Resolve
func (c *Conversation) Send(ctx context.Context, text string) (Message, error) {
	p, err := c.Submit(text)
	if err != nil {
		return Message{}, err
	}
	return c.Resolve(ctx, p), nil
}

// Reset clears the transcript and any staged file
func (c *Conversation) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending {
		return ErrBusy
	}
	c.messages = nil
	c.attachment = nil
	return nil
}
