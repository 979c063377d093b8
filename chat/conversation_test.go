package chat

import (
	"context"
	"errors"
	"testing"

	"andary/asset"
	"andary/gemini"
	"andary/i18n"
)

type call struct {
	method      string
	message     string
	history     []gemini.Turn
	instruction string
	mimeType    string
	lang        i18n.Language
}

type fakeTutor struct {
	reply string
	err   error
	calls []call

	// hook runs inside the call, while the reply is pending
	hook func()
}

func (f *fakeTutor) Chat(ctx context.Context, message string, history []gemini.Turn, instruction string) (string, error) {
	f.calls = append(f.calls, call{method: "chat", message: message, history: history, instruction: instruction})
	if f.hook != nil {
		f.hook()
	}
	return f.reply, f.err
}

func (f *fakeTutor) AnalyzeFile(ctx context.Context, payload, mimeType, prompt string, lang i18n.Language) (string, error) {
	f.calls = append(f.calls, call{method: "analyze", message: prompt, mimeType: mimeType, lang: lang})
	if f.hook != nil {
		f.hook()
	}
	return f.reply, f.err
}

func pdfAsset() asset.Asset {
	return asset.New("notes.pdf", "", []byte("%PDF-1.4\n"))
}

// Scenario A: a typed question with no attachment
func TestSendChat(t *testing.T) {
	tutor := &fakeTutor{reply: "Entropy measures disorder."}
	c := New(tutor, ModeChat, i18n.English)

	reply, err := c.Send(context.Background(), "What is entropy?")
	if err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if reply.Role != gemini.RoleModel || reply.Content != "Entropy measures disorder." || reply.Failed {
		t.Errorf("reply = %+v", reply)
	}

	msgs := c.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[0].Role != gemini.RoleUser || msgs[0].Content != "What is entropy?" {
		t.Errorf("first message = %+v", msgs[0])
	}

	if len(tutor.calls) != 1 || tutor.calls[0].method != "chat" {
		t.Fatalf("calls = %+v", tutor.calls)
	}
	got := tutor.calls[0]
	if len(got.history) != 0 {
		t.Errorf("history = %v, want empty", got.history)
	}
	if got.instruction != ModeChat.SystemInstruction() {
		t.Errorf("instruction = %q", got.instruction)
	}
}

func TestHistoryExcludesNewMessage(t *testing.T) {
	tutor := &fakeTutor{reply: "ok"}
	c := New(tutor, ModeFiles, i18n.English)

	c.Send(context.Background(), "first")
	c.Send(context.Background(), "second")

	got := tutor.calls[1]
	if len(got.history) != 2 {
		t.Fatalf("history = %d turns, want 2", len(got.history))
	}
	if got.history[0].Role != gemini.RoleUser || got.history[0].Text != "first" {
		t.Errorf("history[0] = %+v", got.history[0])
	}
	if got.history[1].Role != gemini.RoleModel || got.history[1].Text != "ok" {
		t.Errorf("history[1] = %+v", got.history[1])
	}
	if got.message != "second" {
		t.Errorf("message = %q", got.message)
	}
	if got.instruction != ModeFiles.SystemInstruction() {
		t.Errorf("files mode should use the document persona")
	}
}

// Scenario B: a PDF sent with empty text
func TestSendAttachmentWithoutText(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"success", nil},
		{"failure", errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tutor := &fakeTutor{reply: "شرح", err: tt.err}
			c := New(tutor, ModeFiles, i18n.Arabic)
			c.Attach(pdfAsset())

			if _, err := c.Send(context.Background(), "   "); err != nil {
				t.Fatalf("Send() failed: %v", err)
			}

			if len(tutor.calls) != 1 || tutor.calls[0].method != "analyze" {
				t.Fatalf("calls = %+v", tutor.calls)
			}
			got := tutor.calls[0]
			if got.message != DefaultFilePrompt {
				t.Errorf("prompt = %q, want %q", got.message, DefaultFilePrompt)
			}
			if got.mimeType != "application/pdf" || got.lang != i18n.Arabic {
				t.Errorf("call = %+v", got)
			}

			if _, ok := c.Attachment(); ok {
				t.Error("attachment should be cleared after the call")
			}

			msgs := c.Messages()
			if !msgs[0].HasAttachment() || msgs[0].AttachmentName != "notes.pdf" {
				t.Errorf("user message should carry the attachment: %+v", msgs[0])
			}
		})
	}
}

// A file sent without a question is remembered by the prompt it went out with
func TestFollowUpAfterFileOnlyMessage(t *testing.T) {
	tutor := &fakeTutor{reply: "The notes cover vectors."}
	c := New(tutor, ModeFiles, i18n.English)
	c.Attach(pdfAsset())

	if _, err := c.Send(context.Background(), ""); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}
	if c.Messages()[0].Content != "" {
		t.Errorf("displayed text = %q, want it left empty", c.Messages()[0].Content)
	}

	if _, err := c.Send(context.Background(), "follow up"); err != nil {
		t.Fatalf("Send() failed: %v", err)
	}

	if len(tutor.calls) != 2 || tutor.calls[1].method != "chat" {
		t.Fatalf("calls = %+v", tutor.calls)
	}
	history := tutor.calls[1].history
	if len(history) != 2 {
		t.Fatalf("history = %+v, want 2 turns", history)
	}
	for i, turn := range history {
		if turn.Text == "" {
			t.Errorf("turn %d (%s) has empty text", i, turn.Role)
		}
	}
	if history[0].Role != gemini.RoleUser || history[0].Text != DefaultFilePrompt {
		t.Errorf("first turn = %+v, want the default file prompt", history[0])
	}
}

func TestFailedReplyUsesLocalizedError(t *testing.T) {
	tutor := &fakeTutor{err: errors.New("remote down")}
	c := New(tutor, ModeChat, i18n.Arabic)

	reply, err := c.Send(context.Background(), "سؤال")
	if err != nil {
		t.Fatalf("Send() should not fail: %v", err)
	}
	if !reply.Failed || reply.Content != i18n.For(i18n.Arabic).ChatError {
		t.Errorf("reply = %+v", reply)
	}
	if c.Busy() {
		t.Error("conversation should not stay busy after a failure")
	}
}

func TestSubmitRejections(t *testing.T) {
	c := New(&fakeTutor{}, ModeChat, i18n.English)

	if _, err := c.Submit("  "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("Submit(blank) error = %v, want ErrEmptyMessage", err)
	}
	if len(c.Messages()) != 0 {
		t.Error("rejected message should not be appended")
	}

	p, err := c.Submit("one")
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	// optimistic append
	if len(c.Messages()) != 1 || !c.Busy() {
		t.Error("user message should be visible while the reply is pending")
	}
	if _, err := c.Submit("two"); !errors.Is(err, ErrBusy) {
		t.Errorf("Submit() while pending error = %v, want ErrBusy", err)
	}
	if err := c.Reset(); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset() while pending error = %v, want ErrBusy", err)
	}

	c.Resolve(context.Background(), p)
	if c.Busy() {
		t.Error("conversation should be idle after Resolve")
	}
	if err := c.Reset(); err != nil || len(c.Messages()) != 0 {
		t.Errorf("Reset() = %v, messages = %d", err, len(c.Messages()))
	}
}

func TestNewAttachmentDuringReplyIsKept(t *testing.T) {
	tutor := &fakeTutor{reply: "ok"}
	c := New(tutor, ModeFiles, i18n.English)
	c.Attach(pdfAsset())

	next := asset.New("second.pdf", "", []byte("%PDF-1.4\n"))
	tutor.hook = func() { c.Attach(next) }

	c.Send(context.Background(), "explain")

	staged, ok := c.Attachment()
	if !ok || staged.ID != next.ID {
		t.Errorf("attachment staged during the reply should survive, got %+v", staged)
	}
}

func TestDetach(t *testing.T) {
	c := New(&fakeTutor{}, ModeFiles, i18n.English)
	c.Attach(pdfAsset())
	c.Detach()
	if _, ok := c.Attachment(); ok {
		t.Error("Detach() should drop the attachment")
	}
}

func TestModeString(t *testing.T) {
	if ModeChat.String() != "chat" || ModeFiles.String() != "files" || Mode(9).String() != "unknown" {
		t.Error("unexpected mode names")
	}
}
