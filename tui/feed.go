package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"andary/asset"
	"andary/lecture"
)

// FeedEntryType represents the type of an activity feed entry
type FeedEntryType string

const (
	EntryRequest  FeedEntryType = "request"
	EntryStatus   FeedEntryType = "status"
	EntryPoll     FeedEntryType = "poll"
	EntryError    FeedEntryType = "error"
	EntryComplete FeedEntryType = "complete"
)

// FeedEntry is a single line of the activity feed
type FeedEntry struct {
	Timestamp time.Time
	Type      FeedEntryType
	Model     string
	Title     string

	// Summary is shown muted after the title
	Summary string
}

// ActivityFeed shows what the lecture workflow is doing with a scrollable viewport
type ActivityFeed struct {
	Entries  []FeedEntry
	Viewport viewport.Model
	Width    int
	Height   int

	// MaxEntries limits the number of entries kept (0 = unlimited)
	MaxEntries int
}

// NewActivityFeed creates a feed with the given dimensions
func NewActivityFeed(width, height int) *ActivityFeed {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	return &ActivityFeed{
		Viewport:   vp,
		Width:      width,
		Height:     height,
		MaxEntries: 100,
	}
}

// Add appends an entry and scrolls to it
func (f *ActivityFeed) Add(e FeedEntry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	f.Entries = append(f.Entries, e)

	if f.MaxEntries > 0 && len(f.Entries) > f.MaxEntries {
		f.Entries = f.Entries[len(f.Entries)-f.MaxEntries:]
	}

	f.Viewport.SetContent(f.Render())
	f.Viewport.GotoBottom()
}

// AddRequest records an outgoing analysis request
func (f *ActivityFeed) AddRequest(model string, assets []asset.Asset) {
	var total int64
	for _, a := range assets {
		total += a.Size
	}
	f.Add(FeedEntry{
		Type:    EntryRequest,
		Model:   model,
		Title:   fmt.Sprintf("REQUEST to %s", model),
		Summary: fmt.Sprintf("%d files, %s", len(assets), asset.FormatSize(total)),
	})
}

// AddStatus records a status line
func (f *ActivityFeed) AddStatus(title string, details ...string) {
	f.Add(FeedEntry{
		Type:    EntryStatus,
		Title:   title,
		Summary: strings.Join(details, ", "),
	})
}

// AddError records a failure
func (f *ActivityFeed) AddError(title, message string) {
	f.Add(FeedEntry{
		Type:    EntryError,
		Title:   title,
		Summary: message,
	})
}

// AddComplete records a successful finish
func (f *ActivityFeed) AddComplete(title string, details ...string) {
	f.Add(FeedEntry{
		Type:    EntryComplete,
		Title:   title,
		Summary: strings.Join(details, ", "),
	})
}

// AddEvent translates a workflow event into a feed entry
func (f *ActivityFeed) AddEvent(e lecture.Event, videoModel string) {
	switch e.Kind {
	case lecture.EventPoll:
		summary := "running"
		if e.Done {
			summary = "done"
		}
		f.Add(FeedEntry{
			Timestamp: e.At,
			Type:      EntryPoll,
			Model:     videoModel,
			Title:     fmt.Sprintf("Status check #%d", e.Attempt),
			Summary:   summary,
		})
	case lecture.EventStateChanged:
		switch s := e.State.(type) {
		case lecture.Generating:
			f.Add(FeedEntry{
				Timestamp: e.At,
				Type:      EntryStatus,
				Model:     videoModel,
				Title:     "Video job accepted",
				Summary:   truncateString(s.Job, 48),
			})
		case lecture.Completed:
			f.Add(FeedEntry{
				Timestamp: e.At,
				Type:      EntryComplete,
				Title:     "Lecture ready",
				Summary:   asset.FormatSize(int64(len(s.Media))),
			})
		case lecture.Failed:
			f.Add(FeedEntry{
				Timestamp: e.At,
				Type:      EntryError,
				Title:     "Generation failed",
				Summary:   s.Message,
			})
		}
	}
}

// SetSize updates the feed dimensions
func (f *ActivityFeed) SetSize(width, height int) {
	f.Width = width
	f.Height = height
	f.Viewport.Width = width
	f.Viewport.Height = height
	f.Viewport.SetContent(f.Render())
}

// Clear removes all entries
func (f *ActivityFeed) Clear() {
	f.Entries = nil
	f.Viewport.SetContent(f.Render())
}

// View returns the viewport view for Bubble Tea
func (f *ActivityFeed) View() string {
	return f.Viewport.View()
}

// Render renders all entries to a string
func (f *ActivityFeed) Render() string {
	if len(f.Entries) == 0 {
		return MutedStyle.Render("  Waiting for activity...")
	}

	lines := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		lines = append(lines, renderEntry(e))
	}
	return strings.Join(lines, "\n")
}

func renderEntry(e FeedEntry) string {
	icon, style := entryStyle(e.Type)
	timestamp := lipgloss.NewStyle().Foreground(ColorMuted).Render(e.Timestamp.Format("15:04:05"))

	var suffix string
	if e.Summary != "" {
		if e.Type == EntryError {
			suffix = " " + lipgloss.NewStyle().Foreground(ColorError).Render("- "+e.Summary)
		} else {
			suffix = " " + MutedStyle.Render("("+e.Summary+")")
		}
	}

	return fmt.Sprintf("%s %s %s%s", timestamp, style.Render(icon), style.Render(e.Title), suffix)
}

func entryStyle(t FeedEntryType) (string, lipgloss.Style) {
	switch t {
	case EntryRequest:
		return "[>]", lipgloss.NewStyle().Foreground(ColorSecondary)
	case EntryPoll:
		return "[.]", lipgloss.NewStyle().Foreground(ColorAccent)
	case EntryError:
		return "[!]", lipgloss.NewStyle().Foreground(ColorError)
	case EntryComplete:
		return "[x]", lipgloss.NewStyle().Foreground(ColorSuccess)
	default:
		return "[-]", lipgloss.NewStyle().Foreground(ColorPrimary)
	}
}

func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", "")

	if len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
