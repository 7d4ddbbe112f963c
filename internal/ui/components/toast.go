package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"goalplan/internal/ui/theme"
)

const (
	toastSuccessTTL = 3 * time.Second
	toastErrorTTL   = 4 * time.Second
)

// ToastExpiredMsg hides the toast it was scheduled for. A newer toast
// keeps showing.
type ToastExpiredMsg struct{ seq int }

// Toast is a transient one-line notification.
type Toast struct {
	text    string
	failure bool
	seq     int
}

func (t Toast) Visible() bool { return t.text != "" }

// Success shows text for three seconds.
func (t *Toast) Success(text string) tea.Cmd {
	return t.show(text, false, toastSuccessTTL)
}

// Failure shows text for four seconds.
func (t *Toast) Failure(text string) tea.Cmd {
	return t.show(text, true, toastErrorTTL)
}

func (t *Toast) show(text string, failure bool, ttl time.Duration) tea.Cmd {
	t.seq++
	t.text = text
	t.failure = failure
	seq := t.seq
	return tea.Tick(ttl, func(time.Time) tea.Msg { return ToastExpiredMsg{seq: seq} })
}

func (t Toast) Update(msg tea.Msg) Toast {
	if expired, ok := msg.(ToastExpiredMsg); ok && expired.seq == t.seq {
		t.text = ""
	}
	return t
}

func (t Toast) View() string {
	if t.text == "" {
		return ""
	}
	fg := theme.Green
	icon := "✓ "
	if t.failure {
		fg = theme.Red
		icon = "✗ "
	}
	return lipgloss.NewStyle().Foreground(fg).Bold(true).Render(icon + t.text)
}

// NoticeMsg asks the app to show a toast.
type NoticeMsg struct {
	Text    string
	Failure bool
}

func Notify(text string, failure bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Failure: failure} }
}
