package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"goalplan/internal/platform/wizard"
	"goalplan/internal/ui/theme"
)

// WizardSubmitMsg is emitted when Next is pressed on the last step. The
// overlay is already closed when it arrives. Machine is the submitting
// wizard; the owner calls Finish on it once the request completes.
type WizardSubmitMsg struct {
	Name    string
	Answers wizard.Answers
	Machine *wizard.Machine
}

// WizardCancelMsg is emitted on esc.
type WizardCancelMsg struct{ Name string }

// StepWizard renders a wizard.Machine as a modal overlay. Option steps are
// picked with the arrow keys, the free-text step uses a textarea.
type StepWizard struct {
	machine *wizard.Machine
	cursor  int
	comment textarea.Model
	width   int
}

func NewStepWizard() StepWizard {
	ta := textarea.New()
	ta.Placeholder = "optional…"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	return StepWizard{comment: ta}
}

func (w StepWizard) Visible() bool {
	return w.machine != nil && w.machine.Visible()
}

func (w *StepWizard) SetWidth(width int) {
	w.width = width
	w.comment.SetWidth(max(width-6, 20))
}

// Open shows m. It returns false when m is still submitting.
func (w *StepWizard) Open(m *wizard.Machine) bool {
	if !m.Open() {
		return false
	}
	w.machine = m
	w.syncStep()
	return true
}

func (w StepWizard) Update(msg tea.Msg) (StepWizard, tea.Cmd) {
	if !w.Visible() {
		return w, nil
	}
	m := w.machine
	step := m.Current()
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if step.FreeText() {
			var cmd tea.Cmd
			w.comment, cmd = w.comment.Update(msg)
			return w, cmd
		}
		return w, nil
	}

	switch key.String() {
	case "esc":
		name := m.Definition().Name
		m.Cancel()
		w.comment.Blur()
		return w, func() tea.Msg { return WizardCancelMsg{Name: name} }
	case "shift+tab":
		return w.back()
	case "tab":
		return w.next()
	case "enter":
		if step.FreeText() {
			return w.next()
		}
		_ = m.Select(step.Field, step.Options[w.cursor])
		return w.next()
	}

	if step.FreeText() {
		var cmd tea.Cmd
		w.comment, cmd = w.comment.Update(msg)
		m.SetText(w.comment.Value())
		return w, cmd
	}
	switch key.String() {
	case "left", "h":
		return w.back()
	case "right", "l":
		return w.next()
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(step.Options)-1 {
			w.cursor++
		}
	case " ":
		_ = m.Select(step.Field, step.Options[w.cursor])
	}
	return w, nil
}

func (w *StepWizard) back() (StepWizard, tea.Cmd) {
	if w.machine.Current().FreeText() {
		w.machine.SetText(w.comment.Value())
	}
	w.machine.Back()
	w.syncStep()
	return *w, nil
}

func (w *StepWizard) next() (StepWizard, tea.Cmd) {
	m := w.machine
	if m.Current().FreeText() {
		m.SetText(w.comment.Value())
	}
	answers, submit := m.Next()
	if submit {
		w.comment.Blur()
		name := m.Definition().Name
		return *w, func() tea.Msg { return WizardSubmitMsg{Name: name, Answers: answers, Machine: m} }
	}
	w.syncStep()
	return *w, nil
}

// syncStep points the cursor at the recorded option, or loads the saved
// comment, for the step now showing.
func (w *StepWizard) syncStep() {
	step := w.machine.Current()
	value := w.machine.Value(step.Field)
	if step.FreeText() {
		w.comment.CharLimit = step.MaxLen
		w.comment.SetValue(value)
		w.comment.Focus()
		return
	}
	w.comment.Blur()
	w.cursor = 0
	for i, opt := range step.Options {
		if opt == value {
			w.cursor = i
		}
	}
}

func (w StepWizard) View() string {
	if !w.Visible() {
		return ""
	}
	m := w.machine
	step := m.Current()
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.Definition().Title))
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("  %d/%d", m.StepNumber(), m.Total())) + "\n\n")
	sb.WriteString(step.Title + "\n\n")

	if step.FreeText() {
		sb.WriteString(w.comment.View() + "\n")
		if step.MaxLen > 0 {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d/%d", len([]rune(w.comment.Value())), step.MaxLen)) + "\n")
		}
	} else {
		selected := m.Value(step.Field)
		for i, opt := range step.Options {
			mark := "( ) "
			if opt == selected {
				mark = "(•) "
			}
			line := mark + opt
			if i == w.cursor {
				line = theme.Hot.Render("> " + line)
			} else {
				line = "  " + line
			}
			sb.WriteString(line + "\n")
		}
	}

	nextLabel := "next"
	if m.StepNumber() == m.Total() {
		nextLabel = "submit"
	}
	hint := "↑/↓ choose  space select  enter " + nextLabel + "  ← back  esc cancel"
	if step.FreeText() {
		hint = "enter " + nextLabel + "  shift+tab back  esc cancel"
	}
	if !m.CanAdvance() {
		hint = theme.Error.Render("choose an option to continue") + "  " + hint
	}
	sb.WriteString("\n" + theme.Muted.Render(hint))

	width := w.width
	if width < 30 {
		width = 64
	}
	return theme.Overlay.Width(width - 2).Render(sb.String())
}
