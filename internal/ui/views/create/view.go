package create

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	goaldto "goalplan/internal/modules/goal/dto"
	apperrors "goalplan/internal/platform/errors"
	"goalplan/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	CreateOptions() goaldto.CreateOptions
	CreateGoal(ctx context.Context, input goaldto.CreateGoalInput) (goaldto.CreateGoalOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// CreatedMsg reports the outcome of a submission. Validation failures stay
// on the form and never produce it.
type CreatedMsg struct {
	GoalID int64
	Err    error
}

type submittedMsg struct {
	out goaldto.CreateGoalOutput
	err error
}

// ─── fields ──────────────────────────────────────────────────────────────────

type fieldKind int

const (
	textField fieldKind = iota
	choiceField
	multiField
	toggleField
)

type field struct {
	key     string
	label   string
	kind    fieldKind
	input   textinput.Model
	options []string
	choice  int
	checked map[string]bool
	on      bool
}

const (
	fGoal = iota
	fAvailability
	fDays
	fSession
	fLevel
	fFormats
	fFocus
	fLanguage
	fCheckpoints
	fCountryCode
	fCountryName
)

// errorField maps a validation field to the form row that shows it.
var errorField = map[string]int{
	"goal":           fGoal,
	"deadline_days":  fDays,
	"session_length": fSession,
	"level":          fLevel,
	"focus":          fFocus,
	"language":       fLanguage,
	"location":       fCountryCode,
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       Port
	fields     []field
	focus      int
	sub        int
	errs       map[int]string
	submitting bool
	spinner    spinner.Model
	width      int
	height     int
}

func New(port Port) Model {
	opts := port.CreateOptions()
	text := func(key, label, placeholder string, limit int) field {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		return field{key: key, label: label, kind: textField, input: ti}
	}
	choice := func(key, label string, options []string, def string) field {
		f := field{key: key, label: label, kind: choiceField, options: options}
		for i, o := range options {
			if o == def {
				f.choice = i
			}
		}
		return f
	}
	session := text("session_length", "Session length (min)", fmt.Sprint(opts.DefaultSessionLength), 4)

	fields := []field{
		text("goal", "Goal", "e.g. Learn Go concurrency", 500),
		text("availability", "Availability", "e.g. weekdays 19-21", 200),
		text("deadline_days", "Deadline (days)", "30", 4),
		session,
		choice("level", "Level", opts.Levels, opts.DefaultLevel),
		{key: "formats", label: "Formats", kind: multiField, options: opts.Formats, checked: map[string]bool{}},
		choice("focus", "Focus", opts.Focuses, opts.DefaultFocus),
		choice("language", "Language", opts.Languages, opts.DefaultLanguage),
		{key: "checkpoints", label: "Weekly checkpoints", kind: toggleField, on: true},
		text("country_code", "Country code", "optional, e.g. AR", 2),
		text("country_name", "Country name", "optional", 80),
	}
	if len(opts.Formats) > 0 {
		fields[fFormats].checked[opts.Formats[0]] = true
	}
	fields[fGoal].input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, fields: fields, errs: map[int]string{}, spinner: sp}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Editing reports whether a text field has focus, so global keys must yield.
func (m Model) Editing() bool {
	return m.fields[m.focus].kind == textField
}

// Reset clears the form after a goal was created.
func (m *Model) Reset() {
	fresh := New(m.port)
	fresh.width, fresh.height = m.width, m.height
	*m = fresh
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.fields {
			m.fields[i].input.Width = max(m.width/2, 20)
		}
		return m, nil

	case submittedMsg:
		m.submitting = false
		var vErr *apperrors.ValidationError
		if errors.As(msg.err, &vErr) {
			m.errs = map[int]string{errorRow(vErr.Field): vErr.Message}
			return m, nil
		}
		out := CreatedMsg{GoalID: msg.out.GoalID, Err: msg.err}
		return m, func() tea.Msg { return out }

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "tab", "down":
			return m, m.move(1)
		case "shift+tab", "up":
			return m, m.move(-1)
		case "enter":
			if m.focus == len(m.fields)-1 {
				return m.submit()
			}
			return m, m.move(1)
		}
		return m.updateField(msg)
	}

	f := &m.fields[m.focus]
	if f.kind == textField {
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateField(key tea.KeyMsg) (Model, tea.Cmd) {
	f := &m.fields[m.focus]
	switch f.kind {
	case textField:
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(key)
		return m, cmd
	case choiceField:
		switch key.String() {
		case "left", "h":
			f.choice = (f.choice + len(f.options) - 1) % len(f.options)
		case "right", "l", " ":
			f.choice = (f.choice + 1) % len(f.options)
		}
	case multiField:
		switch key.String() {
		case "left", "h":
			m.sub = max(m.sub-1, 0)
		case "right", "l":
			m.sub = min(m.sub+1, len(f.options)-1)
		case " ":
			checked := make(map[string]bool, len(f.checked))
			for k, v := range f.checked {
				checked[k] = v
			}
			opt := f.options[m.sub]
			checked[opt] = !checked[opt]
			f.checked = checked
		}
	case toggleField:
		if key.String() == " " {
			f.on = !f.on
		}
	}
	return m, nil
}

func (m *Model) move(delta int) tea.Cmd {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + delta + len(m.fields)) % len(m.fields)
	m.sub = 0
	if m.fields[m.focus].kind == textField {
		return m.fields[m.focus].input.Focus()
	}
	return nil
}

func (m Model) submit() (Model, tea.Cmd) {
	m.submitting = true
	m.errs = map[int]string{}
	input := m.input()
	port := m.port
	return m, tea.Batch(func() tea.Msg {
		out, err := port.CreateGoal(context.Background(), input)
		return submittedMsg{out: out, err: err}
	}, m.spinner.Tick)
}

func (m Model) input() goaldto.CreateGoalInput {
	value := func(i int) string { return strings.TrimSpace(m.fields[i].input.Value()) }
	pick := func(i int) string { return m.fields[i].options[m.fields[i].choice] }
	var formats []string
	for _, opt := range m.fields[fFormats].options {
		if m.fields[fFormats].checked[opt] {
			formats = append(formats, opt)
		}
	}
	return goaldto.CreateGoalInput{
		Goal:              value(fGoal),
		Availability:      value(fAvailability),
		DeadlineDays:      value(fDays),
		Level:             pick(fLevel),
		Formats:           formats,
		SessionLength:     value(fSession),
		Focus:             pick(fFocus),
		Language:          pick(fLanguage),
		WeeklyCheckpoints: m.fields[fCheckpoints].on,
		CountryCode:       value(fCountryCode),
		CountryName:       value(fCountryName),
	}
}

func errorRow(field string) int {
	if row, ok := errorField[field]; ok {
		return row
	}
	return fGoal
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("New goal") + "\n\n")
	for i, f := range m.fields {
		label := fmt.Sprintf("%-22s", f.label)
		if i == m.focus {
			label = theme.Hot.Render(label)
		} else {
			label = theme.Muted.Render(label)
		}
		sb.WriteString(label + m.renderValue(i, f) + "\n")
		if msg, ok := m.errs[i]; ok {
			sb.WriteString(strings.Repeat(" ", 22) + theme.Error.Render(msg) + "\n")
		}
	}
	sb.WriteString("\n")
	if m.submitting {
		sb.WriteString(m.spinner.View() + " Generating objectives…")
	} else {
		sb.WriteString(theme.Muted.Render("tab/↑/↓ move  ←/→ choose  space toggle  ctrl+s create"))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m Model) renderValue(i int, f field) string {
	switch f.kind {
	case choiceField:
		return "‹ " + f.options[f.choice] + " ›"
	case multiField:
		parts := make([]string, len(f.options))
		for j, opt := range f.options {
			box := "[ ]"
			if f.checked[opt] {
				box = "[x]"
			}
			part := box + " " + opt
			if i == m.focus && j == m.sub {
				part = lipgloss.NewStyle().Underline(true).Render(part)
			}
			parts[j] = part
		}
		return strings.Join(parts, "  ")
	case toggleField:
		if f.on {
			return "[x]"
		}
		return "[ ]"
	}
	return f.input.View()
}
