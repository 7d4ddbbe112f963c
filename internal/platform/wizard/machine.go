package wizard

import (
	"fmt"

	apperrors "goalplan/internal/platform/errors"
)

// Step is one screen of a linear wizard. Choice steps list Options; a step
// without options takes free text, truncated to MaxLen runes when MaxLen > 0.
type Step struct {
	Field    string
	Title    string
	Options  []string
	Required bool
	MaxLen   int
}

func (s Step) FreeText() bool { return len(s.Options) == 0 }

type Definition struct {
	Name  string
	Title string
	Steps []Step
}

// Answers maps a step's Field to the collected value.
type Answers map[string]string

type Phase int

const (
	Closed Phase = iota
	Editing
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Machine walks a Definition one step at a time. Steps are numbered from 1.
type Machine struct {
	def     Definition
	step    int
	answers Answers
	phase   Phase
}

func New(def Definition) *Machine {
	return &Machine{def: def, step: 1, answers: Answers{}}
}

func (m *Machine) Definition() Definition { return m.def }
func (m *Machine) Phase() Phase           { return m.phase }
func (m *Machine) Visible() bool          { return m.phase == Editing }
func (m *Machine) Submitting() bool       { return m.phase == Submitting }
func (m *Machine) StepNumber() int        { return m.step }
func (m *Machine) Total() int             { return len(m.def.Steps) }
func (m *Machine) Current() Step          { return m.def.Steps[m.step-1] }
func (m *Machine) Value(field string) string {
	return m.answers[field]
}

// Open shows the wizard at its current step. It refuses while a previous
// submission is still in flight.
func (m *Machine) Open() bool {
	if m.phase == Submitting {
		return false
	}
	m.phase = Editing
	return true
}

// Select records value for the current step without advancing. field must
// be the current step's and value one of its options.
func (m *Machine) Select(field, value string) error {
	step, ok := m.stepFor(field)
	if !ok {
		return fmt.Errorf("%w: unknown field %q", apperrors.ErrInvalidInput, field)
	}
	if step.Field != m.Current().Field {
		return fmt.Errorf("%w: %s is not the current step", apperrors.ErrInvalidInput, field)
	}
	if step.FreeText() {
		m.answers[field] = truncate(value, step.MaxLen)
		return nil
	}
	for _, opt := range step.Options {
		if opt == value {
			m.answers[field] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not an option for %s", apperrors.ErrInvalidInput, value, field)
}

// SetText records free text for the current step.
func (m *Machine) SetText(text string) {
	step := m.Current()
	if !step.FreeText() {
		return
	}
	m.answers[step.Field] = truncate(text, step.MaxLen)
}

// CanAdvance is false iff the current step is required and unset.
func (m *Machine) CanAdvance() bool {
	step := m.Current()
	return !step.Required || m.answers[step.Field] != ""
}

// Next advances one step. On the final step it moves to Submitting, hides
// the wizard and returns the collected answers with submit=true. Every
// field of the definition is present in the returned Answers.
func (m *Machine) Next() (Answers, bool) {
	if m.phase != Editing || !m.CanAdvance() {
		return nil, false
	}
	if m.step < len(m.def.Steps) {
		m.step++
		return nil, false
	}
	m.phase = Submitting
	out := Answers{}
	for _, s := range m.def.Steps {
		out[s.Field] = m.answers[s.Field]
	}
	return out, true
}

// Back moves to the previous step, keeping data. No-op on step 1.
func (m *Machine) Back() {
	if m.step > 1 {
		m.step--
	}
}

// Cancel discards everything and closes without submitting.
func (m *Machine) Cancel() {
	m.reset()
}

// Finish ends a submission round trip, successful or not.
func (m *Machine) Finish() {
	m.reset()
}

func (m *Machine) reset() {
	m.step = 1
	m.answers = Answers{}
	m.phase = Closed
}

func (m *Machine) stepFor(field string) (Step, bool) {
	for _, s := range m.def.Steps {
		if s.Field == field {
			return s, true
		}
	}
	return Step{}, false
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
