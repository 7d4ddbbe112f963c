package wizard_test

import (
	"errors"
	"strings"
	"testing"

	"goalplan/internal/modules/goal/domain"
	apperrors "goalplan/internal/platform/errors"
	"goalplan/internal/platform/wizard"
)

var definitions = []struct {
	name string
	def  func() wizard.Definition
}{
	{"review", domain.ReviewWizard},
	{"extension", domain.ExtensionWizard},
}

// walkToLast selects the last option on every choice step and stops on the
// final step.
func walkToLast(t *testing.T, m *wizard.Machine) {
	t.Helper()
	for m.StepNumber() < m.Total() {
		step := m.Current()
		if !step.FreeText() {
			if err := m.Select(step.Field, step.Options[len(step.Options)-1]); err != nil {
				t.Fatalf("select %s: %v", step.Field, err)
			}
		}
		if _, submit := m.Next(); submit {
			t.Fatalf("submitted before the last step")
		}
	}
}

func TestNextIsGuardedByRequiredField(t *testing.T) {
	t.Parallel()
	for _, tc := range definitions {
		m := wizard.New(tc.def())
		m.Open()
		first := m.Current()
		if m.CanAdvance() {
			t.Fatalf("%s: step 1 must not advance without a selection", tc.name)
		}
		if _, submit := m.Next(); submit || m.StepNumber() != 1 {
			t.Fatalf("%s: next without selection must keep step 1, got %d", tc.name, m.StepNumber())
		}
		if err := m.Select(first.Field, first.Options[0]); err != nil {
			t.Fatalf("%s: select: %v", tc.name, err)
		}
		if m.StepNumber() != 1 {
			t.Fatalf("%s: select must not advance", tc.name)
		}
		if _, submit := m.Next(); submit || m.StepNumber() != 2 {
			t.Fatalf("%s: expected step 2, got %d", tc.name, m.StepNumber())
		}
		if m.CanAdvance() {
			t.Fatalf("%s: step 2 is required and unset", tc.name)
		}
	}
}

func TestBackIsNoopAtFirstStepAndKeepsData(t *testing.T) {
	t.Parallel()
	for _, tc := range definitions {
		m := wizard.New(tc.def())
		m.Open()
		m.Back()
		if m.StepNumber() != 1 {
			t.Fatalf("%s: back at step 1 must stay on 1", tc.name)
		}
		first := m.Current()
		_ = m.Select(first.Field, first.Options[1])
		m.Next()
		m.Back()
		if m.StepNumber() != 1 || m.Value(first.Field) != first.Options[1] {
			t.Fatalf("%s: back must keep data, step=%d value=%q", tc.name, m.StepNumber(), m.Value(first.Field))
		}
	}
}

func TestCancelResetsAndCloses(t *testing.T) {
	t.Parallel()
	for _, tc := range definitions {
		m := wizard.New(tc.def())
		m.Open()
		walkToLast(t, m)
		m.Cancel()
		if m.StepNumber() != 1 || m.Visible() || m.Submitting() {
			t.Fatalf("%s: cancel must close at step 1, got step=%d phase=%s", tc.name, m.StepNumber(), m.Phase())
		}
		for _, step := range m.Definition().Steps {
			if m.Value(step.Field) != "" {
				t.Fatalf("%s: cancel must clear %s", tc.name, step.Field)
			}
		}
	}
}

func TestSubmitAtLastStepWithBlankComment(t *testing.T) {
	t.Parallel()
	for _, tc := range definitions {
		m := wizard.New(tc.def())
		m.Open()
		walkToLast(t, m)
		if !m.Current().FreeText() || m.Current().Field != "comment" {
			t.Fatalf("%s: expected the free-text comment step last, got %+v", tc.name, m.Current())
		}
		answers, submit := m.Next()
		if !submit {
			t.Fatalf("%s: expected submit on last step", tc.name)
		}
		if !m.Submitting() || m.Visible() {
			t.Fatalf("%s: wizard must close while submitting, phase=%s", tc.name, m.Phase())
		}
		if len(answers) != m.Total() {
			t.Fatalf("%s: expected every field in answers, got %+v", tc.name, answers)
		}
		if comment, ok := answers["comment"]; !ok || comment != "" {
			t.Fatalf("%s: expected empty comment key, got %q present=%v", tc.name, comment, ok)
		}
		for _, step := range m.Definition().Steps {
			if !step.FreeText() && answers[step.Field] != step.Options[len(step.Options)-1] {
				t.Fatalf("%s: unexpected %s answer %q", tc.name, step.Field, answers[step.Field])
			}
		}
		if m.Open() {
			t.Fatalf("%s: open must be refused while submitting", tc.name)
		}
		m.Finish()
		if m.StepNumber() != 1 || m.Phase() != wizard.Closed || m.Value(m.Current().Field) != "" {
			t.Fatalf("%s: finish must reset the wizard", tc.name)
		}
		if !m.Open() {
			t.Fatalf("%s: open must work after finish", tc.name)
		}
	}
}

func TestSelectRejectsInvalidChoices(t *testing.T) {
	t.Parallel()
	m := wizard.New(domain.ExtensionWizard())
	m.Open()
	if err := m.Select("extension", "1 year"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown option, got %v", err)
	}
	if err := m.Select("mood", "Happy"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown field, got %v", err)
	}
	if err := m.Select("level", "harder"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for a step that is not current, got %v", err)
	}
	if m.Value("level") != "" {
		t.Fatalf("rejected selection must not be recorded")
	}
}

func TestFreeTextIsTruncated(t *testing.T) {
	t.Parallel()
	m := wizard.New(domain.ReviewWizard())
	m.Open()
	m.SetText("ignored on a choice step")
	if m.Value("difficulty") != "" {
		t.Fatalf("set text must not touch choice steps")
	}
	walkToLast(t, m)
	m.SetText(strings.Repeat("é", domain.ReviewCommentLimit+50))
	if got := m.Value("comment"); len([]rune(got)) != domain.ReviewCommentLimit {
		t.Fatalf("expected %d runes, got %d", domain.ReviewCommentLimit, len([]rune(got)))
	}
}
