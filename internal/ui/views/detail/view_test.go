package detail

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	goaldto "goalplan/internal/modules/goal/dto"
	"goalplan/internal/modules/goal/domain"
	"goalplan/internal/platform/wizard"
	"goalplan/internal/ui/components"
)

type fakePort struct {
	mu       sync.Mutex
	goal     goaldto.GoalOutput
	err      error
	statuses []goaldto.SetStatusInput
	reviews  []goaldto.ReviewInput
	extends  []goaldto.ExtendInput
}

func (p *fakePort) GoalDetail(context.Context, int64) (goaldto.GoalOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.goal, nil
}

func (p *fakePort) CachedGoal(int64) (goaldto.GoalOutput, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.goal, p.goal.ID != 0
}

func (p *fakePort) Watch(int64) (<-chan struct{}, func()) {
	return make(chan struct{}), func() {}
}

func (p *fakePort) SetObjectiveStatus(_ context.Context, in goaldto.SetStatusInput) (goaldto.ObjectiveOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, in)
	if p.err != nil {
		return goaldto.ObjectiveOutput{}, p.err
	}
	objectives := append([]goaldto.ObjectiveOutput(nil), p.goal.Objectives...)
	for i := range objectives {
		if objectives[i].ID == in.ObjectiveID {
			objectives[i].Status = in.Status
		}
	}
	p.goal.Objectives = objectives
	return goaldto.ObjectiveOutput{ID: in.ObjectiveID, Status: in.Status}, nil
}

func (p *fakePort) ReviewObjective(_ context.Context, in goaldto.ReviewInput) (goaldto.ObjectiveOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reviews = append(p.reviews, in)
	return goaldto.ObjectiveOutput{}, p.err
}

func (p *fakePort) ExtendGoal(_ context.Context, in goaldto.ExtendInput) (goaldto.ExtendOutput, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extends = append(p.extends, in)
	if p.err != nil {
		return goaldto.ExtendOutput{}, p.err
	}
	return goaldto.ExtendOutput{GoalID: in.GoalID, NewObjectives: 2}, nil
}

func (p *fakePort) NewReviewWizard() *wizard.Machine {
	return wizard.New(domain.ReviewWizard())
}

func (p *fakePort) NewExtensionWizard() *wizard.Machine {
	return wizard.New(domain.ExtensionWizard())
}

func newPort() *fakePort {
	return &fakePort{goal: goaldto.GoalOutput{
		ID:    1,
		Title: "Learn Go",
		Objectives: []goaldto.ObjectiveOutput{
			{ID: 10, Title: "Tour of Go", Status: "pending"},
			{ID: 11, Title: "Concurrency", Status: "pending"},
		},
		TodayIndex: -1,
	}}
}

func opened(t *testing.T, port *fakePort) Model {
	t.Helper()
	m := New(port, nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Open(1)
	m, _ = m.Update(LoadedMsg{GoalID: 1, Goal: port.goal})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and any batched cmds, returning the produced messages.
// Only call it on commands that do not block.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestStatusKeyUpdatesCardOnlyAfterResponse(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := opened(t, port)

	m, cmd := m.Update(keyMsg("c"))
	if !m.busy[10] {
		t.Fatalf("expected card to be busy")
	}
	if m.goal.Objectives[0].Status != "pending" {
		t.Fatalf("status must not change before the response")
	}
	if _, again := m.Update(keyMsg("c")); again != nil {
		t.Fatalf("busy card must ignore further status keys")
	}

	done, ok := find[StatusDoneMsg](run(cmd))
	if !ok || done.Err != nil {
		t.Fatalf("expected status completion, got %+v", done)
	}
	m, _ = m.Update(done)
	if m.busy[10] || m.goal.Objectives[0].Status != "completed" {
		t.Fatalf("expected completed and idle card, got %+v busy=%v", m.goal.Objectives[0], m.busy)
	}
	if len(port.statuses) != 1 || port.statuses[0].Status != "completed" {
		t.Fatalf("expected one request, got %+v", port.statuses)
	}
}

func TestStatusFailureRevertsAndToasts(t *testing.T) {
	t.Parallel()
	port := newPort()
	port.err = errors.New("Error updating objective")
	m := opened(t, port)

	m, cmd := m.Update(keyMsg("x"))
	done, _ := find[StatusDoneMsg](run(cmd))
	m, cmd = m.Update(done)
	if m.busy[10] || m.goal.Objectives[0].Status != "pending" {
		t.Fatalf("expected unchanged idle card, got %+v", m.goal.Objectives[0])
	}
	notice, ok := find[components.NoticeMsg](run(cmd))
	if !ok || !notice.Failure || notice.Text != "Error updating objective" {
		t.Fatalf("expected failure toast, got %+v", notice)
	}
}

func reviewAnswers(t *testing.T, m Model) (Model, components.WizardSubmitMsg) {
	t.Helper()
	m, _ = m.Update(keyMsg("r"))
	if !m.WizardOpen() {
		t.Fatalf("expected review wizard")
	}
	var cmd tea.Cmd
	for _, k := range []string{"down", "enter", "enter", "down", "down", "enter", "enter"} {
		m, cmd = m.Update(keyMsg(k))
	}
	submit, ok := find[components.WizardSubmitMsg](run(cmd))
	if !ok {
		t.Fatalf("expected submission")
	}
	if m.WizardOpen() {
		t.Fatalf("wizard must close as soon as it submits")
	}
	return m, submit
}

func TestReviewWizardSubmitsCollectedAnswers(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := opened(t, port)

	m, submit := reviewAnswers(t, m)
	m, cmd := m.Update(submit)
	if !m.busy[10] {
		t.Fatalf("card must be busy during the review")
	}
	done, ok := find[ReviewDoneMsg](run(cmd))
	if !ok {
		t.Fatalf("expected review completion")
	}
	m, _ = m.Update(done)

	want := map[string]string{"difficulty": "Too Easy", "interest": "Liked it", "time": "Perfect", "comment": ""}
	if len(port.reviews) != 1 {
		t.Fatalf("expected one review, got %d", len(port.reviews))
	}
	for k, v := range want {
		if got, ok := port.reviews[0].Answers[k]; !ok || got != v {
			t.Fatalf("answer %s = %q, want %q", k, got, v)
		}
	}
	w := m.reviews[10]
	if w.Phase() != wizard.Closed || w.StepNumber() != 1 || w.Value("difficulty") != "" {
		t.Fatalf("wizard must reset after submission")
	}
}

func TestReviewFailureIsSilent(t *testing.T) {
	t.Parallel()
	port := newPort()
	port.err = errors.New("Error reviewing objective")
	m := opened(t, port)

	m, submit := reviewAnswers(t, m)
	m, cmd := m.Update(submit)
	done, _ := find[ReviewDoneMsg](run(cmd))
	m, cmd = m.Update(done)
	if cmd != nil {
		t.Fatalf("review failure must not surface anything")
	}
	if m.WizardOpen() || m.busy[10] {
		t.Fatalf("wizard must stay closed and the card idle")
	}
}

func TestWizardCancelDiscardsAnswers(t *testing.T) {
	t.Parallel()
	m := opened(t, newPort())
	m, _ = m.Update(keyMsg("r"))
	m, _ = m.Update(keyMsg("enter"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.WizardOpen() {
		t.Fatalf("esc must close the wizard")
	}
	w := m.reviews[10]
	if w.StepNumber() != 1 || w.Value("difficulty") != "" {
		t.Fatalf("cancel must clear the wizard")
	}
}

func TestReopeningGoalKeepsStatusGuard(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := opened(t, port)

	m, cmd := m.Update(keyMsg("c"))
	m.Open(1)
	if !m.busy[10] {
		t.Fatalf("reopening the goal must keep the card busy")
	}
	if _, again := m.Update(keyMsg("c")); again != nil {
		t.Fatalf("busy card must ignore status keys after reopening")
	}

	done, _ := find[StatusDoneMsg](run(cmd))
	m, _ = m.Update(done)
	if m.busy[10] {
		t.Fatalf("completion must release the card")
	}
}

// extensionAnswers opens the extension wizard and walks it to submission:
// "1 week", "harder", the first priority and no comment.
func extensionAnswers(t *testing.T, m Model) (Model, components.WizardSubmitMsg) {
	t.Helper()
	m, _ = m.Update(keyMsg("e"))
	if !m.WizardOpen() {
		t.Fatalf("expected extension wizard")
	}
	var cmd tea.Cmd
	for _, k := range []string{"enter", "down", "enter", "enter", "enter"} {
		m, cmd = m.Update(keyMsg(k))
	}
	submit, ok := find[components.WizardSubmitMsg](run(cmd))
	if !ok || submit.Name != extensionWizard {
		t.Fatalf("expected extension submission, got %+v", submit)
	}
	if m.WizardOpen() {
		t.Fatalf("wizard must close as soon as it submits")
	}
	return m, submit
}

func TestExtensionSubmitsAndToasts(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := opened(t, port)

	m, submit := extensionAnswers(t, m)
	m, cmd := m.Update(submit)
	if !m.extending[1] {
		t.Fatalf("goal must be marked extending")
	}
	done, ok := find[ExtendDoneMsg](run(cmd))
	if !ok || done.Err != nil {
		t.Fatalf("expected extend completion, got %+v", done)
	}
	m, cmd = m.Update(done)
	if m.extending[1] {
		t.Fatalf("completion must clear extending")
	}
	notice, ok := find[components.NoticeMsg](run(cmd))
	if !ok || notice.Failure || notice.Text != "2 new objectives added" {
		t.Fatalf("expected success toast, got %+v", notice)
	}

	if len(port.extends) != 1 {
		t.Fatalf("expected one extend request, got %d", len(port.extends))
	}
	want := map[string]string{"extension": "1 week", "level": "harder", "priority": "Focus on the most important objectives first", "comment": ""}
	for k, v := range want {
		if got, ok := port.extends[0].Answers[k]; !ok || got != v {
			t.Fatalf("answer %s = %q, want %q", k, got, v)
		}
	}
	w := m.extensions[1]
	if w.Phase() != wizard.Closed || w.StepNumber() != 1 || w.Value("extension") != "" {
		t.Fatalf("wizard must reset after submission")
	}
}

func TestExtensionFailureIsSilent(t *testing.T) {
	t.Parallel()
	port := newPort()
	port.err = errors.New("Error extending goal")
	m := opened(t, port)

	m, submit := extensionAnswers(t, m)
	m, cmd := m.Update(submit)
	done, _ := find[ExtendDoneMsg](run(cmd))
	m, cmd = m.Update(done)
	if cmd != nil {
		t.Fatalf("extension failure must not surface anything")
	}
	if m.WizardOpen() || m.extending[1] {
		t.Fatalf("wizard must stay closed and the goal idle")
	}
	if m.extensions[1].Phase() != wizard.Closed {
		t.Fatalf("wizard must reset after a failed submission")
	}
}

func TestExtensionInFlightSurvivesReopen(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := opened(t, port)

	m, submit := extensionAnswers(t, m)
	m, cmd := m.Update(submit)
	m.Open(1)
	m, _ = m.Update(keyMsg("e"))
	if m.WizardOpen() {
		t.Fatalf("a second extension must not open while the first is in flight")
	}

	done, _ := find[ExtendDoneMsg](run(cmd))
	m, _ = m.Update(done)
	m, _ = m.Update(keyMsg("e"))
	if !m.WizardOpen() || m.extensions[1].StepNumber() != 1 {
		t.Fatalf("extension must open again once the first completes")
	}
}

func TestLateExtensionCompletionLeavesOtherWizardAlone(t *testing.T) {
	t.Parallel()
	port := newPort()
	m := opened(t, port)

	m, submit := extensionAnswers(t, m)
	m, cmd := m.Update(submit)

	m.Open(2)
	m, _ = m.Update(keyMsg("e"))
	m, _ = m.Update(keyMsg("enter"))
	if !m.WizardOpen() || m.extensions[2].StepNumber() != 2 {
		t.Fatalf("expected goal 2 wizard on step 2")
	}

	done, _ := find[ExtendDoneMsg](run(cmd))
	m, _ = m.Update(done)
	if m.extending[1] {
		t.Fatalf("goal 1 completion must clear its guard")
	}
	if !m.WizardOpen() || m.extensions[2].StepNumber() != 2 || m.extensions[2].Value("extension") != "1 week" {
		t.Fatalf("goal 1 completion must not touch the goal 2 wizard")
	}
}
