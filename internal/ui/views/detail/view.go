package detail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	goaldto "goalplan/internal/modules/goal/dto"
	"goalplan/internal/platform/wizard"
	"goalplan/internal/ui/components"
	"goalplan/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// Port is the slice of the goal use-case the detail screen drives.
type Port interface {
	GoalDetail(ctx context.Context, goalID int64) (goaldto.GoalOutput, error)
	CachedGoal(goalID int64) (goaldto.GoalOutput, bool)
	Watch(goalID int64) (<-chan struct{}, func())
	SetObjectiveStatus(ctx context.Context, input goaldto.SetStatusInput) (goaldto.ObjectiveOutput, error)
	ReviewObjective(ctx context.Context, input goaldto.ReviewInput) (goaldto.ObjectiveOutput, error)
	ExtendGoal(ctx context.Context, input goaldto.ExtendInput) (goaldto.ExtendOutput, error)
	NewReviewWizard() *wizard.Machine
	NewExtensionWizard() *wizard.Machine
}

// ─── messages ────────────────────────────────────────────────────────────────

// LoadedMsg carries a fetched goal.
type LoadedMsg struct {
	GoalID int64
	Goal   goaldto.GoalOutput
	Err    error
}

// Detail completions are exported so the app can route them here even when
// another tab is showing.

type ChangedMsg struct{ GoalID int64 }

type StatusDoneMsg struct {
	GoalID      int64
	ObjectiveID int64
	Status      string
	Err         error
}

type ReviewDoneMsg struct {
	GoalID      int64
	ObjectiveID int64
	Err         error

	machine *wizard.Machine
}

type ExtendDoneMsg struct {
	GoalID int64
	Out    goaldto.ExtendOutput
	Err    error

	machine *wizard.Machine
}

const extensionWizard = "extension"

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port Port
	log  *zap.Logger

	goalID  int64
	goal    goaldto.GoalOutput
	loaded  bool
	loading bool
	err     error
	cursor  int

	// In-flight guards outlive the goal on screen: busy and reviews are keyed
	// by objective, extending and extensions by goal.
	busy       map[int64]bool
	extending  map[int64]bool
	reviews    map[int64]*wizard.Machine
	extensions map[int64]*wizard.Machine
	overlay    components.StepWizard
	reviewFor  int64

	changes <-chan struct{}
	stop    func()

	rendered map[int64]string
	renderer *glamour.TermRenderer
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
}

func New(port Port, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(60),
	)

	return Model{
		port:     port,
		log:      log.Named("detail"),
		busy:       map[int64]bool{},
		extending:  map[int64]bool{},
		reviews:    map[int64]*wizard.Machine{},
		extensions: map[int64]*wizard.Machine{},
		overlay:    components.NewStepWizard(),
		rendered:   map[int64]string{},
		renderer:   r,
		viewport:   viewport.New(0, 0),
		spinner:    sp,
	}
}

// GoalID is the goal on screen, zero when none was opened.
func (m Model) GoalID() int64 { return m.goalID }

// Title is the loaded goal's title.
func (m Model) Title() string { return m.goal.Title }

// WizardOpen reports whether a wizard overlay owns the keyboard.
func (m Model) WizardOpen() bool { return m.overlay.Visible() }

// Open shows goalID, reading through the cache, and follows its changes.
// Requests still in flight keep their cards and wizards locked.
func (m *Model) Open(goalID int64) tea.Cmd {
	if m.stop != nil {
		m.stop()
	}
	if goalID != m.goalID {
		m.cursor = 0
	}
	m.goalID = goalID
	m.err = nil
	m.goal, m.loaded = m.port.CachedGoal(goalID)
	m.refresh()
	m.changes, m.stop = m.port.Watch(goalID)
	m.loading = true
	return tea.Batch(m.loadCmd(goalID), m.waitCmd(), m.spinner.Tick)
}

// Reload refetches the current goal; a fresh cache entry is served as is.
func (m *Model) Reload() tea.Cmd {
	if m.goalID == 0 {
		return nil
	}
	m.loading = true
	return tea.Batch(m.loadCmd(m.goalID), m.spinner.Tick)
}

// Close stops following the goal.
func (m *Model) Close() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
	m.changes = nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case LoadedMsg:
		if msg.GoalID != m.goalID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		first := !m.loaded
		m.goal, m.loaded, m.err = msg.Goal, true, nil
		if first && msg.Goal.TodayIndex >= 0 {
			m.cursor = msg.Goal.TodayIndex
		}
		m.refresh()
		return m, nil

	case ChangedMsg:
		if msg.GoalID != m.goalID {
			return m, nil
		}
		if goal, ok := m.port.CachedGoal(m.goalID); ok {
			m.goal = goal
			m.refresh()
		} else {
			cmds = append(cmds, m.loadCmd(m.goalID))
		}
		cmds = append(cmds, m.waitCmd())
		return m, tea.Batch(cmds...)

	case StatusDoneMsg:
		m.busy = without(m.busy, msg.ObjectiveID)
		if msg.Err != nil {
			m.log.Warn("objective status change failed",
				zap.Int64("goal_id", msg.GoalID), zap.Int64("objective_id", msg.ObjectiveID), zap.Error(msg.Err))
			m.refresh()
			return m, components.Notify(msg.Err.Error(), true)
		}
		m.syncFromCache(msg.GoalID)
		return m, nil

	case ReviewDoneMsg:
		if msg.machine != nil {
			msg.machine.Finish()
		}
		m.busy = without(m.busy, msg.ObjectiveID)
		if msg.Err != nil {
			m.wizardSubmitFailed("review", msg.GoalID, msg.Err)
		}
		m.syncFromCache(msg.GoalID)
		return m, nil

	case ExtendDoneMsg:
		if msg.machine != nil {
			msg.machine.Finish()
		}
		m.extending = without(m.extending, msg.GoalID)
		m.refresh()
		if msg.Err != nil {
			m.wizardSubmitFailed(extensionWizard, msg.GoalID, msg.Err)
			return m, nil
		}
		m.syncFromCache(msg.GoalID)
		return m, components.Notify(fmt.Sprintf("%d new objectives added", msg.Out.NewObjectives), false)

	case components.WizardSubmitMsg:
		return m.submit(msg)

	case components.WizardCancelMsg:
		return m, nil

	case spinner.TickMsg:
		if m.loading || len(m.busy) > 0 || len(m.extending) > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			return m, cmd
		}
		return m, nil
	}

	if m.overlay.Visible() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	return m, vCmd
}

func (m Model) handleKey(key tea.KeyMsg) (Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.goal.Objectives)-1 {
			m.cursor++
			m.refresh()
		}
		return m, nil
	case "c":
		return m.SetStatus("completed")
	case "x":
		return m.SetStatus("cancelled")
	case "p":
		return m.SetStatus("pending")
	case "r":
		return m.OpenReview()
	case "e":
		return m.OpenExtension()
	case "ctrl+r":
		return m, m.Reload()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

// SetStatus sends status for the selected objective unless that card is
// already busy. The card changes only once the server has answered.
func (m Model) SetStatus(status string) (Model, tea.Cmd) {
	obj, ok := m.selected()
	if !ok || m.busy[obj.ID] {
		return m, nil
	}
	m.busy = with(m.busy, obj.ID)
	m.refresh()
	goalID := m.goalID
	port := m.port
	return m, tea.Batch(func() tea.Msg {
		_, err := port.SetObjectiveStatus(context.Background(), goaldto.SetStatusInput{GoalID: goalID, ObjectiveID: obj.ID, Status: status})
		return StatusDoneMsg{GoalID: goalID, ObjectiveID: obj.ID, Status: status, Err: err}
	}, m.spinner.Tick)
}

// OpenReview shows the selected objective's review wizard.
func (m Model) OpenReview() (Model, tea.Cmd) {
	obj, ok := m.selected()
	if !ok || m.busy[obj.ID] {
		return m, nil
	}
	w, ok := m.reviews[obj.ID]
	if !ok {
		w = m.port.NewReviewWizard()
		m.reviews = withWizard(m.reviews, obj.ID, w)
	}
	if m.overlay.Open(w) {
		m.reviewFor = obj.ID
	}
	return m, nil
}

// OpenExtension shows the goal's extension wizard.
func (m Model) OpenExtension() (Model, tea.Cmd) {
	if !m.loaded || m.extending[m.goalID] {
		return m, nil
	}
	w, ok := m.extensions[m.goalID]
	if !ok {
		w = m.port.NewExtensionWizard()
		m.extensions = withWizard(m.extensions, m.goalID, w)
	}
	m.overlay.Open(w)
	return m, nil
}

func (m Model) submit(msg components.WizardSubmitMsg) (Model, tea.Cmd) {
	goalID := m.goalID
	port := m.port
	machine := msg.Machine
	if msg.Name == extensionWizard {
		m.extending = with(m.extending, goalID)
		m.refresh()
		return m, tea.Batch(func() tea.Msg {
			out, err := port.ExtendGoal(context.Background(), goaldto.ExtendInput{GoalID: goalID, Answers: msg.Answers})
			return ExtendDoneMsg{GoalID: goalID, Out: out, Err: err, machine: machine}
		}, m.spinner.Tick)
	}
	objectiveID := m.reviewFor
	m.busy = with(m.busy, objectiveID)
	m.refresh()
	return m, tea.Batch(func() tea.Msg {
		_, err := port.ReviewObjective(context.Background(), goaldto.ReviewInput{GoalID: goalID, ObjectiveID: objectiveID, Answers: msg.Answers})
		return ReviewDoneMsg{GoalID: goalID, ObjectiveID: objectiveID, Err: err, machine: machine}
	}, m.spinner.Tick)
}

// wizardSubmitFailed only logs. The wizard stays closed and nothing is
// shown to the user.
func (m Model) wizardSubmitFailed(name string, goalID int64, err error) {
	m.log.Error("wizard submission failed", zap.String("wizard", name), zap.Int64("goal_id", goalID), zap.Error(err))
}

func (m Model) View() string {
	if m.goalID == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Open a goal from the Goals tab (enter)"))
	}
	if !m.loaded {
		if m.err != nil {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
				theme.Error.Render(m.err.Error())+"\n\n"+theme.Muted.Render("ctrl+r: retry"))
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading goal…")
	}

	header := m.renderHeader()
	footer := theme.Muted.Render("↑/↓ select  c complete  x cancel  p pending  r review  e extend  ctrl+r refresh")
	body := m.viewportAt(m.height - lipgloss.Height(header) - lipgloss.Height(footer))
	view := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if m.overlay.Visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlay.View())
	}
	return view
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) selected() (goaldto.ObjectiveOutput, bool) {
	if m.cursor < 0 || m.cursor >= len(m.goal.Objectives) {
		return goaldto.ObjectiveOutput{}, false
	}
	return m.goal.Objectives[m.cursor], true
}

func (m *Model) syncFromCache(goalID int64) {
	if goalID != m.goalID {
		return
	}
	if goal, ok := m.port.CachedGoal(goalID); ok {
		m.goal = goal
	}
	m.refresh()
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-4, 1)
	m.overlay.SetWidth(min(m.width-4, 72))
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(m.width-8, 20)),
	); err == nil {
		m.renderer = r
		m.rendered = map[int64]string{}
	}
}

func (m Model) viewportAt(h int) string {
	vp := m.viewport
	vp.Height = max(h, 1)
	return vp.View()
}

// refresh rebuilds the card list and scrolls the selected card into view.
func (m *Model) refresh() {
	if m.cursor >= len(m.goal.Objectives) {
		m.cursor = max(len(m.goal.Objectives)-1, 0)
	}
	var sb strings.Builder
	top, bottom := 0, 0
	line := 0
	for i, o := range m.goal.Objectives {
		card := m.renderCard(i, o)
		h := lipgloss.Height(card)
		if i == m.cursor {
			top, bottom = line, line+h
		}
		sb.WriteString(card + "\n")
		line += h
	}
	if len(m.goal.Objectives) == 0 {
		sb.WriteString(theme.Muted.Render("No objectives yet."))
	}
	m.viewport.SetContent(sb.String())
	if top < m.viewport.YOffset {
		m.viewport.SetYOffset(top)
	} else if m.viewport.Height > 0 && bottom > m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m Model) renderHeader() string {
	g := m.goal
	done, total := 0, len(g.Objectives)
	for _, o := range g.Objectives {
		if o.Status == "completed" {
			done++
		}
	}
	parts := []string{
		theme.Title.Render(g.Title),
		theme.Muted.Render(fmt.Sprintf("%d/%d done", done, total)),
	}
	if g.Deadline != "" {
		parts = append(parts, theme.Muted.Render("deadline "+g.Deadline))
	}
	if m.extending[m.goalID] {
		parts = append(parts, theme.Hot.Render(m.spinner.View()+" extending…"))
	} else if m.loading {
		parts = append(parts, m.spinner.View())
	}
	header := strings.Join(parts, "  ")
	if g.Availability != "" {
		header += "\n" + theme.Muted.Render(g.Availability)
	}
	return header + "\n"
}

func (m Model) renderCard(i int, o goaldto.ObjectiveOutput) string {
	width := max(m.width-4, 20)
	if m.busy[o.ID] {
		return theme.Busy.Width(width).Render(m.spinner.View() + " Updating " + o.Title + "…")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d. ", i+1) + lipgloss.NewStyle().Bold(true).Render(o.Title))
	sb.WriteString("  " + theme.Status(o.Status).Render(o.Status))
	if i == m.goal.TodayIndex {
		sb.WriteString("  " + theme.Hot.Render("TODAY"))
	}
	if o.Overdue {
		sb.WriteString("  " + theme.Error.Render("overdue"))
	}
	if o.ScheduledAt != "" {
		sb.WriteString("\n" + theme.Muted.Render("scheduled "+o.ScheduledAt))
	}
	if o.Description != "" {
		sb.WriteString("\n" + m.description(o))
	}
	if o.YoutubeLinks != "" {
		sb.WriteString("\n" + theme.Muted.Render("▶ "+o.YoutubeLinks))
	}

	style := theme.Pane
	switch {
	case i == m.cursor:
		style = theme.PaneActive
	case i == m.goal.TodayIndex:
		style = theme.PaneToday
	}
	return style.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) description(o goaldto.ObjectiveOutput) string {
	if out, ok := m.rendered[o.ID]; ok {
		return out
	}
	out := o.Description
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(o.Description); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	m.rendered[o.ID] = out
	return out
}

func (m Model) loadCmd(goalID int64) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		goal, err := port.GoalDetail(context.Background(), goalID)
		return LoadedMsg{GoalID: goalID, Goal: goal, Err: err}
	}
}

// waitCmd blocks until the followed goal changes in the cache.
func (m Model) waitCmd() tea.Cmd {
	changes, goalID := m.changes, m.goalID
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return ChangedMsg{GoalID: goalID}
	}
}

func with(set map[int64]bool, id int64) map[int64]bool {
	out := make(map[int64]bool, len(set)+1)
	for k := range set {
		out[k] = true
	}
	out[id] = true
	return out
}

func without(set map[int64]bool, id int64) map[int64]bool {
	out := make(map[int64]bool, len(set))
	for k := range set {
		if k != id {
			out[k] = true
		}
	}
	return out
}

func withWizard(set map[int64]*wizard.Machine, id int64, w *wizard.Machine) map[int64]*wizard.Machine {
	out := make(map[int64]*wizard.Machine, len(set)+1)
	for k, v := range set {
		out[k] = v
	}
	out[id] = w
	return out
}
