package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	authdto "goalplan/internal/modules/auth/dto"
	goaldto "goalplan/internal/modules/goal/dto"
	apperrors "goalplan/internal/platform/errors"
	"goalplan/internal/ui/components"
	"goalplan/internal/ui/theme"
	authview "goalplan/internal/ui/views/auth"
	createview "goalplan/internal/ui/views/create"
	detailview "goalplan/internal/ui/views/detail"
	goalsview "goalplan/internal/ui/views/goals"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type goalPort interface {
	goalsview.Port
	detailview.Port
	createview.Port
	DeleteGoal(ctx context.Context, goalID int64) error
	ExportGoal(ctx context.Context, input goaldto.ExportInput) (goaldto.ExportOutput, error)
}

type authPort interface {
	authview.Port
	Logout(ctx context.Context) error
	Status(ctx context.Context) (authdto.StatusOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabGoals tabID = iota
	tabDetail
	tabCreate
	tabCount
)

var tabLabels = [tabCount]string{
	"Goals", "Goal", "New",
}

// ─── async messages ───────────────────────────────────────────────────────────

type authStatusMsg struct {
	out authdto.StatusOutput
	err error
}

type loggedOutMsg struct{ err error }

type goalDeletedMsg struct {
	goalID int64
	err    error
}

type goalExportedMsg struct {
	out goaldto.ExportOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	New     key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Status  key.Binding
	Review  key.Binding
	Extend  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open goal")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new goal")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete goal")),
		Refresh: key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r/ctrl+r", "refresh")),
		Status:  key.NewBinding(key.WithKeys("c", "x", "p"), key.WithHelp("c/x/p", "complete/cancel/pending")),
		Review:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review objective")),
		Extend:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "extend goal")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.New, k.Delete, k.Refresh},
		{k.Status, k.Review, k.Extend},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the session
// gate, toasts, the global help overlay and the command palette. All
// business logic is delegated to ports; all rendering to sub-views.
type Model struct {
	exportDir string
	log       *zap.Logger

	goals goalPort
	auth  authPort

	// sub-views
	authView   authview.Model
	goalsView  goalsview.Model
	detailView detailview.Model
	createView createview.Model

	// global UI state
	checking  bool
	authed    bool
	user      string
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	toast     components.Toast
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(goals goalPort, auth authPort, exportDir string, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	return Model{
		exportDir:  exportDir,
		log:        log.Named("tui"),
		goals:      goals,
		auth:       auth,
		authView:   authview.New(auth),
		goalsView:  goalsview.New(goals),
		detailView: detailview.New(goals, log),
		createView: createview.New(goals),
		checking:   true,
		activeTab:  tabGoals,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkAuthCmd(), m.authView.Init(), m.createView.Init())
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case authStatusMsg:
		m.checking = false
		if msg.err != nil {
			m.log.Warn("auth status", zap.Error(msg.err))
		}
		m.authed = msg.out.Authenticated
		m.user = msg.out.Name
		if m.authed {
			return m, m.goalsView.Reload()
		}
		return m, nil

	case authview.AuthenticatedMsg:
		m.authed = true
		m.user = msg.User.Name
		m.activeTab = tabGoals
		return m, tea.Batch(m.goalsView.Reload(), m.toast.Success("Welcome "+msg.User.Name))

	case loggedOutMsg:
		if msg.err != nil {
			return m, m.toast.Failure(msg.err.Error())
		}
		m.detailView.Close()
		m.authed = false
		m.user = ""
		return m, m.toast.Success("Logged out")

	case goalsview.LoadedMsg:
		if errors.Is(msg.Err, apperrors.ErrAuthenticationRequired) {
			m.authed = false
		}
		var cmd tea.Cmd
		m.goalsView, cmd = m.goalsView.Update(msg)
		return m, cmd

	case goalDeletedMsg:
		if msg.err != nil {
			return m, m.toast.Failure(msg.err.Error())
		}
		if m.detailView.GoalID() == msg.goalID {
			m.detailView.Close()
			m.detailView = detailview.New(m.goals, m.log)
			m.propagateSize()
			m.activeTab = tabGoals
		}
		return m, tea.Batch(m.goalsView.Reload(), m.toast.Success("Goal deleted"))

	case goalExportedMsg:
		if msg.err != nil {
			return m, m.toast.Failure(msg.err.Error())
		}
		return m, m.toast.Success("Exported to " + msg.out.Path)

	case createview.CreatedMsg:
		if msg.Err != nil {
			m.log.Warn("create goal", zap.Error(msg.Err))
			return m, m.toast.Failure(msg.Err.Error())
		}
		m.createView.Reset()
		m.activeTab = tabDetail
		return m, tea.Batch(
			m.goalsView.Reload(),
			m.detailView.Open(msg.GoalID),
			m.toast.Success("Goal created"),
		)

	// Detail completions land here whichever tab is showing.
	case detailview.LoadedMsg, detailview.ChangedMsg, detailview.ReviewDoneMsg,
		components.WizardSubmitMsg, components.WizardCancelMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		return m, cmd

	case detailview.StatusDoneMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		if msg.Err == nil {
			return m, tea.Batch(cmd, m.goalsView.Reload())
		}
		return m, cmd

	case detailview.ExtendDoneMsg:
		var cmd tea.Cmd
		m.detailView, cmd = m.detailView.Update(msg)
		if msg.Err == nil {
			return m, tea.Batch(cmd, m.goalsView.Reload())
		}
		return m, cmd

	case components.NoticeMsg:
		if msg.Failure {
			return m, m.toast.Failure(msg.Text)
		}
		return m, m.toast.Success(msg.Text)

	case components.ToastExpiredMsg:
		m.toast = m.toast.Update(msg)
		return m, nil

	case spinner.TickMsg:
		// Spinners ignore ticks that are not theirs.
		var c1, c2, c3, c4 tea.Cmd
		m.goalsView, c1 = m.goalsView.Update(msg)
		m.detailView, c2 = m.detailView.Update(msg)
		m.createView, c3 = m.createView.Update(msg)
		m.authView, c4 = m.authView.Update(msg)
		return m, tea.Batch(c1, c2, c3, c4)

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if !m.authed {
			break
		}

		// Yield to sub-views that are taking free text.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			if m.activeTab != tabCreate {
				m.activeTab = (m.activeTab + 1) % tabCount
				return m, nil
			}
		case "shift+tab":
			if m.activeTab != tabCreate {
				m.activeTab = (m.activeTab + tabCount - 1) % tabCount
				return m, nil
			}
		case "esc":
			if m.activeTab != tabGoals {
				m.activeTab = tabGoals
				return m, nil
			}
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}

		if m.activeTab == tabGoals {
			switch msg.String() {
			case "enter":
				if g, ok := m.goalsView.Selected(); ok {
					m.activeTab = tabDetail
					return m, m.detailView.Open(g.ID)
				}
				return m, nil
			case "n":
				m.activeTab = tabCreate
				return m, nil
			case "d":
				if g, ok := m.goalsView.Selected(); ok {
					return m, m.deleteGoalCmd(g.ID)
				}
				return m, nil
			case "r":
				return m, m.goalsView.Reload()
			}
		}
	}

	if m.checking {
		return m, nil
	}
	if !m.authed {
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(msg)
		return m, cmd
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabGoals:
		m.goalsView, tabCmd = m.goalsView.Update(msg)
	case tabDetail:
		m.detailView, tabCmd = m.detailView.Update(msg)
	case tabCreate:
		m.createView, tabCmd = m.createView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.checking:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, theme.Muted.Render("Checking session…"))
	case !m.authed:
		content = m.authView.View()
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabGoals:
		return m.goalsView.View()
	case tabDetail:
		return m.detailView.View()
	case tabCreate:
		return m.createView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabDetail && m.detailView.Title() != "" {
			label = m.detailView.Title()
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "goalplan  " + strings.Join(parts, sep)
	if m.user != "" {
		bar += theme.Muted.Render("   " + m.user)
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.toast.Visible() {
		left = m.toast.View()
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "auth:status":
		if m.user != "" {
			m.status = "signed in as " + m.user
		} else {
			m.status = "signed in"
		}
		return m, nil

	case "auth:logout":
		return m, m.logoutCmd()
	}

	if !m.authed {
		m.status = "sign in first"
		return m, nil
	}

	switch parts[0] {
	case "goal:new":
		m.activeTab = tabCreate
		return m, nil

	case "goal:open":
		if len(parts) < 2 {
			m.status = "usage: goal:open <id>"
			return m, nil
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			m.status = "invalid goal id"
			return m, nil
		}
		m.activeTab = tabDetail
		return m, m.detailView.Open(id)

	case "goal:refresh":
		return m, tea.Batch(m.goalsView.Reload(), m.detailView.Reload())

	case "goal:delete":
		if id, ok := m.currentGoal(); ok {
			return m, m.deleteGoalCmd(id)
		}
		m.status = "no goal selected"
		return m, nil

	case "goal:export":
		id, ok := m.currentGoal()
		if !ok {
			m.status = "no goal selected"
			return m, nil
		}
		dir := m.exportDir
		if len(parts) >= 2 {
			dir = parts[1]
		}
		return m, m.exportGoalCmd(id, dir)

	case "goal:extend", "objective:complete", "objective:cancel", "objective:pending", "objective:review":
		if m.detailView.GoalID() == 0 {
			m.status = "open a goal first"
			return m, nil
		}
		m.activeTab = tabDetail
		var cmd tea.Cmd
		switch parts[0] {
		case "goal:extend":
			m.detailView, cmd = m.detailView.OpenExtension()
		case "objective:complete":
			m.detailView, cmd = m.detailView.SetStatus("completed")
		case "objective:cancel":
			m.detailView, cmd = m.detailView.SetStatus("cancelled")
		case "objective:pending":
			m.detailView, cmd = m.detailView.SetStatus("pending")
		case "objective:review":
			m.detailView, cmd = m.detailView.OpenReview()
		}
		return m, cmd

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is taking typed input, in
// which case global key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabGoals:
		return m.goalsView.Filtering()
	case tabDetail:
		return m.detailView.WizardOpen()
	case tabCreate:
		return m.createView.Editing()
	}
	return false
}

// currentGoal is the goal on the detail tab, else the one highlighted in
// the list.
func (m Model) currentGoal() (int64, bool) {
	if m.activeTab == tabDetail && m.detailView.GoalID() != 0 {
		return m.detailView.GoalID(), true
	}
	if g, ok := m.goalsView.Selected(); ok {
		return g.ID, true
	}
	return 0, false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.authView, _ = m.authView.Update(sz)
	m.goalsView, _ = m.goalsView.Update(sz)
	m.detailView, _ = m.detailView.Update(sz)
	m.createView, _ = m.createView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) checkAuthCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		out, err := auth.Status(context.Background())
		return authStatusMsg{out: out, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	auth := m.auth
	return func() tea.Msg {
		return loggedOutMsg{err: auth.Logout(context.Background())}
	}
}

func (m Model) deleteGoalCmd(goalID int64) tea.Cmd {
	goals := m.goals
	return func() tea.Msg {
		return goalDeletedMsg{goalID: goalID, err: goals.DeleteGoal(context.Background(), goalID)}
	}
}

func (m Model) exportGoalCmd(goalID int64, dir string) tea.Cmd {
	goals := m.goals
	return func() tea.Msg {
		out, err := goals.ExportGoal(context.Background(), goaldto.ExportInput{GoalID: goalID, Dir: dir})
		if err != nil {
			err = fmt.Errorf("export: %w", err)
		}
		return goalExportedMsg{out: out, err: err}
	}
}
