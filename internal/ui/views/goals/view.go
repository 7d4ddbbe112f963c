package goals

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	goaldto "goalplan/internal/modules/goal/dto"
	"goalplan/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	ListGoals(ctx context.Context) ([]goaldto.GoalSummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Goals []goaldto.GoalSummaryOutput
	Err   error
}

// ─── list item ───────────────────────────────────────────────────────────────

type goalItem struct {
	goal goaldto.GoalSummaryOutput
}

func (i goalItem) Title() string { return i.goal.Title }
func (i goalItem) Description() string {
	return fmt.Sprintf("%.0f%%  %s", i.goal.ProgressPercentage, deadlineLabel(i.goal.DeadlineDays))
}
func (i goalItem) FilterValue() string { return i.goal.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	list    list.Model
	bar     progress.Model
	spinner spinner.Model
	loading bool
	err     error
	width   int
	height  int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "My goals"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		bar:     progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green))),
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

// Reload refetches the list; the cache decides whether that hits the API.
func (m *Model) Reload() tea.Cmd {
	m.loading = true
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Goals))
		for i, g := range msg.Goals {
			items[i] = goalItem{goal: g}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading goals…")
	}
	if m.err != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Error.Render(m.err.Error())+"\n\n"+theme.Muted.Render("r: retry"))
	}
	if len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("No goals yet. Press n to create one."))
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := theme.Pane.
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.renderSummary())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted goal, if any.
func (m Model) Selected() (goaldto.GoalSummaryOutput, bool) {
	if item, ok := m.list.SelectedItem().(goalItem); ok {
		return item.goal, true
	}
	return goaldto.GoalSummaryOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	m.list.SetSize(listW, m.height)
	m.bar.Width = max(m.width-listW-8, 10)
}

func (m Model) renderSummary() string {
	g, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("Select a goal")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(g.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("deadline:     ") + deadlineLabel(g.DeadlineDays) + "\n")
	if g.Availability != "" {
		sb.WriteString(theme.Muted.Render("availability: ") + g.Availability + "\n")
	}
	if g.State != "" {
		sb.WriteString(theme.Muted.Render("state:        ") + g.State + "\n")
	}
	sb.WriteString("\n" + m.bar.ViewAs(g.ProgressPercentage/100) + "\n")
	sb.WriteString("\n" + theme.Muted.Render("enter: open  n: new  d: delete  r: refresh"))
	return sb.String()
}

// deadlineLabel renders a day count as "30 days" and a date as is.
func deadlineLabel(deadline string) string {
	if deadline == "" {
		return "no deadline"
	}
	if strings.Trim(deadline, "0123456789") == "" {
		return deadline + " days"
	}
	return deadline
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		goals, err := m.port.ListGoals(context.Background())
		return LoadedMsg{Goals: goals, Err: err}
	}
}
