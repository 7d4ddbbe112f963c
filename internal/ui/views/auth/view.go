package auth

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "goalplan/internal/modules/auth/dto"
	"goalplan/internal/ui/theme"
)

type Port interface {
	Login(ctx context.Context, input authdto.LoginInput) (authdto.AuthOutput, error)
	Register(ctx context.Context, input authdto.RegisterInput) (authdto.AuthOutput, error)
}

// AuthenticatedMsg is emitted once a session token has been stored.
type AuthenticatedMsg struct{ User authdto.AuthOutput }

type resultMsg struct {
	out authdto.AuthOutput
	err error
}

const (
	iName = iota
	iEmail
	iPassword
	iConfirm
)

// Model is the login / sign-up screen shown while no token is stored.
type Model struct {
	port     Port
	register bool
	inputs   []textinput.Model
	focus    int
	err      string
	busy     bool
	spinner  spinner.Model
	width    int
	height   int
}

func New(port Port) Model {
	mk := func(placeholder string, secret bool) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 128
		ti.Width = 36
		if secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		return ti
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	m := Model{
		port:    port,
		inputs:  []textinput.Model{mk("Name", false), mk("Email", false), mk("Password", true), mk("Confirm password", true)},
		spinner: sp,
	}
	m.focus = iEmail
	m.inputs[iEmail].Focus()
	return m
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// visible lists the inputs of the current mode in tab order.
func (m Model) visible() []int {
	if m.register {
		return []int{iName, iEmail, iPassword, iConfirm}
	}
	return []int{iEmail, iPassword}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case resultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		out := msg.out
		return m, func() tea.Msg { return AuthenticatedMsg{User: out} }

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+t":
			m.register = !m.register
			m.err = ""
			return m, m.focusOn(m.visible()[0])
		case "tab", "down":
			return m, m.step(1)
		case "shift+tab", "up":
			return m, m.step(-1)
		case "enter":
			order := m.visible()
			if m.focus == order[len(order)-1] {
				return m.submit()
			}
			return m, m.step(1)
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) step(delta int) tea.Cmd {
	order := m.visible()
	pos := 0
	for i, idx := range order {
		if idx == m.focus {
			pos = i
		}
	}
	return m.focusOn(order[(pos+delta+len(order))%len(order)])
}

func (m *Model) focusOn(idx int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = idx
	return m.inputs[idx].Focus()
}

func (m Model) submit() (Model, tea.Cmd) {
	value := func(i int) string { return strings.TrimSpace(m.inputs[i].Value()) }
	port := m.port
	m.busy = true
	m.err = ""
	if m.register {
		input := authdto.RegisterInput{Name: value(iName), Email: value(iEmail), Password: m.inputs[iPassword].Value(), ConfirmPassword: m.inputs[iConfirm].Value()}
		return m, tea.Batch(func() tea.Msg {
			out, err := port.Register(context.Background(), input)
			return resultMsg{out: out, err: err}
		}, m.spinner.Tick)
	}
	input := authdto.LoginInput{Email: value(iEmail), Password: m.inputs[iPassword].Value()}
	return m, tea.Batch(func() tea.Msg {
		out, err := port.Login(context.Background(), input)
		return resultMsg{out: out, err: err}
	}, m.spinner.Tick)
}

func (m Model) View() string {
	title := "Sign in"
	toggle := "ctrl+t: create an account"
	if m.register {
		title = "Create account"
		toggle = "ctrl+t: I already have an account"
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title) + "\n\n")
	for _, idx := range m.visible() {
		sb.WriteString(m.inputs[idx].View() + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.busy:
		sb.WriteString(m.spinner.View() + " Contacting server…")
	case m.err != "":
		sb.WriteString(theme.Error.Render(m.err))
	default:
		sb.WriteString(theme.Muted.Render("enter: continue  " + toggle))
	}
	box := theme.PaneActive.Padding(1, 2).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
