package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PasswordModel is a masked password input used when a host has neither
// a reachable agent nor an identity file.
type PasswordModel struct {
	input       textinput.Model
	title       string
	description string
	width       int
	height      int
}

// PasswordSubmittedMsg is sent when the password is submitted or the
// prompt cancelled.
type PasswordSubmittedMsg struct {
	Password  string
	Cancelled bool
}

// NewPasswordModel creates a new password prompt.
func NewPasswordModel(title, description string) *PasswordModel {
	input := textinput.New()
	input.Placeholder = "Enter password"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 256
	input.Width = 50
	input.Prompt = "> "
	input.Focus()

	return &PasswordModel{
		input:       input,
		title:       title,
		description: description,
	}
}

func (m *PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			password := m.input.Value()
			return m, func() tea.Msg {
				return PasswordSubmittedMsg{Password: password}
			}

		case "esc":
			return m, func() tea.Msg {
				return PasswordSubmittedMsg{Cancelled: true}
			}
		}
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PasswordModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.description != "" {
		b.WriteString(pathStyle.Render(m.description))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter: submit • esc: cancel"))

	return boxStyle.Render(b.String())
}

// SetError replaces the description with an error message, keeping the
// prompt open for another attempt.
func (m *PasswordModel) SetError(err error) {
	if err != nil {
		m.description = fmt.Sprintf("❌ %v", err)
	}
}
