package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/sftui/sftui/pkg/ssh"
	"github.com/sftui/sftui/pkg/sshconfig"
)

// hostChosenMsg is sent when a host is picked from the list. The app
// decides whether a password prompt is needed before dialing.
type hostChosenMsg struct {
	host sshconfig.Host
}

// connectResultMsg carries the outcome of a connect attempt. On success
// wd is the new session's working directory.
type connectResultMsg struct {
	host sshconfig.Host
	wd   string
	err  error
}

// connectCmd dials host in the background. The manager tears down any
// previous session first.
func connectCmd(manager *ssh.Manager, host sshconfig.Host, password string) tea.Cmd {
	return func() tea.Msg {
		if err := manager.Connect(host, password); err != nil {
			return connectResultMsg{host: host, err: err}
		}
		wd := "/"
		if session, err := manager.Session(); err == nil {
			if d, err := session.Getwd(); err == nil {
				wd = d
			}
		}
		return connectResultMsg{host: host, wd: wd}
	}
}

// ConnectModel is the host picker: the ~/.ssh/config host list with a
// fuzzy filter on top.
type ConnectModel struct {
	hosts  []sshconfig.Host
	filter textinput.Model
	view   []int // indices into hosts matching the filter
	cursor int

	connecting bool
	active     *sshconfig.Host
	err        error
	width      int
	height     int
}

// NewConnectModel creates the host picker.
func NewConnectModel(hosts []sshconfig.Host, active *sshconfig.Host) *ConnectModel {
	filter := textinput.New()
	filter.Placeholder = "Filter hosts"
	filter.Prompt = "> "
	filter.CharLimit = 156
	filter.Width = 40
	filter.Focus()

	m := &ConnectModel{
		hosts:  hosts,
		filter: filter,
		active: active,
	}
	m.refilter()
	return m
}

func (m *ConnectModel) Init() tea.Cmd {
	return textinput.Blink
}

// SetConnecting marks the picker busy while a dial is in flight.
func (m *ConnectModel) SetConnecting() {
	m.connecting = true
	m.err = nil
}

// SetError surfaces a failed connect attempt in the dialog.
func (m *ConnectModel) SetError(err error) {
	m.connecting = false
	m.err = err
}

func (m *ConnectModel) refilter() {
	query := m.filter.Value()
	if query == "" {
		m.view = make([]int, len(m.hosts))
		for i := range m.hosts {
			m.view[i] = i
		}
	} else {
		names := make([]string, len(m.hosts))
		for i, h := range m.hosts {
			names[i] = h.Alias
		}
		matches := fuzzy.Find(query, names)
		m.view = make([]int, len(matches))
		for i, match := range matches {
			m.view[i] = match.Index
		}
	}

	if m.cursor >= len(m.view) {
		m.cursor = 0
	}
}

func (m *ConnectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.connecting {
			return m, nil
		}

		switch msg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down":
			if m.cursor < len(m.view)-1 {
				m.cursor++
			}
			return m, nil

		case "enter":
			if len(m.view) == 0 || m.cursor >= len(m.view) {
				return m, nil
			}
			host := m.hosts[m.view[m.cursor]]
			return m, func() tea.Msg {
				return hostChosenMsg{host: host}
			}
		}

		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.refilter()
		return m, cmd
	}

	return m, nil
}

func (m *ConnectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🔌 Connect to Host"))
	b.WriteString("\n\n")

	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.hosts) == 0 {
		b.WriteString(helpStyle.Render("No hosts found in ~/.ssh/config."))
	} else if len(m.view) == 0 {
		b.WriteString(helpStyle.Render("No hosts match the filter."))
	} else {
		for i, idx := range m.view {
			host := m.hosts[idx]
			cursor := "  "
			style := itemStyle
			if m.cursor == i {
				cursor = "→ "
				style = selectedItemStyle
			}

			label := host.String()
			if m.active != nil && m.active.Alias == host.Alias {
				label += "  ●"
			}
			b.WriteString(cursor + style.Render(label))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter: connect • esc: back"))

	if m.connecting {
		b.WriteString("\n\n")
		b.WriteString(successStyle.Render("Connecting..."))
	}
	if m.err != nil {
		b.WriteString("\n\n")
		msg := fmt.Sprintf("Error: %v", m.err)
		if strings.Contains(msg, "\n") {
			msg = strings.ReplaceAll(msg, "\n", " ")
		}
		b.WriteString(errorStyle.Render(msg))
	}

	return boxStyle.Render(b.String())
}
