package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sftui/sftui/pkg/browser"
	"github.com/sftui/sftui/pkg/ssh"
	"github.com/sftui/sftui/pkg/sshconfig"
)

// AppState represents the current screen/state of the application
type AppState int

const (
	StateBrowse AppState = iota
	StateConnect
	StatePassword
	StateTransfer
)

// AppModel is the root model that routes messages to the active screen.
// Browsing is the home state; the other states are modal dialogs over
// it.
type AppModel struct {
	state AppState

	manager    *ssh.Manager
	localPane  *browser.Pane
	remotePane *browser.Pane

	browse   *BrowseModel
	connect  *ConnectModel
	transfer *TransferModel
	password *PasswordModel

	// Host waiting on a password before the connect attempt.
	pendingHost *sshconfig.Host
	// Host to auto-connect at startup (--host flag).
	autoHost *sshconfig.Host

	width  int
	height int
}

// NewAppModel creates the application over the ~/.ssh/config host
// records. autoHost, when non-nil, is connected at startup.
func NewAppModel(hosts []sshconfig.Host, autoHost *sshconfig.Host) *AppModel {
	manager := ssh.NewManager(hosts)

	localStart, err := os.Getwd()
	if err != nil {
		localStart, _ = os.UserHomeDir()
	}
	if localStart == "" {
		localStart = "/"
	}

	localPane := browser.NewPane(browser.NewLocalSource(), localStart)
	remotePane := browser.NewPane(browser.NewRemoteSource(manager), "/")

	return &AppModel{
		state:      StateBrowse,
		manager:    manager,
		localPane:  localPane,
		remotePane: remotePane,
		browse:     NewBrowseModel(localPane, remotePane, manager),
		autoHost:   autoHost,
	}
}

// Manager exposes the connection manager; the binary disconnects on
// exit.
func (m *AppModel) Manager() *ssh.Manager {
	return m.manager
}

func (m *AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.browse.Init()}
	if m.autoHost != nil {
		host := *m.autoHost
		m.autoHost = nil
		cmds = append(cmds, m.beginConnect(host))
	}
	return tea.Batch(cmds...)
}

// beginConnect routes a chosen host into the right flow: straight to a
// background dial, or through the password prompt first. One method is
// picked up front; there is no fallback chaining.
func (m *AppModel) beginConnect(host sshconfig.Host) tea.Cmd {
	if ssh.ConfigFor(host, "").NeedsPassword() {
		h := host
		m.pendingHost = &h
		m.password = NewPasswordModel(
			"🔐 Password Required",
			fmt.Sprintf("Password for %s", host.String()),
		)
		m.state = StatePassword
		return m.password.Init()
	}

	m.ensureConnectDialog()
	m.connect.SetConnecting()
	m.state = StateConnect
	return connectCmd(m.manager, host, "")
}

func (m *AppModel) ensureConnectDialog() {
	if m.connect == nil {
		m.connect = NewConnectModel(m.manager.Hosts(), m.manager.ActiveHost())
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// The browser must track size even while a dialog is open.
		updated, _ := m.browse.Update(msg)
		m.browse = updated.(*BrowseModel)
		if m.state == StateBrowse {
			return m, nil
		}

	case tea.KeyMsg:
		// Global quit
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case paneLoadedMsg:
		// Listing results always belong to the browser, whatever dialog
		// is on top.
		updated, cmd := m.browse.Update(msg)
		m.browse = updated.(*BrowseModel)
		return m, cmd

	case connectResultMsg:
		return m.handleConnectResult(msg)
	}

	switch m.state {
	case StateBrowse:
		return m.updateBrowse(msg)
	case StateConnect:
		return m.updateConnect(msg)
	case StatePassword:
		return m.updatePassword(msg)
	case StateTransfer:
		return m.updateTransfer(msg)
	default:
		return m, nil
	}
}

func (m *AppModel) handleConnectResult(msg connectResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Rejected credentials reopen the password prompt for another
		// attempt; everything else surfaces in the host picker.
		if m.pendingHost != nil && m.password != nil && errors.Is(msg.err, ssh.ErrAuth) {
			m.password.SetError(msg.err)
			m.state = StatePassword
			return m, nil
		}
		m.ensureConnectDialog()
		m.connect.SetError(msg.err)
		m.state = StateConnect
		return m, nil
	}

	m.pendingHost = nil
	m.password = nil
	m.connect = nil
	m.state = StateBrowse
	return m, m.browse.LoadRemote(msg.wd)
}

func (m *AppModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case openConnectMsg:
		m.connect = NewConnectModel(m.manager.Hosts(), m.manager.ActiveHost())
		m.state = StateConnect
		return m, m.connect.Init()

	case openTransferMsg:
		return m.openTransfer()
	}

	updated, cmd := m.browse.Update(msg)
	m.browse = updated.(*BrowseModel)
	return m, cmd
}

// openTransfer plans the queue from both panes: local selections become
// uploads, remote selections become downloads, each in listing order.
func (m *AppModel) openTransfer() (tea.Model, tea.Cmd) {
	var queue []browser.Item
	if items, err := browser.BuildQueue(m.localPane, m.remotePane); err == nil {
		queue = append(queue, items...)
	}
	if items, err := browser.BuildQueue(m.remotePane, m.localPane); err == nil {
		queue = append(queue, items...)
	}
	if len(queue) == 0 {
		return m, nil
	}

	executor := browser.NewExecutor(m.localPane.Source(), m.remotePane.Source())
	m.transfer = NewTransferModel(queue, executor)
	m.state = StateTransfer
	return m, m.transfer.Init()
}

func (m *AppModel) updateConnect(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" && !m.connect.connecting {
			m.connect = nil
			m.state = StateBrowse
			return m, nil
		}
	case hostChosenMsg:
		return m, m.beginConnect(msg.host)
	}

	updated, cmd := m.connect.Update(msg)
	m.connect = updated.(*ConnectModel)
	return m, cmd
}

func (m *AppModel) updatePassword(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PasswordSubmittedMsg:
		if msg.Cancelled {
			m.pendingHost = nil
			m.password = nil
			m.ensureConnectDialog()
			m.state = StateConnect
			return m, m.connect.Init()
		}

		host := *m.pendingHost
		m.ensureConnectDialog()
		m.connect.SetConnecting()
		m.state = StateConnect
		return m, connectCmd(m.manager, host, msg.Password)
	}

	updated, cmd := m.password.Update(msg)
	m.password = updated.(*PasswordModel)
	return m, cmd
}

func (m *AppModel) updateTransfer(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.transfer.Executing() {
				// No mid-batch abort.
				return m, nil
			}
			m.transfer = nil
			m.state = StateBrowse
			return m, m.browse.Refresh()
		case "enter":
			if m.transfer.Done() {
				m.transfer = nil
				m.state = StateBrowse
				return m, m.browse.Refresh()
			}
		}

	case transferProgressMsg:
		// Completed items drop out of the staged selection, so a retry
		// after partial failure only re-sends what actually failed.
		if msg.item.Status == browser.StatusSucceeded {
			if msg.item.Direction == browser.Upload {
				m.localPane.Deselect(msg.item.SourcePath)
			} else {
				m.remotePane.Deselect(msg.item.SourcePath)
			}
		}
	}

	updated, cmd := m.transfer.Update(msg)
	m.transfer = updated.(*TransferModel)
	return m, cmd
}

func (m *AppModel) View() string {
	switch m.state {
	case StateBrowse:
		return m.browse.View()
	case StateConnect:
		return m.connect.View()
	case StatePassword:
		return m.password.View()
	case StateTransfer:
		return m.transfer.View()
	default:
		return "Unknown state"
	}
}
