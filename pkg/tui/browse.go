package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sftui/sftui/pkg/browser"
	"github.com/sftui/sftui/pkg/ssh"
	"github.com/skratchdot/open-golang/open"
)

// paneSide identifies which pane a message or key press targets.
type paneSide int

const (
	sideLocal paneSide = iota
	sideRemote
)

// paneLoadedMsg carries the result of an asynchronous directory listing.
// seq is the pane request number; stale results are dropped on receipt.
type paneLoadedMsg struct {
	side    paneSide
	seq     int
	dir     string
	entries []browser.Entry
	err     error
}

// openConnectMsg asks the app to show the connection dialog.
type openConnectMsg struct{}

// openTransferMsg asks the app to show the transfer review dialog.
type openTransferMsg struct{}

// BrowseModel is the dual-pane file browser.
type BrowseModel struct {
	local  *browser.Pane
	remote *browser.Pane
	active paneSide

	manager *ssh.Manager

	searching   bool
	searchInput textinput.Model

	creatingFolder bool
	folderInput    textinput.Model

	statusMsg string
	err       error
	width     int
	height    int
}

// NewBrowseModel creates the browser over the two panes.
func NewBrowseModel(local, remote *browser.Pane, manager *ssh.Manager) *BrowseModel {
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "
	search.CharLimit = 156
	search.Width = 40

	folder := textinput.New()
	folder.Placeholder = "New Folder Name"
	folder.CharLimit = 156
	folder.Width = 40

	return &BrowseModel{
		local:       local,
		remote:      remote,
		active:      sideLocal,
		manager:     manager,
		searchInput: search,
		folderInput: folder,
	}
}

func (m *BrowseModel) pane(side paneSide) *browser.Pane {
	if side == sideLocal {
		return m.local
	}
	return m.remote
}

func (m *BrowseModel) activePane() *browser.Pane {
	return m.pane(m.active)
}

// loadCmd issues a sequenced background listing for dir on one pane.
func (m *BrowseModel) loadCmd(side paneSide, dir string) tea.Cmd {
	pane := m.pane(side)
	seq := pane.NextRequest()
	return func() tea.Msg {
		entries, err := pane.Load(dir)
		return paneLoadedMsg{side: side, seq: seq, dir: dir, entries: entries, err: err}
	}
}

// LoadLocal reloads the local pane's current directory.
func (m *BrowseModel) LoadLocal() tea.Cmd {
	return m.loadCmd(sideLocal, m.local.Path())
}

// LoadRemote navigates the remote pane to dir; used after a connection
// switch to land in the new session's working directory.
func (m *BrowseModel) LoadRemote(dir string) tea.Cmd {
	return m.loadCmd(sideRemote, dir)
}

// Refresh reloads both panes in place.
func (m *BrowseModel) Refresh() tea.Cmd {
	cmds := []tea.Cmd{m.LoadLocal()}
	if m.manager.Connected() {
		cmds = append(cmds, m.loadCmd(sideRemote, m.remote.Path()))
	}
	return tea.Batch(cmds...)
}

func (m *BrowseModel) Init() tea.Cmd {
	return m.LoadLocal()
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case paneLoadedMsg:
		pane := m.pane(msg.side)
		if !pane.Accept(msg.seq) {
			// Superseded by a newer request; drop it.
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		pane.Apply(msg.dir, msg.entries)
		m.err = nil
		return m, nil

	case tea.KeyMsg:
		if m.creatingFolder {
			return m.updateFolderInput(msg)
		}
		if m.searching {
			return m.updateSearchInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *BrowseModel) updateFolderInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		name := m.folderInput.Value()
		m.creatingFolder = false
		m.folderInput.Blur()
		m.folderInput.Reset()
		if name == "" {
			return m, nil
		}
		return m, m.createFolderCmd(name)
	case "esc":
		m.creatingFolder = false
		m.folderInput.Blur()
		m.folderInput.Reset()
		return m, nil
	}
	var cmd tea.Cmd
	m.folderInput, cmd = m.folderInput.Update(msg)
	return m, cmd
}

func (m *BrowseModel) updateSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		// Keep the filter, leave input mode.
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.activePane().ClearSearch()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.activePane().SetSearch(m.searchInput.Value())
	return m, cmd
}

func (m *BrowseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		if m.active == sideLocal {
			m.active = sideRemote
		} else {
			m.active = sideLocal
		}

	case "up", "k":
		m.activePane().MoveCursor(-1)

	case "down", "j":
		m.activePane().MoveCursor(1)

	case "enter":
		pane := m.activePane()
		if target, ok := pane.EnterTarget(); ok {
			return m, m.loadCmd(m.active, target)
		}

	case " ":
		m.activePane().ToggleSelection()

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.activePane().Query())
		m.searchInput.Focus()
		return m, textinput.Blink

	case "c":
		return m, func() tea.Msg { return openConnectMsg{} }

	case "t":
		if m.local.SelectionCount() == 0 && m.remote.SelectionCount() == 0 {
			m.err = browser.ErrEmptySelection
			return m, nil
		}
		return m, func() tea.Msg { return openTransferMsg{} }

	case "n":
		m.creatingFolder = true
		m.folderInput.Reset()
		m.folderInput.Focus()
		return m, textinput.Blink

	case "r":
		m.statusMsg = "Refreshed"
		return m, m.Refresh()

	case "y":
		if e, ok := m.activePane().CursorEntry(); ok && e.Kind != browser.KindParent {
			if err := clipboard.WriteAll(e.Path); err != nil {
				m.err = fmt.Errorf("clipboard: %w", err)
			} else {
				m.statusMsg = fmt.Sprintf("Copied path: %s", e.Path)
			}
		}

	case "o":
		if m.active != sideLocal {
			return m, nil
		}
		if e, ok := m.local.CursorEntry(); ok && e.Kind == browser.KindFile {
			if err := open.Run(e.Path); err != nil {
				m.err = fmt.Errorf("failed to open %s: %w", e.Name, err)
			}
		}

	case "esc":
		pane := m.activePane()
		if pane.Query() != "" {
			pane.ClearSearch()
			m.searchInput.Reset()
		}
		m.err = nil
		m.statusMsg = ""
	}

	return m, nil
}

func (m *BrowseModel) createFolderCmd(name string) tea.Cmd {
	side := m.active
	pane := m.pane(side)
	dir := pane.Path()
	target := pane.Source().Join(dir, name)
	seq := pane.NextRequest()
	return func() tea.Msg {
		if err := pane.Source().Mkdir(target); err != nil {
			return paneLoadedMsg{side: side, seq: seq, err: fmt.Errorf("failed to create folder: %w", err)}
		}
		entries, err := pane.Load(dir)
		return paneLoadedMsg{side: side, seq: seq, dir: dir, entries: entries, err: err}
	}
}

func (m *BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("📁 sftui"))
	if host := m.manager.ActiveHost(); host != nil {
		b.WriteString(pathStyle.Render("  " + host.String()))
	} else {
		b.WriteString(pathStyle.Render("  not connected — press c"))
	}
	b.WriteString("\n\n")

	paneWidth := (m.width - 6) / 2
	if paneWidth < 30 {
		paneWidth = 30
	}
	paneHeight := m.height - 10
	if paneHeight < 10 {
		paneHeight = 10
	}

	localView := m.renderPane(m.local, "💻 Local", paneWidth, paneHeight)
	remoteView := m.renderPane(m.remote, "🌐 Remote", paneWidth, paneHeight)

	if m.active == sideLocal {
		localView = activePaneStyle.Height(paneHeight).Render(localView)
		remoteView = inactivePaneStyle.Height(paneHeight).Render(remoteView)
	} else {
		localView = inactivePaneStyle.Height(paneHeight).Render(localView)
		remoteView = activePaneStyle.Height(paneHeight).Render(remoteView)
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, localView, "  ", remoteView))
	b.WriteString("\n")

	if m.searching {
		b.WriteString("\n")
		b.WriteString(m.searchInput.View())
	}
	if m.creatingFolder {
		popup := boxStyle.Render(fmt.Sprintf("Create New Folder\n\n%s", m.folderInput.View()))
		b.WriteString("\n")
		b.WriteString(popup)
	}

	b.WriteString(helpStyle.Render("tab: switch • space: select • enter: open • t: transfer • c: connect • /: search • n: new folder • r: refresh • q: quit"))

	if staged := m.local.SelectionCount() + m.remote.SelectionCount(); staged > 0 {
		b.WriteString("\n")
		b.WriteString(successStyle.Render(fmt.Sprintf("%d selected", staged)))
	}
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(successStyle.Render("✓ " + m.statusMsg))
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return b.String()
}

func (m *BrowseModel) renderPane(pane *browser.Pane, title string, width, height int) string {
	var b strings.Builder

	header := title
	if n := pane.SelectionCount(); n > 0 {
		header = fmt.Sprintf("%s (%d selected)", title, n)
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n")

	p := pane.Path()
	if pane.Query() != "" {
		p = fmt.Sprintf("%s  [filter: %s]", p, pane.Query())
	}
	if len(p) > width-4 {
		p = "..." + p[len(p)-(width-7):]
	}
	b.WriteString(pathStyle.Render(p))
	b.WriteString("\n\n")

	entries := pane.View()
	cursor := pane.Cursor()

	// Window the listing around the cursor.
	displayCount := height - 3
	if displayCount < 5 {
		displayCount = 5
	}
	startIdx := 0
	if cursor > displayCount/2 && len(entries) > displayCount {
		startIdx = cursor - displayCount/2
	}
	endIdx := startIdx + displayCount
	if endIdx > len(entries) {
		endIdx = len(entries)
	}

	for i := startIdx; i < endIdx; i++ {
		e := entries[i]
		prefix := "  "
		style := itemStyle
		if cursor == i {
			prefix = "→ "
			style = selectedItemStyle
		} else if pane.IsSelected(e) {
			style = markedItemStyle
		}

		mark := " "
		if pane.IsSelected(e) {
			mark = "✓"
		}

		icon := "📄"
		if e.IsDir() {
			icon = "📁"
		}

		name := e.Name
		if len(name) > width-15 {
			name = name[:width-18] + "..."
		}

		b.WriteString(prefix + style.Render(fmt.Sprintf("%s %s %s", mark, icon, name)))
		b.WriteString("\n")
	}

	return b.String()
}
