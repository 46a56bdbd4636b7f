package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sftui/sftui/pkg/browser"
)

// transferProgressMsg reports one item's status change.
type transferProgressMsg struct {
	index int
	item  browser.Item
}

// transferDoneMsg reports batch completion with the final summary.
type transferDoneMsg struct {
	summary browser.Summary
}

// TransferModel is the transfer review dialog: it shows the queue for
// confirmation, then tracks per-item progress while the executor runs.
type TransferModel struct {
	queue    []browser.Item
	executor *browser.Executor

	updates   chan tea.Msg
	executing bool
	done      bool
	summary   browser.Summary
	width     int
	height    int
}

// NewTransferModel creates the review dialog for a planned queue.
func NewTransferModel(queue []browser.Item, executor *browser.Executor) *TransferModel {
	return &TransferModel{
		queue:    queue,
		executor: executor,
	}
}

func (m *TransferModel) Init() tea.Cmd {
	return nil
}

// Executing reports whether the batch is running; the dialog cannot be
// dismissed mid-batch.
func (m *TransferModel) Executing() bool {
	return m.executing
}

// Done reports whether the batch has finished.
func (m *TransferModel) Done() bool {
	return m.done
}

// start launches the executor in the background. The executor gets its
// own copy of the queue; the dialog's copy is updated from progress
// messages so the two goroutines never share items.
func (m *TransferModel) start() tea.Cmd {
	m.executing = true

	updates := make(chan tea.Msg, len(m.queue)*2+1)
	m.updates = updates

	run := make([]browser.Item, len(m.queue))
	copy(run, m.queue)

	go func() {
		summary := m.executor.Execute(context.Background(), run, func(i int, item browser.Item) {
			updates <- transferProgressMsg{index: i, item: item}
		})
		updates <- transferDoneMsg{summary: summary}
	}()

	return m.waitForUpdate
}

// waitForUpdate blocks on the executor's channel; re-issued after every
// message so no update is lost.
func (m *TransferModel) waitForUpdate() tea.Msg {
	return <-m.updates
}

func (m *TransferModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.executing && !m.done {
			return m, m.start()
		}
		return m, nil

	case transferProgressMsg:
		if msg.index >= 0 && msg.index < len(m.queue) {
			m.queue[msg.index] = msg.item
		}
		return m, m.waitForUpdate

	case transferDoneMsg:
		m.executing = false
		m.done = true
		m.summary = msg.summary
		return m, nil
	}

	return m, nil
}

func (m *TransferModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🚚 Transfer Queue"))
	b.WriteString("\n\n")

	for _, item := range m.queue {
		mark := "·"
		style := itemStyle
		switch item.Status {
		case browser.StatusInProgress:
			mark = "⟳"
			style = selectedItemStyle
		case browser.StatusSucceeded:
			mark = "✓"
			style = successStyle
		case browser.StatusFailed:
			mark = "✗"
			style = errorStyle
		}

		arrow := "↓"
		if item.Direction == browser.Upload {
			arrow = "↑"
		}

		name := item.Name
		if item.IsDir {
			name += "/"
		}

		line := fmt.Sprintf("%s %s %s → %s", mark, arrow, name, item.DestPath)
		if item.Status == browser.StatusFailed && item.Err != nil {
			line += fmt.Sprintf("  (%v)", item.Err)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.done:
		status := fmt.Sprintf("Done: %d succeeded, %d failed", m.summary.Completed, len(m.summary.Failed))
		if len(m.summary.Failed) > 0 {
			b.WriteString(errorStyle.Render(status))
		} else {
			b.WriteString(successStyle.Render(status))
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc: close"))
	case m.executing:
		b.WriteString(successStyle.Render("Transferring..."))
	default:
		b.WriteString(helpStyle.Render(fmt.Sprintf("%d items • enter: start • esc: cancel", len(m.queue))))
	}

	return boxStyle.Render(b.String())
}
