package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardscan/internal/results"
)

// ErrCancelled is returned when the user aborts a running scan.
var ErrCancelled = errors.New("scan cancelled")

type scanDoneMsg struct {
	snap results.Snapshot
}

type loaderModel struct {
	label   string
	scanFn  func(ctx context.Context) results.Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model
	result  results.Snapshot
	err     error
	done    bool
}

func newLoaderModel(ctx context.Context, label string, scanFn func(ctx context.Context) results.Snapshot) loaderModel {
	ctx, cancel := context.WithCancel(ctx)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{
		label:   label,
		scanFn:  scanFn,
		ctx:     ctx,
		cancel:  cancel,
		spinner: s,
	}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doScan(), m.spinner.Tick)
}

func (m loaderModel) doScan() tea.Cmd {
	ctx, scanFn := m.ctx, m.scanFn
	return func() tea.Msg {
		return scanDoneMsg{snap: scanFn(ctx)}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		m.result = msg.snap
		m.done = true
		m.cancel()
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			m.cancel()
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Scanning %s...\n", m.spinner.View(), m.label)
}

// RunScanLoader shows a spinner while scanFn runs. It renders inline (no alt
// screen). ctrl+c cancels the scan context and returns ErrCancelled.
func RunScanLoader(ctx context.Context, label string, scanFn func(ctx context.Context) results.Snapshot) (results.Snapshot, error) {
	m := newLoaderModel(ctx, label, scanFn)
	defer m.cancel()

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return results.Snapshot{}, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
