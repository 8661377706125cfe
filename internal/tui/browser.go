package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardscan/internal/board"
	"github.com/amishk599/boardscan/internal/filter"
	"github.com/amishk599/boardscan/internal/model"
	"github.com/amishk599/boardscan/internal/results"
)

// Lines per job item in the list view (title + subtitle + blank separator).
const jobItemHeight = 3

// Hints shown with the results.
const (
	EmptyHint       = "No matches yet. Add more boards, widen locations, or enable SerpAPI."
	LowRawTotalHint = "If raw pulled looks low, add more boards or enable SerpAPI."
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

// Action tells the caller what to do after the browser exits.
type Action int

const (
	ActionQuit Action = iota
	ActionRescan
	ActionPickPreset
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

type browserModel struct {
	holder *results.Holder
	order  results.Order
	jobs   []model.Job // holder snapshot in the current order
	links  []board.Link
	now    func() time.Time

	listViewport  viewport.Model
	diagViewport  viewport.Model
	activePane    int // 0=matches, 1=diagnostics
	cursor        int
	width, height int
	ready         bool

	view           viewState
	detailJob      model.Job
	detailViewport viewport.Model

	action Action
	opener func(string)
}

func newBrowserModel(holder *results.Holder, order results.Order, links []board.Link) browserModel {
	m := browserModel{
		holder: holder,
		order:  order,
		links:  links,
		now:    time.Now,
		opener: openURL,
	}
	m.resort()
	return m
}

// resort rebuilds the visible list from the held snapshot. No fetch happens.
func (m *browserModel) resort() {
	snap, ok := m.holder.Last()
	if !ok {
		m.jobs = nil
		return
	}
	m.jobs = results.Sort(snap.Jobs, m.order, m.now())
	m.cursor = clamp(m.cursor, 0, max(len(m.jobs)-1, 0))
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browserModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.action = ActionQuit
		return m, tea.Quit
	case "r":
		m.action = ActionRescan
		return m, tea.Quit
	case "p", "esc":
		m.action = ActionPickPreset
		return m, tea.Quit
	case "s":
		m.order = m.order.Next()
		m.resort()
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		if m.activePane == 0 {
			m.cursor = clamp(m.cursor-1, 0, max(len(m.jobs)-1, 0))
			m.recalcContent()
			m.ensureCursorVisible()
			return m, nil
		}
	case "down", "j":
		if m.activePane == 0 {
			m.cursor = clamp(m.cursor+1, 0, max(len(m.jobs)-1, 0))
			m.recalcContent()
			m.ensureCursorVisible()
			return m, nil
		}
	case "o":
		if m.activePane == 0 && len(m.jobs) > 0 && m.jobs[m.cursor].URL != "" {
			m.opener(m.jobs[m.cursor].URL)
		}
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.listViewport, cmd = m.listViewport.Update(msg)
	} else {
		m.diagViewport, cmd = m.diagViewport.Update(msg)
	}
	return m, cmd
}

func (m browserModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.action = ActionQuit
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.detailJob.URL != "" {
			m.opener(m.detailJob.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browserModel) openDetailView() (tea.Model, tea.Cmd) {
	if m.activePane != 0 || len(m.jobs) == 0 {
		return m, nil
	}
	m.view = viewDetail
	m.detailJob = m.jobs[m.cursor]
	m.detailViewport = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browserModel) ensureCursorVisible() {
	vp := &m.listViewport
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m *browserModel) recalcLayout() {
	// Matches get two thirds of the width; 2 border chars per pane + 1 gap.
	usable := max(m.width-5, 40)
	listWidth := usable * 2 / 3
	diagWidth := usable - listWidth

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(listWidth, paneHeight)
		m.diagViewport = viewport.New(diagWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = listWidth
		m.listViewport.Height = paneHeight
		m.diagViewport.Width = diagWidth
		m.diagViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browserModel) recalcContent() {
	m.listViewport.SetContent(renderJobs(m.jobs, m.cursor, m.activePane == 0, m.now()))
	snap, _ := m.holder.Last()
	m.diagViewport.SetContent(renderDiagnostics(snap, m.links))
}

func (m browserModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browserModel) viewList() string {
	snap, _ := m.holder.Last()

	listHeader := fmt.Sprintf(" Matches (%d) · %s · %s", len(m.jobs), snap.Preset, m.order.Label())
	diagHeader := " Diagnostics"

	var listHeaderRendered, diagHeaderRendered string
	var listBorder, diagBorder lipgloss.Style

	if m.activePane == 0 {
		listHeaderRendered = activeHeaderStyle.Render(listHeader)
		diagHeaderRendered = inactiveHeaderStyle.Render(diagHeader)
		listBorder = activeBorderStyle.Width(m.listViewport.Width)
		diagBorder = inactiveBorderStyle.Width(m.diagViewport.Width)
	} else {
		listHeaderRendered = inactiveHeaderStyle.Render(listHeader)
		diagHeaderRendered = activeHeaderStyle.Render(diagHeader)
		listBorder = inactiveBorderStyle.Width(m.listViewport.Width)
		diagBorder = activeBorderStyle.Width(m.diagViewport.Width)
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.listViewport.Width+2).Render(listHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(m.diagViewport.Width+2).Render(diagHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		listBorder.Render(m.listViewport.View()),
		" ",
		diagBorder.Render(m.diagViewport.View()),
	)

	statusText := " ↑/↓ cursor  Enter detail  o open  s sort  Tab switch  r rescan  p preset  q quit"
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browserModel) viewDetail() string {
	title := detailTitleStyle.Render("Job Details")
	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())
	statusBar := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + statusBar
}

func (m browserModel) renderDetail() string {
	j := m.detailJob
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", j.Title)
	addField("Company", j.Company)
	addField("Location", orNA(j.Location))
	addField("Source", string(j.Source))
	addField("Team", j.Team)
	addField("Commitment", j.Commitment)
	if len(j.Tags) > 0 {
		addField("Tags", strings.Join(j.Tags, ", "))
	}

	b.WriteByte('\n')
	addField("Posted", postedLabel(j, m.now()))
	addField("URL", j.URL)

	if j.Description != "" {
		wrapWidth := max(m.width-8, 20)
		fill := strings.Repeat("─", max(wrapWidth-len("── Description "), 3))
		b.WriteByte('\n')
		b.WriteString(dividerStyle.Render("── Description "+fill) + "\n\n")
		b.WriteString(wordWrap(j.Description, wrapWidth) + "\n")
	}

	return b.String()
}

func renderJobs(jobs []model.Job, cursor int, isActive bool, now time.Time) string {
	if len(jobs) == 0 {
		return "  " + hintStyle.Render(EmptyHint)
	}

	var b strings.Builder
	for i, j := range jobs {
		isSelected := isActive && i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		sub := fmt.Sprintf("%s · %s · %s · %s", j.Company, orNA(j.Location), j.Source, postedLabel(j, now))
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(sub))
		b.WriteByte('\n')

		if i < len(jobs)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderDiagnostics(snap results.Snapshot, links []board.Link) string {
	d := snap.Diagnostics
	var b strings.Builder

	fmt.Fprintf(&b, "Boards scanned: %d\n", d.BoardsScanned)
	fmt.Fprintf(&b, "Raw jobs pulled: %d\n", snap.RawTotal)
	fmt.Fprintf(&b, "After dedupe: %d\n", d.Unique)
	b.WriteString("\nBy source:\n")

	sources := make([]string, 0, len(d.Counts))
	for s := range d.Counts {
		sources = append(sources, string(s))
	}
	sort.Strings(sources)
	for _, s := range sources {
		fmt.Fprintf(&b, "  %-11s %d\n", s, d.Counts[model.Source(s)])
	}
	fmt.Fprintf(&b, "  %-11s %d\n", model.SourceUnknown, d.Unrecognized)

	if len(d.Failures) > 0 {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("%d fetch(es) failed:", len(d.Failures))) + "\n")
		for _, f := range d.Failures {
			fmt.Fprintf(&b, "  %s %s\n", f.Source, f.Identifier)
		}
	}

	b.WriteString("\n" + hintStyle.Render(LowRawTotalHint) + "\n")

	if len(links) > 0 {
		b.WriteString("\nLinkedIn searches:\n")
		for _, l := range links {
			fmt.Fprintf(&b, "  %s · %s\n  %s\n", l.Keyword, l.Location, l.URL)
		}
	}
	return b.String()
}

func postedLabel(j model.Job, now time.Time) string {
	if age, ok := filter.PostedAge(j, now); ok {
		return fmt.Sprintf("~%d days ago", age)
	}
	if j.PostedAt != "" {
		return j.PostedAt
	}
	return "date n/a"
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowser shows the held scan results full screen. Changing the sort order
// re-renders the held snapshot; the returned Action says whether the caller
// should rescan, pick another preset or exit.
func RunBrowser(holder *results.Holder, order results.Order, links []board.Link) (Action, error) {
	m := newBrowserModel(holder, order, links)

	result, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return ActionQuit, err
	}
	return result.(browserModel).action, nil
}
