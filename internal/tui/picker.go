package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/boardscan/internal/preset"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerKeywordsStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 0, 0, 6)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type pickerModel struct {
	presets []preset.Preset
	cursor  int
	chosen  int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.presets) > 0 {
				m.chosen = m.cursor
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("boardscan: choose a scan preset"))
	b.WriteByte('\n')

	for i, p := range m.presets {
		label := fmt.Sprintf("%s (%s)", p.Name, p.Description)
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + label))
			b.WriteByte('\n')
			b.WriteString(pickerKeywordsStyle.Render(strings.Join(p.Keywords, " · ")))
		} else {
			b.WriteString(pickerItemStyle.Render(label))
		}
		b.WriteByte('\n')
	}

	b.WriteString(pickerHintStyle.Render("↑/↓/j/k navigate  enter scan  q quit"))
	return b.String()
}

// RunPresetPicker shows an interactive preset selector. ok is false when the
// user quit without choosing.
func RunPresetPicker(presets []preset.Preset) (chosen preset.Preset, ok bool, err error) {
	m := pickerModel{presets: presets, chosen: -1}

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return preset.Preset{}, false, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return preset.Preset{}, false, nil
	}
	return final.presets[final.chosen], true, nil
}
