package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// errCancelled is returned when the user leaves a picker without choosing.
var errCancelled = errors.New("selection cancelled")

// chooser asks the user to pick one of items and returns its index.
type chooser func(title string, items []string) (int, error)

// pick runs the interactive picker on the terminal. It fails when stdin is
// not a terminal, since there is nobody to ask.
func pick(title string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("%s: nothing to choose from", title)
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return -1, fmt.Errorf("%s: a choice is required but stdin is not a terminal", title)
	}
	final, err := tea.NewProgram(newPickerModel(title, items), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return -1, err
	}
	m := final.(pickerModel)
	if m.Selected < 0 {
		return -1, errCancelled
	}
	return m.Selected, nil
}

// =============================================================================
// pickerModel - Interactive single choice
// =============================================================================

// pickerModel is the bubbletea model for choosing one line of a list.
// Typing narrows the list to lines containing the typed text.
type pickerModel struct {
	Title    string
	Items    []string
	Cursor   int // Index into the visible lines
	Offset   int
	Height   int
	Filter   string
	Selected int // Index into Items; -1 until chosen
}

func newPickerModel(title string, items []string) pickerModel {
	return pickerModel{Title: title, Items: items, Height: 15, Selected: -1}
}

// visible returns the Items indices matching Filter.
func (m pickerModel) visible() []int {
	needle := strings.ToLower(m.Filter)
	idx := make([]int, 0, len(m.Items))
	for i, it := range m.Items {
		if needle == "" || strings.Contains(strings.ToLower(it), needle) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		vis := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(vis)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if m.Cursor < len(vis) {
				m.Selected = vis[m.Cursor]
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		case tea.KeySpace:
			m.Filter += " "
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(listNormalStyle.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	vis := m.visible()
	end := min(m.Offset+m.Height, len(vis))
	for i := m.Offset; i < end; i++ {
		line := m.Items[vis[i]]
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(vis) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(vis)), len(vis))))
	return b.String()
}
