package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerItem is one entry shown in the interactive record picker.
type PickerItem struct {
	Label    string // record title
	SubLabel string // network and function, shown dimmed
	Meta     string // right column: last update and short id
	Value    string // record id returned on selection
}

// pickerModel drives the record picker. Labels are padded to a shared width
// so the dimmed columns line up; digits 1-9 select directly.
type pickerModel struct {
	title    string
	items    []PickerItem
	labelW   int
	subW     int
	cursor   int
	selected *PickerItem
	quitting bool
}

func newPickerModel(title string, items []PickerItem) pickerModel {
	m := pickerModel{title: title, items: items}
	for _, item := range items {
		if w := lipgloss.Width(item.Label); w > m.labelW {
			m.labelW = w
		}
		if w := lipgloss.Width(item.SubLabel); w > m.subW {
			m.subW = w
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.pick(m.cursor)
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return m.pick(int(key[0] - '1'))
		}
	}
	return m, nil
}

func (m pickerModel) pick(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.items) {
		return m, nil
	}
	item := m.items[i]
	m.cursor = i
	m.selected = &item
	return m, tea.Quit
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(StyleTitle.Render("  "+m.title) + "\n\n")

	for i, item := range m.items {
		prefix := "  "
		if i == m.cursor {
			prefix += "▸ "
		} else {
			prefix += "  "
		}
		if i < 9 {
			prefix += fmt.Sprintf("%d ", i+1)
		} else {
			prefix += "  "
		}

		line := prefix + StyleValue.Render(padR(item.Label, m.labelW))
		if m.subW > 0 {
			line += "  " + StyleMeta.Render(padR(item.SubLabel, m.subW))
		}
		if item.Meta != "" {
			line += "  " + StyleMeta.Render(item.Meta)
		}

		if i == m.cursor {
			sb.WriteString(StyleSelected.Render(line) + "\n")
		} else {
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(StyleMeta.Render("  [ ↑↓ / jk ] navigate   [ 1-9 / Enter ] select   [ q ] cancel") + "\n")
	return sb.String()
}

// PickItem runs the record picker and returns the selected item's Value.
// Returns ("", nil) if the user cancels. Returns an error only on TUI failure.
func PickItem(title string, items []PickerItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items to pick from")
	}

	p := tea.NewProgram(newPickerModel(title, items), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}

	fm := final.(pickerModel)
	if fm.quitting || fm.selected == nil {
		return "", nil
	}
	return fm.selected.Value, nil
}
