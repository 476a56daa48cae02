package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"shireesh.com/framegen/internal/catalog"
)

var ErrAborted = errors.New("selection aborted")

type model struct {
	choices  []catalog.Manifest
	cursor   int
	selected bool
	aborted  bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Choose a template:\n\n"
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		s += cursor + " " + choice.Name
		if choice.Description != "" {
			s += " - " + choice.Description
		}
		s += "\n"
	}
	if m.selected {
		s += "\nGenerating project...\n"
	}
	return s
}

// SelectTemplate shows the sets and returns the catalog directory of the chosen one.
func SelectTemplate(templates []catalog.Manifest) (string, error) {
	if len(templates) == 0 {
		return "", errors.New("no templates available")
	}
	p := tea.NewProgram(model{choices: templates})
	m, err := p.Run()
	if err != nil {
		return "", err
	}
	return chosen(m.(model))
}

func chosen(m model) (string, error) {
	if m.aborted || !m.selected {
		return "", ErrAborted
	}
	c := m.choices[m.cursor]
	if c.Dir != "" {
		return c.Dir, nil
	}
	return c.Name, nil
}
