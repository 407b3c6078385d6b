package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/minuteman-notes/minuteman/internal/model"
)

// Choice is one selectable meeting type with its score.
type Choice struct {
	Type        model.MeetingTypeID
	DisplayName string
	Score       float64
}

// keyMap defines the confirmation menu key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Quit   key.Binding
}

var defaultKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "accept"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
}

// confirmModel is the bubbletea model for the meeting-type menu. The
// preselected entry is the classified type; accepting without moving
// confirms it.
type confirmModel struct {
	title    string
	choices  []Choice
	cursor   int
	keys     keyMap
	selected model.MeetingTypeID
	aborted  bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Accept):
		m.selected = m.choices[m.cursor].Type
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	var b strings.Builder
	b.WriteString(FormatTitle(m.title) + "\n")

	for i, choice := range m.choices {
		line := fmt.Sprintf("%s (%.0f%%)", choice.DisplayName, choice.Score*100)
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString(SubtleStyle.Render("\n↑/↓ move · enter accept · q cancel") + "\n")
	return b.String()
}

// ConfirmMeetingType presents the ranked choices and returns the one the
// user picked. Cancelling returns the preselected default.
func ConfirmMeetingType(title string, choices []Choice) (model.MeetingTypeID, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no meeting types to choose from")
	}

	m := confirmModel{title: title, choices: choices, keys: defaultKeys}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("confirmation prompt failed: %w", err)
	}

	result := final.(confirmModel)
	if result.aborted || result.selected == "" {
		return choices[0].Type, nil
	}
	return result.selected, nil
}
