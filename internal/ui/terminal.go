package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TerminalUI implements the UI interface using Bubble Tea and Huh.
type TerminalUI struct{}

// NewTerminalUI creates a new TerminalUI instance
func NewTerminalUI() *TerminalUI {
	return &TerminalUI{}
}

// SelectTemplate displays templates next to a preview of their files.
func (t *TerminalUI) SelectTemplate(choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	program := tea.NewProgram(newTemplateSelector(choices), tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("failed to run selection: %w", err)
	}

	result := finalModel.(*templateSelectorModel)
	if result.cancelled {
		return "", ErrUserAborted
	}

	return result.selectedName, nil
}

// Prompt uses huh.Form for text input
func (t *TerminalUI) Prompt(prompt string) (string, error) {
	return huhPrompt(prompt)
}

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("57")).
			Bold(true)
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))
)

// templateSelectorModel is the Bubble Tea model for template selection with preview
type templateSelectorModel struct {
	choices       []Choice
	selectedIndex int
	selectedName  string
	cancelled     bool
	viewport      viewport.Model
	ready         bool
	width         int
	height        int
}

func newTemplateSelector(choices []Choice) *templateSelectorModel {
	return &templateSelectorModel{
		choices:  choices,
		viewport: viewport.New(0, 0),
	}
}

func (m *templateSelectorModel) Init() tea.Cmd {
	return nil
}

func (m *templateSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// The list takes 40% of the width.
		listWidth := int(float64(msg.Width) * 0.4)
		m.viewport.Width = max(msg.Width-listWidth-3, 20)
		m.viewport.Height = max(msg.Height-4, 1)

		if !m.ready {
			m.ready = true
			m.updatePreview()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if len(m.choices) > 0 {
				m.selectedName = m.choices[m.selectedIndex].Name
			}
			return m, tea.Quit

		case "up", "k":
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.updatePreview()
			}

		case "down", "j":
			if m.selectedIndex < len(m.choices)-1 {
				m.selectedIndex++
				m.updatePreview()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *templateSelectorModel) updatePreview() {
	if len(m.choices) == 0 {
		return
	}
	m.viewport.SetContent(m.choices[m.selectedIndex].preview())
}

func (m *templateSelectorModel) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	items := []string{titleStyle.Render("Select Template:"), ""}
	for i, c := range m.choices {
		line := fmt.Sprintf("  %s (used %d times)", c.Name, c.Count)
		if i == m.selectedIndex {
			line = selectedStyle.Render("▶ " + line)
		} else {
			line = normalStyle.Render("  " + line)
		}
		items = append(items, line)
	}

	listView := lipgloss.NewStyle().
		Width(max(int(float64(m.width)*0.4), 30)).
		Height(max(m.height-4, 1)).
		Render(strings.Join(items, "\n"))

	preview := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Files:"),
		borderStyle.Render(m.viewport.View()),
	)

	main := lipgloss.JoinHorizontal(lipgloss.Top, listView, "  ", preview)
	instructions := normalStyle.Render("↑/↓: navigate • enter: select • q/esc: quit")

	return lipgloss.JoinVertical(lipgloss.Left, main, "", instructions)
}
