package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/texgraph/pkg/document"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerSections are the styles offered for non-beamer documents.
var pickerSections = []document.Section{
	document.SectionSection,
	document.SectionSubsection,
	document.SectionSubsubsection,
	document.SectionChapter,
}

// =============================================================================
// SectionPickerModel - Interactive sectioning style selection
// =============================================================================

// SectionPickerModel is the bubbletea model for choosing the sectioning
// command of each figure in a document.
type SectionPickerModel struct {
	Titles []string
	// Styles holds the current choice per figure.
	Styles    []document.Section
	Cursor    int
	Confirmed bool
}

// NewSectionPickerModel starts from the figures' current styles.
func NewSectionPickerModel(figs []document.Figure) SectionPickerModel {
	m := SectionPickerModel{
		Titles: make([]string, len(figs)),
		Styles: make([]document.Section, len(figs)),
	}
	for i, f := range figs {
		m.Titles[i] = f.Title
		m.Styles[i] = f.Style
		if sectionIndex(f.Style) < 0 {
			m.Styles[i] = document.SectionSection
		}
	}
	return m
}

func (m SectionPickerModel) Init() tea.Cmd {
	return nil
}

func (m SectionPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.Confirmed = true
		return m, tea.Quit
	}
	if len(m.Titles) == 0 {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Titles)-1 {
			m.Cursor++
		}
	case "left", "h":
		m.Styles = m.cycled(-1)
	case "right", "l", " ":
		m.Styles = m.cycled(1)
	}
	return m, nil
}

// cycled returns a copy of Styles with the current figure's style moved by
// step through pickerSections.
func (m SectionPickerModel) cycled(step int) []document.Section {
	out := make([]document.Section, len(m.Styles))
	copy(out, m.Styles)
	n := len(pickerSections)
	i := (sectionIndex(out[m.Cursor]) + step + n) % n
	out[m.Cursor] = pickerSections[i]
	return out
}

func sectionIndex(s document.Section) int {
	for i, p := range pickerSections {
		if p == s {
			return i
		}
	}
	return -1
}

func (m SectionPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Figure Sections"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ figure  ←/→ style  ⏎ write  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Titles))
	for i, title := range m.Titles {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		if title == "" {
			title = "—"
		}
		rows[i] = []string{cursor, title, `\` + string(m.Styles[i])}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Figure", "Command").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Titles))))

	return b.String()
}
