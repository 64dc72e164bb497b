package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/populationgenomics/pedviz/pkg/pedigree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// familyChoice is one row in the interactive family picker.
type familyChoice struct {
	ID          string
	Individuals int
	Founders    int
	Affected    int
}

// FamilyListModel is the bubbletea model for interactive family selection.
type FamilyListModel struct {
	Families []familyChoice
	Cursor   int
	Selected string
}

// NewFamilyListModel creates a new family list model.
func NewFamilyListModel(families []familyChoice) FamilyListModel {
	return FamilyListModel{Families: families}
}

func (m FamilyListModel) Init() tea.Cmd {
	return nil
}

func (m FamilyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Families)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Families[m.Cursor].ID
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m FamilyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Family"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, f := range m.Families {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		detail := fmt.Sprintf("%d individuals, %d founders", f.Individuals, f.Founders)
		if f.Affected > 0 {
			detail += fmt.Sprintf(", %d affected", f.Affected)
		}
		line := fmt.Sprintf("%s%-12s  %s", cursor, f.ID, listDimStyle.Render(detail))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Families))))

	return b.String()
}

// pickFamily lists the families in the input file and lets the user choose
// one interactively. With a single family it is returned without prompting.
func pickFamily(input string) (string, error) {
	entries, err := readEntriesFile(input)
	if err != nil {
		return "", err
	}
	families, err := pedigree.Families(entries)
	if err != nil {
		return "", err
	}
	if len(families) == 1 {
		return families[0].FamilyID, nil
	}

	choices := make([]familyChoice, len(families))
	for i, fam := range families {
		affected := 0
		for _, e := range fam.Entries() {
			if e.Affected == 1 {
				affected++
			}
		}
		choices[i] = familyChoice{
			ID:          fam.FamilyID,
			Individuals: fam.Len(),
			Founders:    len(fam.Founders()),
			Affected:    affected,
		}
	}

	final, err := tea.NewProgram(NewFamilyListModel(choices)).Run()
	if err != nil {
		return "", fmt.Errorf("family selection: %w", err)
	}
	model := final.(FamilyListModel)
	if model.Selected == "" {
		return "", fmt.Errorf("no family selected")
	}
	return model.Selected, nil
}
