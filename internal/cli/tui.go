package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// =============================================================================
// PackageListModel - Interactive knowledge base browser
// =============================================================================

// PackageListModel is the bubbletea model behind list-db --interactive.
// Enter toggles a detail pane with the selected package's alternatives.
type PackageListModel struct {
	Records  []kb.Record
	Cursor   int
	Height   int
	Offset   int
	Expanded bool
}

// NewPackageListModel creates a browser over records.
func NewPackageListModel(records []kb.Record) PackageListModel {
	return PackageListModel{Records: records, Height: 15}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(len(m.Records)-1, 0)
			m.Offset = max(m.Cursor-m.Height+1, 0)
		case "enter", " ":
			m.Expanded = !m.Expanded
		}
	case tea.WindowSizeMsg:
		// Leave room for the title, the footer and the detail pane.
		m.Height = max(msg.Height-14, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Deprecated Packages"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Records[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		source := r.Source
		if source == "" {
			source = "—"
		}
		rows = append(rows, []string{cursor, r.Name, r.DeprecatedSince, source, alternativeNames(r)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Since", "Source", "Alternatives").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			isCurrent := m.Offset+row == m.Cursor
			base := lipgloss.NewStyle()
			switch {
			case col == 1 && isCurrent:
				return base.Foreground(colorRed).Bold(true)
			case col == 1:
				return base.Foreground(colorWhite)
			case col == 4:
				return base.Foreground(colorGreen).Bold(isCurrent)
			case isCurrent:
				return base.Foreground(colorGray)
			default:
				return base.Foreground(colorDim)
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Records))))
	b.WriteString("\n")

	if m.Expanded && m.Cursor < len(m.Records) {
		b.WriteString("\n")
		b.WriteString(m.detail(m.Records[m.Cursor]))
	}
	return b.String()
}

func (m PackageListModel) detail(r kb.Record) string {
	var b strings.Builder
	b.WriteString(StyleDanger.Render(r.Name))
	b.WriteString(StyleDim.Render("  deprecated since " + r.DeprecatedSince))
	b.WriteString("\n  ")
	b.WriteString(r.Reason)
	b.WriteString("\n")
	if len(r.Alternatives) == 0 {
		b.WriteString(StyleDim.Render("  no known alternatives"))
		b.WriteString("\n")
	}
	for _, alt := range r.Alternatives {
		b.WriteString("  " + StyleDim.Render(iconArrow) + " " + StyleSuccess.Render(alt.Name))
		if alt.Reason != "" {
			b.WriteString(StyleDim.Render(" · " + alt.Reason))
		}
		b.WriteString("\n")
		if alt.MigrationGuide != "" {
			b.WriteString("    " + StyleLink.Render(alt.MigrationGuide) + "\n")
		}
	}
	return b.String()
}
