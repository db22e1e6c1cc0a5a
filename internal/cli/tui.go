package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/tagcloud/pkg/words"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// WordPickerModel - Interactive word exclusion
// =============================================================================

// WordPickerModel is the bubbletea model for choosing words to leave out of
// a cloud. Words start included; space toggles the word under the cursor.
type WordPickerModel struct {
	Stats    []words.Stat
	Excluded words.Set
	Cursor   int
	Height   int
	Offset   int

	// Confirmed is set when the user accepted the selection with enter.
	Confirmed bool

	max int // highest count, for bar scaling
}

// NewWordPickerModel creates a picker over stats, which should be sorted by
// count.
func NewWordPickerModel(stats []words.Stat) WordPickerModel {
	m := WordPickerModel{
		Stats:    stats,
		Excluded: words.NewSet(),
		Height:   15,
	}
	for _, s := range stats {
		m.max = max(m.max, s.Count)
	}
	return m
}

// ExcludedWords returns the excluded words in list order.
func (m WordPickerModel) ExcludedWords() []string {
	var out []string
	for _, s := range m.Stats {
		if m.Excluded.Has(s.Word) {
			out = append(out, s.Word)
		}
	}
	return out
}

func (m WordPickerModel) Init() tea.Cmd {
	return nil
}

func (m WordPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case " ", "x":
			if len(m.Stats) == 0 {
				return m, nil
			}
			m.toggle(m.Stats[m.Cursor].Word)
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	}
	return m, nil
}

// toggle flips w between excluded and included. The set is copied so
// earlier model values keep their selection.
func (m *WordPickerModel) toggle(w string) {
	next := words.NewSet(m.Excluded.Sorted()...)
	if next.Has(w) {
		delete(next, w)
	} else {
		next.Add(w)
	}
	m.Excluded = next
}

func (m *WordPickerModel) move(delta int) {
	if len(m.Stats) == 0 {
		return
	}
	m.Cursor = max(0, min(m.Cursor+delta, len(m.Stats)-1))
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m WordPickerModel) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Pick Words"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space exclude/include  ⏎ render  q quit"))
	b.WriteString("\n\n")

	if len(m.Stats) == 0 {
		b.WriteString(listDimStyle.Render("  No words left after filtering."))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Stats))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Stats[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := "✓"
		if m.Excluded.Has(s.Word) {
			mark = "✗"
		}
		share := 0.0
		if m.max > 0 {
			share = float64(s.Count) / float64(m.max)
		}
		rows = append(rows, []string{cursor, mark, s.Word, strconv.Itoa(s.Count), bar(share, 20)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "", "Word", "Count", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Stats) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = base.Align(lipgloss.Right)
			}
			excluded := m.Excluded.Has(m.Stats[idx].Word)
			switch {
			case idx == m.Cursor && excluded:
				return base.Foreground(colorFail).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorOK).Bold(true)
			case excluded:
				return base.Foreground(colorFaint).Strikethrough(col == 2)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] · %d excluded", m.Cursor+1, len(m.Stats), len(m.Excluded))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
