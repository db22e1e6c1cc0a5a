package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Terminal palette. Numbers are ANSI 256 codes.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleLabel       = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// statusMark is the coloured glyph printed in front of a status line.
type statusMark struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = statusMark{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	markFail = statusMark{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarn = statusMark{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = statusMark{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (m statusMark) println(msg string) {
	fmt.Println(m.style.Render(m.glyph) + " " + msg)
}

func printSuccess(format string, args ...any) { markOK.println(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any) { markFail.println(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any) { markInfo.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarn.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces an artifact written to disk.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarises a render: how many words came in, how many were
// placed or dropped, and whether the image came from the cache.
func printStats(words, placed, dropped int, cached bool) {
	parts := []string{fmt.Sprintf("%d words", words), fmt.Sprintf("%d placed", placed)}
	if dropped > 0 {
		parts = append(parts, fmt.Sprintf("%d dropped", dropped))
	}
	origin := lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + origin)
}

// printTable prints rows under headers with a rounded border. Columns
// listed in right are right-aligned.
func printTable(headers []string, rows [][]string, right ...int) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(colorAccent)
			case slices.Contains(right, col):
				return s.Align(lipgloss.Right).Foreground(colorText)
			}
			return s
		})
	fmt.Println(t)
}

// bar draws a horizontal bar of width cells for share in [0, 1].
func bar(share float64, width int) string {
	n := max(0, min(int(share*float64(width)+0.5), width))
	return StyleHighlight.Render(strings.Repeat("█", n)) + StyleDim.Render(strings.Repeat("·", width-n))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }
