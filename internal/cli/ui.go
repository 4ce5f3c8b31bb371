package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all status output. Tests swap it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, pending moves
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(16)

	// Grid cells: committed items, pending destinations, the dragged item.
	styleCellItem    = lipgloss.NewStyle().Foreground(colorWhite)
	styleCellPending = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleCellDragged = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleCellFree    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func writeLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, ""))
}

func printSuccess(format string, args ...any) {
	writeLine(styleIconSuccess.Render(iconSuccess), " ", fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	writeLine(styleIconError.Render(iconError), " ", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	writeLine(styleIconWarning.Render(iconWarning), " ", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	writeLine(styleIconInfo.Render(iconInfo), " ", fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	writeLine("  ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	writeLine("  ", StyleDim.Render(iconArrow), " ", StyleValue.Render(path))
}

// printKeyValue prints a value after a fixed-width key column. Page IDs are
// the usual keys, so the column fits a short ID.
func printKeyValue(key, value string) {
	writeLine(styleKey.Render(key), " ", StyleValue.Render(value))
}

// printStats prints counters on a single dim line, skipping zero values.
func printStats(stats ...stat) {
	var parts []string
	for _, s := range stats {
		if s.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", s.n, s.label))
		}
	}
	if len(parts) == 0 {
		return
	}
	writeLine("  ", StyleDim.Render(strings.Join(parts, " · ")))
}

type stat struct {
	n     int
	label string
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	writeLine(StyleDim.Render(description+":"), " ", styleCommand.Render(cmd))
}

func printNewline() { writeLine() }

// =============================================================================
// Grid Output
// =============================================================================

// cellStyle picks the style of one character of a render.Text grid: '.'
// free, lowercase committed items, uppercase pending destinations, '@' the
// dragged item.
func cellStyle(r rune) lipgloss.Style {
	switch {
	case r == '.':
		return styleCellFree
	case r == '@':
		return styleCellDragged
	case r >= 'A' && r <= 'Z':
		return styleCellPending
	default:
		return styleCellItem
	}
}

// styleGrid colors a render.Text grid. The legend below it is dimmed.
func styleGrid(text string) string {
	grid, legend, _ := strings.Cut(text, "\n\n")
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(grid, "\n"), "\n") {
		for _, r := range line {
			b.WriteString(cellStyle(r).Render(string(r)))
		}
		b.WriteByte('\n')
	}
	if legend != "" {
		b.WriteByte('\n')
		for _, line := range strings.Split(strings.TrimSuffix(legend, "\n"), "\n") {
			b.WriteString(StyleDim.Render(line))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
