package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// captureStdout redirects status output for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintStatsSkipsZeros(t *testing.T) {
	tests := []struct {
		name  string
		stats []stat
		want  string
	}{
		{"all set", []stat{{3, "moves"}, {1, "swaps"}}, "3 moves · 1 swaps"},
		{"zero skipped", []stat{{0, "moves"}, {2, "items"}}, "2 items"},
		{"all zero", []stat{{0, "moves"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(tt.stats...)
			got := strings.TrimSpace(out.String())
			if got != tt.want {
				t.Errorf("printStats() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	out := captureStdout(t)
	printSuccess("placed %s", "mail")
	printFile("home.svg")
	printKeyValue("home", "5x6")

	got := out.String()
	for _, want := range []string{iconSuccess + " placed mail", iconArrow + " home.svg", "home", "5x6"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestStyleGridKeepsLayout(t *testing.T) {
	text := "aa.\n@B.\n\na clock [(0,0) 2x1]\n"
	got := styleGrid(text)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 || lines[2] != "" {
		t.Fatalf("styleGrid() lines = %q", lines)
	}
	if !strings.Contains(got, "clock") {
		t.Errorf("legend dropped: %q", got)
	}
}

func TestCellStyle(t *testing.T) {
	tests := []struct {
		r    rune
		want lipgloss.Style
	}{
		{'.', styleCellFree},
		{'@', styleCellDragged},
		{'B', styleCellPending},
		{'b', styleCellItem},
		{'7', styleCellItem},
	}
	for _, tt := range tests {
		got := cellStyle(tt.r)
		if got.GetForeground() != tt.want.GetForeground() || got.GetBold() != tt.want.GetBold() {
			t.Errorf("cellStyle(%q) = %v, want %v", tt.r, got.GetForeground(), tt.want.GetForeground())
		}
	}
}
