package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderProgressBar(t *testing.T) {
	cases := []struct {
		frac float64
		want string
	}{
		{0, "░░░░░░░░░░"},
		{0.5, "█████░░░░░"},
		{1, "██████████"},
		{1.7, "██████████"},
		{-1, "░░░░░░░░░░"},
	}
	for _, tc := range cases {
		if got := RenderProgressBar(tc.frac, 10); got != tc.want {
			t.Fatalf("RenderProgressBar(%v) = %q, want %q", tc.frac, got, tc.want)
		}
	}
}

func TestRenderTableAlignsWideCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Wish", "Target"},
		Rows: [][]string{
			{"Headphones", "¥300.00"},
			{"Bike", "¥2,000.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("table has %d lines, want 6:\n%s", len(lines), out)
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines {
		if lipgloss.Width(l) != w {
			t.Fatalf("line %d width = %d, want %d:\n%s", i, lipgloss.Width(l), w, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Headphones", 20); got != "Headphones" {
		t.Fatalf("Truncate short = %q", got)
	}
	got := Truncate("Noise cancelling headphones", 10)
	if lipgloss.Width(got) != 10 || !strings.HasSuffix(got, "…") {
		t.Fatalf("Truncate = %q (width %d), want 10 cells ending in …", got, lipgloss.Width(got))
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 7}); got != "▁█" {
		t.Fatalf("RenderSparkline = %q, want ▁█", got)
	}
	if RenderSparkline(nil) != "" {
		t.Fatal("RenderSparkline(nil) not empty")
	}
}
