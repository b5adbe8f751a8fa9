package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// FPanel draws a framed box around lines to w using the current theme.
func FPanel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if vw := lipgloss.Width(ln); vw > maxw {
			maxw = vw
		}
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		fmt.Fprintln(w, t.V+" "+pad(ln, maxw)+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Grid lays out a header and rows as aligned text lines. Cells wider than
// maxCell are cut with an ellipsis; maxCell <= 0 means no limit.
func Grid(header []string, rows [][]string, maxCell int) []string {
	t := Current()
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range rows {
		for i := range header {
			if i < len(r) {
				widths[i] = max(widths[i], lipgloss.Width(Clip(r[i], maxCell)))
			}
		}
	}

	line := func(cells []string, color string) string {
		parts := make([]string, len(header))
		for i := range header {
			v := ""
			if i < len(cells) {
				v = Clip(cells[i], maxCell)
			}
			parts[i] = C(color, pad(v, widths[i]))
		}
		return strings.Join(parts, " "+t.V+" ")
	}

	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat(t.H, w)
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, line(header, t.Title))
	out = append(out, strings.Join(seps, t.H+t.Sep+t.H))
	for _, r := range rows {
		out = append(out, line(r, ""))
	}
	return out
}

// Clip shortens s to n display cells, ending in an ellipsis when cut.
// Newlines become spaces. n <= 0 means no limit.
func Clip(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return string(r[:min(n, len(r))])
	}
	return string(r[:n-1]) + "…"
}

func pad(s string, w int) string {
	if vis := lipgloss.Width(s); vis < w {
		return s + strings.Repeat(" ", w-vis)
	}
	return s
}
