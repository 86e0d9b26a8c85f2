// Package overlay composes floating panels over a rendered view.
package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const reset = "\x1b[0m"

// Splice replaces a rectangular region of a rendered view with overlay
// lines placed from (x, y) in screen coordinates. Escape sequences on
// both sides of the region are preserved. View lines shorter than x are
// padded with spaces; overlay lines past the bottom of the view extend it.
func Splice(view string, lines []string, x, y int) string {
	if len(lines) == 0 {
		return view
	}
	x = max(x, 0)

	viewLines := strings.Split(view, "\n")
	for len(viewLines) < y+len(lines) {
		viewLines = append(viewLines, "")
	}

	for i, overlayLine := range lines {
		row := y + i
		if row < 0 {
			continue
		}

		viewLine := viewLines[row]
		viewWidth := ansi.StringWidth(viewLine)
		overlayWidth := ansi.StringWidth(overlayLine)

		var b strings.Builder
		if x > 0 {
			b.WriteString(ansi.Truncate(viewLine, x, ""))
			if viewWidth < x {
				b.WriteString(strings.Repeat(" ", x-viewWidth))
			}
		}
		b.WriteString(reset)
		b.WriteString(overlayLine)
		b.WriteString(reset)

		if end := x + overlayWidth; end < viewWidth {
			b.WriteString(ansi.TruncateLeft(viewLine, end, ""))
		}

		viewLines[row] = b.String()
	}

	return strings.Join(viewLines, "\n")
}

// Width returns the widest visible line.
func Width(lines []string) int {
	w := 0
	for _, l := range lines {
		w = max(w, ansi.StringWidth(l))
	}
	return w
}
