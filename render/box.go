package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	focusMarker = "● "
	ellipsis    = "…"
)

type line struct {
	text  string
	style lipgloss.Style
}

// box is one bordered pane with its title set into the top border.
type box struct {
	title   string
	focused bool
	lines   []line
}

// draw renders b as exactly h lines of exactly w cells. Callers guarantee
// w >= minBoxWidth and h >= minBoxHeight.
func (b box) draw(st styles, w, h int) []string {
	borderStyle, titleStyle := st.border, st.title
	prefix := "  "

	if b.focused {
		borderStyle, titleStyle = st.focusBorder, st.focusTitle
		prefix = focusMarker
	}

	innerWidth := w - 2
	contentWidth := innerWidth - 2

	title := strings.TrimSpace(prefix + b.title)
	titleText := " " + title + " "

	if ansi.StringWidth(titleText) > innerWidth {
		titleText = " " + ansi.Truncate(title, max(1, innerWidth-2), ellipsis) + " "
	}

	if ansi.StringWidth(titleText) > innerWidth {
		titleText = ansi.Truncate(titleText, innerWidth, "")
	}

	dashes := max(innerWidth-ansi.StringWidth(titleText), 0)
	leftDash := min(1, dashes)
	rightDash := dashes - leftDash

	v := borderStyle.Render("│")

	rows := make([]string, 0, h)
	rows = append(rows, borderStyle.Render("╭"+strings.Repeat("─", leftDash))+
		titleStyle.Render(titleText)+
		borderStyle.Render(strings.Repeat("─", rightDash)+"╮"))

	for i := 0; i < h-2; i++ {
		var l line
		if i < len(b.lines) {
			l = b.lines[i]
		}

		text := padRight(ansi.Truncate(l.text, contentWidth, ellipsis), contentWidth)
		rows = append(rows, v+" "+l.style.Render(text)+" "+v)
	}

	rows = append(rows, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return rows
}

func padRight(s string, w int) string {
	if n := ansi.StringWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}

	return s
}
