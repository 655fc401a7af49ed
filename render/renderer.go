package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/tcassar-diss/ebelt/view"
)

// Title is shown in the header row.
const Title = " eBELt - eBPF & ELF terminal meddler "

type Renderer struct {
	styles styles
	keys   help.KeyMap
	help   help.Model
}

// New returns a renderer drawing with theme. keys feeds the help footer and
// may be nil.
func New(theme Theme, keys help.KeyMap) *Renderer {
	st := newStyles(theme)

	h := help.New()
	h.Styles.ShortKey = st.header.UnsetBackground()
	h.Styles.ShortDesc = st.muted
	h.Styles.ShortSeparator = st.border
	h.Styles.Ellipsis = st.border

	return &Renderer{
		styles: st,
		keys:   keys,
		help:   h,
	}
}

// Frame draws st on a width x height terminal. The result has exactly
// height lines, none wider than width, or is empty when either dimension
// is zero. Frame only reads st; callers keep the pane viewports in step
// with NewLayout(width, height).Viewports().
func (r *Renderer) Frame(st *view.State, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	l := NewLayout(width, height)

	var lines []string

	switch l.Mode {
	case Full:
		lines = r.full(st, l)
	case Compact:
		rect := l.Panes[st.Focus()]
		lines = r.pane(st, st.Focus(), rect.H-2).draw(r.styles, rect.W, rect.H)
	default:
		lines = r.tiny(st, l)
	}

	return strings.Join(fit(lines, width, height), "\n")
}

func (r *Renderer) full(st *view.State, l Layout) []string {
	lines := make([]string, 0, l.Height)
	lines = append(lines, r.header(st, l.Header))

	var left []string
	for _, p := range view.ParentPanes() {
		rect := l.Panes[p]
		left = append(left, r.pane(st, p, rect.H-2).draw(r.styles, rect.W, rect.H)...)
	}

	rect := l.Panes[view.Detail]
	right := r.pane(st, view.Detail, rect.H-2).draw(r.styles, rect.W, rect.H)

	for i := range right {
		lines = append(lines, left[i]+right[i])
	}

	return append(lines, r.footer(l.Footer))
}

func (r *Renderer) tiny(st *view.State, l Layout) []string {
	b := r.pane(st, st.Focus(), l.Viewports()[st.Focus()])

	title := b.title
	if b.focused {
		title = focusMarker + title
	}

	lines := []string{title}
	for _, ln := range b.lines {
		lines = append(lines, ln.text)
	}

	return lines
}

func (r *Renderer) header(st *view.State, rect Rect) string {
	title := ansi.Truncate(Title, rect.W, ellipsis)
	rest := rect.W - ansi.StringWidth(title)

	name := ""
	if n := st.Blueprint().Name; n != "" && rest > 0 {
		name = ansi.Truncate(" "+n+" ", rest, ellipsis)
	}

	return r.styles.header.Render(title) + r.styles.headerName.Render(padRight(name, rest))
}

func (r *Renderer) footer(rect Rect) string {
	if r.keys == nil {
		return ""
	}

	h := r.help
	h.Width = rect.W

	return h.View(r.keys)
}

// pane builds the box for p showing at most capacity rows.
func (r *Renderer) pane(st *view.State, p view.Pane, capacity int) box {
	ps := st.Pane(p)
	b := box{
		title:   fmt.Sprintf("%s %s", p, position(ps)),
		focused: st.Focus() == p,
	}

	if p == view.Detail {
		r.detail(st, &b, ps, capacity)
		return b
	}

	if ps.Rows() == 0 {
		b.lines = []line{{text: "(no " + strings.ToLower(p.String()) + ")", style: r.styles.muted}}
		return b
	}

	start, end := ps.VisibleRange()
	end = min(end, start+max(capacity, 1))

	x := st.Index()
	sel, hasSel := ps.Selected()

	type label struct{ name, kind string }

	labels := make([]label, 0, end-start)
	nameWidth := 0

	for row := start; row < end; row++ {
		ref, _ := x.EntityAt(p, row)
		name, kind := entityLabel(x, ref)
		labels = append(labels, label{name, kind})
		nameWidth = max(nameWidth, ansi.StringWidth(name))
	}

	for i, lb := range labels {
		row := start + i
		ref, _ := x.EntityAt(p, row)

		mark := []byte("   ")
		if row == ps.Cursor() {
			mark[0] = '>'
		}

		if hasSel && sel == ref {
			mark[1] = '*'
		}

		b.lines = append(b.lines, line{
			text:  fmt.Sprintf("%s%s  %s", mark, padRight(lb.name, nameWidth), lb.kind),
			style: r.rowStyle(b.focused, row == ps.Cursor()),
		})
	}

	return b
}

func (r *Renderer) detail(st *view.State, b *box, ps view.PaneState, capacity int) {
	ref, bound := st.DetailRef()
	if !bound {
		b.title = "Detail"
		b.lines = []line{
			{text: "Nothing selected.", style: r.styles.muted},
			{text: "Select a row to inspect it here.", style: r.styles.muted},
		}

		return
	}

	x := st.Index()
	b.title = fmt.Sprintf("Detail: %s %s", entityName(x, ref), position(ps))

	if ps.Rows() == 0 {
		b.lines = []line{{text: "(empty)", style: r.styles.muted}}
		return
	}

	start, end := ps.VisibleRange()
	end = min(end, start+max(capacity, 1))

	aw := st.Blueprint().AddressWidth()
	kind := x.DetailKind(ref)

	fields := x.Fields(ref)
	nameWidth := fieldNameWidth(fields)

	for row := start; row < end; row++ {
		var text string

		switch kind {
		case view.DetailInstructions:
			text = InstructionRow(&x.Section(ref).Instructions[row], aw)
		case view.DetailHexdump:
			text = HexdumpRow(x.Section(ref).Data, row, aw)
		case view.DetailFields:
			text = FieldRow(fields[row], nameWidth)
		}

		mark := "  "
		if row == ps.Cursor() {
			mark = "> "
		}

		b.lines = append(b.lines, line{text: mark + text, style: r.rowStyle(b.focused, row == ps.Cursor())})
	}
}

func (r *Renderer) rowStyle(focused, cursor bool) lipgloss.Style {
	switch {
	case cursor && focused:
		return r.styles.cursor
	case cursor:
		return r.styles.cursorIdle
	default:
		return r.styles.text
	}
}

func position(ps view.PaneState) string {
	if ps.Rows() == 0 {
		return "0/0"
	}

	return fmt.Sprintf("%d/%d", ps.Cursor()+1, ps.Rows())
}

// fit clips lines to the terminal, replacing the last visible line with a
// truncation mark when there are more lines than rows.
func fit(lines []string, width, height int) []string {
	if len(lines) > height {
		lines = append(lines[:height-1:height-1], ellipsis)
	}

	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = ansi.Truncate(lines[i], width, ellipsis)
		}
	}

	return out
}
