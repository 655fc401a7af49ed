package render

import "github.com/tcassar-diss/ebelt/view"

// Below these sizes the four panes no longer fit side by side and only the
// active pane is drawn.
const (
	MinFullWidth  = 40
	MinFullHeight = 12

	// smallest box that still has a border and one content row
	minBoxWidth  = 4
	minBoxHeight = 3
)

type Mode int

const (
	// Full draws the header, all four panes and the help footer.
	Full Mode = iota
	// Compact draws the active pane alone, bordered, over the whole screen.
	Compact
	// Tiny draws the active pane's title and rows without a border.
	Tiny
)

func (m Mode) String() string {
	switch m {
	case Full:
		return "full"
	case Compact:
		return "compact"
	default:
		return "tiny"
	}
}

type Rect struct {
	X, Y, W, H int
}

// Layout places the panes on a width x height screen.
type Layout struct {
	Width  int
	Height int
	Mode   Mode

	Header Rect
	Footer Rect
	Panes  [view.NumPanes]Rect
}

func NewLayout(width, height int) Layout {
	l := Layout{Width: max(width, 0), Height: max(height, 0)}

	switch {
	case l.Width >= MinFullWidth && l.Height >= MinFullHeight:
		l.Mode = Full
	case l.Width >= minBoxWidth && l.Height >= minBoxHeight:
		l.Mode = Compact
	default:
		l.Mode = Tiny
	}

	if l.Mode != Full {
		for p := range l.Panes {
			l.Panes[p] = Rect{W: l.Width, H: l.Height}
		}

		return l
	}

	l.Header = Rect{W: l.Width, H: 1}
	l.Footer = Rect{Y: l.Height - 1, W: l.Width, H: 1}

	body := l.Height - 2
	left := max(l.Width*2/5, 16)

	third := body / 3
	l.Panes[view.Sections] = Rect{Y: 1, W: left, H: third}
	l.Panes[view.Maps] = Rect{Y: 1 + third, W: left, H: third}
	l.Panes[view.Probes] = Rect{Y: 1 + 2*third, W: left, H: body - 2*third}
	l.Panes[view.Detail] = Rect{X: left, Y: 1, W: l.Width - left, H: body}

	return l
}

// Viewports returns how many rows each pane can show.
func (l Layout) Viewports() [view.NumPanes]int {
	var v [view.NumPanes]int

	for p, r := range l.Panes {
		switch l.Mode {
		case Tiny:
			// one line goes to the title
			v[p] = max(r.H-1, 1)
		default:
			v[p] = max(r.H-2, 1)
		}
	}

	return v
}
