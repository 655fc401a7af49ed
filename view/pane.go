package view

// Pane identifies one of the four regions of the viewer.
type Pane int

const (
	Sections Pane = iota
	Maps
	Probes
	Detail
)

// NumPanes is the number of panes, and the length of a focus cycle.
const NumPanes = 4

var paneNames = [NumPanes]string{
	Sections: "Sections",
	Maps:     "Maps",
	Probes:   "Probes",
	Detail:   "Detail",
}

// Panes returns every pane in focus cycle order.
func Panes() []Pane {
	return []Pane{Sections, Maps, Probes, Detail}
}

// ParentPanes returns the panes whose rows can be selected into Detail.
func ParentPanes() []Pane {
	return []Pane{Sections, Maps, Probes}
}

func (p Pane) String() string {
	if p < 0 || p >= NumPanes {
		return "Unknown"
	}

	return paneNames[p]
}

// Next is the pane after p in the focus cycle.
func (p Pane) Next() Pane {
	return (p + 1) % NumPanes
}

// Prev is the pane before p in the focus cycle.
func (p Pane) Prev() Pane {
	return (p + NumPanes - 1) % NumPanes
}

// IsParent reports whether p lists blueprint entities.
func (p Pane) IsParent() bool {
	return p >= Sections && p < Detail
}

// EntityRef points at one entity of the blueprint: the Index-th row of a
// parent pane.
type EntityRef struct {
	Pane  Pane
	Index int
}
