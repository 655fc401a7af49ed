package view

import "github.com/tcassar-diss/ebelt/blueprint"

// HexdumpWidth is the number of bytes shown per hexdump row.
const HexdumpWidth = 16

// DetailKind says what the Detail pane shows for a selected entity.
type DetailKind int

const (
	DetailNone DetailKind = iota
	DetailInstructions
	DetailHexdump
	DetailFields
)

// Index maps the rows of each parent pane onto blueprint entities. Rows
// follow declaration order; nothing is re-sorted, so row numbers line up
// with what other object tools print.
//
// An Index is built once and never changes, like the blueprint under it.
type Index struct {
	bp   *blueprint.Blueprint
	rows [Detail][]EntityRef
}

func NewIndex(bp *blueprint.Blueprint) *Index {
	x := &Index{bp: bp}

	counts := [Detail]int{
		Sections: len(bp.Sections),
		Maps:     len(bp.Maps),
		Probes:   len(bp.Probes),
	}

	for _, p := range ParentPanes() {
		rows := make([]EntityRef, counts[p])
		for i := range rows {
			rows[i] = EntityRef{Pane: p, Index: i}
		}

		x.rows[p] = rows
	}

	return x
}

func (x *Index) Blueprint() *blueprint.Blueprint {
	return x.bp
}

// RowCount is the number of rows of a parent pane. Detail has no rows of
// its own in the index; see DetailRows.
func (x *Index) RowCount(p Pane) int {
	if !p.IsParent() {
		return 0
	}

	return len(x.rows[p])
}

// EntityAt returns the entity shown at row of pane p.
func (x *Index) EntityAt(p Pane, row int) (EntityRef, bool) {
	if !p.IsParent() || row < 0 || row >= len(x.rows[p]) {
		return EntityRef{}, false
	}

	return x.rows[p][row], true
}

// Section resolves a Sections reference, or returns nil.
func (x *Index) Section(ref EntityRef) *blueprint.Section {
	if ref.Pane != Sections || ref.Index < 0 || ref.Index >= len(x.bp.Sections) {
		return nil
	}

	return x.bp.Sections[ref.Index]
}

func (x *Index) Map(ref EntityRef) *blueprint.MapDescriptor {
	if ref.Pane != Maps || ref.Index < 0 || ref.Index >= len(x.bp.Maps) {
		return nil
	}

	return x.bp.Maps[ref.Index]
}

func (x *Index) Probe(ref EntityRef) *blueprint.ProbeDescriptor {
	if ref.Pane != Probes || ref.Index < 0 || ref.Index >= len(x.bp.Probes) {
		return nil
	}

	return x.bp.Probes[ref.Index]
}

// DetailKind is the kind of backing data Detail shows for ref.
func (x *Index) DetailKind(ref EntityRef) DetailKind {
	switch ref.Pane {
	case Sections:
		s := x.Section(ref)

		switch {
		case s == nil:
			return DetailNone
		case s.Kind == blueprint.Program:
			return DetailInstructions
		case len(s.Data) > 0:
			return DetailHexdump
		default:
			return DetailFields
		}
	case Maps:
		if x.Map(ref) != nil {
			return DetailFields
		}
	case Probes:
		if x.Probe(ref) != nil {
			return DetailFields
		}
	}

	return DetailNone
}

// Fields returns the descriptor rows Detail shows for a DetailFields
// reference.
func (x *Index) Fields(ref EntityRef) []blueprint.Field {
	switch ref.Pane {
	case Sections:
		if s := x.Section(ref); s != nil {
			return s.Fields()
		}
	case Maps:
		if m := x.Map(ref); m != nil {
			return m.Fields()
		}
	case Probes:
		if p := x.Probe(ref); p != nil {
			return p.Fields()
		}
	}

	return nil
}

// DetailRows is the row count of Detail when bound to ref.
func (x *Index) DetailRows(ref EntityRef) int {
	switch x.DetailKind(ref) {
	case DetailInstructions:
		return len(x.Section(ref).Instructions)
	case DetailHexdump:
		return (len(x.Section(ref).Data) + HexdumpWidth - 1) / HexdumpWidth
	case DetailFields:
		return len(x.Fields(ref))
	default:
		return 0
	}
}
