package render

import (
	"fmt"
	"strings"

	"github.com/tcassar-diss/ebelt/blueprint"
	"github.com/tcassar-diss/ebelt/view"
)

// InstructionRow formats one disassembly line:
//
//	0018  85 00 00 00 01 00 00 00  call    FnMapLookupElem
//
// The offset is zero-padded to addrWidth hex digits so every row of a
// blueprint lines up.
func InstructionRow(ins *blueprint.Instruction, addrWidth int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%0*x  %-23s  %-7s %s", addrWidth, ins.Offset, fmt.Sprintf("% x", ins.Raw), ins.Mnemonic(), ins.OperandText())

	if ins.Symbol != "" {
		fmt.Fprintf(&b, "  <%s>", ins.Symbol)
	}

	return strings.TrimRight(b.String(), " ")
}

// HexdumpRow formats row of data as offset, two groups of eight hex bytes
// and the printable ASCII:
//
//	0010  51 52 53 54 55 56 57 58  59 5a 41 42 43 44 45 46  |QRSTUVWXYZABCDEF|
func HexdumpRow(data []byte, row, addrWidth int) string {
	start := row * view.HexdumpWidth
	if start < 0 || start >= len(data) {
		return ""
	}

	chunk := data[start:min(start+view.HexdumpWidth, len(data))]

	var b strings.Builder

	fmt.Fprintf(&b, "%0*x  ", addrWidth, start)

	for i := range view.HexdumpWidth {
		if i == view.HexdumpWidth/2 {
			b.WriteByte(' ')
		}

		if i < len(chunk) {
			fmt.Fprintf(&b, "%02x ", chunk[i])
		} else {
			b.WriteString("   ")
		}
	}

	b.WriteString(" |")

	for _, c := range chunk {
		if c < 0x20 || c > 0x7e {
			c = '.'
		}

		b.WriteByte(c)
	}

	b.WriteByte('|')

	return b.String()
}

// FieldRow formats a descriptor field with its name padded to nameWidth.
func FieldRow(f blueprint.Field, nameWidth int) string {
	return fmt.Sprintf("%-*s  %s", nameWidth, f.Name, f.Value)
}

func fieldNameWidth(fields []blueprint.Field) int {
	w := 0
	for _, f := range fields {
		w = max(w, len(f.Name))
	}

	return w
}

// entityLabel returns the name and kind columns of a parent pane row.
func entityLabel(x *view.Index, ref view.EntityRef) (string, string) {
	switch ref.Pane {
	case view.Sections:
		if s := x.Section(ref); s != nil {
			return s.Name, s.Kind.String()
		}
	case view.Maps:
		if m := x.Map(ref); m != nil {
			return m.Name, m.Type
		}
	case view.Probes:
		if p := x.Probe(ref); p != nil {
			return p.Name, p.Kind
		}
	}

	return "?", ""
}

func entityName(x *view.Index, ref view.EntityRef) string {
	name, _ := entityLabel(x, ref)
	return name
}
