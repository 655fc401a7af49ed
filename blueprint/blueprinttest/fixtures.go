// Package blueprinttest provides small hand-built blueprints for tests.
package blueprinttest

import (
	"strconv"

	"github.com/tcassar-diss/ebelt/blueprint"
)

// Program returns n instructions that load an immediate into r0 and exit.
func Program(n int) []blueprint.Instruction {
	insns := make([]blueprint.Instruction, 0, n)

	var off uint64
	for i := 0; i < n; i++ {
		var ins blueprint.Instruction
		if i == n-1 {
			ins = blueprint.NewInstruction(off, 0x95, blueprint.Operands{}, "")
		} else {
			ins = blueprint.NewInstruction(off, 0xb7, blueprint.Operands{Dst: 0, Constant: int64(i)}, "")
		}

		insns = append(insns, ins)
		off += ins.Size()
	}

	return insns
}

// Sample has three sections ("prog" with 5 instructions, "maps" with 40
// bytes of data, ".text" with 2 instructions), two maps and two probes.
func Sample() *blueprint.Blueprint {
	prog := []blueprint.Instruction{
		blueprint.NewInstruction(0, 0x18, blueprint.Operands{Dst: 1, Src: 1}, "events"),
		blueprint.NewInstruction(16, 0xb7, blueprint.Operands{Dst: 2, Constant: 8}, ""),
		blueprint.NewInstruction(24, 0x85, blueprint.Operands{Constant: 1}, ""),
		blueprint.NewInstruction(32, 0xb7, blueprint.Operands{Dst: 0, Constant: 0}, ""),
		blueprint.NewInstruction(40, 0x95, blueprint.Operands{}, ""),
	}

	data := make([]byte, 40)
	for i := range data {
		data[i] = byte('A' + i%26)
	}

	return &blueprint.Blueprint{
		Name: "sample.o",
		Sections: []*blueprint.Section{
			{Name: "prog", Kind: blueprint.Program, Size: 48, Instructions: prog},
			{Name: "maps", Kind: blueprint.Data, Size: uint64(len(data)), Data: data},
			{Name: ".text", Kind: blueprint.Program, Size: 16, Instructions: Program(2)},
		},
		Maps: []*blueprint.MapDescriptor{
			{Name: "events", Type: "RingBuf", MaxEntries: 4096, Pinning: "none"},
			{Name: "counters", Type: "Array", KeySize: 4, ValueSize: 8, MaxEntries: 16, Pinning: "by-name"},
		},
		Probes: []*blueprint.ProbeDescriptor{
			{Name: "trace_exec", Kind: "Kprobe", AttachType: "None", AttachTo: "sys_execve", Section: "prog", License: "GPL", Instructions: 5},
			{Name: "helper", Kind: "Kprobe", AttachType: "None", AttachTo: "do_exit", Section: ".text", License: "GPL", Instructions: 2},
		},
	}
}

// WithoutMaps is Sample with an empty map list.
func WithoutMaps() *blueprint.Blueprint {
	bp := Sample()
	bp.Maps = nil

	return bp
}

// Rows returns a blueprint whose sections, maps and probes have n rows
// each; section i has i+1 instructions.
func Rows(n int) *blueprint.Blueprint {
	bp := &blueprint.Blueprint{Name: "rows.o"}

	for i := 0; i < n; i++ {
		name := "sec" + strconv.Itoa(i)

		bp.Sections = append(bp.Sections, &blueprint.Section{Name: name, Kind: blueprint.Program, Instructions: Program(i + 1)})
		bp.Maps = append(bp.Maps, &blueprint.MapDescriptor{Name: "map" + strconv.Itoa(i), Type: "Hash"})
		bp.Probes = append(bp.Probes, &blueprint.ProbeDescriptor{Name: "probe" + strconv.Itoa(i), Kind: "Kprobe", Section: name})
	}

	return bp
}
