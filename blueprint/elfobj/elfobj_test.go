package elfobj

import (
	"bytes"
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcassar-diss/ebelt/blueprint"
	"go.uber.org/zap"
)

func TestLoadReader_NotELF(t *testing.T) {
	_, err := LoadReader(zap.NewNop().Sugar(), "garbage.o", bytes.NewReader([]byte("definitely not an object file")))
	require.ErrorIs(t, err, ErrNotELF)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		header   elf.SectionHeader
		expected blueprint.SectionKind
	}{
		{
			name:     "program text",
			header:   elf.SectionHeader{Name: "kprobe/sys_execve", Type: elf.SHT_PROGBITS, Flags: elf.SHF_ALLOC | elf.SHF_EXECINSTR},
			expected: blueprint.Program,
		},
		{
			name:     "allocated data",
			header:   elf.SectionHeader{Name: ".rodata", Type: elf.SHT_PROGBITS, Flags: elf.SHF_ALLOC},
			expected: blueprint.Data,
		},
		{
			name:     "legacy maps without flags",
			header:   elf.SectionHeader{Name: "maps", Type: elf.SHT_PROGBITS},
			expected: blueprint.Data,
		},
		{
			name:     "bss",
			header:   elf.SectionHeader{Name: ".bss", Type: elf.SHT_NOBITS},
			expected: blueprint.Data,
		},
		{
			name:     "string table",
			header:   elf.SectionHeader{Name: ".strtab", Type: elf.SHT_STRTAB},
			expected: blueprint.Other,
		},
		{
			name:     "relocations",
			header:   elf.SectionHeader{Name: ".relxdp", Type: elf.SHT_REL},
			expected: blueprint.Other,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, classify(&elf.Section{SectionHeader: tt.header}))
		})
	}
}

func TestOrderBySymbols(t *testing.T) {
	syms := []elf.Symbol{
		{Name: "events", Section: 5, Value: 32},
		{Name: "counters", Section: 5, Value: 0},
		{Name: "xdp_prog", Section: 3, Value: 0},
		{Name: "extern_fn", Section: elf.SHN_UNDEF},
	}

	got := orderBySymbols([]string{".rodata", "events", "counters", "xdp_prog", "extern_fn", ".bss"}, syms)

	require.Equal(t, []string{"xdp_prog", "counters", "events", ".bss", ".rodata", "extern_fn"}, got)
}

func TestSetSymbol(t *testing.T) {
	insns := []blueprint.Instruction{
		blueprint.NewInstruction(0, 0x18, blueprint.Operands{Dst: 1, Src: 1}, ""),
		blueprint.NewInstruction(16, 0x85, blueprint.Operands{Constant: 1}, ""),
		blueprint.NewInstruction(24, 0x95, blueprint.Operands{}, ""),
	}

	require.True(t, setSymbol(insns, 0, "events"))
	require.Equal(t, "events", insns[0].Symbol)

	// the second half of an lddw is not an instruction
	require.False(t, setSymbol(insns, 8, "nope"))
	require.False(t, setSymbol(insns, 64, "nope"))
}
