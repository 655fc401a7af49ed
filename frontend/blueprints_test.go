package frontend

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcassar-diss/ebelt/blueprint"
	"github.com/tcassar-diss/ebelt/blueprint/blueprinttest"
	"github.com/tcassar-diss/ebelt/blueprint/elfobj"
	"go.uber.org/zap"
)

func TestParseTOMLBlueprint(t *testing.T) {
	bp, err := ParseTOMLBlueprint("testdata/sample.toml")
	require.NoError(t, err)

	require.Equal(t, "kprobe_exec.o", bp.Name)
	require.Len(t, bp.Sections, 3)

	prog := bp.Sections[0]
	require.Equal(t, blueprint.Program, prog.Kind)
	require.Len(t, prog.Instructions, 4)
	require.Equal(t, uint64(40), prog.Size)

	// given as raw bytes only
	mov := prog.Instructions[1]
	require.Equal(t, uint64(16), mov.Offset)
	require.Equal(t, uint8(0xb7), mov.OpCode)
	require.Equal(t, uint8(2), mov.Operands.Dst)
	require.Equal(t, int64(8), mov.Operands.Constant)

	lddw := prog.Instructions[0]
	require.True(t, lddw.Wide())
	require.Equal(t, "events", lddw.Symbol)

	license := bp.Sections[1]
	require.Equal(t, blueprint.Data, license.Kind)
	require.Equal(t, []byte("GPL\x00"), license.Data)
	require.Equal(t, uint64(4), license.Size)

	require.Equal(t, blueprint.Other, bp.Sections[2].Kind)
	require.Equal(t, uint64(1024), bp.Sections[2].Size)

	require.Len(t, bp.Maps, 1)
	require.Equal(t, uint32(4096), bp.Maps[0].MaxEntries)
	require.Len(t, bp.Probes, 1)
	require.Equal(t, "sys_execve", bp.Probes[0].AttachTo)
}

func TestDecodeTOMLBlueprint_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{
			name: "instructions outside a program",
			doc:  "[[sections]]\nname = \"maps\"\nkind = \"data\"\n[[sections.instructions]]\noffset = 0\nopcode = 0x95\n",
			err:  blueprint.ErrInvalidBlueprint,
		},
		{
			name: "unknown section kind",
			doc:  "[[sections]]\nname = \"x\"\nkind = \"weird\"\n",
			err:  ErrBadDocument,
		},
		{
			name: "bad hex data",
			doc:  "[[sections]]\nname = \"x\"\nkind = \"data\"\ndata = \"zz\"\n",
			err:  ErrBadDocument,
		},
		{
			name: "truncated raw instruction",
			doc:  "[[sections]]\nname = \"p\"\nkind = \"program\"\n[[sections.instructions]]\noffset = 0\nraw = \"b7 02\"\n",
			err:  blueprint.ErrTruncatedInstruction,
		},
		{
			name: "two instructions in one raw",
			doc:  "[[sections]]\nname = \"p\"\nkind = \"program\"\n[[sections.instructions]]\noffset = 0\nraw = \"95 00 00 00 00 00 00 00 95 00 00 00 00 00 00 00\"\n",
			err:  ErrBadDocument,
		},
		{
			name: "offsets out of order",
			doc:  "[[sections]]\nname = \"p\"\nkind = \"program\"\n[[sections.instructions]]\noffset = 8\nopcode = 0x95\n[[sections.instructions]]\noffset = 0\nopcode = 0x95\n",
			err:  blueprint.ErrInstructionOutOfOrder,
		},
		{
			name: "not toml",
			doc:  "[[[",
			err:  ErrBadDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTOMLBlueprint(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTOMLBlueprint_RoundTrip(t *testing.T) {
	want := blueprinttest.Sample()

	var buf bytes.Buffer
	require.NoError(t, MarshalTOMLBlueprint(&buf, want))

	got, err := DecodeTOMLBlueprint(&buf)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestBlueprintDoc_DecodedOperands(t *testing.T) {
	doc := newBlueprintDoc(blueprinttest.Sample())

	lddw := doc.Sections[0].Instructions[0]
	require.Equal(t, uint8(1), lddw.Dst)
	require.Equal(t, uint8(1), lddw.Src)
	require.Equal(t, "events", lddw.Symbol)

	mov := doc.Sections[0].Instructions[1]
	require.Equal(t, uint64(16), mov.Offset)
	require.Equal(t, uint8(0xb7), mov.OpCode)
	require.Equal(t, uint8(2), mov.Dst)
	require.Equal(t, int64(8), mov.Imm)
	require.Equal(t, "b7 02 00 00 08 00 00 00", mov.Raw)
}

func TestJSONBlueprint_RoundTrip(t *testing.T) {
	want := blueprinttest.Sample()
	path := filepath.Join(t.TempDir(), "sample.json")

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, MarshalJSONBlueprint(f, want))
	require.NoError(t, f.Close())

	got, err := ParseJSONBlueprint(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadBlueprint(t *testing.T) {
	logger := zap.NewNop().Sugar()

	bp, err := LoadBlueprint(logger, "testdata/sample.toml")
	require.NoError(t, err)
	require.Equal(t, "kprobe_exec.o", bp.Name)

	garbage := filepath.Join(t.TempDir(), "garbage.o")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not an object file"), 0o644))

	_, err = LoadBlueprint(logger, garbage)
	require.ErrorIs(t, err, elfobj.ErrNotELF)

	_, err = LoadBlueprint(logger, "testdata/broken.toml")
	require.ErrorIs(t, err, blueprint.ErrInvalidBlueprint)

	_, err = LoadBlueprint(logger, filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
