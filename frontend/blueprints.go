package frontend

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tcassar-diss/ebelt/blueprint"
	"github.com/tcassar-diss/ebelt/blueprint/elfobj"
	"go.uber.org/zap"
)

var ErrBadDocument = errors.New("malformed blueprint document")

type blueprintDoc struct {
	Name     string       `toml:"name" json:"name"`
	Sections []sectionDoc `toml:"sections" json:"sections"`
	Maps     []mapDoc     `toml:"maps" json:"maps"`
	Probes   []probeDoc   `toml:"probes" json:"probes"`
}

type sectionDoc struct {
	Name         string                `toml:"name" json:"name"`
	Kind         blueprint.SectionKind `toml:"kind" json:"kind"`
	Size         uint64                `toml:"size,omitempty" json:"size,omitempty"`
	Data         string                `toml:"data,omitempty" json:"data,omitempty"`
	Instructions []instructionDoc      `toml:"instructions,omitempty" json:"instructions,omitempty"`
}

// instructionDoc may give either the decoded fields or the raw bytes. Raw
// bytes win when both are present.
type instructionDoc struct {
	Offset uint64 `toml:"offset" json:"offset"`
	OpCode uint8  `toml:"opcode" json:"opcode"`
	Dst    uint8  `toml:"dst,omitempty" json:"dst,omitempty"`
	Src    uint8  `toml:"src,omitempty" json:"src,omitempty"`
	Off    int16  `toml:"off,omitempty" json:"off,omitempty"`
	Imm    int64  `toml:"imm,omitempty" json:"imm,omitempty"`
	Raw    string `toml:"raw,omitempty" json:"raw,omitempty"`
	Symbol string `toml:"symbol,omitempty" json:"symbol,omitempty"`
}

type mapDoc struct {
	Name       string `toml:"name" json:"name"`
	Type       string `toml:"type" json:"type"`
	KeySize    uint32 `toml:"key_size" json:"key_size"`
	ValueSize  uint32 `toml:"value_size" json:"value_size"`
	MaxEntries uint32 `toml:"max_entries" json:"max_entries"`
	Flags      uint32 `toml:"flags,omitempty" json:"flags,omitempty"`
	Pinning    string `toml:"pinning,omitempty" json:"pinning,omitempty"`
}

type probeDoc struct {
	Name         string `toml:"name" json:"name"`
	Kind         string `toml:"kind" json:"kind"`
	AttachType   string `toml:"attach_type,omitempty" json:"attach_type,omitempty"`
	AttachTo     string `toml:"attach_to,omitempty" json:"attach_to,omitempty"`
	Section      string `toml:"section,omitempty" json:"section,omitempty"`
	License      string `toml:"license,omitempty" json:"license,omitempty"`
	Instructions int    `toml:"instructions,omitempty" json:"instructions,omitempty"`
}

// LoadBlueprint reads a blueprint from a TOML or JSON document, or parses
// path as an ELF object for any other extension.
func LoadBlueprint(logger *zap.SugaredLogger, path string) (*blueprint.Blueprint, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOMLBlueprint(path)
	case ".json":
		return ParseJSONBlueprint(path)
	default:
		return elfobj.Load(logger, path)
	}
}

func ParseTOMLBlueprint(path string) (*blueprint.Blueprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	bp, err := DecodeTOMLBlueprint(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if bp.Name == "" {
		bp.Name = filepath.Base(path)
	}

	return bp, nil
}

func DecodeTOMLBlueprint(r io.Reader) (*blueprint.Blueprint, error) {
	var doc blueprintDoc

	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDocument, err)
	}

	return doc.blueprint()
}

func MarshalTOMLBlueprint(w io.Writer, bp *blueprint.Blueprint) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(newBlueprintDoc(bp)); err != nil {
		return err
	}

	return nil
}

// ParseJSONBlueprint reads the JSON form of a blueprint document, as
// emitted by bpdump --format json.
func ParseJSONBlueprint(path string) (*blueprint.Blueprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var doc blueprintDoc
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrBadDocument, err)
	}

	bp, err := doc.blueprint()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if bp.Name == "" {
		bp.Name = filepath.Base(path)
	}

	return bp, nil
}

func MarshalJSONBlueprint(w io.Writer, bp *blueprint.Blueprint) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(newBlueprintDoc(bp))
}

func (d *blueprintDoc) blueprint() (*blueprint.Blueprint, error) {
	bp := &blueprint.Blueprint{Name: d.Name}

	for _, sd := range d.Sections {
		s, err := sd.section()
		if err != nil {
			return nil, fmt.Errorf("%w: section %q: %w", ErrBadDocument, sd.Name, err)
		}

		bp.Sections = append(bp.Sections, s)
	}

	for _, md := range d.Maps {
		bp.Maps = append(bp.Maps, &blueprint.MapDescriptor{
			Name:       md.Name,
			Type:       md.Type,
			KeySize:    md.KeySize,
			ValueSize:  md.ValueSize,
			MaxEntries: md.MaxEntries,
			Flags:      md.Flags,
			Pinning:    md.Pinning,
		})
	}

	for _, pd := range d.Probes {
		bp.Probes = append(bp.Probes, &blueprint.ProbeDescriptor{
			Name:         pd.Name,
			Kind:         pd.Kind,
			AttachType:   pd.AttachType,
			AttachTo:     pd.AttachTo,
			Section:      pd.Section,
			License:      pd.License,
			Instructions: pd.Instructions,
		})
	}

	if err := bp.Validate(); err != nil {
		return nil, err
	}

	return bp, nil
}

func (sd *sectionDoc) section() (*blueprint.Section, error) {
	s := &blueprint.Section{Name: sd.Name, Kind: sd.Kind, Size: sd.Size}

	if sd.Data != "" {
		data, err := decodeHex(sd.Data)
		if err != nil {
			return nil, fmt.Errorf("data: %w", err)
		}

		s.Data = data
	}

	for _, id := range sd.Instructions {
		ins, err := id.instruction()
		if err != nil {
			return nil, fmt.Errorf("instruction at %#x: %w", id.Offset, err)
		}

		s.Instructions = append(s.Instructions, ins)
	}

	if s.Size == 0 {
		if n := len(s.Instructions); n > 0 {
			last := s.Instructions[n-1]
			s.Size = last.Offset + last.Size()
		} else {
			s.Size = uint64(len(s.Data))
		}
	}

	return s, nil
}

func (id *instructionDoc) instruction() (blueprint.Instruction, error) {
	if id.Raw == "" {
		ops := blueprint.Operands{Dst: id.Dst, Src: id.Src, Offset: id.Off, Constant: id.Imm}
		return blueprint.NewInstruction(id.Offset, id.OpCode, ops, id.Symbol), nil
	}

	raw, err := decodeHex(id.Raw)
	if err != nil {
		return blueprint.Instruction{}, fmt.Errorf("raw: %w", err)
	}

	insns, err := blueprint.DecodeInstructions(raw, binary.LittleEndian)
	if err != nil {
		return blueprint.Instruction{}, err
	}

	if len(insns) != 1 {
		return blueprint.Instruction{}, fmt.Errorf("raw holds %d instructions, want 1", len(insns))
	}

	ins := insns[0]
	ins.Offset = id.Offset
	ins.Symbol = id.Symbol

	return ins, nil
}

func newBlueprintDoc(bp *blueprint.Blueprint) blueprintDoc {
	doc := blueprintDoc{Name: bp.Name}

	for _, s := range bp.Sections {
		sd := sectionDoc{Name: s.Name, Kind: s.Kind, Size: s.Size}

		if len(s.Data) > 0 {
			sd.Data = hex.EncodeToString(s.Data)
		}

		for _, ins := range s.Instructions {
			sd.Instructions = append(sd.Instructions, instructionDoc{
				Offset: ins.Offset,
				OpCode: ins.OpCode,
				Dst:    ins.Operands.Dst,
				Src:    ins.Operands.Src,
				Off:    ins.Operands.Offset,
				Imm:    ins.Operands.Constant,
				Raw:    fmt.Sprintf("% x", ins.Raw),
				Symbol: ins.Symbol,
			})
		}

		doc.Sections = append(doc.Sections, sd)
	}

	for _, m := range bp.Maps {
		doc.Maps = append(doc.Maps, mapDoc{
			Name:       m.Name,
			Type:       m.Type,
			KeySize:    m.KeySize,
			ValueSize:  m.ValueSize,
			MaxEntries: m.MaxEntries,
			Flags:      m.Flags,
			Pinning:    m.Pinning,
		})
	}

	for _, p := range bp.Probes {
		doc.Probes = append(doc.Probes, probeDoc{
			Name:         p.Name,
			Kind:         p.Kind,
			AttachType:   p.AttachType,
			AttachTo:     p.AttachTo,
			Section:      p.Section,
			License:      p.License,
			Instructions: p.Instructions,
		})
	}

	return doc
}

// decodeHex accepts hex with or without spaces between bytes.
func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.Join(strings.Fields(s), ""))
}
