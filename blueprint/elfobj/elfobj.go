// Package elfobj builds a blueprint from a compiled eBPF ELF object.
//
// Section headers, program bytes and relocations are read with debug/elf.
// Map and program metadata come from cilium/ebpf's CollectionSpec, which
// does the kernel-ABI specific decoding of map definitions and program
// section names.
package elfobj

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cilium/ebpf"
	"github.com/tcassar-diss/ebelt/blueprint"
	"go.uber.org/zap"
)

var (
	ErrNotELF           = errors.New("not an ELF object")
	ErrUnsupportedClass = errors.New("unsupported ELF class")
	ErrNotBPF           = errors.New("not an eBPF object")
)

const relEntrySize = 16 // Elf64_Rel

// loader carries the state shared between the load steps.
type loader struct {
	logger  *zap.SugaredLogger
	name    string
	rd      io.ReaderAt
	file    *elf.File
	symbols []elf.Symbol
	spec    *ebpf.CollectionSpec
	bp      *blueprint.Blueprint

	// elf section index -> blueprint section
	sections map[int]*blueprint.Section
}

// Load parses the object at path.
func Load(logger *zap.SugaredLogger, path string) (*blueprint.Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return LoadReader(logger, filepath.Base(path), f)
}

// LoadReader parses an object from rd. name is only used for display.
func LoadReader(logger *zap.SugaredLogger, name string, rd io.ReaderAt) (*blueprint.Blueprint, error) {
	l := &loader{
		logger:   logger,
		name:     name,
		rd:       rd,
		bp:       &blueprint.Blueprint{Name: name},
		sections: make(map[int]*blueprint.Section),
	}

	initFns := []func(*loader) error{
		openELF,
		readSections,
		readSymbols,
		attachRelocations,
		readCollectionSpec,
		describeMaps,
		describeProbes,
	}

	for _, fn := range initFns {
		if err := fn(l); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
	}

	if err := l.bp.Validate(); err != nil {
		return nil, fmt.Errorf("loaded blueprint for %s is inconsistent: %w", name, err)
	}

	l.logger.Infow("blueprint loaded",
		"object", name,
		"sections", len(l.bp.Sections),
		"maps", len(l.bp.Maps),
		"probes", len(l.bp.Probes),
	)

	return l.bp, nil
}

func openELF(l *loader) error {
	f, err := elf.NewFile(l.rd)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotELF, err)
	}

	if f.Class != elf.ELFCLASS64 {
		return fmt.Errorf("%w: %s", ErrUnsupportedClass, f.Class)
	}

	if f.Machine != elf.EM_BPF && f.Machine != elf.EM_NONE {
		return fmt.Errorf("%w: machine is %s", ErrNotBPF, f.Machine)
	}

	l.file = f

	return nil
}

func readSections(l *loader) error {
	for i, s := range l.file.Sections {
		if s.Type == elf.SHT_NULL {
			continue
		}

		sec := &blueprint.Section{
			Name: s.Name,
			Kind: classify(s),
			Size: s.Size,
		}

		if s.Type != elf.SHT_NOBITS && s.Size > 0 {
			data, err := s.Data()
			if err != nil {
				return fmt.Errorf("failed to read section %s: %w", s.Name, err)
			}

			if sec.Kind == blueprint.Program {
				sec.Instructions, err = blueprint.DecodeInstructions(data, l.file.ByteOrder)
				if err != nil {
					return fmt.Errorf("failed to decode section %s: %w", s.Name, err)
				}
			} else {
				sec.Data = data
			}
		}

		l.sections[i] = sec
		l.bp.Sections = append(l.bp.Sections, sec)
	}

	return nil
}

func readSymbols(l *loader) error {
	syms, err := l.file.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		l.logger.Warnw("object has no symbol table", "object", l.name)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read symbol table: %w", err)
	}

	l.symbols = syms

	return nil
}

// attachRelocations records the target symbol of every relocated
// instruction, e.g. the map behind an lddw or the function behind a call.
func attachRelocations(l *loader) error {
	for _, s := range l.file.Sections {
		if s.Type != elf.SHT_REL {
			continue
		}

		target, ok := l.sections[int(s.Info)]
		if !ok || target.Kind != blueprint.Program {
			continue
		}

		data, err := s.Data()
		if err != nil {
			return fmt.Errorf("failed to read relocations %s: %w", s.Name, err)
		}

		for i := 0; i+relEntrySize <= len(data); i += relEntrySize {
			off := l.file.ByteOrder.Uint64(data[i:])
			info := l.file.ByteOrder.Uint64(data[i+8:])

			name := l.symbolName(elf.R_SYM64(info))
			if name == "" {
				continue
			}

			if !setSymbol(target.Instructions, off, name) {
				l.logger.Debugw("relocation does not point at an instruction",
					"section", target.Name,
					"offset", off,
					"symbol", name,
				)
			}
		}
	}

	return nil
}

// symbolName resolves a symbol table index. Section symbols have no name
// of their own, so they are named after their section.
func (l *loader) symbolName(idx uint32) string {
	// debug/elf drops the null symbol at index 0
	if idx == 0 || int(idx) > len(l.symbols) {
		return ""
	}

	sym := l.symbols[idx-1]
	if sym.Name != "" {
		return sym.Name
	}

	if int(sym.Section) < len(l.file.Sections) {
		return l.file.Sections[sym.Section].Name
	}

	return ""
}

func setSymbol(insns []blueprint.Instruction, off uint64, name string) bool {
	i := sort.Search(len(insns), func(i int) bool { return insns[i].Offset >= off })
	if i == len(insns) || insns[i].Offset != off {
		return false
	}

	insns[i].Symbol = name

	return true
}

func readCollectionSpec(l *loader) error {
	spec, err := ebpf.LoadCollectionSpecFromReader(l.rd)
	if err != nil {
		return fmt.Errorf("failed to read collection spec: %w", err)
	}

	l.spec = spec

	return nil
}

func describeMaps(l *loader) error {
	names := make([]string, 0, len(l.spec.Maps))
	for name := range l.spec.Maps {
		names = append(names, name)
	}

	for _, name := range l.declarationOrder(names) {
		ms := l.spec.Maps[name]

		l.bp.Maps = append(l.bp.Maps, &blueprint.MapDescriptor{
			Name:       name,
			Type:       ms.Type.String(),
			KeySize:    ms.KeySize,
			ValueSize:  ms.ValueSize,
			MaxEntries: ms.MaxEntries,
			Flags:      ms.Flags,
			Pinning:    pinning(ms.Pinning),
		})
	}

	return nil
}

func describeProbes(l *loader) error {
	names := make([]string, 0, len(l.spec.Programs))
	for name := range l.spec.Programs {
		names = append(names, name)
	}

	for _, name := range l.declarationOrder(names) {
		ps := l.spec.Programs[name]

		l.bp.Probes = append(l.bp.Probes, &blueprint.ProbeDescriptor{
			Name:         name,
			Kind:         ps.Type.String(),
			AttachType:   ps.AttachType.String(),
			AttachTo:     ps.AttachTo,
			Section:      ps.SectionName,
			License:      ps.License,
			Instructions: len(ps.Instructions),
		})
	}

	return nil
}

// declarationOrder sorts names the way they appear in the object: by the
// section and value of their symbol. Names without a symbol (e.g. the
// maps cilium synthesises for .rodata) go last, by name.
func (l *loader) declarationOrder(names []string) []string {
	return orderBySymbols(names, l.symbols)
}

func orderBySymbols(names []string, syms []elf.Symbol) []string {
	type position struct {
		section elf.SectionIndex
		value   uint64
	}

	declared := make(map[string]position, len(syms))
	for _, sym := range syms {
		if sym.Name == "" || sym.Section == elf.SHN_UNDEF || sym.Section >= elf.SHN_LORESERVE {
			continue
		}

		if _, seen := declared[sym.Name]; !seen {
			declared[sym.Name] = position{section: sym.Section, value: sym.Value}
		}
	}

	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := declared[out[i]]
		pj, jok := declared[out[j]]

		switch {
		case iok && jok:
			if pi.section != pj.section {
				return pi.section < pj.section
			}
			return pi.value < pj.value
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})

	return out
}

func classify(s *elf.Section) blueprint.SectionKind {
	if s.Type == elf.SHT_PROGBITS && s.Flags&elf.SHF_EXECINSTR != 0 {
		return blueprint.Program
	}

	if s.Flags&elf.SHF_ALLOC != 0 {
		return blueprint.Data
	}

	switch {
	case s.Name == "license", s.Name == "version", s.Name == "maps", s.Name == ".maps":
		return blueprint.Data
	case strings.HasPrefix(s.Name, ".data"), strings.HasPrefix(s.Name, ".rodata"), strings.HasPrefix(s.Name, ".bss"):
		return blueprint.Data
	}

	return blueprint.Other
}

func pinning(p ebpf.PinType) string {
	switch p {
	case ebpf.PinByName:
		return "by-name"
	case ebpf.PinNone:
		return "none"
	default:
		return fmt.Sprintf("pin(%d)", p)
	}
}
