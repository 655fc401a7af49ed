package blueprint

import (
	"fmt"
	"strconv"
)

// SectionKind classifies an object file section.
type SectionKind int

const (
	Other SectionKind = iota
	Program
	Data
)

func (k SectionKind) String() string {
	switch k {
	case Program:
		return "program"
	case Data:
		return "data"
	default:
		return "other"
	}
}

// MarshalText lets section kinds appear as plain words in documents.
func (k SectionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SectionKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "program":
		*k = Program
	case "data":
		*k = Data
	case "other", "":
		*k = Other
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSectionKind, text)
	}

	return nil
}

// Blueprint is the parsed form of one eBPF object file. Sections, maps and
// probes are kept in declaration order.
type Blueprint struct {
	Name     string
	Sections []*Section
	Maps     []*MapDescriptor
	Probes   []*ProbeDescriptor
}

// Section is a single object file section. Only Program sections carry
// instructions.
type Section struct {
	Name         string
	Kind         SectionKind
	Size         uint64
	Instructions []Instruction
	Data         []byte
}

// Fields describes the section header.
func (s *Section) Fields() []Field {
	fields := []Field{
		NewField("name", s.Name),
		NewField("kind", s.Kind.String()),
		NewField("size", strconv.FormatUint(s.Size, 10)),
	}

	if s.Kind == Program {
		fields = append(fields, NewField("instructions", strconv.Itoa(len(s.Instructions))))
	}

	return fields
}

// MapDescriptor describes a map definition found in the object.
type MapDescriptor struct {
	Name       string
	Type       string
	KeySize    uint32
	ValueSize  uint32
	MaxEntries uint32
	Flags      uint32
	Pinning    string
}

func (m *MapDescriptor) Fields() []Field {
	return []Field{
		NewField("name", m.Name),
		NewField("type", m.Type),
		NewField("key size", strconv.FormatUint(uint64(m.KeySize), 10)),
		NewField("value size", strconv.FormatUint(uint64(m.ValueSize), 10)),
		NewField("max entries", strconv.FormatUint(uint64(m.MaxEntries), 10)),
		NewField("flags", fmt.Sprintf("%#x", m.Flags)),
		NewField("pinning", m.Pinning),
	}
}

// ProbeDescriptor describes a program entry point and where it attaches.
type ProbeDescriptor struct {
	Name         string
	Kind         string
	AttachType   string
	AttachTo     string
	Section      string
	License      string
	Instructions int
}

func (p *ProbeDescriptor) Fields() []Field {
	return []Field{
		NewField("name", p.Name),
		NewField("kind", p.Kind),
		NewField("attach type", p.AttachType),
		NewField("attach to", p.AttachTo),
		NewField("section", p.Section),
		NewField("license", p.License),
		NewField("instructions", strconv.Itoa(p.Instructions)),
	}
}

// Empty reports whether the blueprint has nothing to show at all.
func (b *Blueprint) Empty() bool {
	return len(b.Sections) == 0 && len(b.Maps) == 0 && len(b.Probes) == 0
}

// AddressWidth is the number of hex digits needed to print every
// instruction offset in the blueprint. It is never less than 4.
func (b *Blueprint) AddressWidth() int {
	var maxOffset uint64

	for _, s := range b.Sections {
		if n := len(s.Instructions); n > 0 {
			if off := s.Instructions[n-1].Offset; off > maxOffset {
				maxOffset = off
			}
		}

		// hexdump rows are addressed by byte offset too
		if s.Size > maxOffset {
			maxOffset = s.Size
		}
	}

	width := len(strconv.FormatUint(maxOffset, 16))
	if width < 4 {
		width = 4
	}

	return width
}

// Validate checks the invariants the viewer relies on.
func (b *Blueprint) Validate() error {
	for i, s := range b.Sections {
		if s == nil {
			return fmt.Errorf("%w: section %d is nil", ErrInvalidBlueprint, i)
		}

		if s.Name == "" {
			return fmt.Errorf("%w: section %d has no name", ErrInvalidBlueprint, i)
		}

		if s.Kind != Program && len(s.Instructions) > 0 {
			return fmt.Errorf("%w: %s section %q has instructions", ErrInvalidBlueprint, s.Kind, s.Name)
		}

		for j := 1; j < len(s.Instructions); j++ {
			if s.Instructions[j].Offset <= s.Instructions[j-1].Offset {
				return fmt.Errorf("%w: %w: section %q instruction %d", ErrInvalidBlueprint, ErrInstructionOutOfOrder, s.Name, j)
			}
		}
	}

	for i, m := range b.Maps {
		if m == nil || m.Name == "" {
			return fmt.Errorf("%w: map %d has no name", ErrInvalidBlueprint, i)
		}
	}

	for i, p := range b.Probes {
		if p == nil || p.Name == "" {
			return fmt.Errorf("%w: probe %d has no name", ErrInvalidBlueprint, i)
		}
	}

	return nil
}
