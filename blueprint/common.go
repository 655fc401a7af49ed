package blueprint

import "errors"

var (
	ErrInvalidBlueprint      = errors.New("invalid blueprint")
	ErrTruncatedInstruction  = errors.New("truncated instruction")
	ErrUnknownSectionKind    = errors.New("unknown section kind")
	ErrInstructionOutOfOrder = errors.New("instruction offsets out of order")
)

// Field is one named value of a descriptor, in display order.
type Field struct {
	Name  string
	Value string
}

// NewField returns a Field
func NewField(name, value string) Field {
	return Field{
		Name:  name,
		Value: value,
	}
}
