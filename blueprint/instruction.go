package blueprint

import (
	"encoding/binary"
	"fmt"
)

const (
	// InstructionSize is the size of one encoded instruction slot.
	InstructionSize = 8
	// WideInstructionSize is the size of lddw, which takes two slots.
	WideInstructionSize = 2 * InstructionSize

	opLoadImm64 = 0x18
)

// Operands are the decoded operand fields of an instruction.
type Operands struct {
	Dst      uint8
	Src      uint8
	Offset   int16
	Constant int64
}

// Instruction is one decoded eBPF instruction. Offset is the byte offset
// from the start of its section.
type Instruction struct {
	Offset   uint64
	OpCode   uint8
	Operands Operands
	Raw      []byte
	Symbol   string
}

// Wide reports whether the instruction occupies two slots.
func (i *Instruction) Wide() bool {
	return i.OpCode == opLoadImm64
}

// Size is the encoded size in bytes.
func (i *Instruction) Size() uint64 {
	if i.Wide() {
		return WideInstructionSize
	}

	return InstructionSize
}

// NewInstruction builds an instruction and its little endian encoding.
func NewInstruction(offset uint64, opcode uint8, ops Operands, symbol string) Instruction {
	ins := Instruction{
		Offset:   offset,
		OpCode:   opcode,
		Operands: ops,
		Symbol:   symbol,
	}

	ins.Raw = encode(&ins, binary.LittleEndian)

	return ins
}

func encode(ins *Instruction, bo binary.ByteOrder) []byte {
	raw := make([]byte, ins.Size())

	raw[0] = ins.OpCode
	raw[1] = packRegs(ins.Operands.Dst, ins.Operands.Src, bo)
	bo.PutUint16(raw[2:4], uint16(ins.Operands.Offset))
	bo.PutUint32(raw[4:8], uint32(ins.Operands.Constant))

	if ins.Wide() {
		bo.PutUint32(raw[12:16], uint32(uint64(ins.Operands.Constant)>>32))
	}

	return raw
}

// DecodeInstructions decodes a program section's bytes. Offsets start at 0.
func DecodeInstructions(data []byte, bo binary.ByteOrder) ([]Instruction, error) {
	insns := make([]Instruction, 0, len(data)/InstructionSize)

	var off uint64

	for off < uint64(len(data)) {
		rest := data[off:]
		if len(rest) < InstructionSize {
			return nil, fmt.Errorf("%w: %d trailing bytes at offset %#x", ErrTruncatedInstruction, len(rest), off)
		}

		dst, src := unpackRegs(rest[1], bo)

		ins := Instruction{
			Offset: off,
			OpCode: rest[0],
			Operands: Operands{
				Dst:      dst,
				Src:      src,
				Offset:   int16(bo.Uint16(rest[2:4])),
				Constant: int64(int32(bo.Uint32(rest[4:8]))),
			},
		}

		if ins.Wide() {
			if len(rest) < WideInstructionSize {
				return nil, fmt.Errorf("%w: lddw at offset %#x is missing its second half", ErrTruncatedInstruction, off)
			}

			lo := uint64(bo.Uint32(rest[4:8]))
			hi := uint64(bo.Uint32(rest[12:16]))
			ins.Operands.Constant = int64(hi<<32 | lo)
		}

		ins.Raw = append([]byte(nil), rest[:ins.Size()]...)
		insns = append(insns, ins)
		off += ins.Size()
	}

	return insns, nil
}

// the register byte is nibble-swapped on big endian targets
func packRegs(dst, src uint8, bo binary.ByteOrder) uint8 {
	if bo == binary.BigEndian {
		return dst<<4 | src&0x0f
	}

	return src<<4 | dst&0x0f
}

func unpackRegs(b uint8, bo binary.ByteOrder) (dst, src uint8) {
	if bo == binary.BigEndian {
		return b >> 4, b & 0x0f
	}

	return b & 0x0f, b >> 4
}
