package blueprint

import (
	"fmt"

	"github.com/cilium/ebpf/asm"
)

const (
	classLd    = 0x00
	classLdx   = 0x01
	classSt    = 0x02
	classStx   = 0x03
	classAlu   = 0x04
	classJmp   = 0x05
	classJmp32 = 0x06
	classAlu64 = 0x07

	modeImm    = 0x00
	modeAbs    = 0x20
	modeInd    = 0x40
	modeMem    = 0x60
	modeMemSX  = 0x80
	modeAtomic = 0xc0

	sourceReg = 0x08

	aluNeg = 0x80
	aluEnd = 0xd0

	jmpJa   = 0x00
	jmpCall = 0x80
	jmpExit = 0x90

	pseudoCall  = 1
	pseudoKfunc = 2
)

var aluNames = map[uint8]string{
	0x00: "add",
	0x10: "sub",
	0x20: "mul",
	0x30: "div",
	0x40: "or",
	0x50: "and",
	0x60: "lsh",
	0x70: "rsh",
	0x80: "neg",
	0x90: "mod",
	0xa0: "xor",
	0xb0: "mov",
	0xc0: "arsh",
}

var jmpNames = map[uint8]string{
	0x00: "ja",
	0x10: "jeq",
	0x20: "jgt",
	0x30: "jge",
	0x40: "jset",
	0x50: "jne",
	0x60: "jsgt",
	0x70: "jsge",
	0x80: "call",
	0x90: "exit",
	0xa0: "jlt",
	0xb0: "jle",
	0xc0: "jslt",
	0xd0: "jsle",
}

func sizeSuffix(op uint8) string {
	switch op & 0x18 {
	case 0x00:
		return "w"
	case 0x08:
		return "h"
	case 0x10:
		return "b"
	default:
		return "dw"
	}
}

// Mnemonic returns a human readable name for an opcode, e.g. "mov",
// "ldxdw" or "jeq32".
func Mnemonic(op uint8) string {
	switch op & 0x07 {
	case classAlu, classAlu64:
		suffix := ""
		if op&0x07 == classAlu {
			suffix = "32"
		}

		if op&0xf0 == aluEnd {
			if op&0x07 == classAlu64 {
				return "bswap"
			}

			if op&sourceReg != 0 {
				return "be"
			}

			return "le"
		}

		if name, ok := aluNames[op&0xf0]; ok {
			return name + suffix
		}
	case classJmp, classJmp32:
		name, ok := jmpNames[op&0xf0]
		if !ok {
			break
		}

		if op&0x07 == classJmp32 {
			if op&0xf0 == jmpJa {
				return "gotol"
			}

			return name + "32"
		}

		return name
	case classLd:
		switch op & 0xe0 {
		case modeImm:
			if op == opLoadImm64 {
				return "lddw"
			}
		case modeAbs:
			return "ldabs" + sizeSuffix(op)
		case modeInd:
			return "ldind" + sizeSuffix(op)
		}
	case classLdx:
		switch op & 0xe0 {
		case modeMem:
			return "ldx" + sizeSuffix(op)
		case modeMemSX:
			return "ldxs" + sizeSuffix(op)
		}
	case classSt:
		if op&0xe0 == modeMem {
			return "st" + sizeSuffix(op)
		}
	case classStx:
		switch op & 0xe0 {
		case modeMem:
			return "stx" + sizeSuffix(op)
		case modeAtomic:
			return "atomic" + sizeSuffix(op)
		}
	}

	return fmt.Sprintf("op(0x%02x)", op)
}

// Mnemonic is the instruction's opcode mnemonic.
func (i *Instruction) Mnemonic() string {
	return Mnemonic(i.OpCode)
}

// OperandText renders the operands the way a disassembler listing would.
func (i *Instruction) OperandText() string {
	op := i.OpCode
	o := i.Operands

	switch op & 0x07 {
	case classAlu, classAlu64:
		switch {
		case op&0xf0 == aluNeg:
			return fmt.Sprintf("r%d", o.Dst)
		case op&0xf0 == aluEnd:
			return fmt.Sprintf("r%d, %d", o.Dst, o.Constant)
		case op&sourceReg != 0:
			return fmt.Sprintf("r%d, r%d", o.Dst, o.Src)
		default:
			return fmt.Sprintf("r%d, %d", o.Dst, o.Constant)
		}
	case classJmp, classJmp32:
		switch op & 0xf0 {
		case jmpExit:
			return ""
		case jmpJa:
			if op&0x07 == classJmp32 {
				return fmt.Sprintf("%+d", o.Constant)
			}

			return fmt.Sprintf("%+d", o.Offset)
		case jmpCall:
			switch o.Src {
			case pseudoCall:
				return fmt.Sprintf("pc%+d", o.Constant)
			case pseudoKfunc:
				return fmt.Sprintf("kfunc %d", o.Constant)
			default:
				return asm.BuiltinFunc(int32(o.Constant)).String()
			}
		}

		if op&sourceReg != 0 {
			return fmt.Sprintf("r%d, r%d, %+d", o.Dst, o.Src, o.Offset)
		}

		return fmt.Sprintf("r%d, %d, %+d", o.Dst, o.Constant, o.Offset)
	case classLd:
		switch op & 0xe0 {
		case modeAbs:
			return fmt.Sprintf("[%d]", o.Constant)
		case modeInd:
			return fmt.Sprintf("[r%d%+d]", o.Src, o.Constant)
		}

		return fmt.Sprintf("r%d, %#x", o.Dst, uint64(o.Constant))
	case classLdx:
		return fmt.Sprintf("r%d, [r%d%+d]", o.Dst, o.Src, o.Offset)
	case classSt:
		return fmt.Sprintf("[r%d%+d], %d", o.Dst, o.Offset, o.Constant)
	case classStx:
		return fmt.Sprintf("[r%d%+d], r%d", o.Dst, o.Offset, o.Src)
	}

	return ""
}
