// Package disasm decodes CHIP-8 instruction words into mnemonics and
// writes assembly listings of CHIP-8 programs.
package disasm

import "fmt"

// Kind classifies an instruction by its effect on control flow.
type Kind uint8

// Instruction kinds
const (
	Sequential Kind = iota
	Jump
	Call
	Return
	Skip
	Data
)

// Instruction is a decoded CHIP-8 instruction word.
type Instruction struct {
	Address  uint16 // memory address of the first byte
	Opcode   uint16 // raw 16-bit word, big-endian
	Mnemonic string
	Operands string
	Kind     Kind
	Target   uint16 // nnn for JP, CALL and LD I
}

// Decode classifies a 16-bit instruction word fetched from addr.
// Words that match no known encoding decode as DW data.
func Decode(addr, opcode uint16) Instruction {
	x := (opcode >> 8) & 0x000F // the lower 4 bits of the high byte
	y := (opcode >> 4) & 0x000F // the upper 4 bits of the low byte
	n := opcode & 0x000F
	kk := opcode & 0x00FF
	nnn := opcode & 0x0FFF

	inst := Instruction{Address: addr, Opcode: opcode}
	set := func(mnemonic string, kind Kind, format string, args ...any) Instruction {
		inst.Mnemonic = mnemonic
		inst.Kind = kind
		if format != "" {
			inst.Operands = fmt.Sprintf(format, args...)
		}
		return inst
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			return set("CLS", Sequential, "")
		case 0x00EE:
			return set("RET", Return, "")
		}
		return set("SYS", Sequential, "$%03X", nnn)
	case 0x1000:
		inst.Target = nnn
		return set("JP", Jump, "$%03X", nnn)
	case 0x2000:
		inst.Target = nnn
		return set("CALL", Call, "$%03X", nnn)
	case 0x3000:
		return set("SE", Skip, "V%X, $%02X", x, kk)
	case 0x4000:
		return set("SNE", Skip, "V%X, $%02X", x, kk)
	case 0x5000:
		if n == 0 {
			return set("SE", Skip, "V%X, V%X", x, y)
		}
	case 0x6000:
		return set("LD", Sequential, "V%X, $%02X", x, kk)
	case 0x7000:
		return set("ADD", Sequential, "V%X, $%02X", x, kk)
	case 0x8000:
		if name, ok := aluMnemonics[n]; ok {
			return set(name, Sequential, "V%X, V%X", x, y)
		}
	case 0x9000:
		if n == 0 {
			return set("SNE", Skip, "V%X, V%X", x, y)
		}
	case 0xA000:
		inst.Target = nnn
		return set("LD", Sequential, "I, $%03X", nnn)
	case 0xB000:
		return set("JP", Jump, "V0, $%03X", nnn)
	case 0xC000:
		return set("RND", Sequential, "V%X, $%02X", x, kk)
	case 0xD000:
		return set("DRW", Sequential, "V%X, V%X, $%X", x, y, n)
	case 0xE000:
		switch kk {
		case 0x9E:
			return set("SKP", Skip, "V%X", x)
		case 0xA1:
			return set("SKNP", Skip, "V%X", x)
		}
	case 0xF000:
		if format, ok := miscFormats[kk]; ok {
			name := "LD"
			switch kk {
			case 0x1E:
				name = "ADD"
			}
			return set(name, Sequential, format, x)
		}
	}
	return set("DW", Data, "$%04X", opcode)
}

var aluMnemonics = map[uint16]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

// Operand formats of the Fx family, keyed by kk. The single argument is x.
var miscFormats = map[uint16]string{
	0x07: "V%X, DT",
	0x0A: "V%X, K",
	0x15: "DT, V%X",
	0x18: "ST, V%X",
	0x1E: "I, V%X",
	0x29: "F, V%X",
	0x33: "B, V%X",
	0x55: "[I], V%X",
	0x65: "V%X, [I]",
}

// String returns the instruction in assembly syntax, e.g. "DRW V1, V2, $5".
func (i Instruction) String() string {
	if i.Operands == "" {
		return i.Mnemonic
	}
	return i.Mnemonic + " " + i.Operands
}

// IsJump reports whether the instruction unconditionally transfers control.
func (i Instruction) IsJump() bool { return i.Kind == Jump }

// IsCall reports whether the instruction calls a subroutine.
func (i Instruction) IsCall() bool { return i.Kind == Call }

// IsReturn reports whether the instruction returns from a subroutine.
func (i Instruction) IsReturn() bool { return i.Kind == Return }

// IsSkip reports whether the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool { return i.Kind == Skip }
