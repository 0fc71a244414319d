package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const commentColumn = 30

// Options controls the listing output.
type Options struct {
	HexComments    bool // append the opcode word as a comment
	OffsetComments bool // append the memory address as a comment
}

// Disassemble decodes program as consecutive 2-byte words loaded at base.
// A trailing odd byte is emitted as DB data.
func Disassemble(program []byte, base uint16) []Instruction {
	insts := make([]Instruction, 0, len(program)/2+1)
	for i := 0; i+1 < len(program); i += 2 {
		opcode := uint16(program[i])<<8 | uint16(program[i+1])
		insts = append(insts, Decode(base+uint16(i), opcode))
	}
	if len(program)%2 == 1 {
		last := len(program) - 1
		insts = append(insts, Instruction{
			Address:  base + uint16(last),
			Opcode:   uint16(program[last]),
			Mnemonic: "DB",
			Operands: fmt.Sprintf("$%02X", program[last]),
			Kind:     Data,
		})
	}
	return insts
}

// Labels names every call and jump target that starts a decoded
// instruction. The first instruction is always named Start.
func Labels(insts []Instruction) map[uint16]string {
	labels := make(map[uint16]string)
	if len(insts) == 0 {
		return labels
	}

	starts := make(map[uint16]struct{}, len(insts))
	for _, inst := range insts {
		starts[inst.Address] = struct{}{}
	}

	for _, inst := range insts {
		if _, ok := starts[inst.Target]; !ok {
			continue
		}
		switch {
		case inst.IsCall():
			labels[inst.Target] = fmt.Sprintf("fn_%03X", inst.Target)
		case inst.IsJump() && inst.Target != 0:
			if _, named := labels[inst.Target]; !named {
				labels[inst.Target] = fmt.Sprintf("label_%03X", inst.Target)
			}
		}
	}
	labels[insts[0].Address] = "Start"
	return labels
}

// Write prints an assembly listing of insts to w.
func Write(w io.Writer, insts []Instruction, opts Options) error {
	labels := Labels(insts)
	bw := bufio.NewWriter(w)

	for _, inst := range insts {
		if name, ok := labels[inst.Address]; ok {
			if _, err := fmt.Fprintf(bw, "%s:\n", name); err != nil {
				return err
			}
		}

		line := "  " + text(inst, labels)
		if comment := comment(inst, opts); comment != "" {
			if pad := commentColumn - len(line); pad > 0 {
				line += strings.Repeat(" ", pad)
			}
			line += " ; " + comment
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// text renders inst, using label names for JP and CALL targets.
func text(inst Instruction, labels map[uint16]string) string {
	if inst.Opcode&0xF000 != 0x1000 && !inst.IsCall() {
		return inst.String()
	}
	if name, ok := labels[inst.Target]; ok {
		return inst.Mnemonic + " " + name
	}
	return inst.String()
}

func comment(inst Instruction, opts Options) string {
	var parts []string
	if opts.HexComments {
		if inst.Mnemonic == "DB" {
			parts = append(parts, fmt.Sprintf("$%02X", inst.Opcode))
		} else {
			parts = append(parts, fmt.Sprintf("$%04X", inst.Opcode))
		}
	}
	if opts.OffsetComments {
		parts = append(parts, fmt.Sprintf("@ $%03X", inst.Address))
	}
	return strings.Join(parts, " ")
}
