package internal

import (
	"fmt"

	"github.com/mnafees/chopper/internal/disasm"
)

// execute fetches, decodes and executes the instruction at pc. On error pc
// is left pointing at the faulting instruction.
func (vm *C8VM) execute() error {
	pc := vm.pc
	if err := vm.checkRange(pc, 2); err != nil {
		return vm.fail(0, pc, err)
	}
	opcode := uint16(vm.memory[pc])<<8 | uint16(vm.memory[pc+1]) // 16-bit instruction opcode

	if log := vm.log.V(1); log.Enabled() {
		log.Info("Executing instruction",
			"pc", fmt.Sprintf("%03X", pc),
			"opcode", fmt.Sprintf("%04X", opcode),
			"asm", disasm.Decode(pc, opcode).String())
	}

	vm.pc += 2
	if err := vm.dispatch(opcode); err != nil {
		vm.pc = pc
		return vm.fail(opcode, pc, err)
	}
	return nil
}

func (vm *C8VM) fail(opcode, pc uint16, err error) error {
	opErr := &OpcodeError{Opcode: opcode, PC: pc, Err: err}
	vm.log.Error(err, "Execution halted",
		"pc", fmt.Sprintf("%03X", pc),
		"opcode", fmt.Sprintf("%04X", opcode))
	return opErr
}

// dispatch executes a single decoded instruction. pc already points at the
// next instruction.
func (vm *C8VM) dispatch(opcode uint16) error {
	x := uint8((opcode >> 8) & 0x000F) // the lower 4 bits of the high byte of the instruction
	y := uint8((opcode >> 4) & 0x000F) // the upper 4 bits of the low byte of the instruction
	n := uint8(opcode & 0x000F)        // the lowest 4 bits of the instruction
	kk := uint8(opcode & 0x00FF)       // the lowest 8 bits of the instruction
	nnn := opcode & 0x0FFF             // the lowest 12 bits of the instruction

	switch opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch opcode {
		case 0x00E0: // CLS
			vm.pixels.clear()
			vm.drawFlag = true
		case 0x00EE: // RET
			addr, err := vm.pop()
			if err != nil {
				return err
			}
			vm.pc = addr
		default:
			return ErrUnknownOpcode
		}
	case 0x1000: // JP nnn
		vm.pc = nnn
	case 0x2000: // CALL nnn
		if err := vm.push(vm.pc); err != nil {
			return err
		}
		vm.pc = nnn
	case 0x3000: // SE Vx, kk
		vm.skipIf(vm.regV[x] == kk)
	case 0x4000: // SNE Vx, kk
		vm.skipIf(vm.regV[x] != kk)
	case 0x5000: // SE Vx, Vy
		if n != 0 {
			return ErrUnknownOpcode
		}
		vm.skipIf(vm.regV[x] == vm.regV[y])
	case 0x6000: // LD Vx, kk
		vm.regV[x] = kk
	case 0x7000: // ADD Vx, kk
		vm.regV[x] += kk
	case 0x8000:
		return vm.arithmetic(x, y, n)
	case 0x9000: // SNE Vx, Vy
		if n != 0 {
			return ErrUnknownOpcode
		}
		vm.skipIf(vm.regV[x] != vm.regV[y])
	case 0xA000: // LD I, nnn
		vm.regI = nnn
	case 0xB000: // JP V0, nnn
		vm.pc = nnn + uint16(vm.regV[0])
	case 0xC000: // RND Vx, kk
		vm.regV[x] = vm.rand.Byte() & kk
	case 0xD000: // DRW Vx, Vy, n
		return vm.drawSprite(x, y, n)
	case 0xE000:
		return vm.keyboard(x, kk)
	case 0xF000:
		return vm.misc(x, kk)
	default:
		return ErrUnknownOpcode
	}
	return nil
}

func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2
	}
}

// arithmetic executes the 8xyN register-to-register family.
func (vm *C8VM) arithmetic(x, y, n uint8) error {
	switch n {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vm.regV[y]
	case 0x1: // OR Vx, Vy
		vm.regV[x] |= vm.regV[y]
	case 0x2: // AND Vx, Vy
		vm.regV[x] &= vm.regV[y]
	case 0x3: // XOR Vx, Vy
		vm.regV[x] ^= vm.regV[y]
	case 0x4: // ADD Vx, Vy
		sum := uint16(vm.regV[x]) + uint16(vm.regV[y])
		vm.regV[0xF] = flag(sum > 0xFF)
		vm.regV[x] = uint8(sum)
	case 0x5: // SUB Vx, Vy
		vx, vy := vm.regV[x], vm.regV[y]
		vm.regV[0xF] = flag(vx > vy)
		vm.regV[x] = vx - vy
	case 0x6: // SHR Vx {, Vy}
		// VF receives the whole low nibble, not just bit 0.
		vm.regV[0xF] = vm.regV[x] & 0x0F
		vm.regV[x] >>= 1
	case 0x7: // SUBN Vx, Vy
		vx, vy := vm.regV[x], vm.regV[y]
		vm.regV[0xF] = flag(vy > vx)
		vm.regV[x] = vy - vx
	case 0xE: // SHL Vx {, Vy}
		// VF receives the masked high bit (0x00 or 0x80), not 0 or 1.
		vm.regV[0xF] = vm.regV[x] & 0x80
		vm.regV[x] <<= 1
	default:
		return ErrUnknownOpcode
	}
	return nil
}

// keyboard executes the Ex9E and ExA1 key skips.
func (vm *C8VM) keyboard(x, kk uint8) error {
	key := vm.regV[x]
	if kk != 0x9E && kk != 0xA1 {
		return ErrUnknownOpcode
	}
	if key >= NumKeys {
		return ErrInvalidKeyCode
	}

	if kk == 0x9E { // SKP Vx
		vm.skipIf(vm.keys[key])
	} else { // SKNP Vx
		vm.skipIf(!vm.keys[key])
	}
	return nil
}

// misc executes the Fxkk family.
func (vm *C8VM) misc(x, kk uint8) error {
	switch kk {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.delayTimer
	case 0x0A: // LD Vx, K
		vm.waitForKey(x)
	case 0x15: // LD DT, Vx
		vm.delayTimer = vm.regV[x]
	case 0x18: // LD ST, Vx
		vm.soundTimer = vm.regV[x]
	case 0x1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
	case 0x29: // LD F, Vx
		vm.regI = uint16(vm.regV[x]) * fontGlyphSize
	case 0x33: // LD B, Vx
		if err := vm.checkRange(vm.regI, 3); err != nil {
			return err
		}
		vx := vm.regV[x]
		vm.memory[vm.regI] = vx / 100
		vm.memory[vm.regI+1] = (vx / 10) % 10
		vm.memory[vm.regI+2] = vx % 10
	case 0x55: // LD [I], Vx
		return vm.storeRegisters(vm.regV[x])
	case 0x65: // LD Vx, [I]
		return vm.loadRegisters(vm.regV[x])
	default:
		return ErrUnknownOpcode
	}
	return nil
}

// storeRegisters copies V0..Vlast into memory starting at I. The bound is
// the value held in Vx rather than x itself, so it may exceed 15; the
// bytes for those nonexistent registers are written as 0.
func (vm *C8VM) storeRegisters(last uint8) error {
	count := int(last) + 1
	if err := vm.checkRange(vm.regI, count); err != nil {
		return err
	}
	base := int(vm.regI)
	for idx := 0; idx < count; idx++ {
		var value uint8
		if idx < len(vm.regV) {
			value = vm.regV[idx]
		}
		vm.memory[base+idx] = value
	}
	return nil
}

// loadRegisters is the inverse of storeRegisters. Indices past VF are
// skipped.
func (vm *C8VM) loadRegisters(last uint8) error {
	count := min(int(last)+1, len(vm.regV))
	if err := vm.checkRange(vm.regI, count); err != nil {
		return err
	}
	base := int(vm.regI)
	for idx := 0; idx < count; idx++ {
		vm.regV[idx] = vm.memory[base+idx]
	}
	return nil
}

func flag(set bool) uint8 {
	if set {
		return 1
	}
	return 0
}
