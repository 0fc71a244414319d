package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"fmt"

	"github.com/go-logr/logr"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	pcStartAddr    = 0x200
	maxProgramSize = totalMemory - pcStartAddr
	stackSize      = 16
	fontGlyphSize  = 5

	// ProgramStart is the address programs are loaded at and run from.
	ProgramStart = pcStartAddr
	// MaxProgramSize is the largest program LoadProgram accepts.
	MaxProgramSize = maxProgramSize
)

// C8VM is an emulated CHIP-8 VM.
//
// A C8VM performs no synchronization. All calls must be serialized by the
// caller.
type C8VM struct {
	regV       [16]uint8          // 16 general purpose 8-bit registers, VF doubles as the flag register
	regI       uint16             // 16-bit register that is generally used to store memory addresses
	delayTimer uint8              // Delay timer
	soundTimer uint8              // Sound timer
	pc         uint16             // Program counter
	sp         uint8              // Stack pointer, index of the next free slot
	stack      [stackSize]uint16  // A stack of 16 16-bit values
	memory     [totalMemory]uint8 // 4 KB global memory

	keys  [NumKeys]bool
	state runState

	pixels   Display // 64 px x 32 px display
	drawFlag bool    // Display changed flag

	instructionsPerTick int
	rand                ByteSource
	log                 logr.Logger
}

var fontset = [...]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Font returns the built-in hexadecimal font, 5 bytes per glyph.
func Font() []uint8 {
	font := fontset
	return font[:]
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM
func NewC8VM(opts ...Option) (*C8VM, error) {
	vm := &C8VM{
		pc:                  pcStartAddr,
		state:               running{},
		instructionsPerTick: DefaultInstructionsPerTick,
		log:                 logr.Discard(),
	}
	for _, opt := range opts {
		opt(vm)
	}

	if vm.instructionsPerTick < 1 {
		return nil, fmt.Errorf("%w: instructions per tick must be positive, got %d",
			ErrInvalidConfig, vm.instructionsPerTick)
	}
	if vm.rand == nil {
		vm.rand = NewRandSource(0)
	}
	copy(vm.memory[:], fontset[:])
	return vm, nil
}

// LoadProgram loads a given CHIP-8 program into the VM's memory
func (vm *C8VM) LoadProgram(program []byte) error {
	if len(program) > maxProgramSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrProgramTooLarge, len(program), maxProgramSize)
	}
	copy(vm.memory[pcStartAddr:], program)
	return nil
}

// Cycle runs one timestep: up to instructionsPerTick instructions followed
// by one timer decrement. While waiting for a key nothing is executed and
// the timers are left untouched. Execution stops at the first error.
func (vm *C8VM) Cycle() error {
	for i := 0; i < vm.instructionsPerTick; i++ {
		if _, waiting := vm.WaitingForKey(); waiting {
			break
		}
		if err := vm.execute(); err != nil {
			return err
		}
	}

	if _, waiting := vm.WaitingForKey(); !waiting {
		vm.decrementTimers()
	}
	return nil
}

// Step executes a single instruction without touching the timers. It does
// nothing while waiting for a key.
func (vm *C8VM) Step() error {
	if _, waiting := vm.WaitingForKey(); waiting {
		return nil
	}
	return vm.execute()
}

// DelayTimer returns the value of DT
func (vm *C8VM) DelayTimer() uint8 {
	return vm.delayTimer
}

// SoundTimer returns the value of ST. A nonzero value means a tone should
// be playing.
func (vm *C8VM) SoundTimer() uint8 {
	return vm.soundTimer
}

func (vm *C8VM) decrementTimers() {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}
	if vm.soundTimer > 0 {
		vm.soundTimer--
	}
}

// State is a copy of the CPU registers.
type State struct {
	V          [16]uint8
	I          uint16
	PC         uint16
	SP         uint8
	Stack      [stackSize]uint16
	DelayTimer uint8
	SoundTimer uint8
}

// State returns a copy of the CPU registers.
func (vm *C8VM) State() State {
	return State{
		V:          vm.regV,
		I:          vm.regI,
		PC:         vm.pc,
		SP:         vm.sp,
		Stack:      vm.stack,
		DelayTimer: vm.delayTimer,
		SoundTimer: vm.soundTimer,
	}
}

// ReadMemory returns the byte at addr.
func (vm *C8VM) ReadMemory(addr uint16) (uint8, error) {
	if err := vm.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return vm.memory[addr], nil
}

// checkRange verifies that n bytes starting at addr are addressable.
func (vm *C8VM) checkRange(addr uint16, n int) error {
	if int(addr)+n > totalMemory {
		return fmt.Errorf("%w: %d bytes at %04X", ErrAddressOutOfRange, n, addr)
	}
	return nil
}

func (vm *C8VM) push(addr uint16) error {
	if vm.sp >= stackSize {
		return ErrStackOverflow
	}
	vm.stack[vm.sp] = addr
	vm.sp++
	return nil
}

func (vm *C8VM) pop() (uint16, error) {
	if vm.sp == 0 {
		return 0, ErrStackUnderflow
	}
	vm.sp--
	addr := vm.stack[vm.sp]
	vm.stack[vm.sp] = 0
	return addr, nil
}
