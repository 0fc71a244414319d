package internal

import (
	"errors"
	"fmt"
)

// Errors reported by the VM. Execution errors are wrapped in an *OpcodeError.
var (
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrAddressOutOfRange = errors.New("memory address out of range")
	ErrInvalidKeyCode    = errors.New("invalid key code")
	ErrProgramTooLarge   = errors.New("program size exceeds the maximum size")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// OpcodeError is a fatal error raised while executing an instruction.
type OpcodeError struct {
	Opcode uint16 // the offending instruction word
	PC     uint16 // address the instruction was fetched from
	Err    error
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("%v: opcode %04X at %03X", e.Err, e.Opcode, e.PC)
}

func (e *OpcodeError) Unwrap() error {
	return e.Err
}
