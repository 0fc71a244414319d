package internal

import (
	"math/rand"
	"time"

	"github.com/go-logr/logr"
)

// DefaultInstructionsPerTick is the number of instructions run per cycle
// unless overridden with WithInstructionsPerTick.
const DefaultInstructionsPerTick = 10

// ByteSource produces uniformly distributed bytes for the RND instruction.
type ByteSource interface {
	Byte() uint8
}

// ByteSourceFunc adapts a function to ByteSource.
type ByteSourceFunc func() uint8

// Byte calls f.
func (f ByteSourceFunc) Byte() uint8 { return f() }

// NewRandSource returns a ByteSource backed by math/rand. A seed of 0
// seeds from the current time.
func NewRandSource(seed int64) ByteSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))
	return ByteSourceFunc(func() uint8 {
		return uint8(r.Intn(256))
	})
}

// Option configures a C8VM.
type Option func(*C8VM)

// WithInstructionsPerTick sets how many instructions a Cycle executes
// before the timers are decremented.
func WithInstructionsPerTick(n int) Option {
	return func(vm *C8VM) {
		vm.instructionsPerTick = n
	}
}

// WithByteSource replaces the random source used by RND.
func WithByteSource(src ByteSource) Option {
	return func(vm *C8VM) {
		vm.rand = src
	}
}

// WithLogger sets the logger. Instruction tracing is logged at V(1).
func WithLogger(logger logr.Logger) Option {
	return func(vm *C8VM) {
		vm.log = logger
	}
}
