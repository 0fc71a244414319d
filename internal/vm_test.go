package internal_test

import (
	"errors"

	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mnafees/chopper/internal"
)

var _ = Describe("C8VM", func() {
	Describe("NewC8VM", func() {
		It("should start at 0x200 with empty registers", func() {
			vm := newVM()
			state := vm.State()

			Expect(state.PC).To(Equal(uint16(0x200)))
			Expect(state.SP).To(BeZero())
			Expect(state.I).To(BeZero())
			Expect(state.V).To(Equal([16]uint8{}))
			_, waiting := vm.WaitingForKey()
			Expect(waiting).To(BeFalse())
		})

		It("should load the font at 0x000-0x04F", func() {
			vm := newVM()
			font := internal.Font()
			Expect(font).To(HaveLen(0x50))

			for addr := range font {
				b, err := vm.ReadMemory(uint16(addr))
				Expect(err).NotTo(HaveOccurred())
				Expect(b).To(Equal(font[addr]), "font byte %02X", addr)
			}
		})

		It("should reject a non-positive instruction rate", func() {
			_, err := internal.NewC8VM(internal.WithInstructionsPerTick(0))
			Expect(err).To(MatchError(internal.ErrInvalidConfig))
		})
	})

	Describe("LoadProgram", func() {
		It("should copy the program to 0x200", func() {
			rom := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x42}
			vm := newVM()
			Expect(vm.LoadProgram(rom)).To(Succeed())

			for k, want := range rom {
				b, err := vm.ReadMemory(uint16(0x200 + k))
				Expect(err).NotTo(HaveOccurred())
				Expect(b).To(Equal(want))
			}
		})

		It("should accept a program filling all of memory", func() {
			rom := make([]byte, internal.MaxProgramSize)
			rom[len(rom)-1] = 0x99
			vm := newVM()
			Expect(vm.LoadProgram(rom)).To(Succeed())

			b, err := vm.ReadMemory(0xFFF)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(Equal(uint8(0x99)))
		})

		It("should reject a program larger than memory", func() {
			vm := newVM()
			err := vm.LoadProgram(make([]byte, internal.MaxProgramSize+1))
			Expect(err).To(MatchError(internal.ErrProgramTooLarge))

			b, err := vm.ReadMemory(0x200)
			Expect(err).NotTo(HaveOccurred())
			Expect(b).To(BeZero())
		})
	})

	Describe("ReadMemory", func() {
		It("should reject addresses past 0xFFF", func() {
			_, err := newVM().ReadMemory(0x1000)
			Expect(err).To(MatchError(internal.ErrAddressOutOfRange))
		})
	})

	Describe("Cycle", func() {
		It("should execute the configured number of instructions", func() {
			vm := newVM(internal.WithInstructionsPerTick(3))
			Expect(vm.LoadProgram(program(0x7001, 0x7001, 0x7001, 0x7001, 0x7001))).To(Succeed())

			Expect(vm.Cycle()).To(Succeed())
			Expect(vm.State().V[0]).To(Equal(uint8(3)))
			Expect(vm.State().PC).To(Equal(uint16(0x206)))
		})

		It("should decrement the timers once per cycle down to zero", func() {
			// LD V5, 5; LD DT, V5; LD ST, V5; JP $206
			vm := loadVM(0x6505, 0xF515, 0xF518, 0x1206)

			for i := 0; i < 5; i++ {
				Expect(vm.Cycle()).To(Succeed())
			}
			Expect(vm.DelayTimer()).To(BeZero())
			Expect(vm.SoundTimer()).To(BeZero())

			Expect(vm.Cycle()).To(Succeed())
			Expect(vm.DelayTimer()).To(BeZero())
			Expect(vm.SoundTimer()).To(BeZero())
		})

		It("should decrement by one regardless of the instruction rate", func() {
			vm := newVM(internal.WithInstructionsPerTick(50))
			Expect(vm.LoadProgram(program(0x6509, 0xF515, 0x1204))).To(Succeed())

			Expect(vm.Cycle()).To(Succeed())
			Expect(vm.DelayTimer()).To(Equal(uint8(8)))
		})

		It("should stop at the first error and keep state inspectable", func() {
			// LD V0, 7; unknown; LD V0, 9
			vm := loadVM(0x6007, 0x5121, 0x6009)

			err := vm.Cycle()
			var opErr *internal.OpcodeError
			Expect(errors.As(err, &opErr)).To(BeTrue())
			Expect(opErr.Opcode).To(Equal(uint16(0x5121)))
			Expect(opErr.PC).To(Equal(uint16(0x202)))
			Expect(err).To(MatchError(internal.ErrUnknownOpcode))

			state := vm.State()
			Expect(state.PC).To(Equal(uint16(0x202)))
			Expect(state.V[0]).To(Equal(uint8(7)))
		})

		It("should not tick the timers on a failing cycle", func() {
			vm := loadVM(0x6503, 0xF515, 0xFFFF)
			Expect(vm.Cycle()).To(MatchError(internal.ErrUnknownOpcode))
			Expect(vm.DelayTimer()).To(Equal(uint8(3)))
		})

		It("should fail when the program counter runs off the end of memory", func() {
			vm := loadVM(0x1FFF)
			step(vm, 1)

			err := vm.Step()
			Expect(err).To(MatchError(internal.ErrAddressOutOfRange))
			Expect(vm.State().PC).To(Equal(uint16(0xFFF)))
		})
	})

	Describe("tracing", func() {
		It("should log each executed instruction at V(1)", func() {
			var lines []string
			logger := funcr.New(func(prefix, args string) {
				lines = append(lines, args)
			}, funcr.Options{Verbosity: 1})

			vm := newVM(internal.WithLogger(logger))
			Expect(vm.LoadProgram(program(0x6A2B))).To(Succeed())
			step(vm, 1)

			Expect(lines).To(HaveLen(1))
			Expect(lines[0]).To(ContainSubstring(`"asm"="LD VA, $2B"`))
			Expect(lines[0]).To(ContainSubstring(`"pc"="200"`))
		})
	})
})
