package internal

// NumKeys is the number of keys on the hex keypad.
const NumKeys = 16

// runState is either running or waitingForKey.
type runState interface {
	isRunState()
}

type running struct{}

// waitingForKey suspends execution until a key goes down. The key code is
// stored in V[register].
type waitingForKey struct {
	register uint8
}

func (running) isRunState()       {}
func (waitingForKey) isRunState() {}

// WaitingForKey returns the register awaiting a key press, if execution is
// suspended by Fx0A.
func (vm *C8VM) WaitingForKey() (register uint8, ok bool) {
	w, ok := vm.state.(waitingForKey)
	return w.register, ok
}

// KeyDown presses a key. A press that goes down while the VM waits for a
// key is stored in the waiting register and resumes execution.
func (vm *C8VM) KeyDown(code uint8) error {
	if code >= NumKeys {
		return ErrInvalidKeyCode
	}
	if vm.keys[code] {
		return nil
	}
	vm.keys[code] = true

	if w, ok := vm.state.(waitingForKey); ok {
		vm.regV[w.register] = code
		vm.state = running{}
		vm.log.V(1).Info("Key press resumed execution", "key", code, "register", w.register)
	}
	return nil
}

// KeyUp releases a key.
func (vm *C8VM) KeyUp(code uint8) error {
	if code >= NumKeys {
		return ErrInvalidKeyCode
	}
	vm.keys[code] = false
	return nil
}

// IsKeyPressed returns whether the key is held down. Codes outside the
// keypad are never pressed.
func (vm *C8VM) IsKeyPressed(code uint8) bool {
	return code < NumKeys && vm.keys[code]
}

func (vm *C8VM) waitForKey(register uint8) {
	vm.state = waitingForKey{register: register}
	vm.log.V(1).Info("Waiting for key press", "register", register)
}
