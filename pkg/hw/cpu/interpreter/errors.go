package interpreter

import (
	"errors"

	"github.com/nibble-vm/nibble/pkg/translate"
)

var f = translate.From

var (
	// Process-fatal: the result of SUB or DEC would be negative
	ErrUnderflow = errors.New(f("will result in negative number"))
	// Engine-recoverable: DIV with a zero divisor
	ErrDivideByZero = errors.New(f("dividing by zero is not allowed"))
	// The processor must be started before stepping
	ErrHalted = errors.New(f("cpu is halted"))
	// Memory access past the memory capacity
	ErrOutOfBounds = errors.New(f("memory access out of bounds"))
)

// FaultError reports an instruction whose execution cannot continue. The driver is expected
// to terminate the process when it gets one.
type FaultError struct {
	Mnemonic string
	PC       uint16
	Err      error
}

func (err *FaultError) Error() string {
	return f("%v at 0x%02X: %v", err.Mnemonic, err.PC, err.Err)
}

func (err *FaultError) Unwrap() error {
	return err.Err
}
