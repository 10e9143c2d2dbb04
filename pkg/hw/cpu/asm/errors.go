package asm

import (
	"errors"

	"github.com/nibble-vm/nibble/pkg/translate"
)

var f = translate.From

var (
	// Source errors
	ErrEmptySource = errors.New(f("source has no instructions"))
	ErrLex         = errors.New(f("cannot tokenize source"))

	// Line errors
	ErrUnknownMnemonic = errors.New(f("unknown mnemonic"))
	ErrInvalidOperand  = errors.New(f("operand is not a number or register"))
	ErrInvalidBinary   = errors.New(f("invalid binary literal"))

	// Function block errors
	ErrNestedBlock       = errors.New(f("block inside block prohibited"))
	ErrStrayEnd          = errors.New(f(".end without block"))
	ErrUnterminatedBlock = errors.New(f("block without .end"))
)

// SyntaxError reports the offending token and 1-based source line of a fatal assembly error
type SyntaxError struct {
	Line  int
	Token string
	Err   error
}

func (err *SyntaxError) Error() string {
	return f("line %d '%v': %v", err.Line, err.Token, err.Err)
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}
