package interpreter

import (
	"fmt"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
)

// StopReason indicates why execution stopped
type StopReason int

const (
	// StopNone indicates execution has not stopped
	StopNone StopReason = iota
	// StopHalt indicates a HALT instruction was executed
	StopHalt
	// StopEndOfMemory indicates the program counter ran past the memory capacity
	StopEndOfMemory
	// StopDivideByZero indicates a DIV instruction with a zero divisor
	StopDivideByZero
	// StopInvalidOpCode indicates a word with an opcode outside the instruction set
	StopInvalidOpCode
	// StopFault indicates a fatal instruction fault, see FaultError
	StopFault
	// StopMaxSteps indicates max steps limit was reached
	StopMaxSteps
	// StopBreakpoint indicates execution stopped at a breakpoint
	StopBreakpoint
)

// String returns the string representation of a StopReason
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopHalt:
		return "halt"
	case StopEndOfMemory:
		return "end_of_memory"
	case StopDivideByZero:
		return "divide_by_zero"
	case StopInvalidOpCode:
		return "invalid_opcode"
	case StopFault:
		return "fault"
	case StopMaxSteps:
		return "max_steps"
	case StopBreakpoint:
		return "breakpoint"
	default:
		return fmt.Sprintf("unknown(%d)", r)
	}
}

// Whether the stop is the regular end of a program
func (r StopReason) Normal() bool {
	return r == StopHalt || r == StopEndOfMemory
}

// StepResult contains the result of executing a single instruction
type StepResult struct {
	// PC is the address the instruction was fetched from
	PC uint16
	// Word is the raw fetched word
	Word isa.Word
	// Instruction is the executed instruction, nil if nothing was executed
	Instruction isa.Instruction
	// StopReason is StopNone while the CPU keeps running
	StopReason StopReason
	// Err is the recoverable error that stopped the CPU, if any
	Err error
}

// ExecutionResult contains the result of an execution operation
type ExecutionResult struct {
	// StopReason indicates why execution stopped
	StopReason StopReason
	// StepsExecuted is the number of instructions executed
	StepsExecuted int
	// Error contains the recoverable error that stopped execution (nil if none)
	Error error
	// LastPC is the address of the last fetched instruction
	LastPC uint16
	// LastInstruction is the last executed instruction (if available)
	LastInstruction isa.Instruction
}
