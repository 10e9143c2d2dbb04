package isa

import (
	"fmt"

	"github.com/nibble-vm/nibble/pkg/utils"
)

// Index of a general purpose register. Only the 4 least significant bits are encoded.
type Register uint16

// Immediate operand value. Only the 8 least significant bits are encoded.
type Immediate uint16

// Jump destination. Only the 4 least significant bits are encoded.
type Address uint16

// Number of general purpose registers
const RegisterCount = 16

// Returns the letter used to name a register in assembly and output ('a' for register 0)
func RegisterLetter(r Register) byte {
	if r >= 26 {
		return '?'
	}
	return byte('a' + r)
}

// A decoded machine instruction.
//
// The set of implementations is closed: Halt, Add, Mov, Mul, Sub, Swap, Div, Clr, Inc,
// Dec, Print, Pow, Movr, Cmp, Jmp and Nop.
type Instruction interface {
	OpCode() OpCode
	String() string

	isInstruction()
}

type Halt struct{}

type Add struct{ Dst, Src Register }

type Mov struct {
	Dst   Register
	Value Immediate
}

type Mul struct{ Dst, Src Register }

type Sub struct{ Dst, Src Register }

type Swap struct{ A, B Register }

type Div struct{ Dst, Src Register }

type Clr struct{ Reg Register }

type Inc struct{ Reg Register }

type Dec struct{ Reg Register }

type Print struct{ Reg Register }

type Pow struct {
	Dst      Register
	Exponent Immediate
}

type Movr struct{ Dst, Src Register }

type Cmp struct{ A, B Register }

type Jmp struct{ Target Address }

type Nop struct{}

func (Halt) OpCode() OpCode  { return OpCode_HALT }
func (Add) OpCode() OpCode   { return OpCode_ADD }
func (Mov) OpCode() OpCode   { return OpCode_MOV }
func (Mul) OpCode() OpCode   { return OpCode_MUL }
func (Sub) OpCode() OpCode   { return OpCode_SUB }
func (Swap) OpCode() OpCode  { return OpCode_SWAP }
func (Div) OpCode() OpCode   { return OpCode_DIV }
func (Clr) OpCode() OpCode   { return OpCode_CLR }
func (Inc) OpCode() OpCode   { return OpCode_INC }
func (Dec) OpCode() OpCode   { return OpCode_DEC }
func (Print) OpCode() OpCode { return OpCode_PRINT }
func (Pow) OpCode() OpCode   { return OpCode_POW }
func (Movr) OpCode() OpCode  { return OpCode_MOVR }
func (Cmp) OpCode() OpCode   { return OpCode_CMP }
func (Jmp) OpCode() OpCode   { return OpCode_JMP }
func (Nop) OpCode() OpCode   { return OpCode_NOP }

func (Halt) isInstruction()  {}
func (Add) isInstruction()   {}
func (Mov) isInstruction()   {}
func (Mul) isInstruction()   {}
func (Sub) isInstruction()   {}
func (Swap) isInstruction()  {}
func (Div) isInstruction()   {}
func (Clr) isInstruction()   {}
func (Inc) isInstruction()   {}
func (Dec) isInstruction()   {}
func (Print) isInstruction() {}
func (Pow) isInstruction()   {}
func (Movr) isInstruction()  {}
func (Cmp) isInstruction()   {}
func (Jmp) isInstruction()   {}
func (Nop) isInstruction()   {}

func format(op OpCode, operands ...uint16) string {
	switch len(operands) {
	case 0:
		return op.String()
	case 1:
		return fmt.Sprintf("%v %v", op, operands[0])
	}
	return fmt.Sprintf("%v %v, %v", op, operands[0], operands[1])
}

func (i Halt) String() string  { return format(i.OpCode()) }
func (i Add) String() string   { return format(i.OpCode(), uint16(i.Dst), uint16(i.Src)) }
func (i Mov) String() string   { return format(i.OpCode(), uint16(i.Dst), uint16(i.Value)) }
func (i Mul) String() string   { return format(i.OpCode(), uint16(i.Dst), uint16(i.Src)) }
func (i Sub) String() string   { return format(i.OpCode(), uint16(i.Dst), uint16(i.Src)) }
func (i Swap) String() string  { return format(i.OpCode(), uint16(i.A), uint16(i.B)) }
func (i Div) String() string   { return format(i.OpCode(), uint16(i.Dst), uint16(i.Src)) }
func (i Clr) String() string   { return format(i.OpCode(), uint16(i.Reg)) }
func (i Inc) String() string   { return format(i.OpCode(), uint16(i.Reg)) }
func (i Dec) String() string   { return format(i.OpCode(), uint16(i.Reg)) }
func (i Print) String() string { return format(i.OpCode(), uint16(i.Reg)) }
func (i Pow) String() string   { return format(i.OpCode(), uint16(i.Dst), uint16(i.Exponent)) }
func (i Movr) String() string  { return format(i.OpCode(), uint16(i.Dst), uint16(i.Src)) }
func (i Cmp) String() string   { return format(i.OpCode(), uint16(i.A), uint16(i.B)) }
func (i Jmp) String() string   { return format(i.OpCode(), uint16(i.Target)) }
func (i Nop) String() string   { return format(i.OpCode()) }

// Builds the instruction for an opcode given its operands in assembly order.
// Operands not used by the opcode are ignored.
func Make(op OpCode, first uint16, second uint16) (Instruction, error) {
	switch op {
	case OpCode_HALT:
		return Halt{}, nil
	case OpCode_ADD:
		return Add{Dst: Register(first), Src: Register(second)}, nil
	case OpCode_MOV:
		return Mov{Dst: Register(first), Value: Immediate(second)}, nil
	case OpCode_MUL:
		return Mul{Dst: Register(first), Src: Register(second)}, nil
	case OpCode_SUB:
		return Sub{Dst: Register(first), Src: Register(second)}, nil
	case OpCode_SWAP:
		return Swap{A: Register(first), B: Register(second)}, nil
	case OpCode_DIV:
		return Div{Dst: Register(first), Src: Register(second)}, nil
	case OpCode_CLR:
		return Clr{Reg: Register(first)}, nil
	case OpCode_INC:
		return Inc{Reg: Register(first)}, nil
	case OpCode_DEC:
		return Dec{Reg: Register(first)}, nil
	case OpCode_PRINT:
		return Print{Reg: Register(first)}, nil
	case OpCode_POW:
		return Pow{Dst: Register(first), Exponent: Immediate(second)}, nil
	case OpCode_MOVR:
		return Movr{Dst: Register(first), Src: Register(second)}, nil
	case OpCode_CMP:
		return Cmp{A: Register(first), B: Register(second)}, nil
	case OpCode_JMP:
		return Jmp{Target: Address(first)}, nil
	case OpCode_NOP:
		return Nop{}, nil
	}

	return nil, utils.MakeError(ErrInvalidOpCode, "%v", uint8(op))
}
