package isa

import (
	"fmt"

	"github.com/nibble-vm/nibble/pkg/utils"
)

// A 16 bit encoded instruction, the unit of memory and of binary images.
//
// Bit layout, MSB first:
//
//	[15:12] opcode  [11:8] field A  [7:4] field B  [3:0] low nibble
//
// Immediate carrying instructions read bits [7:0] as one 8 bit value.
type Word uint16

const (
	OpCodePosition    = 12
	FieldAPosition    = 8
	FieldBPosition    = 4
	ImmediatePosition = 0

	NibbleBits    = 4
	ImmediateBits = 8
	WordBits      = 16
)

// The fields of a decoded word
type Fields struct {
	OpCode    OpCode
	A         Register
	B         Register
	Immediate Immediate
}

// Encodes an instruction into its binary representation. Operand values wider than their
// field are truncated.
func Encode(instr Instruction) Word {
	var word Word
	view := utils.CreateBitView(&word)

	view.Write(Word(instr.OpCode()), OpCodePosition, NibbleBits)

	writeA := func(value uint16) { view.Write(Word(value), FieldAPosition, NibbleBits) }
	writeB := func(value uint16) { view.Write(Word(value), FieldBPosition, NibbleBits) }
	writeImm := func(value Immediate) { view.Write(Word(value), ImmediatePosition, ImmediateBits) }

	switch i := instr.(type) {
	case Halt, Nop:
	case Add:
		writeA(uint16(i.Dst))
		writeB(uint16(i.Src))
	case Mov:
		writeA(uint16(i.Dst))
		writeImm(i.Value)
	case Mul:
		writeA(uint16(i.Dst))
		writeB(uint16(i.Src))
	case Sub:
		writeA(uint16(i.Dst))
		writeB(uint16(i.Src))
	case Swap:
		writeA(uint16(i.A))
		writeB(uint16(i.B))
	case Div:
		writeA(uint16(i.Dst))
		writeB(uint16(i.Src))
	case Clr:
		writeB(uint16(i.Reg))
	case Inc:
		writeB(uint16(i.Reg))
	case Dec:
		writeB(uint16(i.Reg))
	case Print:
		writeB(uint16(i.Reg))
	case Pow:
		writeA(uint16(i.Dst))
		writeImm(i.Exponent)
	case Movr:
		writeA(uint16(i.Dst))
		writeB(uint16(i.Src))
	case Cmp:
		writeA(uint16(i.A))
		writeB(uint16(i.B))
	case Jmp:
		writeA(uint16(i.Target))
	default:
		panic(fmt.Sprintf("unknown instruction type %T", instr))
	}

	return word
}

// Splits a word into its fields
func Decode(word Word) Fields {
	return Fields{
		OpCode:    OpCode(utils.Field(word, OpCodePosition, NibbleBits)),
		A:         Register(utils.Field(word, FieldAPosition, NibbleBits)),
		B:         Register(utils.Field(word, FieldBPosition, NibbleBits)),
		Immediate: Immediate(utils.Field(word, ImmediatePosition, ImmediateBits)),
	}
}

// Decodes a word back into an instruction
func DecodeInstruction(word Word) (Instruction, error) {
	fields := Decode(word)

	switch Opcodes.Layout(fields.OpCode) {
	case Layout_RegReg:
		return Make(fields.OpCode, uint16(fields.A), uint16(fields.B))
	case Layout_RegImm:
		return Make(fields.OpCode, uint16(fields.A), uint16(fields.Immediate))
	case Layout_Reg:
		return Make(fields.OpCode, uint16(fields.B), 0)
	case Layout_Target:
		return Make(fields.OpCode, uint16(fields.A), 0)
	}

	return Make(fields.OpCode, 0, 0)
}

// Encodes a sequence of instructions
func EncodeAll(instrs []Instruction) []Word {
	return utils.Map(instrs, Encode)
}

func (w Word) String() string {
	return utils.FormatUintHex(uint64(w), 4)
}

// Returns the 16 bits of the word as a binary string
func (w Word) Binary() string {
	return utils.FormatUintBinary(uint64(w), WordBits)
}
