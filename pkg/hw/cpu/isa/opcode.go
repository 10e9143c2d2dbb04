package isa

import "github.com/nibble-vm/nibble/pkg/utils"

// Represents an instruction opcode, the 4 most significant bits of an encoded word
type OpCode uint8

const (
	// Stop execution
	OpCode_HALT OpCode = iota
	// Add the values of two registers, save result into the first
	OpCode_ADD
	// Load an 8 bit immediate value into a register
	OpCode_MOV
	// Multiply the values of two registers, save result into the first
	OpCode_MUL
	// Substract the value of a register from another, save result into the first
	OpCode_SUB
	// Exchange the values of two registers
	OpCode_SWAP
	// Divide the value of a register by another, save result into the first
	OpCode_DIV
	// Set a register to zero
	OpCode_CLR
	// Increment a register by one
	OpCode_INC
	// Decrement a register by one
	OpCode_DEC
	// Write the value of a register to the output
	OpCode_PRINT
	// Raise a register to the power given by an 8 bit immediate value
	OpCode_POW
	// Copy the value of one register into another
	OpCode_MOVR
	// Set the condition flag if two registers hold the same value
	OpCode_CMP
	// Continue execution at the given address
	OpCode_JMP
	// No-Operation
	OpCode_NOP

	// Total opcodes implemented
	TOTAL_OPCODES
)

// Returns the mnemonic of the instruction opcode
func (op OpCode) String() string {
	return Opcodes.Mnemonic(op)
}

// Describes which word fields an opcode uses for its operands
type OperandLayout int

const (
	// No operands
	Layout_None OperandLayout = iota
	// Destination register in field A, source register in field B
	Layout_RegReg
	// Destination register in field A, 8 bit immediate in bits [7:0]
	Layout_RegImm
	// Single register in field B
	Layout_Reg
	// Jump target in field A
	Layout_Target
)

func (l OperandLayout) String() string {
	switch l {
	case Layout_None:
		return "-"
	case Layout_RegReg:
		return "dst, src"
	case Layout_RegImm:
		return "dst, imm8"
	case Layout_Reg:
		return "reg"
	case Layout_Target:
		return "target"
	}
	return "?"
}

// Number of operands written in assembly for the layout
func (l OperandLayout) Operands() int {
	switch l {
	case Layout_RegReg, Layout_RegImm:
		return 2
	case Layout_Reg, Layout_Target:
		return 1
	}
	return 0
}

// The word fields used by the layout, including the opcode
func (l OperandLayout) Fields() []utils.FrameField {
	fields := []utils.FrameField{{Name: "opcode", Begin: OpCodePosition, Width: NibbleBits}}

	switch l {
	case Layout_RegReg:
		fields = append(fields,
			utils.FrameField{Name: "dst", Begin: FieldAPosition, Width: NibbleBits},
			utils.FrameField{Name: "src", Begin: FieldBPosition, Width: NibbleBits})
	case Layout_RegImm:
		fields = append(fields,
			utils.FrameField{Name: "dst", Begin: FieldAPosition, Width: NibbleBits},
			utils.FrameField{Name: "imm8", Begin: ImmediatePosition, Width: ImmediateBits})
	case Layout_Reg:
		fields = append(fields, utils.FrameField{Name: "reg", Begin: FieldBPosition, Width: NibbleBits})
	case Layout_Target:
		fields = append(fields, utils.FrameField{Name: "target", Begin: FieldAPosition, Width: NibbleBits})
	}

	return fields
}
