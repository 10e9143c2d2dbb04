package isa

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundaryInstructions returns every mnemonic with operands at 0 and at the field maximum.
func boundaryInstructions() []Instruction {
	var instrs []Instruction

	for _, r := range []Register{0, 7, 15} {
		for _, imm := range []Immediate{0, 128, 255} {
			instrs = append(instrs,
				Mov{Dst: r, Value: imm},
				Pow{Dst: r, Exponent: imm},
			)
		}
		for _, s := range []Register{0, 15} {
			instrs = append(instrs,
				Add{Dst: r, Src: s},
				Mul{Dst: r, Src: s},
				Sub{Dst: r, Src: s},
				Swap{A: r, B: s},
				Div{Dst: r, Src: s},
				Movr{Dst: r, Src: s},
				Cmp{A: r, B: s},
			)
		}
		instrs = append(instrs,
			Clr{Reg: r},
			Inc{Reg: r},
			Dec{Reg: r},
			Print{Reg: r},
			Jmp{Target: Address(r)},
		)
	}

	return append(instrs, Halt{}, Nop{})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, instr := range boundaryInstructions() {
		t.Run(instr.String(), func(t *testing.T) {
			word := Encode(instr)

			decoded, err := DecodeInstruction(word)
			require.NoError(t, err)
			assert.Equal(t, instr, decoded)
			assert.Equal(t, instr.OpCode(), Decode(word).OpCode)
		})
	}
}

func TestEveryOpCodeHasARoundTrip(t *testing.T) {
	seen := map[OpCode]bool{}
	for _, instr := range boundaryInstructions() {
		seen[instr.OpCode()] = true
	}

	for op := OpCode(0); op < TOTAL_OPCODES; op++ {
		assert.True(t, seen[op], "opcode %v not covered", op)
	}
}

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		instr Instruction
		word  Word
	}{
		{Halt{}, 0x0000},
		{Add{Dst: 1, Src: 2}, 0x1120},
		{Mov{Dst: 3, Value: 200}, 0x23C8},
		{Mul{Dst: 15, Src: 15}, 0x3FF0},
		{Sub{Dst: 4, Src: 5}, 0x4450},
		{Swap{A: 6, B: 7}, 0x5670},
		{Div{Dst: 8, Src: 9}, 0x6890},
		{Clr{Reg: 10}, 0x70A0},
		{Inc{Reg: 11}, 0x80B0},
		{Dec{Reg: 12}, 0x90C0},
		{Print{Reg: 13}, 0xA0D0},
		{Pow{Dst: 2, Exponent: 255}, 0xB2FF},
		{Movr{Dst: 0, Src: 1}, 0xC010},
		{Cmp{A: 14, B: 15}, 0xDEF0},
		{Jmp{Target: 9}, 0xE900},
		{Nop{}, 0xF000},
	}

	for _, test := range tests {
		t.Run(test.instr.String(), func(t *testing.T) {
			assert.Equal(t, test.word, Encode(test.instr), "expected %v, got %v", test.word, Encode(test.instr))
		})
	}
}

func TestEncodeTruncatesOutOfRangeOperands(t *testing.T) {
	assert.Equal(t, Encode(Add{Dst: 1, Src: 2}), Encode(Add{Dst: 17, Src: 18}))
	assert.Equal(t, Encode(Mov{Dst: 0, Value: 0x2C}), Encode(Mov{Dst: 16, Value: 300}))
	assert.Equal(t, Encode(Clr{Reg: 9}), Encode(Clr{Reg: 25}))
	assert.Equal(t, Encode(Jmp{Target: 0}), Encode(Jmp{Target: 16}))

	// Truncation never leaks into the opcode field
	assert.Equal(t, OpCode_ADD, Decode(Encode(Add{Dst: 0xFFFF, Src: 0xFFFF})).OpCode)
	assert.Equal(t, OpCode_MOV, Decode(Encode(Mov{Dst: 0xFFFF, Value: 0xFFFF})).OpCode)
}

func TestDecodeFields(t *testing.T) {
	fields := Decode(0xB2C8)

	assert.Equal(t, OpCode_POW, fields.OpCode)
	assert.Equal(t, Register(2), fields.A)
	assert.Equal(t, Register(0xC), fields.B)
	assert.Equal(t, Immediate(0xC8), fields.Immediate)
}

func TestDecodeEveryWord(t *testing.T) {
	// Decoding is total over the 16 bit space
	for w := 0; w <= 0xFFFF; w += 0x0101 {
		_, err := DecodeInstruction(Word(w))
		assert.NoError(t, err, fmt.Sprintf("word %04X", w))
	}
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "ADD 0, 1", Add{Dst: 0, Src: 1}.String())
	assert.Equal(t, "MOV 3, 200", Mov{Dst: 3, Value: 200}.String())
	assert.Equal(t, "PRINT 4", Print{Reg: 4}.String())
	assert.Equal(t, "JMP 2", Jmp{Target: 2}.String())
	assert.Equal(t, "HALT", Halt{}.String())
	assert.Equal(t, "0x23C8", Word(0x23C8).String())
}

func TestMakeInvalidOpCode(t *testing.T) {
	_, err := Make(TOTAL_OPCODES, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidOpCode)
}
