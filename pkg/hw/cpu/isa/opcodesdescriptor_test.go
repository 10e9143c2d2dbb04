package isa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodesTable(t *testing.T) {
	assert.Equal(t, int(TOTAL_OPCODES), Opcodes.TotalOpCodes())
	assert.Len(t, Opcodes.AllOpCodes(), 16)

	for i, desc := range Opcodes.AllOpCodes() {
		assert.Equal(t, OpCode(i), desc.OpCode)
		assert.NotEmpty(t, desc.Summary)
	}
}

func TestOpcodesMnemonicRoundTrip(t *testing.T) {
	for op := OpCode(0); op < TOTAL_OPCODES; op++ {
		t.Run(op.String(), func(t *testing.T) {
			parsed, err := Opcodes.Parse(op.String())
			require.NoError(t, err)
			assert.Equal(t, op, parsed)

			parsed, err = Opcodes.Parse(strings.ToLower(op.String()))
			require.NoError(t, err)
			assert.Equal(t, op, parsed)
		})
	}
}

func TestOpcodesParseUnknown(t *testing.T) {
	_, err := Opcodes.Parse("LOAD")
	assert.ErrorIs(t, err, ErrInvalidOpCode)
	assert.Contains(t, err.Error(), "LOAD")
}

func TestOpcodesValues(t *testing.T) {
	expected := map[string]OpCode{
		"HALT": 0x0, "ADD": 0x1, "MOV": 0x2, "MUL": 0x3, "SUB": 0x4, "SWAP": 0x5,
		"DIV": 0x6, "CLR": 0x7, "INC": 0x8, "DEC": 0x9, "PRINT": 0xA, "POW": 0xB,
		"MOVR": 0xC, "CMP": 0xD, "JMP": 0xE, "NOP": 0xF,
	}

	for mnemonic, op := range expected {
		parsed, err := Opcodes.Parse(mnemonic)
		require.NoError(t, err)
		assert.Equal(t, op, parsed, mnemonic)
	}

	assert.Len(t, Opcodes.Mnemonics(), len(expected))
}

func TestOperandLayout(t *testing.T) {
	assert.Equal(t, Layout_RegImm, Opcodes.Layout(OpCode_MOV))
	assert.Equal(t, Layout_RegImm, Opcodes.Layout(OpCode_POW))
	assert.Equal(t, Layout_Reg, Opcodes.Layout(OpCode_PRINT))
	assert.Equal(t, Layout_Target, Opcodes.Layout(OpCode_JMP))
	assert.Equal(t, Layout_None, Opcodes.Layout(OpCode_HALT))
	assert.Equal(t, 2, Layout_RegReg.Operands())
	assert.Equal(t, 1, Layout_Target.Operands())
	assert.Equal(t, 0, Layout_None.Operands())
}

func TestRegisterLetter(t *testing.T) {
	assert.Equal(t, byte('a'), RegisterLetter(0))
	assert.Equal(t, byte('p'), RegisterLetter(15))
	assert.Equal(t, byte('?'), RegisterLetter(26))
}

func TestOpcodesDocString(t *testing.T) {
	doc := Opcodes.DocString()

	assert.Contains(t, doc, "total supported opcodes: 16")
	assert.Contains(t, doc, "registers: 16 (a-p)")
	for _, mnemonic := range Opcodes.Mnemonics() {
		assert.Contains(t, doc, mnemonic)
	}

	for _, line := range strings.Split(Opcodes.Documentation(4), "\n") {
		if line != "" {
			assert.True(t, strings.HasPrefix(line, "    "), "line %q", line)
		}
	}
}
