package utils

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitViewReadWrite(t *testing.T) {
	var word uint16 = 0x23C8
	view := CreateBitView(&word)

	assert.Equal(t, uint16(0x2), view.Read(12, 4))
	assert.Equal(t, uint16(0x3), view.Read(8, 4))
	assert.Equal(t, uint16(0xC8), view.Read(0, 8))

	view.Write(0x1F, 8, 4)
	assert.Equal(t, uint16(0x2FC8), word, "extra value bits are dropped")

	view.ClearBits(0, 8)
	assert.Equal(t, uint16(0x2F00), view.Value())
}

func TestField(t *testing.T) {
	assert.Equal(t, uint16(0xF), Field[uint16](0xF123, 12, 4))
	assert.Equal(t, uint8(0xFF), AllOnes[uint8](8))
	assert.Equal(t, uint16(0x000F), AllOnes[uint16](4))
}

func TestFormatUint(t *testing.T) {
	assert.Equal(t, "0x00FF", FormatUintHex(255, 4))
	assert.Equal(t, "0x23C8", FormatUintHex(0x23C8, 4))
	assert.Equal(t, "00000101", FormatUintBinary(5, 8))
}

func TestMapHelpers(t *testing.T) {
	assert.Equal(t, []int{2, 4, 6}, Map([]int{1, 2, 3}, func(i int) int { return i * 2 }))
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, InvertedMap(map[int]string{1: "a", 2: "b"}))
	assert.Equal(t, []string{"ADD", "HALT", "MOV"}, SortedKeys(map[string]int{"MOV": 2, "ADD": 1, "HALT": 0}))
}

func TestMakeError(t *testing.T) {
	sentinel := errors.New("invalid operand")
	err := MakeError(sentinel, "'%v' at line %v", "x1", 3)

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, "invalid operand: 'x1' at line 3", err.Error())
}

func TestHighlightAssembly(t *testing.T) {
	noColor := color.NoColor
	defer func() { color.NoColor = noColor }()

	source := ".loop\n  MOV a, 5 ; load\nHALT"

	color.NoColor = true
	assert.Equal(t, source, HighlightAssembly(source))
	assert.Empty(t, HighlightAssembly(""))

	color.NoColor = false
	highlighted := HighlightAssembly(source)
	assert.Contains(t, highlighted, asmMnemonicColor.Sprint("MOV"))
	assert.Contains(t, highlighted, asmNumberColor.Sprint("5"))
	assert.Contains(t, highlighted, asmCommentColor.Sprint("; load"))
	assert.Contains(t, highlighted, asmBlockColor.Sprint(".loop"))
}
