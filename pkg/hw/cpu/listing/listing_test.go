package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/asm"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFromProgram(t *testing.T) {
	program, err := asm.New(asm.Options{}).Assemble("; test\nMOV d, 200\n.f\nINC a\n.end\nPRINT d\n")
	require.NoError(t, err)

	listing := FromProgram(program)

	assert.Equal(t, []Entry{
		{Address: 0, Word: 0x23C8, Text: "MOV 3, 200", Line: 2},
		{Address: 1, Word: 0xA030, Text: "PRINT 3", Line: 6},
		{Address: 2, Word: 0x0000, Text: "HALT"},
	}, listing.Entries)
	assert.Equal(t, map[string][]string{"f": {"INC 0"}}, listing.Blocks)
}

func TestFromWords(t *testing.T) {
	listing := FromWords([]isa.Word{0xE300, 0x0000, 0xB203})

	require.Len(t, listing.Entries, 3)
	assert.Equal(t, "JMP 3", listing.Entries[0].Text)
	assert.Equal(t, "HALT", listing.Entries[1].Text)
	assert.Equal(t, "POW 2, 3", listing.Entries[2].Text)
	assert.Zero(t, listing.Entries[2].Line)
	assert.Nil(t, listing.Blocks)
}

func TestWrite(t *testing.T) {
	listing := &Listing{
		Entries: []Entry{
			{Address: 0, Word: 0x23C8, Text: "MOV 3, 200", Line: 1},
			{Address: 1, Word: 0x0000, Text: "HALT"},
		},
		Blocks: map[string][]string{"f": {"INC 0"}},
	}

	var buffer bytes.Buffer
	require.NoError(t, Write(&buffer, listing))

	var document map[string]any
	require.NoError(t, yaml.Unmarshal(buffer.Bytes(), &document))

	entries, ok := document["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	assert.Equal(t, "0x23C8", first["word"])
	assert.Equal(t, "MOV 3, 200", first["text"])
	assert.Equal(t, 1, first["line"])

	second := entries[1].(map[string]any)
	assert.NotContains(t, second, "line")

	read, err := Read(&buffer)
	require.NoError(t, err)
	assert.Equal(t, listing, read)
}

func TestRead_InvalidWord(t *testing.T) {
	_, err := Read(strings.NewReader("entries:\n  - address: 0\n    word: zz\n    text: HALT\n"))
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	listing := &Listing{
		Entries: []Entry{
			{Address: 0, Word: 0x23C8, Text: "MOV 3, 200"},
			{Address: 0x10, Word: 0x0000, Text: "HALT"},
		},
		Blocks: map[string][]string{"f": {"INC 0"}},
	}

	var buffer bytes.Buffer
	require.NoError(t, WriteText(&buffer, listing, false))

	assert.Equal(t, "00: 0x23C8  MOV 3, 200\n10: 0x0000  HALT\n.f\n    INC 0\n", buffer.String())
}
