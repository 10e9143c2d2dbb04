package isa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibble-vm/nibble/pkg/translate"
	"github.com/nibble-vm/nibble/pkg/utils"
)

// Full information about an opcode
type OpCodeDescriptor struct {
	OpCode   OpCode
	Mnemonic string
	Layout   OperandLayout
	Summary  string
}

type opCodeEntry struct {
	mnemonic string
	layout   OperandLayout
	summary  string
}

// Returns information about the implemented opcodes
type OpCodesDescriptor struct {
	entries           map[OpCode]opCodeEntry
	mnemonicsToOpCode map[string]OpCode
}

var ErrInvalidOpCode error = errors.New(translate.From("invalid instruction opcode"))

func (d *OpCodesDescriptor) Descriptor(op OpCode) *OpCodeDescriptor {
	entry := d.entries[op]
	return &OpCodeDescriptor{
		OpCode:   op,
		Mnemonic: entry.mnemonic,
		Layout:   entry.layout,
		Summary:  entry.summary,
	}
}

// Returns the descriptors of all implemented opcodes, sorted by opcode
func (d *OpCodesDescriptor) AllOpCodes() []*OpCodeDescriptor {
	return utils.Map(utils.SortedKeys(d.entries), d.Descriptor)
}

// Number of opcodes implemented
func (d *OpCodesDescriptor) TotalOpCodes() int {
	return len(d.entries)
}

// Returns the mnemonic string representation of the opcode
func (d *OpCodesDescriptor) Mnemonic(op OpCode) string {
	if entry, ok := d.entries[op]; ok {
		return entry.mnemonic
	}
	return fmt.Sprintf("OP(%v)", uint8(op))
}

// Returns the operand layout of the opcode
func (d *OpCodesDescriptor) Layout(op OpCode) OperandLayout {
	return d.entries[op].layout
}

// Returns the opcode corresponding to the given mnemonic. Mnemonics are case insensitive.
func (d *OpCodesDescriptor) Parse(mnemonic string) (OpCode, error) {
	if opcode, hasOpCode := d.mnemonicsToOpCode[strings.ToUpper(mnemonic)]; hasOpCode {
		return opcode, nil
	}
	return 0, utils.MakeError(ErrInvalidOpCode, "'%v'", mnemonic)
}

// Returns all mnemonics, sorted alphabetically
func (d *OpCodesDescriptor) Mnemonics() []string {
	return utils.SortedKeys(d.mnemonicsToOpCode)
}

// Initializes an opcodes descriptor with all the opcodes in the given table
func newOpCodesDescriptor(entries map[OpCode]opCodeEntry) OpCodesDescriptor {
	for op := OpCode(0); op < TOTAL_OPCODES; op++ {
		if _, hasOpCode := entries[op]; !hasOpCode {
			panic(fmt.Sprintf("missing entry for opcode %v in opcodes table", uint8(op)))
		}
	}

	mnemonics := make(map[OpCode]string, len(entries))
	for op, entry := range entries {
		mnemonics[op] = entry.mnemonic
	}

	d := OpCodesDescriptor{
		entries:           entries,
		mnemonicsToOpCode: utils.InvertedMap(mnemonics),
	}

	if len(d.mnemonicsToOpCode) != int(TOTAL_OPCODES) {
		panic("duplicated mnemonic in opcodes table")
	}
	return d
}

// The opcode table shared by the encoder, the decoder and the assembler
var Opcodes = newOpCodesDescriptor(map[OpCode]opCodeEntry{
	OpCode_HALT:  {"HALT", Layout_None, "stop execution"},
	OpCode_ADD:   {"ADD", Layout_RegReg, "dst = dst + src"},
	OpCode_MOV:   {"MOV", Layout_RegImm, "dst = imm8"},
	OpCode_MUL:   {"MUL", Layout_RegReg, "dst = dst * src"},
	OpCode_SUB:   {"SUB", Layout_RegReg, "dst = dst - src, fatal if src > dst"},
	OpCode_SWAP:  {"SWAP", Layout_RegReg, "exchange dst and src"},
	OpCode_DIV:   {"DIV", Layout_RegReg, "dst = dst / src, halts if src is zero"},
	OpCode_CLR:   {"CLR", Layout_Reg, "reg = 0"},
	OpCode_INC:   {"INC", Layout_Reg, "reg = reg + 1"},
	OpCode_DEC:   {"DEC", Layout_Reg, "reg = reg - 1, fatal if reg is zero"},
	OpCode_PRINT: {"PRINT", Layout_Reg, "write reg to the output"},
	OpCode_POW:   {"POW", Layout_RegImm, "dst = dst ^ imm8"},
	OpCode_MOVR:  {"MOVR", Layout_RegReg, "dst = src"},
	OpCode_CMP:   {"CMP", Layout_RegReg, "equal flag = (dst == src)"},
	OpCode_JMP:   {"JMP", Layout_Target, "pc = target (0-15)"},
	OpCode_NOP:   {"NOP", Layout_None, "do nothing"},
})

// Dumps the opcode table as one big multiline string
func (d *OpCodesDescriptor) Documentation(leftpad int) string {
	leftpadStr := strings.Repeat(" ", leftpad)

	var builder strings.Builder

	builder.WriteString(leftpadStr)
	builder.WriteString(fmt.Sprintf("total supported opcodes: %v\n", d.TotalOpCodes()))
	builder.WriteString(leftpadStr)
	builder.WriteString(fmt.Sprintf("instruction encoding length (bits): %v\n", WordBits))
	builder.WriteString(leftpadStr)
	builder.WriteString(fmt.Sprintf("opcode encoding length (bits): %v\n", NibbleBits))
	builder.WriteString(leftpadStr)
	builder.WriteString(fmt.Sprintf("registers: %v (a-%c)\n\n", RegisterCount, RegisterLetter(RegisterCount-1)))

	builder.WriteString(leftpadStr)
	builder.WriteString("Opcodes:\n\n")

	for _, op := range d.AllOpCodes() {
		builder.WriteString(fmt.Sprintf("%v - 0x%X %-6v %-14v %v\n", leftpadStr, uint8(op.OpCode), op.Mnemonic, op.Layout, op.Summary))
	}

	builder.WriteString("\n")
	builder.WriteString(leftpadStr)
	builder.WriteString("Encodings:\n")

	for layout := Layout_None; layout <= Layout_Target; layout++ {
		name := layout.String()
		if layout == Layout_None {
			name = "no operands"
		}
		builder.WriteString(fmt.Sprintf("\n%v %v:\n\n", leftpadStr, name))
		builder.WriteString(utils.DrawFrame(layout.Fields(), WordBits, "bits", leftpad+2))
	}

	return builder.String()
}

// Like Documentation(), but with zero leftpad
func (d *OpCodesDescriptor) DocString() string {
	return d.Documentation(0)
}
