package interpreter

import (
	"strings"
	"testing"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/stretchr/testify/assert"
)

func TestFormatter_Registers(t *testing.T) {
	state := NewCPUState()
	state.Registers[0] = 5
	state.Registers[15] = 65535

	text := NewFormatter(StylePlain).FormatRegisters(state, 4)
	lines := strings.Split(text, "\n")

	assert.Len(t, lines, 4)
	assert.Equal(t, "ax:     5 bx:     0 cx:     0 dx:     0", lines[0])
	assert.Equal(t, "mx:     0 nx:     0 ox:     0 px: 65535", lines[3])

	assert.NotContains(t, NewFormatter(StylePlain).FormatRegisters(state, 0), "\n")
}

func TestFormatter_Flags(t *testing.T) {
	state := NewCPUState()
	state.PC = 0x1A
	state.Equal = true

	assert.Equal(t, "pc=0x1A eq=true halted", NewFormatter(StylePlain).FormatFlags(state))
}

func TestFormatter_Step(t *testing.T) {
	step := &StepResult{PC: 3, Word: 0x23C8, Instruction: isa.Mov{Dst: 3, Value: 200}}
	assert.Equal(t, "[  12] 0x03 0x23C8 | MOV 3, 200", NewFormatter(StylePlain).FormatStep(12, step))

	empty := &StepResult{PC: 0xFF}
	assert.Contains(t, NewFormatter(StylePlain).FormatStep(1, empty), "<none>")
}

func TestFormatter_Summary(t *testing.T) {
	summary := NewFormatter(StylePlain).FormatSummary(&ExecutionResult{
		StopReason:      StopDivideByZero,
		StepsExecuted:   4,
		LastPC:          3,
		LastInstruction: isa.Div{Dst: 0, Src: 1},
		Error:           ErrDivideByZero,
	})

	assert.Contains(t, summary, "stopped: divide_by_zero")
	assert.Contains(t, summary, "steps executed: 4")
	assert.Contains(t, summary, "last instruction: DIV 0, 1")
	assert.Contains(t, summary, "error: dividing by zero is not allowed")
}
