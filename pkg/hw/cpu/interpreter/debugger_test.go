package interpreter

import (
	"testing"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugger(program ...isa.Instruction) *Debugger {
	interp := NewInterpreter(Options{})
	interp.LoadProgram(program)
	return NewDebugger(interp)
}

func TestDebugger_Breakpoints(t *testing.T) {
	dbg := newDebugger()

	assert.True(t, dbg.ToggleBreakpoint(5))
	assert.True(t, dbg.ToggleBreakpoint(2))
	assert.True(t, dbg.HasBreakpoint(5))
	assert.Equal(t, []uint16{2, 5}, dbg.Breakpoints())

	assert.False(t, dbg.ToggleBreakpoint(5))
	assert.False(t, dbg.HasBreakpoint(5))
	assert.Equal(t, []uint16{2}, dbg.Breakpoints())
}

func TestDebugger_Step(t *testing.T) {
	dbg := newDebugger(isa.Mov{Dst: 0, Value: 1}, isa.Inc{Reg: 0})

	step, err := dbg.Step()
	require.NoError(t, err)
	assert.Equal(t, isa.Mov{Dst: 0, Value: 1}, step.Instruction)
	assert.False(t, dbg.Finished())

	_, err = dbg.Step()
	require.NoError(t, err)
	step, err = dbg.Step()
	require.NoError(t, err)
	assert.Equal(t, StopHalt, step.StopReason)
	assert.True(t, dbg.Finished())

	_, err = dbg.Step()
	assert.ErrorIs(t, err, ErrHalted)

	value, _ := dbg.Interpreter().Register(0)
	assert.Equal(t, uint16(2), value)
}

func TestDebugger_Continue(t *testing.T) {
	dbg := newDebugger(
		isa.Mov{Dst: 0, Value: 1},
		isa.Inc{Reg: 0},
		isa.Inc{Reg: 0},
		isa.Inc{Reg: 0},
	)
	dbg.ToggleBreakpoint(2)

	var events []ExecutionEvent
	dbg.SetEventCallback(func(event ExecutionEvent, step *StepResult) bool {
		events = append(events, event)
		return true
	})

	result, err := dbg.Continue(0)
	require.NoError(t, err)
	assert.Equal(t, StopBreakpoint, result.StopReason)
	assert.Equal(t, 2, result.StepsExecuted)
	assert.Equal(t, uint16(2), dbg.Interpreter().State().PC)
	assert.Equal(t, []ExecutionEvent{EventStep, EventStep, EventBreakpoint}, events)

	// The instruction under the breakpoint runs when continuing
	result, err = dbg.Continue(0)
	require.NoError(t, err)
	assert.Equal(t, StopHalt, result.StopReason)
	assert.Equal(t, 3, result.StepsExecuted)
	assert.Equal(t, EventHalt, events[len(events)-1])

	value, _ := dbg.Interpreter().Register(0)
	assert.Equal(t, uint16(4), value)
}

func TestDebugger_ContinueMaxSteps(t *testing.T) {
	dbg := newDebugger(isa.Inc{Reg: 0}, isa.Jmp{Target: 0})

	result, err := dbg.Continue(7)
	require.NoError(t, err)
	assert.Equal(t, StopMaxSteps, result.StopReason)
	assert.Equal(t, 7, result.StepsExecuted)
	assert.False(t, dbg.Finished())
}

func TestDebugger_ContinueFault(t *testing.T) {
	dbg := newDebugger(isa.Dec{Reg: 0})

	result, err := dbg.Continue(0)
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, StopFault, result.StopReason)
	assert.True(t, dbg.Finished())
}

func TestDebugger_Restart(t *testing.T) {
	dbg := newDebugger(isa.Mov{Dst: 0, Value: 3}, isa.Cmp{A: 1, B: 2})
	dbg.ToggleBreakpoint(1)

	_, err := dbg.Continue(0)
	require.NoError(t, err)
	_, err = dbg.Continue(0)
	require.NoError(t, err)
	assert.True(t, dbg.Finished())
	assert.True(t, dbg.Interpreter().Equal())

	dbg.Restart()
	assert.False(t, dbg.Finished())
	assert.False(t, dbg.Interpreter().Equal())
	assert.Equal(t, [isa.RegisterCount]uint16{}, dbg.Interpreter().Registers())
	assert.Equal(t, []uint16{1}, dbg.Breakpoints())

	result, err := dbg.Continue(0)
	require.NoError(t, err)
	assert.Equal(t, StopBreakpoint, result.StopReason)
	value, _ := dbg.Interpreter().Register(0)
	assert.Equal(t, uint16(3), value)
}
