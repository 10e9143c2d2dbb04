package cpu

import (
	"testing"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/interpreter"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBudget(t *testing.T) {
	assert.Equal(t, runStepBudget, runBudget(0))
	assert.Equal(t, 25, runBudget(25))
}

func TestStepperRunReturnsOnEndlessLoop(t *testing.T) {
	interp := interpreter.NewInterpreter(interpreter.Options{})
	interp.LoadProgram([]isa.Instruction{isa.Inc{Reg: 0}, isa.Jmp{Target: 0}})
	dbg := interpreter.NewDebugger(interp)

	for round := 1; round <= 2; round++ {
		result, err := dbg.Continue(runBudget(0))
		require.NoError(t, err)
		assert.Equal(t, interpreter.StopMaxSteps, result.StopReason)
		assert.Equal(t, runStepBudget, result.StepsExecuted)
		assert.False(t, dbg.Finished())

		value, _ := interp.Register(0)
		assert.Equal(t, uint16(round*runStepBudget/2), value)
	}
}
