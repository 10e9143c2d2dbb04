package interpreter

import (
	"slices"
)

// ExecutionEvent represents events that can occur during execution
type ExecutionEvent int

const (
	// EventStep is fired after each instruction execution
	EventStep ExecutionEvent = iota
	// EventBreakpoint is fired when a breakpoint is hit
	EventBreakpoint
	// EventHalt is fired when the CPU halts
	EventHalt
)

// EventCallback is called when an execution event occurs.
// Return true to continue execution, false to stop.
type EventCallback func(event ExecutionEvent, step *StepResult) bool

// Debugger drives an interpreter one instruction at a time, stopping at breakpoints
type Debugger struct {
	interp *Interpreter

	breakpoints   map[uint16]bool
	eventCallback EventCallback
	started       bool
}

// NewDebugger creates a new debugger for the given interpreter
func NewDebugger(interp *Interpreter) *Debugger {
	return &Debugger{
		interp:      interp,
		breakpoints: make(map[uint16]bool),
	}
}

// Interpreter returns the underlying interpreter
func (d *Debugger) Interpreter() *Interpreter {
	return d.interp
}

// SetEventCallback sets the callback for execution events
func (d *Debugger) SetEventCallback(callback EventCallback) {
	d.eventCallback = callback
}

// ToggleBreakpoint adds a breakpoint at addr, or removes it if there was one. Returns
// whether the breakpoint is now set.
func (d *Debugger) ToggleBreakpoint(addr uint16) bool {
	if d.breakpoints[addr] {
		delete(d.breakpoints, addr)
		return false
	}
	d.breakpoints[addr] = true
	return true
}

// HasBreakpoint returns whether there is a breakpoint at addr
func (d *Debugger) HasBreakpoint(addr uint16) bool {
	return d.breakpoints[addr]
}

// Breakpoints returns the breakpoint addresses in ascending order
func (d *Debugger) Breakpoints() []uint16 {
	addrs := make([]uint16, 0, len(d.breakpoints))
	for addr := range d.breakpoints {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)
	return addrs
}

// Finished returns whether the program ran to a stop and cannot be stepped anymore
func (d *Debugger) Finished() bool {
	return d.started && d.interp.State().Halted
}

// Step executes a single instruction, starting the CPU on the first call
func (d *Debugger) Step() (*StepResult, error) {
	if !d.started {
		d.started = true
		d.interp.Start()
	}

	step, err := d.interp.Step()
	if err != nil {
		return step, err
	}

	d.notify(EventStep, step)
	if step.StopReason != StopNone {
		d.notify(EventHalt, step)
	}
	return step, nil
}

// Continue executes until the CPU stops, a breakpoint is reached or maxSteps instructions
// were executed (0 = unlimited). The instruction at the current program counter is always
// executed, even if it has a breakpoint.
func (d *Debugger) Continue(maxSteps int) (*ExecutionResult, error) {
	result := &ExecutionResult{}

	for {
		if maxSteps > 0 && result.StepsExecuted >= maxSteps {
			result.StopReason = StopMaxSteps
			return result, nil
		}

		step, err := d.Step()
		if step != nil {
			result.LastPC = step.PC
			if step.Instruction != nil {
				result.StepsExecuted++
				result.LastInstruction = step.Instruction
			}
		}
		if err != nil {
			result.StopReason = StopFault
			return result, err
		}
		if step.StopReason != StopNone {
			result.StopReason = step.StopReason
			result.Error = step.Err
			return result, nil
		}

		if pc := d.interp.State().PC; d.breakpoints[pc] {
			d.notify(EventBreakpoint, step)
			result.StopReason = StopBreakpoint
			return result, nil
		}
	}
}

// Restart rewinds the program counter and clears registers and flag, keeping memory and breakpoints
func (d *Debugger) Restart() {
	state := d.interp.State()
	state.Registers = [len(state.Registers)]uint16{}
	state.Equal = false
	state.PC = 0
	state.Halted = true
	d.started = false
}

func (d *Debugger) notify(event ExecutionEvent, step *StepResult) {
	if d.eventCallback != nil {
		d.eventCallback(event, step)
	}
}
