// Package interpreter implements the nibble processor: its state, the
// fetch-decode-execute cycle and the persistence of memory images.
package interpreter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
)

// Options configures an Interpreter
type Options struct {
	// Verbose enables tracing of every fetch through Logger
	Verbose bool
	// Logger receives tracing, warnings and errors. Defaults to a discarding logger.
	Logger *slog.Logger
	// Output receives the values written by PRINT. Defaults to io.Discard.
	Output io.Writer
	// MaxSteps limits the number of instructions executed by Run. 0 means unlimited.
	MaxSteps int
}

// Interpreter executes nibble machine code
type Interpreter struct {
	state *CPUState
	opts  Options
	log   *slog.Logger
}

// NewInterpreter creates a new interpreter with a cleared, halted, CPU
func NewInterpreter(opts Options) *Interpreter {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}

	return &Interpreter{
		state: NewCPUState(),
		opts:  opts,
		log:   opts.Logger,
	}
}

// State returns the current CPU state
func (i *Interpreter) State() *CPUState {
	return i.state
}

// Register returns the value of a register, and false if the index is out of range
func (i *Interpreter) Register(idx int) (uint16, bool) {
	return i.state.GetRegister(idx)
}

// Registers returns a copy of all registers
func (i *Interpreter) Registers() [isa.RegisterCount]uint16 {
	return i.state.Registers
}

// Equal returns the condition flag
func (i *Interpreter) Equal() bool {
	return i.state.Equal
}

// Reset clears registers, flag and memory
func (i *Interpreter) Reset() {
	i.state = NewCPUState()
}

// LoadProgram encodes a program into memory starting at address 0 and rewinds the
// program counter. Instructions past the memory capacity are dropped with a warning.
func (i *Interpreter) LoadProgram(program []isa.Instruction) {
	i.LoadWords(isa.EncodeAll(program))

	if i.opts.Verbose {
		i.log.Debug("program loaded", "words", len(program), "memory", i.state.Memory[:min(len(program), MemorySize)])
	}
}

// LoadWords copies a memory image starting at address 0, clears the rest of the memory
// and rewinds the program counter. Words past the memory capacity are dropped with a warning.
func (i *Interpreter) LoadWords(words []isa.Word) {
	if len(words) > MemorySize {
		i.log.Warn(f("program exceeds memory size, truncating"), "words", len(words), "capacity", MemorySize)
		words = words[:MemorySize]
	}

	i.state.Memory = [MemorySize]isa.Word{}
	copy(i.state.Memory[:], words)
	i.state.PC = 0
}

// Start moves the CPU from halted to running without executing anything
func (i *Interpreter) Start() {
	i.state.Halted = false
}

// Fetch reads the word at the program counter and advances it. Returns false if the
// program counter is past the end of memory.
func (i *Interpreter) Fetch() (isa.Word, bool) {
	word, err := i.state.ReadMemory(i.state.PC)
	if err != nil {
		return 0, false
	}
	i.state.PC++

	if i.opts.Verbose {
		i.log.Debug("fetch", "pc", i.state.PC, "instruction", word)
	}
	return word, true
}

// Step executes a single instruction. The returned error is non-nil only for faults that
// must terminate the program (see FaultError) or if the CPU is halted.
func (i *Interpreter) Step() (*StepResult, error) {
	if i.state.Halted {
		return nil, ErrHalted
	}

	result := &StepResult{PC: i.state.PC}

	word, ok := i.Fetch()
	if !ok {
		i.stop(result, StopEndOfMemory, nil)
		return result, nil
	}
	result.Word = word

	instr, err := isa.DecodeInstruction(word)
	if err != nil {
		i.stop(result, StopInvalidOpCode, err)
		return result, nil
	}

	if err := i.execute(instr, result); err != nil {
		i.stop(result, StopFault, nil)
		return result, &FaultError{
			Mnemonic: instr.OpCode().String(),
			PC:       result.PC,
			Err:      err,
		}
	}

	result.Instruction = instr
	return result, nil
}

func (i *Interpreter) stop(result *StepResult, reason StopReason, err error) {
	i.state.Halted = true
	result.StopReason = reason
	result.Err = err
}

// execute runs the side effect of an instruction. Only process-fatal faults are
// returned as errors, any other stop is recorded into the result.
func (i *Interpreter) execute(instr isa.Instruction, result *StepResult) error {
	regs := &i.state.Registers

	switch instr := instr.(type) {
	case isa.Halt:
		i.stop(result, StopHalt, nil)
	case isa.Add:
		regs[instr.Dst] += regs[instr.Src]
	case isa.Mov:
		regs[instr.Dst] = uint16(instr.Value)
	case isa.Mul:
		regs[instr.Dst] *= regs[instr.Src]
	case isa.Sub:
		if regs[instr.Dst] < regs[instr.Src] {
			return ErrUnderflow
		}
		regs[instr.Dst] -= regs[instr.Src]
	case isa.Swap:
		regs[instr.A], regs[instr.B] = regs[instr.B], regs[instr.A]
	case isa.Div:
		if regs[instr.Src] == 0 {
			i.log.Error(f("dividing by zero is not allowed"), "pc", result.PC, "instruction", instr.String())
			i.stop(result, StopDivideByZero, ErrDivideByZero)
			return nil
		}
		regs[instr.Dst] /= regs[instr.Src]
	case isa.Clr:
		regs[instr.Reg] = 0
	case isa.Inc:
		regs[instr.Reg]++
	case isa.Dec:
		if regs[instr.Reg] == 0 {
			return ErrUnderflow
		}
		regs[instr.Reg]--
	case isa.Print:
		fmt.Fprintf(i.opts.Output, "%cx: %d\n", isa.RegisterLetter(instr.Reg), regs[instr.Reg])
	case isa.Pow:
		regs[instr.Dst] = pow(regs[instr.Dst], uint16(instr.Exponent))
	case isa.Movr:
		regs[instr.Dst] = regs[instr.Src]
	case isa.Cmp:
		i.state.Equal = regs[instr.A] == regs[instr.B]
	case isa.Jmp:
		i.state.PC = uint16(instr.Target)
	case isa.Nop:
	default:
		i.stop(result, StopInvalidOpCode, isa.ErrInvalidOpCode)
	}

	return nil
}

// pow raises base to exp with 16 bit wraparound
func pow(base uint16, exp uint16) uint16 {
	result := uint16(1)
	for exp > 0 {
		if exp&1 != 0 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// Run starts the CPU and executes instructions until it halts, a fault occurs or the
// step limit is reached. Faults are returned as *FaultError, any other stop is
// described by the result.
func (i *Interpreter) Run() (*ExecutionResult, error) {
	i.Start()

	execResult := &ExecutionResult{}
	for {
		if i.opts.MaxSteps > 0 && execResult.StepsExecuted >= i.opts.MaxSteps {
			i.state.Halted = true
			execResult.StopReason = StopMaxSteps
			return execResult, nil
		}

		step, err := i.Step()
		if step != nil {
			execResult.LastPC = step.PC
			if step.Instruction != nil {
				execResult.StepsExecuted++
				execResult.LastInstruction = step.Instruction
			}
		}
		if err != nil {
			execResult.StopReason = StopFault
			return execResult, err
		}
		if step.StopReason != StopNone {
			execResult.StopReason = step.StopReason
			execResult.Error = step.Err
			return execResult, nil
		}
	}
}
