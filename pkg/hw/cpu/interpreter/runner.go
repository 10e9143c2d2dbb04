package interpreter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/asm"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/spf13/afero"
)

// Source written by ReadSource when the requested file does not exist
const DefaultProgram = "MOV 1, 5\nMOV 2, 3\nADD 0, 1\nSUB 1, 2\nMUL 1, 2"

// Runner provides high-level program execution functionality: reading and
// assembling sources, loading images, running and debugging them.
type Runner struct {
	fs        afero.Fs
	assembler *asm.Assembler
	interp    *Interpreter
	dbg       *Debugger
	log       *slog.Logger

	source  string
	program *asm.Program
}

// NewRunner creates a new runner working on the given file system
func NewRunner(fs afero.Fs, asmOpts asm.Options, opts Options) *Runner {
	interp := NewInterpreter(opts)
	if asmOpts.Logger == nil {
		asmOpts.Logger = interp.log
	}

	return &Runner{
		fs:        fs,
		assembler: asm.New(asmOpts),
		interp:    interp,
		dbg:       NewDebugger(interp),
		log:       interp.log,
	}
}

// ReadSource returns the contents of a source file. A missing file is created with
// DefaultProgram first.
func ReadSource(fsys afero.Fs, path string, log *slog.Logger) (string, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(f("source not found, creating a sample program"), "path", path)
		if err := afero.WriteFile(fsys, path, []byte(DefaultProgram), 0o644); err != nil {
			return "", fmt.Errorf("failed to create '%v': %w", path, err)
		}
		return DefaultProgram, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read '%v': %w", path, err)
	}

	return string(data), nil
}

// LoadSourceFile reads, assembles and loads a source file
func (r *Runner) LoadSourceFile(path string) error {
	source, err := ReadSource(r.fs, path, r.log)
	if err != nil {
		return err
	}

	if err := r.LoadSource(source); err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}
	return nil
}

// LoadSource assembles a source buffer and loads the program into memory
func (r *Runner) LoadSource(source string) error {
	program, err := r.assembler.Assemble(source)
	if err != nil {
		return err
	}

	r.source = source
	r.program = program
	r.interp.LoadProgram(program.Instructions)
	return nil
}

// LoadImageFile loads a binary image into memory. There is no source program afterwards.
func (r *Runner) LoadImageFile(path string) error {
	if err := r.interp.LoadBinary(r.fs, path); err != nil {
		return err
	}

	r.source = ""
	r.program = nil
	return nil
}

// EmitImageFile writes the memory image to a file
func (r *Runner) EmitImageFile(path string) error {
	return r.interp.EmitBinary(r.fs, path)
}

// Run executes the loaded program until it stops
func (r *Runner) Run() (*ExecutionResult, error) {
	return r.interp.Run()
}

// Interpreter returns the underlying interpreter
func (r *Runner) Interpreter() *Interpreter {
	return r.interp
}

// Debugger returns the debugger attached to the interpreter
func (r *Runner) Debugger() *Debugger {
	return r.dbg
}

// Program returns the assembled program, nil if memory was loaded from an image
func (r *Runner) Program() *asm.Program {
	return r.program
}

// Source returns the assembled source, empty if memory was loaded from an image
func (r *Runner) Source() string {
	return r.source
}

// InstructionAt decodes the word at addr. line is the 1-based source line of the
// instruction, 0 if unknown.
func (r *Runner) InstructionAt(addr uint16) (instr isa.Instruction, line int, err error) {
	word, err := r.interp.State().ReadMemory(addr)
	if err != nil {
		return nil, 0, err
	}

	instr, err = isa.DecodeInstruction(word)
	if err != nil {
		return nil, 0, err
	}

	if r.program != nil && int(addr) < len(r.program.Lines) {
		line = r.program.Lines[addr]
	}
	return instr, line, nil
}
