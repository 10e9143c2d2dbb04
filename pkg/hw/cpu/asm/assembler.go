// Package asm implements the nibble assembler, translating source text into
// instructions.
//
// A source line is a mnemonic followed by up to two operands separated by
// whitespace or commas:
//
//	MOV a, 200   ; comments run to the end of the line
//	PRINT a
//
// Lines starting with ".name" open a function block collecting the following
// instructions until ".end". Blocks are kept apart from the main program.
package asm

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
)

// Block markers
const (
	BlockPrefix = "."
	BlockEnd    = ".end"
)

// Source prefix that stops the assembly of the rest of the buffer
const haltFastPath = "HALT"

// Options configures an Assembler
type Options struct {
	// Verbose logs the tokens of each line and the resulting instructions
	Verbose bool
	// Logger receives warnings and tracing. Defaults to a discarding logger.
	Logger *slog.Logger
	// LenientOperands turns invalid operands into 0 with a warning instead of failing
	LenientOperands bool
}

// Program is the result of assembling a source buffer
type Program struct {
	// Main instruction sequence, always terminated by HALT
	Instructions []isa.Instruction
	// 1-based source line of each instruction in Instructions. 0 for the implicit HALT.
	Lines []int
	// Instructions of each function block, by block name
	Blocks map[string][]isa.Instruction
}

// Assembler translates source text into programs
type Assembler struct {
	opts Options
	log  *slog.Logger
}

// New creates a new assembler
func New(opts Options) *Assembler {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Assembler{
		opts: opts,
		log:  opts.Logger,
	}
}

type openBlock struct {
	name string
	line int
}

// Assemble translates a source buffer into a program. Every returned error other than
// ErrEmptySource and ErrLex is a *SyntaxError.
func (a *Assembler) Assemble(source string) (*Program, error) {
	lines, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptySource
	}

	program := &Program{
		Blocks: make(map[string][]isa.Instruction),
	}

	var block *openBlock
	stopped := false

	for _, line := range lines {
		if strings.HasPrefix(source[line.Offset:], haltFastPath) {
			a.log.Debug("halt found, stopping assembly", "line", line.Number)
			stopped = true
			break
		}

		if a.opts.Verbose {
			a.log.Debug("tokens", "line", line.Number, "tokens", line.values())
		}

		head := line.Tokens[0].Value

		if head == BlockEnd {
			if block == nil {
				return nil, &SyntaxError{Line: line.Number, Token: head, Err: ErrStrayEnd}
			}
			a.warnExtraTokens(&line, 1)
			block = nil
			continue
		}

		if strings.HasPrefix(head, BlockPrefix) {
			if block != nil {
				return nil, &SyntaxError{Line: line.Number, Token: head, Err: ErrNestedBlock}
			}

			name := strings.TrimPrefix(head, BlockPrefix)
			if _, exists := program.Blocks[name]; exists {
				a.log.Warn(f("block redefined, keeping the last definition"), "line", line.Number, "block", name)
			}

			a.warnExtraTokens(&line, 1)
			program.Blocks[name] = []isa.Instruction{}
			block = &openBlock{name: name, line: line.Number}
			continue
		}

		instr, err := a.parseLine(&line)
		if err != nil {
			return nil, err
		}

		if a.opts.Verbose {
			a.log.Debug("instruction", "line", line.Number, "instruction", instr.String(), "word", isa.Encode(instr), "bits", isa.Encode(instr).Binary())
		}

		if block != nil {
			program.Blocks[block.name] = append(program.Blocks[block.name], instr)
		} else {
			program.Instructions = append(program.Instructions, instr)
			program.Lines = append(program.Lines, line.Number)
		}
	}

	if block != nil && !stopped {
		return nil, &SyntaxError{Line: block.line, Token: BlockPrefix + block.name, Err: ErrUnterminatedBlock}
	}

	program.Instructions = append(program.Instructions, isa.Halt{})
	program.Lines = append(program.Lines, 0)

	if a.opts.Verbose {
		for name, instrs := range program.Blocks {
			a.log.Debug("block", "name", name, "instructions", len(instrs))
		}
	}

	return program, nil
}

// parseLine builds the instruction of a line whose first token is a mnemonic
func (a *Assembler) parseLine(line *sourceLine) (isa.Instruction, error) {
	mnemonic := line.Tokens[0].Value

	op, err := isa.Opcodes.Parse(mnemonic)
	if err != nil {
		return nil, &SyntaxError{Line: line.Number, Token: mnemonic, Err: ErrUnknownMnemonic}
	}

	layout := isa.Opcodes.Layout(op)
	operands := line.Tokens[1:]
	a.warnExtraTokens(line, 1+layout.Operands())

	var values [2]uint16
	for i := 0; i < layout.Operands() && i < len(operands); i++ {
		value, err := a.operand(line, operands[i].Value)
		if err != nil {
			return nil, err
		}

		if limit := operandLimit(layout, i); value >= limit {
			a.log.Warn(f("operand does not fit its field, it will be truncated"),
				"line", line.Number, "operand", operands[i].Value, "value", value, "limit", limit)
		}

		values[i] = value
	}

	return isa.Make(op, values[0], values[1])
}

func (a *Assembler) operand(line *sourceLine, token string) (uint16, error) {
	value, err := ParseValue(token)
	if err == nil {
		return value, nil
	}

	if a.opts.LenientOperands && (errors.Is(err, ErrInvalidOperand) || errors.Is(err, ErrInvalidBinary)) {
		a.log.Warn(f("invalid operand, using 0"), "line", line.Number, "operand", token, "error", err)
		return 0, nil
	}

	return 0, &SyntaxError{Line: line.Number, Token: token, Err: err}
}

func (a *Assembler) warnExtraTokens(line *sourceLine, expected int) {
	if len(line.Tokens) > expected {
		a.log.Warn(f("ignoring extra tokens"), "line", line.Number, "tokens", line.values()[expected:])
	}
}

// Exclusive upper bound of the i-th operand of a layout
func operandLimit(layout isa.OperandLayout, i int) uint16 {
	if layout == isa.Layout_RegImm && i == 1 {
		return 1 << isa.ImmediateBits
	}
	return isa.RegisterCount
}
