package interpreter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/nibble-vm/nibble/pkg/utils"
)

// FormatStyle controls the output style for formatting functions
type FormatStyle int

const (
	// StylePlain produces plain text output without colors
	StylePlain FormatStyle = iota
	// StyleColored produces colorized output using ANSI escape codes
	StyleColored
)

var (
	stepColor     = color.New(color.FgHiBlack)
	pcColor       = color.New(color.FgCyan)
	registerColor = color.New(color.FgGreen)
	valueColor    = color.New(color.FgWhite, color.Bold)
	flagColor     = color.New(color.FgMagenta)
)

// Formatter renders CPU state and execution traces for display
type Formatter struct {
	style FormatStyle
}

// NewFormatter creates a new formatter with the given style
func NewFormatter(style FormatStyle) *Formatter {
	return &Formatter{style: style}
}

func (f *Formatter) paint(c *color.Color, format string, args ...any) string {
	if f.style == StylePlain {
		return fmt.Sprintf(format, args...)
	}
	return c.Sprintf(format, args...)
}

// FormatRegisters renders the register file as "ax: 0 bx: 5 ...", perLine registers per line
// (0 = everything in one line)
func (f *Formatter) FormatRegisters(state *CPUState, perLine int) string {
	var sb strings.Builder

	for idx, value := range state.Registers {
		if idx > 0 {
			if perLine > 0 && idx%perLine == 0 {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}

		sb.WriteString(f.paint(registerColor, "%cx", isa.RegisterLetter(isa.Register(idx))))
		sb.WriteString(": ")
		sb.WriteString(f.paint(valueColor, "%5d", value))
	}

	return sb.String()
}

// FormatFlags renders the program counter, the condition flag and the run state
func (f *Formatter) FormatFlags(state *CPUState) string {
	status := "running"
	if state.Halted {
		status = "halted"
	}

	return fmt.Sprintf("%s=%s %s=%s %s",
		f.paint(registerColor, "pc"), f.paint(pcColor, "0x%02X", state.PC),
		f.paint(registerColor, "eq"), f.paint(flagColor, "%v", state.Equal),
		status)
}

// FormatStep renders a single trace line for an executed step
func (f *Formatter) FormatStep(n int, step *StepResult) string {
	text := "<none>"
	if step.Instruction != nil {
		text = step.Instruction.String()
	}

	if f.style == StyleColored {
		text = utils.HighlightAssembly(text)
	}

	return fmt.Sprintf("[%s] %s %s | %s",
		f.paint(stepColor, "%4d", n),
		f.paint(pcColor, "0x%02X", step.PC),
		step.Word.String(),
		text)
}

// FormatSummary renders the outcome of a run
func (f *Formatter) FormatSummary(result *ExecutionResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "stopped: %s\n", result.StopReason)
	fmt.Fprintf(&sb, "steps executed: %d\n", result.StepsExecuted)
	fmt.Fprintf(&sb, "last pc: 0x%02X\n", result.LastPC)
	if result.LastInstruction != nil {
		fmt.Fprintf(&sb, "last instruction: %s\n", result.LastInstruction)
	}
	if result.Error != nil {
		fmt.Fprintf(&sb, "error: %v\n", result.Error)
	}

	return sb.String()
}
