package cpu

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/interpreter"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug <program>",
	Short: "Run the nibble debugger",
	Long: `Interactive terminal debugger for nibble programs.

Keys:
  s          - Execute one instruction
  r          - Run until halt or breakpoint
  b, enter   - Toggle breakpoint at the selected address
  R          - Restart the program, keeping breakpoints
  q, esc     - Exit debugger`,
	Args: cobra.ExactArgs(1),
	Run:  runDebug,
}

func init() {
	CpuCmd.AddCommand(debugCmd)
}

// Instructions executed per "run" keypress when max_steps is not configured
const runStepBudget = 100000

// stepper is the terminal UI of the debugger
type stepper struct {
	app    *tview.Application
	runner *interpreter.Runner
	dbg    *interpreter.Debugger
	lines  []string

	// Instructions executed per "run" keypress
	maxSteps int

	program   *tview.Table
	registers *tview.TextView
	output    *tview.TextView
	status    *tview.TextView
}

func runDebug(cmd *cobra.Command, args []string) {
	s := newSession()
	defer s.Close()

	ui := newStepper()
	ui.maxSteps = runBudget(s.cfg.MaxSteps)

	ui.runner = s.newRunner(ui.output)
	if err := ui.runner.LoadSourceFile(args[0]); err != nil {
		fatal(exitError, err)
	}
	ui.dbg = ui.runner.Debugger()
	ui.lines = strings.Split(ui.runner.Source(), "\n")

	ui.refresh()
	ui.setStatus("[green]ready[-]")

	if err := ui.app.Run(); err != nil {
		fatal(exitError, err)
	}
}

func newStepper() *stepper {
	ui := &stepper{
		app:       tview.NewApplication(),
		program:   tview.NewTable(),
		registers: tview.NewTextView(),
		output:    tview.NewTextView(),
		status:    tview.NewTextView(),
	}

	ui.program.SetSelectable(true, false)
	ui.program.SetBorder(true)
	ui.program.SetTitle(" program ")
	ui.program.SetSelectedFunc(func(row, column int) {
		ui.toggleBreakpoint(row)
	})

	ui.registers.SetDynamicColors(true)
	ui.registers.SetBorder(true)
	ui.registers.SetTitle(" registers ")

	ui.output.SetScrollable(true)
	ui.output.SetBorder(true)
	ui.output.SetTitle(" output ")

	ui.status.SetDynamicColors(true)

	side := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.registers, 0, 1, false).
		AddItem(ui.output, 0, 1, false)

	body := tview.NewFlex().
		AddItem(ui.program, 0, 3, true).
		AddItem(side, 0, 2, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(ui.status, 1, 0, false)

	ui.app.SetRoot(root, true)
	ui.app.SetInputCapture(ui.handleKey)
	return ui
}

func (ui *stepper) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape {
		ui.app.Stop()
		return nil
	}

	switch event.Rune() {
	case 'q':
		ui.app.Stop()
	case 's':
		ui.step()
	case 'r':
		ui.run()
	case 'b':
		row, _ := ui.program.GetSelection()
		ui.toggleBreakpoint(row)
	case 'R':
		ui.dbg.Restart()
		ui.output.Clear()
		ui.setStatus("[green]restarted[-]")
	default:
		return event
	}

	ui.refresh()
	return nil
}

func (ui *stepper) step() {
	if ui.dbg.Finished() {
		ui.setStatus("[yellow]program finished, press R to restart[-]")
		return
	}

	step, err := ui.dbg.Step()
	switch {
	case err != nil:
		ui.setStatus(fmt.Sprintf("[red]%v[-]", tview.Escape(err.Error())))
	case step.StopReason != interpreter.StopNone:
		ui.setStopStatus(step.StopReason, step.Err)
	case step.Instruction != nil:
		ui.setStatus(fmt.Sprintf("executed [yellow]%v[-]", step.Instruction))
	}
}

func (ui *stepper) run() {
	if ui.dbg.Finished() {
		ui.setStatus("[yellow]program finished, press R to restart[-]")
		return
	}

	result, err := ui.dbg.Continue(ui.maxSteps)
	if err != nil {
		ui.setStatus(fmt.Sprintf("[red]%v[-]", tview.Escape(err.Error())))
		return
	}

	if result.StopReason == interpreter.StopMaxSteps {
		ui.setStatus(fmt.Sprintf("[yellow]paused[-] after %d steps at 0x%02X, press r to keep running", result.StepsExecuted, ui.dbg.Interpreter().State().PC))
		return
	}

	if result.StopReason == interpreter.StopBreakpoint {
		ui.setStatus(fmt.Sprintf("[magenta]breakpoint[-] at 0x%02X after %d steps", ui.dbg.Interpreter().State().PC, result.StepsExecuted))
		return
	}
	ui.setStopStatus(result.StopReason, result.Error)
}

// runBudget returns the number of instructions a "run" keypress may execute, so that
// endless loops hand control back to the UI
func runBudget(maxSteps int) int {
	if maxSteps > 0 {
		return maxSteps
	}
	return runStepBudget
}

func (ui *stepper) toggleBreakpoint(row int) {
	if row < 0 {
		return
	}

	if ui.dbg.ToggleBreakpoint(uint16(row)) {
		ui.setStatus(fmt.Sprintf("breakpoint set at 0x%02X", row))
	} else {
		ui.setStatus(fmt.Sprintf("breakpoint removed at 0x%02X", row))
	}
	ui.refresh()
}

func (ui *stepper) setStopStatus(reason interpreter.StopReason, err error) {
	if err != nil {
		ui.setStatus(fmt.Sprintf("[red]stopped (%v): %v[-]", reason, tview.Escape(err.Error())))
		return
	}
	ui.setStatus(fmt.Sprintf("[green]stopped (%v)[-]", reason))
}

func (ui *stepper) setStatus(message string) {
	ui.status.SetText(message + "  [gray]s: step  r: run  b: breakpoint  R: restart  q: quit[-]")
}

// refresh redraws the program listing and the register pane from the CPU state
func (ui *stepper) refresh() {
	state := ui.dbg.Interpreter().State()

	rows := max(state.ImageLength(), len(ui.programLines()))
	rows = max(rows, int(state.PC)+1)
	rows = min(rows, interpreter.MemorySize)

	ui.program.Clear()
	for addr := 0; addr < rows; addr++ {
		instr, line, err := ui.runner.InstructionAt(uint16(addr))

		marker, markerColor := "  ", tcell.ColorDefault
		switch {
		case uint16(addr) == state.PC && ui.dbg.HasBreakpoint(uint16(addr)):
			marker, markerColor = "●▶", tcell.ColorRed
		case uint16(addr) == state.PC:
			marker, markerColor = " ▶", tcell.ColorGreen
		case ui.dbg.HasBreakpoint(uint16(addr)):
			marker, markerColor = "● ", tcell.ColorRed
		}

		text := "?"
		if err == nil {
			text = instr.String()
		}

		source := ""
		if line > 0 && line <= len(ui.lines) {
			source = fmt.Sprintf("%3d: %s", line, strings.TrimSpace(ui.lines[line-1]))
		}

		ui.program.SetCell(addr, 0, tview.NewTableCell(marker).SetTextColor(markerColor))
		ui.program.SetCell(addr, 1, tview.NewTableCell(fmt.Sprintf("%02X", addr)).SetTextColor(tcell.ColorDarkCyan))
		ui.program.SetCell(addr, 2, tview.NewTableCell(state.Memory[addr].String()).SetTextColor(tcell.ColorDarkMagenta))
		ui.program.SetCell(addr, 3, tview.NewTableCell(text).SetTextColor(tcell.ColorYellow))
		ui.program.SetCell(addr, 4, tview.NewTableCell(source).SetTextColor(tcell.ColorGray).SetExpansion(1))
	}

	ui.registers.Clear()
	for idx, value := range state.Registers {
		fmt.Fprintf(ui.registers, "[green]%cx[-] %5d  [darkmagenta]0x%04X[-]\n", isa.RegisterLetter(isa.Register(idx)), value, value)
	}
	fmt.Fprintf(ui.registers, "\n[green]pc[-] 0x%02X  [green]eq[-] %v\n", state.PC, state.Equal)

	ui.output.ScrollToEnd()
}

func (ui *stepper) programLines() []int {
	if program := ui.runner.Program(); program != nil {
		return program.Lines
	}
	return nil
}
