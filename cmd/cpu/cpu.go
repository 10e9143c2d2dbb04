package cpu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nibble-vm/nibble/pkg/config"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/asm"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/interpreter"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/listing"
	"github.com/nibble-vm/nibble/pkg/logging"
	"github.com/nibble-vm/nibble/pkg/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CpuCmd represents the cpu command
var CpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "Assemble, run and debug nibble programs",
}

// Process exit codes
const (
	exitError = 1
	exitFault = 2
)

var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorWarning = color.New(color.FgYellow)
	colorSuccess = color.New(color.FgGreen)
	colorHeader  = color.New(color.FgWhite, color.Bold, color.Underline)
)

// session holds the settings and resources shared by a command run
type session struct {
	cfg config.Config
	log *logging.Logger
	fs  afero.Fs
}

func newSession() *session {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fatal(exitError, err)
	}

	fs := afero.NewOsFs()
	log, err := logging.New(cfg, os.Stderr, fs)
	if err != nil {
		fatal(exitError, err)
	}

	return &session{cfg: cfg, log: log, fs: fs}
}

func (s *session) Close() {
	s.log.Close()
}

// newRunner creates a runner configured from the session, PRINT writing to output
func (s *session) newRunner(output io.Writer) *interpreter.Runner {
	return interpreter.NewRunner(s.fs,
		asm.Options{
			Verbose:         s.cfg.Verbose,
			Logger:          s.log.Logger,
			LenientOperands: s.cfg.LenientOperands,
		},
		interpreter.Options{
			Verbose:  s.cfg.Verbose,
			Logger:   s.log.Logger,
			Output:   output,
			MaxSteps: s.cfg.MaxSteps,
		})
}

// execute runs the loaded program, tracing every step to stderr if trace is set
func (s *session) execute(runner *interpreter.Runner, trace bool) (*interpreter.ExecutionResult, error) {
	if !trace {
		return runner.Run()
	}

	formatter := newFormatter()
	steps := 0
	dbg := runner.Debugger()
	dbg.SetEventCallback(func(event interpreter.ExecutionEvent, step *interpreter.StepResult) bool {
		if event == interpreter.EventStep && step.Instruction != nil {
			steps++
			fmt.Fprintln(os.Stderr, formatter.FormatStep(steps, step))
		}
		return true
	})

	return dbg.Continue(s.cfg.MaxSteps)
}

// report prints the final CPU state, exiting the process on faults
func (s *session) report(runner *interpreter.Runner, result *interpreter.ExecutionResult, err error) {
	if err != nil {
		fatal(exitCode(err), err)
	}

	state := runner.Interpreter().State()
	formatter := newFormatter()

	colorHeader.Println("Registers")
	fmt.Println(formatter.FormatRegisters(state, 4))
	fmt.Println(formatter.FormatFlags(state))

	switch {
	case result.Error != nil:
		colorWarning.Fprintf(os.Stderr, "execution stopped: %v\n", result.Error)
	case !result.StopReason.Normal():
		colorWarning.Fprintf(os.Stderr, "execution stopped: %v\n", result.StopReason)
	}

	if s.cfg.Verbose {
		fmt.Fprint(os.Stderr, formatter.FormatSummary(result))
	}
}

// writeListing writes the YAML listing of the loaded program to path
func (s *session) writeListing(runner *interpreter.Runner, path string) error {
	var l *listing.Listing
	if program := runner.Program(); program != nil {
		l = listing.FromProgram(program)
	} else {
		l = listing.FromWords(runner.Interpreter().Image())
	}

	file, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create listing '%v': %w", path, err)
	}
	defer file.Close()

	return listing.Write(file, l)
}

func printSource(source string) {
	colorHeader.Println("Source")
	fmt.Println(utils.HighlightAssembly(source))
}

func newFormatter() *interpreter.Formatter {
	if color.NoColor {
		return interpreter.NewFormatter(interpreter.StylePlain)
	}
	return interpreter.NewFormatter(interpreter.StyleColored)
}

func exitCode(err error) int {
	var fault *interpreter.FaultError
	if errors.As(err, &fault) {
		return exitFault
	}
	return exitError
}

func fatal(code int, err error) {
	colorError.Fprint(os.Stderr, "error: ")
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
