package cpu

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultSource = "main.asm"

var (
	runEmit    string
	runListing string
	runTrace   bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Assemble and run a nibble program",
	Long: `Assembles a nibble source file and runs it, printing the final value of every
register. If no file is given, ` + defaultSource + ` is used. A missing source file is
created with a sample program.

Example:
  nibble cpu run program.asm
  nibble cpu run program.asm --emit program.bin --listing program.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRun,
}

func init() {
	CpuCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEmit, "emit", "e", "", "Write the memory image to this file after running")
	runCmd.Flags().StringVarP(&runListing, "listing", "l", "", "Write the YAML listing of the program to this file")
	runCmd.Flags().BoolVarP(&runTrace, "trace", "t", false, "Trace each instruction execution")
}

func runRun(cmd *cobra.Command, args []string) {
	path := defaultSource
	if len(args) > 0 {
		path = args[0]
	}

	s := newSession()
	defer s.Close()

	runner := s.newRunner(os.Stdout)
	if err := runner.LoadSourceFile(path); err != nil {
		fatal(exitError, err)
	}

	if runListing != "" {
		if err := s.writeListing(runner, runListing); err != nil {
			fatal(exitError, err)
		}
	}

	result, err := s.execute(runner, runTrace)
	s.report(runner, result, err)

	if runEmit != "" {
		if err := runner.EmitImageFile(runEmit); err != nil {
			fatal(exitError, err)
		}
		colorSuccess.Fprintf(os.Stderr, "image written to %s\n", runEmit)
	}

	if s.cfg.Debug {
		printSource(runner.Source())
	}
}
