package cpu

import (
	"os"

	"github.com/spf13/cobra"
)

var execTrace bool

var execCmd = &cobra.Command{
	Use:   "exec <image>",
	Short: "Execute a nibble binary image",
	Long: `Loads a binary image written by "nibble cpu build" or "nibble cpu run --emit"
into memory and runs it, printing the final value of every register.

Example:
  nibble cpu exec program.bin`,
	Args: cobra.ExactArgs(1),
	Run:  runExec,
}

func init() {
	CpuCmd.AddCommand(execCmd)
	execCmd.Flags().BoolVarP(&execTrace, "trace", "t", false, "Trace each instruction execution")
}

func runExec(cmd *cobra.Command, args []string) {
	s := newSession()
	defer s.Close()

	runner := s.newRunner(os.Stdout)
	if err := runner.LoadImageFile(args[0]); err != nil {
		fatal(exitError, err)
	}

	result, err := s.execute(runner, execTrace)
	s.report(runner, result, err)
}
