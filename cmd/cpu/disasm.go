package cpu

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/nibble-vm/nibble/pkg/hw/cpu/listing"
	"github.com/spf13/cobra"
)

var disasmFormat string

var disasmCmd = &cobra.Command{
	Use:   "disasm <image>",
	Short: "Disassemble a nibble binary image",
	Long: `Decodes every word of a binary image and prints the resulting listing, either
as text or as a YAML document.

Example:
  nibble cpu disasm program.bin
  nibble cpu disasm program.bin --format yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runDisasm,
}

func init() {
	CpuCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().StringVarP(&disasmFormat, "format", "f", "text", "Output format: text, yaml")
}

func runDisasm(cmd *cobra.Command, args []string) {
	s := newSession()
	defer s.Close()

	runner := s.newRunner(io.Discard)
	if err := runner.LoadImageFile(args[0]); err != nil {
		fatal(exitError, err)
	}

	l := listing.FromWords(runner.Interpreter().Image())

	var err error
	switch disasmFormat {
	case "text":
		err = listing.WriteText(os.Stdout, l, !color.NoColor)
	case "yaml":
		err = listing.Write(os.Stdout, l)
	default:
		err = fmt.Errorf("unsupported format '%v', expected text or yaml", disasmFormat)
	}

	if err != nil {
		fatal(exitError, err)
	}
}
