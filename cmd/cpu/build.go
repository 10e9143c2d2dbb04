package cpu

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	buildOutput  string
	buildListing string
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Assemble a nibble program into a binary image",
	Long: `Assembles a nibble source file and writes the resulting memory image, a flat
sequence of big endian 16 bit words, without running it.

Example:
  nibble cpu build program.asm -o program.bin`,
	Args: cobra.ExactArgs(1),
	Run:  runBuild,
}

func init() {
	CpuCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output image (default: input file with .bin extension)")
	buildCmd.Flags().StringVarP(&buildListing, "listing", "l", "", "Write the YAML listing of the program to this file")
}

func runBuild(cmd *cobra.Command, args []string) {
	inputPath := args[0]
	outputPath := buildOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".bin"
	}

	s := newSession()
	defer s.Close()

	source, err := afero.ReadFile(s.fs, inputPath)
	if err != nil {
		fatal(exitError, fmt.Errorf("failed to read '%v': %w", inputPath, err))
	}

	runner := s.newRunner(io.Discard)
	if err := runner.LoadSource(string(source)); err != nil {
		fatal(exitError, fmt.Errorf("%v: %w", inputPath, err))
	}

	if err := runner.EmitImageFile(outputPath); err != nil {
		fatal(exitError, err)
	}

	if buildListing != "" {
		if err := s.writeListing(runner, buildListing); err != nil {
			fatal(exitError, err)
		}
	}

	colorSuccess.Fprintf(os.Stderr, "%s -> %s (%d words)\n", inputPath, outputPath, len(runner.Interpreter().Image()))
}
