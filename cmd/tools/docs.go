package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/nibble-vm/nibble/pkg/hw/cpu/isa"
	"github.com/nibble-vm/nibble/pkg/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var supportedModules = map[string]func() string{
	"isa": func() string { return isa.Opcodes.DocString() },
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show nibble documentation",
	Long: `Dumps the documentation of the specified nibble module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(utils.SortedKeys(supportedModules), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.ExactArgs(1)),
	ValidArgs: utils.SortedKeys(supportedModules),
	Run: func(cmd *cobra.Command, args []string) {
		module := args[0]
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			if err := afero.WriteFile(afero.NewOsFs(), outputFile, []byte(supportedModules[module]()+"\n"), 0o644); err != nil {
				fmt.Fprintln(os.Stderr, "Error writing file:", err)
				os.Exit(1)
			}
		} else {
			fmt.Println(supportedModules[module]())
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
