package cmd

import (
	"fmt"
	"os"

	"github.com/nibble-vm/nibble/cmd/cpu"
	"github.com/nibble-vm/nibble/cmd/tools"
	"github.com/nibble-vm/nibble/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "nibble",
	Short: "A 16 bit toy processor",
	Long: `Nibble is a toy 16 bit processor with 16 registers and 256 words of memory,
implemented as an assembler, an emulator and a terminal debugger.

This CLI is the entry point for the nibble ecosystem, providing access to the emulator, tools, etc`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(tools.ToolsCmd, cpu.CpuCmd)
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.toml)")
	flags.BoolP("verbose", "v", false, "Trace fetches and assembly")
	flags.Bool("debug", config.Default().Debug, "Print the source program after running it")
	flags.String("log-file", "", "Append JSON logs to this file")
	flags.Bool("lenient", false, "Assemble invalid operands as 0 instead of failing")
	flags.Int("max-steps", 0, "Maximum number of instructions to execute (0 = unlimited)")

	bindings := map[string]string{
		config.KeyVerbose:         "verbose",
		config.KeyDebug:           "debug",
		config.KeyLogFile:         "log-file",
		config.KeyLenientOperands: "lenient",
		config.KeyMaxSteps:        "max-steps",
	}
	for key, flag := range bindings {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in the working directory with name "config.toml"
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
