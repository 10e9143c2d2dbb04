// Package config holds the settings shared by the assembler, the interpreter
// and the command line driver.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Setting keys, also used as flag names and, upper cased with the NIBBLE_ prefix,
// as environment variables
const (
	KeyDebug           = "debug"
	KeyVerbose         = "verbose"
	KeyLenientOperands = "lenient"
	KeyMaxSteps        = "max_steps"
	KeyLogFile         = "log_file"
)

// Prefix of the environment variables read by Load
const EnvPrefix = "NIBBLE"

type Config struct {
	// Print the source program after running it
	Debug bool `mapstructure:"debug"`
	// Trace fetches and assembly at debug level
	Verbose bool `mapstructure:"verbose"`
	// Assemble invalid operands as 0 instead of failing
	LenientOperands bool `mapstructure:"lenient"`
	// Maximum number of instructions executed per run, 0 means unlimited
	MaxSteps int `mapstructure:"max_steps"`
	// Optional file receiving JSON logs
	LogFile string `mapstructure:"log_file"`
}

// Default returns the default settings
func Default() Config {
	return Config{
		Debug: true,
	}
}

// SetDefaults registers the default settings in v
func SetDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault(KeyDebug, defaults.Debug)
	v.SetDefault(KeyVerbose, defaults.Verbose)
	v.SetDefault(KeyLenientOperands, defaults.LenientOperands)
	v.SetDefault(KeyMaxSteps, defaults.MaxSteps)
	v.SetDefault(KeyLogFile, defaults.LogFile)
}

// Load reads the settings from v, falling back to the defaults for missing keys
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.MaxSteps < 0 {
		return Config{}, fmt.Errorf("invalid configuration: %v must not be negative, got %d", KeyMaxSteps, cfg.MaxSteps)
	}

	return cfg, nil
}
