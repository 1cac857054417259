// FILE: faultline/src/cmd/faultline/commands/config.go
package commands

import (
	"flag"
	"fmt"
	"io"

	"faultline/src/internal/config"
)

// ConfigCommand prints or saves the effective configuration
type ConfigCommand struct {
	out io.Writer
}

// NewConfigCommand creates a new config command
func NewConfigCommand(out io.Writer) *ConfigCommand {
	return &ConfigCommand{out: out}
}

func (c *ConfigCommand) Execute(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		savePath string
		defaults bool
	)
	fs.StringVar(&savePath, "save", "", "")
	fs.StringVar(&savePath, "s", "", "")
	fs.BoolVar(&defaults, "defaults", false, "")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse config flags: %w", err)
	}

	var cfg *config.Config
	if defaults {
		cfg = config.Defaults()
	} else {
		loaded, err := config.LoadWithCLI(fs.Args())
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if savePath != "" {
		if err := cfg.SaveToFile(savePath); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Configuration saved to %s\n", savePath)
		return nil
	}

	return cfg.WriteTOML(c.out)
}

func (c *ConfigCommand) Description() string {
	return "Print or save the effective configuration"
}

func (c *ConfigCommand) Help() string {
	return `Config Command - Print or save the effective configuration

Usage:
  faultline config [options] [--key=value ...]

Options:
  --defaults          Ignore file and environment, print built-in defaults
  -s, --save <path>   Write the configuration to <path> instead of stdout

Trailing --key=value arguments override file and environment values using
the same dotted keys as the TOML file (e.g. --status.enabled=true).

Examples:
  # Show the configuration the service would run with
  faultline config

  # Write a starter file
  faultline config --defaults --save ~/.config/faultline.toml
`
}
