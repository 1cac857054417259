// FILE: faultline/src/cmd/faultline/commands/help.go
package commands

import (
	"fmt"
	"strings"
)

// generalHelpTemplate is the default help message shown when no specific command is requested.
const generalHelpTemplate = `faultline: error capture, severity routing and reporting.

Usage:
  faultline [command] [options]
  faultline [options]

Commands:
%s

Service Options:
  -c, --config <path>      Path to configuration file (default: ~/.config/faultline.toml)
  -q, --quiet              Suppress console output of the service itself
  -v, --version            Display version information and exit
  -h, --help               Display this help message and exit

Without a command faultline runs as a service: it configures the sinks,
serves the status endpoint when enabled and logs a periodic error report
until SIGINT or SIGTERM.

Configuration Sources (Precedence: CLI > Env > File > Defaults):
  - CLI flags, e.g. --log_dir=/var/log/app --mode=structured
  - Environment variables, e.g. FAULTLINE_LOG_DIR, FAULTLINE_STATUS_ENABLED
  - TOML configuration file

For command-specific help:
  faultline help <command>
  faultline <command> --help
`

// HelpCommand handles the display of general or command-specific help messages.
type HelpCommand struct {
	router *CommandRouter
}

// NewHelpCommand creates a new help command handler.
func NewHelpCommand(router *CommandRouter) *HelpCommand {
	return &HelpCommand{router: router}
}

// Execute displays the appropriate help message based on the provided arguments.
func (c *HelpCommand) Execute(args []string) error {
	// Check if help is requested for a specific command
	if len(args) > 0 && args[0] != "" {
		cmdName := args[0]

		if handler, exists := c.router.GetCommand(cmdName); exists {
			fmt.Fprint(c.router.out, handler.Help())
			return nil
		}

		return fmt.Errorf("unknown command: %s", cmdName)
	}

	fmt.Fprintf(c.router.out, generalHelpTemplate, c.formatCommandList())
	return nil
}

// Description returns a brief one-line description of the command.
func (c *HelpCommand) Description() string {
	return "Display help information"
}

// Help returns the detailed help text for the 'help' command itself.
func (c *HelpCommand) Help() string {
	return `Help Command - Display help information

Usage:
  faultline help              Show general help
  faultline help <command>    Show help for a specific command
`
}

// formatCommandList creates a formatted and aligned list of all available commands.
func (c *HelpCommand) formatCommandList() string {
	names := c.router.Names()

	maxLen := 0
	for _, name := range names {
		if len(name) > maxLen {
			maxLen = len(name)
		}
	}

	var lines []string
	for _, name := range names {
		handler, _ := c.router.GetCommand(name)
		padding := strings.Repeat(" ", maxLen-len(name)+2)
		lines = append(lines, fmt.Sprintf("  %s%s%s", name, padding, handler.Description()))
	}

	return strings.Join(lines, "\n")
}
