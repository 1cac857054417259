// FILE: faultline/src/cmd/faultline/commands/router.go
package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Handler defines the interface required for all subcommands.
type Handler interface {
	Execute(args []string) error
	Description() string
	Help() string
}

// CommandRouter handles the routing of CLI arguments to the appropriate subcommand handler.
type CommandRouter struct {
	commands map[string]Handler
	out      io.Writer
}

// NewCommandRouter creates and initializes the command router with all available commands.
func NewCommandRouter() *CommandRouter {
	return newCommandRouter(os.Stdout)
}

func newCommandRouter(out io.Writer) *CommandRouter {
	router := &CommandRouter{
		commands: make(map[string]Handler),
		out:      out,
	}

	// Register available commands
	router.commands["version"] = NewVersionCommand(out)
	router.commands["config"] = NewConfigCommand(out)
	router.commands["emit"] = NewEmitCommand(out)
	router.commands["demo"] = NewDemoCommand(out)
	router.commands["help"] = NewHelpCommand(router)

	return router
}

// Route checks for and executes a subcommand based on the provided CLI arguments.
func (r *CommandRouter) Route(args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil // No command specified, let main app continue
	}

	cmdName := args[1]

	// Special case: help flag at any position shows general help
	for _, arg := range args[1:] {
		if arg == "-h" || arg == "--help" {
			// If it's after a valid command, show command-specific help
			if handler, exists := r.commands[cmdName]; exists && cmdName != "help" {
				fmt.Fprint(r.out, handler.Help())
				return true, nil
			}
			// Otherwise show general help
			return true, r.commands["help"].Execute(nil)
		}
	}

	// Check if this is a known command
	handler, exists := r.commands[cmdName]
	if !exists {
		// Check if it looks like a mistyped command (not a flag)
		if cmdName != "" && cmdName[0] != '-' {
			return false, fmt.Errorf("unknown command: %s\n\nRun 'faultline help' for usage", cmdName)
		}
		// It's a flag, let main app handle it
		return false, nil
	}

	// Execute the command
	return true, handler.Execute(args[2:])
}

// GetCommand returns a specific command handler by its name.
func (r *CommandRouter) GetCommand(name string) (Handler, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// Names returns the registered command names in sorted order.
func (r *CommandRouter) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// coalesceString returns the first non-empty string from a list of arguments.
func coalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
