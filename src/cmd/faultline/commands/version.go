// FILE: faultline/src/cmd/faultline/commands/version.go
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"faultline/src/internal/version"
)

// VersionCommand handles version display
type VersionCommand struct {
	out io.Writer
}

// NewVersionCommand creates a new version command
func NewVersionCommand(out io.Writer) *VersionCommand {
	return &VersionCommand{out: out}
}

func (c *VersionCommand) Execute(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *asJSON {
		data, err := json.Marshal(version.Info())
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, string(data))
		return nil
	}

	fmt.Fprintln(c.out, version.String())
	return nil
}

func (c *VersionCommand) Description() string {
	return "Show version information"
}

func (c *VersionCommand) Help() string {
	return `Version Command - Show faultline version information

Usage:
  faultline version [--json]
  faultline -v
  faultline --version

Output includes:
  - Version number
  - Git commit hash (if available)
  - Build date
  - Go version used for compilation
`
}
