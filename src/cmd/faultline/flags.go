// FILE: faultline/src/cmd/faultline/flags.go
package main

import (
	"fmt"
	"strings"
)

// FlagConfig holds the flags consumed by main itself. Everything else is
// passed through to the configuration loader.
type FlagConfig struct {
	ConfigFile  string
	Quiet       bool
	ShowVersion bool
	ShowHelp    bool
}

// ParseFlags extracts the service flags from args and returns the remaining
// arguments for config.LoadWithCLI.
func ParseFlags(args []string) (*FlagConfig, []string, error) {
	fc := &FlagConfig{}
	rest := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") {
			rest = append(rest, arg)
			continue
		}

		switch name {
		case "c", "config":
			if !hasValue {
				if i+1 >= len(args) {
					return nil, nil, fmt.Errorf("flag %s requires a value", arg)
				}
				i++
				value = args[i]
			}
			if value == "" {
				return nil, nil, fmt.Errorf("flag %s requires a value", arg)
			}
			fc.ConfigFile = value
		case "q", "quiet":
			fc.Quiet = !hasValue || value == "true"
		case "v", "version":
			fc.ShowVersion = true
		case "h", "help":
			fc.ShowHelp = true
		default:
			rest = append(rest, arg)
		}
	}

	return fc, rest, nil
}
