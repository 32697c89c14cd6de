package cmd

import (
	"os"

	"github.com/pkg/errors"
)

// stdoutIsTerminal is swapped out by tests.
var stdoutIsTerminal = func() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// colorMode decides whether scan output is painted. --no-color and the
// NO_COLOR convention win over --color; "auto" paints only on a terminal
// that is not TERM=dumb.
func colorMode(flag string, noColor bool) (bool, error) {
	switch flag {
	case "always", "never", "auto":
	default:
		return false, errors.Errorf("invalid --color %q (auto, always, never)", flag)
	}
	if noColor || os.Getenv("NO_COLOR") != "" || flag == "never" {
		return false, nil
	}
	if flag == "always" {
		return true, nil
	}
	return stdoutIsTerminal() && os.Getenv("TERM") != "dumb", nil
}
