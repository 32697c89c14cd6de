// kwtrie scans text for many keywords at once with an Aho-Corasick automaton.
package main

import (
	"os"

	"github.com/corey/kwtrie/cmd/kwtrie/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ScanExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(2)
	}
}
