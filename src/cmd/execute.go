package cmd

import (
	"fmt"
	"os"
)

// Execute should be called from main: it runs the command line and exits with
// status code 1 if anything went wrong
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
