package config

import (
	"fmt"
	"os"
)

// exitPrefix tags fatal startup messages from every autofix binary.
const exitPrefix = "autofix: "

// Exitf reports a startup failure on stderr and exits with status 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, exitPrefix+format+"\n", args...)
	os.Exit(1)
}
