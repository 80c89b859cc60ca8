// Command racing_cli runs the racing game without an engine and works with
// recorded sessions.
//
//	racing_cli simulate [-config dir] [-frames n] [-dt s] [-clients n] [-steer left|right]
//	racing_cli list     [-config dir] [-limit n]
//	racing_cli export   [-config dir] [-out dir] [-gzip] <sessionID>...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errUsage = errors.New("usage: racing_cli simulate|list|export [flags]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch strings.ToLower(args[0]) {
	case "simulate":
		return runSimulate(args[1:], stdout)
	case "list":
		return runList(args[1:], stdout)
	case "export":
		return runExport(args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}
