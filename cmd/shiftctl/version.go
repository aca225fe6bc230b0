package main

import (
	"flag"
	"fmt"
	"os"
)

var version = "dev"

var showVersion = flag.Bool("version", false, "Print shiftctl version and exit")

func versionString() string {
	return fmt.Sprintf("%s %s", productName, version)
}

// maybePrintVersion handles the global --version flag. It returns true when
// the flag was set so main can exit without dispatching.
func maybePrintVersion() bool {
	if !*showVersion {
		return false
	}
	fmt.Println(versionString())
	return true
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "version takes no arguments")
		return 2
	}
	fmt.Println(versionString())
	return 0
}
