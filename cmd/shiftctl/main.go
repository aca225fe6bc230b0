package main

import (
	"flag"
	"fmt"
	"os"
)

const productName = "shiftcipher"
const cliBanner = productName + " CLI (shiftctl)"

func init() {
	defaultUsage := flag.Usage
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, cliBanner)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Commands:")
		fmt.Fprintln(out, "  demo        Run both ciphers over the configured sample text")
		fmt.Fprintln(out, "  encrypt     Encrypt text with a cipher")
		fmt.Fprintln(out, "  decrypt     Decrypt a ciphertext")
		fmt.Fprintln(out, "  ops         List registered operations")
		fmt.Fprintln(out, "  recipe      Manage saved pipelines (save, list, run, delete)")
		fmt.Fprintln(out, "  config      Print the resolved configuration")
		fmt.Fprintln(out, "  version     Print the version")
		fmt.Fprintln(out)
		if defaultUsage != nil {
			defaultUsage()
		}
	}
}

func main() {
	flag.Parse()
	if maybePrintVersion() {
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(run(args))
}

func run(args []string) int {
	switch args[0] {
	case "demo":
		return runDemo(args[1:])
	case "encrypt":
		return runEncrypt(args[1:])
	case "decrypt":
		return runDecrypt(args[1:])
	case "ops":
		return runOps(args[1:])
	case "recipe":
		return runRecipe(args[1:])
	case "config":
		return runConfig(args[1:])
	case "version":
		return runVersion(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		flag.Usage()
		return 2
	}
}
