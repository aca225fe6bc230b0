package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/RowanDark/shiftcipher/internal/cipher"
)

func runOps(args []string) int {
	fs := flag.NewFlagSet("ops", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	opType := fs.String("type", "", "Only list operations of this type (encrypt or decrypt)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var ops []cipher.Operation
	switch *opType {
	case "":
		ops = cipher.ListOperations()
	case string(cipher.OperationTypeEncrypt), string(cipher.OperationTypeDecrypt):
		ops = cipher.ListOperationsByType(cipher.OperationType(*opType))
	default:
		fmt.Fprintf(os.Stderr, "unknown operation type: %s\n", *opType)
		return 2
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "NAME\tTYPE\tREVERSE\tDESCRIPTION")
	for _, op := range ops {
		reverse := "-"
		if rev, ok := op.Reverse(); ok {
			reverse = rev.Name()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.Name(), op.Type(), reverse, op.Description())
	}
	return 0
}
