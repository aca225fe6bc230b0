package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/RowanDark/shiftcipher/internal/cipher"
	"github.com/RowanDark/shiftcipher/internal/logging"
)

func runDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	text := fs.String("text", "", "Sample text (defaults to the configured sample text)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "demo takes no positional arguments")
		return 2
	}

	sess, err := openSession("shiftctl.demo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "demo: %v\n", err)
		return 1
	}
	defer sess.Close()

	sample := sess.cfg.SampleText
	if flagWasSet(fs, "text") {
		sample = *text
	}

	runs := []struct {
		title string
		kind  cipher.Kind
		shift int
	}{
		{"Caesar Cipher", cipher.KindCaesar, sess.cfg.CaesarShift},
		{"Unicode Cipher", cipher.KindUnicodeSubstitution, sess.cfg.UnicodeShift},
	}

	for _, r := range runs {
		job, err := cipher.New(r.kind, r.shift, sample)
		if err != nil {
			sess.rejected(r.kind, err)
			fmt.Fprintf(os.Stderr, "demo: %v\n", err)
			return exitCode(err)
		}
		sess.jobEvent(job, logging.EventJobCreated, map[string]any{"shift": job.Shift(), "text": job.Text()})

		if err := printDemo(os.Stdout, sess, r.title, job); err != nil {
			fmt.Fprintf(os.Stderr, "demo: %v\n", err)
			return 1
		}
	}
	return 0
}

// printDemo writes the original, encrypted and decrypted text of job in
// titled sections.
func printDemo(out io.Writer, sess *session, title string, job *cipher.Job) error {
	printSection(out, title, "#", "")

	printSection(out, "Original Text", "-", job.Text())

	encrypted := job.Encrypt()
	sess.jobEvent(job, logging.EventJobEncrypted, map[string]any{"ciphertext": encrypted})
	printSection(out, "Encrypted Text", "-", encrypted)

	decrypted, err := job.Decrypt()
	if err != nil {
		sess.rejected(job.Kind(), err)
		return err
	}
	sess.jobEvent(job, logging.EventJobDecrypted, map[string]any{"plaintext": decrypted})
	printSection(out, "Decrypted Text", "-", decrypted)
	return nil
}

const ruleWidth = 14

func printSection(out io.Writer, title, rule, body string) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, strings.Repeat(rule, ruleWidth))
	if body != "" {
		fmt.Fprintln(out, body)
	}
	fmt.Fprintln(out)
}
