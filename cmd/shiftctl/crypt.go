package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/RowanDark/shiftcipher/internal/cipher"
	"github.com/RowanDark/shiftcipher/internal/logging"
	"github.com/RowanDark/shiftcipher/internal/textnorm"
)

type cryptFlags struct {
	fs        *flag.FlagSet
	cipher    *string
	shift     *int
	text      *string
	normalize *string
}

func newCryptFlags(name string) *cryptFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return &cryptFlags{
		fs:        fs,
		cipher:    fs.String("cipher", "caesar", "Cipher to use: caesar or unicode"),
		shift:     fs.Int("shift", 0, "Shift to apply (defaults to the configured shift for the cipher)"),
		text:      fs.String("text", "", "Input text (reads stdin when omitted)"),
		normalize: fs.String("normalize", "", "Unicode normalization applied to the input: none, nfc, nfd, nfkc, nfkd"),
	}
}

// resolve returns the cipher kind, shift and input text.
func (f *cryptFlags) resolve(sess *session) (cipher.Kind, int, string, error) {
	kind, err := cipher.ParseKind(*f.cipher)
	if err != nil {
		return 0, 0, "", err
	}
	shift := sess.configuredShift(kind)
	if flagWasSet(f.fs, "shift") {
		shift = *f.shift
	}

	formName := sess.cfg.Normalize
	if flagWasSet(f.fs, "normalize") {
		formName = *f.normalize
	}
	form, err := textnorm.Parse(formName)
	if err != nil {
		return 0, 0, "", fmt.Errorf("%w: %v", cipher.ErrInvalidParameter, err)
	}

	input, err := readInput(*f.text, flagWasSet(f.fs, "text"))
	if err != nil {
		return 0, 0, "", err
	}
	return kind, shift, form.Apply(input), nil
}

func runEncrypt(args []string) int {
	f := newCryptFlags("encrypt")
	roundTrip := f.fs.Bool("roundtrip", false, "Also decrypt the ciphertext and print the result on a second line")
	if err := f.fs.Parse(args); err != nil {
		return 2
	}
	if f.fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "encrypt takes no positional arguments")
		return 2
	}

	sess, err := openSession("shiftctl.encrypt")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
		return 1
	}
	defer sess.Close()

	kind, shift, input, err := f.resolve(sess)
	if err != nil {
		sess.rejected(0, err)
		fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
		return exitCode(err)
	}

	job, err := cipher.New(kind, shift, input)
	if err != nil {
		sess.rejected(kind, err)
		fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
		return exitCode(err)
	}
	sess.jobEvent(job, logging.EventJobCreated, map[string]any{"shift": shift, "tokens": len(job.Tokens()), "text": input})

	encrypted := job.Encrypt()
	sess.jobEvent(job, logging.EventJobEncrypted, map[string]any{"ciphertext": encrypted})
	fmt.Println(encrypted)

	if *roundTrip {
		decrypted, err := job.Decrypt()
		if err != nil {
			sess.rejected(kind, err)
			fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
			return 1
		}
		sess.jobEvent(job, logging.EventJobDecrypted, map[string]any{"plaintext": decrypted})
		fmt.Println(decrypted)
	}
	return 0
}

// decryptOperation names the registered inverse operation for kind.
func decryptOperation(kind cipher.Kind) string {
	if kind == cipher.KindUnicodeSubstitution {
		return "unicode_decrypt"
	}
	return "caesar_decrypt"
}

func runDecrypt(args []string) int {
	f := newCryptFlags("decrypt")
	if err := f.fs.Parse(args); err != nil {
		return 2
	}
	if f.fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "decrypt takes no positional arguments")
		return 2
	}

	sess, err := openSession("shiftctl.decrypt")
	if err != nil {
		fmt.Fprintf(os.Stderr, "decrypt: %v\n", err)
		return 1
	}
	defer sess.Close()

	kind, shift, input, err := f.resolve(sess)
	if err != nil {
		sess.rejected(0, err)
		fmt.Fprintf(os.Stderr, "decrypt: %v\n", err)
		return exitCode(err)
	}

	name := decryptOperation(kind)
	op, ok := cipher.GetOperation(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "decrypt: operation %s not registered\n", name)
		return 1
	}

	ctx, cancel := interruptContext()
	defer cancel()

	out, err := op.Execute(ctx, []byte(input), map[string]interface{}{"shift": shift})
	if err != nil {
		sess.rejected(kind, err)
		fmt.Fprintf(os.Stderr, "decrypt: %v\n", err)
		return exitCode(err)
	}
	sess.emit(logging.AuditEvent{
		EventType: logging.EventJobDecrypted,
		Cipher:    kind.String(),
		Decision:  logging.DecisionInfo,
		Metadata:  map[string]any{"operation": name, "shift": shift, "plaintext": string(out)},
	})
	fmt.Println(string(out))
	return 0
}
