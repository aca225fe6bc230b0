// Package textnorm applies optional Unicode normalization to input text before
// it reaches a cipher. The Caesar cipher only shifts ASCII letters, so NFD or
// NFKD decides whether the base letter of "é" is shifted; the Unicode cipher
// shifts every code point, so the form changes the ciphertext length.
package textnorm

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Form names a normalization mode.
type Form string

const (
	None Form = "none"
	NFC  Form = "nfc"
	NFD  Form = "nfd"
	NFKC Form = "nfkc"
	NFKD Form = "nfkd"
)

// Parse resolves a form name. The empty string means None.
func Parse(name string) (Form, error) {
	switch f := Form(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return None, nil
	case None, NFC, NFD, NFKC, NFKD:
		return f, nil
	default:
		return "", fmt.Errorf("unknown normalization form %q (want none, nfc, nfd, nfkc or nfkd)", name)
	}
}

// Apply returns s in form f.
func (f Form) Apply(s string) string {
	switch f {
	case NFC:
		return norm.NFC.String(s)
	case NFD:
		return norm.NFD.String(s)
	case NFKC:
		return norm.NFKC.String(s)
	case NFKD:
		return norm.NFKD.String(s)
	default:
		return s
	}
}
