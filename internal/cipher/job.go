package cipher

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Kind identifies one of the closed set of cipher variants.
type Kind int

const (
	KindCaesar Kind = iota + 1
	KindUnicodeSubstitution
)

func (k Kind) String() string {
	switch k {
	case KindCaesar:
		return "caesar"
	case KindUnicodeSubstitution:
		return "unicode_substitution"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind resolves a variant name. "unicode" is accepted as a short form of
// "unicode_substitution".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "caesar":
		return KindCaesar, nil
	case "unicode", "unicode_substitution", "unicode-substitution":
		return KindUnicodeSubstitution, nil
	default:
		return 0, fmt.Errorf("%w: unknown cipher %q", ErrInvalidParameter, name)
	}
}

// MaxShift returns the largest shift the variant accepts. The smallest is 0.
func (k Kind) MaxShift() int {
	v, ok := variantFor(k)
	if !ok {
		return -1
	}
	return v.maxShift()
}

// State tracks the one-way lifecycle of a Job.
type State int

const (
	StateCreated State = iota
	StateEncrypted
	StateDecrypted
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateEncrypted:
		return "encrypted"
	case StateDecrypted:
		return "decrypted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// variant is the per-character transform pair of a cipher. It is sealed: the
// only implementations are caesar and unicodeSubstitution.
type variant interface {
	kind() Kind
	maxShift() int
	encryptToken(token string, shift int) string
	decryptToken(token string, shift int) string
}

func variantFor(k Kind) (variant, bool) {
	switch k {
	case KindCaesar:
		return caesar{}, true
	case KindUnicodeSubstitution:
		return unicodeSubstitution{}, true
	default:
		return nil, false
	}
}

// Job holds one piece of text and the shift applied to it. Encrypted and
// decrypted forms are computed on first request and cached.
//
// A Job is not safe for concurrent use; independent jobs share nothing.
type Job struct {
	id      uuid.UUID
	variant variant
	shift   int
	text    string
	tokens  []string

	state           State
	encryptedTokens []string
	encrypted       string
	decrypted       string

	// passes counts transform passes over the tokens.
	passes int
}

// New constructs a job for the given variant.
func New(kind Kind, shift int, text string) (*Job, error) {
	v, ok := variantFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown cipher %s", ErrInvalidParameter, kind)
	}
	if shift < 0 || shift > v.maxShift() {
		return nil, invalidShift(kind, shift, v.maxShift())
	}
	return &Job{
		id:      uuid.New(),
		variant: v,
		shift:   shift,
		text:    text,
		tokens:  Tokenize(text),
		state:   StateCreated,
	}, nil
}

// NewCaesar constructs a Caesar job. shift must lie in {0, ..., 25}.
func NewCaesar(shift int, text string) (*Job, error) {
	return New(KindCaesar, shift, text)
}

// NewUnicodeSubstitution constructs a Unicode substitution job. shift must lie
// in {0, ..., 65534}.
func NewUnicodeSubstitution(shift int, text string) (*Job, error) {
	return New(KindUnicodeSubstitution, shift, text)
}

// ID identifies the job in audit records.
func (j *Job) ID() string { return j.id.String() }

func (j *Job) Kind() Kind { return j.variant.kind() }

func (j *Job) Shift() int { return j.shift }

// Text returns the original input unchanged.
func (j *Job) Text() string { return j.text }

// Tokens returns a copy of the whitespace-delimited tokens of the input.
func (j *Job) Tokens() []string {
	out := make([]string, len(j.tokens))
	copy(out, j.tokens)
	return out
}

func (j *Job) State() State { return j.state }

// Encrypted returns the cached ciphertext, if Encrypt has run.
func (j *Job) Encrypted() (string, bool) {
	if j.state == StateCreated {
		return "", false
	}
	return j.encrypted, true
}

// Decrypted returns the cached plaintext, if Decrypt has run.
func (j *Job) Decrypted() (string, bool) {
	if j.state != StateDecrypted {
		return "", false
	}
	return j.decrypted, true
}

// Encrypt shifts every character of every token forward and joins the tokens
// with single spaces. The result is computed once; later calls return it.
func (j *Job) Encrypt() string {
	if j.state != StateCreated {
		return j.encrypted
	}
	j.encryptedTokens = j.apply(j.tokens, j.variant.encryptToken)
	j.encrypted = strings.Join(j.encryptedTokens, " ")
	j.state = StateEncrypted
	return j.encrypted
}

// Decrypt inverts the encrypted tokens and joins them with single spaces. It
// fails with ErrInvalidState if Encrypt has never been called. The result is
// computed once; later calls return it.
func (j *Job) Decrypt() (string, error) {
	switch j.state {
	case StateCreated:
		return "", fmt.Errorf("%w: no encrypted text to decrypt", ErrInvalidState)
	case StateEncrypted:
		j.decrypted = strings.Join(j.apply(j.encryptedTokens, j.variant.decryptToken), " ")
		j.state = StateDecrypted
	}
	return j.decrypted, nil
}

func (j *Job) apply(tokens []string, fn func(string, int) string) []string {
	j.passes++
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = fn(tok, j.shift)
	}
	return out
}

// Tokenize splits text on runs of whitespace. Whitespace is unicode.IsSpace
// plus the ASCII information separators U+001C through U+001F.
func Tokenize(text string) []string {
	return strings.FieldsFunc(text, isSeparator)
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// mod returns the non-negative remainder of a divided by m.
func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
