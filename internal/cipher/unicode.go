package cipher

import "unicode/utf8"

// unicodeModulus bounds code points to the 16-bit space. Note it is 65535,
// not 65536: U+FFFF folds onto U+0000.
const unicodeModulus = 65535

const unicodeMaxShift = unicodeModulus - 1

// unicodeSubstitution shifts every code point, whatever its class.
type unicodeSubstitution struct{}

func (unicodeSubstitution) kind() Kind { return KindUnicodeSubstitution }

func (unicodeSubstitution) maxShift() int { return unicodeMaxShift }

func (unicodeSubstitution) encryptToken(token string, shift int) string {
	return shiftCodePoints(token, shift)
}

func (unicodeSubstitution) decryptToken(token string, shift int) string {
	return shiftCodePoints(token, -shift)
}

func shiftCodePoints(s string, shift int) string {
	out := make([]byte, 0, len(s))
	for len(s) > 0 {
		r, size := decodeCodePoint(s)
		s = s[size:]
		out = appendCodePoint(out, rune(mod(int(r)+shift, unicodeModulus)))
	}
	return string(out)
}

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// appendCodePoint encodes r as UTF-8, writing surrogate code points in the
// three-byte generalized form (WTF-8) instead of replacing them with U+FFFD.
func appendCodePoint(dst []byte, r rune) []byte {
	if r >= surrogateMin && r <= surrogateMax {
		return append(dst,
			0xE0|byte(r>>12),
			0x80|byte(r>>6)&0x3F,
			0x80|byte(r)&0x3F,
		)
	}
	return utf8.AppendRune(dst, r)
}

// decodeCodePoint reads one code point, accepting generalized UTF-8
// surrogates. Invalid bytes decode as utf8.RuneError with width 1.
func decodeCodePoint(s string) (rune, int) {
	if len(s) >= 3 && s[0] == 0xED && s[1] >= 0xA0 && s[1] <= 0xBF && s[2]&0xC0 == 0x80 {
		return rune(s[0]&0x0F)<<12 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F), 3
	}
	return utf8.DecodeRuneInString(s)
}

// CodePoints decodes s as generalized UTF-8, as produced by the Unicode
// substitution cipher.
func CodePoints(s string) []rune {
	out := make([]rune, 0, len(s))
	for len(s) > 0 {
		r, size := decodeCodePoint(s)
		s = s[size:]
		out = append(out, r)
	}
	return out
}
