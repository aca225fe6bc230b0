package cipher

// caesarModulus is the code point distance between 'a' and 'z'. Letters wrap
// modulo 25, not 26, so 'z' and 'a' share a ciphertext letter. Existing
// ciphertexts depend on this arithmetic.
const caesarModulus = 'z' - 'a'

const caesarMaxShift = 25

// caesar shifts ASCII Latin letters and passes every other byte through.
type caesar struct{}

func (caesar) kind() Kind { return KindCaesar }

func (caesar) maxShift() int { return caesarMaxShift }

func (caesar) encryptToken(token string, shift int) string {
	return shiftLatin(token, shift)
}

func (caesar) decryptToken(token string, shift int) string {
	return shiftLatin(token, -shift)
}

// shiftLatin works on bytes: ASCII letters are single bytes and multi-byte
// sequences never contain ASCII, so non-Latin text is left intact.
func shiftLatin(s string, shift int) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = 'a' + byte(mod(int(c-'a')+shift, caesarModulus))
		case c >= 'A' && c <= 'Z':
			b[i] = 'A' + byte(mod(int(c-'A')+shift, caesarModulus))
		}
	}
	return string(b)
}
