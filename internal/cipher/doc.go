// Package cipher implements two shift ciphers over text: a Caesar cipher over
// ASCII Latin letters and a Unicode substitution cipher over code points.
// Neither is cryptographically secure.
//
// # Jobs
//
// A Job binds a shift to a piece of text. The text is split on whitespace
// runs; encryption shifts every character of every token and joins the tokens
// with single spaces, so the original spacing is not preserved.
//
//	job, err := cipher.NewCaesar(20, "Attack at dawn")
//	if err != nil {
//	    // errors.Is(err, cipher.ErrInvalidParameter)
//	}
//	ct := job.Encrypt()       // "Uoouwf uo xuri"
//	pt, err := job.Decrypt()  // "Attack at dawn"
//
// Results are cached: Encrypt and Decrypt compute once and return the cached
// value afterwards. Decrypt before Encrypt fails with ErrInvalidState.
//
// # Caesar
//
// Shifts lie in {0, ..., 25}. Letters wrap modulo 25 (the distance from 'a'
// to 'z'), so 'z' encrypts like 'a' and decrypts to 'a'. Everything that is
// not an ASCII letter passes through unchanged.
//
// # Unicode substitution
//
// Shifts lie in {0, ..., 65534}. Every code point c becomes
// (c + shift) mod 65535. Results in the surrogate range are written in
// generalized UTF-8 so that decryption can recover them. Code points at or
// above U+FFFF fold into the 16-bit space and do not survive a round trip.
//
// # Operations and pipelines
//
// Both variants are registered as named operations (caesar_encrypt,
// caesar_decrypt, unicode_encrypt, unicode_decrypt) taking a "shift"
// parameter, and can be chained in a Pipeline:
//
//	p := &cipher.Pipeline{
//	    Operations: []cipher.OperationConfig{
//	        {Name: "caesar_encrypt", Parameters: map[string]interface{}{"shift": 3}},
//	        {Name: "unicode_encrypt", Parameters: map[string]interface{}{"shift": 6000}},
//	    },
//	    Reversible: true,
//	}
//	ct, _ := p.Execute(ctx, []byte("hello"))
//	back, _ := p.Reverse()
//	pt, _ := back.Execute(ctx, ct)
//
// RecipeManager saves pipelines under a name, optionally as JSON files.
//
// # Thread Safety
//
// A Job is not safe for concurrent use. The operation registry and
// RecipeManager lock internally.
package cipher
