package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RowanDark/shiftcipher/internal/config"
)

func captureStdout(t *testing.T, fn func() int) (string, int) {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	code := fn()
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	os.Stdout = old
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close reader: %v", err)
	}
	return string(data), code
}

// isolate points HOME and the working directory at a fresh temp dir and clears
// configuration overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"SHIFTCIPHER_CAESAR_SHIFT",
		"SHIFTCIPHER_UNICODE_SHIFT",
		"SHIFTCIPHER_SAMPLE_TEXT",
		"SHIFTCIPHER_NORMALIZE",
		"SHIFTCIPHER_RECIPES_DIR",
		"SHIFTCIPHER_AUDIT_LOG",
		"SHIFTCIPHER_AUDIT_PLAINTEXT",
	} {
		t.Setenv(key, "")
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(cwd)
	})
	return dir
}

func withStdin(t *testing.T, input string) {
	t.Helper()
	old := stdin
	stdin = strings.NewReader(input)
	t.Cleanup(func() {
		stdin = old
	})
}

func TestDemoOutput(t *testing.T) {
	isolate(t)

	out, code := captureStdout(t, func() int { return run([]string{"demo"}) })
	if code != 0 {
		t.Fatalf("demo exited %d", code)
	}

	sample := config.DefaultSampleText
	wantCaesar := "Caesar Cipher\n##############\n\n" +
		"Original Text\n--------------\n" + sample + "\n\n" +
		"Encrypted Text\n--------------\n" +
		"Cymy'n njhy oyso ocuo D uh rmdodib, gjjf uo ocyny wcumuwoymn bj.'nkywo oj ocy Mjhuin.\n\n" +
		"Decrypted Text\n--------------\n" + sample + "\n\n"
	if !strings.HasPrefix(out, wantCaesar) {
		t.Fatalf("unexpected caesar section:\n%s", out)
	}

	rest := strings.TrimPrefix(out, wantCaesar)
	if !strings.HasPrefix(rest, "Unicode Cipher\n##############\n\n") {
		t.Fatalf("missing unicode section:\n%s", rest)
	}
	if !strings.HasSuffix(rest, "Decrypted Text\n--------------\n"+sample+"\n\n") {
		t.Fatalf("unicode section does not round trip:\n%s", rest)
	}
}

func TestDemoRejectsConfiguredShift(t *testing.T) {
	isolate(t)
	t.Setenv("SHIFTCIPHER_CAESAR_SHIFT", "26")

	_, code := captureStdout(t, func() int { return run([]string{"demo"}) })
	if code != 2 {
		t.Fatalf("expected exit 2 for out-of-range shift, got %d", code)
	}
}

func TestEncryptCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
		code int
	}{
		{"caesar", []string{"encrypt", "--shift", "20", "--text", "Attack at dawn"}, "Uoouwf uo xuri\n", 0},
		{"roundtrip", []string{"encrypt", "--shift", "20", "--text", "Attack at dawn", "--roundtrip"}, "Uoouwf uo xuri\nAttack at dawn\n", 0},
		{"unicode", []string{"encrypt", "--cipher", "unicode", "--shift", "1", "--text", "abc"}, "bcd\n", 0},
		{"nfd exposes base letter", []string{"encrypt", "--shift", "1", "--normalize", "nfd", "--text", "\u00e9"}, "f\u0301\n", 0},
		{"shift out of range", []string{"encrypt", "--shift", "26", "--text", "x"}, "", 2},
		{"unknown cipher", []string{"encrypt", "--cipher", "vigenere", "--text", "x"}, "", 2},
		{"unknown normalization", []string{"encrypt", "--normalize", "nfx", "--text", "x"}, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := captureStdout(t, func() int { return run(tt.args) })
			if code != tt.code {
				t.Fatalf("expected exit %d, got %d", tt.code, code)
			}
			if out != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out)
			}
		})
	}
}

func TestEncryptReadsStdin(t *testing.T) {
	isolate(t)
	withStdin(t, "a   b\tc\n")

	out, code := captureStdout(t, func() int { return run([]string{"encrypt", "--shift", "0"}) })
	if code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}
	if out != "a b c\n" {
		t.Errorf("expected %q, got %q", "a b c\n", out)
	}
}

func TestEncryptUsesConfiguredShift(t *testing.T) {
	isolate(t)
	t.Setenv("SHIFTCIPHER_CAESAR_SHIFT", "3")

	out, code := captureStdout(t, func() int { return run([]string{"encrypt", "--text", "abc"}) })
	if code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}
	if out != "def\n" {
		t.Errorf("expected %q, got %q", "def\n", out)
	}
}

func TestDecryptCommand(t *testing.T) {
	isolate(t)

	out, code := captureStdout(t, func() int {
		return run([]string{"decrypt", "--cipher", "caesar", "--shift", "20", "--text", "Uoouwf uo xuri"})
	})
	if code != 0 {
		t.Fatalf("decrypt exited %d", code)
	}
	if out != "Attack at dawn\n" {
		t.Errorf("expected %q, got %q", "Attack at dawn\n", out)
	}

	out, code = captureStdout(t, func() int {
		return run([]string{"decrypt", "--cipher", "unicode", "--shift", "6000", "--text", "\u17b8\u17d9"})
	})
	if code != 0 {
		t.Fatalf("decrypt exited %d", code)
	}
	if out != "Hi\n" {
		t.Errorf("expected %q, got %q", "Hi\n", out)
	}
}

func TestAuditLogFile(t *testing.T) {
	dir := isolate(t)
	auditPath := filepath.Join(dir, "audit.jsonl")
	t.Setenv("SHIFTCIPHER_AUDIT_LOG", auditPath)

	if _, code := captureStdout(t, func() int {
		return run([]string{"encrypt", "--shift", "20", "--text", "Attack at dawn", "--roundtrip"})
	}); code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}
	if _, code := captureStdout(t, func() int {
		return run([]string{"encrypt", "--shift", "99", "--text", "x"})
	}); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}

	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	log := string(data)
	for _, want := range []string{"job_created", "job_encrypted", "job_decrypted", "parameter_rejected"} {
		if !strings.Contains(log, want) {
			t.Errorf("audit log missing %s:\n%s", want, log)
		}
	}
	if strings.Contains(log, "Attack at dawn") || strings.Contains(log, "Uoouwf") {
		t.Errorf("audit log leaked text:\n%s", log)
	}
}

func TestOpsCommand(t *testing.T) {
	isolate(t)

	out, code := captureStdout(t, func() int { return run([]string{"ops"}) })
	if code != 0 {
		t.Fatalf("ops exited %d", code)
	}
	for _, name := range []string{"caesar_encrypt", "caesar_decrypt", "unicode_encrypt", "unicode_decrypt"} {
		if !strings.Contains(out, name) {
			t.Errorf("ops output missing %s:\n%s", name, out)
		}
	}

	out, code = captureStdout(t, func() int { return run([]string{"ops", "--type", "decrypt"}) })
	if code != 0 {
		t.Fatalf("ops exited %d", code)
	}
	if strings.Count(out, "\n") != 3 || !strings.Contains(out, "caesar_decrypt") || !strings.Contains(out, "unicode_decrypt") {
		t.Errorf("expected header plus two decrypt operations, got:\n%s", out)
	}
}

func TestRecipeLifecycle(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SHIFTCIPHER_RECIPES_DIR", filepath.Join(dir, "recipes"))

	out, code := captureStdout(t, func() int {
		return run([]string{"recipe", "save", "--name", "double", "--tags", "classic, wide",
			"--step", "caesar_encrypt:3", "--step", "unicode_encrypt:6000"})
	})
	if code != 0 {
		t.Fatalf("recipe save exited %d: %s", code, out)
	}

	encrypted, code := captureStdout(t, func() int {
		return run([]string{"recipe", "run", "--name", "double", "--text", "hello world"})
	})
	if code != 0 {
		t.Fatalf("recipe run exited %d", code)
	}

	decrypted, code := captureStdout(t, func() int {
		return run([]string{"recipe", "run", "--name", "double", "--reverse", "--text", strings.TrimSuffix(encrypted, "\n")})
	})
	if code != 0 {
		t.Fatalf("recipe run --reverse exited %d", code)
	}
	if decrypted != "hello world\n" {
		t.Errorf("expected %q, got %q", "hello world\n", decrypted)
	}

	out, code = captureStdout(t, func() int { return run([]string{"recipe", "list", "--search", "WIDE"}) })
	if code != 0 || !strings.Contains(out, "caesar_encrypt:3 -> unicode_encrypt:6000") {
		t.Fatalf("unexpected list output (exit %d):\n%s", code, out)
	}

	if _, code := captureStdout(t, func() int { return run([]string{"recipe", "delete", "--name", "double"}) }); code != 0 {
		t.Fatalf("recipe delete exited %d", code)
	}
	out, _ = captureStdout(t, func() int { return run([]string{"recipe", "list"}) })
	if !strings.Contains(out, "No recipes saved") {
		t.Errorf("expected empty list, got:\n%s", out)
	}
}

func TestRecipeSaveFromFile(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SHIFTCIPHER_RECIPES_DIR", filepath.Join(dir, "recipes"))

	recipeFile := filepath.Join(dir, "rot.yml")
	body := []byte(`name: rot20
description: Caesar shift of twenty
pipeline:
  reversible: true
  operations:
    - name: caesar_encrypt
      parameters:
        shift: 20
`)
	if err := os.WriteFile(recipeFile, body, 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}

	if _, code := captureStdout(t, func() int { return run([]string{"recipe", "save", "--file", recipeFile}) }); code != 0 {
		t.Fatalf("recipe save exited %d", code)
	}
	out, code := captureStdout(t, func() int {
		return run([]string{"recipe", "run", "--name", "rot20", "--text", "Attack at dawn"})
	})
	if code != 0 {
		t.Fatalf("recipe run exited %d", code)
	}
	if out != "Uoouwf uo xuri\n" {
		t.Errorf("expected %q, got %q", "Uoouwf uo xuri\n", out)
	}
}

func TestStepsFlag(t *testing.T) {
	var steps stepsFlag
	if err := steps.Set("caesar_encrypt:7"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := steps.Set("unicode_decrypt"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(steps) != 2 || steps[0].Parameters["shift"] != 7 || steps[1].Parameters != nil {
		t.Fatalf("unexpected steps %+v", steps)
	}
	if err := steps.Set("caesar_encrypt:1.5"); err == nil {
		t.Error("expected error for fractional shift")
	}
	if err := steps.Set(":3"); err == nil {
		t.Error("expected error for missing operation name")
	}
}

func TestConfigPrint(t *testing.T) {
	isolate(t)

	out, code := captureStdout(t, func() int { return run([]string{"config", "print"}) })
	if code != 0 {
		t.Fatalf("config print exited %d", code)
	}
	for _, want := range []string{"caesar_shift: 20", "unicode_shift: 6000", "normalize: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionAndUnknownCommand(t *testing.T) {
	out, code := captureStdout(t, func() int { return run([]string{"version"}) })
	if code != 0 || out != versionString()+"\n" {
		t.Fatalf("version: exit %d output %q", code, out)
	}
	if _, code := captureStdout(t, func() int { return run([]string{"frobnicate"}) }); code != 2 {
		t.Fatalf("expected exit 2 for unknown command, got %d", code)
	}
	if _, code := captureStdout(t, func() int { return run([]string{"recipe"}) }); code != 2 {
		t.Fatalf("expected exit 2 for missing recipe subcommand, got %d", code)
	}
}
