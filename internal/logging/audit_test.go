package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAuditLoggerEmit(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	event := AuditEvent{EventType: EventJobCreated, JobID: "job-1", Cipher: "caesar", Decision: DecisionAllow}
	if err := logger.Emit(event); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	var decoded AuditEvent
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	if decoded.Component != "test" {
		t.Fatalf("expected component 'test', got %q", decoded.Component)
	}
	if decoded.EventType != EventJobCreated {
		t.Fatalf("expected event type %q, got %q", EventJobCreated, decoded.EventType)
	}
	if decoded.JobID != "job-1" || decoded.Cipher != "caesar" {
		t.Fatalf("unexpected job fields %q %q", decoded.JobID, decoded.Cipher)
	}
	if decoded.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestAuditLoggerMasksText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}

	meta := map[string]any{"text": "Attack at dawn", "shift": 20}
	if err := logger.Emit(AuditEvent{EventType: EventJobEncrypted, Metadata: meta}); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	if strings.Contains(buf.String(), "Attack at dawn") {
		t.Fatalf("plaintext leaked into audit log: %s", buf.String())
	}
	if !strings.Contains(buf.String(), maskedText) {
		t.Fatalf("expected masked marker in %s", buf.String())
	}
	if meta["text"] != "Attack at dawn" {
		t.Fatal("caller metadata must not be modified")
	}
}

func TestAuditLoggerPlaintext(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := NewAuditLogger("test", WithoutStdout(), WithWriter(buf), WithPlaintext(true))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventJobEncrypted, Metadata: map[string]any{"text": "hi"}}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(buf.String(), `"text":"hi"`) {
		t.Fatalf("expected plaintext in %s", buf.String())
	}
}

func TestAuditLoggerWithComponentSharesSinks(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := MustNewAuditLogger("root", WithoutStdout(), WithWriter(buf))
	child := parent.WithComponent("child")

	if err := child.Emit(AuditEvent{EventType: EventPipelineRun}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(buf.String(), `"component":"child"`) {
		t.Fatalf("expected child component, got %s", buf.String())
	}
	if err := child.Close(); err != nil {
		t.Fatalf("child Close: %v", err)
	}
	if err := parent.Emit(AuditEvent{EventType: EventPipelineRun}); err != nil {
		t.Fatalf("parent Emit after child Close: %v", err)
	}
}

func TestAuditLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := NewAuditLogger("file", WithoutStdout(), WithFile(path))
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	if err := logger.Emit(AuditEvent{EventType: EventRecipeSaved}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit file: %v", err)
	}
	if !strings.Contains(string(data), string(EventRecipeSaved)) {
		t.Fatalf("expected event in file, got %s", data)
	}
}

func TestAuditLoggerOptionErrors(t *testing.T) {
	if _, err := NewAuditLogger("x", WithWriter(nil)); err == nil {
		t.Error("expected error for nil writer")
	}
	if _, err := NewAuditLogger("x", WithFile("  ")); err == nil {
		t.Error("expected error for empty file path")
	}
	if _, err := NewAuditLogger("x", WithoutStdout()); err == nil {
		t.Error("expected error when no writers remain")
	}
	var nilLogger *AuditLogger
	if err := nilLogger.Emit(AuditEvent{}); err == nil {
		t.Error("expected error emitting on nil logger")
	}
}
