package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/RowanDark/shiftcipher/internal/cipher"
	"github.com/RowanDark/shiftcipher/internal/config"
	"github.com/RowanDark/shiftcipher/internal/logging"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// session bundles what every subcommand needs: resolved config and an audit
// logger scoped to the command.
type session struct {
	cfg   config.Config
	audit *logging.AuditLogger
}

func openSession(component string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	audit, err := openAudit(component, cfg.Audit)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &session{cfg: cfg, audit: audit}, nil
}

// openAudit maps the audit path to a sink: empty disables auditing, "-" is
// stderr, anything else is a JSON-lines file.
func openAudit(component string, cfg config.AuditConfig) (*logging.AuditLogger, error) {
	opts := []logging.Option{logging.WithoutStdout(), logging.WithPlaintext(cfg.Plaintext)}
	switch strings.TrimSpace(cfg.Path) {
	case "":
		return logging.Discard(), nil
	case "-":
		opts = append(opts, logging.WithWriter(os.Stderr))
	default:
		opts = append(opts, logging.WithFile(cfg.Path))
	}
	return logging.NewAuditLogger(component, opts...)
}

func (s *session) Close() {
	_ = s.audit.Close()
}

// emit records an event. Audit failures are reported but never fail a command.
func (s *session) emit(event logging.AuditEvent) {
	if err := s.audit.Emit(event); err != nil {
		fmt.Fprintf(os.Stderr, "audit: %v\n", err)
	}
}

func (s *session) jobEvent(job *cipher.Job, eventType logging.EventType, meta map[string]any) {
	s.emit(logging.AuditEvent{
		EventType: eventType,
		JobID:     job.ID(),
		Cipher:    job.Kind().String(),
		Decision:  logging.DecisionInfo,
		Metadata:  meta,
	})
}

// rejected records a cipher error. Other failures are not audited.
func (s *session) rejected(kind cipher.Kind, err error) {
	var eventType logging.EventType
	switch {
	case errors.Is(err, cipher.ErrInvalidParameter):
		eventType = logging.EventParameterRejected
	case errors.Is(err, cipher.ErrInvalidState):
		eventType = logging.EventStateRejected
	default:
		return
	}
	event := logging.AuditEvent{
		EventType: eventType,
		Decision:  logging.DecisionDeny,
		Reason:    err.Error(),
	}
	if kind != 0 {
		event.Cipher = kind.String()
	}
	s.emit(event)
}

// configuredShift returns the default shift for kind from config.
func (s *session) configuredShift(kind cipher.Kind) int {
	if kind == cipher.KindUnicodeSubstitution {
		return s.cfg.UnicodeShift
	}
	return s.cfg.CaesarShift
}

// readInput returns text when the flag was given, otherwise all of stdin with
// one trailing newline removed.
func readInput(text string, fromFlag bool) (string, error) {
	if fromFlag {
		return text, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// exitCode maps an error to the process exit status: 2 for rejected
// parameters, 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, cipher.ErrInvalidParameter) {
		return 2
	}
	return 1
}

// interruptContext is cancelled by Ctrl-C.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
