// Package session ties the buffer, prompt composer, gateway and exporter of
// one user session together and drives its state machine.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/ranaklabs/ranak/internal/buffer"
	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/gateway"
	"github.com/ranaklabs/ranak/internal/prompt"
	"github.com/ranaklabs/ranak/internal/storage"
)

var (
	// ErrNothingToExport is returned by the download actions while the
	// buffer is empty.
	ErrNothingToExport = errors.New("nothing to export yet, ask a question first")
	// ErrBusy is returned when a trigger arrives while a request is in flight.
	ErrBusy = errors.New("a request is already in progress")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("session is closed")
)

// IsWarning reports whether err is a user-facing warning rather than a
// failure: the action was refused and the session state is unchanged.
func IsWarning(err error) bool {
	var validation *prompt.ValidationError
	var precondition *prompt.PreconditionError
	return errors.As(err, &validation) ||
		errors.As(err, &precondition) ||
		errors.Is(err, ErrNothingToExport) ||
		errors.Is(err, ErrBusy)
}

type Options struct {
	// Gateway is required.
	Gateway gateway.Gateway
	// Composer defaults to the built-in prompt templates.
	Composer *prompt.Composer
	// Exporter defaults to an exporter with default options.
	Exporter *export.Exporter
	// Recorder, when set, receives every completed exchange.
	Recorder storage.ExchangeSaver
	// RestoreOnFailure puts back the previous fragments when the gateway
	// fails, instead of leaving the buffer empty.
	RestoreOnFailure bool
	Logger           *slog.Logger
	// ID overrides the generated session ID.
	ID string
}

// Session is the per-user context object. It is not safe for concurrent
// use; callers run one interaction at a time.
type Session struct {
	id       string
	buf      *buffer.Buffer
	composer *prompt.Composer
	gateway  gateway.Gateway
	exporter *export.Exporter
	recorder storage.ExchangeSaver
	restore  bool
	logger   *slog.Logger
	state    State
	closed   bool
}

func New(opts Options) (*Session, error) {
	if opts.Gateway == nil {
		return nil, errors.New("session requires a gateway")
	}

	composer := opts.Composer
	if composer == nil {
		var err error
		composer, err = prompt.NewComposer(prompt.Templates{})
		if err != nil {
			return nil, err
		}
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = export.New(export.Options{})
	}
	id := opts.ID
	if id == "" {
		id = gonanoid.Must(10)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Session{
		id:       id,
		buf:      buffer.New(),
		composer: composer,
		gateway:  opts.Gateway,
		exporter: exporter,
		recorder: opts.Recorder,
		restore:  opts.RestoreOnFailure,
		logger:   logger.With("session_id", id),
		state:    Idle,
	}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

// Fragments returns a copy of the buffered fragments in order.
func (s *Session) Fragments() []string { return s.buf.All() }

// Trigger runs one request cycle for action. input is only used by Ask.
// Warnings (see IsWarning) leave the session untouched; a gateway failure
// returns a *gateway.GatewayError and moves the session back to the state
// implied by its buffer.
func (s *Session) Trigger(ctx context.Context, action prompt.Action, input string) error {
	if s.closed {
		return ErrClosed
	}
	if s.state == AwaitingResponse {
		return ErrBusy
	}

	outbound, err := s.composer.Compose(action, input, s.buf)
	if err != nil {
		s.logger.Debug("action refused", "action", action, "reason", err)
		return err
	}

	previous := s.buf.All()
	s.buf.Clear()
	s.state = AwaitingResponse
	s.logger.Info("dispatching request", "action", action, "prompt_len", len(outbound))

	err = s.gateway.Send(ctx, outbound, gateway.HandlerFunc(s.buf.Append))
	if err != nil {
		if s.restore {
			s.buf.Replace(previous)
		}
		s.state = s.settledState()
		s.logger.Error("request failed", "action", action, "err", err, "restored", s.restore)

		var gwErr *gateway.GatewayError
		if !errors.As(err, &gwErr) {
			err = &gateway.GatewayError{Err: err}
		}
		return err
	}

	s.state = ResponseReady
	s.logger.Info("response received", "action", action, "fragments", s.buf.Len())
	s.record(ctx, action, outbound)
	return nil
}

func (s *Session) settledState() State {
	if s.buf.Empty() {
		return Idle
	}
	return ResponseReady
}

func (s *Session) record(ctx context.Context, action prompt.Action, outbound string) {
	if s.recorder == nil {
		return
	}
	id, err := s.recorder.SaveExchange(ctx, storage.Exchange{
		SessionID: s.id,
		Action:    action.String(),
		Prompt:    outbound,
		Fragments: s.buf.All(),
	})
	if err != nil {
		s.logger.Warn("failed to record exchange", "err", err)
		return
	}
	s.logger.Debug("recorded exchange", "exchange_id", id)
}

// Export renders the buffer in format f.
func (s *Session) Export(f export.Format) (export.Artifact, error) {
	if s.closed {
		return export.Artifact{}, ErrClosed
	}
	if s.buf.Empty() {
		return export.Artifact{}, ErrNothingToExport
	}
	return s.exporter.Export(f, s.buf.All())
}

// ExportAll renders every format. Per-format failures are reported in the
// results.
func (s *Session) ExportAll() (map[export.Format]export.Result, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.buf.Empty() {
		return nil, ErrNothingToExport
	}
	return s.exporter.All(s.buf.All()), nil
}

// Reset discards the buffer and returns the session to Idle.
func (s *Session) Reset() {
	s.buf.Clear()
	s.state = Idle
}

// Close destroys the session's buffer. Further calls fail with ErrClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.buf.Clear()
	s.closed = true
	s.logger.Debug("session closed")
	return nil
}
