package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ranaklabs/ranak/internal/config"
	"github.com/ranaklabs/ranak/internal/llm"
)

const (
	// TerminationMarker ends the exchange when it appears in an assistant reply.
	TerminationMarker = "TERMINATE"

	defaultMaxTries = 3
)

// Responder plays the user proxy. Given the dialog so far it returns the
// next user turn, or ok=false to end the exchange.
type Responder interface {
	Respond(ctx context.Context, turns []llm.Turn) (reply string, ok bool, err error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, turns []llm.Turn) (string, bool, error)

func (f ResponderFunc) Respond(ctx context.Context, turns []llm.Turn) (string, bool, error) {
	return f(ctx, turns)
}

// NoFollowUp is the default proxy: it never replies, so each prompt yields
// exactly one assistant reply.
var NoFollowUp Responder = ResponderFunc(func(context.Context, []llm.Turn) (string, bool, error) {
	return "", false, nil
})

// AssistantGateway runs a bounded exchange between an assistant backed by a
// generator and a user proxy.
type AssistantGateway struct {
	gen           llm.Generator
	provider      string
	systemMessage string
	maxAutoReply  int
	params        config.GenerationParams
	responder     Responder
	maxTries      uint
	newBackOff    func() backoff.BackOff
	isTermination func(string) bool
	logger        *slog.Logger
}

type Option func(*AssistantGateway)

func WithSystemMessage(msg string) Option {
	return func(g *AssistantGateway) { g.systemMessage = msg }
}

// WithMaxConsecutiveAutoReply bounds the number of assistant replies per
// prompt. Values below 1 are ignored.
func WithMaxConsecutiveAutoReply(n int) Option {
	return func(g *AssistantGateway) {
		if n > 0 {
			g.maxAutoReply = n
		}
	}
}

func WithGenerationParams(p config.GenerationParams) Option {
	return func(g *AssistantGateway) { g.params = p }
}

func WithResponder(r Responder) Option {
	return func(g *AssistantGateway) {
		if r != nil {
			g.responder = r
		}
	}
}

// WithRetry sets the number of attempts per provider call and the backoff
// policy between them. A nil policy keeps the exponential default.
func WithRetry(maxTries uint, policy func() backoff.BackOff) Option {
	return func(g *AssistantGateway) {
		if maxTries > 0 {
			g.maxTries = maxTries
		}
		if policy != nil {
			g.newBackOff = policy
		}
	}
}

func WithTermination(fn func(reply string) bool) Option {
	return func(g *AssistantGateway) {
		if fn != nil {
			g.isTermination = fn
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *AssistantGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithProvider labels log lines and errors with the provider name.
func WithProvider(name string) Option {
	return func(g *AssistantGateway) { g.provider = name }
}

func NewAssistantGateway(gen llm.Generator, opts ...Option) *AssistantGateway {
	g := &AssistantGateway{
		gen:           gen,
		systemMessage: config.DefaultSystemMessage,
		maxAutoReply:  config.DefaultMaxConsecutiveAutoReply,
		responder:     NoFollowUp,
		maxTries:      defaultMaxTries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			return b
		},
		isTermination: func(reply string) bool {
			return strings.Contains(reply, TerminationMarker)
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Send runs one exchange for prompt. Every assistant reply is delivered to h
// as one fragment before the next turn starts.
func (g *AssistantGateway) Send(ctx context.Context, prompt string, h FragmentHandler) error {
	turns := []llm.Turn{{Role: llm.User, Content: prompt}}

	for replies := 1; ; replies++ {
		reply, err := g.generate(ctx, turns)
		if err != nil {
			return &GatewayError{Provider: g.provider, Err: err}
		}
		h.HandleFragment(reply)
		turns = append(turns, llm.Turn{Role: llm.Assistant, Content: reply})

		if g.isTermination(reply) {
			g.logger.Debug("assistant requested termination", "replies", replies)
			return nil
		}
		if replies >= g.maxAutoReply {
			g.logger.Debug("max consecutive auto replies reached", "max", g.maxAutoReply)
			return nil
		}

		next, ok, err := g.responder.Respond(ctx, turns)
		if err != nil {
			return &GatewayError{Provider: g.provider, Err: err}
		}
		if !ok {
			return nil
		}
		turns = append(turns, llm.Turn{Role: llm.User, Content: next})
	}
}

func (g *AssistantGateway) generate(ctx context.Context, turns []llm.Turn) (string, error) {
	req := llm.Request{
		System: g.systemMessage,
		Turns:  turns,
		Params: g.params,
	}

	attempt := 0
	op := func() (string, error) {
		attempt++
		g.logger.Debug("calling provider", "provider", g.provider, "attempt", attempt, "turns", len(turns))
		reply, err := g.gen.Generate(ctx, req)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return "", backoff.Permanent(err)
			}
			g.logger.Warn("provider call failed", "provider", g.provider, "attempt", attempt, "err", err)
			return "", err
		}
		return reply, nil
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(g.newBackOff()),
		backoff.WithMaxTries(g.maxTries),
	)
}
