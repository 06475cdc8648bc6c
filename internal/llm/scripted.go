package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned by a ScriptedGenerator with no replies left.
var ErrScriptExhausted = errors.New("scripted generator has no more replies")

// ScriptedGenerator replays canned replies in order and records every
// request it receives. It is used in tests and for offline demos.
type ScriptedGenerator struct {
	mu       sync.Mutex
	replies  []ScriptedReply
	requests []Request
}

// ScriptedReply is one canned outcome. A non-nil Err is returned instead of
// Text.
type ScriptedReply struct {
	Text string
	Err  error
}

func NewScriptedGenerator(replies ...ScriptedReply) *ScriptedGenerator {
	return &ScriptedGenerator{replies: replies}
}

// Replies is a shorthand for a script of successful replies.
func Replies(texts ...string) []ScriptedReply {
	out := make([]ScriptedReply, len(texts))
	for i, t := range texts {
		out[i] = ScriptedReply{Text: t}
	}
	return out
}

func (s *ScriptedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req.Turns = append([]Turn(nil), req.Turns...)
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return "", ErrScriptExhausted
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	if next.Err != nil {
		return "", next.Err
	}
	return next.Text, nil
}

// Requests returns the requests received so far.
func (s *ScriptedGenerator) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}
