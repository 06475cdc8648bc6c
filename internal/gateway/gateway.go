// Package gateway sends a composed prompt to the assistant agent and hands
// each reply fragment back to the caller in order.
package gateway

import (
	"context"
	"fmt"
)

// FragmentHandler receives reply fragments in the order the assistant
// produced them.
type FragmentHandler interface {
	HandleFragment(fragment string)
}

// HandlerFunc adapts a function to FragmentHandler.
type HandlerFunc func(fragment string)

func (f HandlerFunc) HandleFragment(fragment string) { f(fragment) }

// Gateway is the boundary to the assistant agent. Send blocks until the
// exchange for prompt has finished.
type Gateway interface {
	Send(ctx context.Context, prompt string, h FragmentHandler) error
}

// GatewayError reports a failed exchange. Fragments delivered before the
// failure are not retracted.
type GatewayError struct {
	Provider string
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("assistant request failed: %v", e.Err)
	}
	return fmt.Sprintf("assistant request to %s failed: %v", e.Provider, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }
