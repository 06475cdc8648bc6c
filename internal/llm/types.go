// Package llm adapts provider SDKs to a single text-in, text-out generator.
package llm

import (
	"context"

	"github.com/ranaklabs/ranak/internal/config"
)

// Role identifies the author of a turn.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// Turn is one message of the dialog sent to the provider.
type Turn struct {
	Role    Role
	Content string
}

// Request is a complete generation request.
type Request struct {
	// System is the assistant system message. Empty means none.
	System string
	// Turns is the dialog so far, oldest first. The last turn is from the user.
	Turns []Turn
	// Params are optional sampling parameters; nil fields are left to the provider.
	Params config.GenerationParams
}

// Generator produces the assistant's next reply for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
