package llm

import (
	"context"
	"fmt"
)

// PanicCatchingGenerator wraps a Generator and converts panics raised by the
// provider SDK into errors, so a misbehaving client fails one request instead
// of the whole session
type PanicCatchingGenerator struct {
	G Generator
}

// Generate implements Generator by catching panics and converting them to errors
func (p *PanicCatchingGenerator) Generate(ctx context.Context, req Request) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()

	return p.G.Generate(ctx, req)
}

// NewPanicCatchingGenerator wraps a generator with panic recovery
func NewPanicCatchingGenerator(g Generator) *PanicCatchingGenerator {
	return &PanicCatchingGenerator{G: g}
}
