package commands

import (
	"context"

	"github.com/ranaklabs/ranak/internal/session"
	"github.com/ranaklabs/ranak/internal/tui"
)

// InteractiveOptions contains parameters for the interactive view
type InteractiveOptions struct {
	Session   *session.Session
	OutputDir string
	ModelName string
}

// Interactive runs the terminal view until the user quits
func Interactive(ctx context.Context, opts InteractiveOptions) error {
	return tui.Run(ctx, tui.Options{
		Session:   opts.Session,
		OutputDir: opts.OutputDir,
		ModelName: opts.ModelName,
	})
}
