package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ranaklabs/ranak/internal/export"
	"github.com/ranaklabs/ranak/internal/prompt"
	"github.com/ranaklabs/ranak/internal/render"
	"github.com/ranaklabs/ranak/internal/session"
)

// AskOptions contains parameters for a scripted session
type AskOptions struct {
	Session  *session.Session
	Question string
	// FollowUps run in order after the question is answered.
	FollowUps []prompt.Action
	// Export writes every format to OutputDir after the last action.
	Export    bool
	OutputDir string
	// Renderer formats the buffer. Defaults to render.NewRenderer().
	Renderer render.Renderer
	Stdout   io.Writer
	Stderr   io.Writer
}

// Ask runs the question and any follow-ups, printing the buffer after each
// action. It stops at the first failure.
func Ask(ctx context.Context, opts AskOptions) error {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.NewRenderer()
	}

	steps := append([]prompt.Action{prompt.Ask}, opts.FollowUps...)
	for i, action := range steps {
		input := ""
		if action == prompt.Ask {
			input = opts.Question
		}
		if err := opts.Session.Trigger(ctx, action, input); err != nil {
			return fmt.Errorf("%s: %w", action.Label(), err)
		}
		if len(steps) > 1 {
			if i > 0 {
				fmt.Fprintln(stdout)
			}
			fmt.Fprintf(stdout, "== %s ==\n\n", action.Label())
		}
		fmt.Fprintln(stdout, render.Fragments(renderer, opts.Session.Fragments()))
	}

	if !opts.Export {
		return nil
	}
	return saveAll(opts.Session, opts.OutputDir, stderr)
}

func saveAll(sess *session.Session, dir string, w io.Writer) error {
	results, err := sess.ExportAll()
	if err != nil {
		return err
	}
	var errs []error
	for _, f := range export.Formats {
		r := results[f]
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		path, err := r.Artifact.Save(dir)
		if err != nil {
			errs = append(errs, &export.ExportError{Format: f, Err: err})
			continue
		}
		fmt.Fprintf(w, "Saved %s\n", path)
	}
	return errors.Join(errs...)
}
