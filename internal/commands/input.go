package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// maxQuestionBytes bounds how much piped input is read.
const maxQuestionBytes = 1 << 20

// ReadQuestionOptions contains parameters for reading the user's question
type ReadQuestionOptions struct {
	// Args are command line arguments, joined with spaces
	Args []string
	// Stdin is read when it is a pipe or redirect
	Stdin io.Reader
	// SkipStdin disables reading from stdin even if data is available
	SkipStdin bool
}

// ReadQuestion combines piped stdin and positional arguments into a single
// question. Piped input must be text.
func ReadQuestion(ctx context.Context, opts ReadQuestionOptions) (string, error) {
	var parts []string

	if opts.Stdin != nil && !opts.SkipStdin && hasPipedData(opts.Stdin) {
		data, err := io.ReadAll(io.LimitReader(opts.Stdin, maxQuestionBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		if len(data) > maxQuestionBytes {
			return "", fmt.Errorf("stdin exceeds maximum size of %d bytes", maxQuestionBytes)
		}
		if len(data) > 0 {
			if mt := mimetype.Detect(data); !isText(mt) {
				return "", fmt.Errorf("unsupported stdin content type %s: only text can be sent to the assistant", mt.String())
			}
			parts = append(parts, strings.TrimRight(string(data), "\n"))
		}
	}

	if len(opts.Args) > 0 {
		parts = append(parts, strings.Join(opts.Args, " "))
	}
	return strings.Join(parts, "\n\n"), nil
}

func hasPipedData(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "text/") {
			return true
		}
	}
	return false
}
