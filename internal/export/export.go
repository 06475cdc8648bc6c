// Package export renders buffered assistant responses as Word, CSV and PDF
// documents. Rendering is pure: the same fragments always produce the same
// documents and nothing is written to disk unless Artifact.Save is called.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stoewer/go-strcase"
)

// DefaultBaseName is the file name stem of every artifact.
const DefaultBaseName = "assistant_response"

// ExportError reports a failure to produce one format.
type ExportError struct {
	Format Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Artifact is a rendered document ready for download.
type Artifact struct {
	Format   Format
	FileName string
	MIMEType string
	Data     []byte
	// Pages is set for paginated formats.
	Pages int
}

// Save writes the artifact into dir and returns the written path.
func (a Artifact) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", a.FileName, err)
	}
	return path, nil
}

type Options struct {
	// BaseName is normalised to snake case. Empty means DefaultBaseName.
	BaseName string
	// PlainText renders markdown fragments to plain text for Word and PDF.
	PlainText bool
}

// Exporter renders fragments. The zero value uses the default options.
type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// FileName returns the artifact name for f.
func (e *Exporter) FileName(f Format) string {
	base := DefaultBaseName
	if e != nil && strings.TrimSpace(e.opts.BaseName) != "" {
		base = strcase.SnakeCase(strings.TrimSpace(e.opts.BaseName))
	}
	return base + f.Extension()
}

// Export renders fragments in the given format. An empty fragment list is
// valid and yields a document with no content rows.
func (e *Exporter) Export(f Format, fragments []string) (Artifact, error) {
	body := fragments
	if e != nil && e.opts.PlainText && f != CSV {
		body = make([]string, len(fragments))
		for i, frag := range fragments {
			body[i] = PlainText(frag)
		}
	}

	var (
		buf   bytes.Buffer
		pages int
		err   error
	)
	switch f {
	case Word:
		err = writeDocx(&buf, body)
	case CSV:
		err = writeCSV(&buf, body)
	case PDF:
		pages, err = writePDF(&buf, body)
	default:
		err = fmt.Errorf("unsupported format")
	}
	if err != nil {
		return Artifact{}, &ExportError{Format: f, Err: err}
	}

	return Artifact{
		Format:   f,
		FileName: e.FileName(f),
		MIMEType: f.MIMEType(),
		Data:     buf.Bytes(),
		Pages:    pages,
	}, nil
}

// Result is the outcome of one format in All.
type Result struct {
	Artifact Artifact
	Err      error
}

// All renders every format independently; a failure in one format does not
// affect the others.
func (e *Exporter) All(fragments []string) map[Format]Result {
	out := make(map[Format]Result, len(Formats))
	for _, f := range Formats {
		a, err := e.Export(f, fragments)
		out[f] = Result{Artifact: a, Err: err}
	}
	return out
}
