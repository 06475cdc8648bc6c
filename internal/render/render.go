// Package render turns assistant markdown into terminal output.
package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultWordWrap is the wrap width used outside the interactive view.
const DefaultWordWrap = 120

// Renderer is an interface for rendering markdown content
type Renderer interface {
	Render(in string) (string, error)
}

// PlainTextRenderer returns content as-is. Used as a fallback when glamour
// rendering fails.
type PlainTextRenderer struct{}

func (p *PlainTextRenderer) Render(in string) (string, error) {
	return in, nil
}

// IsTTY returns true if stdout is connected to a terminal
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getBaseStyle returns the appropriate glamour style based on terminal background.
func getBaseStyle() ansi.StyleConfig {
	style := styles.LightStyleConfig
	if termenv.HasDarkBackground() {
		style = styles.DarkStyleConfig
	}
	style.Document.BlockPrefix = ""
	return style
}

// getASCIIStyle returns the ASCII style with no document margin.
func getASCIIStyle() ansi.StyleConfig {
	style := styles.ASCIIStyleConfig
	style.Document.BlockPrefix = ""
	style.Document.Margin = nil
	return style
}

func newGlamourRenderer(style ansi.StyleConfig, width int) Renderer {
	if width <= 0 {
		width = DefaultWordWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &PlainTextRenderer{}
	}
	return r
}

// NewRenderer creates a renderer appropriate for stdout: styled for a
// terminal, ASCII otherwise.
func NewRenderer() Renderer {
	return newRendererForTTY(IsTTY(), DefaultWordWrap)
}

// NewWidth creates a styled renderer wrapping at width columns, for use
// inside the interactive view.
func NewWidth(width int) Renderer {
	return newRendererForTTY(true, width)
}

func newRendererForTTY(tty bool, width int) Renderer {
	if !tty {
		return newGlamourRenderer(getASCIIStyle(), width)
	}
	return newGlamourRenderer(getBaseStyle(), width)
}

// Fragments renders each fragment and joins them with a rule. A fragment
// that fails to render is shown verbatim.
func Fragments(r Renderer, fragments []string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		out, err := r.Render(f)
		if err != nil {
			out = f
		}
		parts = append(parts, strings.TrimRight(out, "\n"))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
