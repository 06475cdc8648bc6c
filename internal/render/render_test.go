package render

import (
	"errors"
	"strings"
	"testing"
)

func TestPlainTextRendererRender(t *testing.T) {
	renderer := &PlainTextRenderer{}
	input := "## Subtopics\n- Thermodynamics\n- Information theory"

	got, err := renderer.Render(input)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != input {
		t.Fatalf("Render() output mismatch\nwant: %q\ngot:  %q", input, got)
	}
}

func TestNewRendererForTTYFalseRendersASCII(t *testing.T) {
	renderer := newRendererForTTY(false, 80)
	got, err := renderer.Render("**Entropy** is a measure of disorder.")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "Entropy") {
		t.Fatalf("rendered output lost content: %q", got)
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) { return "", errors.New("boom") }

func TestFragments(t *testing.T) {
	got := Fragments(&PlainTextRenderer{}, []string{"one\n", "two"})
	want := "one\n\n---\n\ntwo"
	if got != want {
		t.Fatalf("Fragments() = %q, want %q", got, want)
	}

	got = Fragments(failingRenderer{}, []string{"raw"})
	if got != "raw" {
		t.Fatalf("Fragments() fallback = %q, want %q", got, "raw")
	}

	if got := Fragments(&PlainTextRenderer{}, nil); got != "" {
		t.Fatalf("Fragments(nil) = %q, want empty", got)
	}
}
