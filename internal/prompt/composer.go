// Package prompt builds the outbound request text for each user action.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultSubtopicsTemplate asks the assistant for themes of the last response.
const DefaultSubtopicsTemplate = "Please generate a list of subtopics or themes based on the following text.\n\n{{ .Last }}\n\nList them in bullet points."

// DefaultSummarizeTemplate asks the assistant to condense the last response.
const DefaultSummarizeTemplate = "Please summarise the following text concisely:\n\n{{ .Last }}"

// LastResponder exposes the most recent buffered fragment.
type LastResponder interface {
	Last() (string, error)
}

// TemplateData is the data passed to follow-up templates.
type TemplateData struct {
	// Last is the most recent buffered response.
	Last string
}

// Templates holds optional overrides for the follow-up prompts. Empty fields
// fall back to the defaults.
type Templates struct {
	Subtopics string
	Summarize string
}

// Composer turns an action and its context into exactly one outbound string.
type Composer struct {
	subtopics *template.Template
	summarize *template.Template
}

// NewComposer parses the follow-up templates once, so a malformed override is
// reported at startup rather than on first use.
func NewComposer(t Templates) (*Composer, error) {
	subtopicsSrc := t.Subtopics
	if subtopicsSrc == "" {
		subtopicsSrc = DefaultSubtopicsTemplate
	}
	summarizeSrc := t.Summarize
	if summarizeSrc == "" {
		summarizeSrc = DefaultSummarizeTemplate
	}

	subtopics, err := parseTemplate("subtopics", subtopicsSrc)
	if err != nil {
		return nil, err
	}
	summarize, err := parseTemplate("summarize", summarizeSrc)
	if err != nil {
		return nil, err
	}
	return &Composer{subtopics: subtopics, summarize: summarize}, nil
}

// ValidateTemplate reports whether src parses as a prompt template.
func ValidateTemplate(name, src string) error {
	_, err := parseTemplate(name, src)
	return err
}

func parseTemplate(name, src string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s prompt template: %w", name, err)
	}
	return tmpl, nil
}

// Compose builds the outbound prompt. input is only read for Ask; the
// follow-up actions read the last fragment from last.
func (c *Composer) Compose(action Action, input string, last LastResponder) (string, error) {
	switch action {
	case Ask:
		if strings.TrimSpace(input) == "" {
			return "", &ValidationError{Reason: "empty input"}
		}
		return input, nil
	case Subtopics:
		return c.followUp(action, c.subtopics, last)
	case Summarize:
		return c.followUp(action, c.summarize, last)
	default:
		return "", fmt.Errorf("unsupported action %s", action)
	}
}

func (c *Composer) followUp(action Action, tmpl *template.Template, last LastResponder) (string, error) {
	if last == nil {
		return "", &PreconditionError{Action: action, Reason: "no prior response"}
	}
	text, err := last.Last()
	if err != nil {
		return "", &PreconditionError{Action: action, Reason: "no prior response", Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TemplateData{Last: text}); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", action, err)
	}
	return buf.String(), nil
}
