package prompt

import (
	"fmt"
	"strings"
)

// Action identifies which of the three outbound requests the user triggered.
type Action int

const (
	// Ask forwards the user's text verbatim.
	Ask Action = iota
	// Subtopics asks for bullet-point themes of the last response.
	Subtopics
	// Summarize asks for a concise summary of the last response.
	Summarize
)

// Actions lists every action in the order they are presented to the user.
var Actions = []Action{Ask, Subtopics, Summarize}

func (a Action) String() string {
	switch a {
	case Ask:
		return "ask"
	case Subtopics:
		return "subtopics"
	case Summarize:
		return "summarize"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Label is the button caption shown in the view.
func (a Action) Label() string {
	switch a {
	case Ask:
		return "Ask"
	case Subtopics:
		return "Generate Subtopics"
	case Summarize:
		return "Summarise"
	default:
		return a.String()
	}
}

// NeedsPriorResponse reports whether the action reuses the last buffered
// fragment and therefore requires a non-empty buffer.
func (a Action) NeedsPriorResponse() bool {
	return a == Subtopics || a == Summarize
}

// ParseAction accepts the canonical names plus the British spelling used on
// the Summarise button.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ask":
		return Ask, nil
	case "subtopics", "generate-subtopics", "generate_subtopics":
		return Subtopics, nil
	case "summarize", "summarise":
		return Summarize, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}
