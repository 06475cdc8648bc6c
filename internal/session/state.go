package session

import "fmt"

// State is the position of a session in its request cycle.
type State int

const (
	// Idle means nothing has been answered yet.
	Idle State = iota
	// AwaitingResponse means a prompt has been dispatched and the gateway
	// has not returned.
	AwaitingResponse
	// ResponseReady means the buffer holds the fragments of the last
	// completed exchange.
	ResponseReady
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingResponse:
		return "awaiting response"
	case ResponseReady:
		return "response ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
