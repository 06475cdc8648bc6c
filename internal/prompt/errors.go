package prompt

// ValidationError reports user input that cannot be sent, such as a blank
// question. No request is dispatched when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PreconditionError reports an action that requires state the session does
// not have yet, such as summarising before anything was asked.
type PreconditionError struct {
	Action Action
	Reason string
	Err    error
}

func (e *PreconditionError) Error() string {
	return e.Action.String() + ": " + e.Reason
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
