package workflow

import "fmt"

// ValidationError reports malformed or incomplete input. Mapped to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UnauthorizedError reports a failed role or ownership check. The message
// never reveals whether the resource exists when ownership was the failure.
// Mapped to 403.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string { return e.Reason }

// NotFoundError reports an absent order or shop. Mapped to 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// InvalidTransitionError reports a lifecycle move that is not defined from
// the current state, naming that state. Mapped to 400.
type InvalidTransitionError struct {
	Current   string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s: current status is %s", e.Attempted, e.Current)
}
