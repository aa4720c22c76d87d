package object

import (
	"fmt"

	"golox/token"
)

// RuntimeError is thrown as a panic when evaluation fails. It unwinds to the
// top of the interpret call, where it is reported and execution stops.
type RuntimeError struct {
	Token   token.Token
	Message string
}

// For the 'error' interface.
func (e RuntimeError) Error() string { return e.Message }

func NewRuntimeError(tok token.Token, format string, args ...any) RuntimeError {
	return RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
