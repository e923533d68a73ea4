package core

import "fmt"

// ErrorKind classifies the fatal assembly errors. Every kind aborts the run
// at the card that raised it; there is no partial-success mode.
type ErrorKind int

const (
	UndefinedSymbol ErrorKind = iota
	InvalidIndexRegister
	InvalidRegister
	ArityError
	UnknownModifier
	BadRegisterRange
	SyntaxError
)

// Error is a fatal assembly error with a machine-checkable kind.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Errf builds an Error of the given kind. It wraps Sprintf, allowing
// arbitrary arguments.
func Errf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// atCard tags an error with the card that raised it, preserving the kind.
func atCard(n int, c *Card, err error) error {
	if e, ok := err.(*Error); ok {
		return &Error{Kind: e.Kind, Msg: fmt.Sprintf("card %d (%s): %s", n, c.Command, e.Msg)}
	}
	return fmt.Errorf("card %d (%s): %v", n, c.Command, err)
}
