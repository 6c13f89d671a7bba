package ir

import (
	"fmt"

	"github.com/kr/pretty"
)

// TypeError reports a node whose type cannot be derived. No node is created
// for the rejected payload.
type TypeError struct {
	Kind Kind
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func typeErrorf(k Kind, format string, args ...any) *TypeError {
	return &TypeError{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// InvariantError is the panic value raised on misuse of the arena: unknown
// kinds, payload mismatches, cross-arena children, double body attachment and
// use after Destroy. It signals a programming error, not bad input.
type InvariantError struct {
	Op      string
	Msg     string
	Payload Payload
}

func (e *InvariantError) Error() string {
	if e.Payload == nil {
		return fmt.Sprintf("ir: %s: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("ir: %s: %s\npayload: %# v", e.Op, e.Msg, pretty.Formatter(e.Payload))
}

func invariantf(op string, p Payload, format string, args ...any) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...), Payload: p})
}
