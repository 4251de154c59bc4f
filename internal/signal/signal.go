// Package signal implements the evaluator's non-local control-flow
// escape. A Return is deliberately not part of the qerrors taxonomy:
// it satisfies the error interface only so it can unwind Go's call
// stack via a normal error return, but callers must check for it with
// AsReturn before ever treating an error as a RuntimeError, so a
// return can never leak out of the function call that catches it.
package signal

import (
	"errors"
	"fmt"

	"github.com/quackscript/quack/internal/value"
)

// Return unwinds evaluation frames until the nearest function-call
// frame catches it.
type Return struct {
	Value value.Value
}

// NewReturn wraps v as a Return signal.
func NewReturn(v value.Value) *Return {
	return &Return{Value: v}
}

// Error implements error so Return can travel through Go's ordinary
// error-return plumbing. It is never meant to be shown to a user.
func (r *Return) Error() string {
	return fmt.Sprintf("return signal: %v", r.Value)
}

// AsReturn reports whether err is (or wraps) a Return signal, and
// returns it.
func AsReturn(err error) (*Return, bool) {
	var r *Return
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

var _ error = (*Return)(nil)
