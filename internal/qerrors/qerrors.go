// Package qerrors collects the typed error taxonomy used across the
// lexer, parser and evaluator. Runtime errors carry the token.Position
// at which they occurred so the host can render a useful diagnostic.
package qerrors

import (
	"errors"
	"fmt"

	"github.com/quackscript/quack/internal/token"
)

// Sentinel causes. Wrap one of these with fmt.Errorf("%w: ...") when a
// caller needs to add detail, and test with errors.Is against the
// sentinel.
var (
	ErrUndefinedIdentifier     = errors.New("undefined identifier")
	ErrRedeclaration           = errors.New("identifier already declared in this scope")
	ErrAssignToConstant        = errors.New("cannot assign to a constant")
	ErrTypeMismatch            = errors.New("type mismatch")
	ErrNullToNonOptional       = errors.New("cannot store nothing in a non-optional declaration")
	ErrArgumentTypeMismatch    = errors.New("argument type mismatch")
	ErrArityMismatch           = errors.New("arity mismatch")
	ErrNotCallable             = errors.New("value is not callable")
	ErrCallOnNothing           = errors.New("cannot call nothing")
	ErrNonBooleanCondition     = errors.New("condition must be a boolean")
	ErrInvalidBinaryOperand    = errors.New("invalid binary operand")
	ErrInvalidBinaryExpression = errors.New("invalid binary expression")
	ErrUnknownAttribute        = errors.New("unknown attribute")
	ErrImportNotAtTop          = errors.New("import statements must appear before any other statement")
	ErrImportUnsupported       = errors.New("this host does not support loading files")
	ErrImportCycle             = errors.New("import cycle detected")
	ErrReturnOutsideFunction   = errors.New("return used outside of a function")
)

// RuntimeError is the base of the runtime error taxonomy. It carries the
// source position and wraps one of the sentinels above (or a dynamic
// error produced with fmt.Errorf("%w: ...", sentinel)).
type RuntimeError struct {
	Pos   token.Position
	Cause error
}

// New wraps cause as a RuntimeError positioned at pos.
func New(pos token.Position, cause error) *RuntimeError {
	return &RuntimeError{Pos: pos, Cause: cause}
}

// Error implements error.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Cause)
}

// Unwrap implements the errors.Unwrap contract.
func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

var _ error = (*RuntimeError)(nil)

// SyntaxError is raised by the lexer or parser and passes through the
// evaluator unreported; it is a programmer/input error, not a runtime
// fault in an otherwise-valid program.
type SyntaxError struct {
	Pos   token.Position
	Cause error
}

func NewSyntaxError(pos token.Position, cause error) *SyntaxError {
	return &SyntaxError{Pos: pos, Cause: cause}
}

// Error implements error.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %v", e.Pos, e.Cause)
}

// Unwrap implements the errors.Unwrap contract.
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

var _ error = (*SyntaxError)(nil)
