package lang

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/verdict/pkg"
	"github.com/ardnew/verdict/types"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax = pkg.NewError("syntax error")
	ErrType   = pkg.NewError("type error")
)

// ParseError reports a failure to parse rule text. It carries the offending
// source position, a description of what went wrong, and, when the failure
// occurred at a specific token, the token itself.
type ParseError struct {
	Message  string
	Token    Token
	Pos      Pos
	HasToken bool
}

func newSyntaxError(pos Pos, message string) *ParseError {
	return &ParseError{Message: message, Pos: pos}
}

func newTokenError(tok Token, expected string) *ParseError {
	return &ParseError{
		Message:  fmt.Sprintf("unexpected %s (expected %s)", tok, expected),
		Token:    tok,
		Pos:      tok.Pos,
		HasToken: true,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Message)
}

// Unwrap lets errors.Is match ErrSyntax.
func (e *ParseError) Unwrap() error { return ErrSyntax }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Message),
		slog.Int("line", e.Pos.Line),
		slog.Int("col", e.Pos.Col),
	}

	if e.HasToken {
		attrs = append(attrs, slog.String("token", e.Token.String()))
	}

	return slog.GroupValue(attrs...)
}

// TypeError reports a statically detected type incompatibility. It is raised
// by Infer before any evaluation occurs, and by the evaluator when operand
// kinds that were statically Undefined turn out to be incompatible at
// runtime.
type TypeError struct {
	Expected string
	Actual   string
	Pos      Pos
}

func newTypeError(pos Pos, expected, actual string) *TypeError {
	return &TypeError{Pos: pos, Expected: expected, Actual: actual}
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf(
		"type error at %s: expected %s, got %s",
		e.Pos, e.Expected, e.Actual,
	)
}

// Unwrap lets errors.Is match ErrType.
func (e *TypeError) Unwrap() error { return ErrType }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *TypeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "type error"),
		slog.Int("line", e.Pos.Line),
		slog.Int("col", e.Pos.Col),
		slog.String("expected", e.Expected),
		slog.String("actual", e.Actual),
	)
}

// NewRuntimeTypeError builds the TypeError the evaluator raises when runtime
// operand kinds are incompatible at a node whose static types were
// Undefined.
func NewRuntimeTypeError(pos Pos, expected string, actual types.Kind) *TypeError {
	return newTypeError(pos, expected, actual.String())
}
