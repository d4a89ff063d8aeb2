package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/verdict/lang"
	"github.com/ardnew/verdict/pkg"
)

// Predefined errors (sentinel values).
var (
	// ErrNotFound is the error Resolver implementations return when a name
	// has no value. The evaluator converts it into a resolution error with
	// ranked suggestions, or applies the context's default-value policy.
	ErrNotFound = pkg.NewError("not found")

	ErrSymbolResolution    = pkg.NewError("symbol resolution error")
	ErrAttributeResolution = pkg.NewError("attribute resolution error")
	ErrFunctionCall        = pkg.NewError("function call error")
	ErrArithmetic          = pkg.NewError("arithmetic error")
)

// SymbolResolutionError reports a symbol the context could not supply and no
// default-value policy covered. Suggestions holds ranked near-matches from
// the names the context enumerates, when it supports enumeration.
type SymbolResolutionError struct {
	Name        string
	Suggestions []string
	Pos         lang.Pos
}

// Error implements the error interface.
func (e *SymbolResolutionError) Error() string {
	return resolutionMessage("symbol", e.Name, e.Suggestions, e.Pos)
}

// Unwrap lets errors.Is match ErrSymbolResolution.
func (e *SymbolResolutionError) Unwrap() error { return ErrSymbolResolution }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *SymbolResolutionError) LogValue() slog.Value {
	return resolutionLogValue("symbol", e.Name, e.Suggestions, e.Pos)
}

// AttributeResolutionError reports an attribute that is neither a builtin of
// the base value's kind nor resolvable by the context.
type AttributeResolutionError struct {
	Name        string
	Suggestions []string
	Pos         lang.Pos
}

// Error implements the error interface.
func (e *AttributeResolutionError) Error() string {
	return resolutionMessage("attribute", e.Name, e.Suggestions, e.Pos)
}

// Unwrap lets errors.Is match ErrAttributeResolution.
func (e *AttributeResolutionError) Unwrap() error { return ErrAttributeResolution }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *AttributeResolutionError) LogValue() slog.Value {
	return resolutionLogValue("attribute", e.Name, e.Suggestions, e.Pos)
}

func resolutionMessage(what, name string, suggestions []string, pos lang.Pos) string {
	msg := fmt.Sprintf("%s %q not found at %s", what, name, pos)

	if len(suggestions) > 0 {
		msg += " (did you mean " + strings.Join(suggestions, ", ") + "?)"
	}

	return msg
}

func resolutionLogValue(what, name string, suggestions []string, pos lang.Pos) slog.Value {
	return slog.GroupValue(
		slog.String("error", what+" not found"),
		slog.String("name", name),
		slog.Any("suggestions", suggestions),
		slog.Int("line", pos.Line),
		slog.Int("col", pos.Col),
	)
}

// FunctionCallError reports a builtin attribute or function failure: wrong
// receiver kind, conversion failure, or lookup out of range.
type FunctionCallError struct {
	Name   string
	Reason string
	Pos    lang.Pos
}

func newFunctionCallError(pos lang.Pos, name, reason string) *FunctionCallError {
	return &FunctionCallError{Name: name, Reason: reason, Pos: pos}
}

// Error implements the error interface.
func (e *FunctionCallError) Error() string {
	return fmt.Sprintf("function %q failed at %s: %s", e.Name, e.Pos, e.Reason)
}

// Unwrap lets errors.Is match ErrFunctionCall.
func (e *FunctionCallError) Unwrap() error { return ErrFunctionCall }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *FunctionCallError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "function call failed"),
		slog.String("name", e.Name),
		slog.String("reason", e.Reason),
		slog.Int("line", e.Pos.Line),
		slog.Int("col", e.Pos.Col),
	)
}

// ArithmeticError reports a numeric failure, such as division by zero,
// raised mid-evaluation.
type ArithmeticError struct {
	Pos   lang.Pos
	cause error
}

func newArithmeticError(pos lang.Pos, cause error) *ArithmeticError {
	return &ArithmeticError{Pos: pos, cause: cause}
}

// Error implements the error interface.
func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error at %s: %v", e.Pos, e.cause)
}

// Unwrap lets errors.Is match both ErrArithmetic and the underlying cause.
func (e *ArithmeticError) Unwrap() []error { return []error{ErrArithmetic, e.cause} }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *ArithmeticError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "arithmetic error"),
		slog.String("cause", e.cause.Error()),
		slog.Int("line", e.Pos.Line),
		slog.Int("col", e.Pos.Col),
	)
}
