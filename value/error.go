package value

import "github.com/ardnew/verdict/pkg"

// Predefined errors (sentinel values).
var (
	// ErrTypeMismatch is returned when an operator receives runtime operands
	// of incompatible kinds. The evaluator wraps it with source position
	// information before surfacing it to the caller.
	ErrTypeMismatch = pkg.NewError("data type mismatch")

	// ErrDivisionByZero is returned by /, //, and % when the divisor is zero.
	ErrDivisionByZero = pkg.NewError("division by zero")

	// ErrArithmeticFault is returned when a decimal operation on valid FLOAT
	// operands fails anyway, such as overflow past the context limits or a
	// power with no finite result.
	ErrArithmeticFault = pkg.NewError("arithmetic operation failed")

	// ErrNotHashable is returned when a container kind is used as a SET
	// member or MAPPING key.
	ErrNotHashable = pkg.NewError("value is not hashable")

	// ErrBadConversion is returned when text cannot be converted to the
	// requested kind, or a native Go value has no corresponding kind.
	ErrBadConversion = pkg.NewError("conversion failed")
)
