// Package types defines the closed set of data kinds understood by the rule
// language along with the static compatibility tables consulted by the type
// inference pass and, defensively, by the evaluator.
package types

import "strings"

// Kind enumerates every data kind a rule value can have.
//
// Undefined is a purely static kind: it marks AST nodes whose type cannot be
// determined without data (for example a symbol with no type hint). No runtime
// value ever carries it.
type Kind uint8

const (
	Undefined Kind = iota
	Null
	Boolean
	String
	Float
	Datetime
	Timedelta
	Array
	Set
	Mapping
)

// kindNames must be indexed by Kind.
var kindNames = [...]string{
	"UNDEFINED",
	"NULL",
	"BOOLEAN",
	"STRING",
	"FLOAT",
	"DATETIME",
	"TIMEDELTA",
	"ARRAY",
	"SET",
	"MAPPING",
}

// String returns the canonical upper-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "UNKNOWN"
}

// Scalar reports whether the kind is a non-container kind.
func (k Kind) Scalar() bool {
	switch k {
	case Array, Set, Mapping:
		return false
	default:
		return true
	}
}

// Container reports whether the kind holds other values.
func (k Kind) Container() bool { return !k.Scalar() }

// Orderable reports whether values of the kind have a total order among
// themselves, making them valid operands for <, <=, >, and >=.
func (k Kind) Orderable() bool {
	switch k {
	case Float, String, Datetime, Timedelta:
		return true
	default:
		return false
	}
}

// Iterable reports whether the kind can be the source of a comprehension or
// the right operand of the "in" operator.
func (k Kind) Iterable() bool {
	switch k {
	case Array, Set, Mapping:
		return true
	default:
		return false
	}
}

// KindSet is a union of kinds, used to describe the member type of ARRAY and
// SET literals whose elements mix kinds.
type KindSet uint16

// Add returns the union of the set and the given kind.
func (s KindSet) Add(k Kind) KindSet { return s | 1<<k }

// Has reports whether the set contains the kind.
func (s KindSet) Has(k Kind) bool { return s&(1<<k) != 0 }

// Empty reports whether no kinds are in the set.
func (s KindSet) Empty() bool { return s == 0 }

// Single returns the sole kind in the set, or Undefined when the set is empty
// or holds more than one kind.
func (s KindSet) Single() (Kind, bool) {
	if s == 0 || s&(s-1) != 0 {
		return Undefined, false
	}

	for k := Undefined; k <= Mapping; k++ {
		if s.Has(k) {
			return k, true
		}
	}

	return Undefined, false
}

// String returns a "|"-joined list of member kind names.
func (s KindSet) String() string {
	if s.Empty() {
		return Undefined.String()
	}

	names := make([]string, 0, 4)

	for k := Undefined; k <= Mapping; k++ {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}

	return strings.Join(names, "|")
}

// DataType is the static type assigned to an AST node by the inference pass.
//
// For Array and Set, Member is the union of the element kinds observed in the
// literal (empty for non-literal or unknown sources) and Nullable records
// whether any element may be NULL. Member metadata is a static property of
// the type; elements are validated at construction, not tracked per element
// afterwards.
type DataType struct {
	Member   KindSet
	Key      KindSet // Mapping key kinds
	Value    KindSet // Mapping value kinds
	Kind     Kind
	Nullable bool // a member may be NULL
}

// Of returns a DataType with the given kind and no member metadata.
func Of(k Kind) DataType { return DataType{Kind: k} }

// ArrayOf returns the type of an ARRAY literal with the given member union.
func ArrayOf(member KindSet, nullable bool) DataType {
	return DataType{Kind: Array, Member: member, Nullable: nullable}
}

// SetOf returns the type of a SET literal with the given member union.
func SetOf(member KindSet, nullable bool) DataType {
	return DataType{Kind: Set, Member: member, Nullable: nullable}
}

// MappingOf returns the type of a MAPPING literal with the given key and
// value unions.
func MappingOf(key, value KindSet, nullable bool) DataType {
	return DataType{Kind: Mapping, Key: key, Value: value, Nullable: nullable}
}

// String returns a readable rendition of the type, including member metadata
// for container kinds.
func (t DataType) String() string {
	switch t.Kind {
	case Array, Set:
		s := t.Kind.String() + "[" + t.Member.String()

		if t.Nullable {
			s += "?"
		}

		return s + "]"

	case Mapping:
		return t.Kind.String() + "[" + t.Key.String() + ":" + t.Value.String() + "]"

	default:
		return t.Kind.String()
	}
}

// Is reports whether the type has the given kind.
func (t DataType) Is(k Kind) bool { return t.Kind == k }

// Unknown reports whether the type is statically undetermined.
func (t DataType) Unknown() bool { return t.Kind == Undefined }

// The static compatibility tables below are consulted once by the inference
// pass, before any data exists, and again by the evaluator as defense in
// depth when static types were Undefined. Undefined operands satisfy every
// table and defer the check to runtime.

// CanArithmetic reports whether the kinds are valid operands for the
// multiplicative operators (*, /, //, %, **) and binary -.
func CanArithmetic(left, right Kind) bool {
	return okOr(left, Float) && okOr(right, Float)
}

// CanAdd reports whether the kinds form one of the permitted "+" pairings:
// FLOAT+FLOAT, STRING+STRING (concatenation), DATETIME+TIMEDELTA (either
// order), or TIMEDELTA+TIMEDELTA.
func CanAdd(left, right Kind) bool {
	if left == Undefined || right == Undefined {
		return true
	}

	switch {
	case left == Float && right == Float:
		return true
	case left == String && right == String:
		return true
	case left == Datetime && right == Timedelta:
		return true
	case left == Timedelta && right == Datetime:
		return true
	case left == Timedelta && right == Timedelta:
		return true
	default:
		return false
	}
}

// AddKind returns the result kind of a permitted "+" pairing. A single known
// operand can force the pairing: FLOAT and STRING only pair with themselves,
// and DATETIME only pairs with TIMEDELTA, so the result is determined even
// when the other operand is Undefined.
func AddKind(left, right Kind) Kind {
	if left == Undefined {
		left, right = right, left
	}

	if right == Undefined {
		switch left {
		case Float, String, Datetime:
			return left
		default:
			// TIMEDELTA admits both TIMEDELTA and DATETIME results.
			return Undefined
		}
	}

	if left == Timedelta && right == Datetime {
		return Datetime
	}

	return left
}

// CanSubtract reports whether the kinds form one of the permitted "-"
// pairings: FLOAT-FLOAT, DATETIME-TIMEDELTA, DATETIME-DATETIME, or
// TIMEDELTA-TIMEDELTA.
func CanSubtract(left, right Kind) bool {
	if left == Undefined || right == Undefined {
		return true
	}

	switch {
	case left == Float && right == Float:
		return true
	case left == Datetime && (right == Timedelta || right == Datetime):
		return true
	case left == Timedelta && right == Timedelta:
		return true
	default:
		return false
	}
}

// SubtractKind returns the result kind of a permitted "-" pairing. As with
// AddKind, a known FLOAT operand forces FLOAT; the calendar kinds stay
// Undefined when the other side is unknown (DATETIME-DATETIME yields
// TIMEDELTA, DATETIME-TIMEDELTA yields DATETIME).
func SubtractKind(left, right Kind) Kind {
	if left == Float || right == Float {
		return Float
	}

	if left == Undefined || right == Undefined {
		return Undefined
	}

	if left == Datetime && right == Datetime {
		return Timedelta
	}

	return left
}

// CanOrder reports whether the kinds are valid operands for the ordering
// comparisons (<, <=, >, >=): both must be the same orderable kind, or
// either may be Undefined.
func CanOrder(left, right Kind) bool {
	if left == Undefined || right == Undefined {
		return true
	}

	return left == right && left.Orderable()
}

// CanContain reports whether the kind is a valid right operand for "in".
func CanContain(container Kind) bool {
	return container == Undefined || container.Iterable()
}

// CanMatch reports whether the kinds are valid operands for the regex
// matching operators (=~, =~~, !~, !~~). The left operand may be NULL, which
// never matches.
func CanMatch(left, right Kind) bool {
	if left != Undefined && left != String && left != Null {
		return false
	}

	return okOr(right, String)
}

// CanNegate reports whether the kind is a valid operand for unary minus.
func CanNegate(operand Kind) bool {
	return operand == Undefined || operand == Float || operand == Timedelta
}

func okOr(k, want Kind) bool { return k == Undefined || k == want }
