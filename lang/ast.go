package lang

import (
	"github.com/ardnew/verdict/types"
	"github.com/ardnew/verdict/value"
)

// Node is a single vertex of the abstract syntax tree. Nodes are built once
// by Parse, annotated once by Infer, and read-only for the remainder of
// their life, so a compiled tree is safe to share across goroutines.
type Node interface {
	// Pos returns the source position of the node for diagnostics.
	Pos() Pos
	// Type returns the statically inferred type of the node's result.
	// Before Infer runs it is the zero DataType (Undefined).
	Type() types.DataType

	setType(types.DataType)
}

// node is the common base embedded by every AST node variant.
type node struct {
	typ types.DataType
	pos Pos
}

func (n *node) Pos() Pos                 { return n.pos }
func (n *node) Type() types.DataType     { return n.typ }
func (n *node) setType(t types.DataType) { n.typ = t }

// Literal holds a constant value: null, boolean, number, string, datetime,
// or timedelta. Literal values are converted to their runtime representation
// at parse time.
type Literal struct {
	Val value.Value
	node
}

// Symbol references a name resolved against the evaluation context.
type Symbol struct {
	Name string
	node
}

// BuiltinSymbol references a sigil-prefixed name ($name) resolved in the
// builtin symbol namespace, never against the context.
type BuiltinSymbol struct {
	Name string
	node
}

// Call invokes a sigil-prefixed builtin function with the given argument
// expressions. The name is resolved in the builtin symbol namespace at
// evaluation time, like BuiltinSymbol.
type Call struct {
	Args []Node
	Name string
	node
}

// Attribute accesses a named attribute of an object. With Safe set, a NULL
// object short-circuits the access to NULL instead of failing.
type Attribute struct {
	Object Node
	Name   string
	Safe   bool
	node
}

// Index accesses an element of an ARRAY or STRING by position, or a MAPPING
// by key. With Safe set, a NULL object yields NULL.
type Index struct {
	Object Node
	Key    Node
	Safe   bool
	node
}

// Slice extracts a half-open range from an ARRAY or STRING. Lo and Hi may be
// nil, defaulting to the full range. With Safe set, a NULL object yields
// NULL.
type Slice struct {
	Object Node
	Lo     Node
	Hi     Node
	Safe   bool
	node
}

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

// String returns the source spelling of the operator.
func (op UnaryOp) String() string {
	if op == OpNot {
		return "not"
	}

	return "-"
}

// Unary applies a prefix operator to a single operand.
type Unary struct {
	Operand Node
	Op      UnaryOp
	node
}

// ArithOp identifies an arithmetic (or concatenation) binary operator.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

var arithNames = [...]string{"+", "-", "*", "/", "//", "%", "**"}

// String returns the source spelling of the operator.
func (op ArithOp) String() string { return arithNames[op] }

// Arithmetic applies a binary arithmetic operator, including the overloaded
// "+" which also concatenates strings and shifts datetimes.
type Arithmetic struct {
	Left  Node
	Right Node
	Op    ArithOp
	node
}

// CmpOp identifies a comparison operator.
type CmpOp int

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var cmpNames = [...]string{"==", "!=", "<", "<=", ">", ">="}

// String returns the source spelling of the operator.
func (op CmpOp) String() string { return cmpNames[op] }

// Ordered reports whether the operator requires orderable operands.
func (op CmpOp) Ordered() bool { return op >= OpLt }

// Compare applies an equality or ordering comparison.
type Compare struct {
	Left  Node
	Right Node
	Op    CmpOp
	node
}

// MatchOp identifies a regex matching operator.
type MatchOp int

const (
	OpMatch MatchOp = iota // =~ anchored match
	OpSearch               // =~~ unanchored search
	OpNoMatch              // !~
	OpNoSearch             // !~~
)

var matchNames = [...]string{"=~", "=~~", "!~", "!~~"}

// String returns the source spelling of the operator.
func (op MatchOp) String() string { return matchNames[op] }

// Negated reports whether the operator inverts the match result.
func (op MatchOp) Negated() bool { return op == OpNoMatch || op == OpNoSearch }

// Anchored reports whether the pattern must match from the start of the
// subject.
func (op MatchOp) Anchored() bool { return op == OpMatch || op == OpNoMatch }

// Match applies a regex matching operator: the left operand is the subject
// string (or NULL, which never matches) and the right operand the pattern.
type Match struct {
	Left  Node
	Right Node
	Op    MatchOp
	node
}

// Contains tests membership: element membership for ARRAY and SET, key
// membership for MAPPING. The parser expresses "not in" by wrapping this
// node in a Unary not.
type Contains struct {
	Member    Node
	Container Node
	node
}

// LogicOp identifies a short-circuiting logical operator.
type LogicOp int

const (
	OpAnd LogicOp = iota
	OpOr
)

// String returns the source spelling of the operator.
func (op LogicOp) String() string {
	if op == OpAnd {
		return "and"
	}

	return "or"
}

// Logic applies a short-circuiting boolean operator to the truthiness of its
// operands.
type Logic struct {
	Left  Node
	Right Node
	Op    LogicOp
	node
}

// Ternary selects between two expressions: "then if cond else else". Only
// the taken branch is evaluated.
type Ternary struct {
	Cond Node
	Then Node
	Else Node
	node
}

// ArrayLit constructs an ARRAY from element expressions.
type ArrayLit struct {
	Elements []Node
	node
}

// SetLit constructs a SET from element expressions, discarding duplicates.
type SetLit struct {
	Elements []Node
	node
}

// MapLit constructs a MAPPING from parallel key and value expressions.
type MapLit struct {
	Keys   []Node
	Values []Node
	node
}

// CompForm identifies the container a comprehension collects into, dictated
// by its bracket form.
type CompForm int

const (
	CompArray CompForm = iota // [expr for sym in src]
	CompSet                   // {expr for sym in src}
	CompMap                   // {key: expr for sym in src}
)

// Comprehension evaluates Value (and Key, for mapping form) once per source
// element with Sym bound to the element, keeping elements for which Cond
// (when present) is truthy. Results are collected eagerly into a finite
// container.
type Comprehension struct {
	Key    Node // mapping form only, nil otherwise
	Value  Node
	Source Node
	Cond   Node // optional filter, may be nil
	Sym    string
	Form   CompForm
	node
}
