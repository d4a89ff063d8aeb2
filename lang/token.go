package lang

import "fmt"

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	// Special
	tokEOF TokenKind = iota

	// Literals and names
	tokSymbol    // identifier
	tokBuiltin   // $identifier
	tokNumber    // numeric literal
	tokString    // quoted string, with optional s prefix
	tokDatetime  // d-prefixed quoted string
	tokTimedelta // t-prefixed quoted string

	// Keywords
	tokTrue
	tokFalse
	tokNull
	tokInf
	tokNan
	tokAnd
	tokOr
	tokNot
	tokIn
	tokIf
	tokElse
	tokFor

	// Punctuation
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokColon

	// Postfix access
	tokDot         // .
	tokSafeDot     // ?.
	tokSafeBracket // ?[

	// Operators
	tokAdd      // +
	tokSub      // -
	tokMul      // *
	tokDiv      // /
	tokFloorDiv // //
	tokMod      // %
	tokPow      // **
	tokEq       // ==
	tokNe       // !=
	tokLt       // <
	tokLe       // <=
	tokGt       // >
	tokGe       // >=
	tokMatch    // =~
	tokSearch   // =~~
	tokNoMatch  // !~
	tokNoSearch // !~~
)

// tokenNames maps kinds to the text shown in diagnostics.
var tokenNames = map[TokenKind]string{
	tokEOF:         "end of input",
	tokSymbol:      "symbol",
	tokBuiltin:     "builtin symbol",
	tokNumber:      "number",
	tokString:      "string",
	tokDatetime:    "datetime",
	tokTimedelta:   "timedelta",
	tokTrue:        "true",
	tokFalse:       "false",
	tokNull:        "null",
	tokInf:         "inf",
	tokNan:         "nan",
	tokAnd:         "and",
	tokOr:          "or",
	tokNot:         "not",
	tokIn:          "in",
	tokIf:          "if",
	tokElse:        "else",
	tokFor:         "for",
	tokLParen:      "(",
	tokRParen:      ")",
	tokLBracket:    "[",
	tokRBracket:    "]",
	tokLBrace:      "{",
	tokRBrace:      "}",
	tokComma:       ",",
	tokColon:       ":",
	tokDot:         ".",
	tokSafeDot:     "?.",
	tokSafeBracket: "?[",
	tokAdd:         "+",
	tokSub:         "-",
	tokMul:         "*",
	tokDiv:         "/",
	tokFloorDiv:    "//",
	tokMod:         "%",
	tokPow:         "**",
	tokEq:          "==",
	tokNe:          "!=",
	tokLt:          "<",
	tokLe:          "<=",
	tokGt:          ">",
	tokGe:          ">=",
	tokMatch:       "=~",
	tokSearch:      "=~~",
	tokNoMatch:     "!~",
	tokNoSearch:    "!~~",
}

// String returns the diagnostic name of the token kind.
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}

	return fmt.Sprintf("token(%d)", int(k))
}

// keywords maps reserved literal words to their token kinds. Words in this
// table can never be used as symbol names.
var keywords = map[string]TokenKind{
	"true":  tokTrue,
	"false": tokFalse,
	"null":  tokNull,
	"inf":   tokInf,
	"nan":   tokNan,
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
	"in":    tokIn,
	"if":    tokIf,
	"else":  tokElse,
	"for":   tokFor,
}

// futureReserved are words rejected outright, reserved for future control
// constructs.
var futureReserved = map[string]struct{}{
	"elif":  {},
	"while": {},
}

// Pos is a source location carried by tokens and AST nodes for diagnostics.
// Line and Col are 1-based; Offset is the 0-based rune offset.
type Pos struct {
	Line   int
	Col    int
	Offset int
}

// String renders the position as "line:col".
func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Token is a single lexeme with its source position.
type Token struct {
	Lit  string
	Pos  Pos
	Kind TokenKind
}

// String returns the diagnostic rendition of the token.
func (t Token) String() string {
	switch t.Kind {
	case tokSymbol, tokBuiltin, tokNumber, tokString, tokDatetime, tokTimedelta:
		return fmt.Sprintf("%s %q", t.Kind, t.Lit)
	default:
		return t.Kind.String()
	}
}
