package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer converts rule source text into tokens, tracking line and column for
// diagnostics.
type lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

func newLexer(text string) *lexer {
	return &lexer{input: []rune(text), line: 1, col: 1}
}

// lexAll tokenizes the entire input. The returned stream always ends with an
// EOF token.
func lexAll(text string) ([]Token, error) {
	lx := newLexer(text)

	var tokens []Token

	for {
		tok, err := lx.scan()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)

		if tok.Kind == tokEOF {
			return tokens, nil
		}
	}
}

func (lx *lexer) at() Pos { return Pos{Line: lx.line, Col: lx.col, Offset: lx.pos} }

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.input) {
		return 0
	}

	return lx.input[lx.pos]
}

func (lx *lexer) peekAt(n int) rune {
	if lx.pos+n >= len(lx.input) {
		return 0
	}

	return lx.input[lx.pos+n]
}

func (lx *lexer) advance() rune {
	r := lx.input[lx.pos]
	lx.pos++

	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.input) {
		switch lx.peek() {
		case ' ', '\t', '\r', '\n':
			lx.advance()
		default:
			return
		}
	}
}

func isSymbolStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) && r < utf8.RuneSelf
}

func isSymbolPart(r rune) bool {
	return isSymbolStart(r) || r >= '0' && r <= '9'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// scan returns the next token in the input.
//
//nolint:cyclop,funlen
func (lx *lexer) scan() (Token, error) {
	lx.skipSpace()

	pos := lx.at()

	if lx.pos >= len(lx.input) {
		return Token{Kind: tokEOF, Pos: pos}, nil
	}

	r := lx.peek()

	switch {
	case isSymbolStart(r):
		return lx.scanWord(pos)

	case isDigit(r) || r == '.' && isDigit(lx.peekAt(1)):
		return lx.scanNumber(pos)

	case r == '"' || r == '\'':
		return lx.scanString(pos, tokString)

	case r == '$':
		lx.advance()

		if !isSymbolStart(lx.peek()) {
			return Token{}, newSyntaxError(pos, "illegal character '$'")
		}

		word := lx.scanSymbolText()

		return Token{Kind: tokBuiltin, Lit: word, Pos: pos}, nil
	}

	return lx.scanOperator(pos)
}

func (lx *lexer) scanSymbolText() string {
	start := lx.pos

	for lx.pos < len(lx.input) && isSymbolPart(lx.peek()) {
		lx.advance()
	}

	return string(lx.input[start:lx.pos])
}

// scanWord scans an identifier, resolving reserved words and the s/d/t
// string literal prefixes.
func (lx *lexer) scanWord(pos Pos) (Token, error) {
	word := lx.scanSymbolText()

	// A single-letter prefix immediately followed by a quote introduces a
	// typed literal: s"..." string, d"..." datetime, t"..." timedelta.
	if len(word) == 1 && (lx.peek() == '"' || lx.peek() == '\'') {
		switch word {
		case "s":
			return lx.scanString(pos, tokString)
		case "d":
			return lx.scanString(pos, tokDatetime)
		case "t":
			return lx.scanString(pos, tokTimedelta)
		}
	}

	if _, reserved := futureReserved[word]; reserved {
		return Token{}, newSyntaxError(
			pos,
			"the "+word+" keyword is reserved for future use",
		)
	}

	if kind, ok := keywords[word]; ok {
		return Token{Kind: kind, Lit: word, Pos: pos}, nil
	}

	return Token{Kind: tokSymbol, Lit: word, Pos: pos}, nil
}

// scanNumber scans decimal and scientific literals plus 0b/0o/0x integer
// forms. The literal text is preserved verbatim for exact decimal
// conversion by the parser.
func (lx *lexer) scanNumber(pos Pos) (Token, error) {
	start := lx.pos

	if lx.peek() == '0' && strings.ContainsRune("bBoOxX", lx.peekAt(1)) {
		lx.advance()
		base := lx.advance()

		digits := "01"

		switch base {
		case 'o', 'O':
			digits = "01234567"
		case 'x', 'X':
			digits = "0123456789abcdefABCDEF"
		}

		n := 0
		for lx.pos < len(lx.input) && strings.ContainsRune(digits, lx.peek()) {
			lx.advance()
			n++
		}

		lit := string(lx.input[start:lx.pos])

		if n == 0 || isSymbolPart(lx.peek()) {
			return Token{}, newSyntaxError(pos, "invalid numeric literal: "+lit)
		}

		return Token{Kind: tokNumber, Lit: lit, Pos: pos}, nil
	}

	for lx.pos < len(lx.input) && isDigit(lx.peek()) {
		lx.advance()
	}

	if lx.peek() == '.' && isDigit(lx.peekAt(1)) {
		lx.advance()

		for lx.pos < len(lx.input) && isDigit(lx.peek()) {
			lx.advance()
		}
	} else if lx.peek() == '.' && !isSymbolStart(lx.peekAt(1)) {
		// Trailing dot as in "1." keeps the dot with the number.
		lx.advance()
	}

	if lx.peek() == 'e' || lx.peek() == 'E' {
		mark := lx.pos
		lx.advance()

		if lx.peek() == '+' || lx.peek() == '-' {
			lx.advance()
		}

		if !isDigit(lx.peek()) {
			// Not an exponent after all; back out to the saved mark.
			lx.pos = mark
		} else {
			for lx.pos < len(lx.input) && isDigit(lx.peek()) {
				lx.advance()
			}
		}
	}

	lit := string(lx.input[start:lx.pos])

	if len(lit) > 1 && lit[0] == '0' && isDigit(rune(lit[1])) {
		return Token{}, newSyntaxError(
			pos,
			"invalid floating point literal: "+lit+
				" (leading zeros in decimal literals are not permitted)",
		)
	}

	return Token{Kind: tokNumber, Lit: lit, Pos: pos}, nil
}

// scanString scans a quoted literal, decoding the standard escapes. The
// opening quote must be the current rune.
//
//nolint:cyclop
func (lx *lexer) scanString(pos Pos, kind TokenKind) (Token, error) {
	quote := lx.advance()

	var sb strings.Builder

	for {
		if lx.pos >= len(lx.input) || lx.peek() == '\n' {
			return Token{}, newSyntaxError(pos, "unterminated string literal")
		}

		r := lx.advance()

		if r == quote {
			return Token{Kind: kind, Lit: sb.String(), Pos: pos}, nil
		}

		if r != '\\' {
			sb.WriteRune(r)

			continue
		}

		if lx.pos >= len(lx.input) {
			return Token{}, newSyntaxError(pos, "unterminated string literal")
		}

		esc := lx.advance()

		switch esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '0':
			sb.WriteByte(0)
		case '\\', '\'', '"':
			sb.WriteRune(esc)
		case 'x':
			r, err := lx.scanHexEscape(pos, 2)
			if err != nil {
				return Token{}, err
			}

			sb.WriteRune(r)
		case 'u':
			r, err := lx.scanHexEscape(pos, 4)
			if err != nil {
				return Token{}, err
			}

			sb.WriteRune(r)
		default:
			// Unknown escapes pass through with the backslash, matching
			// relaxed string literal handling.
			sb.WriteByte('\\')
			sb.WriteRune(esc)
		}
	}
}

func (lx *lexer) scanHexEscape(pos Pos, width int) (rune, error) {
	var v rune

	for range width {
		if lx.pos >= len(lx.input) {
			return 0, newSyntaxError(pos, "invalid escape sequence")
		}

		d := lx.advance()

		switch {
		case d >= '0' && d <= '9':
			v = v<<4 | (d - '0')
		case d >= 'a' && d <= 'f':
			v = v<<4 | (d - 'a' + 10)
		case d >= 'A' && d <= 'F':
			v = v<<4 | (d - 'A' + 10)
		default:
			return 0, newSyntaxError(pos, "invalid escape sequence")
		}
	}

	return v, nil
}

// scanOperator scans punctuation and operator tokens.
//
//nolint:cyclop,funlen
func (lx *lexer) scanOperator(pos Pos) (Token, error) {
	mk := func(kind TokenKind) (Token, error) {
		return Token{Kind: kind, Lit: kind.String(), Pos: pos}, nil
	}

	r := lx.advance()

	switch r {
	case '(':
		return mk(tokLParen)
	case ')':
		return mk(tokRParen)
	case '[':
		return mk(tokLBracket)
	case ']':
		return mk(tokRBracket)
	case '{':
		return mk(tokLBrace)
	case '}':
		return mk(tokRBrace)
	case ',':
		return mk(tokComma)
	case ':':
		return mk(tokColon)
	case '+':
		return mk(tokAdd)
	case '-':
		return mk(tokSub)
	case '%':
		return mk(tokMod)

	case '.':
		return mk(tokDot)

	case '?':
		switch lx.peek() {
		case '.':
			lx.advance()

			return mk(tokSafeDot)
		case '[':
			lx.advance()

			return mk(tokSafeBracket)
		}

	case '*':
		if lx.peek() == '*' {
			lx.advance()

			return mk(tokPow)
		}

		return mk(tokMul)

	case '/':
		if lx.peek() == '/' {
			lx.advance()

			return mk(tokFloorDiv)
		}

		return mk(tokDiv)

	case '<':
		if lx.peek() == '=' {
			lx.advance()

			return mk(tokLe)
		}

		return mk(tokLt)

	case '>':
		if lx.peek() == '=' {
			lx.advance()

			return mk(tokGe)
		}

		return mk(tokGt)

	case '=':
		switch {
		case lx.peek() == '=':
			lx.advance()

			return mk(tokEq)
		case lx.peek() == '~' && lx.peekAt(1) == '~':
			lx.advance()
			lx.advance()

			return mk(tokSearch)
		case lx.peek() == '~':
			lx.advance()

			return mk(tokMatch)
		}

	case '!':
		switch {
		case lx.peek() == '=':
			lx.advance()

			return mk(tokNe)
		case lx.peek() == '~' && lx.peekAt(1) == '~':
			lx.advance()
			lx.advance()

			return mk(tokNoSearch)
		case lx.peek() == '~':
			lx.advance()

			return mk(tokNoMatch)
		}
	}

	return Token{}, newSyntaxError(pos, "illegal character "+string(r))
}
