package lang

import (
	"strings"
	"time"

	"github.com/ardnew/verdict/value"
)

// Option applies a configuration option to the parser.
type Option func(config) config

type config struct {
	loc *time.Location
}

// WithTimezone sets the location used to interpret naive datetime literals.
// The default is UTC.
func WithTimezone(loc *time.Location) Option {
	return func(cfg config) config {
		cfg.loc = loc

		return cfg
	}
}

// Parse converts rule source text into an abstract syntax tree. The returned
// tree is unannotated; pass it to Infer before evaluation. Parse never
// mutates shared state: on failure it returns a ParseError and no tree.
func Parse(text string, opts ...Option) (Node, error) {
	var cfg config
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	tokens, err := lexAll(text)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: tokens, cfg: cfg}

	root, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind != tokEOF {
		return nil, newTokenError(p.cur(), "end of input")
	}

	return root, nil
}

// parser is a precedence-climbing recursive descent parser over a fully
// lexed token stream.
type parser struct {
	toks []Token
	cfg  config
	pos  int
}

func (p *parser) cur() Token { return p.toks[p.pos] }

func (p *parser) peek() Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]

	if tok.Kind != tokEOF {
		p.pos++
	}

	return tok
}

func (p *parser) accept(kind TokenKind) bool {
	if p.cur().Kind == kind {
		p.next()

		return true
	}

	return false
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	if p.cur().Kind != kind {
		return Token{}, newTokenError(p.cur(), what)
	}

	return p.next(), nil
}

// parseExpression parses a full expression, the ternary
// "then if cond else else" form being the loosest construct.
func (p *parser) parseExpression() (Node, error) {
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind != tokIf {
		return then, nil
	}

	tok := p.next()

	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(tokElse, `"else"`); err != nil {
		return nil, err
	}

	// The alternative binds right-associatively: a if c1 else b if c2 else c
	// is a if c1 else (b if c2 else c).
	alt, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Ternary{
		node: node{pos: tok.Pos},
		Cond: cond,
		Then: then,
		Else: alt,
	}, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == tokOr {
		tok := p.next()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &Logic{node: node{pos: tok.Pos}, Op: OpOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == tokAnd {
		tok := p.next()

		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}

		left = &Logic{node: node{pos: tok.Pos}, Op: OpAnd, Left: left, Right: right}
	}

	return left, nil
}

var cmpOps = map[TokenKind]CmpOp{
	tokEq: OpEq, tokNe: OpNe,
	tokLt: OpLt, tokLe: OpLe,
	tokGt: OpGt, tokGe: OpGe,
}

var matchOps = map[TokenKind]MatchOp{
	tokMatch: OpMatch, tokSearch: OpSearch,
	tokNoMatch: OpNoMatch, tokNoSearch: OpNoSearch,
}

func (p *parser) isComparisonNext() bool {
	kind := p.cur().Kind

	if _, ok := cmpOps[kind]; ok {
		return true
	}

	if _, ok := matchOps[kind]; ok {
		return true
	}

	return kind == tokIn || kind == tokNot && p.peek().Kind == tokIn
}

// parseComparison parses the non-associative comparison level: ==, !=, the
// ordering operators, the regex matching operators, and (not) in. Chaining
// two comparisons without parentheses is a syntax error.
func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	if !p.isComparisonNext() {
		return left, nil
	}

	result, err := p.parseComparisonOp(left)
	if err != nil {
		return nil, err
	}

	// Comparisons are non-associative: a < b < c is rejected.
	if p.isComparisonNext() {
		return nil, newTokenError(p.cur(), "a non-comparison operator")
	}

	return result, nil
}

func (p *parser) parseComparisonOp(left Node) (Node, error) {
	tok := p.next()

	negated := false
	if tok.Kind == tokNot {
		// "not in": the in token follows.
		tok = p.next()
		negated = true
	}

	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	var result Node

	switch {
	case tok.Kind == tokIn:
		result = &Contains{
			node:      node{pos: tok.Pos},
			Member:    left,
			Container: right,
		}

	default:
		if op, ok := cmpOps[tok.Kind]; ok {
			result = &Compare{node: node{pos: tok.Pos}, Op: op, Left: left, Right: right}

			break
		}

		op := matchOps[tok.Kind]
		result = &Match{node: node{pos: tok.Pos}, Op: op, Left: left, Right: right}
	}

	if negated {
		result = &Unary{node: node{pos: tok.Pos}, Op: OpNot, Operand: result}
	}

	return result, nil
}

func (p *parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for p.cur().Kind == tokAdd || p.cur().Kind == tokSub {
		tok := p.next()

		op := OpAdd
		if tok.Kind == tokSub {
			op = OpSub
		}

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = &Arithmetic{node: node{pos: tok.Pos}, Op: op, Left: left, Right: right}
	}

	return left, nil
}

var mulOps = map[TokenKind]ArithOp{
	tokMul:      OpMul,
	tokDiv:      OpDiv,
	tokFloorDiv: OpFloorDiv,
	tokMod:      OpMod,
	tokPow:      OpPow,
}

func (p *parser) parseMultiplicative() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := mulOps[p.cur().Kind]
		if !ok {
			return left, nil
		}

		tok := p.next()

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &Arithmetic{node: node{pos: tok.Pos}, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	switch p.cur().Kind {
	case tokNot:
		tok := p.next()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{node: node{pos: tok.Pos}, Op: OpNot, Operand: operand}, nil

	case tokSub:
		tok := p.next()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Unary{node: node{pos: tok.Pos}, Op: OpNeg, Operand: operand}, nil

	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses the access operators, which bind tighter than all
// other operators and chain left-to-right.
func (p *parser) parsePostfix() (Node, error) {
	obj, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Kind {
		case tokDot, tokSafeDot:
			tok := p.next()

			name, err := p.expect(tokSymbol, "attribute name")
			if err != nil {
				return nil, err
			}

			obj = &Attribute{
				node:   node{pos: tok.Pos},
				Object: obj,
				Name:   name.Lit,
				Safe:   tok.Kind == tokSafeDot,
			}

		case tokLBracket, tokSafeBracket:
			obj, err = p.parseAccess(obj)
			if err != nil {
				return nil, err
			}

		case tokLParen:
			// Only builtin symbols are callable; for anything else the paren
			// belongs to an enclosing construct.
			sym, ok := obj.(*BuiltinSymbol)
			if !ok {
				return obj, nil
			}

			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}

			obj = &Call{node: node{pos: sym.Pos()}, Name: sym.Name, Args: args}

		default:
			return obj, nil
		}
	}
}

// parseCallArgs parses a parenthesized, comma-separated argument list,
// permitting a trailing comma before the closer.
func (p *parser) parseCallArgs() ([]Node, error) {
	p.next() // (

	if p.accept(tokRParen) {
		return nil, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return p.parseMembers(first, tokRParen, `")"`)
}

// parseAccess parses item and slice access following an object expression.
func (p *parser) parseAccess(obj Node) (Node, error) {
	tok := p.next()
	safe := tok.Kind == tokSafeBracket

	var lo, hi Node

	var err error

	if p.cur().Kind != tokColon {
		lo, err = p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.cur().Kind == tokRBracket {
			p.next()

			return &Index{
				node:   node{pos: tok.Pos},
				Object: obj,
				Key:    lo,
				Safe:   safe,
			}, nil
		}
	}

	if _, err = p.expect(tokColon, `"]" or ":"`); err != nil {
		return nil, err
	}

	if p.cur().Kind != tokRBracket {
		hi, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if _, err = p.expect(tokRBracket, `"]"`); err != nil {
		return nil, err
	}

	return &Slice{
		node:   node{pos: tok.Pos},
		Object: obj,
		Lo:     lo,
		Hi:     hi,
		Safe:   safe,
	}, nil
}

//nolint:cyclop,funlen
func (p *parser) parsePrimary() (Node, error) {
	tok := p.cur()

	switch tok.Kind {
	case tokNumber:
		p.next()

		return p.numberLiteral(tok)

	case tokString:
		p.next()

		return &Literal{node: node{pos: tok.Pos}, Val: value.Str(tok.Lit)}, nil

	case tokDatetime:
		p.next()

		t, err := value.ParseDatetime(tok.Lit, p.cfg.loc)
		if err != nil {
			return nil, newSyntaxError(tok.Pos, "invalid datetime literal: "+tok.Lit)
		}

		return &Literal{node: node{pos: tok.Pos}, Val: value.Time(t)}, nil

	case tokTimedelta:
		p.next()

		d, err := value.ParseTimedelta(tok.Lit)
		if err != nil {
			return nil, newSyntaxError(tok.Pos, "invalid timedelta literal: "+tok.Lit)
		}

		return &Literal{node: node{pos: tok.Pos}, Val: value.Duration(d)}, nil

	case tokTrue, tokFalse:
		p.next()

		return &Literal{
			node: node{pos: tok.Pos},
			Val:  value.Bool(tok.Kind == tokTrue),
		}, nil

	case tokNull:
		p.next()

		return &Literal{node: node{pos: tok.Pos}, Val: value.Null()}, nil

	case tokInf:
		p.next()

		return &Literal{node: node{pos: tok.Pos}, Val: value.Inf()}, nil

	case tokNan:
		p.next()

		return &Literal{node: node{pos: tok.Pos}, Val: value.NaN()}, nil

	case tokSymbol:
		p.next()

		return &Symbol{node: node{pos: tok.Pos}, Name: tok.Lit}, nil

	case tokBuiltin:
		p.next()

		return &BuiltinSymbol{node: node{pos: tok.Pos}, Name: tok.Lit}, nil

	case tokLParen:
		p.next()

		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}

		return inner, nil

	case tokLBracket:
		return p.parseArray()

	case tokLBrace:
		return p.parseBrace()

	default:
		return nil, newTokenError(tok, "expression")
	}
}

// numberLiteral converts a numeric literal token into an exact FLOAT value.
func (p *parser) numberLiteral(tok Token) (Node, error) {
	lit := tok.Lit

	if len(lit) > 1 && lit[0] == '0' {
		switch lit[1] {
		case 'b', 'B', 'o', 'O', 'x', 'X':
			return p.radixLiteral(tok)
		}
	}

	text := lit

	// apd rejects a bare leading or trailing point.
	if strings.HasPrefix(text, ".") {
		text = "0" + text
	}

	text = strings.TrimSuffix(text, ".")

	val, err := value.FloatFromString(text)
	if err != nil {
		return nil, newSyntaxError(tok.Pos, "invalid floating point literal: "+lit)
	}

	return &Literal{node: node{pos: tok.Pos}, Val: val}, nil
}

func (p *parser) radixLiteral(tok Token) (Node, error) {
	base := 16

	switch tok.Lit[1] {
	case 'b', 'B':
		base = 2
	case 'o', 'O':
		base = 8
	}

	val, err := value.FloatFromRadix(tok.Lit[2:], base)
	if err != nil {
		return nil, newSyntaxError(tok.Pos, "invalid numeric literal: "+tok.Lit)
	}

	return &Literal{node: node{pos: tok.Pos}, Val: val}, nil
}

// parseArray parses an ARRAY literal or an array comprehension.
func (p *parser) parseArray() (Node, error) {
	tok := p.next() // [

	if p.accept(tokRBracket) {
		return &ArrayLit{node: node{pos: tok.Pos}}, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind == tokFor {
		return p.parseComprehension(tok, CompArray, nil, first, tokRBracket)
	}

	elements, err := p.parseMembers(first, tokRBracket, `"]"`)
	if err != nil {
		return nil, err
	}

	return &ArrayLit{node: node{pos: tok.Pos}, Elements: elements}, nil
}

// parseBrace parses a SET literal, a MAPPING literal, or the set/mapping
// comprehension forms. An empty brace pair is the empty MAPPING.
func (p *parser) parseBrace() (Node, error) {
	tok := p.next() // {

	if p.accept(tokRBrace) {
		return &MapLit{node: node{pos: tok.Pos}}, nil
	}

	first, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	switch p.cur().Kind {
	case tokColon:
		p.next()

		firstVal, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.cur().Kind == tokFor {
			return p.parseComprehension(tok, CompMap, first, firstVal, tokRBrace)
		}

		return p.parseMapMembers(tok, first, firstVal)

	case tokFor:
		return p.parseComprehension(tok, CompSet, nil, first, tokRBrace)

	default:
		elements, err := p.parseMembers(first, tokRBrace, `"}"`)
		if err != nil {
			return nil, err
		}

		return &SetLit{node: node{pos: tok.Pos}, Elements: elements}, nil
	}
}

// parseMembers parses the remaining comma-separated members of a container
// literal, permitting a trailing comma before the closer.
func (p *parser) parseMembers(first Node, closer TokenKind, what string) ([]Node, error) {
	elements := []Node{first}

	for {
		if p.accept(closer) {
			return elements, nil
		}

		if _, err := p.expect(tokComma, what+` or ","`); err != nil {
			return nil, err
		}

		if p.accept(closer) {
			return elements, nil
		}

		el, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		elements = append(elements, el)
	}
}

func (p *parser) parseMapMembers(tok Token, firstKey, firstVal Node) (Node, error) {
	keys := []Node{firstKey}
	vals := []Node{firstVal}

	for {
		if p.accept(tokRBrace) {
			return &MapLit{node: node{pos: tok.Pos}, Keys: keys, Values: vals}, nil
		}

		if _, err := p.expect(tokComma, `"}" or ","`); err != nil {
			return nil, err
		}

		if p.accept(tokRBrace) {
			return &MapLit{node: node{pos: tok.Pos}, Keys: keys, Values: vals}, nil
		}

		key, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(tokColon, `":"`); err != nil {
			return nil, err
		}

		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		keys = append(keys, key)
		vals = append(vals, val)
	}
}

// parseComprehension parses the common tail of every comprehension form:
// "for sym in source [if cond]" followed by the closing bracket. The source
// and condition are or-expressions; a ternary there requires parentheses.
func (p *parser) parseComprehension(
	tok Token,
	form CompForm,
	key, val Node,
	closer TokenKind,
) (Node, error) {
	p.next() // for

	sym, err := p.expect(tokSymbol, "loop symbol")
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(tokIn, `"in"`); err != nil {
		return nil, err
	}

	source, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	var cond Node

	if p.accept(tokIf) {
		cond, err = p.parseOr()
		if err != nil {
			return nil, err
		}
	}

	if _, err = p.expect(closer, closer.String()); err != nil {
		return nil, err
	}

	return &Comprehension{
		node:   node{pos: tok.Pos},
		Form:   form,
		Key:    key,
		Value:  val,
		Source: source,
		Cond:   cond,
		Sym:    sym.Lit,
	}, nil
}
