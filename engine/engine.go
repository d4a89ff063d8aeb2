// Package engine compiles rule text into reusable Rules and evaluates them
// against caller-supplied resolution contexts.
//
// A Rule is compiled once with New, which parses the text and statically
// checks operand types, and may then be evaluated any number of times, from
// any number of goroutines. All per-evaluation state lives in the evaluator
// built for each call.
package engine

import (
	"time"

	"github.com/ardnew/verdict/lang"
	"github.com/ardnew/verdict/types"
	"github.com/ardnew/verdict/value"
)

// Option configures rule compilation.
type Option func(config) config

type config struct {
	loc   *time.Location
	hints lang.TypeHinter
}

// WithTimezone sets the timezone applied to datetime literals written
// without an explicit offset. The default is UTC.
func WithTimezone(loc *time.Location) Option {
	return func(cfg config) config {
		cfg.loc = loc

		return cfg
	}
}

// WithTypeHints supplies static type hints for free symbols, letting Infer
// reject type-incompatible rules before any data is resolved. A MapResolver
// may serve as the hinter for the data it will later resolve.
func WithTypeHints(hints lang.TypeHinter) Option {
	return func(cfg config) config {
		cfg.hints = hints

		return cfg
	}
}

// Rule is a compiled rule: parsed, type-checked, and immutable. It is safe
// for concurrent use.
type Rule struct {
	root lang.Node
	loc  *time.Location
	text string
}

// New compiles rule text. Parse failures return a ParseError and static type
// violations a TypeError, both before any data is touched.
func New(text string, opts ...Option) (*Rule, error) {
	cfg := config{loc: time.UTC}
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	root, err := lang.Parse(text, lang.WithTimezone(cfg.loc))
	if err != nil {
		return nil, err
	}

	root, err = lang.Infer(root, cfg.hints)
	if err != nil {
		return nil, err
	}

	return &Rule{root: root, loc: cfg.loc, text: text}, nil
}

// IsValid reports whether text compiles as a rule.
func IsValid(text string, opts ...Option) bool {
	_, err := New(text, opts...)

	return err == nil
}

// Text returns the source text the rule was compiled from.
func (r *Rule) Text() string { return r.text }

// Type returns the statically inferred result type of the rule.
func (r *Rule) Type() types.DataType { return r.root.Type() }

// Evaluate runs the rule against a resolution context and returns its value.
// A nil resolver evaluates rules with no free symbols.
func (r *Rule) Evaluate(res Resolver) (value.Value, error) {
	return newEvaluator(res, r.loc).eval(r.root)
}

// Matches runs the rule and reduces the result to its truthiness.
func (r *Rule) Matches(res Resolver) (bool, error) {
	v, err := r.Evaluate(res)
	if err != nil {
		return false, err
	}

	return v.Truthy(), nil
}

// Filter returns the items for which the rule matches, each item serving as
// the resolution context for its own evaluation. Order is preserved.
func (r *Rule) Filter(items []map[string]any) ([]map[string]any, error) {
	var out []map[string]any

	for _, item := range items {
		ok, err := r.Matches(MapResolver(item))
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, item)
		}
	}

	return out, nil
}
