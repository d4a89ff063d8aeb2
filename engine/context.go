package engine

import (
	"io"
	"log/slog"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/verdict/types"
	"github.com/ardnew/verdict/value"
)

// Resolver supplies values for the free symbols of a rule. Implementations
// return an error matching ErrNotFound for names they do not know; any other
// error aborts evaluation as-is.
type Resolver interface {
	ResolveSymbol(name string) (value.Value, error)
}

// AttributeResolver is the optional capability a Resolver may implement to
// supply attributes the builtin table does not define. It is consulted only
// after the builtin table and, for MAPPING bases, key lookup have missed.
type AttributeResolver interface {
	ResolveAttribute(base value.Value, name string) (value.Value, error)
}

// Enumerator is the optional capability a Resolver may implement to expose
// the names it can resolve. Enumerated names feed the ranked suggestions
// attached to resolution errors.
type Enumerator interface {
	SymbolNames() []string
}

// Defaulter is the optional capability a Resolver may implement to supply a
// fallback value for unresolvable symbols instead of failing.
type Defaulter interface {
	DefaultValue() (value.Value, bool)
}

// MapResolver resolves symbols from a plain Go map, coercing native values
// (the kinds YAML and JSON decoding produce, plus time.Time, time.Duration,
// and prebuilt Values) into runtime values on demand.
type MapResolver map[string]any

// ResolveSymbol implements Resolver.
func (m MapResolver) ResolveSymbol(name string) (value.Value, error) {
	native, ok := m[name]
	if !ok {
		return value.Null(), ErrNotFound.With(slog.String("symbol", name))
	}

	return value.FromNative(native)
}

// SymbolNames implements Enumerator, in sorted order.
func (m MapResolver) SymbolNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// NewYAMLResolver decodes a YAML mapping document into a MapResolver. The
// document's top-level keys become resolvable symbols. YAML also parses JSON
// documents, so either serialization works.
func NewYAMLResolver(r io.Reader) (MapResolver, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	err = yaml.Unmarshal(text, &doc)
	if err != nil {
		return nil, err
	}

	return MapResolver(doc), nil
}

// SymbolTypeHint implements lang.TypeHinter: symbols backed by convertible
// data are hinted with their runtime kind, sharpening static checks.
func (m MapResolver) SymbolTypeHint(name string) (types.DataType, bool) {
	native, ok := m[name]
	if !ok {
		return types.DataType{}, false
	}

	v, err := value.FromNative(native)
	if err != nil {
		return types.DataType{}, false
	}

	return types.Of(v.Kind()), true
}
