package engine

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/ardnew/verdict/lang"
	"github.com/ardnew/verdict/types"
	"github.com/ardnew/verdict/value"
)

// evaluator holds the per-evaluation state of a single Evaluate call: the
// resolution context, comprehension loop bindings, and the capture groups of
// the most recent successful regex match. A fresh evaluator is built per call
// so a compiled Rule stays safe for concurrent use.
type evaluator struct {
	res      Resolver
	loc      *time.Location
	scope    map[string]value.Value
	reGroups value.Value
}

func newEvaluator(res Resolver, loc *time.Location) *evaluator {
	return &evaluator{
		res:      res,
		loc:      loc,
		scope:    map[string]value.Value{},
		reGroups: value.Null(),
	}
}

//nolint:cyclop
func (ev *evaluator) eval(n lang.Node) (value.Value, error) {
	switch n := n.(type) {
	case *lang.Literal:
		return n.Val, nil

	case *lang.Symbol:
		return ev.evalSymbol(n)

	case *lang.BuiltinSymbol:
		return ev.evalBuiltinSymbol(n)

	case *lang.Call:
		return ev.evalCall(n)

	case *lang.Attribute:
		return ev.evalAttribute(n)

	case *lang.Index:
		return ev.evalIndex(n)

	case *lang.Slice:
		return ev.evalSlice(n)

	case *lang.Unary:
		return ev.evalUnary(n)

	case *lang.Arithmetic:
		return ev.evalArithmetic(n)

	case *lang.Compare:
		return ev.evalCompare(n)

	case *lang.Match:
		return ev.evalMatch(n)

	case *lang.Contains:
		return ev.evalContains(n)

	case *lang.Logic:
		return ev.evalLogic(n)

	case *lang.Ternary:
		return ev.evalTernary(n)

	case *lang.ArrayLit:
		return ev.evalArrayLit(n)

	case *lang.SetLit:
		return ev.evalSetLit(n)

	case *lang.MapLit:
		return ev.evalMapLit(n)

	case *lang.Comprehension:
		return ev.evalComprehension(n)

	default:
		return value.Null(), fmt.Errorf("unhandled node %T at %s", n, n.Pos())
	}
}

func (ev *evaluator) evalSymbol(n *lang.Symbol) (value.Value, error) {
	if v, ok := ev.scope[n.Name]; ok {
		return v, nil
	}

	if ev.res != nil {
		v, err := ev.res.ResolveSymbol(n.Name)
		if err == nil {
			return v, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return value.Null(), err
		}

		if d, ok := ev.res.(Defaulter); ok {
			if v, ok := d.DefaultValue(); ok {
				return v, nil
			}
		}
	}

	return value.Null(), &SymbolResolutionError{
		Name:        n.Name,
		Suggestions: suggest(n.Name, ev.knownNames()),
		Pos:         n.Pos(),
	}
}

// knownNames collects the names the context enumerates plus the loop symbols
// currently in scope.
func (ev *evaluator) knownNames() []string {
	var names []string

	if e, ok := ev.res.(Enumerator); ok {
		names = append(names, e.SymbolNames()...)
	}

	for name := range ev.scope {
		names = append(names, name)
	}

	return names
}

func (ev *evaluator) evalBuiltinSymbol(n *lang.BuiltinSymbol) (value.Value, error) {
	if n.Name == "re_groups" {
		return ev.reGroups, nil
	}

	if _, ok := builtinFuncs[n.Name]; ok {
		return value.Null(), newFunctionCallError(
			n.Pos(), n.Name, "builtin function must be called",
		)
	}

	return value.Null(), &SymbolResolutionError{
		Name:        "$" + n.Name,
		Suggestions: suggest(n.Name, builtinSymbolNames),
		Pos:         n.Pos(),
	}
}

func (ev *evaluator) evalCall(n *lang.Call) (value.Value, error) {
	fn, ok := builtinFuncs[n.Name]
	if !ok {
		if n.Name == "re_groups" {
			return value.Null(), newFunctionCallError(
				n.Pos(), n.Name, "builtin symbol is not callable",
			)
		}

		return value.Null(), &SymbolResolutionError{
			Name:        "$" + n.Name,
			Suggestions: suggest(n.Name, builtinSymbolNames),
			Pos:         n.Pos(),
		}
	}

	if len(n.Args) != fn.arity {
		return value.Null(), newFunctionCallError(
			n.Pos(), n.Name,
			fmt.Sprintf("expected %d argument(s), got %d", fn.arity, len(n.Args)),
		)
	}

	args := make([]value.Value, len(n.Args))

	for i, arg := range n.Args {
		v, err := ev.eval(arg)
		if err != nil {
			return value.Null(), err
		}

		args[i] = v
	}

	return fn.apply(ev, n.Pos(), args)
}

func (ev *evaluator) evalAttribute(n *lang.Attribute) (value.Value, error) {
	obj, err := ev.eval(n.Object)
	if err != nil {
		return value.Null(), err
	}

	if n.Safe && obj.IsNull() {
		return value.Null(), nil
	}

	if table, ok := builtinAttrs[obj.Kind()]; ok {
		if fn, ok := table[n.Name]; ok {
			return fn(n.Pos(), obj)
		}
	}

	// A MAPPING exposes its string keys as attributes, matching dotted access
	// into decoded documents.
	if obj.Kind() == types.Mapping {
		if v, ok, err := obj.Map().Get(value.Str(n.Name)); err == nil && ok {
			return v, nil
		}
	}

	if r, ok := ev.res.(AttributeResolver); ok {
		v, err := r.ResolveAttribute(obj, n.Name)
		if err == nil {
			return v, nil
		}

		if !errors.Is(err, ErrNotFound) {
			return value.Null(), err
		}
	}

	// The default-value policy covers attributes as well as symbols.
	if d, ok := ev.res.(Defaulter); ok {
		if v, ok := d.DefaultValue(); ok {
			return v, nil
		}
	}

	return value.Null(), &AttributeResolutionError{
		Name:        n.Name,
		Suggestions: suggest(n.Name, attributeNames(obj)),
		Pos:         n.Pos(),
	}
}

// attributeNames collects the attributes defined for a value: its kind's
// builtin table plus, for MAPPING, its string keys.
func attributeNames(obj value.Value) []string {
	names := builtinAttrNames(obj.Kind())

	if obj.Kind() == types.Mapping {
		for _, k := range obj.Map().Keys() {
			if k.Kind() == types.String {
				names = append(names, k.Str())
			}
		}
	}

	return names
}

func (ev *evaluator) evalIndex(n *lang.Index) (value.Value, error) {
	obj, err := ev.eval(n.Object)
	if err != nil {
		return value.Null(), err
	}

	if n.Safe && obj.IsNull() {
		return value.Null(), nil
	}

	key, err := ev.eval(n.Key)
	if err != nil {
		return value.Null(), err
	}

	switch obj.Kind() {
	case types.Array:
		return itemAt(n.Pos(), obj.Items(), key)

	case types.String:
		runes := []rune(obj.Str())

		elements := make([]value.Value, len(runes))
		for i, r := range runes {
			elements[i] = value.Str(string(r))
		}

		return itemAt(n.Pos(), elements, key)

	case types.Mapping:
		v, ok, err := obj.Map().Get(key)
		if err != nil {
			return value.Null(), lang.NewRuntimeTypeError(
				n.Pos(), "a hashable key", key.Kind(),
			)
		}

		if !ok {
			return value.Null(), newFunctionCallError(
				n.Pos(), "getitem", "key not found: "+key.String(),
			)
		}

		return v, nil

	default:
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "ARRAY, MAPPING, or STRING", obj.Kind(),
		)
	}
}

// itemAt retrieves a positional element, counting from the end for negative
// indices. Out-of-range positions fail as lookup errors.
func itemAt(pos lang.Pos, items []value.Value, key value.Value) (value.Value, error) {
	i, err := indexOf(pos, key, "getitem")
	if err != nil {
		return value.Null(), err
	}

	if i < 0 {
		i += len(items)
	}

	if i < 0 || i >= len(items) {
		return value.Null(), newFunctionCallError(
			pos, "getitem", "index out of range: "+key.String(),
		)
	}

	return items[i], nil
}

// indexOf converts a FLOAT value to an integral index.
func indexOf(pos lang.Pos, key value.Value, fname string) (int, error) {
	if key.Kind() != types.Float {
		return 0, lang.NewRuntimeTypeError(pos, "FLOAT index", key.Kind())
	}

	i, err := key.Decimal().Int64()
	if err != nil {
		return 0, newFunctionCallError(
			pos, fname, "index is not an integer: "+key.String(),
		)
	}

	return int(i), nil
}

func (ev *evaluator) evalSlice(n *lang.Slice) (value.Value, error) {
	obj, err := ev.eval(n.Object)
	if err != nil {
		return value.Null(), err
	}

	if n.Safe && obj.IsNull() {
		return value.Null(), nil
	}

	var length int

	switch obj.Kind() {
	case types.Array:
		length = len(obj.Items())
	case types.String:
		length = len([]rune(obj.Str()))
	default:
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "ARRAY or STRING", obj.Kind(),
		)
	}

	lo, err := ev.sliceBound(n.Pos(), n.Lo, 0, length)
	if err != nil {
		return value.Null(), err
	}

	hi, err := ev.sliceBound(n.Pos(), n.Hi, length, length)
	if err != nil {
		return value.Null(), err
	}

	if hi < lo {
		hi = lo
	}

	if obj.Kind() == types.String {
		return value.Str(string([]rune(obj.Str())[lo:hi])), nil
	}

	out := make([]value.Value, hi-lo)
	copy(out, obj.Items()[lo:hi])

	return value.Array(out...), nil
}

// sliceBound resolves one bound of a slice: nil defaults, negatives count
// from the end, and the result is clamped to [0, length].
func (ev *evaluator) sliceBound(pos lang.Pos, bound lang.Node, def, length int) (int, error) {
	if bound == nil {
		return def, nil
	}

	key, err := ev.eval(bound)
	if err != nil {
		return 0, err
	}

	i, err := indexOf(pos, key, "getslice")
	if err != nil {
		return 0, err
	}

	if i < 0 {
		i += length
	}

	if i < 0 {
		i = 0
	}

	if i > length {
		i = length
	}

	return i, nil
}

func (ev *evaluator) evalUnary(n *lang.Unary) (value.Value, error) {
	operand, err := ev.eval(n.Operand)
	if err != nil {
		return value.Null(), err
	}

	if n.Op == lang.OpNot {
		return value.Bool(!operand.Truthy()), nil
	}

	out, err := value.Neg(operand)
	if err != nil {
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "FLOAT or TIMEDELTA", operand.Kind(),
		)
	}

	return out, nil
}

func (ev *evaluator) evalArithmetic(n *lang.Arithmetic) (value.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value.Null(), err
	}

	right, err := ev.eval(n.Right)
	if err != nil {
		return value.Null(), err
	}

	var out value.Value

	switch n.Op {
	case lang.OpAdd:
		out, err = value.Add(left, right)
	case lang.OpSub:
		out, err = value.Sub(left, right)
	case lang.OpMul:
		out, err = value.Mul(left, right)
	case lang.OpDiv:
		out, err = value.Div(left, right)
	case lang.OpFloorDiv:
		out, err = value.FloorDiv(left, right)
	case lang.OpMod:
		out, err = value.Mod(left, right)
	case lang.OpPow:
		out, err = value.Pow(left, right)
	}

	switch {
	case err == nil:
		return out, nil

	case errors.Is(err, value.ErrTypeMismatch):
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(),
			"compatible operands for "+n.Op.String(),
			left.Kind(),
		)

	default:
		// Division by zero and decimal operation faults alike.
		return value.Null(), newArithmeticError(n.Pos(), err)
	}
}

func (ev *evaluator) evalCompare(n *lang.Compare) (value.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value.Null(), err
	}

	right, err := ev.eval(n.Right)
	if err != nil {
		return value.Null(), err
	}

	switch n.Op {
	case lang.OpEq:
		return value.Bool(value.Equal(left, right)), nil

	case lang.OpNe:
		return value.Bool(!value.Equal(left, right)), nil
	}

	// Ordering between incompatible runtime kinds is an error even though
	// equality between them is simply false.
	cmp, err := value.Compare(left, right)
	if err != nil {
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(),
			"matching orderable kinds for "+n.Op.String(),
			left.Kind(),
		)
	}

	var out bool

	switch n.Op {
	case lang.OpLt:
		out = cmp < 0
	case lang.OpLe:
		out = cmp <= 0
	case lang.OpGt:
		out = cmp > 0
	case lang.OpGe:
		out = cmp >= 0
	}

	return value.Bool(out), nil
}

func (ev *evaluator) evalMatch(n *lang.Match) (value.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value.Null(), err
	}

	right, err := ev.eval(n.Right)
	if err != nil {
		return value.Null(), err
	}

	if right.Kind() != types.String {
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "STRING pattern", right.Kind(),
		)
	}

	// A NULL subject never matches, without error, so optional fields can be
	// tested directly.
	if left.IsNull() {
		return value.Bool(n.Op.Negated()), nil
	}

	if left.Kind() != types.String {
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "STRING or NULL subject", left.Kind(),
		)
	}

	pattern := right.Str()
	if n.Op.Anchored() {
		pattern = `\A(?:` + pattern + `)`
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return value.Null(), newFunctionCallError(
			n.Pos(), n.Op.String(), "invalid pattern: "+err.Error(),
		)
	}

	subject := left.Str()

	idx := re.FindStringSubmatchIndex(subject)
	if idx != nil {
		ev.recordGroups(subject, idx)
	}

	matched := idx != nil

	return value.Bool(matched != n.Op.Negated()), nil
}

// recordGroups stores the capture groups of a successful match for
// $re_groups: one STRING per participating group, NULL for groups that did
// not participate.
func (ev *evaluator) recordGroups(subject string, idx []int) {
	count := len(idx)/2 - 1

	groups := make([]value.Value, count)

	for g := 1; g <= count; g++ {
		lo, hi := idx[2*g], idx[2*g+1]
		if lo < 0 {
			groups[g-1] = value.Null()
		} else {
			groups[g-1] = value.Str(subject[lo:hi])
		}
	}

	ev.reGroups = value.Array(groups...)
}

func (ev *evaluator) evalContains(n *lang.Contains) (value.Value, error) {
	member, err := ev.eval(n.Member)
	if err != nil {
		return value.Null(), err
	}

	container, err := ev.eval(n.Container)
	if err != nil {
		return value.Null(), err
	}

	ok, err := container.Contains(member)
	if err != nil {
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "ARRAY, SET, or MAPPING", container.Kind(),
		)
	}

	return value.Bool(ok), nil
}

func (ev *evaluator) evalLogic(n *lang.Logic) (value.Value, error) {
	left, err := ev.eval(n.Left)
	if err != nil {
		return value.Null(), err
	}

	if n.Op == lang.OpAnd && !left.Truthy() {
		return value.Bool(false), nil
	}

	if n.Op == lang.OpOr && left.Truthy() {
		return value.Bool(true), nil
	}

	right, err := ev.eval(n.Right)
	if err != nil {
		return value.Null(), err
	}

	return value.Bool(right.Truthy()), nil
}

func (ev *evaluator) evalTernary(n *lang.Ternary) (value.Value, error) {
	cond, err := ev.eval(n.Cond)
	if err != nil {
		return value.Null(), err
	}

	if cond.Truthy() {
		return ev.eval(n.Then)
	}

	return ev.eval(n.Else)
}

func (ev *evaluator) evalArrayLit(n *lang.ArrayLit) (value.Value, error) {
	elements, err := ev.evalAll(n.Elements)
	if err != nil {
		return value.Null(), err
	}

	return value.Array(elements...), nil
}

func (ev *evaluator) evalSetLit(n *lang.SetLit) (value.Value, error) {
	elements, err := ev.evalAll(n.Elements)
	if err != nil {
		return value.Null(), err
	}

	out, err := value.NewSet(elements)
	if err != nil {
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "hashable SET members", types.Set,
		)
	}

	return out, nil
}

func (ev *evaluator) evalMapLit(n *lang.MapLit) (value.Value, error) {
	keys, err := ev.evalAll(n.Keys)
	if err != nil {
		return value.Null(), err
	}

	vals, err := ev.evalAll(n.Values)
	if err != nil {
		return value.Null(), err
	}

	return ev.newMapping(n.Pos(), keys, vals)
}

func (ev *evaluator) newMapping(pos lang.Pos, keys, vals []value.Value) (value.Value, error) {
	out, err := value.NewMapping(keys, vals)
	if err != nil {
		return value.Null(), lang.NewRuntimeTypeError(
			pos, "hashable MAPPING keys", types.Mapping,
		)
	}

	return out, nil
}

func (ev *evaluator) evalAll(nodes []lang.Node) ([]value.Value, error) {
	out := make([]value.Value, len(nodes))

	for i, n := range nodes {
		v, err := ev.eval(n)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

//nolint:cyclop
func (ev *evaluator) evalComprehension(n *lang.Comprehension) (value.Value, error) {
	source, err := ev.eval(n.Source)
	if err != nil {
		return value.Null(), err
	}

	var elements []value.Value

	switch source.Kind() {
	case types.Array, types.Set:
		elements = source.Items()

	case types.Mapping:
		elements = source.Map().Keys()

	case types.String:
		runes := []rune(source.Str())

		elements = make([]value.Value, len(runes))
		for i, r := range runes {
			elements[i] = value.Str(string(r))
		}

	default:
		return value.Null(), lang.NewRuntimeTypeError(
			n.Pos(), "an iterable source", source.Kind(),
		)
	}

	// Bind the loop symbol for the body, shadowing any outer binding, and
	// restore on the way out.
	prev, had := ev.scope[n.Sym]

	defer func() {
		if had {
			ev.scope[n.Sym] = prev
		} else {
			delete(ev.scope, n.Sym)
		}
	}()

	keys := make([]value.Value, 0, len(elements))
	vals := make([]value.Value, 0, len(elements))

	for _, el := range elements {
		ev.scope[n.Sym] = el

		if n.Cond != nil {
			keep, err := ev.eval(n.Cond)
			if err != nil {
				return value.Null(), err
			}

			if !keep.Truthy() {
				continue
			}
		}

		v, err := ev.eval(n.Value)
		if err != nil {
			return value.Null(), err
		}

		vals = append(vals, v)

		if n.Form == lang.CompMap {
			k, err := ev.eval(n.Key)
			if err != nil {
				return value.Null(), err
			}

			keys = append(keys, k)
		}
	}

	switch n.Form {
	case lang.CompArray:
		return value.Array(vals...), nil

	case lang.CompSet:
		out, err := value.NewSet(vals)
		if err != nil {
			return value.Null(), lang.NewRuntimeTypeError(
				n.Pos(), "hashable SET members", types.Set,
			)
		}

		return out, nil

	default:
		return ev.newMapping(n.Pos(), keys, vals)
	}
}
