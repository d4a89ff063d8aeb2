package lang

import (
	"github.com/ardnew/verdict/types"
)

// TypeHinter is the optional capability a resolution context may implement
// to sharpen the static types of symbols it knows about. Symbols without a
// hint are typed Undefined and checked at runtime instead.
type TypeHinter interface {
	SymbolTypeHint(name string) (types.DataType, bool)
}

// Infer walks the tree once, bottom-up, assigning each node its inferred
// result type and validating operand compatibility against the static
// tables in the types package. It runs with no data present, so a rule can
// be validated against a schema alone.
//
// Infer returns the annotated tree; afterwards no node is mutated again.
func Infer(root Node, hints TypeHinter) (Node, error) {
	in := &inferencer{hints: hints, scope: map[string]types.DataType{}}

	err := in.walk(root)
	if err != nil {
		return nil, err
	}

	return root, nil
}

type inferencer struct {
	hints TypeHinter
	scope map[string]types.DataType // comprehension loop variables
}

//nolint:cyclop,funlen,gocognit
func (in *inferencer) walk(n Node) error {
	switch n := n.(type) {
	case *Literal:
		n.setType(types.Of(n.Val.Kind()))

	case *Symbol:
		if t, ok := in.scope[n.Name]; ok {
			n.setType(t)

			break
		}

		if in.hints != nil {
			if t, ok := in.hints.SymbolTypeHint(n.Name); ok {
				n.setType(t)

				break
			}
		}

		n.setType(types.Of(types.Undefined))

	case *BuiltinSymbol:
		n.setType(types.Of(types.Undefined))

	case *Call:
		if err := in.walkAll(n.Args...); err != nil {
			return err
		}

		// The builtin namespace is an evaluation concern; name resolution and
		// argument counts are checked there.
		n.setType(types.Of(types.Undefined))

	case *Attribute:
		if err := in.walk(n.Object); err != nil {
			return err
		}

		// Attribute sets are a runtime property (builtin table first, then
		// the context), so the result type cannot be known statically.
		n.setType(types.Of(types.Undefined))

	case *Index:
		return in.inferIndex(n)

	case *Slice:
		return in.inferSlice(n)

	case *Unary:
		return in.inferUnary(n)

	case *Arithmetic:
		return in.inferArithmetic(n)

	case *Compare:
		if err := in.walkAll(n.Left, n.Right); err != nil {
			return err
		}

		if n.Op.Ordered() {
			lk, rk := n.Left.Type().Kind, n.Right.Type().Kind
			if !types.CanOrder(lk, rk) {
				return newTypeError(
					n.Pos(),
					"matching orderable kinds",
					lk.String()+" "+n.Op.String()+" "+rk.String(),
				)
			}
		}

		n.setType(types.Of(types.Boolean))

	case *Match:
		if err := in.walkAll(n.Left, n.Right); err != nil {
			return err
		}

		lk, rk := n.Left.Type().Kind, n.Right.Type().Kind
		if !types.CanMatch(lk, rk) {
			return newTypeError(
				n.Pos(),
				"STRING "+n.Op.String()+" STRING",
				lk.String()+" "+n.Op.String()+" "+rk.String(),
			)
		}

		n.setType(types.Of(types.Boolean))

	case *Contains:
		if err := in.walkAll(n.Member, n.Container); err != nil {
			return err
		}

		if ck := n.Container.Type().Kind; !types.CanContain(ck) {
			return newTypeError(n.Pos(), "ARRAY, SET, or MAPPING", ck.String())
		}

		n.setType(types.Of(types.Boolean))

	case *Logic:
		if err := in.walkAll(n.Left, n.Right); err != nil {
			return err
		}

		n.setType(types.Of(types.Boolean))

	case *Ternary:
		if err := in.walkAll(n.Cond, n.Then, n.Else); err != nil {
			return err
		}

		if n.Then.Type() == n.Else.Type() {
			n.setType(n.Then.Type())
		} else {
			n.setType(types.Of(types.Undefined))
		}

	case *ArrayLit:
		member, nullable, err := in.inferMembers(n.Elements)
		if err != nil {
			return err
		}

		n.setType(types.ArrayOf(member, nullable))

	case *SetLit:
		member, nullable, err := in.inferMembers(n.Elements)
		if err != nil {
			return err
		}

		n.setType(types.SetOf(member, nullable))

	case *MapLit:
		return in.inferMapLit(n)

	case *Comprehension:
		return in.inferComprehension(n)
	}

	return nil
}

func (in *inferencer) walkAll(nodes ...Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}

		if err := in.walk(n); err != nil {
			return err
		}
	}

	return nil
}

func (in *inferencer) inferIndex(n *Index) error {
	if err := in.walkAll(n.Object, n.Key); err != nil {
		return err
	}

	obj := n.Object.Type()

	switch obj.Kind {
	case types.Undefined, types.Null:
		// Null passes here only for safe access; plain access on a known
		// NULL still fails, at runtime, to keep safe and plain forms
		// distinguishable.
		n.setType(types.Of(types.Undefined))

	case types.String:
		n.setType(types.Of(types.String))

	case types.Array:
		if k, ok := obj.Member.Single(); ok && !obj.Nullable {
			n.setType(types.Of(k))
		} else {
			n.setType(types.Of(types.Undefined))
		}

	case types.Mapping:
		if k, ok := obj.Value.Single(); ok && !obj.Nullable {
			n.setType(types.Of(k))
		} else {
			n.setType(types.Of(types.Undefined))
		}

	default:
		return newTypeError(n.Pos(), "ARRAY, MAPPING, or STRING", obj.Kind.String())
	}

	if kk := n.Key.Type().Kind; obj.Kind == types.Array && !(kk == types.Undefined || kk == types.Float) {
		return newTypeError(n.Pos(), "FLOAT index", kk.String())
	}

	return nil
}

func (in *inferencer) inferSlice(n *Slice) error {
	if err := in.walkAll(n.Object, n.Lo, n.Hi); err != nil {
		return err
	}

	obj := n.Object.Type()

	switch obj.Kind {
	case types.Undefined, types.Null, types.String, types.Array:
	default:
		return newTypeError(n.Pos(), "ARRAY or STRING", obj.Kind.String())
	}

	for _, bound := range []Node{n.Lo, n.Hi} {
		if bound == nil {
			continue
		}

		if bk := bound.Type().Kind; bk != types.Undefined && bk != types.Float {
			return newTypeError(n.Pos(), "FLOAT slice bound", bk.String())
		}
	}

	if obj.Kind == types.Null {
		n.setType(types.Of(types.Undefined))
	} else {
		n.setType(obj)
	}

	return nil
}

func (in *inferencer) inferUnary(n *Unary) error {
	if err := in.walk(n.Operand); err != nil {
		return err
	}

	if n.Op == OpNot {
		n.setType(types.Of(types.Boolean))

		return nil
	}

	ok := types.CanNegate(n.Operand.Type().Kind)
	if !ok {
		return newTypeError(
			n.Pos(),
			"FLOAT or TIMEDELTA",
			n.Operand.Type().Kind.String(),
		)
	}

	n.setType(n.Operand.Type())

	return nil
}

func (in *inferencer) inferArithmetic(n *Arithmetic) error {
	if err := in.walkAll(n.Left, n.Right); err != nil {
		return err
	}

	lk, rk := n.Left.Type().Kind, n.Right.Type().Kind
	actual := lk.String() + " " + n.Op.String() + " " + rk.String()

	switch n.Op {
	case OpAdd:
		if !types.CanAdd(lk, rk) {
			return newTypeError(n.Pos(), "addable operand kinds", actual)
		}

		n.setType(types.Of(types.AddKind(lk, rk)))

	case OpSub:
		if !types.CanSubtract(lk, rk) {
			return newTypeError(n.Pos(), "subtractable operand kinds", actual)
		}

		n.setType(types.Of(types.SubtractKind(lk, rk)))

	default:
		if !types.CanArithmetic(lk, rk) {
			return newTypeError(n.Pos(), "FLOAT "+n.Op.String()+" FLOAT", actual)
		}

		n.setType(types.Of(types.Float))
	}

	return nil
}

// inferMembers computes the member kind union and nullability of ARRAY and
// SET literals. Elements of unknown type contribute nothing to the union.
func (in *inferencer) inferMembers(elements []Node) (types.KindSet, bool, error) {
	var member types.KindSet

	nullable := false

	for _, el := range elements {
		if err := in.walk(el); err != nil {
			return 0, false, err
		}

		switch k := el.Type().Kind; k {
		case types.Undefined:
		case types.Null:
			nullable = true
		default:
			member = member.Add(k)
		}
	}

	return member, nullable, nil
}

func (in *inferencer) inferMapLit(n *MapLit) error {
	var keys, vals types.KindSet

	nullable := false

	for i := range n.Keys {
		if err := in.walkAll(n.Keys[i], n.Values[i]); err != nil {
			return err
		}

		kk := n.Keys[i].Type().Kind
		if kk.Container() {
			return newTypeError(n.Pos(), "hashable MAPPING key", kk.String())
		}

		if kk != types.Undefined {
			keys = keys.Add(kk)
		}

		switch vk := n.Values[i].Type().Kind; vk {
		case types.Undefined:
		case types.Null:
			nullable = true
		default:
			vals = vals.Add(vk)
		}
	}

	n.setType(types.MappingOf(keys, vals, nullable))

	return nil
}

func (in *inferencer) inferComprehension(n *Comprehension) error {
	if err := in.walk(n.Source); err != nil {
		return err
	}

	src := n.Source.Type()

	switch src.Kind {
	case types.Undefined, types.Array, types.Set, types.Mapping, types.String:
	default:
		return newTypeError(n.Pos(), "an iterable source", src.Kind.String())
	}

	// Bind the loop symbol for the body, shadowing any outer binding, and
	// restore on the way out.
	prev, had := in.scope[n.Sym]
	in.scope[n.Sym] = loopElementType(src)

	err := in.walkAll(n.Cond, n.Key, n.Value)

	if had {
		in.scope[n.Sym] = prev
	} else {
		delete(in.scope, n.Sym)
	}

	if err != nil {
		return err
	}

	var member types.KindSet

	if vk := n.Value.Type().Kind; vk != types.Undefined && vk != types.Null {
		member = member.Add(vk)
	}

	nullable := n.Value.Type().Kind == types.Null

	switch n.Form {
	case CompArray:
		n.setType(types.ArrayOf(member, nullable))

	case CompSet:
		n.setType(types.SetOf(member, nullable))

	case CompMap:
		var keys types.KindSet

		if kk := n.Key.Type().Kind; kk != types.Undefined {
			if kk.Container() {
				return newTypeError(n.Pos(), "hashable MAPPING key", kk.String())
			}

			keys = keys.Add(kk)
		}

		n.setType(types.MappingOf(keys, member, nullable))
	}

	return nil
}

// loopElementType returns the static type bound to a comprehension loop
// symbol for a source of the given type.
func loopElementType(src types.DataType) types.DataType {
	switch src.Kind {
	case types.String:
		return types.Of(types.String)

	case types.Array, types.Set:
		if k, ok := src.Member.Single(); ok && !src.Nullable {
			return types.Of(k)
		}

	case types.Mapping:
		// Iterating a mapping yields its keys.
		if k, ok := src.Key.Single(); ok {
			return types.Of(k)
		}
	}

	return types.Of(types.Undefined)
}
