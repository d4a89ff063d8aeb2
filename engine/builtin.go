package engine

import (
	"strconv"
	"strings"

	"github.com/ardnew/verdict/lang"
	"github.com/ardnew/verdict/types"
	"github.com/ardnew/verdict/value"
)

// builtinFunc computes a builtin attribute of its receiver. The receiver kind
// has already been checked against the table.
type builtinFunc func(pos lang.Pos, recv value.Value) (value.Value, error)

// builtinAttrs is the per-kind attribute table consulted before the context.
// Builtin attributes cannot be shadowed by resolved data.
var builtinAttrs = map[types.Kind]map[string]builtinFunc{
	types.Float: {
		"ceiling": builtinCeiling,
		"floor":   builtinFloor,
		"to_str":  builtinToStr,
	},
	types.String: {
		"to_ary": builtinToAry,
		"to_int": builtinToInt,
		"to_flt": builtinToFlt,
	},
	types.Datetime: {
		"to_epoch": builtinToEpoch,
	},
}

// builtinAttrNames returns the builtin attribute names defined for a kind,
// for suggestion ranking.
func builtinAttrNames(kind types.Kind) []string {
	table, ok := builtinAttrs[kind]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}

	return names
}

// builtinSymbolNames lists the $-sigil namespace, for suggestion ranking.
var builtinSymbolNames = []string{
	"re_groups",
	"any",
	"all",
	"sum",
	"parse_datetime",
	"parse_timedelta",
}

// builtinCall applies a builtin function to already-evaluated arguments. Each
// function takes a fixed number of arguments; the evaluator rejects any other
// count before apply runs.
type builtinCall struct {
	apply func(ev *evaluator, pos lang.Pos, args []value.Value) (value.Value, error)
	arity int
}

// builtinFuncs is the callable half of the $-sigil namespace.
var builtinFuncs = map[string]builtinCall{
	"any":             {apply: builtinAny, arity: 1},
	"all":             {apply: builtinAll, arity: 1},
	"sum":             {apply: builtinSum, arity: 1},
	"parse_datetime":  {apply: builtinParseDatetime, arity: 1},
	"parse_timedelta": {apply: builtinParseTimedelta, arity: 1},
}

// iterableArg returns the sequence a container argument yields when iterated:
// elements for ARRAY and SET, keys for MAPPING.
func iterableArg(pos lang.Pos, name string, v value.Value) ([]value.Value, error) {
	switch v.Kind() {
	case types.Array, types.Set:
		return v.Items(), nil

	case types.Mapping:
		return v.Map().Keys(), nil

	default:
		return nil, newFunctionCallError(
			pos, name, "argument is not iterable: "+v.Kind().String(),
		)
	}
}

func builtinAny(_ *evaluator, pos lang.Pos, args []value.Value) (value.Value, error) {
	items, err := iterableArg(pos, "any", args[0])
	if err != nil {
		return value.Null(), err
	}

	for _, el := range items {
		if el.Truthy() {
			return value.Bool(true), nil
		}
	}

	return value.Bool(false), nil
}

func builtinAll(_ *evaluator, pos lang.Pos, args []value.Value) (value.Value, error) {
	items, err := iterableArg(pos, "all", args[0])
	if err != nil {
		return value.Null(), err
	}

	for _, el := range items {
		if !el.Truthy() {
			return value.Bool(false), nil
		}
	}

	return value.Bool(true), nil
}

func builtinSum(_ *evaluator, pos lang.Pos, args []value.Value) (value.Value, error) {
	items, err := iterableArg(pos, "sum", args[0])
	if err != nil {
		return value.Null(), err
	}

	total := value.FloatFromInt(0)

	for _, el := range items {
		if el.Kind() != types.Float {
			return value.Null(), newFunctionCallError(
				pos, "sum", "cannot sum "+el.Kind().String()+" elements",
			)
		}

		total, err = value.Add(total, el)
		if err != nil {
			return value.Null(), newFunctionCallError(pos, "sum", err.Error())
		}
	}

	return total, nil
}

func builtinParseDatetime(ev *evaluator, pos lang.Pos, args []value.Value) (value.Value, error) {
	if args[0].Kind() != types.String {
		return value.Null(), newFunctionCallError(
			pos, "parse_datetime", "argument is not a STRING: "+args[0].Kind().String(),
		)
	}

	t, err := value.ParseDatetime(args[0].Str(), ev.loc)
	if err != nil {
		return value.Null(), newFunctionCallError(pos, "parse_datetime", err.Error())
	}

	return value.Time(t), nil
}

func builtinParseTimedelta(_ *evaluator, pos lang.Pos, args []value.Value) (value.Value, error) {
	if args[0].Kind() != types.String {
		return value.Null(), newFunctionCallError(
			pos, "parse_timedelta", "argument is not a STRING: "+args[0].Kind().String(),
		)
	}

	d, err := value.ParseTimedelta(args[0].Str())
	if err != nil {
		return value.Null(), newFunctionCallError(pos, "parse_timedelta", err.Error())
	}

	return value.Duration(d), nil
}

func builtinCeiling(pos lang.Pos, recv value.Value) (value.Value, error) {
	out, err := value.Ceil(recv)
	if err != nil {
		return value.Null(), newFunctionCallError(pos, "ceiling", err.Error())
	}

	return out, nil
}

func builtinFloor(pos lang.Pos, recv value.Value) (value.Value, error) {
	out, err := value.Floor(recv)
	if err != nil {
		return value.Null(), newFunctionCallError(pos, "floor", err.Error())
	}

	return out, nil
}

func builtinToStr(_ lang.Pos, recv value.Value) (value.Value, error) {
	return value.Str(recv.Decimal().Text('f')), nil
}

// builtinToAry splits a STRING into an ARRAY of its single-rune strings.
func builtinToAry(_ lang.Pos, recv value.Value) (value.Value, error) {
	runes := []rune(recv.Str())

	elements := make([]value.Value, len(runes))
	for i, r := range runes {
		elements[i] = value.Str(string(r))
	}

	return value.Array(elements...), nil
}

func builtinToInt(pos lang.Pos, recv value.Value) (value.Value, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(recv.Str()), 10, 64)
	if err != nil {
		return value.Null(), newFunctionCallError(
			pos, "to_int", "string is not an integer: "+strconv.Quote(recv.Str()),
		)
	}

	return value.FloatFromInt(n), nil
}

func builtinToFlt(pos lang.Pos, recv value.Value) (value.Value, error) {
	out, err := value.FloatFromString(strings.TrimSpace(recv.Str()))
	if err != nil {
		return value.Null(), newFunctionCallError(
			pos, "to_flt", "string is not a number: "+strconv.Quote(recv.Str()),
		)
	}

	return out, nil
}

func builtinToEpoch(_ lang.Pos, recv value.Value) (value.Value, error) {
	return value.EpochSeconds(recv.Time()), nil
}
