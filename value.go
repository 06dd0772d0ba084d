package stitch

import (
	"errors"
	"fmt"

	"go.starlark.net/starlark"
	"shanhu.io/misc/errcode"
)

type valueKind int

const (
	literalValue valueKind = iota
	sequenceValue
	deferredValue
)

// DeferFunc computes a deferred value in the context of the target that
// forces it.
type DeferFunc func(t *Target) (Value, error)

// Value is a configuration value that might not be known until the whole
// graph is loaded. It is one of a literal string, a sequence of values, or
// a deferred computation.
type Value struct {
	kind  valueKind
	str   string
	items []Value
	f     DeferFunc
}

// Literal makes a literal value.
func Literal(s string) Value { return Value{kind: literalValue, str: s} }

// Sequence makes a sequence value.
func Sequence(items ...Value) Value {
	return Value{kind: sequenceValue, items: items}
}

// Literals makes a sequence of literal values.
func Literals(strs ...string) Value {
	items := make([]Value, len(strs))
	for i, s := range strs {
		items[i] = Literal(s)
	}
	return Sequence(items...)
}

// Deferred makes a value that is computed when forced.
func Deferred(f DeferFunc) Value { return Value{kind: deferredValue, f: f} }

// IsDeferred checks if the value is a deferred computation.
func (v Value) IsDeferred() bool { return v.kind == deferredValue }

// IsSequence checks if the value is a sequence.
func (v Value) IsSequence() bool { return v.kind == sequenceValue }

var errNestedDeferred = errors.New("deferred value resolved to another deferred value")

// forceOne resolves a deferred value. Only one level of deferral is
// allowed.
func forceOne(t *Target, v Value) (Value, error) {
	if v.kind != deferredValue {
		return v, nil
	}
	got, err := v.f(t)
	if err != nil {
		return Value{}, err
	}
	if hasDeferred(got) {
		return Value{}, errNestedDeferred
	}
	return got, nil
}

func hasDeferred(v Value) bool {
	if v.kind == deferredValue {
		return true
	}
	for _, item := range v.items {
		if hasDeferred(item) {
			return true
		}
	}
	return false
}

// Force resolves v into a list of strings. Sequences are flattened.
func Force(t *Target, v Value) ([]string, error) {
	switch v.kind {
	case literalValue:
		return []string{v.str}, nil
	case deferredValue:
		got, err := forceOne(t, v)
		if err != nil {
			return nil, err
		}
		return Force(t, got)
	}

	var out []string
	for _, item := range v.items {
		strs, err := Force(t, item)
		if err != nil {
			return nil, err
		}
		out = append(out, strs...)
	}
	return out, nil
}

// ForceString resolves v into a single string.
func ForceString(t *Target, v Value) (string, error) {
	strs, err := Force(t, v)
	if err != nil {
		return "", err
	}
	if v.kind == literalValue {
		return strs[0], nil
	}
	if len(strs) != 1 {
		return "", errcode.InvalidArgf(
			"expect a single string, got %d", len(strs),
		)
	}
	return strs[0], nil
}

// deferred wraps a deferred value so that build files can pass it
// around.
type deferred struct {
	name string
	v    Value
}

var _ starlark.Value = (*deferred)(nil)

func (d *deferred) String() string        { return fmt.Sprintf("<%s>", d.name) }
func (d *deferred) Type() string          { return "deferred" }
func (d *deferred) Freeze()               {}
func (d *deferred) Truth() starlark.Bool  { return starlark.True }
func (d *deferred) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable: deferred") }

// valueOf converts a starlark value from a build file into a Value.
func valueOf(v starlark.Value) (Value, error) {
	switch v := v.(type) {
	case starlark.String:
		return Literal(v.GoString()), nil
	case *deferred:
		return v.v, nil
	case *starlark.List, starlark.Tuple:
		it := starlark.Iterate(v)
		defer it.Done()
		var items []Value
		var x starlark.Value
		for it.Next(&x) {
			item, err := valueOf(x)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Sequence(items...), nil
	}
	return Value{}, errcode.InvalidArgf(
		"want a string, a list or a deferred value, got %s", v.Type(),
	)
}

// optValue converts an optional starlark value; None gives an empty
// sequence.
func optValue(v starlark.Value) (Value, error) {
	if v == nil || v == starlark.None {
		return Sequence(), nil
	}
	return valueOf(v)
}
