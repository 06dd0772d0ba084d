package stitch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestForceFlattens(t *testing.T) {
	v := Sequence(
		Literal("a"),
		Literals("b", "c"),
		Deferred(func(*Target) (Value, error) {
			return Literals("d", "e"), nil
		}),
		Sequence(Sequence(Literal("f"))),
	)
	got, err := Force(nil, v)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "d", "e", "f"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Force got diff: %s", diff)
	}
}

func TestForceNestedDeferred(t *testing.T) {
	inner := Deferred(func(*Target) (Value, error) {
		return Literal("x"), nil
	})
	for _, v := range []Value{
		Deferred(func(*Target) (Value, error) { return inner, nil }),
		Deferred(func(*Target) (Value, error) {
			return Sequence(Literal("a"), inner), nil
		}),
	} {
		if _, err := Force(nil, v); !errors.Is(err, errNestedDeferred) {
			t.Errorf("want nested deferred error, got %v", err)
		}
	}
}

func TestForceString(t *testing.T) {
	s, err := ForceString(nil, Literal("x"))
	if err != nil {
		t.Fatal(err)
	}
	if s != "x" {
		t.Errorf("got %q", s)
	}

	if _, err := ForceString(nil, Literals("a", "b")); err == nil {
		t.Error("two strings forced into one")
	}
	if _, err := ForceString(nil, Sequence()); err == nil {
		t.Error("empty sequence forced into a string")
	}
}
