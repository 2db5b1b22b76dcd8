package ctxvalue

import (
	"context"
	"testing"
)

func TestGetUnset(t *testing.T) {
	t.Parallel()
	v := New[int]("count")
	if got, ok := v.Get(context.Background()); ok || got != 0 {
		t.Fatalf("Get on empty context = %d, %v", got, ok)
	}
	if got := v.Value(context.Background()); got != 0 {
		t.Fatalf("Value on empty context = %d", got)
	}
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()
	v := New[string]("locale")
	ctx := v.WithValue(context.Background(), "de")
	if got, ok := v.Get(ctx); !ok || got != "de" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	if v.Name() != "locale" {
		t.Fatalf("Name() = %q", v.Name())
	}
}

func TestChildInherits(t *testing.T) {
	t.Parallel()
	v := New[string]("locale")
	parent := v.WithValue(context.Background(), "de")
	child, cancel := context.WithCancel(parent)
	defer cancel()
	if got := v.Value(child); got != "de" {
		t.Fatalf("child sees %q, want de", got)
	}
}

func TestOverrideShadowsParent(t *testing.T) {
	t.Parallel()
	v := New[string]("locale")
	parent := v.WithValue(context.Background(), "de")
	child := v.WithValue(parent, "fr")

	if got := v.Value(child); got != "fr" {
		t.Fatalf("child = %q, want fr", got)
	}
	// The parent still carries the old value: dropping the child context is
	// the restore.
	if got := v.Value(parent); got != "de" {
		t.Fatalf("parent = %q, want de", got)
	}
}

func TestSiblingsAreIsolated(t *testing.T) {
	t.Parallel()
	v := New[int]("n")
	base := context.Background()
	a := v.WithValue(base, 1)
	b := v.WithValue(base, 2)
	if v.Value(a) != 1 || v.Value(b) != 2 {
		t.Fatalf("siblings = %d, %d", v.Value(a), v.Value(b))
	}
	if _, ok := v.Get(base); ok {
		t.Fatalf("base context picked up a value")
	}
}

func TestSameNameDoesNotCollide(t *testing.T) {
	t.Parallel()
	a := New[string]("shared")
	b := New[string]("shared")
	ctx := a.WithValue(context.Background(), "from-a")
	if got, ok := b.Get(ctx); ok {
		t.Fatalf("b sees a's value %q", got)
	}
	ctx = b.WithValue(ctx, "from-b")
	if got := a.Value(ctx); got != "from-a" {
		t.Fatalf("a = %q after setting b", got)
	}
	if got := b.Value(ctx); got != "from-b" {
		t.Fatalf("b = %q", got)
	}
}

func TestDistinctTypes(t *testing.T) {
	t.Parallel()
	type user struct{ name string }
	u := New[*user]("current")
	ctx := u.WithValue(context.Background(), &user{name: "ada"})
	got, ok := u.Get(ctx)
	if !ok || got.name != "ada" {
		t.Fatalf("Get = %+v, %v", got, ok)
	}
}
