// Package ctxvalue provides typed, context-scoped variables.
//
// A Var[T] behaves like a request-scoped slot: a value set on a context is
// visible to everything derived from that context, siblings are isolated,
// and the previous value is "restored" simply by keeping the parent context
// around. It replaces ambient global-like state with explicit context
// passing.
package ctxvalue

import "context"

// Var is a handle for one context-scoped value of type T.
// Two Vars never collide, even with the same name; the name is only used
// for debugging.
type Var[T any] struct {
	name string
}

// New declares a new context variable. Typically a package-level var:
//
//	var currentUser = ctxvalue.New[*User]("current-user")
func New[T any](name string) *Var[T] {
	return &Var[T]{name: name}
}

// Name returns the debug name the variable was declared with.
func (v *Var[T]) Name() string { return v.name }

// WithValue returns a child context carrying val for this variable.
func (v *Var[T]) WithValue(ctx context.Context, val T) context.Context {
	return context.WithValue(ctx, v, val)
}

// Get returns the value set on ctx (or any of its ancestors) and whether
// one was set at all.
func (v *Var[T]) Get(ctx context.Context) (T, bool) {
	val, ok := ctx.Value(v).(T)
	return val, ok
}

// Value is like Get but yields the zero value when unset.
func (v *Var[T]) Value(ctx context.Context) T {
	val, _ := v.Get(ctx)
	return val
}
