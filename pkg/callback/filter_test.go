package callback

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// fakeContext implements just enough of tele.Context for the filter.
// The embedded interface is nil; any method the filter should not touch
// panics loudly.
type fakeContext struct {
	tele.Context
	cb    *tele.Callback
	store map[string]any
}

func newFakeContext(cb *tele.Callback) *fakeContext {
	return &fakeContext{cb: cb, store: map[string]any{}}
}

func (f *fakeContext) Callback() *tele.Callback { return f.cb }
func (f *fakeContext) Set(key string, val any)  { f.store[key] = val }
func (f *fakeContext) Get(key string) any       { return f.store[key] }

func TestFilterMatch(t *testing.T) {
	t.Parallel()
	s, err := New("p", Int("a"), String("b").Optional())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got *Instance
	handler := func(c tele.Context) error {
		got = Data(c)
		return nil
	}

	c := newFakeContext(&tele.Callback{Data: "p:5:hello"})
	if err := s.Filter(nil)(handler)(c); err != nil {
		t.Fatalf("filtered handler: %v", err)
	}
	if got == nil {
		t.Fatalf("handler was not reached")
	}
	if a, _ := got.Int("a"); a != 5 {
		t.Fatalf("a = %d, want 5", a)
	}
	if b, _ := got.String("b"); b != "hello" {
		t.Fatalf("b = %q, want hello", b)
	}
}

func TestFilterNoMatch(t *testing.T) {
	t.Parallel()
	s, err := New("p", Int("a"), String("b").Optional())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rejectAll := func(*Instance) bool { return false }

	tests := []struct {
		name string
		cb   *tele.Callback
		rule func(*Instance) bool
	}{
		{name: "no callback", cb: nil},
		{name: "empty payload", cb: &tele.Callback{}},
		{name: "wrong prefix", cb: &tele.Callback{Data: "other:5:"}},
		{name: "wrong arity", cb: &tele.Callback{Data: "p:5"}},
		{name: "malformed value", cb: &tele.Callback{Data: "p:abc:"}},
		{name: "rule rejects", cb: &tele.Callback{Data: "p:5:"}, rule: rejectAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := func(c tele.Context) error {
				called = true
				return nil
			}
			c := newFakeContext(tt.cb)
			// No match must swallow silently, never error.
			if err := s.Filter(tt.rule)(handler)(c); err != nil {
				t.Fatalf("filter returned error: %v", err)
			}
			if called {
				t.Fatalf("handler should not have been reached")
			}
		})
	}
}

func TestFilterRuleAccepts(t *testing.T) {
	t.Parallel()
	s, err := New("p", Int("a"), String("b").Optional())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	evenOnly := func(in *Instance) bool {
		a, _ := in.Int("a")
		return a%2 == 0
	}

	called := false
	handler := func(c tele.Context) error {
		called = true
		return nil
	}
	c := newFakeContext(&tele.Callback{Data: "p:4:"})
	if err := s.Filter(evenOnly)(handler)(c); err != nil {
		t.Fatalf("filtered handler: %v", err)
	}
	if !called {
		t.Fatalf("rule should have accepted a=4")
	}
}

func TestDataWithoutFilter(t *testing.T) {
	t.Parallel()
	c := newFakeContext(nil)
	if Data(c) != nil {
		t.Fatalf("Data on a bare context should be nil")
	}
}
