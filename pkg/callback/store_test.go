package callback

import (
	"strings"
	"testing"
	"time"
)

func TestPayloadStoreRoundTrip(t *testing.T) {
	t.Parallel()
	st := NewPayloadStore()

	tok := st.Put("pager:12:deep search")
	if !strings.HasPrefix(tok, "~") || strings.Contains(tok, ":") {
		t.Fatalf("token %q should start with ~ and avoid the separator", tok)
	}
	if got, ok := st.Get(tok); !ok || got != "pager:12:deep search" {
		t.Fatalf("Get = %q (ok=%v)", got, ok)
	}

	st.Delete(tok)
	if _, ok := st.Get(tok); ok {
		t.Fatalf("token should be gone after Delete")
	}
}

func TestPayloadStoreTTL(t *testing.T) {
	t.Parallel()
	st := NewPayloadStore().WithTTL(10 * time.Millisecond)

	tok := st.Put("x")
	time.Sleep(30 * time.Millisecond)
	if _, ok := st.Get(tok); ok {
		t.Fatalf("expired token should not resolve")
	}
}

func TestPayloadStoreMax(t *testing.T) {
	t.Parallel()
	st := NewPayloadStore().WithMax(3)
	for i := 0; i < 10; i++ {
		st.Put("payload")
	}
	if n := st.Len(); n > 3 {
		t.Fatalf("store holds %d entries, want <= 3", n)
	}
}

func TestPayloadStoreInstance(t *testing.T) {
	t.Parallel()
	s, err := New("q", String("text"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Too long for callback_data, fine for the store.
	long := strings.Repeat("y", 200)
	in := s.MustNew(long)
	if _, err := in.Encode(); err == nil {
		t.Fatalf("sanity: payload should exceed the wire cap")
	}

	st := NewPayloadStore()
	tok, err := st.PutInstance(in)
	if err != nil {
		t.Fatalf("PutInstance: %v", err)
	}
	if len(tok) > MaxPayloadLen {
		t.Fatalf("token itself must fit callback_data, len = %d", len(tok))
	}

	back, err := st.GetInstance(s, tok)
	if err != nil {
		t.Fatalf("GetInstance: %v", err)
	}
	if !back.Equal(in) {
		t.Fatalf("stored instance round trip mismatch")
	}

	// Separator rules still apply even without the length cap.
	bad := s.MustNew("a:b")
	if _, err := st.PutInstance(bad); err == nil {
		t.Fatalf("PutInstance should reject separator collisions")
	}
}
