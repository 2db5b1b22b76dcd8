package callback

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// PayloadStore is an in-memory TTL store for callback payloads that do not
// fit in MaxPayloadLen bytes. The full encoded payload stays server-side
// and only a short opaque token travels inside callback_data.
//
// Tokens are safe for any schema: they start with "~" and never contain the
// default ":" separator.
type PayloadStore struct {
	mu sync.RWMutex

	max int
	ttl time.Duration

	// sweepEvery controls how often an O(n) sweep drops expired tokens, so
	// Get/Put don't scan the whole map on every call.
	sweepEvery time.Duration
	nextSweep  time.Time

	m map[string]storeEntry
}

type storeEntry struct {
	payload string
	exp     time.Time
}

// NewPayloadStore creates a store with ttl=15m, max=5000 entries and a
// one-minute sweep interval. Zero or negative option values keep defaults.
func NewPayloadStore() *PayloadStore {
	return &PayloadStore{
		ttl:        15 * time.Minute,
		max:        5000,
		sweepEvery: time.Minute,
		m:          map[string]storeEntry{},
	}
}

// WithTTL sets how long a stored payload stays retrievable.
func (s *PayloadStore) WithTTL(ttl time.Duration) *PayloadStore {
	if ttl > 0 {
		s.mu.Lock()
		s.ttl = ttl
		s.mu.Unlock()
	}
	return s
}

// WithMax caps the number of live entries; overflow evicts the entries
// closest to expiry.
func (s *PayloadStore) WithMax(max int) *PayloadStore {
	if max > 0 {
		s.mu.Lock()
		s.max = max
		s.mu.Unlock()
	}
	return s
}

// Put stores payload and returns a fresh token for it.
func (s *PayloadStore) Put(payload string) string {
	now := time.Now()
	s.maybeSweep(now)

	// Generate candidates outside the lock, insert under a short hold.
	var buf [6]byte
	for i := 0; i < 8; i++ {
		_, _ = rand.Read(buf[:])
		tok := "~" + base64.RawURLEncoding.EncodeToString(buf[:])

		s.mu.Lock()
		if _, exists := s.m[tok]; exists {
			s.mu.Unlock()
			continue
		}
		s.m[tok] = storeEntry{payload: payload, exp: now.Add(s.ttl)}
		s.enforceMaxLocked()
		s.mu.Unlock()
		return tok
	}

	// Extremely unlikely collision fallback: widen the token.
	_, _ = rand.Read(buf[:])
	tok := "~" + base64.RawURLEncoding.EncodeToString(append(buf[:], byte(now.UnixNano())))
	s.mu.Lock()
	s.m[tok] = storeEntry{payload: payload, exp: now.Add(s.ttl)}
	s.enforceMaxLocked()
	s.mu.Unlock()
	return tok
}

// PutInstance encodes in without the length cap and stores the result.
// Separator collisions still surface: the store only lifts the length
// limit, not the wire rules.
func (s *PayloadStore) PutInstance(in *Instance) (string, error) {
	payload, err := in.encode(false)
	if err != nil {
		return "", err
	}
	return s.Put(payload), nil
}

// Get returns the payload stored under tok, if it is still live.
func (s *PayloadStore) Get(tok string) (string, bool) {
	if tok == "" {
		return "", false
	}
	now := time.Now()
	s.maybeSweep(now)

	s.mu.RLock()
	e, ok := s.m[tok]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if now.After(e.exp) {
		s.Delete(tok)
		return "", false
	}
	return e.payload, true
}

// GetInstance resolves tok and decodes the stored payload against schema.
func (s *PayloadStore) GetInstance(schema *Schema, tok string) (*Instance, error) {
	payload, ok := s.Get(tok)
	if !ok {
		return nil, ErrMalformed
	}
	return schema.Decode(payload)
}

// Delete drops tok immediately.
func (s *PayloadStore) Delete(tok string) {
	s.mu.Lock()
	delete(s.m, tok)
	s.mu.Unlock()
}

// Len reports the number of live (possibly expired, not yet swept) entries.
func (s *PayloadStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *PayloadStore) maybeSweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Before(s.nextSweep) {
		return
	}
	s.nextSweep = now.Add(s.sweepEvery)
	for k, e := range s.m {
		if now.After(e.exp) {
			delete(s.m, k)
		}
	}
}

func (s *PayloadStore) enforceMaxLocked() {
	for len(s.m) > s.max {
		var victim string
		var victimExp time.Time
		for k, e := range s.m {
			if victim == "" || e.exp.Before(victimExp) {
				victim, victimExp = k, e.exp
			}
		}
		delete(s.m, victim)
	}
}
