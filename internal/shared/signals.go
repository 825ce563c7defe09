package shared

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SignalStore passes small UI signals between independently routed
// pages: which row was just added so the next listing can highlight it,
// which jenjang filter an admin last selected. The browser used to keep
// these in localStorage under ad hoc string keys; here they live in
// Redis under namespaced keys with explicit TTLs.
type SignalStore struct {
	client *redis.Client
}

// HighlightTTL bounds how long a "recently added" highlight survives.
// The old UI cleared it with a setTimeout in roughly this window.
const HighlightTTL = 25 * time.Second

// NewSignalStore constructs a SignalStore.
func NewSignalStore(client *redis.Client) *SignalStore {
	return &SignalStore{client: client}
}

func signalKey(userID, name string) string {
	return "signal:" + userID + ":" + name
}

// SetHighlight marks a display name for highlighting on the next
// listing fetch. It expires on its own.
func (s *SignalStore) SetHighlight(ctx context.Context, userID, page, nama string) error {
	return s.client.Set(ctx, signalKey(userID, page+"_last_nama"), nama, HighlightTTL).Err()
}

// Highlight returns the pending highlight target for a page, or empty.
func (s *SignalStore) Highlight(ctx context.Context, userID, page string) string {
	value, err := s.client.Get(ctx, signalKey(userID, page+"_last_nama")).Result()
	if err != nil {
		return ""
	}
	return value
}

// SetPreference stores a persistent UI preference such as the last
// selected jenjang. Preferences do not expire.
func (s *SignalStore) SetPreference(ctx context.Context, userID, name, value string) error {
	return s.client.Set(ctx, signalKey(userID, "pref_"+name), value, 0).Err()
}

// Preference reads a stored preference, returning fallback when unset.
func (s *SignalStore) Preference(ctx context.Context, userID, name, fallback string) string {
	value, err := s.client.Get(ctx, signalKey(userID, "pref_"+name)).Result()
	if err != nil {
		return fallback
	}
	return value
}
