// Package syncstore keeps a per-user collection of timestamped records
// eventually consistent between a local key-value cache and a remote row
// store. Remote data is preferred when available; every remote failure
// degrades to local-only operation so the caller never sees a
// connectivity error.
package syncstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/liftlab/liftlab/internal/kvstore"
)

// pushBatchSize bounds the payload of a single push insert.
const pushBatchSize = 100

// Record is a synced row: an opaque unique id plus the timestamp the
// collection is ordered by.
type Record interface {
	RecordID() string
	RecordTime() time.Time
}

// Remote is the row-store side of the pair. repository.MessageRepository
// and repository.MoodRepository satisfy it.
type Remote[T Record] interface {
	ByUser(ctx context.Context, userID string) ([]T, error)
	InsertBatch(ctx context.Context, records []T) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Store reconciles one record collection across both stores. An empty
// userID means no session: the store runs local-only and never touches
// the remote.
type Store[T Record] struct {
	remote   Remote[T]
	cache    *kvstore.Store
	cacheKey string
	seed     func(userID string) T // nil when an empty collection is valid

	mu    sync.RWMutex
	state map[string][]T
}

// New builds a store. cacheKey namespaces this collection inside the
// shared cache file; seed synthesizes the default record written when
// both stores are empty (pass nil for collections with no default).
func New[T Record](remote Remote[T], cache *kvstore.Store, cacheKey string, seed func(userID string) T) *Store[T] {
	return &Store[T]{
		remote:   remote,
		cache:    cache,
		cacheKey: cacheKey,
		seed:     seed,
		state:    make(map[string][]T),
	}
}

// Load resolves the current collection. Remote rows win wholesale;
// locally-held rows the remote does not know are pushed back one-way.
// Load never fails: every backend error is logged and absorbed.
func (s *Store[T]) Load(ctx context.Context, userID string) []T {
	key := s.key(userID)

	if userID == "" {
		recs := s.readCache(ctx, key)
		if len(recs) == 0 && s.seed != nil {
			recs = []T{s.seed(userID)}
			s.writeCache(ctx, key, recs)
		}
		return s.setState(key, recs)
	}

	remote, remoteErr := s.remote.ByUser(ctx, userID)
	if remoteErr != nil {
		slog.Warn("syncstore remote load failed, using local cache",
			"collection", s.cacheKey, "user_id", userID, "error", remoteErr)
	}

	local := s.readCache(ctx, key)

	if remoteErr == nil {
		// Push rows the remote is missing, then adopt the union.
		missing := subtractByID(local, remote)
		if len(missing) > 0 {
			s.push(ctx, missing)
			remote = append(remote, missing...)
		}

		if len(remote) > 0 {
			sortByTime(remote)
			s.writeCache(ctx, key, remote)
			return s.setState(key, remote)
		}
	}

	if len(local) > 0 {
		return s.setState(key, local)
	}

	// Both stores empty: synthesize the default record and seed both.
	if s.seed == nil {
		return s.setState(key, nil)
	}

	recs := []T{s.seed(userID)}
	s.writeCache(ctx, key, recs)
	if remoteErr == nil {
		err := s.remote.InsertBatch(ctx, recs)
		if err != nil {
			slog.Warn("syncstore seed push failed",
				"collection", s.cacheKey, "user_id", userID, "error", err)
		}
	}
	return s.setState(key, recs)
}

// Append adds a record to the in-memory collection and local cache
// synchronously, then inserts it remotely fire-and-forget when a session
// exists. A remote failure does not roll back the local append.
func (s *Store[T]) Append(ctx context.Context, userID string, rec T) []T {
	key := s.key(userID)

	s.mu.Lock()
	recs := append(s.state[key], rec)
	s.state[key] = recs
	out := copyOf(recs)
	s.mu.Unlock()

	s.writeCache(ctx, key, recs)

	if userID != "" {
		err := s.remote.InsertBatch(ctx, []T{rec})
		if err != nil {
			slog.Warn("syncstore remote append failed",
				"collection", s.cacheKey, "user_id", userID, "id", rec.RecordID(), "error", err)
		}
	}

	return out
}

// Put replaces the in-memory collection and local cache without touching
// the remote. Callers that resolve conflicts remotely themselves (the
// same-day mood upsert) use it to mirror the result locally.
func (s *Store[T]) Put(ctx context.Context, userID string, recs []T) []T {
	key := s.key(userID)
	sortByTime(recs)

	s.mu.Lock()
	s.state[key] = recs
	out := copyOf(recs)
	s.mu.Unlock()

	s.writeCache(ctx, key, recs)
	return out
}

// Clear resets the collection to a single seed record (or empty when the
// store has no seed). With a session, remote rows are deleted and the
// seed re-inserted; there is no partial-failure compensation, since a
// divergence self-heals on the next Load via the push path.
func (s *Store[T]) Clear(ctx context.Context, userID string) []T {
	key := s.key(userID)

	var recs []T
	if s.seed != nil {
		recs = []T{s.seed(userID)}
	}

	s.mu.Lock()
	s.state[key] = recs
	out := copyOf(recs)
	s.mu.Unlock()

	s.writeCache(ctx, key, recs)

	if userID != "" {
		err := s.remote.DeleteByUser(ctx, userID)
		if err != nil {
			slog.Warn("syncstore remote clear failed",
				"collection", s.cacheKey, "user_id", userID, "error", err)
			return out
		}
		if len(recs) > 0 {
			err = s.remote.InsertBatch(ctx, recs)
			if err != nil {
				slog.Warn("syncstore seed push failed",
					"collection", s.cacheKey, "user_id", userID, "error", err)
			}
		}
	}

	return out
}

// push inserts records remotely in batches. Failures are logged and the
// remaining batches still attempted; the next Load retries the rest.
func (s *Store[T]) push(ctx context.Context, recs []T) {
	for start := 0; start < len(recs); start += pushBatchSize {
		end := start + pushBatchSize
		if end > len(recs) {
			end = len(recs)
		}
		err := s.remote.InsertBatch(ctx, recs[start:end])
		if err != nil {
			slog.Warn("syncstore push batch failed",
				"collection", s.cacheKey, "batch_start", start, "error", err)
		}
	}
}

func (s *Store[T]) key(userID string) string {
	if userID == "" {
		return s.cacheKey + ":local"
	}
	return s.cacheKey + ":" + userID
}

func (s *Store[T]) setState(key string, recs []T) []T {
	sortByTime(recs)

	s.mu.Lock()
	s.state[key] = recs
	out := copyOf(recs)
	s.mu.Unlock()

	return out
}

// readCache returns the cached collection, treating a missing key or
// corrupt JSON as empty state.
func (s *Store[T]) readCache(ctx context.Context, key string) []T {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != kvstore.ErrKeyNotFound {
			slog.Warn("syncstore cache read failed", "key", key, "error", err)
		}
		return nil
	}

	var recs []T
	err = json.Unmarshal([]byte(raw), &recs)
	if err != nil {
		slog.Warn("syncstore cache corrupt, discarding", "key", key, "error", err)
		return nil
	}

	return recs
}

// writeCache mirrors the collection into the cache, best effort.
func (s *Store[T]) writeCache(ctx context.Context, key string, recs []T) {
	if recs == nil {
		recs = []T{}
	}

	raw, err := json.Marshal(recs)
	if err != nil {
		slog.Warn("syncstore cache marshal failed", "key", key, "error", err)
		return
	}

	err = s.cache.Set(ctx, key, string(raw))
	if err != nil {
		slog.Warn("syncstore cache write failed", "key", key, "error", err)
	}
}

// subtractByID returns the records in a whose id does not appear in b.
func subtractByID[T Record](a, b []T) []T {
	if len(a) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(b))
	for _, rec := range b {
		known[rec.RecordID()] = struct{}{}
	}

	var missing []T
	for _, rec := range a {
		if _, ok := known[rec.RecordID()]; !ok {
			missing = append(missing, rec)
		}
	}

	return missing
}

func sortByTime[T Record](recs []T) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RecordTime().Before(recs[j].RecordTime())
	})
}

func copyOf[T Record](recs []T) []T {
	out := make([]T, len(recs))
	copy(out, recs)
	return out
}
