package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

const keyPrefix = "meetsched"

// Config holds the Redis connection settings for the durable agent store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// SeenLimit caps the per-user seen-id list. Zero means DefaultSeenLimit.
	SeenLimit int64
}

// DefaultSeenLimit is the per-user cap on remembered message ids.
const DefaultSeenLimit = 500

// Store persists per-user agent state in Redis: processed message ids,
// pending confirmations keyed by sender, and an append-only activity log.
type Store struct {
	rdb       *redis.Client
	seenLimit int64
}

// NewStore creates a Store from cfg. The connection is lazy; call Ping to
// verify reachability.
func NewStore(cfg Config) *Store {
	limit := cfg.SeenLimit
	if limit <= 0 {
		limit = DefaultSeenLimit
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		seenLimit: limit,
	}
}

// Ping verifies the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func seenKey(user string) string {
	return fmt.Sprintf("%s:%s:seen", keyPrefix, user)
}

func confirmKey(user, sender string) string {
	return fmt.Sprintf("%s:%s:confirm:%s", keyPrefix, user, sender)
}

func activityKey(user string) string {
	return fmt.Sprintf("%s:%s:activity", keyPrefix, user)
}

// LoadSeenIDs returns the user's remembered message ids in insertion order,
// oldest first. A user with no history yields an empty slice.
func (s *Store) LoadSeenIDs(ctx context.Context, user string) ([]string, error) {
	ids, err := s.rdb.LRange(ctx, seenKey(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load seen ids for %s: %w", user, err)
	}
	return ids, nil
}

// AddSeenIDs appends message ids to the user's seen list and trims it to the
// configured limit, dropping the oldest entries first. Only the seen-id list
// is touched; other per-user records are left alone.
func (s *Store) AddSeenIDs(ctx context.Context, user string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	key := seenKey(user)
	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = id
	}

	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, vals...)
	pipe.LTrim(ctx, key, -s.seenLimit, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record seen ids for %s: %w", user, err)
	}
	return nil
}

// GetPending returns the serialized pending confirmation for a sender, or
// ErrNotFound when none is registered.
func (s *Store) GetPending(ctx context.Context, user, sender string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, confirmKey(user, sender)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending confirmation for %s: %w", user, err)
	}
	return data, nil
}

// PutPending stores a serialized pending confirmation for a sender,
// overwriting any existing one. Records carry no expiry; they persist until
// resolved or replaced.
func (s *Store) PutPending(ctx context.Context, user, sender string, data []byte) error {
	if err := s.rdb.Set(ctx, confirmKey(user, sender), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store pending confirmation for %s: %w", user, err)
	}
	return nil
}

// DeletePending removes a sender's pending confirmation. Deleting a missing
// record is not an error.
func (s *Store) DeletePending(ctx context.Context, user, sender string) error {
	if err := s.rdb.Del(ctx, confirmKey(user, sender)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending confirmation for %s: %w", user, err)
	}
	return nil
}

// AppendActivity appends a serialized activity entry to the user's log.
func (s *Store) AppendActivity(ctx context.Context, user string, entry []byte) error {
	if err := s.rdb.RPush(ctx, activityKey(user), entry).Err(); err != nil {
		return fmt.Errorf("failed to append activity for %s: %w", user, err)
	}
	return nil
}

// RecentActivity returns the newest n activity entries for a user, newest
// last.
func (s *Store) RecentActivity(ctx context.Context, user string, n int64) ([][]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := s.rdb.LRange(ctx, activityKey(user), -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load activity for %s: %w", user, err)
	}
	entries := make([][]byte, len(raw))
	for i, r := range raw {
		entries[i] = []byte(r)
	}
	return entries, nil
}

// WaitReady pings Redis until it responds or the deadline passes. Useful at
// startup when Redis may still be coming up.
func (s *Store) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if err := s.Ping(ctx); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("redis not reachable within %s", timeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}
