// Package redis keeps CSRF records in Redis so several instances of the
// service share them. Keys carry a TTL and expire on their own.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "trust:csrf"

var deleteIfEqual = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type CSRFStore struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ store.CSRFRecords = (*CSRFStore)(nil)

// NewCSRFStore uses DefaultKeyPrefix when prefix is empty.
func NewCSRFStore(rdb redis.UniversalClient, prefix string) *CSRFStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &CSRFStore{rdb: rdb, prefix: prefix}
}

type csrfValue struct {
	TokenHash string `json:"h"`
	ExpiresAt int64  `json:"e"`
}

func (s *CSRFStore) key(subject domain.Subject) string {
	return s.prefix + ":" + string(subject)
}

func encode(rec domain.CSRFRecord) (string, error) {
	b, err := json.Marshal(csrfValue{TokenHash: rec.TokenHash, ExpiresAt: rec.ExpiresAt.UnixNano()})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *CSRFStore) SaveCSRFRecord(ctx context.Context, rec domain.CSRFRecord) error {
	key := s.key(rec.Subject)

	// Keep the key until just past ExpiresAt; the record is still valid at
	// that instant.
	ttl := time.Until(rec.ExpiresAt) + time.Second
	if ttl <= time.Second {
		if err := s.rdb.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	}

	val, err := encode(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *CSRFStore) GetCSRFRecord(ctx context.Context, subject domain.Subject) (domain.CSRFRecord, error) {
	raw, err := s.rdb.Get(ctx, s.key(subject)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CSRFRecord{}, store.ErrNotFound
	}
	if err != nil {
		return domain.CSRFRecord{}, fmt.Errorf("redis get: %w", err)
	}

	var v csrfValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.CSRFRecord{}, fmt.Errorf("decode csrf record: %w", err)
	}
	return domain.CSRFRecord{
		Subject:   subject,
		TokenHash: v.TokenHash,
		ExpiresAt: time.Unix(0, v.ExpiresAt).UTC(),
	}, nil
}

func (s *CSRFStore) DeleteCSRFRecord(ctx context.Context, subject domain.Subject) error {
	if err := s.rdb.Del(ctx, s.key(subject)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *CSRFStore) DeleteCSRFRecordIfUnchanged(ctx context.Context, rec domain.CSRFRecord) (bool, error) {
	val, err := encode(rec)
	if err != nil {
		return false, err
	}
	n, err := deleteIfEqual.Run(ctx, s.rdb, []string{s.key(rec.Subject)}, val).Int()
	if err != nil {
		return false, fmt.Errorf("redis eval: %w", err)
	}
	return n == 1, nil
}

// DeleteExpiredCSRFRecords is a no-op; Redis expires the keys.
func (s *CSRFStore) DeleteExpiredCSRFRecords(context.Context, time.Time) (int, error) {
	return 0, nil
}

// Ping reports whether Redis answers.
func (s *CSRFStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
