package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alnah/go-coverpdf"
)

const (
	redisKeyPrefix    = "coverpdf:session:"
	redisUpdateTries  = 5
	redisEmptySession = "[]"
)

// RedisStore keeps sessions in Redis as JSON with a sliding TTL. Updates use
// WATCH/MULTI so concurrent requests on one session never lose a change.
type RedisStore struct {
	rdb      redis.UniversalClient
	ttl      time.Duration
	maxFiles int
}

// NewRedisClient parses url and checks the connection.
func NewRedisClient(ctx context.Context, url string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("redis connected")
	return rdb, nil
}

// NewRedisStore wraps an existing client. The store owns the client and
// closes it on Close.
func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration, maxFiles int) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, maxFiles: maxFiles}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) key(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	ok, err := s.rdb.SetNX(ctx, s.key(id), redisEmptySession, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("create session: id collision %s", id)
	}
	return id, nil
}

func (s *RedisStore) Files(ctx context.Context, id string) ([]coverpdf.UploadedFile, error) {
	data, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decodeFiles(data)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*coverpdf.Session) error) ([]coverpdf.UploadedFile, error) {
	key := s.key(id)
	var result []coverpdf.UploadedFile

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("load session: %w", err)
		}
		files, err := decodeFiles(data)
		if err != nil {
			return err
		}

		working := coverpdf.NewSession(files...)
		if err := fn(working); err != nil {
			return err
		}
		files = working.Files()
		if s.maxFiles > 0 && len(files) > s.maxFiles {
			return ErrSessionFull
		}
		out, err := json.Marshal(toStored(files))
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			result = files
		}
		return err
	}

	for range redisUpdateTries {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, fmt.Errorf("update session %s: too much contention", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

func decodeFiles(data []byte) ([]coverpdf.UploadedFile, error) {
	var stored []storedFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return fromStored(stored), nil
}

// NewStore picks the redis store when cfg.RedisURL is set, the memory
// store otherwise.
func NewStore(ctx context.Context, cfg Config, log zerolog.Logger) (SessionStore, error) {
	if cfg.RedisURL == "" {
		return NewMemoryStore(cfg.SessionTTL, cfg.MaxSessionSize), nil
	}
	rdb, err := NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}
	return NewRedisStore(rdb, cfg.SessionTTL, cfg.MaxSessionSize), nil
}
