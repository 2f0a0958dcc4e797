package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/domain"
	"github.com/hamed0406/availwatch/internal/repo"
)

// Store keeps the snapshot JSON under a single key. SET replaces the value
// atomically, so readers never see a partial write.
type Store struct {
	client *redis.Client
	key    string
	log    *zap.Logger
}

// New parses a redis:// URL, pings the server and returns a store.
func New(ctx context.Context, url, key string, log *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return NewWithClient(client, key, log), nil
}

func NewWithClient(client *redis.Client, key string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, key: key, log: log}
}

func (s *Store) Close() error { return s.client.Close() }

func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // no snapshot yet
		}
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrStorageUnavailable, s.key, err)
	}

	var rs domain.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorageUnavailable, s.key, err)
	}
	return &domain.Snapshot{Results: rs}, nil
}

func (s *Store) Save(ctx context.Context, rs domain.ResultSet) error {
	data, err := json.Marshal(repo.Normalize(rs))
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrStorageWriteFailed, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %w", domain.ErrStorageWriteFailed, s.key, err)
	}
	s.log.Debug("snapshot_saved", zap.String("key", s.key), zap.Int("records", len(rs)))
	return nil
}
