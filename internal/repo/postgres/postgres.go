package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/domain"
	"github.com/hamed0406/availwatch/internal/repo"
)

var _ repo.SnapshotStore = (*Store)(nil)

// SchemaSQL creates the one table the store needs. It is idempotent.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
  id       TEXT PRIMARY KEY,
  payload  JSONB NOT NULL,
  saved_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store keeps the snapshot as one row keyed by id; the upsert replaces the
// payload in a single statement.
type Store struct {
	pool *pgxpool.Pool
	id   string
	log  *zap.Logger
}

func New(ctx context.Context, dsn, id string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, SchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{pool: pool, id: id, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	const q = `SELECT payload, saved_at FROM snapshots WHERE id=$1`
	var (
		payload []byte
		savedAt time.Time
	)
	err := s.pool.QueryRow(ctx, q, s.id).Scan(&payload, &savedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: select snapshot: %w", domain.ErrStorageUnavailable, err)
	}

	var rs domain.ResultSet
	if err := json.Unmarshal(payload, &rs); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %w", domain.ErrStorageUnavailable, err)
	}
	return &domain.Snapshot{Results: rs, SavedAt: savedAt.UTC()}, nil
}

func (s *Store) Save(ctx context.Context, rs domain.ResultSet) error {
	const q = `
		INSERT INTO snapshots (id, payload, saved_at)
		VALUES ($1,$2,now())
		ON CONFLICT (id)
		DO UPDATE SET payload=EXCLUDED.payload, saved_at=EXCLUDED.saved_at
	`
	payload, err := json.Marshal(repo.Normalize(rs))
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrStorageWriteFailed, err)
	}
	if _, err := s.pool.Exec(ctx, q, s.id, payload); err != nil {
		return fmt.Errorf("%w: upsert snapshot: %w", domain.ErrStorageWriteFailed, err)
	}
	s.log.Debug("snapshot_saved", zap.String("id", s.id), zap.Int("records", len(rs)))
	return nil
}
