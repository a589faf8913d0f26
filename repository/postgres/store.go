package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/repository"
)

// Store implements repository.Store on top of a pgx pool.
type Store struct {
	pool      *pgxpool.Pool
	isolation pgx.TxIsoLevel
	logger    *zap.Logger
}

// Isolation levels accepted by NewStore.
const (
	IsolationReadCommitted = "read_committed"
	IsolationSerializable  = "serializable"
)

// NewStore wraps the pool. isolation is one of the Isolation* constants; empty means read committed.
func NewStore(pool *pgxpool.Pool, isolation string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	level, err := parseIsolation(isolation)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, isolation: level, logger: logger}, nil
}

func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.pool)
}

func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: s.isolation})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Warn("tx rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return translate(err, nil)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func newRepositories(db querier) repository.Repositories {
	return repository.Repositories{
		Tasks:        NewTaskRepository(db),
		Profiles:     NewProfileRepository(db),
		Statuses:     NewStatusRepository(db),
		Achievements: NewAchievementRepository(db),
		Activity:     NewActivityRepository(db),
	}
}

func parseIsolation(value string) (pgx.TxIsoLevel, error) {
	switch value {
	case "", IsolationReadCommitted:
		return pgx.ReadCommitted, nil
	case IsolationSerializable:
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unsupported tx isolation %q", value)
	}
}

var _ repository.Store = (*Store)(nil)
