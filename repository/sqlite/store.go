package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/fastygo/questlog/repository"
)

// Store implements repository.Store with GORM on SQLite. The single connection serialises
// transactions, so no isolation setting is exposed.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() repository.Repositories {
	return newRepositories(s.db)
}

func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Tasks:        NewTaskRepository(db),
		Profiles:     NewProfileRepository(db),
		Statuses:     NewStatusRepository(db),
		Achievements: NewAchievementRepository(db),
		Activity:     NewActivityRepository(db),
	}
}

var _ repository.Store = (*Store)(nil)
