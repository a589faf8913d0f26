package repository

import "context"

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Tasks        TaskRepository
	Profiles     ProfileRepository
	Statuses     StatusRepository
	Achievements AchievementRepository
	Activity     ActivityRepository
}

// TxFunc runs inside a transaction. Only the repositories it receives take part in the transaction.
type TxFunc func(ctx context.Context, repos Repositories) error

// Store is a storage backend. WithinTx commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close() error
}

// ClampLimit bounds list sizes to (0, 100].
func ClampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
