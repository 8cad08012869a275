package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repos groups the repositories that share one connection or transaction.
type Repos struct {
	Users UserRepo
	Trips TripRepo
	Plans PlanRepo
}

// NewRepos builds every repository on top of the same db handle.
func NewRepos(db db) Repos {
	return Repos{
		Users: NewUserRepo(db),
		Trips: NewTripRepo(db),
		Plans: NewPlanRepo(db),
	}
}

// Transactor runs a unit of work inside a single database transaction.
// The transaction commits when fn returns nil and rolls back on any error,
// including validation errors raised after the first write.
type Transactor interface {
	InTx(ctx context.Context, fn func(Repos) error) error
}

// beginner is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx. Calling Begin
// on a pgx.Tx opens a savepoint, so tests can nest a unit of work inside
// their rollback-only transaction.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pgTransactor struct {
	db beginner
}

// NewTransactor constructs a Transactor. In production pass *pgxpool.Pool;
// in tests pass a pgx.Tx.
func NewTransactor(db beginner) Transactor {
	return &pgTransactor{db: db}
}

// InTx begins a transaction, hands fn repositories bound to it, and commits or
// rolls back depending on fn's result.
func (t *pgTransactor) InTx(ctx context.Context, fn func(Repos) error) error {
	return pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
}
