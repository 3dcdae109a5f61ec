package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// standalone or inside a transaction opened by Store.ExecTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.CustomerRepository
	repository.CarRepository
	repository.RentalRepository
	repository.OutboxRepository
	repository.RentalViewRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                   db,
		CustomerRepository:   NewCustomerRepository(db),
		CarRepository:        NewCarRepository(db),
		RentalRepository:     NewRentalRepository(db),
		OutboxRepository:     NewOutboxRepository(db),
		RentalViewRepository: NewRentalViewRepository(db),
	}
}

// ExecTx runs fn with repositories bound to a single transaction.
func (s *Store) ExecTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repos := &repository.Repositories{
		Customers: NewCustomerRepository(tx),
		Cars:      NewCarRepository(tx),
		Rentals:   NewRentalRepository(tx),
		Outbox:    NewOutboxRepository(tx),
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// translateErr maps driver errors onto the domain taxonomy.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "55P03" { // lock_not_available
		return domain.ErrBusy
	}
	return err
}
