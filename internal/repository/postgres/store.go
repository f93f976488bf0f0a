package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bagdasarian/org-service/internal/repository"
)

type Store struct {
	db       *sql.DB
	executor DBExecutor
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, executor: db}
}

func (s *Store) Organizations() repository.OrganizationRepository {
	return &organizationRepository{executor: s.executor}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{executor: s.executor}
}

func (s *Store) Transfers() repository.TransferRepository {
	return &transferRepository{executor: s.executor}
}

func (s *Store) Events() repository.EventRepository {
	return &eventRepository{executor: s.executor}
}

// WithinTx открывает транзакцию; вложенный вызов переиспользует текущую
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if _, ok := s.executor.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{db: s.db, executor: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
