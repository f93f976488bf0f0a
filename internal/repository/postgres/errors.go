package postgres

import (
	"errors"
	"fmt"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	transferOrganizationKey = "ownership_transfers_organization_id_key"
	membershipKey           = "organization_members_pkey"
)

// mapPostgresError переводит ошибки Postgres в доменные, остальные оборачивает
func mapPostgresError(err error, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case transferOrganizationKey:
			return domain.ErrTransferActive
		case membershipKey:
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("%s: unique constraint violation: %s: %w", op, pgErr.ConstraintName, err)
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%s: %w: %s", op, repository.ErrNotFound, pgErr.Detail)
	case pgerrcode.InvalidTextRepresentation:
		return repository.ErrNotFound
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("%s: transaction conflict (retryable): %w", op, err)
	default:
		return fmt.Errorf("%s: postgres error [%s]: %s: %w", op, pgErr.Code, pgErr.Message, err)
	}
}

// validID отсекает заведомо невалидные идентификаторы до запроса в БД
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
