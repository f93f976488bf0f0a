package postgres

import (
	"errors"
	"testing"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPostgresError(t *testing.T) {
	t.Run("nil остается nil", func(t *testing.T) {
		assert.NoError(t, mapPostgresError(nil, "op"))
	})

	t.Run("уникальный индекс передач", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: transferOrganizationKey,
		}, "create transfer")
		assert.ErrorIs(t, err, domain.ErrTransferActive)
	})

	t.Run("повторное членство", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{
			Code:           pgerrcode.UniqueViolation,
			ConstraintName: membershipKey,
		}, "add member")
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})

	t.Run("нарушение внешнего ключа", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "add member")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("невалидный uuid", func(t *testing.T) {
		err := mapPostgresError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation}, "get")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("прочие ошибки оборачиваются", func(t *testing.T) {
		cause := errors.New("network down")
		err := mapPostgresError(cause, "get organization")
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "get organization")
	})
}
