package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/google/uuid"
)

type transferRepository struct {
	executor DBExecutor
}

func NewTransferRepository(db *sql.DB) *transferRepository {
	return &transferRepository{executor: db}
}

const transferColumns = `id, organization_id, current_owner_id, new_owner_id, expires_at, created_at`

func (r *transferRepository) Create(ctx context.Context, transfer *domain.OwnershipTransfer) error {
	if transfer.ID == "" {
		transfer.ID = uuid.NewString()
	}
	if transfer.CreatedAt.IsZero() {
		transfer.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO ownership_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.executor.ExecContext(
		ctx,
		query,
		transfer.ID,
		transfer.OrganizationID,
		transfer.CurrentOwnerID,
		transfer.NewOwnerID,
		transfer.ExpiresAt,
		transfer.CreatedAt,
	)
	if err != nil {
		return mapPostgresError(err, "create transfer")
	}

	return nil
}

func (r *transferRepository) GetByID(ctx context.Context, id string) (*domain.OwnershipTransfer, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "SELECT "+transferColumns+" FROM ownership_transfers WHERE id = $1", id)
}

func (r *transferRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.OwnershipTransfer, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "SELECT "+transferColumns+" FROM ownership_transfers WHERE id = $1 FOR UPDATE", id)
}

func (r *transferRepository) GetByOrganizationID(ctx context.Context, orgID string) (*domain.OwnershipTransfer, error) {
	if !validID(orgID) {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "SELECT "+transferColumns+" FROM ownership_transfers WHERE organization_id = $1", orgID)
}

func (r *transferRepository) getOne(ctx context.Context, query string, arg string) (*domain.OwnershipTransfer, error) {
	transfer := &domain.OwnershipTransfer{}
	err := r.executor.QueryRowContext(ctx, query, arg).Scan(
		&transfer.ID,
		&transfer.OrganizationID,
		&transfer.CurrentOwnerID,
		&transfer.NewOwnerID,
		&transfer.ExpiresAt,
		&transfer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPostgresError(err, "get transfer")
	}

	return transfer, nil
}

func (r *transferRepository) Delete(ctx context.Context, id string) error {
	result, err := r.executor.ExecContext(ctx, "DELETE FROM ownership_transfers WHERE id = $1", id)
	if err != nil {
		return mapPostgresError(err, "delete transfer")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

const deleteExpiredQuery = `
	WITH expired AS (
		DELETE FROM ownership_transfers
		WHERE expires_at <= $1
		RETURNING id, organization_id, current_owner_id, new_owner_id
	)
	INSERT INTO transfer_events (id, transfer_id, organization_id, actor_id, kind, current_owner_id, new_owner_id, created_at)
	SELECT gen_random_uuid(), id, organization_id, NULL, 'expired', current_owner_id, new_owner_id, $1
	FROM expired
`

const deleteExpiredByOrganizationQuery = `
	WITH expired AS (
		DELETE FROM ownership_transfers
		WHERE expires_at <= $1 AND organization_id = $2
		RETURNING id, organization_id, current_owner_id, new_owner_id
	)
	INSERT INTO transfer_events (id, transfer_id, organization_id, actor_id, kind, current_owner_id, new_owner_id, created_at)
	SELECT gen_random_uuid(), id, organization_id, NULL, 'expired', current_owner_id, new_owner_id, $1
	FROM expired
`

func (r *transferRepository) DeleteExpiredByOrganization(ctx context.Context, orgID string, now time.Time) (int64, error) {
	result, err := r.executor.ExecContext(ctx, deleteExpiredByOrganizationQuery, now, orgID)
	if err != nil {
		return 0, mapPostgresError(err, "delete expired transfers")
	}
	return result.RowsAffected()
}

func (r *transferRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.executor.ExecContext(ctx, deleteExpiredQuery, now)
	if err != nil {
		return 0, mapPostgresError(err, "delete expired transfers")
	}
	return result.RowsAffected()
}
