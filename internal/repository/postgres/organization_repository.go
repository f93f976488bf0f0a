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

type organizationRepository struct {
	executor DBExecutor
}

func NewOrganizationRepository(db *sql.DB) *organizationRepository {
	return &organizationRepository{executor: db}
}

func (r *organizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}

	query := `
		INSERT INTO organizations (id, name, owner_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	var updatedAt sql.NullTime
	err := r.executor.QueryRowContext(
		ctx,
		query,
		org.ID,
		org.Name,
		org.OwnerID,
		org.IsActive,
		time.Now(),
	).Scan(&org.CreatedAt, &updatedAt)
	if err != nil {
		return mapPostgresError(err, "create organization")
	}

	if updatedAt.Valid {
		org.UpdatedAt = &updatedAt.Time
	} else {
		org.UpdatedAt = nil
	}

	return nil
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	return r.get(ctx, id, false)
}

func (r *organizationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Organization, error) {
	return r.get(ctx, id, true)
}

func (r *organizationRepository) get(ctx context.Context, id string, forUpdate bool) (*domain.Organization, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}

	query := `
		SELECT id, name, owner_id, is_active, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	org := &domain.Organization{}
	var updatedAt sql.NullTime
	err := r.executor.QueryRowContext(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.OwnerID,
		&org.IsActive,
		&org.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPostgresError(err, "get organization")
	}

	if updatedAt.Valid {
		org.UpdatedAt = &updatedAt.Time
	}

	return org, nil
}

func (r *organizationRepository) SetOwner(ctx context.Context, orgID string, ownerID string) error {
	query := `
		UPDATE organizations
		SET owner_id = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.executor.ExecContext(ctx, query, orgID, ownerID, time.Now())
	if err != nil {
		return mapPostgresError(err, "set organization owner")
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

// Delete удаляет организацию; участники и передачи удаляются каскадом
func (r *organizationRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}

	result, err := r.executor.ExecContext(ctx, "DELETE FROM organizations WHERE id = $1", id)
	if err != nil {
		return mapPostgresError(err, "delete organization")
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

func (r *organizationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.executor.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM organizations WHERE owner_id = $1",
		ownerID,
	).Scan(&count)
	if err != nil {
		return 0, mapPostgresError(err, "count organizations")
	}
	return count, nil
}

func (r *organizationRepository) AddMember(ctx context.Context, orgID string, userID string) error {
	_, err := r.executor.ExecContext(
		ctx,
		"INSERT INTO organization_members (organization_id, user_id, created_at) VALUES ($1, $2, $3)",
		orgID,
		userID,
		time.Now(),
	)
	if err != nil {
		return mapPostgresError(err, "add member")
	}
	return nil
}

func (r *organizationRepository) RemoveMember(ctx context.Context, orgID string, userID string) error {
	result, err := r.executor.ExecContext(
		ctx,
		"DELETE FROM organization_members WHERE organization_id = $1 AND user_id = $2",
		orgID,
		userID,
	)
	if err != nil {
		return mapPostgresError(err, "remove member")
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

// IsMember проверяет только хранимый состав; владелец в нем не хранится
func (r *organizationRepository) IsMember(ctx context.Context, orgID string, userID string) (bool, error) {
	var exists bool
	err := r.executor.QueryRowContext(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM organization_members WHERE organization_id = $1 AND user_id = $2)",
		orgID,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, mapPostgresError(err, "check membership")
	}
	return exists, nil
}

func (r *organizationRepository) ListMembers(ctx context.Context, orgID string) ([]*domain.Member, error) {
	query := `
		SELECT u.id, u.username, u.email, TRUE, o.created_at
		FROM organizations o
		JOIN users u ON u.id = o.owner_id
		WHERE o.id = $1
		UNION ALL
		SELECT u.id, u.username, u.email, FALSE, m.created_at
		FROM organization_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.organization_id = $1
		ORDER BY 4 DESC, 5
	`

	rows, err := r.executor.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, mapPostgresError(err, "list members")
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		member := &domain.Member{}
		err := rows.Scan(
			&member.UserID,
			&member.Username,
			&member.Email,
			&member.IsOwner,
			&member.JoinedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}
