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

type userRepository struct {
	executor DBExecutor
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{executor: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query := `
		INSERT INTO users (id, username, email, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.executor.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.IsActive,
		time.Now(),
	).Scan(&user.CreatedAt)
	if err != nil {
		return mapPostgresError(err, "create user")
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "id = $1", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "lower(email) = lower($1)", email)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username = $1", username)
}

func (r *userRepository) getOne(ctx context.Context, where string, arg string) (*domain.User, error) {
	query := `
		SELECT id, username, email, is_active, created_at
		FROM users
		WHERE ` + where

	user := &domain.User{}
	err := r.executor.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, mapPostgresError(err, "get user")
	}

	return user, nil
}
