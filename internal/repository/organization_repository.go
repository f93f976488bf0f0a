package repository

import (
	"context"

	"github.com/bagdasarian/org-service/internal/domain"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	// GetByIDForUpdate блокирует строку организации до конца транзакции
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Organization, error)
	SetOwner(ctx context.Context, orgID string, ownerID string) error
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	AddMember(ctx context.Context, orgID string, userID string) error
	RemoveMember(ctx context.Context, orgID string, userID string) error
	IsMember(ctx context.Context, orgID string, userID string) (bool, error)
	ListMembers(ctx context.Context, orgID string) ([]*domain.Member, error)
}
