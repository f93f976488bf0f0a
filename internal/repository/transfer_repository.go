package repository

import (
	"context"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer *domain.OwnershipTransfer) error
	GetByID(ctx context.Context, id string) (*domain.OwnershipTransfer, error)
	GetByIDForUpdate(ctx context.Context, id string) (*domain.OwnershipTransfer, error)
	GetByOrganizationID(ctx context.Context, orgID string) (*domain.OwnershipTransfer, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpiredByOrganization и DeleteExpired пишут событие expired
	// для каждой удаленной передачи в том же запросе.
	DeleteExpiredByOrganization(ctx context.Context, orgID string, now time.Time) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
