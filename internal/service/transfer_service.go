package service

import (
	"context"

	"github.com/bagdasarian/org-service/internal/domain"
)

// TransferService координирует передачу владения организацией.
// Для участника, не имеющего доступа к передаче, она не существует: возвращается NOT_FOUND.
type TransferService interface {
	Initiate(ctx context.Context, orgID, actorID string, target domain.UserLookup) (*domain.OwnershipTransfer, error)
	Accept(ctx context.Context, transferID, actorID string) (*domain.Organization, error)
	Reject(ctx context.Context, transferID, actorID string) error
	Cancel(ctx context.Context, transferID, actorID string) error
	CancelForOrganization(ctx context.Context, orgID, actorID string) error
	GetForOrganization(ctx context.Context, orgID, actorID string) (*domain.OwnershipTransfer, error)
	SweepExpired(ctx context.Context) (int64, error)
}
