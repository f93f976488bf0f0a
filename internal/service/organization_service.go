package service

import (
	"context"

	"github.com/bagdasarian/org-service/internal/domain"
)

type OrganizationService interface {
	Create(ctx context.Context, actorID, name string) (*domain.Organization, error)
	Get(ctx context.Context, orgID, actorID string) (*domain.Organization, error)
	Delete(ctx context.Context, orgID, actorID string) error
	AddMember(ctx context.Context, orgID, actorID string, lookup domain.UserLookup) (*domain.Member, error)
	RemoveMember(ctx context.Context, orgID, actorID, userID string) error
	Leave(ctx context.Context, orgID, actorID string) error
	ListMembers(ctx context.Context, orgID, actorID string) ([]*domain.Member, error)
	ListEvents(ctx context.Context, orgID, actorID string, limit int) ([]*domain.TransferEvent, error)
}
