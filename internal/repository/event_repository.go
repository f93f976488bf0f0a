package repository

import (
	"context"

	"github.com/bagdasarian/org-service/internal/domain"
)

type EventRepository interface {
	Record(ctx context.Context, event *domain.TransferEvent) error
	ListByOrganization(ctx context.Context, orgID string, limit int) ([]*domain.TransferEvent, error)
}
