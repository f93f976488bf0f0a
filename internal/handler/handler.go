package handler

import (
	"context"

	"github.com/bagdasarian/org-service/internal/service"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	organizationService service.OrganizationService
	transferService     service.TransferService
	db                  Pinger
}

func NewHandler(
	organizationService service.OrganizationService,
	transferService service.TransferService,
	db Pinger,
) *Handler {
	return &Handler{
		organizationService: organizationService,
		transferService:     transferService,
		db:                  db,
	}
}
