package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/notify"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/bagdasarian/org-service/internal/telemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type transferService struct {
	store    repository.Store
	notifier notify.Notifier
	metrics  *telemetry.Metrics
	baseURL  string
	now      func() time.Time
}

// NewTransferService создает новый экземпляр TransferService.
// baseURL используется для ссылок в письмах.
func NewTransferService(store repository.Store, notifier notify.Notifier, baseURL string) TransferService {
	return &transferService{
		store:    store,
		notifier: notifier,
		metrics:  telemetry.GetMetrics(),
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// parties - участники передачи, нужны для писем после коммита
type parties struct {
	org          *domain.Organization
	currentOwner *domain.User
	newOwner     *domain.User
	transfer     *domain.OwnershipTransfer
}

// Initiate создает передачу владения. Проверки идут в фиксированном порядке,
// строка организации заблокирована до коммита.
func (s *transferService) Initiate(ctx context.Context, orgID, actorID string, target domain.UserLookup) (_ *domain.OwnershipTransfer, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TransferService.Initiate",
		trace.WithAttributes(attribute.String("organization.id", orgID)))
	defer func() { endSpan(span, err) }()

	if err := target.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var (
		p       parties
		expired int64
	)

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, err := tx.Organizations().GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return notFound(err, "organization")
		}

		if !org.IsOwner(actorID) {
			return domain.ErrNotOwner
		}

		newOwner, err := ResolveUser(ctx, tx.Users(), target)
		if err != nil {
			return err
		}

		if newOwner.ID == actorID {
			return domain.ErrSelfTransfer
		}

		member, err := tx.Organizations().IsMember(ctx, org.ID, newOwner.ID)
		if err != nil {
			return err
		}
		if !member {
			return domain.ErrTargetNotMember
		}

		// Истекшие, но еще не удаленные передачи не должны блокировать новую
		expired, err = tx.Transfers().DeleteExpiredByOrganization(ctx, org.ID, now)
		if err != nil {
			return err
		}

		_, err = tx.Transfers().GetByOrganizationID(ctx, org.ID)
		if err == nil {
			return domain.ErrTransferActive
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		transfer := &domain.OwnershipTransfer{
			OrganizationID: org.ID,
			CurrentOwnerID: actorID,
			NewOwnerID:     newOwner.ID,
			ExpiresAt:      now.Add(domain.TransferExpiry),
			CreatedAt:      now,
		}
		if err := tx.Transfers().Create(ctx, transfer); err != nil {
			return err
		}

		if err := tx.Events().Record(ctx, domain.NewTransferEvent(transfer, domain.EventInitiated, actorID, now)); err != nil {
			return err
		}

		currentOwner, err := tx.Users().GetByID(ctx, actorID)
		if err != nil {
			return notFound(err, "user")
		}

		p = parties{org: org, currentOwner: currentOwner, newOwner: newOwner, transfer: transfer}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Удаление истекших передач фиксируется только вместе с коммитом
	if expired > 0 {
		s.metrics.TransfersExpired.Add(ctx, expired)
		log.Ctx(ctx).Info().Str("organization_id", orgID).Int64("count", expired).Msg("expired transfers removed")
	}

	s.metrics.TransfersInitiated.Add(ctx, 1)
	s.logTransition(ctx, p.transfer, domain.EventInitiated, actorID)

	msgCtx := s.messageContext(p)
	s.notifier.Send(ctx, notify.Message{
		Template:   notify.TemplateTransferInitiatedOwner,
		Subject:    fmt.Sprintf("Ownership transfer of %s started", p.org.Name),
		Context:    msgCtx,
		Recipients: []string{p.currentOwner.Email},
	})
	s.notifier.Send(ctx, notify.Message{
		Template:   notify.TemplateTransferInitiatedTarget,
		Subject:    fmt.Sprintf("You have been offered ownership of %s", p.org.Name),
		Context:    msgCtx,
		Recipients: []string{p.newOwner.Email},
	})

	return p.transfer, nil
}

// Accept передает владение новому владельцу; смена владельца и удаление
// передачи выполняются в одной транзакции.
func (s *transferService) Accept(ctx context.Context, transferID, actorID string) (_ *domain.Organization, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TransferService.Accept",
		trace.WithAttributes(attribute.String("transfer.id", transferID)))
	defer func() { endSpan(span, err) }()

	now := s.now()
	var p parties

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, transfer, err := s.lockTransfer(ctx, tx, transferID, func(org *domain.Organization, t *domain.OwnershipTransfer) bool {
			return t.NewOwnerID == actorID
		})
		if err != nil {
			return err
		}

		if !transfer.IsActive(now) {
			return domain.ErrTransferNotActive
		}

		previousOwnerID := org.OwnerID

		if err := tx.Organizations().SetOwner(ctx, org.ID, transfer.NewOwnerID); err != nil {
			return err
		}

		// Владелец не хранится в составе: новый уходит из него, прежний становится участником
		if err := tx.Organizations().RemoveMember(ctx, org.ID, transfer.NewOwnerID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		member, err := tx.Organizations().IsMember(ctx, org.ID, previousOwnerID)
		if err != nil {
			return err
		}
		if !member {
			if err := tx.Organizations().AddMember(ctx, org.ID, previousOwnerID); err != nil {
				return err
			}
		}

		if err := tx.Events().Record(ctx, domain.NewTransferEvent(transfer, domain.EventAccepted, actorID, now)); err != nil {
			return err
		}

		if err := tx.Transfers().Delete(ctx, transfer.ID); err != nil {
			return notFound(err, "transfer")
		}

		org.OwnerID = transfer.NewOwnerID
		org.UpdatedAt = &now

		p, err = s.loadParties(ctx, tx, org, transfer)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TransfersAccepted.Add(ctx, 1)
	s.logTransition(ctx, p.transfer, domain.EventAccepted, actorID)

	s.notifier.Send(ctx, notify.Message{
		Template:   notify.TemplateTransferAccepted,
		Subject:    fmt.Sprintf("Ownership of %s transferred", p.org.Name),
		Context:    s.messageContext(p),
		Recipients: []string{p.currentOwner.Email, p.newOwner.Email},
	})

	return p.org, nil
}

// Reject отклоняет передачу, владелец не меняется
func (s *transferService) Reject(ctx context.Context, transferID, actorID string) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TransferService.Reject",
		trace.WithAttributes(attribute.String("transfer.id", transferID)))
	defer func() { endSpan(span, err) }()

	now := s.now()
	var p parties

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, transfer, err := s.lockTransfer(ctx, tx, transferID, func(org *domain.Organization, t *domain.OwnershipTransfer) bool {
			return t.NewOwnerID == actorID
		})
		if err != nil {
			return err
		}

		if !transfer.IsActive(now) {
			return domain.ErrTransferNotActive
		}

		if err := s.closeTransfer(ctx, tx, transfer, domain.EventRejected, actorID, now); err != nil {
			return err
		}

		p, err = s.loadParties(ctx, tx, org, transfer)
		return err
	})
	if err != nil {
		return err
	}

	s.metrics.TransfersRejected.Add(ctx, 1)
	s.logTransition(ctx, p.transfer, domain.EventRejected, actorID)

	s.notifier.Send(ctx, notify.Message{
		Template:   notify.TemplateTransferRejected,
		Subject:    fmt.Sprintf("Ownership transfer of %s rejected", p.org.Name),
		Context:    s.messageContext(p),
		Recipients: []string{p.currentOwner.Email},
	})

	return nil
}

// Cancel отменяет передачу по ее идентификатору
func (s *transferService) Cancel(ctx context.Context, transferID, actorID string) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TransferService.Cancel",
		trace.WithAttributes(attribute.String("transfer.id", transferID)))
	defer func() { endSpan(span, err) }()

	return s.cancel(ctx, actorID, func(tx repository.Store) (*domain.Organization, *domain.OwnershipTransfer, error) {
		return s.lockTransfer(ctx, tx, transferID, canCancel(actorID))
	})
}

// CancelForOrganization отменяет текущую передачу организации
func (s *transferService) CancelForOrganization(ctx context.Context, orgID, actorID string) (err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TransferService.CancelForOrganization",
		trace.WithAttributes(attribute.String("organization.id", orgID)))
	defer func() { endSpan(span, err) }()

	return s.cancel(ctx, actorID, func(tx repository.Store) (*domain.Organization, *domain.OwnershipTransfer, error) {
		org, err := tx.Organizations().GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return nil, nil, notFound(err, "organization")
		}

		current, err := tx.Transfers().GetByOrganizationID(ctx, org.ID)
		if err != nil {
			return nil, nil, notFound(err, "transfer")
		}

		transfer, err := tx.Transfers().GetByIDForUpdate(ctx, current.ID)
		if err != nil {
			return nil, nil, notFound(err, "transfer")
		}

		if !canCancel(actorID)(org, transfer) {
			return nil, nil, domain.NewNotFoundError("transfer")
		}
		return org, transfer, nil
	})
}

// canCancel: отменить может только инициатор, если он все еще владелец
func canCancel(actorID string) func(*domain.Organization, *domain.OwnershipTransfer) bool {
	return func(org *domain.Organization, t *domain.OwnershipTransfer) bool {
		return t.CurrentOwnerID == actorID && org.IsOwner(actorID)
	}
}

func (s *transferService) cancel(
	ctx context.Context,
	actorID string,
	lock func(tx repository.Store) (*domain.Organization, *domain.OwnershipTransfer, error),
) error {
	now := s.now()
	var p parties

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, transfer, err := lock(tx)
		if err != nil {
			return err
		}

		if !transfer.IsActive(now) {
			return domain.ErrTransferNotActive
		}

		if err := s.closeTransfer(ctx, tx, transfer, domain.EventCancelled, actorID, now); err != nil {
			return err
		}

		p, err = s.loadParties(ctx, tx, org, transfer)
		return err
	})
	if err != nil {
		return err
	}

	s.metrics.TransfersCancelled.Add(ctx, 1)
	s.logTransition(ctx, p.transfer, domain.EventCancelled, actorID)

	s.notifier.Send(ctx, notify.Message{
		Template:   notify.TemplateTransferCancelled,
		Subject:    fmt.Sprintf("Ownership transfer of %s cancelled", p.org.Name),
		Context:    s.messageContext(p),
		Recipients: []string{p.newOwner.Email},
	})

	return nil
}

// GetForOrganization возвращает активную передачу владельцу организации или адресату
func (s *transferService) GetForOrganization(ctx context.Context, orgID, actorID string) (*domain.OwnershipTransfer, error) {
	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, notFound(err, "organization")
	}

	transfer, err := s.store.Transfers().GetByOrganizationID(ctx, org.ID)
	if err != nil {
		return nil, notFound(err, "transfer")
	}

	if !transfer.IsActive(s.now()) || !(org.IsOwner(actorID) || transfer.IsParticipant(actorID)) {
		return nil, domain.NewNotFoundError("transfer")
	}

	return transfer, nil
}

// SweepExpired удаляет все истекшие передачи без уведомлений
func (s *transferService) SweepExpired(ctx context.Context) (_ int64, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TransferService.SweepExpired")
	defer func() { endSpan(span, err) }()

	count, err := s.store.Transfers().DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	span.SetAttributes(attribute.Int64("transfers.expired", count))
	if count > 0 {
		s.metrics.TransfersExpired.Add(ctx, count)
	}
	return count, nil
}

// lockTransfer блокирует строку организации, затем строку передачи.
// Отсутствующая передача и передача, недоступная actor (allowed == false),
// неразличимы для вызывающего: в обоих случаях NOT_FOUND.
func (s *transferService) lockTransfer(
	ctx context.Context,
	tx repository.Store,
	transferID string,
	allowed func(*domain.Organization, *domain.OwnershipTransfer) bool,
) (*domain.Organization, *domain.OwnershipTransfer, error) {
	transfer, err := tx.Transfers().GetByID(ctx, transferID)
	if err != nil {
		return nil, nil, notFound(err, "transfer")
	}

	org, err := tx.Organizations().GetByIDForUpdate(ctx, transfer.OrganizationID)
	if err != nil {
		return nil, nil, notFound(err, "transfer")
	}

	// Передачу могли удалить, пока ждали блокировку организации
	transfer, err = tx.Transfers().GetByIDForUpdate(ctx, transferID)
	if err != nil {
		return nil, nil, notFound(err, "transfer")
	}

	if !allowed(org, transfer) {
		return nil, nil, domain.NewNotFoundError("transfer")
	}

	return org, transfer, nil
}

// closeTransfer пишет событие в журнал и удаляет передачу
func (s *transferService) closeTransfer(
	ctx context.Context,
	tx repository.Store,
	transfer *domain.OwnershipTransfer,
	kind domain.EventKind,
	actorID string,
	now time.Time,
) error {
	if err := tx.Events().Record(ctx, domain.NewTransferEvent(transfer, kind, actorID, now)); err != nil {
		return err
	}
	if err := tx.Transfers().Delete(ctx, transfer.ID); err != nil {
		return notFound(err, "transfer")
	}
	return nil
}

func (s *transferService) loadParties(ctx context.Context, tx repository.Store, org *domain.Organization, transfer *domain.OwnershipTransfer) (parties, error) {
	currentOwner, err := tx.Users().GetByID(ctx, transfer.CurrentOwnerID)
	if err != nil {
		return parties{}, notFound(err, "user")
	}

	newOwner, err := tx.Users().GetByID(ctx, transfer.NewOwnerID)
	if err != nil {
		return parties{}, notFound(err, "user")
	}

	return parties{org: org, currentOwner: currentOwner, newOwner: newOwner, transfer: transfer}, nil
}

func (s *transferService) messageContext(p parties) map[string]any {
	return map[string]any{
		"organization_id":        p.org.ID,
		"organization_name":      p.org.Name,
		"current_owner_username": p.currentOwner.Username,
		"new_owner_username":     p.newOwner.Username,
		"expires_at":             p.transfer.ExpiresAt.UTC().Format(time.RFC1123),
		"accept_url":             fmt.Sprintf("%s/organizations/transfer/%s/accept/", s.baseURL, p.transfer.ID),
		"reject_url":             fmt.Sprintf("%s/organizations/transfer/%s/reject/", s.baseURL, p.transfer.ID),
		"cancel_url":             fmt.Sprintf("%s/organizations/%s/transfer/cancel/", s.baseURL, p.org.ID),
	}
}

func (s *transferService) logTransition(ctx context.Context, transfer *domain.OwnershipTransfer, kind domain.EventKind, actorID string) {
	log.Ctx(ctx).Info().
		Str("transfer_id", transfer.ID).
		Str("organization_id", transfer.OrganizationID).
		Str("event", string(kind)).
		Str("actor_id", actorID).
		Msg("ownership transfer")
}
