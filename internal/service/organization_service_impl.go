package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	DefaultOrganizationQuota = 5
	maxOrganizationName      = 255
	defaultEventsLimit       = 50
	maxEventsLimit           = 200
)

type organizationService struct {
	store repository.Store
	quota int
	now   func() time.Time
}

// NewOrganizationService создает новый экземпляр OrganizationService.
// quota - сколько организаций может принадлежать одному пользователю.
func NewOrganizationService(store repository.Store, quota int) OrganizationService {
	if quota <= 0 {
		quota = DefaultOrganizationQuota
	}
	return &organizationService{
		store: store,
		quota: quota,
		now:   time.Now,
	}
}

func (s *organizationService) Create(ctx context.Context, actorID, name string) (*domain.Organization, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, domain.NewValidationError(map[string][]string{"name": {"this field is required"}})
	case utf8.RuneCountInString(name) > maxOrganizationName:
		return nil, domain.NewValidationError(map[string][]string{"name": {"ensure this field has no more than 255 characters"}})
	}

	org := &domain.Organization{
		Name:     name,
		OwnerID:  actorID,
		IsActive: true,
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, actorID); err != nil {
			return notFound(err, "user")
		}

		count, err := tx.Organizations().CountByOwner(ctx, actorID)
		if err != nil {
			return err
		}
		if count >= s.quota {
			return domain.ErrQuotaExceeded
		}

		return tx.Organizations().Create(ctx, org)
	})
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().Str("organization_id", org.ID).Str("owner_id", actorID).Msg("organization created")
	return org, nil
}

// Get возвращает организацию владельцу или участнику, остальным NOT_FOUND
func (s *organizationService) Get(ctx context.Context, orgID, actorID string) (*domain.Organization, error) {
	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, notFound(err, "organization")
	}

	ok, err := s.hasAccess(ctx, s.store, org, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFoundError("organization")
	}

	return org, nil
}

// Delete удаляет организацию вместе с ее передачами
func (s *organizationService) Delete(ctx context.Context, orgID, actorID string) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := s.lockOwned(ctx, tx, orgID, actorID); err != nil {
			return err
		}
		return notFound(tx.Organizations().Delete(ctx, orgID), "organization")
	})
	if err != nil {
		return err
	}

	log.Ctx(ctx).Info().Str("organization_id", orgID).Msg("organization deleted")
	return nil
}

func (s *organizationService) AddMember(ctx context.Context, orgID, actorID string, lookup domain.UserLookup) (*domain.Member, error) {
	if err := lookup.Validate(); err != nil {
		return nil, err
	}

	var member *domain.Member
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, err := s.lockOwned(ctx, tx, orgID, actorID)
		if err != nil {
			return err
		}

		user, err := ResolveUser(ctx, tx.Users(), lookup)
		if err != nil {
			return err
		}

		if org.IsOwner(user.ID) {
			return domain.ErrAlreadyMember
		}

		exists, err := tx.Organizations().IsMember(ctx, org.ID, user.ID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyMember
		}

		if err := tx.Organizations().AddMember(ctx, org.ID, user.ID); err != nil {
			return err
		}

		member = &domain.Member{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
			JoinedAt: s.now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (s *organizationService) RemoveMember(ctx context.Context, orgID, actorID, userID string) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, err := s.lockOwned(ctx, tx, orgID, actorID)
		if err != nil {
			return err
		}

		if org.IsOwner(userID) {
			return domain.ErrOwnerCannotLeave
		}

		return notFound(tx.Organizations().RemoveMember(ctx, org.ID, userID), "member")
	})
}

// Leave выводит пользователя из организации. Активная передача на него
// остается: членство при принятии не перепроверяется.
func (s *organizationService) Leave(ctx context.Context, orgID, actorID string) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		org, err := tx.Organizations().GetByIDForUpdate(ctx, orgID)
		if err != nil {
			return notFound(err, "organization")
		}

		if org.IsOwner(actorID) {
			return domain.ErrOwnerCannotLeave
		}

		return notFound(tx.Organizations().RemoveMember(ctx, org.ID, actorID), "organization")
	})
}

// ListMembers доступен только участникам, остальным FORBIDDEN
func (s *organizationService) ListMembers(ctx context.Context, orgID, actorID string) ([]*domain.Member, error) {
	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, notFound(err, "organization")
	}

	ok, err := s.hasAccess(ctx, s.store, org, actorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	return s.store.Organizations().ListMembers(ctx, org.ID)
}

// ListEvents возвращает журнал передач владельцу организации
func (s *organizationService) ListEvents(ctx context.Context, orgID, actorID string, limit int) ([]*domain.TransferEvent, error) {
	org, err := s.store.Organizations().GetByID(ctx, orgID)
	if err != nil {
		return nil, notFound(err, "organization")
	}

	if !org.IsOwner(actorID) {
		return nil, domain.NewNotFoundError("organization")
	}

	switch {
	case limit <= 0:
		limit = defaultEventsLimit
	case limit > maxEventsLimit:
		limit = maxEventsLimit
	}

	return s.store.Events().ListByOrganization(ctx, org.ID, limit)
}

// lockOwned блокирует организацию и проверяет, что actor ее владелец.
// Не владельцу организация не видна.
func (s *organizationService) lockOwned(ctx context.Context, tx repository.Store, orgID, actorID string) (*domain.Organization, error) {
	org, err := tx.Organizations().GetByIDForUpdate(ctx, orgID)
	if err != nil {
		return nil, notFound(err, "organization")
	}

	if !org.IsOwner(actorID) {
		return nil, domain.NewNotFoundError("organization")
	}

	return org, nil
}

func (s *organizationService) hasAccess(ctx context.Context, store repository.Store, org *domain.Organization, actorID string) (bool, error) {
	if org.IsOwner(actorID) {
		return true, nil
	}

	member, err := store.Organizations().IsMember(ctx, org.ID, actorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	return member, nil
}
