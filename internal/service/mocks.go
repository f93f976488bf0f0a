package service

import (
	"context"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/notify"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockStore выполняет WithinTx без транзакции на тех же мок-репозиториях
type MockStore struct {
	mock.Mock
	OrgRepo      *MockOrganizationRepository
	UserRepo     *MockUserRepository
	TransferRepo *MockTransferRepository
	EventRepo    *MockEventRepository
}

func NewMockStore() *MockStore {
	return &MockStore{
		OrgRepo:      new(MockOrganizationRepository),
		UserRepo:     new(MockUserRepository),
		TransferRepo: new(MockTransferRepository),
		EventRepo:    new(MockEventRepository),
	}
}

func (m *MockStore) Organizations() repository.OrganizationRepository { return m.OrgRepo }
func (m *MockStore) Users() repository.UserRepository                 { return m.UserRepo }
func (m *MockStore) Transfers() repository.TransferRepository         { return m.TransferRepo }
func (m *MockStore) Events() repository.EventRepository               { return m.EventRepo }

func (m *MockStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(m)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// AssertExpectations проверяет ожидания всех репозиториев
func (m *MockStore) AssertExpectations(t mock.TestingT) bool {
	return m.OrgRepo.AssertExpectations(t) &&
		m.UserRepo.AssertExpectations(t) &&
		m.TransferRepo.AssertExpectations(t) &&
		m.EventRepo.AssertExpectations(t)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) SetOwner(ctx context.Context, orgID string, ownerID string) error {
	args := m.Called(ctx, orgID, ownerID)
	return args.Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrganizationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrganizationRepository) AddMember(ctx context.Context, orgID string, userID string) error {
	args := m.Called(ctx, orgID, userID)
	return args.Error(0)
}

func (m *MockOrganizationRepository) RemoveMember(ctx context.Context, orgID string, userID string) error {
	args := m.Called(ctx, orgID, userID)
	return args.Error(0)
}

func (m *MockOrganizationRepository) IsMember(ctx context.Context, orgID string, userID string) (bool, error) {
	args := m.Called(ctx, orgID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) ListMembers(ctx context.Context, orgID string) ([]*domain.Member, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *domain.OwnershipTransfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.OwnershipTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnershipTransfer), args.Error(1)
}

func (m *MockTransferRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.OwnershipTransfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnershipTransfer), args.Error(1)
}

func (m *MockTransferRepository) GetByOrganizationID(ctx context.Context, orgID string) (*domain.OwnershipTransfer, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnershipTransfer), args.Error(1)
}

func (m *MockTransferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransferRepository) DeleteExpiredByOrganization(ctx context.Context, orgID string, now time.Time) (int64, error) {
	args := m.Called(ctx, orgID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransferRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Record(ctx context.Context, event *domain.TransferEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListByOrganization(ctx context.Context, orgID string, limit int) ([]*domain.TransferEvent, error) {
	args := m.Called(ctx, orgID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TransferEvent), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, msg notify.Message) {
	m.Called(ctx, msg)
}

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Initiate(ctx context.Context, orgID, actorID string, target domain.UserLookup) (*domain.OwnershipTransfer, error) {
	args := m.Called(ctx, orgID, actorID, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnershipTransfer), args.Error(1)
}

func (m *MockTransferService) Accept(ctx context.Context, transferID, actorID string) (*domain.Organization, error) {
	args := m.Called(ctx, transferID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockTransferService) Reject(ctx context.Context, transferID, actorID string) error {
	args := m.Called(ctx, transferID, actorID)
	return args.Error(0)
}

func (m *MockTransferService) Cancel(ctx context.Context, transferID, actorID string) error {
	args := m.Called(ctx, transferID, actorID)
	return args.Error(0)
}

func (m *MockTransferService) CancelForOrganization(ctx context.Context, orgID, actorID string) error {
	args := m.Called(ctx, orgID, actorID)
	return args.Error(0)
}

func (m *MockTransferService) GetForOrganization(ctx context.Context, orgID, actorID string) (*domain.OwnershipTransfer, error) {
	args := m.Called(ctx, orgID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OwnershipTransfer), args.Error(1)
}

func (m *MockTransferService) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) Create(ctx context.Context, actorID, name string) (*domain.Organization, error) {
	args := m.Called(ctx, actorID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) Get(ctx context.Context, orgID, actorID string) (*domain.Organization, error) {
	args := m.Called(ctx, orgID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) Delete(ctx context.Context, orgID, actorID string) error {
	args := m.Called(ctx, orgID, actorID)
	return args.Error(0)
}

func (m *MockOrganizationService) AddMember(ctx context.Context, orgID, actorID string, lookup domain.UserLookup) (*domain.Member, error) {
	args := m.Called(ctx, orgID, actorID, lookup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockOrganizationService) RemoveMember(ctx context.Context, orgID, actorID, userID string) error {
	args := m.Called(ctx, orgID, actorID, userID)
	return args.Error(0)
}

func (m *MockOrganizationService) Leave(ctx context.Context, orgID, actorID string) error {
	args := m.Called(ctx, orgID, actorID)
	return args.Error(0)
}

func (m *MockOrganizationService) ListMembers(ctx context.Context, orgID, actorID string) ([]*domain.Member, error) {
	args := m.Called(ctx, orgID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockOrganizationService) ListEvents(ctx context.Context, orgID, actorID string, limit int) ([]*domain.TransferEvent, error) {
	args := m.Called(ctx, orgID, actorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TransferEvent), args.Error(1)
}
