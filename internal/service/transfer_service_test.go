package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/notify"
	"github.com/bagdasarian/org-service/internal/repository"
	"github.com/bagdasarian/org-service/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const (
	orgID      = "org-1"
	transferID = "tr-1"
	aliceID    = "u-alice"
	bobID      = "u-bob"
	carolID    = "u-carol"
)

var (
	alice = &domain.User{ID: aliceID, Username: "alice", Email: "alice@example.com", IsActive: true}
	bob   = &domain.User{ID: bobID, Username: "bob", Email: "bob@example.com", IsActive: true}
)

type transferFixture struct {
	store    *MockStore
	notifier *MockNotifier
	service  TransferService
	now      time.Time
}

func newTransferFixture() *transferFixture {
	store := NewMockStore()
	notifier := new(MockNotifier)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := NewTransferService(store, notifier, "https://orgs.example.com/")
	svc.(*transferService).now = func() time.Time { return now }

	return &transferFixture{store: store, notifier: notifier, service: svc, now: now}
}

// withMetrics подменяет счетчики сервиса на читаемые в тесте
func (f *transferFixture) withMetrics(t *testing.T) *sdkmetric.ManualReader {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	f.service.(*transferService).metrics = telemetry.NewMetrics(provider.Meter("test"))
	return reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if metric.Name != name {
				continue
			}
			sum, ok := metric.Data.(metricdata.Sum[int64])
			require.True(t, ok, name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func (f *transferFixture) org() *domain.Organization {
	return &domain.Organization{ID: orgID, Name: "Acme", OwnerID: aliceID, IsActive: true}
}

func (f *transferFixture) transfer(expiresAt time.Time) *domain.OwnershipTransfer {
	return &domain.OwnershipTransfer{
		ID:             transferID,
		OrganizationID: orgID,
		CurrentOwnerID: aliceID,
		NewOwnerID:     bobID,
		ExpiresAt:      expiresAt,
		CreatedAt:      expiresAt.Add(-domain.TransferExpiry),
	}
}

func (f *transferFixture) assert(t *testing.T) {
	f.store.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func eventOfKind(kind domain.EventKind) interface{} {
	return mock.MatchedBy(func(e *domain.TransferEvent) bool { return e.Kind == kind })
}

func messageWithTemplate(template string) interface{} {
	return mock.MatchedBy(func(m notify.Message) bool { return m.Template == template })
}

func TestTransferService_Initiate(t *testing.T) {
	t.Run("успешное создание передачи", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, bobID).Return(bob, nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, bobID).Return(true, nil).Once()
		f.store.TransferRepo.On("DeleteExpiredByOrganization", mock.Anything, orgID, f.now).Return(int64(0), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(nil, repository.ErrNotFound).Once()
		f.store.TransferRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.OwnershipTransfer")).Return(nil).Once()
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventInitiated)).Return(nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, aliceID).Return(alice, nil).Once()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
			return m.Template == notify.TemplateTransferInitiatedOwner && m.Recipients[0] == alice.Email
		})).Once()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
			return m.Template == notify.TemplateTransferInitiatedTarget &&
				m.Recipients[0] == bob.Email &&
				m.Context["cancel_url"] == "https://orgs.example.com/organizations/org-1/transfer/cancel/"
		})).Once()

		result, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID})

		require.NoError(t, err)
		assert.Equal(t, orgID, result.OrganizationID)
		assert.Equal(t, aliceID, result.CurrentOwnerID)
		assert.Equal(t, bobID, result.NewOwnerID)
		assert.Equal(t, f.now.Add(72*time.Hour), result.ExpiresAt)
		assert.True(t, result.IsActive(f.now))
		f.assert(t)
	})
}

func TestTransferService_Initiate_Preconditions(t *testing.T) {
	t.Run("ошибка: ни одного идентификатора", func(t *testing.T) {
		f := newTransferFixture()

		result, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{})

		assert.Nil(t, result)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.Contains(t, domainErr.Fields, "non_field_errors")
		f.assert(t)
	})

	t.Run("ошибка: два идентификатора", func(t *testing.T) {
		f := newTransferFixture()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID, Email: bob.Email})

		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Contains(t, domainErr.Fields, "user_id")
		assert.Contains(t, domainErr.Fields, "email")
		f.assert(t)
	})

	t.Run("ошибка: организация не найдена", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(nil, repository.ErrNotFound).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID})

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("ошибка: инициатор не владелец", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()

		_, err := f.service.Initiate(context.Background(), orgID, bobID, domain.UserLookup{UserID: carolID})

		assert.True(t, errors.Is(err, domain.ErrNotOwner))
		f.assert(t)
	})

	t.Run("ошибка: новый владелец не найден", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{Username: "ghost"})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.Equal(t, "user not found", err.Error())
		f.assert(t)
	})

	t.Run("ошибка: передача самому себе", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByEmail", mock.Anything, alice.Email).Return(alice, nil).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{Email: alice.Email})

		assert.True(t, errors.Is(err, domain.ErrSelfTransfer))
		f.store.TransferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("ошибка: новый владелец не участник", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, carolID).Return(&domain.User{ID: carolID}, nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, carolID).Return(false, nil).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: carolID})

		assert.True(t, errors.Is(err, domain.ErrTargetNotMember))
		f.assert(t)
	})

	t.Run("ошибка: передача уже активна", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, bobID).Return(bob, nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, bobID).Return(true, nil).Once()
		f.store.TransferRepo.On("DeleteExpiredByOrganization", mock.Anything, orgID, f.now).Return(int64(0), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(f.transfer(f.now.Add(time.Hour)), nil).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID})

		assert.True(t, errors.Is(err, domain.ErrTransferActive))
		assert.Equal(t, "transfer already active", err.Error())
		f.store.TransferRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("истекшая передача удаляется и не мешает новой", func(t *testing.T) {
		f := newTransferFixture()
		reader := f.withMetrics(t)

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, bobID).Return(bob, nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, bobID).Return(true, nil).Once()
		f.store.TransferRepo.On("DeleteExpiredByOrganization", mock.Anything, orgID, f.now).Return(int64(1), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(nil, repository.ErrNotFound).Once()
		f.store.TransferRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.OwnershipTransfer")).Return(nil).Once()
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventInitiated)).Return(nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, aliceID).Return(alice, nil).Once()
		f.notifier.On("Send", mock.Anything, mock.Anything).Twice()

		result, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID})

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, int64(1), counterValue(t, reader, "org.transfers.expired"))
		assert.Equal(t, int64(1), counterValue(t, reader, "org.transfers.initiated"))
		f.assert(t)
	})

	t.Run("откат транзакции не учитывает удаленные истекшие передачи", func(t *testing.T) {
		f := newTransferFixture()
		reader := f.withMetrics(t)

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, bobID).Return(bob, nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, bobID).Return(true, nil).Once()
		f.store.TransferRepo.On("DeleteExpiredByOrganization", mock.Anything, orgID, f.now).Return(int64(1), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(nil, repository.ErrNotFound).Once()
		f.store.TransferRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrTransferActive).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID})

		assert.True(t, errors.Is(err, domain.ErrTransferActive))
		assert.Zero(t, counterValue(t, reader, "org.transfers.expired"))
		assert.Zero(t, counterValue(t, reader, "org.transfers.initiated"))
		f.assert(t)
	})

	t.Run("гонка: уникальный индекс отклоняет вторую передачу", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.UserRepo.On("GetByID", mock.Anything, bobID).Return(bob, nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, bobID).Return(true, nil).Once()
		f.store.TransferRepo.On("DeleteExpiredByOrganization", mock.Anything, orgID, f.now).Return(int64(0), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(nil, repository.ErrNotFound).Once()
		f.store.TransferRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrTransferActive).Once()

		_, err := f.service.Initiate(context.Background(), orgID, aliceID, domain.UserLookup{UserID: bobID})

		assert.True(t, errors.Is(err, domain.ErrTransferActive))
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		f.assert(t)
	})
}

func (f *transferFixture) expectLock(transfer *domain.OwnershipTransfer, org *domain.Organization) {
	f.store.TransferRepo.On("GetByID", mock.Anything, transferID).Return(transfer, nil).Once()
	f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(org, nil).Once()
	f.store.TransferRepo.On("GetByIDForUpdate", mock.Anything, transferID).Return(transfer, nil).Once()
}

func (f *transferFixture) expectParties() {
	f.store.UserRepo.On("GetByID", mock.Anything, aliceID).Return(alice, nil).Once()
	f.store.UserRepo.On("GetByID", mock.Anything, bobID).Return(bob, nil).Once()
}

func TestTransferService_Accept(t *testing.T) {
	t.Run("успешное принятие меняет владельца", func(t *testing.T) {
		f := newTransferFixture()
		transfer := f.transfer(f.now.Add(time.Hour))

		f.expectLock(transfer, f.org())
		f.store.OrgRepo.On("SetOwner", mock.Anything, orgID, bobID).Return(nil).Once()
		f.store.OrgRepo.On("RemoveMember", mock.Anything, orgID, bobID).Return(nil).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, aliceID).Return(false, nil).Once()
		f.store.OrgRepo.On("AddMember", mock.Anything, orgID, aliceID).Return(nil).Once()
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventAccepted)).Return(nil).Once()
		f.store.TransferRepo.On("Delete", mock.Anything, transferID).Return(nil).Once()
		f.expectParties()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
			return m.Template == notify.TemplateTransferAccepted &&
				assert.ObjectsAreEqual([]string{alice.Email, bob.Email}, m.Recipients)
		})).Once()

		org, err := f.service.Accept(context.Background(), transferID, bobID)

		require.NoError(t, err)
		assert.Equal(t, bobID, org.OwnerID)
		require.NotNil(t, org.UpdatedAt)
		f.assert(t)
	})

	t.Run("новый владелец уже покинул состав", func(t *testing.T) {
		f := newTransferFixture()
		transfer := f.transfer(f.now.Add(time.Hour))

		f.expectLock(transfer, f.org())
		f.store.OrgRepo.On("SetOwner", mock.Anything, orgID, bobID).Return(nil).Once()
		f.store.OrgRepo.On("RemoveMember", mock.Anything, orgID, bobID).Return(repository.ErrNotFound).Once()
		f.store.OrgRepo.On("IsMember", mock.Anything, orgID, aliceID).Return(false, nil).Once()
		f.store.OrgRepo.On("AddMember", mock.Anything, orgID, aliceID).Return(nil).Once()
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventAccepted)).Return(nil).Once()
		f.store.TransferRepo.On("Delete", mock.Anything, transferID).Return(nil).Once()
		f.expectParties()
		f.notifier.On("Send", mock.Anything, messageWithTemplate(notify.TemplateTransferAccepted)).Once()

		org, err := f.service.Accept(context.Background(), transferID, bobID)

		require.NoError(t, err)
		assert.Equal(t, bobID, org.OwnerID)
		f.assert(t)
	})

	t.Run("посторонний получает NOT_FOUND", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())

		org, err := f.service.Accept(context.Background(), transferID, carolID)

		assert.Nil(t, org)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.store.OrgRepo.AssertNotCalled(t, "SetOwner", mock.Anything, mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("текущий владелец не может принять", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())

		_, err := f.service.Accept(context.Background(), transferID, aliceID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("повторное принятие: передачи уже нет", func(t *testing.T) {
		f := newTransferFixture()

		f.store.TransferRepo.On("GetByID", mock.Anything, transferID).Return(nil, repository.ErrNotFound).Once()

		_, err := f.service.Accept(context.Background(), transferID, bobID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.store.OrgRepo.AssertNotCalled(t, "SetOwner", mock.Anything, mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("передачу удалили, пока ждали блокировку", func(t *testing.T) {
		f := newTransferFixture()

		f.store.TransferRepo.On("GetByID", mock.Anything, transferID).Return(f.transfer(f.now.Add(time.Hour)), nil).Once()
		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByIDForUpdate", mock.Anything, transferID).Return(nil, repository.ErrNotFound).Once()

		_, err := f.service.Accept(context.Background(), transferID, bobID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("истекшая передача не активна", func(t *testing.T) {
		f := newTransferFixture()

		// создана 73 часа назад
		transfer := f.transfer(f.now.Add(-time.Hour))
		f.expectLock(transfer, f.org())

		_, err := f.service.Accept(context.Background(), transferID, bobID)

		assert.True(t, errors.Is(err, domain.ErrTransferNotActive))
		f.store.TransferRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("ошибка БД при смене владельца", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())
		f.store.OrgRepo.On("SetOwner", mock.Anything, orgID, bobID).Return(errors.New("connection reset")).Once()

		_, err := f.service.Accept(context.Background(), transferID, bobID)

		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrNotFound))
		f.store.TransferRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assert(t)
	})
}

func TestTransferService_Reject(t *testing.T) {
	t.Run("успешное отклонение", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventRejected)).Return(nil).Once()
		f.store.TransferRepo.On("Delete", mock.Anything, transferID).Return(nil).Once()
		f.expectParties()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
			return m.Template == notify.TemplateTransferRejected && m.Recipients[0] == alice.Email
		})).Once()

		err := f.service.Reject(context.Background(), transferID, bobID)

		require.NoError(t, err)
		f.store.OrgRepo.AssertNotCalled(t, "SetOwner", mock.Anything, mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("посторонний получает NOT_FOUND", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())

		err := f.service.Reject(context.Background(), transferID, carolID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("повторное отклонение", func(t *testing.T) {
		f := newTransferFixture()

		f.store.TransferRepo.On("GetByID", mock.Anything, transferID).Return(nil, repository.ErrNotFound).Once()

		err := f.service.Reject(context.Background(), transferID, bobID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("истекшая передача", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now), f.org())

		err := f.service.Reject(context.Background(), transferID, bobID)

		assert.True(t, errors.Is(err, domain.ErrTransferNotActive))
		f.assert(t)
	})
}

func TestTransferService_Cancel(t *testing.T) {
	t.Run("успешная отмена владельцем", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventCancelled)).Return(nil).Once()
		f.store.TransferRepo.On("Delete", mock.Anything, transferID).Return(nil).Once()
		f.expectParties()
		f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(m notify.Message) bool {
			return m.Template == notify.TemplateTransferCancelled && m.Recipients[0] == bob.Email
		})).Once()

		err := f.service.Cancel(context.Background(), transferID, aliceID)

		require.NoError(t, err)
		f.assert(t)
	})

	t.Run("адресат не может отменить", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(time.Hour)), f.org())

		err := f.service.Cancel(context.Background(), transferID, bobID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("инициатор больше не владелец", func(t *testing.T) {
		f := newTransferFixture()

		org := f.org()
		org.OwnerID = carolID
		f.expectLock(f.transfer(f.now.Add(time.Hour)), org)

		err := f.service.Cancel(context.Background(), transferID, aliceID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.store.TransferRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("истекшая передача", func(t *testing.T) {
		f := newTransferFixture()

		f.expectLock(f.transfer(f.now.Add(-time.Minute)), f.org())

		err := f.service.Cancel(context.Background(), transferID, aliceID)

		assert.True(t, errors.Is(err, domain.ErrTransferNotActive))
		f.assert(t)
	})
}

func TestTransferService_CancelForOrganization(t *testing.T) {
	t.Run("успешная отмена по организации", func(t *testing.T) {
		f := newTransferFixture()
		transfer := f.transfer(f.now.Add(time.Hour))

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(transfer, nil).Once()
		f.store.TransferRepo.On("GetByIDForUpdate", mock.Anything, transferID).Return(transfer, nil).Once()
		f.store.EventRepo.On("Record", mock.Anything, eventOfKind(domain.EventCancelled)).Return(nil).Once()
		f.store.TransferRepo.On("Delete", mock.Anything, transferID).Return(nil).Once()
		f.expectParties()
		f.notifier.On("Send", mock.Anything, messageWithTemplate(notify.TemplateTransferCancelled)).Once()

		err := f.service.CancelForOrganization(context.Background(), orgID, aliceID)

		require.NoError(t, err)
		f.assert(t)
	})

	t.Run("активной передачи нет", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(nil, repository.ErrNotFound).Once()

		err := f.service.CancelForOrganization(context.Background(), orgID, aliceID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("не владелец получает NOT_FOUND", func(t *testing.T) {
		f := newTransferFixture()
		transfer := f.transfer(f.now.Add(time.Hour))

		f.store.OrgRepo.On("GetByIDForUpdate", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(transfer, nil).Once()
		f.store.TransferRepo.On("GetByIDForUpdate", mock.Anything, transferID).Return(transfer, nil).Once()

		err := f.service.CancelForOrganization(context.Background(), orgID, bobID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})
}

func TestTransferService_GetForOrganization(t *testing.T) {
	t.Run("адресат видит передачу", func(t *testing.T) {
		f := newTransferFixture()
		transfer := f.transfer(f.now.Add(time.Hour))

		f.store.OrgRepo.On("GetByID", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(transfer, nil).Once()

		result, err := f.service.GetForOrganization(context.Background(), orgID, bobID)

		require.NoError(t, err)
		assert.Equal(t, transferID, result.ID)
		f.assert(t)
	})

	t.Run("другой участник не видит передачу", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByID", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(f.transfer(f.now.Add(time.Hour)), nil).Once()

		_, err := f.service.GetForOrganization(context.Background(), orgID, carolID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})

	t.Run("истекшая передача не показывается", func(t *testing.T) {
		f := newTransferFixture()

		f.store.OrgRepo.On("GetByID", mock.Anything, orgID).Return(f.org(), nil).Once()
		f.store.TransferRepo.On("GetByOrganizationID", mock.Anything, orgID).Return(f.transfer(f.now), nil).Once()

		_, err := f.service.GetForOrganization(context.Background(), orgID, aliceID)

		assert.True(t, errors.Is(err, domain.ErrNotFound))
		f.assert(t)
	})
}

func TestTransferService_SweepExpired(t *testing.T) {
	t.Run("удаляет истекшие без уведомлений", func(t *testing.T) {
		f := newTransferFixture()

		f.store.TransferRepo.On("DeleteExpired", mock.Anything, f.now).Return(int64(3), nil).Once()

		count, err := f.service.SweepExpired(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
		f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		f.assert(t)
	})

	t.Run("ошибка БД", func(t *testing.T) {
		f := newTransferFixture()

		f.store.TransferRepo.On("DeleteExpired", mock.Anything, f.now).Return(int64(0), errors.New("timeout")).Once()

		_, err := f.service.SweepExpired(context.Background())

		require.Error(t, err)
		f.assert(t)
	})
}
