package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLookup_Validate(t *testing.T) {
	t.Run("ровно один идентификатор", func(t *testing.T) {
		assert.NoError(t, UserLookup{UserID: "u1"}.Validate())
		assert.NoError(t, UserLookup{Email: "bob@example.com"}.Validate())
		assert.NoError(t, UserLookup{Username: "bob"}.Validate())
	})

	t.Run("ошибка: ни одного идентификатора", func(t *testing.T) {
		err := UserLookup{Username: "   "}.Validate()

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidation))

		var domainErr *DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Contains(t, domainErr.Fields, "non_field_errors")
	})

	t.Run("ошибка: несколько идентификаторов", func(t *testing.T) {
		err := UserLookup{UserID: "u1", Email: "bob@example.com"}.Validate()

		require.Error(t, err)
		var domainErr *DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.Len(t, domainErr.Fields, 2)
		assert.Contains(t, domainErr.Fields, "user_id")
		assert.Contains(t, domainErr.Fields, "email")
	})
}

func TestOwnershipTransfer_IsActive(t *testing.T) {
	now := time.Now()

	transfer := &OwnershipTransfer{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, transfer.IsActive(now))

	transfer.ExpiresAt = now
	assert.False(t, transfer.IsActive(now), "граница: срок истекает ровно сейчас")

	transfer.ExpiresAt = now.Add(-time.Minute)
	assert.False(t, transfer.IsActive(now))
}

func TestDomainError_Is(t *testing.T) {
	assert.True(t, errors.Is(NewNotFoundError("transfer"), ErrNotFound))
	assert.False(t, errors.Is(ErrTransferActive, ErrTransferNotActive))
}
