package domain

import (
	"strings"
	"time"
)

// TransferExpiry - время жизни запроса на передачу владения
const TransferExpiry = 72 * time.Hour

// OwnershipTransfer существует только пока передача не завершена:
// accept, reject, cancel и истечение срока удаляют запись.
type OwnershipTransfer struct {
	ID             string
	OrganizationID string
	CurrentOwnerID string
	NewOwnerID     string
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

func (t *OwnershipTransfer) IsActive(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}

func (t *OwnershipTransfer) IsParticipant(userID string) bool {
	return t.CurrentOwnerID == userID || t.NewOwnerID == userID
}

// UserLookup - ровно один из идентификаторов нового владельца
type UserLookup struct {
	UserID   string
	Email    string
	Username string
}

const lookupRequiredMessage = "exactly one of user_id, email or username is required"

func (l UserLookup) Validate() error {
	supplied := make([]string, 0, 3)
	if strings.TrimSpace(l.UserID) != "" {
		supplied = append(supplied, "user_id")
	}
	if strings.TrimSpace(l.Email) != "" {
		supplied = append(supplied, "email")
	}
	if strings.TrimSpace(l.Username) != "" {
		supplied = append(supplied, "username")
	}

	switch len(supplied) {
	case 1:
		return nil
	case 0:
		return NewValidationError(map[string][]string{
			"non_field_errors": {lookupRequiredMessage},
		})
	default:
		fields := make(map[string][]string, len(supplied))
		for _, field := range supplied {
			fields[field] = []string{lookupRequiredMessage}
		}
		return NewValidationError(fields)
	}
}
