package domain

import "time"

type Organization struct {
	ID        string
	Name      string
	OwnerID   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsOwner проверяет владельца по текущему состоянию записи
func (o *Organization) IsOwner(userID string) bool {
	return o.OwnerID == userID
}

type Member struct {
	UserID   string
	Username string
	Email    string
	IsOwner  bool
	JoinedAt time.Time
}
