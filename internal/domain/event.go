package domain

import "time"

type EventKind string

const (
	EventInitiated EventKind = "initiated"
	EventAccepted  EventKind = "accepted"
	EventRejected  EventKind = "rejected"
	EventCancelled EventKind = "cancelled"
	EventExpired   EventKind = "expired"
)

// TransferEvent - неизменяемая запись журнала, пишется до удаления передачи
type TransferEvent struct {
	ID             string
	TransferID     string
	OrganizationID string
	ActorID        *string
	Kind           EventKind
	CurrentOwnerID string
	NewOwnerID     string
	CreatedAt      time.Time
}

func NewTransferEvent(t *OwnershipTransfer, kind EventKind, actorID string, at time.Time) *TransferEvent {
	return &TransferEvent{
		TransferID:     t.ID,
		OrganizationID: t.OrganizationID,
		ActorID:        &actorID,
		Kind:           kind,
		CurrentOwnerID: t.CurrentOwnerID,
		NewOwnerID:     t.NewOwnerID,
		CreatedAt:      at,
	}
}
