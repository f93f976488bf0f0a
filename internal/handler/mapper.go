package handler

import (
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func httpLookupToDomain(req UserLookupRequest) domain.UserLookup {
	return domain.UserLookup{
		UserID:   req.UserID,
		Email:    req.Email,
		Username: req.Username,
	}
}

func domainOrganizationToHTTP(org *domain.Organization) OrganizationResponse {
	resp := OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		OwnerID:   org.OwnerID,
		IsActive:  org.IsActive,
		CreatedAt: formatTime(org.CreatedAt),
	}

	if org.UpdatedAt != nil {
		updated := formatTime(*org.UpdatedAt)
		resp.UpdatedAt = &updated
	}

	return resp
}

func domainMemberToHTTP(member *domain.Member) MemberResponse {
	return MemberResponse{
		UserID:   member.UserID,
		Username: member.Username,
		Email:    member.Email,
		IsOwner:  member.IsOwner,
		JoinedAt: formatTime(member.JoinedAt),
	}
}

func domainMembersToHTTP(members []*domain.Member) MembersResponse {
	resp := MembersResponse{Members: make([]MemberResponse, 0, len(members))}
	for _, member := range members {
		resp.Members = append(resp.Members, domainMemberToHTTP(member))
	}
	return resp
}

func domainTransferToHTTP(transfer *domain.OwnershipTransfer) TransferResponse {
	return TransferResponse{
		ID:             transfer.ID,
		OrganizationID: transfer.OrganizationID,
		CurrentOwnerID: transfer.CurrentOwnerID,
		NewOwnerID:     transfer.NewOwnerID,
		ExpiresAt:      formatTime(transfer.ExpiresAt),
		CreatedAt:      formatTime(transfer.CreatedAt),
	}
}

func domainEventsToHTTP(events []*domain.TransferEvent) EventsResponse {
	resp := EventsResponse{Events: make([]TransferEventResponse, 0, len(events))}
	for _, event := range events {
		resp.Events = append(resp.Events, TransferEventResponse{
			ID:             event.ID,
			TransferID:     event.TransferID,
			Kind:           string(event.Kind),
			ActorID:        event.ActorID,
			CurrentOwnerID: event.CurrentOwnerID,
			NewOwnerID:     event.NewOwnerID,
			CreatedAt:      formatTime(event.CreatedAt),
		})
	}
	return resp
}
