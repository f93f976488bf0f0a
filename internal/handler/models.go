package handler

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type OrganizationResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	OwnerID   string  `json:"owner_id"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// UserLookupRequest - ровно одно из полей должно быть заполнено
type UserLookupRequest struct {
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

type MemberResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsOwner  bool   `json:"is_owner"`
	JoinedAt string `json:"joined_at"`
}

type MembersResponse struct {
	Members []MemberResponse `json:"members"`
}

type TransferResponse struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	CurrentOwnerID string `json:"current_owner_id"`
	NewOwnerID     string `json:"new_owner_id"`
	ExpiresAt      string `json:"expires_at"`
	CreatedAt      string `json:"created_at"`
}

type AcceptTransferResponse struct {
	Detail       string               `json:"detail"`
	Organization OrganizationResponse `json:"organization"`
}

type TransferEventResponse struct {
	ID             string  `json:"id"`
	TransferID     string  `json:"transfer_id"`
	Kind           string  `json:"kind"`
	ActorID        *string `json:"actor_id"`
	CurrentOwnerID string  `json:"current_owner_id"`
	NewOwnerID     string  `json:"new_owner_id"`
	CreatedAt      string  `json:"created_at"`
}

type EventsResponse struct {
	Events []TransferEventResponse `json:"events"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
