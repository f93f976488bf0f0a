package handler

import (
	"net/http"
	"strconv"

	"github.com/bagdasarian/org-service/internal/domain"
)

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req CreateOrganizationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	org, err := h.organizationService.Create(r.Context(), actorID, req.Name)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainOrganizationToHTTP(org))
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	org, err := h.organizationService.Get(r.Context(), r.PathValue("org_id"), actorID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainOrganizationToHTTP(org))
}

func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.organizationService.Delete(r.Context(), r.PathValue("org_id"), actorID); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	members, err := h.organizationService.ListMembers(r.Context(), r.PathValue("org_id"), actorID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainMembersToHTTP(members))
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req UserLookupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	member, err := h.organizationService.AddMember(r.Context(), r.PathValue("org_id"), actorID, httpLookupToDomain(req))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainMemberToHTTP(member))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	err = h.organizationService.RemoveMember(r.Context(), r.PathValue("org_id"), actorID, r.PathValue("user_id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.organizationService.Leave(r.Context(), r.PathValue("org_id"), actorID); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DetailResponse{Detail: "you have left the organization"})
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.handleError(w, r, domain.NewValidationError(map[string][]string{
				"limit": {"must be a non-negative integer"},
			}))
			return
		}
	}

	events, err := h.organizationService.ListEvents(r.Context(), r.PathValue("org_id"), actorID, limit)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainEventsToHTTP(events))
}
