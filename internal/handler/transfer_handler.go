package handler

import (
	"net/http"
)

func (h *Handler) InitiateTransfer(w http.ResponseWriter, r *http.Request) {
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

	transfer, err := h.transferService.Initiate(r.Context(), r.PathValue("org_id"), actorID, httpLookupToDomain(req))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domainTransferToHTTP(transfer))
}

func (h *Handler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	transfer, err := h.transferService.GetForOrganization(r.Context(), r.PathValue("org_id"), actorID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domainTransferToHTTP(transfer))
}

func (h *Handler) AcceptTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	org, err := h.transferService.Accept(r.Context(), r.PathValue("transfer_id"), actorID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AcceptTransferResponse{
		Detail:       "ownership transferred",
		Organization: domainOrganizationToHTTP(org),
	})
}

func (h *Handler) RejectTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.transferService.Reject(r.Context(), r.PathValue("transfer_id"), actorID); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DetailResponse{Detail: "transfer rejected"})
}

func (h *Handler) CancelTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if err := h.transferService.CancelForOrganization(r.Context(), r.PathValue("org_id"), actorID); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DetailResponse{Detail: "transfer cancelled"})
}
