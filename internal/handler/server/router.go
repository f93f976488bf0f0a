package server

import (
	"net/http"

	"github.com/bagdasarian/org-service/internal/handler"
)

func SetupRoutes(mux *http.ServeMux, h *handler.Handler, verifier handler.TokenVerifier) {
	auth := handler.Authenticate(verifier)
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, auth(fn))
	}

	route("POST /organizations/{$}", h.CreateOrganization)
	route("GET /organizations/{org_id}/{$}", h.GetOrganization)
	route("DELETE /organizations/{org_id}/{$}", h.DeleteOrganization)

	route("GET /organizations/{org_id}/members/{$}", h.ListMembers)
	route("POST /organizations/{org_id}/members/{$}", h.AddMember)
	route("DELETE /organizations/{org_id}/members/{user_id}/{$}", h.RemoveMember)
	route("POST /organizations/{org_id}/leave/{$}", h.LeaveOrganization)
	route("GET /organizations/{org_id}/events/{$}", h.ListEvents)

	route("POST /organizations/{org_id}/transfer/{$}", h.InitiateTransfer)
	route("GET /organizations/{org_id}/transfer/{$}", h.GetTransfer)
	route("GET /organizations/{org_id}/transfer/cancel/{$}", h.CancelTransfer)
	route("GET /organizations/transfer/{transfer_id}/accept/{$}", h.AcceptTransfer)
	route("GET /organizations/transfer/{transfer_id}/reject/{$}", h.RejectTransfer)

	mux.HandleFunc("GET /healthz", h.Health)
}
