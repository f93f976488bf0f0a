package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/rs/zerolog/log"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, err)
}

// writeError переводит доменную ошибку в HTTP-ответ; остальные ошибки
// логируются и отдаются клиенту как 500 без подробностей
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, getStatusCode(domainErr.Code), ErrorResponse{
			Error: ErrorDetail{
				Code:    domainErr.Code,
				Message: domainErr.Message,
				Fields:  domainErr.Fields,
			},
		})
		return
	}

	log.Ctx(r.Context()).Error().Err(err).Msg("request failed")

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "internal server error",
		},
	})
}

func getStatusCode(errorCode string) int {
	switch errorCode {
	case "VALIDATION_ERROR", "SELF_TRANSFER", "TARGET_NOT_MEMBER", "TRANSFER_ACTIVE",
		"TRANSFER_NOT_ACTIVE", "QUOTA_EXCEEDED", "OWNER_CANNOT_LEAVE", "ALREADY_MEMBER":
		return http.StatusBadRequest
	case "UNAUTHORIZED":
		return http.StatusUnauthorized
	case "FORBIDDEN":
		return http.StatusForbidden
	// Не владельцу организация не раскрывается
	case "NOT_FOUND", "NOT_OWNER":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON читает тело запроса; некорректный JSON - ошибка валидации
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError(map[string][]string{
			"non_field_errors": {"invalid request body"},
		})
	}
	return nil
}
