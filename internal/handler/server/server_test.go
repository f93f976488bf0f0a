package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bagdasarian/org-service/internal/handler"
	"github.com/bagdasarian/org-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer(t *testing.T) {
	t.Run("сервер обслуживает маршруты и останавливается", func(t *testing.T) {
		h := handler.NewHandler(new(service.MockOrganizationService), new(service.MockTransferService), nil)
		srv := NewServer(h, staticVerifier{}, "127.0.0.1:0")

		rec := httptest.NewRecorder()
		srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/organizations/org-1/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		require.NoError(t, srv.Shutdown(context.Background()))
	})
}
