package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type actorKey struct{}

// TokenVerifier возвращает идентификатор пользователя из bearer-токена
type TokenVerifier interface {
	Verify(token string) (string, error)
}

func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext возвращает пользователя, прошедшего аутентификацию
func ActorFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(actorKey{}).(string)
	return userID, ok && userID != ""
}

// Authenticate пропускает только запросы с валидным bearer-токеном
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}

			userID, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				log.Ctx(r.Context()).Debug().Err(err).Msg("token rejected")
				writeError(w, r, domain.ErrUnauthorized)
				return
			}

			ctx := log.Ctx(r.Context()).With().Str("actor_id", userID).Logger().WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(WithActor(ctx, userID)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger кладет в контекст логгер запроса и пишет итог обработки
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := log.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context())))

		event := logger.Info()
		if rec.status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.Int("status", rec.status).Dur("duration", time.Since(start)).Msg("request handled")
	})
}

// Recover отдает 500 вместо обрыва соединения при панике в обработчике
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Ctx(r.Context()).Error().Interface("panic", rec).Msg("handler panicked")
				writeJSON(w, http.StatusInternalServerError, ErrorResponse{
					Error: ErrorDetail{Code: "INTERNAL_ERROR", Message: "internal server error"},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// actor достает пользователя из контекста; без него запрос не должен дойти до обработчика
func actor(r *http.Request) (string, error) {
	userID, ok := ActorFromContext(r.Context())
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return userID, nil
}
