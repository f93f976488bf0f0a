package service

import (
	"context"
	"strings"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository"
)

// ResolveUser находит пользователя по единственному заданному идентификатору.
// lookup должен быть проверен через Validate.
func ResolveUser(ctx context.Context, users repository.UserRepository, lookup domain.UserLookup) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)

	switch {
	case strings.TrimSpace(lookup.UserID) != "":
		user, err = users.GetByID(ctx, strings.TrimSpace(lookup.UserID))
	case strings.TrimSpace(lookup.Email) != "":
		user, err = users.GetByEmail(ctx, strings.TrimSpace(lookup.Email))
	default:
		user, err = users.GetByUsername(ctx, strings.TrimSpace(lookup.Username))
	}
	if err != nil {
		return nil, notFound(err, "user")
	}

	return user, nil
}
