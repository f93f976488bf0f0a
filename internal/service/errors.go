package service

import (
	"errors"

	"github.com/bagdasarian/org-service/internal/domain"
	"github.com/bagdasarian/org-service/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// notFound переводит repository.ErrNotFound в доменную ошибку для resource
func notFound(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NewNotFoundError(resource)
	}
	return err
}

// endSpan завершает span; доменные ошибки не считаются сбоем
func endSpan(span trace.Span, err error) {
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			span.SetAttributes(attribute.String("error.code", domainErr.Code))
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}
