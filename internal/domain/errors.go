package domain

import "fmt"

type DomainError struct {
	Code    string
	Message string
	Fields  map[string][]string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Это позволяет использовать errors.Is()
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrNotFound - ресурс не найден или недоступен вызывающему
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}

	// ErrNotOwner - действие доступно только владельцу организации
	ErrNotOwner = &DomainError{
		Code:    "NOT_OWNER",
		Message: "not owner",
	}

	// ErrForbidden - пользователь не состоит в организации
	ErrForbidden = &DomainError{
		Code:    "FORBIDDEN",
		Message: "you do not have access to this organization",
	}

	// ErrUnauthorized - запрос без валидного токена
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "authentication credentials were not provided or are invalid",
	}

	// ErrValidation - некорректные входные данные
	ErrValidation = &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "invalid input",
	}

	// ErrSelfTransfer - передача владения самому себе
	ErrSelfTransfer = &DomainError{
		Code:    "SELF_TRANSFER",
		Message: "self-transfer",
	}

	// ErrTargetNotMember - новый владелец не состоит в организации
	ErrTargetNotMember = &DomainError{
		Code:    "TARGET_NOT_MEMBER",
		Message: "target not a member",
	}

	// ErrTransferActive - для организации уже есть активная передача
	ErrTransferActive = &DomainError{
		Code:    "TRANSFER_ACTIVE",
		Message: "transfer already active",
	}

	// ErrTransferNotActive - передача истекла
	ErrTransferNotActive = &DomainError{
		Code:    "TRANSFER_NOT_ACTIVE",
		Message: "transfer not active",
	}

	// ErrQuotaExceeded - пользователь создал максимум организаций
	ErrQuotaExceeded = &DomainError{
		Code:    "QUOTA_EXCEEDED",
		Message: "organization limit reached",
	}

	// ErrOwnerCannotLeave - владелец не может покинуть свою организацию
	ErrOwnerCannotLeave = &DomainError{
		Code:    "OWNER_CANNOT_LEAVE",
		Message: "owner cannot leave the organization, transfer ownership first",
	}

	// ErrAlreadyMember - пользователь уже состоит в организации
	ErrAlreadyMember = &DomainError{
		Code:    "ALREADY_MEMBER",
		Message: "user is already a member of this organization",
	}
)

// NewNotFoundError создает ошибку NOT_FOUND с дополнительным контекстом
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError создает ошибку VALIDATION_ERROR с сообщениями по полям
func NewValidationError(fields map[string][]string) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "invalid input",
		Fields:  fields,
	}
}
