package repository

import "context"

// Store объединяет репозитории, работающие на одном соединении или транзакции
type Store interface {
	Organizations() OrganizationRepository
	Users() UserRepository
	Transfers() TransferRepository
	Events() EventRepository

	// WithinTx выполняет fn в транзакции; ошибка из fn откатывает ее
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
