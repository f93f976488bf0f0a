// Package notify доставляет письма участникам передачи владения.
// Доставка асинхронная: ошибки логируются и не возвращаются вызывающему.
package notify

import "context"

const (
	TemplateTransferInitiatedOwner  = "transfer_initiated_owner"
	TemplateTransferInitiatedTarget = "transfer_initiated_target"
	TemplateTransferAccepted        = "transfer_accepted"
	TemplateTransferRejected        = "transfer_rejected"
	TemplateTransferCancelled       = "transfer_cancelled"
)

type Message struct {
	Template   string
	Subject    string
	Context    map[string]any
	Recipients []string
}

// Notifier ставит сообщение в очередь и не ждет доставки
type Notifier interface {
	Send(ctx context.Context, msg Message)
}

// Sender выполняет одну попытку доставки
type Sender interface {
	Deliver(ctx context.Context, msg Message) error
}

// Nop отбрасывает сообщения
type Nop struct{}

func (Nop) Send(context.Context, Message) {}
