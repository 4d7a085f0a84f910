package unitofwork

import (
	"context"

	"ai-support-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatEventRepository() contract.ChatEventRepository
	OrderRepository() contract.OrderRepository
}
