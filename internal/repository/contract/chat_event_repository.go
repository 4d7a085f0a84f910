package contract

import (
	"context"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatEventRepository interface {
	Create(ctx context.Context, event *entity.ChatEvent) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
