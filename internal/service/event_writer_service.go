// FILE: internal/service/event_writer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/specification"
	"ai-support-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IEventWriterService interface {
	Consume(ctx context.Context) error
}

// eventWriterService drains the turn-event topic and persists each event to
// chat_events, keeping the request path free of audit writes.
type eventWriterService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewEventWriterService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IEventWriterService {
	return &eventWriterService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (es *eventWriterService) Consume(ctx context.Context) error {
	messages, err := es.pubSub.Subscribe(ctx, es.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			es.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (es *eventWriterService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TurnEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal turn event: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := es.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: payload.ChatSessionId})
	if err != nil {
		log.Printf("[ERROR] Failed to load session %s: %v", payload.ChatSessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if sess == nil {
		log.Printf("[WARN] Dropping %s event for unknown session %s", payload.EventType, payload.ChatSessionId)
		msg.Ack() // Session deleted? Ack.
		return
	}

	event := entity.ChatEvent{
		Id:            uuid.New(),
		ChatSessionId: payload.ChatSessionId,
		EventType:     payload.EventType,
		Payload:       payload.Payload,
		CreatedAt:     time.Now(),
	}

	if err := uow.ChatEventRepository().Create(ctx, &event); err != nil {
		log.Printf("[ERROR] Failed to persist %s event for session %s: %v", payload.EventType, payload.ChatSessionId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
