package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/internal/repository/memory"
	"ai-support-chat-be/internal/repository/specification"
	"ai-support-chat-be/internal/repository/unitofwork"
	"ai-support-chat-be/pkg/agent/dialog"
	"ai-support-chat-be/pkg/agent/intent"
	"ai-support-chat-be/pkg/agent/response"
	"ai-support-chat-be/pkg/agent/router"
	"ai-support-chat-be/pkg/agent/state"
	"ai-support-chat-be/pkg/agent/tools"
	"ai-support-chat-be/pkg/events"
	"ai-support-chat-be/pkg/knowledge"
	"ai-support-chat-be/pkg/llm"
	pktNats "ai-support-chat-be/pkg/nats"

	"github.com/google/uuid"
)

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	GetSessionEvents(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetSessionEventsResponse, error)
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, sessionId uuid.UUID) error
	EndSession(sessionId uuid.UUID)
}

// chatService coordinates persistence, the dialogue components and the
// event pipelines for every conversation turn.
type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	stateRepo        *memory.StateRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	agentLogger      *log.Logger

	orchestrator *dialog.Orchestrator
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	engine *knowledge.Engine,
	stateRepo *memory.StateRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IChatService {
	agentLogger := initAgentLogger()

	registry := tools.NewRegistry(NewOrderStore(uowFactory), engine, agentLogger)
	intentRouter := router.NewRouter(llmProvider, agentLogger)
	generator := response.NewGenerator(llmProvider, registry, agentLogger)
	stateManager := state.NewManager(agentLogger)

	return &chatService{
		uowFactory:       uowFactory,
		stateRepo:        stateRepo,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		agentLogger:      agentLogger,
		orchestrator:     dialog.NewOrchestrator(intentRouter, generator, stateManager, agentLogger),
	}
}

func initAgentLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_agent.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a new chat session with the opening model message
func (cs *chatService) CreateSession(ctx context.Context, request *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	title := strings.TrimSpace(request.Title)
	if title == "" {
		title = "Unnamed session"
	}

	chatSession := entity.ChatSession{
		Id:        uuid.New(),
		Title:     title,
		CreatedAt: now,
	}

	chatMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          constant.WelcomeReply,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &chatMessage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all chat sessions
func (cs *chatService) GetAllSessions(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:        s.Id,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

// GetChatHistory retrieves chat history for a session
func (cs *chatService) GetChatHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found")
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		resp = append(resp, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
		})
	}

	return resp, nil
}

// GetSessionEvents retrieves the audit trail of a session
func (cs *chatService) GetSessionEvents(ctx context.Context, sessionId uuid.UUID) ([]*dto.GetSessionEventsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session not found")
	}

	chatEvents, err := uow.ChatEventRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetSessionEventsResponse, 0, len(chatEvents))
	for _, e := range chatEvents {
		resp = append(resp, &dto.GetSessionEventsResponse{
			Id:        e.Id,
			EventType: e.EventType,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		})
	}

	return resp, nil
}

// SendChat processes one user turn and returns the model reply
func (cs *chatService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: request.ChatSessionId})
	if err != nil {
		return nil, err
	}
	if chatSession == nil {
		return nil, fmt.Errorf("session not found")
	}

	now := time.Now()

	// Whitespace-only turns get the canned reply without touching
	// persistence or dialogue state.
	if strings.TrimSpace(request.Chat) == "" {
		return &dto.SendChatResponse{
			ChatSessionId: chatSession.Id,
			Reply: &dto.SendChatResponseChat{
				Id:        uuid.New(),
				Chat:      constant.EmptyInputReply,
				Role:      constant.ChatMessageRoleModel,
				CreatedAt: now,
			},
		}, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	userMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          request.Chat,
		Role:          constant.ChatMessageRoleUser,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, err
	}

	sessionState := cs.stateRepo.GetOrCreate(chatSession.Id.String())
	result := cs.orchestrator.HandleTurn(ctx, sessionState, request.Chat)
	cs.stateRepo.Save(sessionState)

	modelMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          result.Reply,
		Role:          constant.ChatMessageRoleModel,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now.Add(1 * time.Second),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &modelMessage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.publishTurnEvents(ctx, chatSession.Id, result)
	cs.publishEscalation(ctx, chatSession.Id, request.Chat, result)

	resp := &dto.SendChatResponse{
		ChatSessionId: chatSession.Id,
		Sent: &dto.SendChatResponseChat{
			Id:        userMessage.Id,
			Chat:      userMessage.Chat,
			Role:      userMessage.Role,
			CreatedAt: userMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        modelMessage.Id,
			Chat:      modelMessage.Chat,
			Role:      modelMessage.Role,
			CreatedAt: modelMessage.CreatedAt,
		},
		SlotRequested: result.SlotRequested,
		SlotFilled:    result.SlotFilled,
	}
	if result.Route != nil {
		resp.Intent = result.Route.Intent.String()
	}
	for _, inv := range result.ToolTrace {
		resp.ToolsUsed = append(resp.ToolsUsed, inv.Name)
	}

	return resp, nil
}

// DeleteSession removes a chat session with its messages, events and live state
func (cs *chatService) DeleteSession(ctx context.Context, sessionId uuid.UUID) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if sess == nil {
		return fmt.Errorf("session not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatEventRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.stateRepo.Delete(sessionId.String())
	return nil
}

// EndSession drops the live dialogue state, e.g. when a socket disconnects.
// Persisted history stays.
func (cs *chatService) EndSession(sessionId uuid.UUID) {
	cs.stateRepo.Delete(sessionId.String())
}

// publishTurnEvents fans the turn's audit events onto the internal topic.
// Failures are logged, never surfaced: the reply already happened.
func (cs *chatService) publishTurnEvents(ctx context.Context, sessionId uuid.UUID, result *dialog.TurnResult) {
	if result.Route != nil {
		cs.publishEvent(ctx, sessionId, constant.EventRouteDecided, map[string]interface{}{
			"intent":          result.Route.Intent.String(),
			"confidence":      result.Route.Confidence,
			"next_action":     result.Route.NextAction,
			"slot_to_request": result.Route.SlotToRequest,
			"tool_name":       result.Route.ToolName,
		})
	}

	for _, inv := range result.ToolTrace {
		cs.publishEvent(ctx, sessionId, constant.EventToolInvoked, map[string]interface{}{
			"call_id":   inv.ID,
			"tool_name": inv.Name,
			"arguments": inv.Arguments,
			"result":    inv.Result,
		})
	}

	cs.publishEvent(ctx, sessionId, constant.EventReplySent, map[string]interface{}{
		"reply":          result.Reply,
		"slot_requested": result.SlotRequested,
		"slot_filled":    result.SlotFilled,
	})
}

func (cs *chatService) publishEvent(ctx context.Context, sessionId uuid.UUID, eventType string, payload map[string]interface{}) {
	msg := dto.TurnEventMessage{
		ChatSessionId: sessionId,
		EventType:     eventType,
		Payload:       payload,
	}
	msgJson, err := json.Marshal(msg)
	if err != nil {
		cs.agentLogger.Printf("[EVENTS] marshal %s event failed: %v", eventType, err)
		return
	}
	if err := cs.publisherService.Publish(ctx, msgJson); err != nil {
		cs.agentLogger.Printf("[EVENTS] publish %s event failed: %v", eventType, err)
	}
}

// publishEscalation notifies the handoff bus when a turn routes to a human.
// Auxiliary: a broker failure never fails the request.
func (cs *chatService) publishEscalation(ctx context.Context, sessionId uuid.UUID, userText string, result *dialog.TurnResult) {
	if cs.eventPublisher == nil || result.Route == nil || result.Route.Intent != intent.EscalateToHuman {
		return
	}

	evt := events.BaseEvent{
		Type: constant.EventChatEscalation,
		Data: map[string]interface{}{
			"chat_session_id": sessionId,
			"last_user_text":  userText,
			"intent":          result.Route.Intent.String(),
			"confidence":      result.Route.Confidence,
		},
		OccurredAt: time.Now(),
	}
	if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
		cs.agentLogger.Printf("[EVENTS] failed to publish %s event: %v", constant.EventChatEscalation, err)
	}
}
