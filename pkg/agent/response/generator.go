package response

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/pkg/agent/tools"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/store"
)

// Next actions a generation result may carry
const (
	NextActionRespond    = "respond"
	NextActionAskForSlot = "ask_for_slot"
)

// ToolInvocation records one dispatched tool call and its payload, for the
// event log. The payload may be an {"error": ...} object; errors travel the
// same path as successes.
type ToolInvocation struct {
	ID        string
	Name      string
	Arguments string
	Result    interface{}
}

// GenerationResult is the ephemeral outcome of one generation pass
type GenerationResult struct {
	NextAction    string
	ResponseText  string
	SlotToRequest string
	ToolTrace     []ToolInvocation
}

// Generator produces the user-facing reply for a turn, orchestrating tool
// calls through the registry when the capability asks for them.
//
// The protocol is strictly two-phase: the first request may only request
// tools, and the second request sees every tool result before any
// user-facing text is produced. Tool output is never fabricated.
type Generator struct {
	llmProvider llm.LLMProvider
	registry    *tools.Registry
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, registry *tools.Registry, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		registry:    registry,
		logger:      logger,
	}
}

// StateSummary renders the compact session view for the generation prompt
func StateSummary(session *store.Session) string {
	intentStr := "none"
	if session.CurrentIntent != "" {
		intentStr = session.CurrentIntent.String()
	}
	orderID := "none"
	if session.OrderID() != "" {
		orderID = session.OrderID()
	}
	pending := "none"
	if session.PendingSlot != "" {
		pending = session.PendingSlot
	}
	return fmt.Sprintf("current_intent=%s, order_id=%s, pending_slot=%s", intentStr, orderID, pending)
}

// Generate runs the two-phase protocol for one user turn. It never returns
// an error to the orchestrator: capability failures degrade to a safe reply.
func (g *Generator) Generate(ctx context.Context, userText string, session *store.Session) *GenerationResult {
	messages := []llm.Message{
		{Role: "system", Content: constant.GenerationPrompt},
		{Role: "system", Content: "STATE: " + StateSummary(session)},
		{Role: "user", Content: userText},
	}

	// Phase 1: tools offered
	first, err := g.llmProvider.ChatWithTools(ctx, messages, g.registry.Specs())
	if err != nil {
		g.logger.Printf("[GENERATOR] first phase failed: %v", err)
		return &GenerationResult{
			NextAction:   NextActionRespond,
			ResponseText: constant.GenerationFailureReply,
		}
	}

	if len(first.ToolCalls) == 0 {
		// No tool invocations: the text is the final reply
		return &GenerationResult{
			NextAction:   NextActionRespond,
			ResponseText: first.Content,
		}
	}

	// Record the assistant's tool request in the short-lived transcript
	messages = append(messages, llm.Message{
		Role:      "assistant",
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})

	// Dispatch every invocation in the order returned; each result (or error
	// payload) is appended as a tool entry tagged with its call id.
	trace := make([]ToolInvocation, 0, len(first.ToolCalls))
	for _, call := range first.ToolCalls {
		payload := g.registry.Invoke(ctx, call.Name, call.Arguments)
		trace = append(trace, ToolInvocation{
			ID:        call.ID,
			Name:      call.Name,
			Arguments: call.Arguments,
			Result:    payload,
		})

		serialized, err := json.Marshal(payload)
		if err != nil {
			// Payloads are built from JSON-safe values; keep the turn alive anyway
			g.logger.Printf("[GENERATOR] marshal tool payload for %s failed: %v", call.Name, err)
			serialized = []byte(`{"error":"unserializable tool result"}`)
		}
		messages = append(messages, llm.Message{
			Role:       "tool",
			Content:    string(serialized),
			ToolCallID: call.ID,
		})
	}

	g.logger.Printf("[GENERATOR] dispatched %d tool call(s), entering second phase", len(trace))

	// Phase 2: no tools offered, augmented context produces the reply
	finalText, err := g.llmProvider.Chat(ctx, messages)
	if err != nil {
		g.logger.Printf("[GENERATOR] second phase failed: %v", err)
		return &GenerationResult{
			NextAction:   NextActionRespond,
			ResponseText: constant.GenerationFailureReply,
			ToolTrace:    trace,
		}
	}

	return &GenerationResult{
		NextAction:   NextActionRespond,
		ResponseText: finalText,
		ToolTrace:    trace,
	}
}
