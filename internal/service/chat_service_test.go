package service

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/dto"
	"ai-support-chat-be/pkg/agent/dialog"
	"ai-support-chat-be/pkg/agent/intent"
	"ai-support-chat-be/pkg/agent/response"
	"ai-support-chat-be/pkg/agent/router"
	"ai-support-chat-be/pkg/agent/tools"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTurnPublisher captures everything published on the internal topic
type fakeTurnPublisher struct {
	payloads [][]byte
}

func (f *fakeTurnPublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func newEventTestService(pub *fakeTurnPublisher) *chatService {
	return &chatService{
		publisherService: pub,
		agentLogger:      log.New(io.Discard, "", 0),
	}
}

func decodeTurnEvents(t *testing.T, pub *fakeTurnPublisher) []dto.TurnEventMessage {
	t.Helper()
	msgs := make([]dto.TurnEventMessage, 0, len(pub.payloads))
	for _, raw := range pub.payloads {
		var msg dto.TurnEventMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestPublishTurnEventsCarriesToolResult(t *testing.T) {
	pub := &fakeTurnPublisher{}
	cs := newEventTestService(pub)
	sessionId := uuid.New()

	result := &dialog.TurnResult{
		Reply: "Your order 124 shipped via UPS.",
		Route: &router.RouteDecision{
			Intent:     intent.GetOrderInformation,
			Confidence: 0.95,
			NextAction: router.NextActionRespond,
		},
		ToolTrace: []response.ToolInvocation{
			{
				ID:        "call_1",
				Name:      tools.ToolGetOrder,
				Arguments: `{"order_id": "124"}`,
				Result:    map[string]interface{}{"order_id": "124", "status": "Shipped"},
			},
		},
	}

	cs.publishTurnEvents(context.Background(), sessionId, result)

	msgs := decodeTurnEvents(t, pub)
	require.Len(t, msgs, 3)

	var invoked *dto.TurnEventMessage
	for i := range msgs {
		if msgs[i].EventType == constant.EventToolInvoked {
			invoked = &msgs[i]
		}
	}
	require.NotNil(t, invoked, "tool_invoked event missing")
	assert.Equal(t, sessionId, invoked.ChatSessionId)
	assert.Equal(t, "call_1", invoked.Payload["call_id"])
	assert.Equal(t, tools.ToolGetOrder, invoked.Payload["tool_name"])

	// The invocation outcome must ride along for the audit trail
	outcome, ok := invoked.Payload["result"].(map[string]interface{})
	require.True(t, ok, "result payload = %v", invoked.Payload["result"])
	assert.Equal(t, "Shipped", outcome["status"])
}

func TestPublishTurnEventsCarriesToolErrorPayload(t *testing.T) {
	pub := &fakeTurnPublisher{}
	cs := newEventTestService(pub)

	result := &dialog.TurnResult{
		Reply: "I couldn't find that order.",
		Route: &router.RouteDecision{
			Intent:     intent.GetOrderInformation,
			Confidence: 0.9,
			NextAction: router.NextActionRespond,
		},
		ToolTrace: []response.ToolInvocation{
			{
				ID:        "call_1",
				Name:      tools.ToolGetOrder,
				Arguments: `{"order_id": "999"}`,
				Result:    map[string]interface{}{"error": "not_found"},
			},
		},
	}

	cs.publishTurnEvents(context.Background(), uuid.New(), result)

	msgs := decodeTurnEvents(t, pub)
	require.Len(t, msgs, 3)

	for _, msg := range msgs {
		if msg.EventType != constant.EventToolInvoked {
			continue
		}
		outcome, ok := msg.Payload["result"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "not_found", outcome["error"])
	}
}

func TestPublishTurnEventsWithoutRoute(t *testing.T) {
	pub := &fakeTurnPublisher{}
	cs := newEventTestService(pub)

	// Slot answers bypass the router, so only the reply event is emitted
	result := &dialog.TurnResult{Reply: "Got it.", SlotFilled: "order_id"}

	cs.publishTurnEvents(context.Background(), uuid.New(), result)

	msgs := decodeTurnEvents(t, pub)
	require.Len(t, msgs, 1)
	assert.Equal(t, constant.EventReplySent, msgs[0].EventType)
	assert.Equal(t, "order_id", msgs[0].Payload["slot_filled"])
}
