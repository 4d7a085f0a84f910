package response

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"ai-support-chat-be/internal/constant"
	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/pkg/agent/tools"
	"ai-support-chat-be/pkg/knowledge"
	"ai-support-chat-be/pkg/llm"
	"ai-support-chat-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider scripts both phases and records the transcript each phase saw
type fakeProvider struct {
	firstResult *llm.ChatResult
	firstErr    error

	secondText string
	secondErr  error

	chatWithToolsHistory []llm.Message
	chatHistory          []llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.chatHistory = history
	return f.secondText, f.secondErr
}

func (f *fakeProvider) ChatWithTools(ctx context.Context, history []llm.Message, specs []llm.ToolSpec, opts ...llm.Option) (*llm.ChatResult, error) {
	f.chatWithToolsHistory = history
	return f.firstResult, f.firstErr
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return "", errors.New("not used by the generator")
}

type fakeOrderStore struct {
	orders map[string]*entity.Order
}

func (f *fakeOrderStore) FindByNumber(ctx context.Context, orderNo string) (*entity.Order, error) {
	return f.orders[orderNo], nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestGenerator(provider *fakeProvider) *Generator {
	store := &fakeOrderStore{orders: map[string]*entity.Order{
		"124": {OrderNo: "124", Status: "Shipped", Eta: "2026-02-25", Carrier: "UPS", Tracking: "1Z..."},
	}}
	engine := knowledge.NewEngine(nil, discardLogger())
	registry := tools.NewRegistry(store, engine, discardLogger())
	return NewGenerator(provider, registry, discardLogger())
}

func TestGenerateWithoutTools(t *testing.T) {
	provider := &fakeProvider{
		firstResult: &llm.ChatResult{Content: "Hello! How can I help?"},
	}
	g := newTestGenerator(provider)

	result := g.Generate(context.Background(), "hi", store.NewSession("s1"))

	assert.Equal(t, NextActionRespond, result.NextAction)
	assert.Equal(t, "Hello! How can I help?", result.ResponseText)
	assert.Empty(t, result.ToolTrace)
	// No tool calls means no second phase
	assert.Nil(t, provider.chatHistory)
}

func TestGenerateTwoPhaseToolFlow(t *testing.T) {
	provider := &fakeProvider{
		firstResult: &llm.ChatResult{
			ToolCalls: []llm.ToolCall{
				{ID: "call_abc", Name: tools.ToolGetOrder, Arguments: `{"order_id": "124"}`},
			},
		},
		secondText: "Your order 124 shipped via UPS, arriving 2026-02-25.",
	}
	g := newTestGenerator(provider)

	result := g.Generate(context.Background(), "where is order 124?", store.NewSession("s1"))

	assert.Equal(t, NextActionRespond, result.NextAction)
	assert.Equal(t, "Your order 124 shipped via UPS, arriving 2026-02-25.", result.ResponseText)

	require.Len(t, result.ToolTrace, 1)
	assert.Equal(t, "call_abc", result.ToolTrace[0].ID)
	assert.Equal(t, tools.ToolGetOrder, result.ToolTrace[0].Name)

	// The second phase transcript must carry exactly one tool entry per
	// invocation, tagged with its call id, after the assistant request.
	require.NotNil(t, provider.chatHistory)
	var toolEntries []llm.Message
	for _, msg := range provider.chatHistory {
		if msg.Role == "tool" {
			toolEntries = append(toolEntries, msg)
		}
	}
	require.Len(t, toolEntries, 1)
	assert.Equal(t, "call_abc", toolEntries[0].ToolCallID)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(toolEntries[0].Content), &payload))
	assert.Equal(t, "Shipped", payload["status"])
}

func TestGenerateMultipleToolCalls(t *testing.T) {
	provider := &fakeProvider{
		firstResult: &llm.ChatResult{
			ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: tools.ToolGetOrder, Arguments: `{"order_id": "124"}`},
				{ID: "call_2", Name: tools.ToolGetOrder, Arguments: `{"order_id": "999"}`},
			},
		},
		secondText: "One order shipped, the other was not found.",
	}
	g := newTestGenerator(provider)

	result := g.Generate(context.Background(), "check orders 124 and 999", store.NewSession("s1"))

	require.Len(t, result.ToolTrace, 2)
	assert.Equal(t, "call_1", result.ToolTrace[0].ID)
	assert.Equal(t, "call_2", result.ToolTrace[1].ID)

	var toolEntries []llm.Message
	for _, msg := range provider.chatHistory {
		if msg.Role == "tool" {
			toolEntries = append(toolEntries, msg)
		}
	}
	require.Len(t, toolEntries, 2)
	assert.Equal(t, "call_1", toolEntries[0].ToolCallID)
	assert.Equal(t, "call_2", toolEntries[1].ToolCallID)
}

func TestGenerateUnknownToolBecomesErrorPayload(t *testing.T) {
	provider := &fakeProvider{
		firstResult: &llm.ChatResult{
			ToolCalls: []llm.ToolCall{
				{ID: "call_x", Name: "make_coffee", Arguments: `{}`},
			},
		},
		secondText: "I can't do that, but here's what I can help with.",
	}
	g := newTestGenerator(provider)

	result := g.Generate(context.Background(), "make me a coffee", store.NewSession("s1"))

	require.Len(t, result.ToolTrace, 1)
	payload, ok := result.ToolTrace[0].Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Unknown Tool: make_coffee", payload["error"])

	// The error payload rode into the second phase like any other result
	var toolEntries []llm.Message
	for _, msg := range provider.chatHistory {
		if msg.Role == "tool" {
			toolEntries = append(toolEntries, msg)
		}
	}
	require.Len(t, toolEntries, 1)
	assert.Contains(t, toolEntries[0].Content, "Unknown Tool: make_coffee")
}

func TestGenerateFirstPhaseFailure(t *testing.T) {
	provider := &fakeProvider{firstErr: errors.New("capability down")}
	g := newTestGenerator(provider)

	result := g.Generate(context.Background(), "hi", store.NewSession("s1"))

	assert.Equal(t, NextActionRespond, result.NextAction)
	assert.Equal(t, constant.GenerationFailureReply, result.ResponseText)
	assert.Empty(t, result.ToolTrace)
}

func TestGenerateSecondPhaseFailureKeepsTrace(t *testing.T) {
	provider := &fakeProvider{
		firstResult: &llm.ChatResult{
			ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: tools.ToolGetOrder, Arguments: `{"order_id": "124"}`},
			},
		},
		secondErr: errors.New("capability down"),
	}
	g := newTestGenerator(provider)

	result := g.Generate(context.Background(), "where is order 124?", store.NewSession("s1"))

	assert.Equal(t, constant.GenerationFailureReply, result.ResponseText)
	require.Len(t, result.ToolTrace, 1)
	assert.Equal(t, "call_1", result.ToolTrace[0].ID)
}
