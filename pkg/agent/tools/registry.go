package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/pkg/knowledge"
	"ai-support-chat-be/pkg/llm"
)

const (
	ToolGetOrder        = "get_order"
	ToolKnowledgeSearch = "knowledge_search"

	defaultTopK = 3
	maxTopK     = 5
)

// OrderStore looks up orders by their customer-facing number.
// A miss is (nil, nil), not an error.
type OrderStore interface {
	FindByNumber(ctx context.Context, orderNo string) (*entity.Order, error)
}

// Registry holds the fixed set of callable tools the generation phase may
// dispatch. Invocations never propagate faults: every failure path resolves
// to a payload carrying an "error" key.
type Registry struct {
	orders OrderStore
	engine *knowledge.Engine
	logger *log.Logger
}

func NewRegistry(orders OrderStore, engine *knowledge.Engine, logger *log.Logger) *Registry {
	return &Registry{
		orders: orders,
		engine: engine,
		logger: logger,
	}
}

// Specs returns the tool signatures offered to the generation capability
func (r *Registry) Specs() []llm.ToolSpec {
	return []llm.ToolSpec{
		{
			Name: ToolGetOrder,
			Description: "Fetch order details by order_id. Use this for tracking/status/refund flows " +
				"once you have an order_id. Do NOT guess order details without calling this.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"order_id": map[string]interface{}{
						"type":        "string",
						"description": "The customer's order ID (digits or order reference).",
					},
				},
				"required":             []string{"order_id"},
				"additionalProperties": false,
			},
		},
		{
			Name: ToolKnowledgeSearch,
			Description: "Search the knowledge base for company/policy/warranty/repairs/contact/support-hours info. " +
				"Use this for Knowledge QA and policy questions. Returns top relevant snippets with their source.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "What to search for in the knowledge base.",
					},
					"top_k": map[string]interface{}{
						"type":        "integer",
						"description": "How many top snippets to return.",
						"minimum":     1,
						"maximum":     maxTopK,
						"default":     defaultTopK,
					},
				},
				"required":             []string{"query"},
				"additionalProperties": false,
			},
		},
	}
}

// Invoke dispatches a tool by name with a raw JSON argument object and
// returns a JSON-compatible payload. It never panics and never returns an
// error: unknown tools, bad arguments and lookup misses all come back as
// {"error": ...} payloads for the generation phase to see.
func (r *Registry) Invoke(ctx context.Context, name, rawArgs string) interface{} {
	switch name {
	case ToolGetOrder:
		return r.getOrder(ctx, rawArgs)
	case ToolKnowledgeSearch:
		return r.knowledgeSearch(rawArgs)
	default:
		r.logger.Printf("[TOOLS] unknown tool requested: %s", name)
		return map[string]interface{}{"error": fmt.Sprintf("Unknown Tool: %s", name)}
	}
}

func (r *Registry) getOrder(ctx context.Context, rawArgs string) interface{} {
	var args struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return map[string]interface{}{"error": "invalid arguments for get_order"}
	}

	order, err := r.orders.FindByNumber(ctx, args.OrderID)
	if err != nil {
		r.logger.Printf("[TOOLS] get_order lookup failed for %q: %v", args.OrderID, err)
		return map[string]interface{}{"error": "lookup_failed"}
	}
	if order == nil {
		r.logger.Printf("[TOOLS] get_order miss: %q", args.OrderID)
		return map[string]interface{}{"error": "not_found"}
	}

	return map[string]interface{}{
		"order_id": order.OrderNo,
		"status":   order.Status,
		"eta":      order.Eta,
		"carrier":  order.Carrier,
		"tracking": order.Tracking,
	}
}

func (r *Registry) knowledgeSearch(rawArgs string) interface{} {
	var args struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return map[string]interface{}{"error": "invalid arguments for knowledge_search"}
	}
	if args.TopK <= 0 {
		args.TopK = defaultTopK
	}
	if args.TopK > maxTopK {
		args.TopK = maxTopK
	}

	// Always succeeds, possibly with zero matches
	return r.engine.Search(args.Query, args.TopK)
}
