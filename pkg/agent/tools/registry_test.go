package tools

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-support-chat-be/internal/entity"
	"ai-support-chat-be/pkg/knowledge"
)

// fakeOrderStore serves a fixed order book for registry tests
type fakeOrderStore struct {
	orders map[string]*entity.Order
	err    error
}

func (f *fakeOrderStore) FindByNumber(ctx context.Context, orderNo string) (*entity.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orders[orderNo], nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestRegistry(store *fakeOrderStore, chunks []knowledge.Chunk) *Registry {
	engine := knowledge.NewEngine(chunks, discardLogger())
	return NewRegistry(store, engine, discardLogger())
}

func TestInvokeGetOrder(t *testing.T) {
	store := &fakeOrderStore{orders: map[string]*entity.Order{
		"124": {OrderNo: "124", Status: "Shipped", Eta: "2026-02-25", Carrier: "UPS", Tracking: "1Z..."},
	}}
	r := newTestRegistry(store, nil)

	payload := r.Invoke(context.Background(), ToolGetOrder, `{"order_id": "124"}`)

	got, ok := payload.(map[string]interface{})
	if !ok {
		t.Fatalf("payload type = %T, want map", payload)
	}
	if got["order_id"] != "124" || got["status"] != "Shipped" || got["carrier"] != "UPS" {
		t.Errorf("payload = %v", got)
	}
}

func TestInvokeGetOrderMiss(t *testing.T) {
	r := newTestRegistry(&fakeOrderStore{orders: map[string]*entity.Order{}}, nil)

	payload := r.Invoke(context.Background(), ToolGetOrder, `{"order_id": "999"}`)

	got := payload.(map[string]interface{})
	if got["error"] != "not_found" {
		t.Errorf("payload = %v, want not_found error", got)
	}
}

func TestInvokeGetOrderLookupError(t *testing.T) {
	r := newTestRegistry(&fakeOrderStore{err: errors.New("db down")}, nil)

	payload := r.Invoke(context.Background(), ToolGetOrder, `{"order_id": "124"}`)

	got := payload.(map[string]interface{})
	if got["error"] != "lookup_failed" {
		t.Errorf("payload = %v, want lookup_failed error", got)
	}
}

func TestInvokeGetOrderBadArguments(t *testing.T) {
	r := newTestRegistry(&fakeOrderStore{}, nil)

	payload := r.Invoke(context.Background(), ToolGetOrder, `not json`)

	got := payload.(map[string]interface{})
	if got["error"] != "invalid arguments for get_order" {
		t.Errorf("payload = %v", got)
	}
}

func TestInvokeUnknownTool(t *testing.T) {
	r := newTestRegistry(&fakeOrderStore{}, nil)

	payload := r.Invoke(context.Background(), "make_coffee", `{}`)

	got := payload.(map[string]interface{})
	if got["error"] != "Unknown Tool: make_coffee" {
		t.Errorf("payload = %v", got)
	}
}

func TestInvokeKnowledgeSearch(t *testing.T) {
	chunks := []knowledge.Chunk{
		{Filename: "faq.md", Title: "FAQ", Section: "Warranty", Content: "Two year warranty on all products."},
	}
	r := newTestRegistry(&fakeOrderStore{}, chunks)

	payload := r.Invoke(context.Background(), ToolKnowledgeSearch, `{"query": "warranty"}`)

	result, ok := payload.(*knowledge.Result)
	if !ok {
		t.Fatalf("payload type = %T, want *knowledge.Result", payload)
	}
	if result.TopK != defaultTopK {
		t.Errorf("TopK = %d, want default %d", result.TopK, defaultTopK)
	}
	if len(result.Matches) != 1 {
		t.Errorf("match count = %d, want 1", len(result.Matches))
	}
}

func TestInvokeKnowledgeSearchClampsTopK(t *testing.T) {
	r := newTestRegistry(&fakeOrderStore{}, nil)

	payload := r.Invoke(context.Background(), ToolKnowledgeSearch, `{"query": "warranty", "top_k": 50}`)

	result := payload.(*knowledge.Result)
	if result.TopK != maxTopK {
		t.Errorf("TopK = %d, want clamped to %d", result.TopK, maxTopK)
	}
}

func TestSpecsListBothTools(t *testing.T) {
	r := newTestRegistry(&fakeOrderStore{}, nil)

	specs := r.Specs()

	if len(specs) != 2 {
		t.Fatalf("spec count = %d, want 2", len(specs))
	}
	if specs[0].Name != ToolGetOrder || specs[1].Name != ToolKnowledgeSearch {
		t.Errorf("spec names = [%s, %s]", specs[0].Name, specs[1].Name)
	}
}
