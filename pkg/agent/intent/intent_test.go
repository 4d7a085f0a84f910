package intent

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Intent
	}{
		{"greeting", Greeting},
		{"goodbye", Goodbye},
		{"refund_order", RefundOrder},
		{"get_order_information", GetOrderInformation},
		{"escalate_to_human", EscalateToHuman},
		{"knowledge_qa", KnowledgeQA},
		{"unknown", Unknown},
		{"order_pizza", Unknown},
		{"GREETING", Unknown}, // labels are case-sensitive
		{"", Unknown},
	}

	for _, tt := range tests {
		if got := Parse(tt.raw); got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestIsOrderRelated(t *testing.T) {
	for _, it := range All() {
		want := it == RefundOrder || it == GetOrderInformation
		if got := it.IsOrderRelated(); got != want {
			t.Errorf("%s.IsOrderRelated() = %v, want %v", it, got, want)
		}
	}
}
