package intent

// Intent is the closed-set classification of what a user turn is about
type Intent string

const (
	Greeting            Intent = "greeting"
	Goodbye             Intent = "goodbye"
	RefundOrder         Intent = "refund_order"
	GetOrderInformation Intent = "get_order_information"
	EscalateToHuman     Intent = "escalate_to_human"
	KnowledgeQA         Intent = "knowledge_qa"
	Unknown             Intent = "unknown"
)

// All lists every recognized intent, in a stable order
func All() []Intent {
	return []Intent{
		Greeting,
		Goodbye,
		RefundOrder,
		GetOrderInformation,
		EscalateToHuman,
		KnowledgeQA,
		Unknown,
	}
}

// Parse maps a raw classifier string onto the closed set.
// Anything outside the set resolves to Unknown.
func Parse(raw string) Intent {
	switch Intent(raw) {
	case Greeting, Goodbye, RefundOrder, GetOrderInformation, EscalateToHuman, KnowledgeQA, Unknown:
		return Intent(raw)
	default:
		return Unknown
	}
}

func (i Intent) String() string {
	return string(i)
}

// IsOrderRelated reports whether the intent participates in the order-id
// slot-filling flow
func (i Intent) IsOrderRelated() bool {
	return i == RefundOrder || i == GetOrderInformation
}
