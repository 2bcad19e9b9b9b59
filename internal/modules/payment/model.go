package payment

import "strings"

// Status is the payment axis of an order, independent of fulfilment status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPaid     Status = "paid"
	StatusFailed   Status = "failed"
	StatusRefunded Status = "refunded"
)

// validTransitions defines the allowed payment status state machine.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusPaid, StatusFailed},
	StatusPaid:     {StatusRefunded},
	StatusFailed:   {},
	StatusRefunded: {},
}

// ParseStatus normalises s and reports whether it names a known status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	_, ok := validTransitions[st]
	return st, ok
}

// CanTransition reports whether a payment may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Authorization is the result of a payment authorization performed by an
// upstream gateway. It is recorded with the order, not verified here.
type Authorization struct {
	Reference string `json:"reference" validate:"required,max=128"`
	Status    string `json:"status,omitempty" validate:"omitempty,oneof=approved declined pending"`
}

// InitialStatus is the payment status an order is created with.
func (a Authorization) InitialStatus() Status {
	switch strings.ToLower(a.Status) {
	case "approved":
		return StatusPaid
	case "declined":
		return StatusFailed
	default:
		return StatusPending
	}
}
