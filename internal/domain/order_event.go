package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Named events emitted by the backend streams.
const (
	EventConnected          = "connected"
	EventOrderStatusChanged = "orderStatusChanged"
	EventOrderCreated       = "orderCreated"
	EventAdminStatusChanged = "orderStatusChangedAdmin"
)

// Routing keys published to the back-office exchange.
const (
	RoutingOrderCreated       = "order.created"
	RoutingOrderStatusChanged = "order.status_changed"
	RoutingAlertStarted       = "alert.started"
	RoutingAlertStopped       = "alert.stopped"
)

// ErrMalformedPayload marks an event body that failed boundary validation.
// Callers log and skip; a bad payload never tears down a stream.
var ErrMalformedPayload = errors.New("malformed event payload")

// StatusChangedEvent is the body of orderStatusChanged on the per-order
// stream. Either field may be absent; the backend sends them capitalized.
type StatusChangedEvent struct {
	OrderStatus   *OrderStatus   `json:"OrderStatus,omitempty"`
	PaymentStatus *PaymentStatus `json:"PaymentStatus,omitempty"`
}

func DecodeStatusChanged(data []byte) (StatusChangedEvent, error) {
	var ev StatusChangedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return StatusChangedEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if ev.OrderStatus == nil && ev.PaymentStatus == nil {
		return StatusChangedEvent{}, fmt.Errorf("%w: no status fields", ErrMalformedPayload)
	}
	if ev.OrderStatus != nil && !ev.OrderStatus.Valid() {
		return StatusChangedEvent{}, fmt.Errorf("%w: order status %d out of range", ErrMalformedPayload, *ev.OrderStatus)
	}
	if ev.PaymentStatus != nil && !ev.PaymentStatus.Valid() {
		return StatusChangedEvent{}, fmt.Errorf("%w: payment status %d out of range", ErrMalformedPayload, *ev.PaymentStatus)
	}
	return ev, nil
}

// AdminStatusChangedEvent is the body of orderStatusChangedAdmin on the
// global new-orders stream.
type AdminStatusChangedEvent struct {
	ID            uint64        `json:"id"`
	OrderStatus   OrderStatus   `json:"orderStatusId"`
	PaymentStatus PaymentStatus `json:"paymentStatusId"`
}

// PaidPendingConfirmation reports whether the order just became "paid but
// not yet confirmed", the condition that feeds the admin alert queue.
func (e AdminStatusChangedEvent) PaidPendingConfirmation() bool {
	return e.OrderStatus == StatusPending && e.PaymentStatus == PaymentApproved
}

func DecodeAdminStatusChanged(data []byte) (AdminStatusChangedEvent, error) {
	var ev AdminStatusChangedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return AdminStatusChangedEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if ev.ID == 0 {
		return AdminStatusChangedEvent{}, fmt.Errorf("%w: missing order id", ErrMalformedPayload)
	}
	if !ev.OrderStatus.Valid() || !ev.PaymentStatus.Valid() {
		return AdminStatusChangedEvent{}, fmt.Errorf("%w: status out of range", ErrMalformedPayload)
	}
	return ev, nil
}

// DecodeOrderCreated validates the full-order body of orderCreated.
func DecodeOrderCreated(data []byte) (*Order, error) {
	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if o.ID == 0 {
		return nil, fmt.Errorf("%w: missing order id", ErrMalformedPayload)
	}
	return &o, nil
}
