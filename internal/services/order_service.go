package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/infra/sse"
	"storefront-service/internal/repository"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrCannotCancel   = errors.New("order can no longer be canceled")
	ErrOrderCompleted = errors.New("order already reached a final status")
)

// OrderService serves the customer-facing order tracker: fetches the
// order, keeps one upstream status subscription per order while anyone is
// watching, and fans events out to the watching connections.
type OrderService struct {
	orders      infra.OrdersClientInterface
	streams     infra.StreamClientInterface
	projections repository.OrderProjectionRepository

	mu       sync.Mutex
	trackers map[uint64]*orderTracker
}

type orderTracker struct {
	orderID uint64
	sub     *sse.Subscription

	mu            sync.Mutex
	orderStatus   domain.OrderStatus
	paymentStatus domain.PaymentStatus
	listeners     map[chan domain.StatusChangedEvent]struct{}
}

func NewOrderService(orders infra.OrdersClientInterface, streams infra.StreamClientInterface, projections repository.OrderProjectionRepository) *OrderService {
	return &OrderService{
		orders:      orders,
		streams:     streams,
		projections: projections,
		trackers:    make(map[uint64]*orderTracker),
	}
}

// GetOrder fetches the order from the backend and refreshes the local
// projection. Falls back to the projection when the upstream is down.
func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, infra.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		cached, cacheErr := s.projections.FindByID(id)
		if cacheErr == nil && cached != nil {
			log.Printf("order %d: serving projection, upstream unavailable: %v", id, err)
			return cached, nil
		}
		return nil, err
	}
	if err := s.projections.Upsert(order); err != nil {
		log.Printf("order %d: refresh projection: %v", id, err)
	}
	return order, nil
}

// Cancel cancels the order on behalf of the customer. The current status
// must still allow cancellation.
func (s *OrderService) Cancel(ctx context.Context, id uint64) error {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if !order.OrderStatusID.CanCancel() {
		return ErrCannotCancel
	}
	if err := s.orders.CancelOrder(ctx, id); err != nil {
		return err
	}
	if err := s.projections.UpdateStatus(id, domain.StatusCanceledByClient, order.PaymentStatusID); err != nil {
		log.Printf("order %d: projection after cancel: %v", id, err)
	}
	return nil
}

// Subscribe attaches a listener to the order's status stream, starting the
// upstream subscription on first attach. The returned cancel function
// detaches the listener; when the last one detaches, or the order reaches
// a terminal status, the upstream subscription closes.
func (s *OrderService) Subscribe(ctx context.Context, id uint64) (<-chan domain.StatusChangedEvent, func(), error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if order.OrderStatusID.IsTerminal() {
		return nil, nil, ErrOrderCompleted
	}

	s.mu.Lock()
	t, ok := s.trackers[id]
	if !ok {
		t = &orderTracker{
			orderID:       id,
			orderStatus:   order.OrderStatusID,
			paymentStatus: order.PaymentStatusID,
			listeners:     make(map[chan domain.StatusChangedEvent]struct{}),
		}
		t.sub = sse.NewSubscription(
			infra.OrderStreamChannel(id),
			s.streams,
			func(ev sse.Event) { s.handleEvent(t, ev) },
		)
		s.trackers[id] = t
		t.sub.Start()
	}
	s.mu.Unlock()

	ch := make(chan domain.StatusChangedEvent, 8)
	t.mu.Lock()
	t.listeners[ch] = struct{}{}
	t.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, ch)
			empty := len(t.listeners) == 0
			t.mu.Unlock()
			if empty {
				s.dropTracker(t)
			}
		})
	}
	return ch, cancel, nil
}

// Status returns the tracker's last known status pair and whether the
// stream is live, for polling clients.
func (s *OrderService) Status(id uint64) (domain.OrderStatus, domain.PaymentStatus, bool, bool) {
	s.mu.Lock()
	t, ok := s.trackers[id]
	s.mu.Unlock()
	if !ok {
		return 0, 0, false, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.orderStatus, t.paymentStatus, t.sub.Status() == sse.StatusConnected, true
}

func (s *OrderService) handleEvent(t *orderTracker, ev sse.Event) {
	if ev.Name != domain.EventOrderStatusChanged {
		return
	}
	change, err := domain.DecodeStatusChanged([]byte(ev.Data))
	if err != nil {
		log.Printf("order %d: %v", t.orderID, err)
		return
	}

	t.mu.Lock()
	if change.OrderStatus != nil {
		t.orderStatus = *change.OrderStatus
	}
	if change.PaymentStatus != nil {
		t.paymentStatus = *change.PaymentStatus
	}
	orderStatus, paymentStatus := t.orderStatus, t.paymentStatus
	for ch := range t.listeners {
		select {
		case ch <- change:
		default:
			// slow listener; it will re-sync on its next fetch
		}
	}
	t.mu.Unlock()

	if err := s.projections.UpdateStatus(t.orderID, orderStatus, paymentStatus); err != nil {
		log.Printf("order %d: projection status: %v", t.orderID, err)
	}

	if orderStatus.IsTerminal() {
		s.dropTracker(t)
	}
}

// dropTracker closes the tracker's subscription and releases its
// listeners. Safe to call from the event handler and from detach.
func (s *OrderService) dropTracker(t *orderTracker) {
	s.mu.Lock()
	if current, ok := s.trackers[t.orderID]; ok && current == t {
		delete(s.trackers, t.orderID)
	}
	s.mu.Unlock()

	t.sub.Close()

	t.mu.Lock()
	for ch := range t.listeners {
		close(ch)
		delete(t.listeners, ch)
	}
	t.mu.Unlock()
}

// --- admin transitions ---

// Transition names accepted by AdminTransition.
const (
	TransitionConfirmed      = "confirmed"
	TransitionReady          = "ready"
	TransitionOnTheWay       = "on-the-way"
	TransitionDelivered      = "delivered"
	TransitionApprovePayment = "approve-payment"
	TransitionDeclinePayment = "decline-payment"
	TransitionCancel         = "cancel"
)

var ErrUnknownTransition = errors.New("unknown order transition")

// AdminTransition applies a back-office status change to the order. The
// resulting status lands on the projection via the admin feed's events.
func (s *OrderService) AdminTransition(ctx context.Context, id uint64, transition string) error {
	switch transition {
	case TransitionConfirmed:
		return s.orders.MarkConfirmed(ctx, id)
	case TransitionReady:
		return s.orders.MarkReady(ctx, id)
	case TransitionOnTheWay:
		return s.orders.MarkOnTheWay(ctx, id)
	case TransitionDelivered:
		return s.orders.MarkDelivered(ctx, id)
	case TransitionApprovePayment:
		return s.orders.ApprovePayment(ctx, id)
	case TransitionDeclinePayment:
		return s.orders.DeclinePayment(ctx, id)
	case TransitionCancel:
		return s.orders.CancelOrder(ctx, id)
	}
	return ErrUnknownTransition
}

// ListOrders serves the admin list from the local projection.
func (s *OrderService) ListOrders(q repository.OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error) {
	return s.projections.List(q)
}

// CreateManualOrder registers a counter sale taken outside the storefront.
func (s *OrderService) CreateManualOrder(ctx context.Context, req infra.ManualOrderRequest) (uint64, error) {
	return s.orders.CreateManualOrder(ctx, req)
}

// ParseOrderID converts a path parameter into an order id.
func ParseOrderID(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}
