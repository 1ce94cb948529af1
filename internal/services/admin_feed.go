package services

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/infra/sse"
	"storefront-service/internal/repository"
)

// AdminFeed holds the single global subscription to the backend's
// new-orders stream. It keeps the deduplicated list of freshly created
// orders, the paid-but-unconfirmed alert set, and relays every event to
// attached dashboard connections. Alert start/stop and order events are
// republished to the back-office exchange.
type AdminFeed struct {
	orders      infra.OrdersClientInterface
	streams     infra.StreamClientInterface
	projections repository.OrderProjectionRepository
	publisher   rabbit.PublisherInterface

	sub *sse.Subscription

	mu        sync.Mutex
	newOrders []*domain.Order
	seen      map[uint64]struct{}
	alerts    map[uint64]struct{}
	alerting  bool
	listeners map[chan sse.Event]struct{}
}

func NewAdminFeed(orders infra.OrdersClientInterface, streams infra.StreamClientInterface, projections repository.OrderProjectionRepository, publisher rabbit.PublisherInterface) *AdminFeed {
	f := &AdminFeed{
		orders:      orders,
		streams:     streams,
		projections: projections,
		publisher:   publisher,
		seen:        make(map[uint64]struct{}),
		alerts:      make(map[uint64]struct{}),
		listeners:   make(map[chan sse.Event]struct{}),
	}
	f.sub = sse.NewSubscription(
		infra.StreamNewOrders,
		streams,
		f.handleEvent,
		sse.WithKeepAlive(streams, 5*time.Second),
	)
	return f
}

// Start opens the global subscription. Reconnection on transport failure
// is owned by the subscription itself.
func (f *AdminFeed) Start() {
	f.sub.Start()
}

// Close tears down the subscription; no reconnect fires afterwards.
func (f *AdminFeed) Close() {
	f.sub.Close()
	f.mu.Lock()
	for ch := range f.listeners {
		close(ch)
		delete(f.listeners, ch)
	}
	f.mu.Unlock()
}

// ConnectionStatus reports the state of the upstream stream.
func (f *AdminFeed) ConnectionStatus() sse.Status {
	return f.sub.Status()
}

func (f *AdminFeed) handleEvent(ev sse.Event) {
	switch ev.Name {
	case domain.EventConnected:
		log.Printf("admin feed connected: %s", ev.Data)
	case domain.EventOrderCreated:
		f.handleOrderCreated(ev)
	case domain.EventAdminStatusChanged:
		f.handleStatusChanged(ev)
	}
	f.broadcast(ev)
}

func (f *AdminFeed) handleOrderCreated(ev sse.Event) {
	order, err := domain.DecodeOrderCreated([]byte(ev.Data))
	if err != nil {
		log.Printf("admin feed: %v", err)
		return
	}

	f.mu.Lock()
	if _, dup := f.seen[order.ID]; dup {
		f.mu.Unlock()
		return
	}
	f.seen[order.ID] = struct{}{}
	f.newOrders = append(f.newOrders, order)
	f.mu.Unlock()

	if err := f.projections.Upsert(order); err != nil {
		log.Printf("admin feed: project order %d: %v", order.ID, err)
	}
	f.publish(domain.RoutingOrderCreated, order)
}

func (f *AdminFeed) handleStatusChanged(ev sse.Event) {
	change, err := domain.DecodeAdminStatusChanged([]byte(ev.Data))
	if err != nil {
		log.Printf("admin feed: %v", err)
		return
	}

	if err := f.projections.UpdateStatus(change.ID, change.OrderStatus, change.PaymentStatus); err != nil {
		log.Printf("admin feed: project status %d: %v", change.ID, err)
	}
	f.publish(domain.RoutingOrderStatusChanged, change)

	if change.PaidPendingConfirmation() {
		f.addAlert(change.ID)
	}
}

// addAlert inserts the order into the alert set and raises the alert
// signal. Raising is idempotent; the signal fires only on the transition
// from empty to non-empty.
func (f *AdminFeed) addAlert(orderID uint64) {
	f.mu.Lock()
	f.alerts[orderID] = struct{}{}
	raise := !f.alerting
	if raise {
		f.alerting = true
	}
	f.mu.Unlock()

	if raise {
		f.publish(domain.RoutingAlertStarted, map[string]uint64{"orderId": orderID})
	}
}

// removeAlert drops the order from the alert set; the alert signal stops
// the moment the set empties.
func (f *AdminFeed) removeAlert(orderID uint64) {
	f.mu.Lock()
	delete(f.alerts, orderID)
	stop := f.alerting && len(f.alerts) == 0
	if stop {
		f.alerting = false
	}
	f.mu.Unlock()

	if stop {
		f.publish(domain.RoutingAlertStopped, map[string]uint64{"orderId": orderID})
	}
}

// AcceptOrder confirms a paid order and clears its alert.
func (f *AdminFeed) AcceptOrder(ctx context.Context, orderID uint64) error {
	f.removeAlert(orderID)
	return f.orders.MarkConfirmed(ctx, orderID)
}

// CancelOrder rejects a paid order and clears its alert.
func (f *AdminFeed) CancelOrder(ctx context.Context, orderID uint64) error {
	f.removeAlert(orderID)
	return f.orders.CancelOrder(ctx, orderID)
}

// Alerting reports whether the paid-order alert is currently raised.
func (f *AdminFeed) Alerting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.alerting
}

// PendingAlerts lists the order ids awaiting confirmation, ascending.
func (f *AdminFeed) PendingAlerts() []uint64 {
	f.mu.Lock()
	ids := make([]uint64, 0, len(f.alerts))
	for id := range f.alerts {
		ids = append(ids, id)
	}
	f.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// NewOrders returns the deduplicated list of orders created since the
// feed started, oldest first.
func (f *AdminFeed) NewOrders() []*domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Order, len(f.newOrders))
	copy(out, f.newOrders)
	return out
}

// Attach registers a dashboard connection for raw event relay. The cancel
// function detaches it.
func (f *AdminFeed) Attach() (<-chan sse.Event, func()) {
	ch := make(chan sse.Event, 16)
	f.mu.Lock()
	f.listeners[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.listeners, ch)
			f.mu.Unlock()
		})
	}
	return ch, cancel
}

func (f *AdminFeed) broadcast(ev sse.Event) {
	f.mu.Lock()
	for ch := range f.listeners {
		select {
		case ch <- ev:
		default:
			// slow dashboard; it re-syncs from the projection on reload
		}
	}
	f.mu.Unlock()
}

func (f *AdminFeed) publish(routingKey string, data any) {
	if f.publisher == nil {
		return
	}
	if err := f.publisher.Publish(context.Background(), routingKey, data); err != nil {
		log.Printf("admin feed: publish %s: %v", routingKey, err)
	}
}
