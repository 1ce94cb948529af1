package services

import (
	"context"
	"strconv"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/sse"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestFeed(t *testing.T) (*AdminFeed, *mocks.MockOrdersClient, *mocks.MockProjectionRepository, *mocks.MockPublisher) {
	t.Helper()
	orders := new(mocks.MockOrdersClient)
	projections := new(mocks.MockProjectionRepository)
	publisher := new(mocks.MockPublisher)
	feed := NewAdminFeed(orders, new(mocks.MockStreamClient), projections, publisher)
	return feed, orders, projections, publisher
}

func orderCreatedEvent(id uint64) sse.Event {
	return sse.Event{
		Name: domain.EventOrderCreated,
		Data: `{"id":` + strconv.FormatUint(id, 10) + `,"customerName":"Maria","totalAmount":57}`,
	}
}

func statusChangedEvent(id uint64, orderStatus domain.OrderStatus, paymentStatus domain.PaymentStatus) sse.Event {
	return sse.Event{
		Name: domain.EventAdminStatusChanged,
		Data: `{"id":` + strconv.FormatUint(id, 10) + `,"orderStatusId":` + strconv.Itoa(int(orderStatus)) + `,"paymentStatusId":` + strconv.Itoa(int(paymentStatus)) + `}`,
	}
}

func TestAdminFeed_OrderCreatedDeduplicated(t *testing.T) {
	feed, _, projections, publisher := newTestFeed(t)

	projections.On("Upsert", mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	publisher.On("Publish", mock.Anything, domain.RoutingOrderCreated, mock.Anything).Return(nil).Once()

	feed.handleEvent(orderCreatedEvent(7))
	feed.handleEvent(orderCreatedEvent(7))

	orders := feed.NewOrders()
	assert.Len(t, orders, 1)
	assert.Equal(t, uint64(7), orders[0].ID)
	projections.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAdminFeed_OrderCreatedKeepsArrivalOrder(t *testing.T) {
	feed, _, projections, publisher := newTestFeed(t)

	projections.On("Upsert", mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingOrderCreated, mock.Anything).Return(nil)

	feed.handleEvent(orderCreatedEvent(3))
	feed.handleEvent(orderCreatedEvent(1))
	feed.handleEvent(orderCreatedEvent(2))

	orders := feed.NewOrders()
	assert.Equal(t, []uint64{3, 1, 2}, []uint64{orders[0].ID, orders[1].ID, orders[2].ID})
}

func TestAdminFeed_MalformedPayloadSkipped(t *testing.T) {
	feed, _, projections, publisher := newTestFeed(t)

	feed.handleEvent(sse.Event{Name: domain.EventOrderCreated, Data: `{"id":0}`})
	feed.handleEvent(sse.Event{Name: domain.EventAdminStatusChanged, Data: `not json`})

	assert.Empty(t, feed.NewOrders())
	projections.AssertNotCalled(t, "Upsert", mock.Anything)
	projections.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminFeed_PaidOrderRaisesAlert(t *testing.T) {
	feed, _, projections, publisher := newTestFeed(t)

	projections.On("UpdateStatus", uint64(7), domain.StatusPending, domain.PaymentApproved).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingOrderStatusChanged, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingAlertStarted, mock.Anything).Return(nil).Once()

	feed.handleEvent(statusChangedEvent(7, domain.StatusPending, domain.PaymentApproved))

	assert.True(t, feed.Alerting())
	assert.Equal(t, []uint64{7}, feed.PendingAlerts())
	publisher.AssertExpectations(t)
}

func TestAdminFeed_AlertStartIsIdempotent(t *testing.T) {
	feed, _, projections, publisher := newTestFeed(t)

	projections.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingOrderStatusChanged, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingAlertStarted, mock.Anything).Return(nil).Once()

	feed.handleEvent(statusChangedEvent(7, domain.StatusPending, domain.PaymentApproved))
	feed.handleEvent(statusChangedEvent(8, domain.StatusPending, domain.PaymentApproved))
	feed.handleEvent(statusChangedEvent(7, domain.StatusPending, domain.PaymentApproved))

	assert.True(t, feed.Alerting())
	assert.Equal(t, []uint64{7, 8}, feed.PendingAlerts())
	publisher.AssertNumberOfCalls(t, "Publish", 4)
}

func TestAdminFeed_NonPaidStatusDoesNotAlert(t *testing.T) {
	feed, _, projections, publisher := newTestFeed(t)

	projections.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingOrderStatusChanged, mock.Anything).Return(nil)

	feed.handleEvent(statusChangedEvent(7, domain.StatusPreparing, domain.PaymentApproved))
	feed.handleEvent(statusChangedEvent(8, domain.StatusPending, domain.PaymentPending))

	assert.False(t, feed.Alerting())
	assert.Empty(t, feed.PendingAlerts())
	publisher.AssertNotCalled(t, "Publish", mock.Anything, domain.RoutingAlertStarted, mock.Anything)
}

func TestAdminFeed_AcceptOrderStopsAlertOnLastOrder(t *testing.T) {
	feed, orders, projections, publisher := newTestFeed(t)

	projections.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingOrderStatusChanged, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, domain.RoutingAlertStarted, mock.Anything).Return(nil).Once()
	publisher.On("Publish", mock.Anything, domain.RoutingAlertStopped, mock.Anything).Return(nil).Once()
	orders.On("MarkConfirmed", mock.Anything, uint64(7)).Return(nil)
	orders.On("MarkConfirmed", mock.Anything, uint64(8)).Return(nil)

	feed.handleEvent(statusChangedEvent(7, domain.StatusPending, domain.PaymentApproved))
	feed.handleEvent(statusChangedEvent(8, domain.StatusPending, domain.PaymentApproved))

	assert.NoError(t, feed.AcceptOrder(context.Background(), 7))
	assert.True(t, feed.Alerting(), "alert keeps ringing while another paid order waits")

	assert.NoError(t, feed.AcceptOrder(context.Background(), 8))
	assert.False(t, feed.Alerting())
	assert.Empty(t, feed.PendingAlerts())
	publisher.AssertExpectations(t)
	orders.AssertExpectations(t)
}

func TestAdminFeed_CancelOrderClearsAlert(t *testing.T) {
	feed, orders, projections, publisher := newTestFeed(t)

	projections.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	orders.On("CancelOrder", mock.Anything, uint64(7)).Return(nil)

	feed.handleEvent(statusChangedEvent(7, domain.StatusPending, domain.PaymentApproved))
	assert.NoError(t, feed.CancelOrder(context.Background(), 7))

	assert.False(t, feed.Alerting())
	orders.AssertExpectations(t)
}

func TestAdminFeed_AttachRelaysEvents(t *testing.T) {
	feed, _, _, _ := newTestFeed(t)

	ch, cancel := feed.Attach()
	defer cancel()

	ev := sse.Event{Name: domain.EventConnected, Data: "ok"}
	feed.handleEvent(ev)

	select {
	case got := <-ch:
		assert.Equal(t, ev, got)
	default:
		t.Fatal("expected relayed event")
	}

	cancel()
	feed.handleEvent(ev)
	select {
	case _, ok := <-ch:
		assert.False(t, ok, "no event expected after detach")
	default:
	}
}
