package mocks

import (
	"context"
	"io"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockOrdersClient struct {
	mock.Mock
}

func (m *MockOrdersClient) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrdersClient) ListOrders(ctx context.Context, q infra.OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PagedResult[domain.OrderSummary]), args.Error(1)
}

func (m *MockOrdersClient) CancelOrder(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) MarkConfirmed(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) MarkReady(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) MarkOnTheWay(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) MarkDelivered(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) ApprovePayment(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) DeclinePayment(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrdersClient) CreateManualOrder(ctx context.Context, req infra.ManualOrderRequest) (uint64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uint64), args.Error(1)
}

type MockPaymentsClient struct {
	mock.Mock
}

func (m *MockPaymentsClient) CreatePixOrder(ctx context.Context, req infra.PixOrderRequest, idempotencyKey string) (*infra.PixOrderResponse, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.PixOrderResponse), args.Error(1)
}

func (m *MockPaymentsClient) CreateCardOrder(ctx context.Context, req infra.CardOrderRequest, idempotencyKey string) (*infra.CardOrderResponse, error) {
	args := m.Called(ctx, req, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.CardOrderResponse), args.Error(1)
}

type MockCouponsClient struct {
	mock.Mock
}

func (m *MockCouponsClient) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponsClient) ListCoupons(ctx context.Context, page, pageSize int) (*domain.PagedResult[domain.Coupon], error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PagedResult[domain.Coupon]), args.Error(1)
}

func (m *MockCouponsClient) CreateCoupon(ctx context.Context, req infra.CouponRequest) (*domain.Coupon, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponsClient) UpdateCoupon(ctx context.Context, id uint64, req infra.CouponRequest) (*domain.Coupon, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponsClient) DeleteCoupon(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStreamClient struct {
	mock.Mock
}

func (m *MockStreamClient) OpenStream(ctx context.Context, channel string) (io.ReadCloser, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStreamClient) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockProjectionRepository struct {
	mock.Mock
}

func (m *MockProjectionRepository) Upsert(order *domain.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockProjectionRepository) UpdateStatus(id uint64, orderStatus domain.OrderStatus, paymentStatus domain.PaymentStatus) error {
	args := m.Called(id, orderStatus, paymentStatus)
	return args.Error(0)
}

func (m *MockProjectionRepository) FindByID(id uint64) (*domain.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockProjectionRepository) List(q repository.OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PagedResult[domain.OrderSummary]), args.Error(1)
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *MockCartStore) Save(ctx context.Context, cartID string, cart *domain.Cart) error {
	args := m.Called(ctx, cartID, cart)
	return args.Error(0)
}

func (m *MockCartStore) Delete(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type MockPixSnapshotStore struct {
	mock.Mock
}

func (m *MockPixSnapshotStore) Save(ctx context.Context, orderID uint64, snapshot any) error {
	args := m.Called(ctx, orderID, snapshot)
	return args.Error(0)
}

func (m *MockPixSnapshotStore) Load(ctx context.Context, orderID uint64, out any) (bool, error) {
	args := m.Called(ctx, orderID, out)
	return args.Bool(0), args.Error(1)
}

func (m *MockPixSnapshotStore) Delete(ctx context.Context, orderID uint64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}
