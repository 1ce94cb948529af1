package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var checkoutNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func validCustomer() CustomerInfo {
	return CustomerInfo{
		Name:         "Maria",
		Phone:        "11999990000",
		Address:      "Rua das Flores",
		Number:       "12",
		City:         "Sao Paulo",
		Neighborhood: "Centro",
		ZipCode:      "01000-000",
	}
}

func filledCart() *domain.Cart {
	return &domain.Cart{Items: []domain.CartItem{
		{Product: domain.Product{ID: 1, Price: 45}, Quantity: 2},
		{Product: domain.Product{ID: 3, Price: 12}, Quantity: 1},
	}}
}

func newCheckout(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) *CheckoutService {
	svc := NewCheckoutService(payments, coupons, carts, pix)
	svc.now = func() time.Time { return checkoutNow }
	return svc
}

func TestCheckoutService_CheckoutPix(t *testing.T) {
	tests := []struct {
		name          string
		customer      CustomerInfo
		setupMocks    func(*mocks.MockPaymentsClient, *mocks.MockCouponsClient, *mocks.MockCartStore, *mocks.MockPixSnapshotStore)
		expectedErr   error
		expectedOrder uint64
	}{
		{
			name:     "successful checkout clears cart and snapshots pix",
			customer: validCustomer(),
			setupMocks: func(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) {
				carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
				payments.On("CreatePixOrder", mock.Anything, mock.AnythingOfType("infra.PixOrderRequest"), mock.AnythingOfType("string")).
					Return(&infra.PixOrderResponse{OrderID: 77, QrCode: "pix-code"}, nil)
				pix.On("Save", mock.Anything, uint64(77), mock.Anything).Return(nil)
				carts.On("Delete", mock.Anything, "cart-1").Return(nil)
			},
			expectedOrder: 77,
		},
		{
			name:     "empty cart",
			customer: validCustomer(),
			setupMocks: func(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) {
				carts.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{}, nil)
			},
			expectedErr: ErrEmptyCart,
		},
		{
			name:        "missing required field",
			customer:    CustomerInfo{Name: "Maria"},
			setupMocks:  func(*mocks.MockPaymentsClient, *mocks.MockCouponsClient, *mocks.MockCartStore, *mocks.MockPixSnapshotStore) {},
			expectedErr: ErrMissingField,
		},
		{
			name: "unknown coupon",
			customer: func() CustomerInfo {
				c := validCustomer()
				c.CouponCode = "NOPE"
				return c
			}(),
			setupMocks: func(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) {
				carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
				coupons.On("GetCouponByCode", mock.Anything, "NOPE").Return(nil, infra.ErrNotFound)
			},
			expectedErr: ErrCouponNotFound,
		},
		{
			name: "expired coupon",
			customer: func() CustomerInfo {
				c := validCustomer()
				c.CouponCode = "OLD10"
				return c
			}(),
			setupMocks: func(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) {
				carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
				coupons.On("GetCouponByCode", mock.Anything, "OLD10").Return(&domain.Coupon{
					Code: "OLD10", Type: domain.CouponPercent, Value: 10,
					IsActive: true, ExpiresAt: checkoutNow.Add(-time.Hour),
				}, nil)
			},
			expectedErr: domain.ErrCouponExpired,
		},
		{
			name:     "payment failure leaves cart untouched",
			customer: validCustomer(),
			setupMocks: func(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) {
				carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
				payments.On("CreatePixOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, errors.New("gateway timeout"))
			},
			expectedErr: errors.New("gateway timeout"),
		},
		{
			name:     "snapshot failure is not fatal",
			customer: validCustomer(),
			setupMocks: func(payments *mocks.MockPaymentsClient, coupons *mocks.MockCouponsClient, carts *mocks.MockCartStore, pix *mocks.MockPixSnapshotStore) {
				carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
				payments.On("CreatePixOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(&infra.PixOrderResponse{OrderID: 78}, nil)
				pix.On("Save", mock.Anything, uint64(78), mock.Anything).Return(errors.New("redis down"))
				carts.On("Delete", mock.Anything, "cart-1").Return(nil)
			},
			expectedOrder: 78,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := new(mocks.MockPaymentsClient)
			coupons := new(mocks.MockCouponsClient)
			carts := new(mocks.MockCartStore)
			pix := new(mocks.MockPixSnapshotStore)
			tt.setupMocks(payments, coupons, carts, pix)

			svc := newCheckout(payments, coupons, carts, pix)
			resp, err := svc.CheckoutPix(context.Background(), "cart-1", tt.customer)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				if target := tt.expectedErr; errors.Is(target, ErrEmptyCart) || errors.Is(target, ErrMissingField) ||
					errors.Is(target, ErrCouponNotFound) || errors.Is(target, domain.ErrCouponExpired) {
					assert.ErrorIs(t, err, target)
				} else {
					assert.EqualError(t, err, target.Error())
				}
				carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedOrder, resp.OrderID)
			}
			payments.AssertExpectations(t)
			carts.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_FreshIdempotencyKeyPerSubmission(t *testing.T) {
	payments := new(mocks.MockPaymentsClient)
	carts := new(mocks.MockCartStore)
	pix := new(mocks.MockPixSnapshotStore)

	var keys []string
	carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
	payments.On("CreatePixOrder", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			keys = append(keys, args.String(2))
		}).
		Return(&infra.PixOrderResponse{OrderID: 80}, nil)
	pix.On("Save", mock.Anything, uint64(80), mock.Anything).Return(nil)
	carts.On("Delete", mock.Anything, "cart-1").Return(nil)

	svc := newCheckout(payments, new(mocks.MockCouponsClient), carts, pix)

	_, err := svc.CheckoutPix(context.Background(), "cart-1", validCustomer())
	assert.NoError(t, err)
	_, err = svc.CheckoutPix(context.Background(), "cart-1", validCustomer())
	assert.NoError(t, err)

	assert.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEqual(t, keys[0], keys[1])
}

func TestCheckoutService_CheckoutCard(t *testing.T) {
	payments := new(mocks.MockPaymentsClient)
	carts := new(mocks.MockCartStore)
	pix := new(mocks.MockPixSnapshotStore)

	carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
	payments.On("CreateCardOrder", mock.Anything, mock.MatchedBy(func(req infra.CardOrderRequest) bool {
		return req.CardToken == "tok_123" && req.Installments == 3 && req.SaleType == "Online" && len(req.Items) == 2
	}), mock.AnythingOfType("string")).Return(&infra.CardOrderResponse{OrderID: 90, Status: "approved"}, nil)
	carts.On("Delete", mock.Anything, "cart-1").Return(nil)

	svc := newCheckout(payments, new(mocks.MockCouponsClient), carts, pix)
	resp, err := svc.CheckoutCard(context.Background(), "cart-1", validCustomer(), CardInfo{
		Token:          "tok_123",
		Installments:   3,
		CardholderName: "MARIA S",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(90), resp.OrderID)
	payments.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestCheckoutService_QuoteCoupon(t *testing.T) {
	t.Run("percent coupon against subtotal", func(t *testing.T) {
		coupons := new(mocks.MockCouponsClient)
		carts := new(mocks.MockCartStore)

		carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
		coupons.On("GetCouponByCode", mock.Anything, "BOLO10").Return(&domain.Coupon{
			Code: "BOLO10", Type: domain.CouponPercent, Value: 10,
			IsActive: true, ExpiresAt: checkoutNow.Add(time.Hour),
		}, nil)

		svc := newCheckout(new(mocks.MockPaymentsClient), coupons, carts, new(mocks.MockPixSnapshotStore))
		quote, err := svc.QuoteCoupon(context.Background(), "cart-1", "BOLO10")

		assert.NoError(t, err)
		assert.Equal(t, 102.0, quote.Subtotal)
		assert.Equal(t, 10.2, quote.Discount)
		assert.InDelta(t, 91.8, quote.Total, 1e-9)
	})

	t.Run("fixed coupon larger than subtotal clamps to free", func(t *testing.T) {
		coupons := new(mocks.MockCouponsClient)
		carts := new(mocks.MockCartStore)

		carts.On("Load", mock.Anything, "cart-1").Return(&domain.Cart{Items: []domain.CartItem{
			{Product: domain.Product{ID: 1, Price: 10}, Quantity: 1},
		}}, nil)
		coupons.On("GetCouponByCode", mock.Anything, "BIG").Return(&domain.Coupon{
			Code: "BIG", Type: domain.CouponFixed, Value: 50,
			IsActive: true, ExpiresAt: checkoutNow.Add(time.Hour),
		}, nil)

		svc := newCheckout(new(mocks.MockPaymentsClient), coupons, carts, new(mocks.MockPixSnapshotStore))
		quote, err := svc.QuoteCoupon(context.Background(), "cart-1", "BIG")

		assert.NoError(t, err)
		assert.Equal(t, 10.0, quote.Discount)
		assert.Equal(t, 0.0, quote.Total)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		coupons := new(mocks.MockCouponsClient)
		carts := new(mocks.MockCartStore)

		carts.On("Load", mock.Anything, "cart-1").Return(filledCart(), nil)
		coupons.On("GetCouponByCode", mock.Anything, "OFF").Return(&domain.Coupon{
			Code: "OFF", Type: domain.CouponFixed, Value: 5,
			IsActive: false, ExpiresAt: checkoutNow.Add(time.Hour),
		}, nil)

		svc := newCheckout(new(mocks.MockPaymentsClient), coupons, carts, new(mocks.MockPixSnapshotStore))
		_, err := svc.QuoteCoupon(context.Background(), "cart-1", "OFF")

		assert.ErrorIs(t, err, domain.ErrCouponInactive)
	})
}

func TestCheckoutService_PixSnapshot(t *testing.T) {
	t.Run("missing snapshot returns nil", func(t *testing.T) {
		pix := new(mocks.MockPixSnapshotStore)
		pix.On("Load", mock.Anything, uint64(5), mock.Anything).Return(false, nil)

		svc := newCheckout(new(mocks.MockPaymentsClient), new(mocks.MockCouponsClient), new(mocks.MockCartStore), pix)
		snap, err := svc.PixSnapshot(context.Background(), 5)

		assert.NoError(t, err)
		assert.Nil(t, snap)
	})
}
