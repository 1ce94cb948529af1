package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingField   = errors.New("missing required customer field")
	ErrCouponNotFound = errors.New("coupon not found")
)

// CustomerInfo is the checkout form payload.
type CustomerInfo struct {
	Name          string
	Phone         string
	Address       string
	Number        string
	Complement    string
	City          string
	Neighborhood  string
	ZipCode       string
	PaymentMethod string
	Notes         string
	CouponCode    string
}

func (c CustomerInfo) validate() error {
	required := map[string]string{
		"name":         c.Name,
		"phone":        c.Phone,
		"address":      c.Address,
		"number":       c.Number,
		"city":         c.City,
		"neighborhood": c.Neighborhood,
		"zipCode":      c.ZipCode,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}
	return nil
}

// CardInfo carries the provider-tokenized card data; the raw card never
// reaches this service.
type CardInfo struct {
	Token          string
	Installments   int
	CardholderName string
}

// CouponQuote is the preview returned by the apply flow.
type CouponQuote struct {
	Coupon   domain.Coupon `json:"coupon"`
	Subtotal float64       `json:"subtotal"`
	Discount float64       `json:"discount"`
	Total    float64       `json:"total"`
}

// CheckoutService converts a cart into an order through the backend's
// payment endpoints. Each submission carries a fresh idempotency key, so a
// user-retried request cannot double-charge.
type CheckoutService struct {
	payments infra.PaymentsClientInterface
	coupons  infra.CouponsClientInterface
	carts    repository.CartStore
	pix      repository.PixSnapshotStore
	now      func() time.Time
}

func NewCheckoutService(payments infra.PaymentsClientInterface, coupons infra.CouponsClientInterface, carts repository.CartStore, pix repository.PixSnapshotStore) *CheckoutService {
	return &CheckoutService{
		payments: payments,
		coupons:  coupons,
		carts:    carts,
		pix:      pix,
		now:      time.Now,
	}
}

// QuoteCoupon validates a coupon against the current cart subtotal. An
// expired coupon is rejected even when still flagged active.
func (s *CheckoutService) QuoteCoupon(ctx context.Context, cartID, code string) (*CouponQuote, error) {
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	coupon, err := s.fetchValidCoupon(ctx, code)
	if err != nil {
		return nil, err
	}
	subtotal := cart.Total()
	discount := coupon.Discount(subtotal)
	if discount > subtotal {
		discount = subtotal
	}
	return &CouponQuote{
		Coupon:   *coupon,
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal - discount,
	}, nil
}

func (s *CheckoutService) fetchValidCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon, err := s.coupons.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, infra.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	if err := coupon.Validate(s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

// CheckoutPix submits the cart for PIX payment. On success the cart is
// cleared and the PIX payload is snapshotted for the payment page.
func (s *CheckoutService) CheckoutPix(ctx context.Context, cartID string, customer CustomerInfo) (*infra.PixOrderResponse, error) {
	req, err := s.prepare(ctx, cartID, customer, "pix")
	if err != nil {
		return nil, err
	}

	key := uuid.NewString()
	resp, err := s.payments.CreatePixOrder(ctx, *req, key)
	if err != nil {
		return nil, err
	}

	if err := s.pix.Save(ctx, resp.OrderID, resp); err != nil {
		log.Printf("checkout: save pix snapshot %d: %v", resp.OrderID, err)
	}
	if err := s.carts.Delete(ctx, cartID); err != nil {
		log.Printf("checkout: clear cart %s: %v", cartID, err)
	}
	return resp, nil
}

// CheckoutCard submits the cart for card payment using the provider token.
func (s *CheckoutService) CheckoutCard(ctx context.Context, cartID string, customer CustomerInfo, card CardInfo) (*infra.CardOrderResponse, error) {
	req, err := s.prepare(ctx, cartID, customer, "credit-card")
	if err != nil {
		return nil, err
	}

	cardReq := infra.CardOrderRequest{
		CustomerName:   req.CustomerName,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		Number:         req.Number,
		Complement:     req.Complement,
		City:           req.City,
		Neighborhood:   req.Neighborhood,
		ZipCode:        req.ZipCode,
		SaleType:       req.SaleType,
		Notes:          req.Notes,
		PaymentMethod:  req.PaymentMethod,
		CouponCode:     req.CouponCode,
		Items:          req.Items,
		CardToken:      card.Token,
		Installments:   card.Installments,
		CardholderName: card.CardholderName,
	}

	key := uuid.NewString()
	resp, err := s.payments.CreateCardOrder(ctx, cardReq, key)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, cartID); err != nil {
		log.Printf("checkout: clear cart %s: %v", cartID, err)
	}
	return resp, nil
}

// PixSnapshot re-reads the stored PIX payload for the payment page.
func (s *CheckoutService) PixSnapshot(ctx context.Context, orderID uint64) (*infra.PixOrderResponse, error) {
	var snap infra.PixOrderResponse
	found, err := s.pix.Load(ctx, orderID, &snap)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &snap, nil
}

func (s *CheckoutService) prepare(ctx context.Context, cartID string, customer CustomerInfo, method string) (*infra.PixOrderRequest, error) {
	if err := customer.validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var couponCode *string
	if customer.CouponCode != "" {
		coupon, err := s.fetchValidCoupon(ctx, customer.CouponCode)
		if err != nil {
			return nil, err
		}
		couponCode = &coupon.Code
	}

	items := make([]infra.OrderItemRequest, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, infra.OrderItemRequest{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}

	paymentMethod := customer.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = method
	}

	req := &infra.PixOrderRequest{
		CustomerName:  customer.Name,
		PhoneNumber:   customer.Phone,
		Address:       customer.Address,
		Number:        customer.Number,
		Complement:    customer.Complement,
		City:          customer.City,
		Neighborhood:  customer.Neighborhood,
		ZipCode:       customer.ZipCode,
		SaleType:      "Online",
		Notes:         customer.Notes,
		PaymentMethod: paymentMethod,
		CouponCode:    couponCode,
		Items:         items,
	}
	return req, nil
}
