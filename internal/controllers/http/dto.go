package http

import "storefront-service/internal/domain"

type AddToCartRequest struct {
	Product domain.Product `json:"product" binding:"required"`
	Note    string         `json:"note"`
}

type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	CartID        string `json:"cartId" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Address       string `json:"address" binding:"required"`
	Number        string `json:"number" binding:"required"`
	Complement    string `json:"complement"`
	City          string `json:"city" binding:"required"`
	Neighborhood  string `json:"neighborhood" binding:"required"`
	ZipCode       string `json:"zipCode" binding:"required"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes"`
	CouponCode    string `json:"couponCode"`

	// Card fields, required only on the credit-card route.
	CardToken      string `json:"cardToken"`
	Installments   int    `json:"installments"`
	CardholderName string `json:"cardholderName"`
}

type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		Items:     items,
		Total:     cart.Total(),
		ItemCount: cart.ItemCount(),
	}
}

type OrderStatusResponse struct {
	OrderStatus   int     `json:"orderStatusId"`
	OrderLabel    string  `json:"orderStatus"`
	PaymentStatus int     `json:"paymentStatusId"`
	PaymentLabel  string  `json:"paymentStatus"`
	Progress      float64 `json:"progress"`
	CanCancel     bool    `json:"canCancel"`
	Connected     bool    `json:"connected"`
}

type AlertsResponse struct {
	Alerting bool     `json:"alerting"`
	Pending  []uint64 `json:"pendingOrderIds"`
}
