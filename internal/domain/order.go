package domain

import "time"

type OrderStatus int

const (
	StatusPending OrderStatus = iota
	StatusPreparing
	StatusReady
	StatusOnTheWay
	StatusDelivered
	StatusCanceledByClient
	StatusCanceledByVendor
	StatusCanceledBySystem
)

// happyPath is the linear progression a non-canceled order walks through.
var happyPath = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusOnTheWay, StatusDelivered}

var statusNames = map[OrderStatus]string{
	StatusPending:          "pending",
	StatusPreparing:        "preparing",
	StatusReady:            "ready",
	StatusOnTheWay:         "on_the_way",
	StatusDelivered:        "delivered",
	StatusCanceledByClient: "canceled_by_client",
	StatusCanceledByVendor: "canceled_by_vendor",
	StatusCanceledBySystem: "canceled_by_system",
}

func (s OrderStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s OrderStatus) Valid() bool {
	return s >= StatusPending && s <= StatusCanceledBySystem
}

// IsCanceled reports whether s is one of the three canceled variants.
func (s OrderStatus) IsCanceled() bool {
	return s == StatusCanceledByClient || s == StatusCanceledByVendor || s == StatusCanceledBySystem
}

// IsTerminal reports whether no further transition is modeled from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s.IsCanceled()
}

// Progress returns the completion percentage shown on the tracking page.
// Canceled orders report 0.
func (s OrderStatus) Progress() float64 {
	if s.IsCanceled() {
		return 0
	}
	for i, step := range happyPath {
		if step == s {
			return float64(i+1) / float64(len(happyPath)) * 100
		}
	}
	return 0
}

// CanCancel reports whether the customer may still cancel an order in
// status s. CanceledBySystem is intentionally absent from the exclusion
// list, matching the tracker's historical behavior.
func (s OrderStatus) CanCancel() bool {
	switch s {
	case StatusOnTheWay, StatusDelivered, StatusCanceledByClient, StatusCanceledByVendor:
		return false
	}
	return true
}

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota
	PaymentApproved
	PaymentDeclined
	PaymentRefunded
)

var paymentNames = map[PaymentStatus]string{
	PaymentPending:  "pending",
	PaymentApproved: "approved",
	PaymentDeclined: "declined",
	PaymentRefunded: "refunded",
}

func (s PaymentStatus) String() string {
	if name, ok := paymentNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s PaymentStatus) Valid() bool {
	return s >= PaymentPending && s <= PaymentRefunded
}

// IsTerminal reports whether the payment can no longer change state.
// Pending is the only non-terminal payment status.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentPending
}

type SaleType int

const (
	SaleDelivery SaleType = iota
	SalePickup
)

type OrderItem struct {
	ID          uint64  `json:"id"`
	ProductID   uint64  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// Order is the read model received from the bakery backend. The gateway
// never patches it field by field beyond the two status ids; every other
// update replaces the whole projection.
type Order struct {
	ID              uint64        `json:"id"`
	OrderStatusID   OrderStatus   `json:"orderStatusId"`
	PaymentStatusID PaymentStatus `json:"paymentStatusId"`

	CustomerName string `json:"customerName"`
	PhoneNumber  string `json:"phoneNumber"`

	Address      string `json:"address"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	ZipCode      string `json:"zipCode"`

	Notes         string   `json:"notes,omitempty"`
	PaymentMethod string   `json:"paymentMethod"`
	SaleType      SaleType `json:"saleType"`

	PixCode         string     `json:"pixCode,omitempty"`
	PixQrCodeBase64 string     `json:"pixQrCodeBase64,omitempty"`
	PixPaidAt       *time.Time `json:"pixPaidAt,omitempty"`

	CardBrand      string     `json:"cardBrand,omitempty"`
	CardLast4      string     `json:"cardLast4,omitempty"`
	CardPaidAmount float64    `json:"cardPaidAmount,omitempty"`
	CardPaidAt     *time.Time `json:"cardPaidAt,omitempty"`

	Subtotal     float64   `json:"subtotal"`
	ShippingCost float64   `json:"shippingCost"`
	TotalAmount  float64   `json:"totalAmount"`
	CreatedAt    time.Time `json:"createdAt"`

	Items []OrderItem `json:"items"`
}

// OrderSummary is the row shape of the admin order list.
type OrderSummary struct {
	ID           uint64    `json:"id"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customerName"`
	TotalAmount  float64   `json:"totalAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PagedResult mirrors the backend's paged list envelope.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}
