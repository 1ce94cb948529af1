package repository

import (
	"storefront-service/internal/domain"
)

// OrderListQuery filters the locally projected order list.
type OrderListQuery struct {
	Page          int
	PageSize      int
	Search        string
	OrderStatus   *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
}

// OrderProjectionRepository is the local read model of backend orders,
// kept current by the admin feed so dashboard listings don't round-trip
// to the upstream on every page load.
type OrderProjectionRepository interface {
	Upsert(order *domain.Order) error
	UpdateStatus(id uint64, orderStatus domain.OrderStatus, paymentStatus domain.PaymentStatus) error
	FindByID(id uint64) (*domain.Order, error)
	List(q OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error)
}
