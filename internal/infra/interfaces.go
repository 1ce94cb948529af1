package infra

import (
	"context"
	"io"

	"storefront-service/internal/domain"
)

// OrderListQuery filters the admin order list.
type OrderListQuery struct {
	Page          int
	PageSize      int
	Search        string
	OrderStatus   *domain.OrderStatus
	PaymentStatus *domain.PaymentStatus
}

type OrdersClientInterface interface {
	GetOrder(ctx context.Context, id uint64) (*domain.Order, error)
	ListOrders(ctx context.Context, q OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error)
	CancelOrder(ctx context.Context, id uint64) error
	MarkConfirmed(ctx context.Context, id uint64) error
	MarkReady(ctx context.Context, id uint64) error
	MarkOnTheWay(ctx context.Context, id uint64) error
	MarkDelivered(ctx context.Context, id uint64) error
	ApprovePayment(ctx context.Context, id uint64) error
	DeclinePayment(ctx context.Context, id uint64) error
	CreateManualOrder(ctx context.Context, req ManualOrderRequest) (uint64, error)
}

type PaymentsClientInterface interface {
	CreatePixOrder(ctx context.Context, req PixOrderRequest, idempotencyKey string) (*PixOrderResponse, error)
	CreateCardOrder(ctx context.Context, req CardOrderRequest, idempotencyKey string) (*CardOrderResponse, error)
}

type CouponsClientInterface interface {
	GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error)
	ListCoupons(ctx context.Context, page, pageSize int) (*domain.PagedResult[domain.Coupon], error)
	CreateCoupon(ctx context.Context, req CouponRequest) (*domain.Coupon, error)
	UpdateCoupon(ctx context.Context, id uint64, req CouponRequest) (*domain.Coupon, error)
	DeleteCoupon(ctx context.Context, id uint64) error
}

type CatalogClientInterface interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uint64, req ProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint64) error
	DeleteProductImage(ctx context.Context, productID, imageID uint64) error
	AddProductStock(ctx context.Context, productID uint64, quantity int) error
	AdjustProductStock(ctx context.Context, productID uint64, newQuantity int) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, req CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uint64, req CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint64) error

	ListStockItems(ctx context.Context, page, pageSize int, search string) (*domain.PagedResult[domain.StockItem], error)
	GetStockItem(ctx context.Context, id uint64) (*domain.StockItem, error)
	CreateStockItem(ctx context.Context, req StockItemRequest) (*domain.StockItem, error)
	UpdateStockItem(ctx context.Context, id uint64, req StockItemRequest) (*domain.StockItem, error)
	DeleteStockItem(ctx context.Context, id uint64) error
	AddStock(ctx context.Context, id uint64, req StockMovementRequest) error
	RemoveStock(ctx context.Context, id uint64, req StockMovementRequest) error

	ListRecipes(ctx context.Context) ([]domain.Recipe, error)
	GetRecipe(ctx context.Context, id uint64) (*domain.Recipe, error)
	CreateRecipe(ctx context.Context, req RecipeRequest) (*domain.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint64, req RecipeRequest) (*domain.Recipe, error)
	DeleteRecipe(ctx context.Context, id uint64) error

	ListProductSales(ctx context.Context, page, pageSize int) (*domain.PagedResult[domain.ProductSale], error)
	GetProductSale(ctx context.Context, id uint64) (*domain.ProductSale, error)
	CreateProductSale(ctx context.Context, req ProductSaleRequest) (*domain.ProductSale, error)
	UpdateProductSale(ctx context.Context, id uint64, req ProductSaleRequest) (*domain.ProductSale, error)
	DeleteProductSale(ctx context.Context, id uint64) error
}

// StreamClientInterface opens backend SSE channels and serves as the
// keep-alive probe while a stream is up.
type StreamClientInterface interface {
	OpenStream(ctx context.Context, channel string) (io.ReadCloser, error)
	Ping(ctx context.Context) error
}

var _ OrdersClientInterface = (*BakeryClient)(nil)
var _ PaymentsClientInterface = (*BakeryClient)(nil)
var _ CouponsClientInterface = (*BakeryClient)(nil)
var _ CatalogClientInterface = (*BakeryClient)(nil)
var _ StreamClientInterface = (*BakeryClient)(nil)
