package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"storefront-service/internal/domain"
)

// ErrNotFound is returned when the backend answers 404 for a lookup.
var ErrNotFound = fmt.Errorf("upstream resource not found")

const headerIdempotencyKey = "X-Idempotency-Key"

// Stream channels accepted by OpenStream.
const (
	StreamNewOrders = "new-orders"
)

// OrderStreamChannel names the per-order status channel.
func OrderStreamChannel(orderID uint64) string {
	return strconv.FormatUint(orderID, 10)
}

// BakeryClient is the typed HTTP client for the external bakery backend.
type BakeryClient struct {
	baseURL    string
	httpClient *http.Client
	// streamClient has no timeout; SSE connections are long-lived and are
	// torn down via the request context instead.
	streamClient *http.Client
}

func NewBakeryClient(baseURL string, timeout time.Duration) *BakeryClient {
	return &BakeryClient{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
	}
}

func (c *BakeryClient) do(ctx context.Context, method, path string, body, out any) error {
	return c.doWithHeaders(ctx, method, path, body, out, nil)
}

func (c *BakeryClient) doWithHeaders(ctx context.Context, method, path string, body, out any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d for %s %s", resp.StatusCode, method, path)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --- Orders ---

func (c *BakeryClient) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/Orders/%d", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *BakeryClient) ListOrders(ctx context.Context, q OrderListQuery) (*domain.PagedResult[domain.OrderSummary], error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.OrderStatus != nil {
		params.Set("orderStatus", strconv.Itoa(int(*q.OrderStatus)))
	}
	if q.PaymentStatus != nil {
		params.Set("paymentStatus", strconv.Itoa(int(*q.PaymentStatus)))
	}
	var out domain.PagedResult[domain.OrderSummary]
	if err := c.do(ctx, http.MethodGet, "/api/Orders?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CancelOrder(ctx context.Context, id uint64) error {
	body := map[string]uint64{"orderId": id}
	return c.do(ctx, http.MethodPost, "/api/Orders/cancel_order", body, nil)
}

func (c *BakeryClient) transition(ctx context.Context, id uint64, action string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/Orders/%d/%s", id, action), nil, nil)
}

func (c *BakeryClient) MarkConfirmed(ctx context.Context, id uint64) error {
	return c.transition(ctx, id, "confirmed")
}

func (c *BakeryClient) MarkReady(ctx context.Context, id uint64) error {
	return c.transition(ctx, id, "ready")
}

func (c *BakeryClient) MarkOnTheWay(ctx context.Context, id uint64) error {
	return c.transition(ctx, id, "on-the-way")
}

func (c *BakeryClient) MarkDelivered(ctx context.Context, id uint64) error {
	return c.transition(ctx, id, "delivered")
}

func (c *BakeryClient) ApprovePayment(ctx context.Context, id uint64) error {
	return c.transition(ctx, id, "approve-payment")
}

func (c *BakeryClient) DeclinePayment(ctx context.Context, id uint64) error {
	return c.transition(ctx, id, "decline-payment")
}

func (c *BakeryClient) CreateManualOrder(ctx context.Context, req ManualOrderRequest) (uint64, error) {
	var out struct {
		OrderID uint64 `json:"orderId"`
		ID      uint64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/Orders/manual", req, &out); err != nil {
		return 0, err
	}
	if out.OrderID != 0 {
		return out.OrderID, nil
	}
	return out.ID, nil
}

// --- Payments ---

func (c *BakeryClient) CreatePixOrder(ctx context.Context, req PixOrderRequest, idempotencyKey string) (*PixOrderResponse, error) {
	var out PixOrderResponse
	headers := map[string]string{headerIdempotencyKey: idempotencyKey}
	if err := c.doWithHeaders(ctx, http.MethodPost, "/api/orders/pix", req, &out, headers); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CreateCardOrder(ctx context.Context, req CardOrderRequest, idempotencyKey string) (*CardOrderResponse, error) {
	var out CardOrderResponse
	headers := map[string]string{headerIdempotencyKey: idempotencyKey}
	if err := c.doWithHeaders(ctx, http.MethodPost, "/api/orders/credit-card", req, &out, headers); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Coupons ---

func (c *BakeryClient) GetCouponByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var out domain.Coupon
	path := "/api/Coupons/code/" + url.PathEscape(domain.NormalizeCouponCode(code))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) ListCoupons(ctx context.Context, page, pageSize int) (*domain.PagedResult[domain.Coupon], error) {
	var out domain.PagedResult[domain.Coupon]
	path := fmt.Sprintf("/api/Coupons?page=%d&pageSize=%d", page, pageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CreateCoupon(ctx context.Context, req CouponRequest) (*domain.Coupon, error) {
	var out domain.Coupon
	if err := c.do(ctx, http.MethodPost, "/api/Coupons", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) UpdateCoupon(ctx context.Context, id uint64, req CouponRequest) (*domain.Coupon, error) {
	var out domain.Coupon
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Coupons/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) DeleteCoupon(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Coupons/%d", id), nil, nil)
}

// --- Products ---

func (c *BakeryClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/Products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BakeryClient) GetProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/Products/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/Products", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) UpdateProduct(ctx context.Context, id uint64, req ProductRequest) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Products/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) DeleteProduct(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Products/%d", id), nil, nil)
}

func (c *BakeryClient) DeleteProductImage(ctx context.Context, productID, imageID uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Products/%d/delete-image/%d", productID, imageID), nil, nil)
}

func (c *BakeryClient) AddProductStock(ctx context.Context, productID uint64, quantity int) error {
	body := map[string]any{"productId": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/api/ProductStocks/add-quantity", body, nil)
}

func (c *BakeryClient) AdjustProductStock(ctx context.Context, productID uint64, newQuantity int) error {
	body := map[string]any{"productId": productID, "newQuantity": newQuantity}
	return c.do(ctx, http.MethodPost, "/api/ProductStocks/adjust", body, nil)
}

// --- Categories ---

func (c *BakeryClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, http.MethodGet, "/api/Categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BakeryClient) CreateCategory(ctx context.Context, req CategoryRequest) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPost, "/api/Categories", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) UpdateCategory(ctx context.Context, id uint64, req CategoryRequest) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Categories/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) DeleteCategory(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Categories/%d", id), nil, nil)
}

// --- Stock items ---

func (c *BakeryClient) ListStockItems(ctx context.Context, page, pageSize int, search string) (*domain.PagedResult[domain.StockItem], error) {
	params := url.Values{}
	params.Set("Page", strconv.Itoa(page))
	params.Set("PageSize", strconv.Itoa(pageSize))
	if search != "" {
		params.Set("Search", search)
	}
	var out domain.PagedResult[domain.StockItem]
	if err := c.do(ctx, http.MethodGet, "/api/StockItems?"+params.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) GetStockItem(ctx context.Context, id uint64) (*domain.StockItem, error) {
	var out domain.StockItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/StockItems/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CreateStockItem(ctx context.Context, req StockItemRequest) (*domain.StockItem, error) {
	var out domain.StockItem
	if err := c.do(ctx, http.MethodPost, "/api/StockItems", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) UpdateStockItem(ctx context.Context, id uint64, req StockItemRequest) (*domain.StockItem, error) {
	var out domain.StockItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/StockItems/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) DeleteStockItem(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/StockItems/%d", id), nil, nil)
}

func (c *BakeryClient) AddStock(ctx context.Context, id uint64, req StockMovementRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/StockItems/%d/add-stock", id), req, nil)
}

func (c *BakeryClient) RemoveStock(ctx context.Context, id uint64, req StockMovementRequest) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/StockItems/%d/remove-stock", id), req, nil)
}

// --- Recipes ---

func (c *BakeryClient) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	var out []domain.Recipe
	if err := c.do(ctx, http.MethodGet, "/api/Recipes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BakeryClient) GetRecipe(ctx context.Context, id uint64) (*domain.Recipe, error) {
	var out domain.Recipe
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/Recipes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CreateRecipe(ctx context.Context, req RecipeRequest) (*domain.Recipe, error) {
	var out domain.Recipe
	if err := c.do(ctx, http.MethodPost, "/api/Recipes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) UpdateRecipe(ctx context.Context, id uint64, req RecipeRequest) (*domain.Recipe, error) {
	var out domain.Recipe
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/Recipes/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) DeleteRecipe(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Recipes/%d", id), nil, nil)
}

// --- Product sales ---

func (c *BakeryClient) ListProductSales(ctx context.Context, page, pageSize int) (*domain.PagedResult[domain.ProductSale], error) {
	var out domain.PagedResult[domain.ProductSale]
	path := fmt.Sprintf("/api/ProductSales?page=%d&pageSize=%d", page, pageSize)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) GetProductSale(ctx context.Context, id uint64) (*domain.ProductSale, error) {
	var out domain.ProductSale
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/ProductSales/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) CreateProductSale(ctx context.Context, req ProductSaleRequest) (*domain.ProductSale, error) {
	var out domain.ProductSale
	if err := c.do(ctx, http.MethodPost, "/api/ProductSales", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) UpdateProductSale(ctx context.Context, id uint64, req ProductSaleRequest) (*domain.ProductSale, error) {
	var out domain.ProductSale
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/ProductSales/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *BakeryClient) DeleteProductSale(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/ProductSales/%d", id), nil, nil)
}

// --- Streams ---

// OpenStream connects to a backend SSE channel: the per-order stream for a
// numeric channel, or the global new-orders feed.
func (c *BakeryClient) OpenStream(ctx context.Context, channel string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/Orders/stream/"+channel, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream %s returned status %d", channel, resp.StatusCode)
	}
	return resp.Body, nil
}

// Ping hits the lightweight date endpoint; the admin feed uses it as a
// keep-alive while its stream is connected.
func (c *BakeryClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/date", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keep-alive returned status %d", resp.StatusCode)
	}
	return nil
}
