package infra

// Request and response bodies exchanged with the bakery backend. Field
// names mirror the backend contracts exactly; the payment endpoints answer
// in snake_case while the rest of the API is camelCase.

type OrderItemRequest struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PixOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	PhoneNumber   string             `json:"phoneNumber"`
	Address       string             `json:"address"`
	Number        string             `json:"number"`
	Complement    string             `json:"complement"`
	City          string             `json:"city"`
	Neighborhood  string             `json:"neighborhood"`
	ZipCode       string             `json:"zipCode"`
	SaleType      string             `json:"saleType"`
	Notes         string             `json:"notes"`
	PaymentMethod string             `json:"paymentMethod"`
	CouponCode    *string            `json:"couponCode"`
	Items         []OrderItemRequest `json:"items"`
}

type PixOrderResponse struct {
	OrderID      uint64  `json:"order_id"`
	OrderName    string  `json:"order_name"`
	QrCode       string  `json:"qr_code"`
	QrCodeBase64 string  `json:"qr_code_base64"`
	ShippingCost float64 `json:"shipping_cost"`
	TotalAmount  float64 `json:"total_amount"`
}

type CardOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	PhoneNumber   string             `json:"phoneNumber"`
	Address       string             `json:"address"`
	Number        string             `json:"number"`
	Complement    string             `json:"complement"`
	City          string             `json:"city"`
	Neighborhood  string             `json:"neighborhood"`
	ZipCode       string             `json:"zipCode"`
	SaleType      string             `json:"saleType"`
	Notes         string             `json:"notes"`
	PaymentMethod string             `json:"paymentMethod"`
	CouponCode    *string            `json:"couponCode"`
	Items         []OrderItemRequest `json:"items"`
	CardToken     string             `json:"cardToken"`
	Installments  int                `json:"installments"`
	CardholderName string            `json:"cardholderName"`
}

type CardOrderResponse struct {
	OrderID     uint64  `json:"order_id"`
	Status      string  `json:"status"`
	Message     string  `json:"message,omitempty"`
	TotalAmount float64 `json:"total_amount"`
}

type ManualOrderRequest struct {
	CustomerName  string             `json:"customerName"`
	PhoneNumber   string             `json:"phoneNumber"`
	PaymentMethod string             `json:"paymentMethod"`
	SaleType      string             `json:"saleType"`
	Notes         string             `json:"notes"`
	Items         []OrderItemRequest `json:"items"`
}

type CouponRequest struct {
	Code      string  `json:"code,omitempty"`
	Type      string  `json:"type,omitempty"`
	Value     float64 `json:"value,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
	ExpiresAt string  `json:"expiresAt,omitempty"`
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  uint64  `json:"categoryId"`
	IsActive    bool    `json:"isActive"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type StockItemRequest struct {
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	MinimumQuantity float64 `json:"minimumQuantity"`
	MaximumQuantity float64 `json:"maximumQuantity"`
	CostType        string  `json:"costType"`
}

type StockMovementRequest struct {
	Lots           int     `json:"lots"`
	QuantityPerLot float64 `json:"quantityPerLot"`
	TotalCost      float64 `json:"totalCost"`
}

type RecipeItemRequest struct {
	StockItemID uint64  `json:"stockItemId"`
	Quantity    float64 `json:"quantity"`
}

type RecipeRequest struct {
	Name          string              `json:"name"`
	YieldQuantity float64             `json:"yieldQuantity"`
	Notes         string              `json:"notes"`
	Items         []RecipeItemRequest `json:"items"`
}

type ProductSaleRequest struct {
	Products   []OrderItemRequest `json:"products"`
	TotalPrice float64            `json:"totalPrice"`
	CouponCode string             `json:"couponCode,omitempty"`
}
