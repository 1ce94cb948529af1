package domain

import "time"

type Category struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProductImage struct {
	ID     uint64 `json:"id"`
	URL    string `json:"url"`
	IsMain bool   `json:"isMain"`
}

type Product struct {
	ID           uint64         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Price        float64        `json:"price"`
	Stock        int            `json:"stock"`
	CategoryID   uint64         `json:"categoryId"`
	CategoryName string         `json:"categoryName"`
	IsActive     bool           `json:"isActive"`
	Images       []ProductImage `json:"images,omitempty"`
}

type StockMovement struct {
	ID               uint64    `json:"id"`
	Lots             int       `json:"lots"`
	QuantityPerLot   float64   `json:"quantityPerLot"`
	MovementQuantity float64   `json:"movementQuantity"`
	TotalCost        float64   `json:"totalCost"`
	CurrentQuantity  float64   `json:"currentQuantity"`
	Reason           string    `json:"reason"`
	Type             string    `json:"type"`
	CreatedAt        time.Time `json:"createdAt"`
}

type OfficialPrice struct {
	ID                   uint64    `json:"id"`
	OfficialPackagePrice float64   `json:"officialPackagePrice"`
	Quantity             float64   `json:"quantity"`
	UnitPrice            float64   `json:"unitPrice"`
	Unit                 float64   `json:"unit"`
	CreatedAt            time.Time `json:"createdAt"`
}

// StockItem is a raw ingredient tracked by the back office.
type StockItem struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	CurrentQuantity float64         `json:"currentQuantity"`
	MinimumQuantity float64         `json:"minimumQuantity"`
	MaximumQuantity float64         `json:"maximumQuantity"`
	CostType        string          `json:"costType"`
	StockMovements  []StockMovement `json:"stockMovements,omitempty"`
	PriceHistory    []OfficialPrice `json:"officialPriceHistory,omitempty"`
}

type RecipeItem struct {
	StockItemID      uint64  `json:"stockItemId"`
	StockItemName    string  `json:"stockItemName"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	CostType         string  `json:"costType"`
	UnitCost         float64 `json:"unitCost"`
	ProportionalCost float64 `json:"proportionalCost"`
}

type Recipe struct {
	ID            uint64       `json:"id"`
	Name          string       `json:"name"`
	YieldQuantity float64      `json:"yieldQuantity"`
	Notes         string       `json:"notes,omitempty"`
	Items         []RecipeItem `json:"items"`
	TotalCost     float64      `json:"totalCost,omitempty"`
}

type ProductSaleLine struct {
	ProductID   uint64  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// ProductSale is an in-person sale recorded by the back office.
type ProductSale struct {
	ID         uint64            `json:"id"`
	Products   []ProductSaleLine `json:"products"`
	TotalPrice float64           `json:"totalPrice"`
	Discount   float64           `json:"discount"`
	CouponCode string            `json:"couponCode,omitempty"`
	Date       time.Time         `json:"date"`
}
