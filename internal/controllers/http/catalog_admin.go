package http

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-service/internal/infra"

	"github.com/gin-gonic/gin"
)

type ProductStockRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) registerCatalogAdmin(admin *gin.RouterGroup) {
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.DELETE("/products/:id/images/:imageId", h.DeleteProductImage)
	admin.POST("/products/:id/stock/add", h.AddProductStock)
	admin.POST("/products/:id/stock/adjust", h.AdjustProductStock)

	admin.POST("/categories", h.CreateCategory)
	admin.PUT("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)

	admin.GET("/coupons", h.ListCoupons)
	admin.POST("/coupons", h.CreateCoupon)
	admin.PUT("/coupons/:id", h.UpdateCoupon)
	admin.DELETE("/coupons/:id", h.DeleteCoupon)

	admin.GET("/stock-items", h.ListStockItems)
	admin.GET("/stock-items/:id", h.GetStockItem)
	admin.POST("/stock-items", h.CreateStockItem)
	admin.PUT("/stock-items/:id", h.UpdateStockItem)
	admin.DELETE("/stock-items/:id", h.DeleteStockItem)
	admin.POST("/stock-items/:id/add", h.AddStock)
	admin.POST("/stock-items/:id/remove", h.RemoveStock)

	admin.GET("/recipes", h.ListRecipes)
	admin.GET("/recipes/:id", h.GetRecipe)
	admin.POST("/recipes", h.CreateRecipe)
	admin.PUT("/recipes/:id", h.UpdateRecipe)
	admin.DELETE("/recipes/:id", h.DeleteRecipe)

	admin.GET("/product-sales", h.ListProductSales)
	admin.GET("/product-sales/:id", h.GetProductSale)
	admin.POST("/product-sales", h.CreateProductSale)
	admin.PUT("/product-sales/:id", h.UpdateProductSale)
	admin.DELETE("/product-sales/:id", h.DeleteProductSale)

	admin.POST("/orders/manual", h.CreateManualOrder)
}

func (h *Handler) upstreamError(c *gin.Context, err error) {
	if errors.Is(err, infra.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.Query("pageSize"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

// --- products ---

func (h *Handler) CreateProduct(c *gin.Context) {
	var req infra.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.catalogClient.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), 0)
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.catalogClient.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), id)
	c.JSON(http.StatusOK, product)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogClient.DeleteProduct(c.Request.Context(), id); err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteProductImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "imageId")
	if !ok {
		return
	}
	if err := h.catalogClient.DeleteProductImage(c.Request.Context(), id, imageID); err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddProductStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ProductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogClient.AddProductStock(c.Request.Context(), id, *req.Quantity); err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

func (h *Handler) AdjustProductStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ProductStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogClient.AdjustProductStock(c.Request.Context(), id, *req.Quantity); err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

// --- categories ---

func (h *Handler) CreateCategory(c *gin.Context) {
	var req infra.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.catalogClient.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), 0)
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category, err := h.catalogClient.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), 0)
	c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogClient.DeleteCategory(c.Request.Context(), id); err != nil {
		h.upstreamError(c, err)
		return
	}
	h.catalog.Invalidate(c.Request.Context(), 0)
	c.Status(http.StatusNoContent)
}

// --- coupons ---

func (h *Handler) ListCoupons(c *gin.Context) {
	page, pageSize := pageParams(c)
	coupons, err := h.coupons.ListCoupons(c.Request.Context(), page, pageSize)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *Handler) CreateCoupon(c *gin.Context) {
	var req infra.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupon, err := h.coupons.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupon, err := h.coupons.UpdateCoupon(c.Request.Context(), id, req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.coupons.DeleteCoupon(c.Request.Context(), id); err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- stock items ---

func (h *Handler) ListStockItems(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, err := h.catalogClient.ListStockItems(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetStockItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.catalogClient.GetStockItem(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateStockItem(c *gin.Context) {
	var req infra.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.catalogClient.CreateStockItem(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateStockItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.StockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.catalogClient.UpdateStockItem(c.Request.Context(), id, req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteStockItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogClient.DeleteStockItem(c.Request.Context(), id); err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) AddStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogClient.AddStock(c.Request.Context(), id, req); err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RemoveStock(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.catalogClient.RemoveStock(c.Request.Context(), id, req); err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- recipes ---

func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.catalogClient.ListRecipes(c.Request.Context())
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.catalogClient.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	var req infra.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recipe, err := h.catalogClient.CreateRecipe(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recipe, err := h.catalogClient.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogClient.DeleteRecipe(c.Request.Context(), id); err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- product sales ---

func (h *Handler) ListProductSales(c *gin.Context) {
	page, pageSize := pageParams(c)
	sales, err := h.catalogClient.ListProductSales(c.Request.Context(), page, pageSize)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}

func (h *Handler) GetProductSale(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sale, err := h.catalogClient.GetProductSale(c.Request.Context(), id)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *Handler) CreateProductSale(c *gin.Context) {
	var req infra.ProductSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sale, err := h.catalogClient.CreateProductSale(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) UpdateProductSale(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req infra.ProductSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sale, err := h.catalogClient.UpdateProductSale(c.Request.Context(), id, req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

func (h *Handler) DeleteProductSale(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogClient.DeleteProductSale(c.Request.Context(), id); err != nil {
		h.upstreamError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- manual orders ---

func (h *Handler) CreateManualOrder(c *gin.Context) {
	var req infra.ManualOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := h.orders.CreateManualOrder(c.Request.Context(), req)
	if err != nil {
		h.upstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orderId": id})
}
