package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	"storefront-service/internal/repository"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cart     *services.CartService
	checkout *services.CheckoutService
	orders   *services.OrderService
	feed     *services.AdminFeed
	catalog  *services.CatalogService

	catalogClient infra.CatalogClientInterface
	coupons       infra.CouponsClientInterface
}

func NewHandler(cart *services.CartService, checkout *services.CheckoutService, orders *services.OrderService, feed *services.AdminFeed, catalog *services.CatalogService, catalogClient infra.CatalogClientInterface, coupons infra.CouponsClientInterface) *Handler {
	return &Handler{
		cart:          cart,
		checkout:      checkout,
		orders:        orders,
		feed:          feed,
		catalog:       catalog,
		catalogClient: catalogClient,
		coupons:       coupons,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// storefront
	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/categories", h.ListCategories)

	api.GET("/cart/:cartId", h.GetCart)
	api.POST("/cart/:cartId/items", h.AddToCart)
	api.PUT("/cart/:cartId/items/:productId", h.SetQuantity)
	api.DELETE("/cart/:cartId/items/:productId", h.RemoveFromCart)
	api.DELETE("/cart/:cartId", h.ClearCart)

	api.GET("/cart/:cartId/coupon/:code", h.QuoteCoupon)
	api.POST("/checkout/pix", h.CheckoutPix)
	api.POST("/checkout/credit-card", h.CheckoutCard)
	api.GET("/checkout/pix/:orderId", h.PixSnapshot)

	api.GET("/orders/:id", h.GetOrder)
	api.GET("/orders/:id/status", h.OrderStatus)
	api.POST("/orders/:id/cancel", h.CancelOrder)
	api.GET("/orders/:id/stream", h.StreamOrder)

	// back office
	admin := api.Group("/admin")
	admin.GET("/orders", h.ListOrders)
	admin.GET("/orders/new", h.NewOrders)
	admin.POST("/orders/:id/:transition", h.TransitionOrder)
	admin.GET("/alerts", h.Alerts)
	admin.POST("/alerts/:id/accept", h.AcceptAlert)
	admin.POST("/alerts/:id/cancel", h.CancelAlert)
	admin.GET("/stream", h.StreamAdmin)
	admin.GET("/stream/status", h.AdminStreamStatus)

	h.registerCatalogAdmin(admin)
}

func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return 0, false
	}
	return id, true
}

// --- storefront: catalog ---

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, infra.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

// --- storefront: cart ---

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cart.Get(c.Request.Context(), c.Param("cartId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.cart.Add(c.Request.Context(), c.Param("cartId"), req.Product, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) SetQuantity(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.cart.SetQuantity(c.Request.Context(), c.Param("cartId"), productID, *req.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrQuantityTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	cart, err := h.cart.Remove(c.Request.Context(), c.Param("cartId"), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(cart))
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), c.Param("cartId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- storefront: checkout ---

func (h *Handler) QuoteCoupon(c *gin.Context) {
	quote, err := h.checkout.QuoteCoupon(c.Request.Context(), c.Param("cartId"), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCouponNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrCouponExpired), errors.Is(err, domain.ErrCouponInactive):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, quote)
}

func customerFromRequest(req CheckoutRequest) services.CustomerInfo {
	return services.CustomerInfo{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		Number:        req.Number,
		Complement:    req.Complement,
		City:          req.City,
		Neighborhood:  req.Neighborhood,
		ZipCode:       req.ZipCode,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		CouponCode:    req.CouponCode,
	}
}

func (h *Handler) checkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMissingField),
		errors.Is(err, services.ErrCouponNotFound),
		errors.Is(err, domain.ErrCouponExpired),
		errors.Is(err, domain.ErrCouponInactive):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func (h *Handler) CheckoutPix(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.checkout.CheckoutPix(c.Request.Context(), req.CartID, customerFromRequest(req))
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) CheckoutCard(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CardToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardToken required"})
		return
	}
	card := services.CardInfo{
		Token:          req.CardToken,
		Installments:   req.Installments,
		CardholderName: req.CardholderName,
	}
	resp, err := h.checkout.CheckoutCard(c.Request.Context(), req.CartID, customerFromRequest(req), card)
	if err != nil {
		h.checkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) PixSnapshot(c *gin.Context) {
	orderID, ok := parseID(c, "orderId")
	if !ok {
		return
	}
	snap, err := h.checkout.PixSnapshot(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pix data not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// --- storefront: order tracking ---

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) OrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	orderStatus, paymentStatus, connected, tracked := h.orders.Status(id)
	if !tracked {
		order, err := h.orders.GetOrder(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		orderStatus, paymentStatus = order.OrderStatusID, order.PaymentStatusID
	}
	c.JSON(http.StatusOK, OrderStatusResponse{
		OrderStatus:   int(orderStatus),
		OrderLabel:    orderStatus.String(),
		PaymentStatus: int(paymentStatus),
		PaymentLabel:  paymentStatus.String(),
		Progress:      orderStatus.Progress(),
		CanCancel:     orderStatus.CanCancel(),
		Connected:     connected,
	})
}

func (h *Handler) CancelOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Cancel(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, services.ErrCannotCancel):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"canceled": true})
}

// StreamOrder relays the order's status events to the browser as SSE.
func (h *Handler) StreamOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ch, cancel, err := h.orders.Subscribe(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, services.ErrOrderCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent(domain.EventOrderStatusChanged, ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// --- back office ---

func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	q := repository.OrderListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	if raw := c.Query("orderStatus"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			status := domain.OrderStatus(v)
			q.OrderStatus = &status
		}
	}
	if raw := c.Query("paymentStatus"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			status := domain.PaymentStatus(v)
			q.PaymentStatus = &status
		}
	}

	result, err := h.orders.ListOrders(q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) NewOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.feed.NewOrders())
}

func (h *Handler) TransitionOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.AdminTransition(c.Request.Context(), id, c.Param("transition")); err != nil {
		if errors.Is(err, services.ErrUnknownTransition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Alerts(c *gin.Context) {
	c.JSON(http.StatusOK, AlertsResponse{
		Alerting: h.feed.Alerting(),
		Pending:  h.feed.PendingAlerts(),
	})
}

func (h *Handler) AcceptAlert(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.feed.AcceptOrder(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CancelAlert(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.feed.CancelOrder(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// StreamAdmin relays the global new-orders feed to the dashboard.
func (h *Handler) StreamAdmin(c *gin.Context) {
	ch, cancel := h.feed.Attach()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) AdminStreamStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.feed.ConnectionStatus()})
}
