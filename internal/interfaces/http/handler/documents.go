package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/tradedesk/backend/internal/application/trade"
	"github.com/tradedesk/backend/internal/interfaces/http/router"
)

// QuotationHandler handles supplier quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *tradeapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *tradeapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create records a supplier quotation against a standard order
func (h *QuotationHandler) Create(c *gin.Context) {
	var req tradeapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, quotation)
}

// GetByID returns one quotation
func (h *QuotationHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// ListByOrder returns the quotations of the order named by ?order_id
func (h *QuotationHandler) ListByOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Query("order_id"))
	if err != nil {
		h.BadRequest(c, "order_id query parameter is required")
		return
	}

	quotations, err := h.quotationService.ListByOrder(c.Request.Context(), getTenantID(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotations)
}

// UpdateStatus accepts, rejects or expires a quotation
func (h *QuotationHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quotation, err := h.quotationService.UpdateStatus(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotation)
}

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	poService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(poService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{poService: poService}
}

// Create godoc
// @Summary      Issue a purchase order to a supplier
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} dto.Response{data=tradeapp.PurchaseOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.poService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, po)
}

// GetByID returns one purchase order
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	po, err := h.poService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// List returns a page of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var filter tradeapp.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	pos, total, err := h.poService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, pos, total, filter.Page, filter.PageSize)
}

func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.poService.AddItem(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "item_id")
	if !ok {
		return
	}
	var req tradeapp.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.poService.UpdateItem(c.Request.Context(), getTenantID(c), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "item_id")
	if !ok {
		return
	}

	po, err := h.poService.RemoveItem(c.Request.Context(), getTenantID(c), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// Send issues a draft purchase order to the supplier
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	h.transition(c, h.poService.Send)
}

func (h *PurchaseOrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.poService.Confirm)
}

// Receive marks the goods as delivered
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	h.transition(c, h.poService.Receive)
}

func (h *PurchaseOrderHandler) transition(c *gin.Context, step func(ctx context.Context, tenantID, id uuid.UUID) (*tradeapp.PurchaseOrderResponse, error)) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	po, err := step(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// RecordPayment records a payment to the supplier
func (h *PurchaseOrderHandler) RecordPayment(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	po, err := h.poService.RecordPayment(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, po)
}

// InvoiceHandler handles sales invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *tradeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @Summary      Invoice a client
// @Description  Commission defaults to the order's rate when omitted
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateInvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=tradeapp.InvoiceResponse}
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req tradeapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID returns one invoice
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns a page of invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter tradeapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, invoices, total, filter.Page, filter.PageSize)
}

func (h *InvoiceHandler) AddItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.AddItem(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "item_id")
	if !ok {
		return
	}
	var req tradeapp.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateItem(c.Request.Context(), getTenantID(c), id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseID(c, "item_id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.RemoveItem(c.Request.Context(), getTenantID(c), id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// UpdateCommission changes the commission rate of a draft invoice
func (h *InvoiceHandler) UpdateCommission(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateCommission(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateStatus(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// RecordPayment records a client payment against a sent invoice
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// ShippingHandler handles shipping invoice endpoints
type ShippingHandler struct {
	BaseHandler
	shippingService *tradeapp.ShippingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService *tradeapp.ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// Create builds a shipping invoice from the items of a sales invoice
func (h *ShippingHandler) Create(c *gin.Context) {
	var req tradeapp.CreateShippingInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	shipment, err := h.shippingService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, shipment)
}

func (h *ShippingHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	shipment, err := h.shippingService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

func (h *ShippingHandler) List(c *gin.Context) {
	var filter tradeapp.ShippingListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	shipments, total, err := h.shippingService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, shipments, total, filter.Page, filter.PageSize)
}

// CalculatorHandler serves the stateless totals calculator
type CalculatorHandler struct {
	BaseHandler
	calculator *tradeapp.CalculatorService
}

// NewCalculatorHandler creates a new CalculatorHandler
func NewCalculatorHandler(calculator *tradeapp.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculator: calculator}
}

// Totals godoc
// @Summary      Preview document totals
// @Description  With clamp=true out-of-range quantities and prices are corrected instead of rejected
// @Tags         calculations
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CalculateTotalsRequest true "Items and commission"
// @Success      200 {object} dto.Response{data=tradeapp.TotalsResponse}
// @Router       /calculations/totals [post]
func (h *CalculatorHandler) Totals(c *gin.Context) {
	var req tradeapp.CalculateTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	totals, err := h.calculator.Totals(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// QuotationRoutes creates the route group for quotation endpoints
func QuotationRoutes(h *QuotationHandler) *router.DomainGroup {
	group := router.NewDomainGroup("quotations", "/quotations")
	group.POST("", h.Create)
	group.GET("", h.ListByOrder)
	group.GET("/:id", h.GetByID)
	group.POST("/:id/status", h.UpdateStatus)
	return group
}

// PurchaseOrderRoutes creates the route group for purchase order endpoints
func PurchaseOrderRoutes(h *PurchaseOrderHandler) *router.DomainGroup {
	group := router.NewDomainGroup("purchase-orders", "/purchase-orders")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)

	// Items (draft only)
	group.POST("/:id/items", h.AddItem)
	group.PUT("/:id/items/:item_id", h.UpdateItem)
	group.DELETE("/:id/items/:item_id", h.RemoveItem)

	group.POST("/:id/send", h.Send)
	group.POST("/:id/confirm", h.Confirm)
	group.POST("/:id/receive", h.Receive)
	group.POST("/:id/payments", h.RecordPayment)
	return group
}

// InvoiceRoutes creates the route group for sales invoice endpoints
func InvoiceRoutes(h *InvoiceHandler) *router.DomainGroup {
	group := router.NewDomainGroup("invoices", "/invoices")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)

	group.POST("/:id/items", h.AddItem)
	group.PUT("/:id/items/:item_id", h.UpdateItem)
	group.DELETE("/:id/items/:item_id", h.RemoveItem)
	group.PUT("/:id/commission", h.UpdateCommission)

	group.POST("/:id/status", h.UpdateStatus)
	group.POST("/:id/payments", h.RecordPayment)
	return group
}

// ShippingRoutes creates the route group for shipping invoice endpoints
func ShippingRoutes(h *ShippingHandler) *router.DomainGroup {
	group := router.NewDomainGroup("shipping-invoices", "/shipping-invoices")
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	return group
}

// CalculatorRoutes creates the route group for calculation endpoints
func CalculatorRoutes(h *CalculatorHandler) *router.DomainGroup {
	group := router.NewDomainGroup("calculations", "/calculations")
	group.POST("/totals", h.Totals)
	return group
}
