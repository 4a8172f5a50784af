package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	tradeapp "github.com/tradedesk/backend/internal/application/trade"
	"github.com/tradedesk/backend/internal/interfaces/http/router"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService    *tradeapp.OrderService
	workflowService *tradeapp.WorkflowService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, workflowService *tradeapp.WorkflowService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		workflowService: workflowService,
	}
}

// Create godoc
// @Summary      Open an order for a client
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), getTenantID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List godoc
// @Summary      List orders
// @Description  Archived orders are hidden unless include_archived is set
// @Tags         orders
// @Produce      json
// @Param        status query string false "pending, in-progress, completed or cancelled"
// @Param        client_id query string false "Client ID"
// @Param        workflow_type query string false "fast-track or standard"
// @Param        include_archived query bool false "Include archived orders"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse,meta=dto.Meta}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), getTenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, orders, total, filter.Page, filter.PageSize)
}

// Update applies partial changes to an order
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus moves an order to another lifecycle status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), getTenantID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Archive hides an order from the default listing
func (h *OrderHandler) Archive(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Archive(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Restore brings an archived order back
func (h *OrderHandler) Restore(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Restore(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Without hard=true the order is archived. A hard delete removes the order and its documents.
// @Tags         orders
// @Param        id path string true "Order ID"
// @Param        hard query bool false "Remove permanently"
// @Success      204
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	hard := false
	if raw := c.Query("hard"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "hard must be a boolean")
			return
		}
		hard = v
	}

	if err := h.orderService.Delete(c.Request.Context(), getTenantID(c), id, hard); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary returns order counts per status
func (h *OrderHandler) Summary(c *gin.Context) {
	summary, err := h.orderService.Summary(c.Request.Context(), getTenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Workflow returns the step checklist of an order
func (h *OrderHandler) Workflow(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	workflow, err := h.workflowService.ForOrder(c.Request.Context(), getTenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, workflow)
}

// OrderRoutes creates the route group for order endpoints
func OrderRoutes(h *OrderHandler) *router.DomainGroup {
	group := router.NewDomainGroup("orders", "/orders")
	group.GET("/summary", h.Summary)
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)

	// Lifecycle
	group.POST("/:id/status", h.UpdateStatus)
	group.POST("/:id/archive", h.Archive)
	group.POST("/:id/restore", h.Restore)
	group.GET("/:id/workflow", h.Workflow)

	return group
}
