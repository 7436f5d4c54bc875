// Package handlers provides HTTP request handlers.
package handlers

import (
	"github.com/gin-gonic/gin"

	"kls/internal/core/clock"
	"kls/internal/domain/filter"
	"kls/internal/domain/purchase"
	"kls/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles HTTP requests for purchase orders.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// List handles GET /purchases
// Query: status, period, search, supplier, expr, limit, offset.
func (h *PurchaseHandler) List(c *gin.Context) {
	var status purchase.Status
	if q := c.Query("status"); q != "" && q != "all" {
		var err error
		if status, err = purchase.ParseStatus(q); err != nil {
			h.Error(c, err)
			return
		}
	}
	period, err := filter.ParsePeriod(c.Query("period"))
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.ListOrders(c.Request.Context(), purchase.ListFilter{
		Status:   status,
		Period:   period,
		Search:   c.Query("search"),
		Supplier: c.Query("supplier"),
		Expr:     c.Query("expr"),
		Page:     h.ParsePage(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	now := h.Now()
	items := make([]dto.PurchaseResponse, len(result.Items))
	for i, o := range result.Items {
		items[i] = dto.FromOrder(o, now)
	}
	h.OK(c, dto.ListResponse[dto.PurchaseResponse]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /purchases
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput(h.Today())
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), in)
	warning, err := h.Warning(err)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromOrder(order, h.Now())
	resp.PersistenceWarning = warning
	h.Created(c, resp)
}

// NextNumber handles GET /purchases/next-number
func (h *PurchaseHandler) NextNumber(c *gin.Context) {
	number, err := h.service.NextNumber(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NextNumberResponse{OrderNumber: number, Date: clock.Format(h.Today())})
}

// Get handles GET /purchases/:id
func (h *PurchaseHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}
	order, err := h.service.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromOrder(order, h.Now()))
}

// Delete handles DELETE /purchases/:id
func (h *PurchaseHandler) Delete(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}
	warning, err := h.Warning(h.service.DeleteOrder(c.Request.Context(), orderID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "purchase order deleted", warning)
}

// AddPayment handles POST /purchases/:id/payments
func (h *PurchaseHandler) AddPayment(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.AddPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput(h.Today())
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.AddPayment(c.Request.Context(), orderID, in)
	warning, err := h.Warning(err)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromOrder(order, h.Now())
	resp.PersistenceWarning = warning
	h.OK(c, resp)
}
