package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kls/internal/core/apperror"
	"kls/internal/domain/reports"
	"kls/internal/domain/supplier"
	"kls/internal/infrastructure/http/v1/dto"
)

// SupplierHandler handles HTTP requests for suppliers and their ledgers.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
	reports *reports.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service, reportService *reports.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service, reports: reportService}
}

// List handles GET /suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), supplier.ListFilter{
		Search: c.Query("search"),
		Page:   h.ParsePage(c),
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.SupplierResponse, len(result.Items))
	for i, s := range result.Items {
		items[i] = dto.FromSupplier(s)
	}
	h.OK(c, dto.ListResponse[dto.SupplierResponse]{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sup, err := h.service.Create(c.Request.Context(), req.ToDetails())
	warning, err := h.Warning(err)
	if err != nil {
		h.Error(c, err)
		return
	}
	resp := dto.FromSupplier(sup)
	resp.PersistenceWarning = warning
	h.Created(c, resp)
}

// Get handles GET /suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := h.ParseID(c)
	if !ok {
		return
	}
	sup, err := h.service.Get(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromSupplier(sup))
}

// Update handles PUT /suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}
	sup, err := h.service.Update(c.Request.Context(), supplierID, req.ToDetails())
	warning, err := h.Warning(err)
	if err != nil {
		h.Error(c, err)
		return
	}
	resp := dto.FromSupplier(sup)
	resp.PersistenceWarning = warning
	h.OK(c, resp)
}

// Delete handles DELETE /suppliers/:id
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := h.ParseID(c)
	if !ok {
		return
	}
	warning, err := h.Warning(h.service.Delete(c.Request.Context(), supplierID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "supplier deleted", warning)
}

// Ledger handles GET /suppliers/:id/ledger?from=dd-mm-yyyy&to=dd-mm-yyyy
func (h *SupplierHandler) Ledger(c *gin.Context) {
	supplierID, ok := h.ParseID(c)
	if !ok {
		return
	}
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		h.Error(c, apperror.NewValidation("from date is after to date").WithDetail("field", "from"))
		return
	}

	sup, statement, err := h.service.Ledger(c.Request.Context(), supplierID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStatement(sup, statement, from, to))
}

// ExportLedger handles GET /suppliers/:id/ledger/export
// Responds with an .xlsx attachment.
func (h *SupplierHandler) ExportLedger(c *gin.Context) {
	supplierID, ok := h.ParseID(c)
	if !ok {
		return
	}
	from, ok := h.ParseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := h.ParseDateQuery(c, "to")
	if !ok {
		return
	}

	export, err := h.reports.ExportLedger(c.Request.Context(), reports.LedgerExportFilter{
		SupplierID: supplierID,
		From:       from,
		To:         to,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// Summary handles GET /suppliers/:id/summary
func (h *SupplierHandler) Summary(c *gin.Context) {
	supplierID, ok := h.ParseID(c)
	if !ok {
		return
	}
	summary, err := h.reports.SupplierSummary(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
