package handlers

import (
	"github.com/gin-gonic/gin"

	"kls/internal/domain/reports"
)

// ReportHandler serves read-only reports.
type ReportHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(base *BaseHandler, service *reports.Service) *ReportHandler {
	return &ReportHandler{BaseHandler: base, service: service}
}

// Credit handles GET /reports/credit
func (h *ReportHandler) Credit(c *gin.Context) {
	summary, err := h.service.CreditSummary(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}
