package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"kls/internal/core/apperror"
	"kls/internal/core/clock"
	"kls/internal/core/id"
	"kls/internal/domain"
	"kls/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct {
	clock clock.Clock
}

// NewBaseHandler creates a new base handler. The clock decides "today" for
// forms that omit a date.
func NewBaseHandler(clk clock.Clock) *BaseHandler {
	return &BaseHandler{clock: clk}
}

// Now returns the handler clock's time.
func (h *BaseHandler) Now() time.Time {
	return h.clock.Now()
}

// Today returns the start of the current day.
func (h *BaseHandler) Today() time.Time {
	return clock.Today(h.clock)
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (id.ID, bool) {
	parsed, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("id", c.Param("id")))
		return id.ID{}, false
	}
	return parsed, true
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParsePage reads limit and offset.
func (h *BaseHandler) ParsePage(c *gin.Context) domain.Page {
	return domain.Page{
		Limit:  h.ParseIntQuery(c, "limit", domain.DefaultLimit),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}
}

// ParseDateQuery parses an optional dd-mm-yyyy query parameter.
// A missing parameter yields the zero time.
func (h *BaseHandler) ParseDateQuery(c *gin.Context, key string) (time.Time, bool) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return time.Time{}, true
	}
	t, err := clock.Parse(val)
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()).WithDetail("field", key))
		return time.Time{}, false
	}
	return t, true
}

// Warning splits a service error into a persistence warning, which the
// caller still answers with success, and a real failure.
func (h *BaseHandler) Warning(err error) (*dto.ErrorBody, error) {
	if err == nil {
		return nil, nil
	}
	if apperror.IsPersistence(err) {
		appErr, _ := apperror.AsAppError(err)
		return dto.NewErrorBody(appErr), nil
	}
	return nil, err
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string, warning *dto.ErrorBody) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message, PersistenceWarning: warning})
}
