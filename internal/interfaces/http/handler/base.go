package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"github.com/tradedesk/backend/internal/infrastructure/logger"
	"github.com/tradedesk/backend/internal/interfaces/http/dto"
	"github.com/tradedesk/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTenantID returns the tenant resolved by the tenant middleware, or the
// default tenant when the middleware is not installed.
func getTenantID(c *gin.Context) uuid.UUID {
	if id := middleware.GetTenantID(c); id != uuid.Nil {
		return id
	}
	return middleware.DefaultTenantID
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Page sends a list response, reporting the page the repository actually served
func (h *BaseHandler) Page(c *gin.Context, data any, total int64, page, pageSize int) {
	f := shared.Filter{Page: page, PageSize: pageSize}.Normalize()
	h.SuccessWithMeta(c, data, total, f.Page, f.PageSize)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, details []dto.ValidationDetail) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		middleware.GetRequestID(c),
		details,
	))
}

// BindError answers a failed ShouldBind call. Validator failures carry
// per-field details, anything else is malformed input.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); len(details) > 0 {
		h.ValidationError(c, details)
		return
	}
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
}

// ParseID reads a UUID path parameter. On failure the response is already
// written and ok is false.
func (h *BaseHandler) ParseID(c *gin.Context, param string) (id uuid.UUID, ok bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, fmt.Sprintf("invalid %s", param))
		return uuid.Nil, false
	}
	return id, true
}

// HandleError is a generic error handler that handles both domain and standard errors
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		resp := dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID)
		resp.Error.Details = ruleDetails(err)
		c.JSON(dto.DomainErrorStatus(domainErr.Code), resp)
		return
	}

	logger.GetGinLogger(c).Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

// ruleDetails points the client at the offending field of typed rule errors
func ruleDetails(err error) []dto.ValidationDetail {
	var lineErr *trade.InvalidLineItemError
	if errors.As(err, &lineErr) {
		field := lineErr.Field
		if lineErr.Index >= 0 {
			field = fmt.Sprintf("items[%d].%s", lineErr.Index, lineErr.Field)
		}
		return []dto.ValidationDetail{{
			Field:   field,
			Message: fmt.Sprintf("Must be at least %s", lineErr.Minimum),
		}}
	}

	var entryErr *finance.InvalidEntryError
	if errors.As(err, &entryErr) {
		return []dto.ValidationDetail{{
			Field:   fmt.Sprintf("entries[%d]", entryErr.Index),
			Message: entryErr.Reason,
		}}
	}

	var unbalanced *finance.UnbalancedEntryError
	if errors.As(err, &unbalanced) {
		return []dto.ValidationDetail{{
			Field:   "entries",
			Message: fmt.Sprintf("difference %s", unbalanced.Difference.StringFixed(2)),
		}}
	}
	return nil
}
