// Package handler contains the HTTP handlers of the document API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/shared"
	"github.com/profitmap/docflow/internal/infrastructure/logger"
	"github.com/profitmap/docflow/internal/interfaces/http/dto"
	"github.com/profitmap/docflow/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize, totalPages int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize, totalPages))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, "", message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError reports a request that could not be bound. Validation failures list
// the offending fields.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed",
			middleware.GetRequestID(c),
			details,
		))
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON: "+err.Error())
		return
	}
	h.BadRequest(c, err.Error())
}

// HandleError converts an error into an HTTP response. Domain errors keep their
// code and category. Unknown errors are logged and reported as 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.respond(c, nil, err)
}

// Respond writes data, or the error when one is set. A partial failure writes
// both with 207 Multi-Status.
func (h *BaseHandler) Respond(c *gin.Context, successStatus int, data any, err error) {
	if err == nil {
		c.JSON(successStatus, dto.NewSuccessResponse(data))
		return
	}
	h.respond(c, data, err)
}

func (h *BaseHandler) respond(c *gin.Context, data any, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		statusCode := dto.GetHTTPStatus(domainErr.Code, domainErr.Category)
		if dto.IsPartialFailure(domainErr.Category) && data != nil {
			logger.GetGinLogger(c).Warn("partial failure", zap.String("code", domainErr.Code), zap.Error(err))
			c.JSON(statusCode, dto.NewPartialResponse(data, domainErr.Code, domainErr.Category, domainErr.Message, requestID))
			return
		}
		if statusCode >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		c.JSON(statusCode, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Category, domainErr.Message, requestID))
		return
	}

	logger.GetGinLogger(c).Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"",
		"An unexpected error occurred",
		requestID,
	))
}

// uuidParam parses a UUID path parameter, writing a 400 response when malformed
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
