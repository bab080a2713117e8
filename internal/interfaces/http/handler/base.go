// Package handler holds the gin handlers for the API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/infrastructure/logger"
	"github.com/eightysix/analytics/internal/interfaces/http/dto"
	"github.com/eightysix/analytics/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides the response helpers and the error mapping every
// handler shares
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler; a nil logger discards output
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return BaseHandler{logger: logger}
}

// Success sends a 200 with data
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 with data
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// List sends a page of rows with its total. def is the endpoint's default
// page size.
func (h *BaseHandler) List(c *gin.Context, rows any, total int64, params shared.ListParams, def int) {
	c.JSON(http.StatusOK, dto.NewListResponse(rows, total, params.Offset, params.EffectiveLimit(def)))
}

// HandleError maps err onto the error envelope and aborts the request. It is
// the only place a failure becomes a status code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	ctx := c.Request.Context()
	requestID := logger.RequestID(ctx)

	if fields, ok := middleware.FieldErrors(err); ok {
		h.abort(c, dto.ErrCodeValidation, "Validation errors.", requestID, fields...)
		return
	}
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		h.abort(c, shared.ValidationErrorCode, verr.Error(), requestID, verr.Fields...)
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.abort(c, domainErr.Code, domainErr.Message, requestID)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		h.abort(c, dto.ErrCodeValidation, "Validation errors.", requestID, shared.FieldError{
			Field:   typeErr.Field,
			Message: "Must be a " + typeErr.Type.String(),
		})
		return
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		h.abort(c, dto.ErrCodeBadRequest, "Malformed JSON body.", requestID)
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.abort(c, middleware.ErrRequestTooLarge.Code, middleware.ErrRequestTooLarge.Message, requestID)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.Ctx(ctx, h.logger).Warn("Request deadline reached", zap.Error(err))
		h.abort(c, dto.ErrCodeTimeout, "Request timed out.", requestID)
		return
	}

	logger.Ctx(ctx, h.logger).Error("Unhandled error",
		zap.String("route", c.FullPath()),
		zap.Error(err))
	h.abort(c, shared.ErrInternal.Code, shared.ErrInternal.Message, requestID)
}

// Panic answers a recovered panic with the generic internal error
func (h *BaseHandler) Panic(c *gin.Context) {
	h.abort(c, shared.ErrInternal.Code, shared.ErrInternal.Message, logger.RequestID(c.Request.Context()))
}

// NoRoute answers unknown paths with NOT_FOUND
func (h *BaseHandler) NoRoute(c *gin.Context) {
	h.HandleError(c, shared.ErrNotFound)
}

func (h *BaseHandler) abort(c *gin.Context, code, message, requestID string, details ...shared.FieldError) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, requestID, details...))
}

// bindJSON decodes and validates the body into req, answering the request on
// failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.HandleError(c, err)
		return false
	}
	return true
}

// pathID reads a positive integer path parameter. Anything else is reported
// as notFound, since no row can carry that id.
func (h *BaseHandler) pathID(c *gin.Context, name string, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.HandleError(c, notFound)
		return 0, false
	}
	return id, true
}

// actor returns the authenticated caller, answering 401 when there is none
func (h *BaseHandler) actor(c *gin.Context) (access.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok || actor.IsZero() {
		h.HandleError(c, shared.ErrUnauthorized)
		return access.Actor{}, false
	}
	return actor, true
}

func listParams(c *gin.Context) shared.ListParams {
	return shared.ParseListParams(c.Request.URL.Query())
}
