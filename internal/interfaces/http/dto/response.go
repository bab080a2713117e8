package dto

import "github.com/eightysix/analytics/internal/domain/shared"

// Response is the envelope every endpoint returns
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code      string              `json:"code"`
	Number    int                 `json:"number"`
	Message   string              `json:"message"`
	Details   []shared.FieldError `json:"details,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// Meta carries list totals. Page is one-based and derived from the offset.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// NewSuccessResponse wraps data
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewListResponse wraps a page of rows with its total
func NewListResponse(data any, total int64, offset, limit int) Response {
	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}
	return Response{
		Success: true,
		Data:    data,
		Meta:    &Meta{Total: total, Page: page, PageSize: limit},
	}
}

// NewErrorResponse builds a failure envelope for code
func NewErrorResponse(code, message, requestID string, details ...shared.FieldError) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Number:    GetErrorNumber(code),
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	}
}
