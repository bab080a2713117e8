package dto

import "net/http"

// Codes produced by the HTTP layer itself. Domain codes pass through as-is.
const (
	ErrCodeInternal     = "INTERNAL_SERVER_ERROR"
	ErrCodeValidation   = "VALIDATION_ERRORS"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTimeout      = "REQUEST_TIMEOUT"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// ErrorCodeInfo is the HTTP status and stable numeric code for an error code
type ErrorCodeInfo struct {
	Status int
	Number int
}

// ErrorCodes maps every known error code to its status and number. Clients
// key on the number, so numbers never change once published.
var ErrorCodes = map[string]ErrorCodeInfo{
	"BAD_REQUEST":                 {http.StatusBadRequest, 4000},
	"INVALID_INPUT":               {http.StatusBadRequest, 4000},
	"VERIFICATION_CODE_NOT_FOUND": {http.StatusBadRequest, 4002},
	"NO_SUPPLIER_ID":              {http.StatusBadRequest, 4005},
	"UNAUTHORIZED":                {http.StatusUnauthorized, 4010},
	"INCORRECT_CREDENTIALS":       {http.StatusUnauthorized, 4011},
	"FORBIDDEN":                   {http.StatusForbidden, 4030},
	"NOT_FOUND":                   {http.StatusNotFound, 4040},
	"CUSTOMER_NOT_FOUND":          {http.StatusNotFound, 4041},
	"TRANSACTION_NOT_FOUND":       {http.StatusNotFound, 4042},
	"USER_NOT_FOUND":              {http.StatusNotFound, 4043},
	"PRODUCT_NOT_FOUND":           {http.StatusNotFound, 4043},
	"SUPPLIER_NOT_FOUND":          {http.StatusNotFound, 4044},
	"NOTE_NOT_FOUND":              {http.StatusNotFound, 4045},
	"DOWNLOAD_NOT_FOUND":          {http.StatusNotFound, 4046},
	"REQUEST_TOO_LARGE":           {http.StatusRequestEntityTooLarge, 4130},
	"VALIDATION_ERRORS":           {http.StatusUnprocessableEntity, 4220},
	"UNIQUE_EMAIL_ERROR":          {http.StatusUnprocessableEntity, 4221},
	"UNIQUE_CONSTRAINT_ERROR":     {http.StatusUnprocessableEntity, 4222},
	"LIMIT_EXCEEDED":              {http.StatusTooManyRequests, 4290},
	"INTERNAL_SERVER_ERROR":       {http.StatusInternalServerError, 5000},
	"REQUEST_TIMEOUT":             {http.StatusGatewayTimeout, 5040},
}

// GetHTTPStatus returns the HTTP status for code, or 500 for unknown codes
func GetHTTPStatus(code string) int {
	if info, ok := ErrorCodes[code]; ok {
		return info.Status
	}
	return http.StatusInternalServerError
}

// GetErrorNumber returns the numeric code for code, or 5000 for unknown codes
func GetErrorNumber(code string) int {
	if info, ok := ErrorCodes[code]; ok {
		return info.Number
	}
	return ErrorCodes[ErrCodeInternal].Number
}
