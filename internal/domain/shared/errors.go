package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                 = NewDomainError("NOT_FOUND", "Not found.")
	ErrBadRequest               = NewDomainError("BAD_REQUEST", "Bad request.")
	ErrInvalidInput             = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized             = NewDomainError("UNAUTHORIZED", "You do not have permission.")
	ErrForbidden                = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrIncorrectCredentials     = NewDomainError("INCORRECT_CREDENTIALS", "Incorrect username or password.")
	ErrLimitExceeded            = NewDomainError("LIMIT_EXCEEDED", "Attempt limit exceeded, please try after some time.")
	ErrVerificationCodeNotFound = NewDomainError("VERIFICATION_CODE_NOT_FOUND", "Did not recognise the given verification code.")
	ErrNoSupplierID             = NewDomainError("NO_SUPPLIER_ID", "No supplier id specified")
	ErrUniqueEmail              = NewDomainError("UNIQUE_EMAIL_ERROR", "This email is in use with another account.")
	ErrUniqueConstraint         = NewDomainError("UNIQUE_CONSTRAINT_ERROR", "Value already exists")
	ErrInternal                 = NewDomainError("INTERNAL_SERVER_ERROR", "Internal server error")
)

// Entity not-found errors, one per entity type.
var (
	ErrCustomerNotFound    = NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found.")
	ErrProductNotFound     = NewDomainError("PRODUCT_NOT_FOUND", "Product not found.")
	ErrTransactionNotFound = NewDomainError("TRANSACTION_NOT_FOUND", "Transaction not found.")
	ErrUserNotFound        = NewDomainError("USER_NOT_FOUND", "User not found.")
	ErrSupplierNotFound    = NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found.")
	ErrNoteNotFound        = NewDomainError("NOTE_NOT_FOUND", "Note not found.")
	ErrDownloadNotFound    = NewDomainError("DOWNLOAD_NOT_FOUND", "Download not found.")
)

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level details alongside the VALIDATION_ERRORS code.
type ValidationError struct {
	Fields []FieldError
}

// ValidationErrorCode is the code reported for every ValidationError.
const ValidationErrorCode = "VALIDATION_ERRORS"

func (e *ValidationError) Error() string {
	return "Validation errors."
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Add appends a field failure and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// OrNil returns nil when no field failures were collected.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
