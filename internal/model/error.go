package model

// Standard error codes for failures surfaced to callers.
const (
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeOutOfStock      = "OUT_OF_STOCK"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeServerRejected  = "SERVER_REJECTED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError is a business failure with a stable code. Server-reported
// failures ({success:false, message}) carry the server's message verbatim.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUnauthorised    = NewDomainError(ErrCodeUnauthorised, "Session expired or missing, please log in again")
	ErrForbidden       = NewDomainError(ErrCodeForbidden, "You do not have access to this resource")
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
)
