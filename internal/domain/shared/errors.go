package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")

	ErrItemNotFound               = NewDomainError("ITEM_NOT_FOUND", "Inventory item not found")
	ErrWarehouseNotFound          = NewDomainError("WAREHOUSE_NOT_FOUND", "Warehouse not found")
	ErrDuplicateItemCode          = NewDomainError("DUPLICATE_ITEM_CODE", "Item code already exists in this warehouse")
	ErrInvalidQuantity            = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrInvalidTransactionType     = NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	ErrUnsupportedValuationMethod = NewDomainError("UNSUPPORTED_VALUATION_METHOD", "Unsupported valuation method")
)

// InsufficientStockError is raised when a debit or reservation exceeds the
// available quantity. It names the offending item and the requested versus
// available quantities so multi-line callers can report which line failed.
type InsufficientStockError struct {
	ItemCode  string
	Requested string
	Available string
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %s, available %s", e.ItemCode, e.Requested, e.Available)
}

// Code returns the domain error code
func (e *InsufficientStockError) Code() string {
	return "INSUFFICIENT_STOCK"
}

// NewInsufficientStockError creates a new InsufficientStockError
func NewInsufficientStockError(itemCode, requested, available string) *InsufficientStockError {
	return &InsufficientStockError{
		ItemCode:  itemCode,
		Requested: requested,
		Available: available,
	}
}

// TransferStateError is raised when a transfer operation is attempted in a
// state that does not allow it (e.g. receiving a transfer that was never shipped).
type TransferStateError struct {
	TransferNumber string
	Current        string
	Attempted      string
}

// Error implements the error interface
func (e *TransferStateError) Error() string {
	return fmt.Sprintf("transfer %s cannot move from %s to %s", e.TransferNumber, e.Current, e.Attempted)
}

// Code returns the domain error code
func (e *TransferStateError) Code() string {
	return "TRANSFER_STATE_ERROR"
}

// NewTransferStateError creates a new TransferStateError
func NewTransferStateError(transferNumber, current, attempted string) *TransferStateError {
	return &TransferStateError{
		TransferNumber: transferNumber,
		Current:        current,
		Attempted:      attempted,
	}
}
