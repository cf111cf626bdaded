package apperrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Posting and settlement failures.
var (
	ErrCapabilityViolation    = errors.New("account capability violation")
	ErrUnbalancedEntry        = errors.New("unbalanced entry")
	ErrInvalidRate            = errors.New("invalid exchange rate")
	ErrInvalidCheque          = errors.New("invalid cheque")
	ErrInvalidTransition      = errors.New("invalid cheque status transition")
	ErrConcurrentModification = errors.New("concurrent modification")
)

// LedgerError carries the context a caller needs to render a failure
// without going back to the store. It unwraps to its Kind.
type LedgerError struct {
	Kind        error
	OperationID int64
	AccountCode string
	Currency    string
	Residual    *decimal.Decimal
	// Constraint names the unique key behind an ErrDuplicate, when known.
	Constraint  string
	Detail      string
}

// New creates a LedgerError of the given kind.
func New(kind error, format string, args ...any) *LedgerError {
	return &LedgerError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *LedgerError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.OperationID != 0 {
		fmt.Fprintf(&b, " (operation %d)", e.OperationID)
	}
	if e.AccountCode != "" {
		fmt.Fprintf(&b, " (account %s)", e.AccountCode)
	}
	if e.Currency != "" {
		fmt.Fprintf(&b, " (currency %s)", e.Currency)
	}
	if e.Residual != nil {
		fmt.Fprintf(&b, " (residual %s)", e.Residual.String())
	}
	return b.String()
}

func (e *LedgerError) Unwrap() error { return e.Kind }

// WithOperation attaches the operation id.
func (e *LedgerError) WithOperation(id int64) *LedgerError {
	e.OperationID = id
	return e
}

// WithAccount attaches the offending account code.
func (e *LedgerError) WithAccount(code string) *LedgerError {
	e.AccountCode = code
	return e
}

// WithCurrency attaches the offending currency code.
func (e *LedgerError) WithCurrency(code string) *LedgerError {
	e.Currency = code
	return e
}

// WithResidual attaches the computed imbalance.
func (e *LedgerError) WithResidual(residual decimal.Decimal) *LedgerError {
	e.Residual = &residual
	return e
}

// WithConstraint attaches the violated unique key.
func (e *LedgerError) WithConstraint(name string) *LedgerError {
	e.Constraint = name
	return e
}

// ConstraintOf returns the unique key carried by err, or "".
func ConstraintOf(err error) string {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Constraint
	}
	return ""
}

// IsRetryable reports whether the caller may transparently retry the request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// AppError wraps an infrastructure failure with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }
