package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// dateLayout is the format of date query parameters.
const dateLayout = "2006-01-02"

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error       string  `json:"error"`
	Kind        string  `json:"kind,omitempty"`
	OperationID int64   `json:"operationID,omitempty"`
	AccountCode string  `json:"accountCode,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Residual    *string `json:"residual,omitempty"`
	Retryable   bool    `json:"retryable,omitempty"`
}

type errorKind struct {
	err    error
	status int
	name   string
}

// errorKinds is checked in order; the first kind err matches wins.
var errorKinds = []errorKind{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperrors.ErrValidation, http.StatusBadRequest, "validation"},
	{apperrors.ErrInvalidRate, http.StatusBadRequest, "invalid_rate"},
	{apperrors.ErrInvalidCheque, http.StatusBadRequest, "invalid_cheque"},
	{apperrors.ErrCapabilityViolation, http.StatusUnprocessableEntity, "capability_violation"},
	{apperrors.ErrUnbalancedEntry, http.StatusUnprocessableEntity, "unbalanced_entry"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{apperrors.ErrDuplicate, http.StatusConflict, "duplicate"},
	{apperrors.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
}

// respondError writes the status and body matching err. Unknown errors are
// logged and reported as a generic 500 carrying fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		body := errorResponse{Error: err.Error(), Kind: k.name, Retryable: apperrors.IsRetryable(err)}
		var le *apperrors.LedgerError
		if errors.As(err, &le) {
			body.OperationID = le.OperationID
			body.AccountCode = le.AccountCode
			body.Currency = le.Currency
			if le.Residual != nil {
				r := le.Residual.String()
				body.Residual = &r
			}
		}
		logger.Warn(fallback, slog.String("error", err.Error()), slog.String("kind", k.name))
		c.JSON(k.status, body)
		return
	}

	logger.Error(fallback, slog.String("error", err.Error()))
	status := http.StatusInternalServerError
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
		status = appErr.Code
	}
	c.JSON(status, errorResponse{Error: fallback})
}

func badRequest(c *gin.Context, logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg + ": " + err.Error(), Kind: "validation"})
}

// asOfParam reads the asOf query parameter, defaulting to today in UTC.
func asOfParam(c *gin.Context) (time.Time, error) {
	raw := c.Query("asOf")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}
