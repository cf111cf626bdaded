package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// operationHandler handles HTTP requests related to posted operations.
type operationHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newOperationHandler(ps portssvc.PostingSvcFacade) *operationHandler {
	return &operationHandler{postingService: ps}
}

// registerOperationRoutes registers the generic posting routes and the template shortcuts.
func registerOperationRoutes(rg *gin.RouterGroup, ps portssvc.PostingSvcFacade) {
	h := newOperationHandler(ps)

	operations := rg.Group("/operations")
	{
		operations.POST("", h.postOperation)
		operations.GET("/:operationID", h.getOperation)
		operations.POST("/:operationID/reverse", h.reverseOperation)
	}

	rg.POST("/fx/trades", h.postFxTrade)
	rg.POST("/payments", h.postPayment)
	rg.POST("/receipts", h.postReceipt)
}

// postOperation godoc
// @Summary Post an operation
// @Description Validates and atomically persists a balanced operation, synthesizing the FX-result line for cross-currency types
// @Tags operations
// @Accept  json
// @Produce  json
// @Param   operation body dto.PostOperationRequest true "Operation and its lines"
// @Success 201 {object} dto.PostedOperationResponse
// @Failure 400 {object} errorResponse "Invalid input or rate"
// @Failure 409 {object} errorResponse "Concurrent modification or duplicate"
// @Failure 422 {object} errorResponse "Unbalanced or capability violation"
// @Security BearerAuth
// @Router /operations [post]
func (h *operationHandler) postOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}
	req.UserID = userID

	posted, err := h.postingService.PostOperation(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to post operation")
		return
	}
	logger.Info("Operation posted", slog.Int64("operation_id", posted.OperationID), slog.String("type_code", req.TypeCode))
	c.JSON(http.StatusCreated, dto.ToPostedOperationResponse(posted))
}

func (h *operationHandler) getOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operationID, err := strconv.ParseInt(c.Param("operationID"), 10, 64)
	if err != nil {
		badRequest(c, logger, "Invalid operation id", err)
		return
	}

	op, err := h.postingService.GetOperation(c.Request.Context(), operationID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve operation")
		return
	}
	c.JSON(http.StatusOK, dto.ToOperationResponse(op))
}

// reverseOperation godoc
// @Summary Reverse an operation
// @Description Posts a new operation with every line of the original flipped
// @Tags operations
// @Produce  json
// @Param   operationID path int true "Operation ID"
// @Param   reversal body dto.ReverseOperationRequest false "Reversal options"
// @Success 201 {object} dto.PostedOperationResponse
// @Failure 404 {object} errorResponse "Operation not found"
// @Failure 409 {object} errorResponse "Already reversed"
// @Security BearerAuth
// @Router /operations/{operationID}/reverse [post]
func (h *operationHandler) reverseOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operationID, err := strconv.ParseInt(c.Param("operationID"), 10, 64)
	if err != nil {
		badRequest(c, logger, "Invalid operation id", err)
		return
	}
	var req dto.ReverseOperationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, logger, "Invalid request format", err)
			return
		}
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}
	req.UserID = userID

	posted, err := h.postingService.ReverseOperation(c.Request.Context(), operationID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse operation")
		return
	}
	logger.Info("Operation reversed", slog.Int64("operation_id", operationID), slog.Int64("reversal_id", posted.OperationID))
	c.JSON(http.StatusCreated, dto.ToPostedOperationResponse(posted))
}

func (h *operationHandler) postFxTrade(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FxTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}
	req.UserID = userID

	posted, err := h.postingService.PostFxTrade(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to post FX trade")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPostedOperationResponse(posted))
}

func (h *operationHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}
	req.UserID = userID

	posted, err := h.postingService.PostPayment(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to post payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPostedOperationResponse(posted))
}

func (h *operationHandler) postReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}
	req.UserID = userID

	posted, err := h.postingService.PostReceipt(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to post receipt")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPostedOperationResponse(posted))
}
