package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// chequeHandler handles HTTP requests related to discounted cheques.
type chequeHandler struct {
	chequeService portssvc.ChequeSvcFacade
}

func newChequeHandler(cs portssvc.ChequeSvcFacade) *chequeHandler {
	return &chequeHandler{chequeService: cs}
}

func registerChequeRoutes(rg *gin.RouterGroup, cs portssvc.ChequeSvcFacade) {
	h := newChequeHandler(cs)

	cheques := rg.Group("/cheques")
	{
		cheques.POST("", h.discountCheque)
		cheques.GET("", h.listCheques)
		cheques.GET("/:chequeID", h.getCheque)
		cheques.POST("/:chequeID/transitions", h.transitionCheque)
	}
}

// discountCheque godoc
// @Summary Discount a cheque
// @Description Buys a cheque from a party, posting CHEQUE_BUY and registering the cheque as pending
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   cheque body dto.DiscountChequeRequest true "Cheque and discount terms"
// @Success 201 {object} dto.ChequeDiscountResponse
// @Failure 400 {object} errorResponse "Invalid cheque"
// @Security BearerAuth
// @Router /cheques [post]
func (h *chequeHandler) discountCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DiscountChequeRequest
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

	cheque, posted, err := h.chequeService.DiscountCheque(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to discount cheque")
		return
	}
	logger.Info("Cheque discounted", slog.Int64("cheque_id", cheque.ChequeID), slog.String("net_amount", cheque.NetAmount.String()))
	c.JSON(http.StatusCreated, dto.ChequeDiscountResponse{
		Cheque:    cheque,
		Operation: dto.ToPostedOperationResponse(posted),
	})
}

func (h *chequeHandler) getCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID, err := strconv.ParseInt(c.Param("chequeID"), 10, 64)
	if err != nil {
		badRequest(c, logger, "Invalid cheque id", err)
		return
	}
	cheque, err := h.chequeService.GetCheque(c.Request.Context(), chequeID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve cheque")
		return
	}
	c.JSON(http.StatusOK, cheque)
}

func (h *chequeHandler) listCheques(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var status *domain.ChequeStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.ChequeStatus(raw)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "Unknown cheque status " + raw, Kind: "validation"})
			return
		}
		status = &s
	}
	cheques, err := h.chequeService.ListCheques(c.Request.Context(), status)
	if err != nil {
		respondError(c, logger, err, "Failed to list cheques")
		return
	}
	c.JSON(http.StatusOK, cheques)
}

// transitionCheque godoc
// @Summary Move a pending cheque to a terminal status
// @Description Posts the settlement operation for the new status and swaps the status atomically
// @Tags cheques
// @Accept  json
// @Produce  json
// @Param   chequeID path int true "Cheque ID"
// @Param   transition body dto.TransitionChequeRequest true "Target status"
// @Success 200 {object} dto.ChequeTransitionResponse
// @Failure 409 {object} errorResponse "Invalid transition or concurrent settlement"
// @Security BearerAuth
// @Router /cheques/{chequeID}/transitions [post]
func (h *chequeHandler) transitionCheque(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	chequeID, err := strconv.ParseInt(c.Param("chequeID"), 10, 64)
	if err != nil {
		badRequest(c, logger, "Invalid cheque id", err)
		return
	}
	var req dto.TransitionChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	opts := dto.TransitionOptions{UserID: userID, Penalty: decimal.Zero, Notes: req.Notes}
	if req.Penalty != nil {
		opts.Penalty = *req.Penalty
	}
	operationID, err := h.chequeService.TransitionCheque(c.Request.Context(), chequeID, req.Status, req.EffectiveDate, opts)
	if err != nil {
		respondError(c, logger, err, "Failed to transition cheque")
		return
	}
	logger.Info("Cheque transitioned", slog.Int64("cheque_id", chequeID), slog.String("status", string(req.Status)))
	c.JSON(http.StatusOK, dto.ChequeTransitionResponse{
		ChequeID:              chequeID,
		Status:                req.Status,
		SettlementOperationID: operationID,
	})
}
