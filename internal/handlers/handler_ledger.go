package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/dto"
	"github.com/SscSPs/posting_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves balances and reference data.
type ledgerHandler struct {
	ledgerService   portssvc.LedgerQuerySvcFacade
	registryService portssvc.RegistrySvcFacade
	fxService       portssvc.FxSvcFacade
}

func registerLedgerRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &ledgerHandler{
		ledgerService:   services.Ledger,
		registryService: services.Registry,
		fxService:       services.Fx,
	}

	rg.GET("/ledger/trial-balance", h.trialBalance)
	rg.GET("/accounts", h.listAccounts)
	rg.GET("/accounts/:code", h.getAccount)
	rg.GET("/accounts/:code/balance", h.accountBalance)
	rg.GET("/currencies", h.listCurrencies)
	rg.POST("/fx/convert", h.convert)
}

// trialBalance godoc
// @Summary Trial balance
// @Description Balances of every account with activity on or before asOf, with equivalent totals per currency
// @Tags ledger
// @Produce  json
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Security BearerAuth
// @Router /ledger/trial-balance [get]
func (h *ledgerHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := asOfParam(c)
	if err != nil {
		badRequest(c, logger, "Invalid asOf date", err)
		return
	}
	tb, err := h.ledgerService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

func (h *ledgerHandler) accountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, err := asOfParam(c)
	if err != nil {
		badRequest(c, logger, "Invalid asOf date", err)
		return
	}
	balance, err := h.ledgerService.AccountBalanceByCode(c.Request.Context(), c.Param("code"), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute account balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *ledgerHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accounts, err := h.registryService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *ledgerHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	account, err := h.registryService.ResolveAccount(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *ledgerHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	currencies, err := h.registryService.ListCurrencies(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list currencies")
		return
	}
	c.JSON(http.StatusOK, currencies)
}

func (h *ledgerHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}
	result, err := h.fxService.Convert(c.Request.Context(), req.Amount, req.From, req.To, req.Rate)
	if err != nil {
		respondError(c, logger, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, dto.ConvertResponse{Amount: req.Amount, From: req.From, To: req.To, Rate: req.Rate, Result: result})
}
