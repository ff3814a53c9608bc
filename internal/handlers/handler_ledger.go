package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/SscSPs/cargo_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the raw ledger routes: single rows, transfers and totals.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("/:id", h.getTransaction)
	}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.createTransfer)
		transfers.GET("/:reference", h.getTransfer)
	}

	rg.GET("/balances/total", h.getTotalBalance)
}

// createTransaction godoc
// @Summary Post a ledger row
// @Description Posts one debit or credit on an account and updates its balance. The currency must match the account's currency.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Ledger row"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 422 {object} ErrorResponse "Currency does not match the account"
// @Failure 500 {object} ErrorResponse "Failed to create transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) createTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create transaction",
		slog.String("account_id", req.AccountID),
		slog.String("type", string(req.TransactionType)),
		slog.String("amount", utils.FormatMoney(req.Amount, req.CurrencyCode)))

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID), slog.String("reference", txn.Reference))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a ledger row
// @Tags ledger
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// createTransfer godoc
// @Summary Transfer between two accounts
// @Description Moves money from one account to another as a transfer_out and transfer_in pair sharing one transfer reference. Both rows are written or neither is.
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or validation error"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 422 {object} ErrorResponse "Currency does not match an account"
// @Failure 500 {object} ErrorResponse "Failed to create transfer"
// @Security BearerAuth
// @Router /transfers [post]
func (h *ledgerHandler) createTransfer(c *gin.Context) {
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "request format")
		return
	}

	actorID, ok := actorFrom(c)
	if !ok {
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to create transfer",
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("destination_account_id", req.DestinationAccountID))

	transfer, err := h.ledgerService.CreateTransfer(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "Failed to create transfer")
		return
	}

	logger.Info("Transfer created successfully", slog.String("transfer_reference", transfer.TransferReference))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// getTransfer godoc
// @Summary Get a transfer
// @Description Returns both rows of a transfer.
// @Tags ledger
// @Produce  json
// @Param   reference path string true "Transfer reference"
// @Success 200 {object} dto.TransferResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Transfer not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transfer"
// @Security BearerAuth
// @Router /transfers/{reference} [get]
func (h *ledgerHandler) getTransfer(c *gin.Context) {
	transfer, err := h.ledgerService.GetTransfer(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// getTotalBalance godoc
// @Summary Total balance
// @Description Sums the balances of all active accounts in one currency.
// @Tags ledger
// @Produce  json
// @Param   currency query string false "Target currency" default(CFA)
// @Success 200 {object} dto.TotalBalanceResponse
// @Failure 400 {object} ErrorResponse "Malformed currency code"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to compute total balance"
// @Security BearerAuth
// @Router /balances/total [get]
func (h *ledgerHandler) getTotalBalance(c *gin.Context) {
	currency, ok := queryCurrency(c, domain.CurrencyCFA)
	if !ok {
		return
	}

	total, err := h.ledgerService.GetTotalBalance(c.Request.Context(), currency)
	if err != nil {
		respondError(c, err, "Failed to compute total balance")
		return
	}

	c.JSON(http.StatusOK, dto.TotalBalanceResponse{Balance: total, CurrencyCode: currency})
}
