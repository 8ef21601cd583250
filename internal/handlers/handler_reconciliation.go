package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
	"github.com/glbooks/accounting_backend/internal/dto"
	"github.com/glbooks/accounting_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for bank accounts, statement
// imports and reconciliation.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{
		reconciliationService: reconciliationService,
	}
}

// registerReconciliationRoutes wires the bank and reconciliation endpoints
// into the API group.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:bankAccountID", h.getBankAccount)
		bankAccounts.POST("/:bankAccountID/statements", h.importStatements)
		bankAccounts.GET("/:bankAccountID/statements", h.listStatements)
		bankAccounts.GET("/:bankAccountID/reconciliation-summary", h.getReconciliationSummary)
	}

	statements := rg.Group("/statements")
	{
		statements.POST("/:statementID/reconcile", h.reconcile)
		statements.POST("/:statementID/unreconcile", h.unreconcile)
		statements.GET("/:statementID/potential-matches", h.findPotentialMatches)
	}
}

// createBankAccount godoc
// @Summary Create a bank account linked to a GL account
// @Tags bank-accounts
// @Accept json
// @Produce json
// @Param bankAccount body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Router /bank-accounts [post]
func (h *reconciliationHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	bankAccount, err := h.reconciliationService.CreateBankAccount(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Validation error creating bank account", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate bank account", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create bank account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bank account"})
		}
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", bankAccount.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(bankAccount))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Tags bank-accounts
// @Produce json
// @Param activeOnly query bool false "Only active bank accounts"
// @Success 200 {array} dto.BankAccountResponse
// @Router /bank-accounts [get]
func (h *reconciliationHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	activeOnly := c.Query("activeOnly") == "true"

	bankAccounts, err := h.reconciliationService.ListBankAccounts(c.Request.Context(), activeOnly)
	if err != nil {
		logger.Error("Failed to list bank accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bank accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListBankAccountResponse(bankAccounts))
}

// getBankAccount godoc
// @Summary Get a bank account by ID
// @Tags bank-accounts
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Router /bank-accounts/{bankAccountID} [get]
func (h *reconciliationHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	bankAccount, err := h.reconciliationService.GetBankAccountByID(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
			return
		}
		logger.Error("Failed to get bank account", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bank account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(bankAccount))
}

// importStatements godoc
// @Summary Import a batch of bank statement lines
// @Tags bank-accounts
// @Accept json
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Param statements body dto.ImportStatementsRequest true "Statement lines"
// @Success 201 {array} dto.StatementLineResponse
// @Router /bank-accounts/{bankAccountID}/statements [post]
func (h *reconciliationHandler) importStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	var req dto.ImportStatementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for importStatements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	statements, err := h.reconciliationService.ImportStatements(c.Request.Context(), bankAccountID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Bank account not found for import", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error importing statements", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to import statements", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import statements"})
		}
		return
	}

	logger.Info("Statements imported", slog.String("bank_account_id", bankAccountID), slog.Int("count", len(statements)))
	c.JSON(http.StatusCreated, dto.ToListStatementLineResponse(statements))
}

// listStatements godoc
// @Summary List statement lines for a bank account
// @Tags bank-accounts
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Param unreconciledOnly query bool false "Only unmatched lines"
// @Param startDate query string false "Transaction date range start (YYYY-MM-DD)"
// @Param endDate query string false "Transaction date range end (YYYY-MM-DD)"
// @Success 200 {array} dto.StatementLineResponse
// @Router /bank-accounts/{bankAccountID}/statements [get]
func (h *reconciliationHandler) listStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	var params dto.ListStatementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid statement list params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	statements, err := h.reconciliationService.ListStatements(c.Request.Context(), bankAccountID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Bank account not found for statements", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error listing statements", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to list statements", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list statements"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListStatementLineResponse(statements))
}

// getReconciliationSummary godoc
// @Summary Reconciliation position of a bank account
// @Description Returns the reconciled balance and the unreconciled difference against the GL account.
// @Tags bank-accounts
// @Produce json
// @Param bankAccountID path string true "Bank account ID"
// @Success 200 {object} dto.ReconciliationSummaryResponse
// @Router /bank-accounts/{bankAccountID}/reconciliation-summary [get]
func (h *reconciliationHandler) getReconciliationSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bankAccountID := c.Param("bankAccountID")

	reconciled, err := h.reconciliationService.ReconciledBalance(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Bank account not found for summary", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Bank account not found"})
			return
		}
		logger.Error("Failed to calculate reconciled balance", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate reconciled balance"})
		return
	}

	difference, err := h.reconciliationService.UnreconciledDifference(c.Request.Context(), bankAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("No GL account linked for difference", slog.String("bank_account_id", bankAccountID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to calculate unreconciled difference", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate unreconciled difference"})
		return
	}

	c.JSON(http.StatusOK, dto.ReconciliationSummaryResponse{
		BankAccountID:          bankAccountID,
		ReconciledBalance:      reconciled,
		UnreconciledDifference: difference,
	})
}

// reconcile godoc
// @Summary Match a statement line with a journal entry line
// @Description The statement net amount must equal the journal line signed amount exactly; otherwise nothing changes.
// @Tags statements
// @Accept json
// @Param statementID path string true "Statement line ID"
// @Param match body dto.ReconcileRequest true "Journal line to match"
// @Success 204
// @Router /statements/{statementID}/reconcile [post]
func (h *reconciliationHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statementID := c.Param("statementID")

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.reconciliationService.Reconcile(c.Request.Context(), statementID, req.JournalLineID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Statement or journal line not found", slog.String("statement_id", statementID), slog.String("journal_line_id", req.JournalLineID))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrMatchMismatch):
			logger.Warn("Statement amount mismatch", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidState):
			logger.Warn("Invalid reconciliation state", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error reconciling", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reconcile statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile statement"})
		}
		return
	}

	reconciliationsTotal.WithLabelValues("reconcile").Inc()
	logger.Info("Statement reconciled", slog.String("statement_id", statementID), slog.String("journal_line_id", req.JournalLineID))
	c.Status(http.StatusNoContent)
}

// unreconcile godoc
// @Summary Clear the match on a statement line
// @Tags statements
// @Param statementID path string true "Statement line ID"
// @Success 204
// @Router /statements/{statementID}/unreconcile [post]
func (h *reconciliationHandler) unreconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statementID := c.Param("statementID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	if err := h.reconciliationService.Unreconcile(c.Request.Context(), statementID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Statement not found for unreconcile", slog.String("statement_id", statementID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Statement line not found"})
		case errors.Is(err, apperrors.ErrInvalidState):
			logger.Warn("Statement not reconciled", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to unreconcile statement", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unreconcile statement"})
		}
		return
	}

	reconciliationsTotal.WithLabelValues("unreconcile").Inc()
	logger.Info("Statement unreconciled", slog.String("statement_id", statementID))
	c.Status(http.StatusNoContent)
}

// findPotentialMatches godoc
// @Summary List journal lines that could match a statement line
// @Description Posted lines on the bank's GL account dated within seven days of the statement transaction date.
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement line ID"
// @Success 200 {array} dto.JournalEntryLineResponse
// @Router /statements/{statementID}/potential-matches [get]
func (h *reconciliationHandler) findPotentialMatches(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	statementID := c.Param("statementID")

	lines, err := h.reconciliationService.FindPotentialMatches(c.Request.Context(), statementID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Statement not found for matches", slog.String("statement_id", statementID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Statement line not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("No GL account linked for matches", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to find potential matches", slog.String("error", err.Error()), slog.String("statement_id", statementID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find potential matches"})
		}
		return
	}

	responses := make([]dto.JournalEntryLineResponse, 0, len(lines))
	for i := range lines {
		responses = append(responses, dto.ToJournalEntryLineResponse(&lines[i]))
	}
	c.JSON(http.StatusOK, responses)
}
