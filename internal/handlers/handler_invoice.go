package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/glbooks/accounting_backend/internal/apperrors"
	portssvc "github.com/glbooks/accounting_backend/internal/core/ports/services"
	"github.com/glbooks/accounting_backend/internal/dto"
	"github.com/glbooks/accounting_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// invoiceHandler handles HTTP requests related to invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

// newInvoiceHandler creates a new invoiceHandler.
func newInvoiceHandler(invoiceService portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{
		invoiceService: invoiceService,
	}
}

// registerInvoiceRoutes wires the invoice endpoints into the API group.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/overdue", h.listOverdueInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PUT("/:invoiceID", h.updateInvoice)
		invoices.POST("/:invoiceID/send", h.sendInvoice)
		invoices.POST("/:invoiceID/pay", h.markInvoicePaid)
		invoices.POST("/:invoiceID/cancel", h.cancelInvoice)
	}
}

// createInvoice godoc
// @Summary Create a draft invoice with its items
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice details"
// @Success 201 {object} dto.InvoiceResponse
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, creatorUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate invoice number", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create invoice", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		}
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List invoices with token pagination
// @Tags invoices
// @Produce json
// @Param status query string false "Status filter (DRAFT, SENT, PAID, OVERDUE, CANCELLED)"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListInvoicesResponse
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid invoice list params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invoices"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listOverdueInvoices godoc
// @Summary List sent invoices past their due date
// @Tags invoices
// @Produce json
// @Success 200 {array} dto.InvoiceResponse
// @Router /invoices/overdue [get]
func (h *invoiceHandler) listOverdueInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoices, err := h.invoiceService.ListOverdueInvoices(c.Request.Context(), time.Now().UTC())
	if err != nil {
		logger.Error("Failed to list overdue invoices", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list overdue invoices"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}

// getInvoice godoc
// @Summary Get an invoice with its items
// @Tags invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Router /invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	invoice, err := h.invoiceService.GetInvoiceByID(c.Request.Context(), invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Invoice not found", slog.String("invoice_id", invoiceID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
			return
		}
		logger.Error("Failed to get invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// updateInvoice godoc
// @Summary Replace the header and items of a draft invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "New header and items"
// @Success 200 {object} dto.InvoiceResponse
// @Router /invoices/{invoiceID} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for updateInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), invoiceID, req, requestingUserID)
	if err != nil {
		h.respondInvoiceMutationError(c, logger, err, invoiceID, "update")
		return
	}

	logger.Info("Invoice updated", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// sendInvoice godoc
// @Summary Send a draft invoice
// @Description Transitions DRAFT to SENT and posts the receivable journal entry.
// @Tags invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Router /invoices/{invoiceID}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoiceService.SendInvoice(c.Request.Context(), invoiceID, requestingUserID)
	if err != nil {
		h.respondInvoiceMutationError(c, logger, err, invoiceID, "send")
		return
	}

	logger.Info("Invoice sent", slog.String("invoice_id", invoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// markInvoicePaid godoc
// @Summary Mark a sent or overdue invoice as paid
// @Description Transitions to PAID and posts the payment journal entry dated paymentDate.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Param payment body dto.MarkInvoicePaidRequest true "Payment date"
// @Success 200 {object} dto.InvoiceResponse
// @Router /invoices/{invoiceID}/pay [post]
func (h *invoiceHandler) markInvoicePaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	var req dto.MarkInvoicePaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for markInvoicePaid", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoiceService.MarkInvoicePaid(c.Request.Context(), invoiceID, req.PaymentDate, requestingUserID)
	if err != nil {
		h.respondInvoiceMutationError(c, logger, err, invoiceID, "mark paid")
		return
	}

	logger.Info("Invoice marked paid", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// cancelInvoice godoc
// @Summary Cancel an unpaid invoice
// @Description Transitions to CANCELLED and voids the linked journal entry if one was posted.
// @Tags invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Router /invoices/{invoiceID}/cancel [post]
func (h *invoiceHandler) cancelInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	invoiceID := c.Param("invoiceID")

	requestingUserID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoiceService.CancelInvoice(c.Request.Context(), invoiceID, requestingUserID)
	if err != nil {
		h.respondInvoiceMutationError(c, logger, err, invoiceID, "cancel")
		return
	}

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID))
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// respondInvoiceMutationError maps invoice lifecycle errors onto HTTP statuses.
func (h *invoiceHandler) respondInvoiceMutationError(c *gin.Context, logger *slog.Logger, err error, invoiceID, action string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Invoice not found for "+action, slog.String("invoice_id", invoiceID))
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid invoice state for "+action, slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on invoice "+action, slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action+" invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " invoice"})
	}
}
