package dto

import (
	"time"

	"github.com/glbooks/accounting_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest defines one billed line of an invoice.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateInvoiceRequest defines the data needed to create a draft invoice.
type CreateInvoiceRequest struct {
	CustomerRef  string               `json:"customerRef"`
	CustomerName string               `json:"customerName" binding:"required"`
	InvoiceDate  time.Time            `json:"invoiceDate" binding:"required"`
	DueDate      time.Time            `json:"dueDate" binding:"required"`
	CurrencyCode string               `json:"currencyCode" binding:"required,len=3"`
	TaxAmount    decimal.Decimal      `json:"taxAmount"`
	Notes        string               `json:"notes"`
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest replaces the header fields and items of a draft invoice.
type UpdateInvoiceRequest struct {
	CustomerRef  string               `json:"customerRef"`
	CustomerName string               `json:"customerName" binding:"required"`
	InvoiceDate  time.Time            `json:"invoiceDate" binding:"required"`
	DueDate      time.Time            `json:"dueDate" binding:"required"`
	TaxAmount    decimal.Decimal      `json:"taxAmount"`
	Notes        string               `json:"notes"`
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// MarkInvoicePaidRequest carries the date the payment was received.
type MarkInvoicePaidRequest struct {
	PaymentDate time.Time `json:"paymentDate" binding:"required"`
}

// InvoiceItemResponse defines the data returned for an invoice item.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID      string                `json:"invoiceID"`
	InvoiceNumber  string                `json:"invoiceNumber"`
	CustomerRef    string                `json:"customerRef"`
	CustomerName   string                `json:"customerName"`
	InvoiceDate    time.Time             `json:"invoiceDate"`
	DueDate        time.Time             `json:"dueDate"`
	CurrencyCode   string                `json:"currencyCode"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	TaxAmount      decimal.Decimal       `json:"taxAmount"`
	TotalAmount    decimal.Decimal       `json:"totalAmount"`
	Status         domain.InvoiceStatus  `json:"status"`
	JournalEntryID *string               `json:"journalEntryID,omitempty"`
	Notes          string                `json:"notes"`
	Items          []InvoiceItemResponse `json:"items"`
	CreatedAt      time.Time             `json:"createdAt"`
	CreatedBy      string                `json:"createdBy"`
}

// ToInvoiceResponse converts a domain.Invoice (with items) to its DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ItemID:      it.ItemID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		}
	}
	return InvoiceResponse{
		InvoiceID:      inv.InvoiceID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerRef:    inv.CustomerRef,
		CustomerName:   inv.CustomerName,
		InvoiceDate:    inv.InvoiceDate,
		DueDate:        inv.DueDate,
		CurrencyCode:   inv.CurrencyCode,
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		TotalAmount:    inv.TotalAmount,
		Status:         inv.Status,
		JournalEntryID: inv.JournalEntryID,
		Notes:          inv.Notes,
		Items:          items,
		CreatedAt:      inv.CreatedAt,
		CreatedBy:      inv.CreatedBy,
	}
}

// ToListInvoiceResponse converts a slice of domain.Invoice to DTOs.
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		res[i] = ToInvoiceResponse(&inv)
	}
	return res
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    *domain.InvoiceStatus `form:"status" binding:"omitempty,oneof=DRAFT SENT PAID OVERDUE CANCELLED"`
	Limit     int                   `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string               `form:"nextToken"`
}

// ListInvoicesResponse is the paginated invoice listing.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}
