package fakturoid

import (
	"context"
	"time"
)

// API defines the operations the invoice workflow consumes.
type API interface {
	// ListSubjects retrieves all subjects (clients) on the account
	ListSubjects(ctx context.Context) ([]Subject, error)

	// GetUser retrieves the current account user
	GetUser(ctx context.Context) (*User, error)

	// CreateInvoice issues a new invoice from a draft
	CreateInvoice(ctx context.Context, draft InvoiceDraft) (*Invoice, error)

	// ListInvoices retrieves a subject's invoices filtered by one status
	ListInvoices(ctx context.Context, subjectID int, status string) ([]Invoice, error)

	// ListUnpaidInvoices retrieves open, sent and overdue invoices, deduplicated by id
	ListUnpaidInvoices(ctx context.Context, subjectID int) ([]Invoice, error)

	// MarkAsSent fires the mark_as_sent lifecycle action
	MarkAsSent(ctx context.Context, invoiceID int) error

	// CreatePayment records a payment, transitioning the invoice to paid
	CreatePayment(ctx context.Context, invoiceID int, paidOn time.Time) error

	// DownloadPDF fetches an invoice's PDF rendering
	DownloadPDF(ctx context.Context, invoiceID int) ([]byte, error)
}

var _ API = (*Client)(nil)
