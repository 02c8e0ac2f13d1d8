package fakturoid

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// unpaidStatuses are the remote filters whose union makes up "unpaid".
var unpaidStatuses = []string{"open", "sent", "overdue"}

// CreateInvoice issues a new invoice. The draft's line list is transmitted
// as given, empty included.
func (c *Client) CreateInvoice(ctx context.Context, draft InvoiceDraft) (*Invoice, error) {
	if draft.Lines == nil {
		draft.Lines = []InvoiceLine{}
	}

	res, err := c.Request(ctx, "POST", endpointInvoices, ReqOptions{Body: draft})
	if err != nil {
		return nil, err
	}
	if err := expect(res, ResultObject); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	var inv Invoice
	if err := json.Unmarshal(res.Object, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse invoice: %w", err)
	}

	c.logger.Info("Invoice created",
		zap.Int("invoice_id", inv.ID),
		zap.String("number", inv.Number))
	return &inv, nil
}

// ListInvoices retrieves invoices of a subject filtered by one status.
func (c *Client) ListInvoices(ctx context.Context, subjectID int, status string) ([]Invoice, error) {
	res, err := c.Request(ctx, "GET", endpointInvoices, ReqOptions{
		Query: map[string]string{
			"subject_id": strconv.Itoa(subjectID),
			"status":     status,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := expect(res, ResultArray); err != nil {
		return nil, fmt.Errorf("invoices: %w", err)
	}

	invoices := make([]Invoice, 0, len(res.Array))
	for _, raw := range res.Array {
		var inv Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("failed to parse invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// ListUnpaidInvoices retrieves the union of open, sent and overdue invoices
// for a subject. An invoice matched by more than one status filter appears
// once; the union is deduplicated by id, first occurrence wins.
func (c *Client) ListUnpaidInvoices(ctx context.Context, subjectID int) ([]Invoice, error) {
	seen := make(map[int]bool)
	var unpaid []Invoice
	for _, status := range unpaidStatuses {
		invoices, err := c.ListInvoices(ctx, subjectID, status)
		if err != nil {
			return nil, err
		}
		for _, inv := range invoices {
			if seen[inv.ID] {
				continue
			}
			seen[inv.ID] = true
			unpaid = append(unpaid, inv)
		}
	}

	c.logger.Info("Retrieved unpaid invoices",
		zap.Int("subject_id", subjectID),
		zap.Int("count", len(unpaid)))
	return unpaid, nil
}

// MarkAsSent fires the mark_as_sent lifecycle action on an invoice.
func (c *Client) MarkAsSent(ctx context.Context, invoiceID int) error {
	res, err := c.Request(ctx, "POST", endpointInvoiceActions, ReqOptions{
		ID:   &invoiceID,
		Body: map[string]string{"event": "mark_as_sent"},
	})
	if err != nil {
		return err
	}
	if err := expect(res, ResultEmpty); err != nil {
		return fmt.Errorf("mark as sent: %w", err)
	}

	c.logger.Info("Invoice marked as sent", zap.Int("invoice_id", invoiceID))
	return nil
}

// CreatePayment records a payment against an invoice, which transitions it
// to paid remotely. The response body, if any, is not inspected.
func (c *Client) CreatePayment(ctx context.Context, invoiceID int, paidOn time.Time) error {
	_, err := c.Request(ctx, "POST", endpointPayments, ReqOptions{
		ID:   &invoiceID,
		Body: Payment{PaidOn: paidOn.Format(DateFormat)},
	})
	if err != nil {
		return err
	}

	c.logger.Info("Payment recorded",
		zap.Int("invoice_id", invoiceID),
		zap.String("paid_on", paidOn.Format(DateFormat)))
	return nil
}

// DownloadPDF fetches the PDF rendering of an invoice as raw bytes.
func (c *Client) DownloadPDF(ctx context.Context, invoiceID int) ([]byte, error) {
	res, err := c.Request(ctx, "GET", endpointDownloadPDF, ReqOptions{ID: &invoiceID})
	if err != nil {
		return nil, err
	}
	if err := expect(res, ResultBinary); err != nil {
		return nil, fmt.Errorf("download pdf: %w", err)
	}

	c.logger.Info("Invoice PDF downloaded",
		zap.Int("invoice_id", invoiceID),
		zap.Int("bytes", len(res.Bytes)))
	return res.Bytes, nil
}
