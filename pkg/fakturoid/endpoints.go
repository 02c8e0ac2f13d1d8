package fakturoid

import "fmt"

// Symbolic endpoint names. The table below is the only place URL paths are
// spelled out; everything else addresses the API through these names.
const (
	endpointToken          = "token"
	endpointUser           = "user"
	endpointSubjects       = "subjects"
	endpointInvoices       = "invoices"
	endpointInvoiceActions = "invoice_actions"
	endpointPayments       = "payments"
	endpointDownloadPDF    = "download_pdf"
)

// endpoint describes one API path. Paths with needsID contain exactly one
// %d placeholder for an invoice id.
type endpoint struct {
	path    string
	needsID bool
}

func endpointTable(account string) map[string]endpoint {
	return map[string]endpoint{
		endpointToken:          {path: "/oauth/token"},
		endpointUser:           {path: "/user.json"},
		endpointSubjects:       {path: fmt.Sprintf("/accounts/%s/subjects.json", account)},
		endpointInvoices:       {path: fmt.Sprintf("/accounts/%s/invoices.json", account)},
		endpointInvoiceActions: {path: fmt.Sprintf("/accounts/%s/invoices/%%d/fire.json", account), needsID: true},
		endpointPayments:       {path: fmt.Sprintf("/accounts/%s/invoices/%%d/payments.json", account), needsID: true},
		endpointDownloadPDF:    {path: fmt.Sprintf("/accounts/%s/invoices/%%d/download.pdf", account), needsID: true},
	}
}

// resolve turns a symbolic name plus optional invoice id into a concrete
// path. A missing required id, a surplus id or an unknown name is a
// programming error caught here, before any network call.
func (c *Client) resolve(name string, id *int) (string, error) {
	ep, ok := c.endpoints[name]
	if !ok {
		return "", fmt.Errorf("unknown endpoint %q", name)
	}
	if ep.needsID {
		if id == nil {
			return "", fmt.Errorf("endpoint %q requires an invoice id", name)
		}
		return fmt.Sprintf(ep.path, *id), nil
	}
	if id != nil {
		return "", fmt.Errorf("endpoint %q does not take an invoice id", name)
	}
	return ep.path, nil
}
