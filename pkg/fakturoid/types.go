package fakturoid

import "github.com/shopspring/decimal"

// DateFormat is the wire format for all Fakturoid dates.
const DateFormat = "2006-01-02"

// Subject is an invoicing counterparty. Read-only projection of remote
// data, never persisted locally.
type Subject struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	RegistrationNo string `json:"registration_no"`
}

// User is the account owner, used for the email body display name.
type User struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// InvoiceLine is one line of an invoice. The displayed total is derived;
// it never appears on the wire.
type InvoiceLine struct {
	Quantity  float64 `json:"quantity"`
	UnitName  string  `json:"unit_name"`
	UnitPrice float64 `json:"unit_price"`
	Name      string  `json:"name"`
}

// TotalPrice is the display value quantity × unit_price. Computed in
// decimal so the figure shown to the operator is exact.
func (l InvoiceLine) TotalPrice() decimal.Decimal {
	return decimal.NewFromFloat(l.Quantity).Mul(decimal.NewFromFloat(l.UnitPrice))
}

// InvoiceDraft is the creation payload. Lines must be non-nil so an
// invoice the user declined to add items to still transmits an empty list;
// the remote service is authoritative on accepting it.
type InvoiceDraft struct {
	SubjectID int           `json:"subject_id"`
	IssuedOn  string        `json:"issued_on"`
	Due       int           `json:"due"`
	Lines     []InvoiceLine `json:"lines"`
}

// Invoice as observed remotely. Status is remote-owned, locally read via
// query filters and mutated only through lifecycle actions.
type Invoice struct {
	ID        int           `json:"id"`
	Number    string        `json:"number"`
	SubjectID int           `json:"subject_id"`
	IssuedOn  string        `json:"issued_on"`
	Due       int           `json:"due"`
	Status    string        `json:"status"`
	Lines     []InvoiceLine `json:"lines"`
}

// Payment is a one-shot record; once submitted the invoice transitions to
// paid remotely.
type Payment struct {
	PaidOn string `json:"paid_on"`
}
