// Package workflow drives an invoice through its lifecycle: pick a client,
// optionally compose and issue an invoice, optionally email unsent invoices
// as PDFs and mark them sent, optionally record payments. The sequence is
// an explicit state machine; every optional stage is gated by an operator
// confirmation and every remote call is awaited before the next step.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/michalnik/money-collector/pkg/config"
	"github.com/michalnik/money-collector/pkg/fakturoid"
	"github.com/michalnik/money-collector/pkg/mail"
	"github.com/michalnik/money-collector/pkg/prompt"
)

// ErrNoClients signals an empty subject list. It is a normal termination
// outcome, not a failure.
var ErrNoClients = errors.New("no clients to invoice")

// State names one stage of the run.
type State int

const (
	StateClientSelection State = iota
	StateInvoiceComposition
	StateSendingUnsent
	StatePayingUnpaid
	StateDone
)

func (s State) String() string {
	switch s {
	case StateClientSelection:
		return "client_selection"
	case StateInvoiceComposition:
		return "invoice_composition"
	case StateSendingUnsent:
		return "sending_unsent"
	case StatePayingUnpaid:
		return "paying_unpaid"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Workflow holds the collaborators for one run. It owns no network details
// itself; everything remote goes through the API interface.
type Workflow struct {
	api      fakturoid.API
	sender   mail.Sender
	prompter prompt.Prompter
	email    *config.EmailConfig
	logger   *zap.Logger
	out      io.Writer

	subject *fakturoid.Subject
}

// New constructs a workflow with explicitly injected collaborators; there
// is no ambient global state. Lifetime is the run.
func New(api fakturoid.API, sender mail.Sender, prompter prompt.Prompter, email *config.EmailConfig, logger *zap.Logger, out io.Writer) *Workflow {
	return &Workflow{
		api:      api,
		sender:   sender,
		prompter: prompter,
		email:    email,
		logger:   logger,
		out:      out,
	}
}

// Run executes the state sequence to completion. An empty client list ends
// the run normally; any remote or transport failure unwinds here and halts
// the remaining steps.
func (w *Workflow) Run(ctx context.Context) error {
	state := StateClientSelection
	for state != StateDone {
		w.logger.Debug("Entering state", zap.Stringer("state", state))
		next, err := w.Step(ctx, state)
		if err != nil {
			if errors.Is(err, ErrNoClients) {
				fmt.Fprintln(w.out, "You have no clients to invoice.")
				return nil
			}
			return err
		}
		state = next
	}
	return nil
}

// Step runs a single state and returns the next one. Exposed so each
// state's skip/proceed contract is testable without running the whole
// sequence.
func (w *Workflow) Step(ctx context.Context, s State) (State, error) {
	switch s {
	case StateClientSelection:
		return w.selectClient(ctx)
	case StateInvoiceComposition:
		return w.composeInvoice(ctx)
	case StateSendingUnsent:
		return w.sendUnsent(ctx)
	case StatePayingUnpaid:
		return w.payUnpaid(ctx)
	default:
		return StateDone, fmt.Errorf("workflow: no step for state %s", s)
	}
}

func (w *Workflow) selectClient(ctx context.Context) (State, error) {
	subjects, err := w.api.ListSubjects(ctx)
	if err != nil {
		return StateDone, err
	}
	if len(subjects) == 0 {
		return StateDone, ErrNoClients
	}

	choices := make([]string, len(subjects))
	for i, s := range subjects {
		choices[i] = fmt.Sprintf("%d - %s", s.ID, s.Name)
	}
	idx, err := w.prompter.Select("Choose your client for invoicing:", choices)
	if err != nil {
		return StateDone, err
	}
	w.subject = &subjects[idx]

	w.logger.Info("Client selected",
		zap.Int("subject_id", w.subject.ID),
		zap.String("name", w.subject.Name))
	return StateInvoiceComposition, nil
}

func (w *Workflow) composeInvoice(ctx context.Context) (State, error) {
	create, err := w.prompter.Confirm("Create invoice?", true)
	if err != nil {
		return StateDone, err
	}
	if !create {
		return StateSendingUnsent, nil
	}

	issuedOn, err := w.prompter.Date("Enter an invoice issued date")
	if err != nil {
		return StateDone, err
	}
	due, err := w.prompter.IntInRange("Enter a due of the issued invoice", 1, 31)
	if err != nil {
		return StateDone, err
	}

	lines := []fakturoid.InvoiceLine{}
	for {
		more, err := w.prompter.Confirm("Add another item?", true)
		if err != nil {
			return StateDone, err
		}
		if !more {
			break
		}
		line, err := w.collectLine(issuedOn)
		if err != nil {
			return StateDone, err
		}
		lines = append(lines, line)

		fmt.Fprintf(w.out, "Item description: %s\n", line.Name)
		fmt.Fprintf(w.out, "Total item price is: %s Kč\n", line.TotalPrice().String())
	}

	issue, err := w.prompter.Confirm("Issue invoice?", true)
	if err != nil {
		return StateDone, err
	}
	if !issue {
		return StateSendingUnsent, nil
	}

	invoice, err := w.api.CreateInvoice(ctx, fakturoid.InvoiceDraft{
		SubjectID: w.subject.ID,
		IssuedOn:  issuedOn.Format(fakturoid.DateFormat),
		Due:       due,
		Lines:     lines,
	})
	if err != nil {
		return StateDone, err
	}
	fmt.Fprintf(w.out, "Invoice %s issued.\n", invoice.Number)

	return StateSendingUnsent, nil
}

// collectLine gathers one invoice line. The displayed total is derived and
// never transmitted; the line name carries the issue month the way the
// description suffix convention wants it.
func (w *Workflow) collectLine(issuedOn time.Time) (fakturoid.InvoiceLine, error) {
	quantity, err := w.prompter.Float("Enter count of units:")
	if err != nil {
		return fakturoid.InvoiceLine{}, err
	}
	unitName, err := w.prompter.Input("Enter name of unit (hod, MD, měsíc, kus):", "")
	if err != nil {
		return fakturoid.InvoiceLine{}, err
	}
	unitPrice, err := w.prompter.Float("Enter unit price:")
	if err != nil {
		return fakturoid.InvoiceLine{}, err
	}
	description, err := w.prompter.Input("Enter item description:", "Softwarové inženýrství v rámci projektu: ")
	if err != nil {
		return fakturoid.InvoiceLine{}, err
	}

	return fakturoid.InvoiceLine{
		Quantity:  quantity,
		UnitName:  unitName,
		UnitPrice: unitPrice,
		Name:      fmt.Sprintf("%s za %s", description, issuedOn.Format("01/2006")),
	}, nil
}

func (w *Workflow) sendUnsent(ctx context.Context) (State, error) {
	send, err := w.prompter.Confirm("Send issued invoices?", false)
	if err != nil {
		return StateDone, err
	}
	if !send {
		return StatePayingUnpaid, nil
	}

	unsent, err := w.api.ListInvoices(ctx, w.subject.ID, "open")
	if err != nil {
		return StateDone, err
	}
	if len(unsent) == 0 {
		fmt.Fprintln(w.out, "No invoices to send.")
		return StatePayingUnpaid, nil
	}

	selected, err := w.selectInvoices("Select invoices to send:", unsent)
	if err != nil {
		return StateDone, err
	}

	for _, inv := range selected {
		if err := w.sendInvoice(ctx, inv); err != nil {
			return StateDone, err
		}
		fmt.Fprintf(w.out, "Invoice %s was sent to %s.\n", inv.Number, w.subject.Email)
	}
	return StatePayingUnpaid, nil
}

// sendInvoice performs the per-invoice send sequence: PDF fetch, account
// name fetch, email dispatch, then the mark_as_sent lifecycle action. The
// action fires only after every earlier sub-step succeeded.
func (w *Workflow) sendInvoice(ctx context.Context, inv fakturoid.Invoice) error {
	pdf, err := w.api.DownloadPDF(ctx, inv.ID)
	if err != nil {
		return err
	}
	user, err := w.api.GetUser(ctx)
	if err != nil {
		return err
	}

	err = w.sender.Send(mail.Message{
		To:       w.subject.Email,
		Cc:       w.email.SMTPUser,
		Subject:  fmt.Sprintf(w.email.Subject, inv.Number),
		Body:     fmt.Sprintf(w.email.Body, user.FullName),
		PDF:      pdf,
		Filename: fmt.Sprintf("invoice-%s.pdf", inv.Number),
	})
	if err != nil {
		return err
	}

	return w.api.MarkAsSent(ctx, inv.ID)
}

func (w *Workflow) payUnpaid(ctx context.Context) (State, error) {
	pay, err := w.prompter.Confirm("Pay unpaid invoices?", true)
	if err != nil {
		return StateDone, err
	}
	if !pay {
		return StateDone, nil
	}

	unpaid, err := w.api.ListUnpaidInvoices(ctx, w.subject.ID)
	if err != nil {
		return StateDone, err
	}
	if len(unpaid) == 0 {
		fmt.Fprintln(w.out, "No invoices to pay.")
		return StateDone, nil
	}

	selected, err := w.selectInvoices("Select invoices to pay:", unpaid)
	if err != nil {
		return StateDone, err
	}

	for _, inv := range selected {
		paidOn, err := w.prompter.Date(fmt.Sprintf("Enter an invoice %s paid date", inv.Number))
		if err != nil {
			return StateDone, err
		}
		if err := w.api.CreatePayment(ctx, inv.ID, paidOn); err != nil {
			return StateDone, err
		}
		fmt.Fprintf(w.out, "Invoice %s was paid at %s!\n", inv.Number, paidOn.Format(fakturoid.DateFormat))
	}
	return StateDone, nil
}

func (w *Workflow) selectInvoices(message string, invoices []fakturoid.Invoice) ([]fakturoid.Invoice, error) {
	choices := make([]string, len(invoices))
	for i, inv := range invoices {
		choices[i] = inv.Number
	}
	indices, err := w.prompter.MultiSelect(message, choices)
	if err != nil {
		return nil, err
	}
	selected := make([]fakturoid.Invoice, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, invoices[idx])
	}
	return selected, nil
}
