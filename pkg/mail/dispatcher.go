// Package mail delivers composed invoice emails over SMTP.
package mail

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/michalnik/money-collector/pkg/config"
)

// DeliveryError is an email transport failure. Fatal to the per-invoice
// sending loop at the invoice it occurred on.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("mail: delivery to %s failed: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Message is one invoice email: a body plus a single PDF attachment named
// for the invoice.
type Message struct {
	To       string
	Cc       string
	Subject  string
	Body     string
	PDF      []byte
	Filename string
}

// Sender is the contract the workflow consumes: a synchronous send that
// can fail.
type Sender interface {
	Send(msg Message) error
}

// Dispatcher sends mail through the configured SMTP account over implicit
// TLS.
type Dispatcher struct {
	cfg    *config.EmailConfig
	logger *zap.Logger
}

func NewDispatcher(cfg *config.EmailConfig, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, logger: logger}
}

func (d *Dispatcher) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.SMTPUser)
	m.SetHeader("To", msg.To)
	if msg.Cc != "" {
		m.SetHeader("Cc", msg.Cc)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	filename := msg.Filename
	if filename == "" {
		filename = "invoice.pdf"
	}
	m.Attach(filename,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(msg.PDF)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)

	dialer := gomail.NewDialer(d.cfg.SMTPServer, d.cfg.SMTPPort, d.cfg.SMTPUser, d.cfg.SMTPPassword)
	dialer.SSL = true

	d.logger.Info("Sending invoice email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachment_bytes", len(msg.PDF)))

	if err := dialer.DialAndSend(m); err != nil {
		d.logger.Error("Email delivery failed",
			zap.String("to", msg.To),
			zap.Error(err))
		return &DeliveryError{To: msg.To, Err: err}
	}
	return nil
}
