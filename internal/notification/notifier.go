package notification

import (
	"context"
	"fmt"

	"github.com/fleetops/rentdesk/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// InvoiceIssuedEvent is the advisory payload sent to the customer when an
// invoice leaves draft. Plain fields keep this package free of domain imports.
type InvoiceIssuedEvent struct {
	InvoiceNumber string
	TotalAmount   float64
	CurrencyCode  string
	CustomerName  string
	CustomerEmail string
}

type Notifier interface {
	InvoiceIssued(ctx context.Context, event InvoiceIssuedEvent) error
}

type Params struct {
	fx.In

	Log   *zap.Logger
	Email email.Provider
}

type notifier struct {
	log   *zap.Logger
	email email.Provider
}

func New(p Params) Notifier {
	return &notifier{
		log:   p.Log.Named("notification"),
		email: p.Email,
	}
}

func (n *notifier) InvoiceIssued(ctx context.Context, event InvoiceIssuedEvent) error {
	if event.CustomerEmail == "" {
		n.log.Warn("invoice issued notification skipped: customer has no email",
			zap.String("invoice_number", event.InvoiceNumber),
		)
		return nil
	}

	subject := fmt.Sprintf("Invoice %s issued", event.InvoiceNumber)
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your invoice <strong>%s</strong> for %.2f %s has been issued.</p>",
		event.CustomerName,
		event.InvoiceNumber,
		event.TotalAmount,
		event.CurrencyCode,
	)

	return n.email.Send(ctx, []string{event.CustomerEmail}, subject, body)
}

var Module = fx.Module("notification",
	fx.Provide(New),
)
