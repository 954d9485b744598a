package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"spendly/internal/model"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Mailer sends transactional email.
type Mailer interface {
	// SendOrderConfirmation delivers the order summary with a coaching note.
	SendOrderConfirmation(ctx context.Context, to string, order *model.Order, encouragement string) error
}

// resendMailer implements Mailer using the Resend API.
type resendMailer struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// NewMailer creates a Resend-backed mailer. from is the sender address,
// e.g. "Spendly <orders@example.com>".
func NewMailer(apiKey, from string, logger zerolog.Logger) Mailer {
	return &resendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

// SendOrderConfirmation delivers the order confirmation email.
func (m *resendMailer) SendOrderConfirmation(ctx context.Context, to string, order *model.Order, encouragement string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: fmt.Sprintf("Order Confirmation #%s", order.OrderNumber),
		Html:    orderConfirmationHTML(to, order, encouragement),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.logger.Error().Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to send confirmation email")
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	m.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("email_id", sent.Id).
		Msg("confirmation email sent")
	return nil
}

// orderConfirmationHTML renders the confirmation body: a line-item summary,
// the coaching note, and the simulated-purchase disclaimer.
func orderConfirmationHTML(to string, order *model.Order, encouragement string) string {
	var items strings.Builder
	for _, item := range order.Items {
		items.WriteString(fmt.Sprintf(`
              <div style="display: flex; align-items: center; margin-bottom: 10px;">
                <img src="%s" alt="%s" style="width: 60px; height: 60px; object-fit: cover; border-radius: 4px;" />
                <div style="margin-left: 10px;">
                  <p style="color: #374151; margin: 0;">%s</p>
                  <p style="color: #6B7280; margin: 0;">Quantity: %d</p>
                  <p style="color: #4F46E5; margin: 0;">$%.2f</p>
                </div>
              </div>`,
			html.EscapeString(item.Image), html.EscapeString(item.Name),
			html.EscapeString(item.Name), item.Quantity,
			item.Price*float64(item.Quantity),
		))
	}

	return fmt.Sprintf(`
      <div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
        <h1 style="color: #4F46E5; text-align: center;">Order Confirmation</h1>
        <p style="color: #374151;">Dear %s,</p>
        <p style="color: #374151;">Thank you for your purchase! Here's a summary of your order:</p>

        <div style="background-color: #F3F4F6; padding: 20px; border-radius: 8px; margin: 20px 0;">
          <p style="color: #374151; font-weight: bold;">Order #%s</p>

          <div style="margin: 20px 0;">%s
          </div>

          <div style="border-top: 1px solid #D1D5DB; padding-top: 10px;">
            <p style="color: #374151; font-weight: bold; text-align: right;">
              Total: $%.2f
            </p>
          </div>
        </div>

        <div style="background-color: #EEF2FF; padding: 20px; border-radius: 8px; margin: 20px 0;">
          <h3 style="color: #4F46E5; margin-top: 0;">A Note from Your Mindful Shopping Coach</h3>
          <p style="color: #4338CA; font-style: italic;">%s</p>
        </div>

        <p style="color: #6B7280; text-align: center; margin-top: 40px;">
          This is a simulated purchase. No actual payment was processed.
        </p>
      </div>`,
		html.EscapeString(to), html.EscapeString(order.OrderNumber), items.String(),
		order.TotalAmount, html.EscapeString(encouragement),
	)
}
