package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Message is a single outbound email.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendgridMailer delivers email through the SendGrid v3 API.
type SendgridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
	logger      *zap.Logger
}

// NewSendgridMailer builds a SendGrid-backed mailer.
func NewSendgridMailer(apiKey, fromName, fromAddress string, logger *zap.Logger) (*SendgridMailer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key required")
	}
	if fromAddress == "" {
		return nil, fmt.Errorf("sender address required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendgridMailer{
		client:      sendgrid.NewSendClient(apiKey),
		fromName:    fromName,
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// Send delivers one message. SendGrid treats any 2xx as accepted.
func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(m.fromName, m.fromAddress)
	to := mail.NewEmail(msg.ToName, msg.ToAddress)

	html := msg.HTMLBody
	if html == "" {
		html = msg.PlainBody
	}
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainBody, html)

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		m.logger.Sugar().Errorw("sendgrid rejected message",
			"status", resp.StatusCode,
			"to", msg.ToAddress,
			"body", resp.Body,
		)
		return fmt.Errorf("send email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}

// NopMailer drops email. Used when outbound mail is disabled.
type NopMailer struct{}

// Send implements Mailer.
func (NopMailer) Send(context.Context, Message) error { return nil }
