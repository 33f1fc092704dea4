package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendGridMailer sends mail through the SendGrid v3 API
type SendGridMailer struct {
	key    string
	host   string
	from   *sgmail.Email
	logger zerolog.Logger
}

// NewSendGridMailer creates a SendGrid backed mailer
func NewSendGridMailer(key, fromName, fromEmail string, logger zerolog.Logger) *SendGridMailer {
	return &SendGridMailer{
		key:    key,
		host:   sendgridHost,
		from:   sgmail.NewEmail(fromName, fromEmail),
		logger: logger,
	}
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(m.from)
	v3.AddPersonalizations(p)
	v3.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	return v3
}

// Send implements Mailer
func (m *SendGridMailer) Send(ctx context.Context, msg Message) error {
	req := sendgrid.GetRequest(m.key, sendgridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
