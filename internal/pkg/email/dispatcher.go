package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/pkg/metrics"
)

const defaultSendTimeout = 10 * time.Second

// DispatcherConfig configures a Dispatcher
type DispatcherConfig struct {
	// OperatorAddress receives registration notices
	OperatorAddress string
	// ContactAddress is shown to rejected applicants
	ContactAddress string
	Timeout        time.Duration
}

// Dispatcher renders notification templates and hands them to a Mailer.
// Delivery is best effort: every method reports success as a bool and never returns an error.
type Dispatcher struct {
	mailer Mailer
	config DispatcherConfig
	logger zerolog.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(mailer Mailer, config DispatcherConfig, logger zerolog.Logger) *Dispatcher {
	if config.Timeout <= 0 {
		config.Timeout = defaultSendTimeout
	}
	if config.ContactAddress == "" {
		config.ContactAddress = config.OperatorAddress
	}
	return &Dispatcher{
		mailer: mailer,
		config: config,
		logger: logger,
	}
}

// Send delivers an already rendered message
func (d *Dispatcher) Send(ctx context.Context, to, subject, htmlBody string) bool {
	return d.deliver(ctx, templateDirect, Message{To: to, Subject: subject, HTMLBody: htmlBody})
}

// SendRegistrationNotice tells the operator inbox about a new registration
func (d *Dispatcher) SendRegistrationNotice(ctx context.Context, a Applicant) bool {
	subject := fmt.Sprintf("New Alumni Registration - %s %s", a.FirstName, a.LastName)
	return d.renderAndDeliver(ctx, TemplateRegistration, d.config.OperatorAddress, subject, templateData{Applicant: a})
}

// SendApprovalNotice sends the applicant their membership ID
func (d *Dispatcher) SendApprovalNotice(ctx context.Context, a Applicant, membershipID string) bool {
	subject := fmt.Sprintf("Welcome to EHSAS! Your Membership ID: %s", membershipID)
	return d.renderAndDeliver(ctx, TemplateApproval, a.Email, subject, templateData{Applicant: a, MembershipID: membershipID})
}

// SendRejectionNotice tells the applicant their registration was not accepted
func (d *Dispatcher) SendRejectionNotice(ctx context.Context, a Applicant) bool {
	return d.renderAndDeliver(ctx, TemplateRejection, a.Email, "EHSAS Registration Update",
		templateData{Applicant: a, ContactEmail: d.config.ContactAddress})
}

func (d *Dispatcher) renderAndDeliver(ctx context.Context, name, to, subject string, data templateData) bool {
	body, err := render(name, data)
	if err != nil {
		d.logger.Error().Err(err).Str("template", name).Msg("Failed to render email")
		metrics.EmailsSent.WithLabelValues(name, "failed").Inc()
		return false
	}
	return d.deliver(ctx, name, Message{To: to, Subject: subject, HTMLBody: body})
}

func (d *Dispatcher) deliver(ctx context.Context, name string, msg Message) (sent bool) {
	msg.To = strings.TrimSpace(msg.To)
	if msg.To == "" {
		d.logger.Warn().Str("template", name).Msg("Email skipped: missing recipient")
		metrics.EmailsSent.WithLabelValues(name, "skipped").Inc()
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().Interface("panic", r).Str("template", name).Str("to", msg.To).Msg("Mailer panicked")
			metrics.EmailsSent.WithLabelValues(name, "failed").Inc()
			sent = false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.Error().Err(err).Str("template", name).Str("to", msg.To).Msg("Failed to send email")
		metrics.EmailsSent.WithLabelValues(name, "failed").Inc()
		return false
	}

	d.logger.Info().Str("template", name).Str("to", msg.To).Msg("Email sent")
	metrics.EmailsSent.WithLabelValues(name, "sent").Inc()
	return true
}
