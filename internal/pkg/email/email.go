package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
)

// Message is a single outbound HTML email
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers a message or reports why it could not
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// SMTPMailer sends mail through an SMTP relay. Port 465 uses implicit TLS,
// other ports upgrade with STARTTLS when the server offers it.
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: config,
		logger: logger,
	}
}

// Send implements Mailer
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	serverAddress := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var (
		conn net.Conn
		err  error
	)
	if m.config.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: m.config.Host}}).DialContext(ctx, "tcp", serverAddress)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", serverAddress)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server %s: %w", serverAddress, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok && m.config.Port != 465 {
		if err = client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	if m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(m.buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (m *SMTPMailer) buildMessage(msg Message) []byte {
	from := mail.Address{Name: m.config.FromName, Address: m.config.FromEmail}
	headers := [][2]string{
		{"From", from.String()},
		{"To", headerValue(msg.To)},
		{"Subject", mime.QEncoding.Encode("utf-8", headerValue(msg.Subject))},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h[0], h[1])
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	return []byte(b.String())
}

// headerValue folds control characters to spaces so a value stays on its header line
func headerValue(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, v)
}

// LogMailer only logs messages. Used when no mail provider is configured.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a mailer that logs instead of sending
func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements Mailer
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("bodyBytes", len(msg.HTMLBody)).
		Msg("Email provider not configured - message logged instead of sent")
	return nil
}
