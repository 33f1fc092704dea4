package email

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
	boom bool
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	if m.boom {
		panic("smtp exploded")
	}
	if m.err != nil {
		return m.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func testApplicant() Applicant {
	return Applicant{
		FirstName:     "Asha",
		LastName:      "Rao",
		Email:         " asha@example.com ",
		Mobile:        "9876543210",
		YearOfJoining: 2008,
		YearOfLeaving: 2020,
		City:          "Pune",
		Country:       "India",
	}
}

func newTestDispatcher(m Mailer) *Dispatcher {
	return NewDispatcher(m, DispatcherConfig{OperatorAddress: "ops@ehsas.org", Timeout: time.Second}, zerolog.Nop())
}

func TestDispatcher_Templates(t *testing.T) {
	mailer := &recordingMailer{}
	d := newTestDispatcher(mailer)
	ctx := context.Background()

	require.True(t, d.SendRegistrationNotice(ctx, testApplicant()))
	require.True(t, d.SendApprovalNotice(ctx, testApplicant(), "EH200001"))
	require.True(t, d.SendRejectionNotice(ctx, testApplicant()))
	require.Len(t, mailer.sent, 3)

	reg := mailer.sent[0]
	assert.Equal(t, "ops@ehsas.org", reg.To)
	assert.Equal(t, "New Alumni Registration - Asha Rao", reg.Subject)
	assert.Contains(t, reg.HTMLBody, "2008 - 2020")
	assert.Contains(t, reg.HTMLBody, "Pune, India")

	approval := mailer.sent[1]
	assert.Equal(t, "asha@example.com", approval.To)
	assert.Equal(t, "Welcome to EHSAS! Your Membership ID: EH200001", approval.Subject)
	assert.Contains(t, approval.HTMLBody, "EH200001")
	assert.Contains(t, approval.HTMLBody, "Congratulations, Asha!")

	rejection := mailer.sent[2]
	assert.Equal(t, "EHSAS Registration Update", rejection.Subject)
	assert.Contains(t, rejection.HTMLBody, ">ops@ehsas.org</a>")
}

func TestDispatcher_EscapesApplicantInput(t *testing.T) {
	mailer := &recordingMailer{}
	a := testApplicant()
	a.FirstName = "<script>alert(1)</script>"

	require.True(t, newTestDispatcher(mailer).SendApprovalNotice(context.Background(), a, "EH200001"))
	assert.NotContains(t, mailer.sent[0].HTMLBody, "<script>")
}

func TestDispatcher_NeverFails(t *testing.T) {
	tests := []struct {
		name   string
		mailer *recordingMailer
		to     string
	}{
		{"mailer error", &recordingMailer{err: errors.New("connection refused")}, "a@example.com"},
		{"mailer panic", &recordingMailer{boom: true}, "a@example.com"},
		{"blank recipient", &recordingMailer{}, "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDispatcher(tt.mailer)
			assert.NotPanics(t, func() {
				assert.False(t, d.Send(context.Background(), tt.to, "subject", "<p>hi</p>"))
			})
		})
	}
}

func TestSMTPMailer_BuildMessage(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{FromName: "EHSAS", FromEmail: "ehsas@example.org"}, zerolog.Nop())
	raw := string(m.buildMessage(Message{To: "a@example.com", Subject: "Hello", HTMLBody: "<p>body</p>"}))

	assert.True(t, strings.HasPrefix(raw, "From: \"EHSAS\" <ehsas@example.org>\r\n"))
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>body</p>"))
}

func TestSMTPMailer_BuildMessageKeepsHeadersOnOneLine(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{FromName: "EHSAS\r\nX-Injected: 1", FromEmail: "ehsas@example.org"}, zerolog.Nop())
	raw := string(m.buildMessage(Message{
		To:       "ops@example.org\nCc: all@example.org",
		Subject:  "New Alumni Registration - Asha\r\nBcc: x@evil.test Rao",
		HTMLBody: "<p>body</p>",
	}))

	head, _, found := strings.Cut(raw, "\r\n\r\n")
	require.True(t, found)
	lines := strings.Split(head, "\r\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.NotContains(t, line, "\n")
		assert.NotContains(t, line, "\r")
	}
	for _, name := range []string{"Bcc:", "Cc:", "X-Injected:"} {
		for _, line := range lines {
			assert.False(t, strings.HasPrefix(line, name), "unexpected header line %q", line)
		}
	}
	assert.Contains(t, head, "Subject: New Alumni Registration - Asha  Bcc: x@evil.test Rao\r\n")
}

func TestSendGridMailer_Send(t *testing.T) {
	var payload map[string]interface{}
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		if strings.Contains(string(body), "fail@example.com") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m := NewSendGridMailer("sg-key", "EHSAS", "ehsas@example.org", zerolog.Nop())
	m.host = server.URL

	err := m.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", HTMLBody: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, "ehsas@example.org", payload["from"].(map[string]interface{})["email"])

	err = m.Send(context.Background(), Message{To: "fail@example.com", Subject: "Hi", HTMLBody: "<p>x</p>"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf strings.Builder
	m := NewLogMailer(zerolog.New(&buf))
	require.NoError(t, m.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi"}))
	assert.Contains(t, buf.String(), "a@example.com")
}
