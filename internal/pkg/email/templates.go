package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names, also used as metric labels
const (
	TemplateRegistration = "registration_notice"
	TemplateApproval     = "approval_notice"
	TemplateRejection    = "rejection_notice"
	templateDirect       = "direct"
)

// Applicant carries the fields the templates render
type Applicant struct {
	FirstName     string
	LastName      string
	Email         string
	Mobile        string
	YearOfJoining int
	YearOfLeaving int
	City          string
	Country       string
}

type templateData struct {
	Applicant
	MembershipID string
	ContactEmail string
}

const layout = `{{define "header"}}<html>
<body style="font-family: 'Segoe UI', Arial, sans-serif; color: #2D2D2D; max-width: 600px; margin: 0 auto;">
  <div style="background: #8B1C3A; padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0; font-size: 28px;">EHSAS</h1>
    <p style="color: #C9A227; margin: 10px 0 0 0; font-size: 14px;">{{.}}</p>
  </div>
  <div style="padding: 30px; background: #FAF8F3;">{{end}}
{{define "footer"}}  </div>
  <div style="background: #6B0F2A; padding: 20px; text-align: center;">
    <p style="color: white; opacity: 0.7; margin: 0; font-size: 12px;">EHSAS - An official initiative of The Elden Heights School</p>
    <p style="color: white; opacity: 0.5; margin: 10px 0 0 0; font-size: 11px;">This is an automated email. Please do not reply directly.</p>
  </div>
</body>
</html>{{end}}`

const registrationBody = `{{template "header" "New Alumni Registration"}}
    <h2 style="color: #8B1C3A; margin-top: 0;">Registration Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;"><strong>Name:</strong></td><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;">{{.FirstName}} {{.LastName}}</td></tr>
      <tr><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;"><strong>Email:</strong></td><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;">{{.Email}}</td></tr>
      <tr><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;"><strong>Mobile:</strong></td><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;">{{.Mobile}}</td></tr>
      <tr><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;"><strong>Batch:</strong></td><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;">{{.YearOfJoining}} - {{.YearOfLeaving}}</td></tr>
      <tr><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;"><strong>City:</strong></td><td style="padding: 8px 0; border-bottom: 1px solid #E8E0D0;">{{.City}}, {{.Country}}</td></tr>
    </table>
    <p style="margin-top: 20px;">Please login to the admin panel to approve or reject this registration.</p>
{{template "footer"}}`

const approvalBody = `{{template "header" "Elden Heights School Alumni Society"}}
    <h2 style="color: #8B1C3A; margin-top: 0;">Congratulations, {{.FirstName}}!</h2>
    <p style="font-size: 16px; line-height: 1.6;">Your EHSAS membership has been <strong style="color: #8B1C3A;">approved</strong>. Welcome to the official alumni network of The Elden Heights School!</p>
    <div style="background: white; border: 2px solid #C9A227; padding: 25px; margin: 25px 0; text-align: center;">
      <p style="color: #4A4A4A; margin: 0 0 10px 0; font-size: 14px; text-transform: uppercase; letter-spacing: 2px;">Your EHSAS Membership ID</p>
      <p style="color: #8B1C3A; font-size: 32px; font-weight: bold; margin: 0; font-family: 'Courier New', monospace;">{{.MembershipID}}</p>
    </div>
    <p style="font-size: 15px; line-height: 1.6;">Members can browse the alumni directory, join events and reunions, and connect with fellow Eldenites for mentorship.</p>
    <p style="color: #C9A227; font-style: italic; margin-top: 25px;">"EHSAS" - where memories meet the future.</p>
{{template "footer"}}`

const rejectionBody = `{{template "header" "Elden Heights School Alumni Society"}}
    <h2 style="color: #2D2D2D; margin-top: 0;">Dear {{.FirstName}},</h2>
    <p style="font-size: 15px; line-height: 1.6;">Thank you for your interest in joining EHSAS - the Elden Heights School Alumni Society.</p>
    <p style="font-size: 15px; line-height: 1.6;">After reviewing your registration, we were unable to verify your details at this time. This is usually caused by incomplete information or enrollment records we could not match.</p>
    <p style="font-size: 15px; line-height: 1.6;">If you believe this is an error, please contact us at <a href="mailto:{{.ContactEmail}}" style="color: #8B1C3A;">{{.ContactEmail}}</a> with your details.</p>
{{template "footer"}}`

var templates = map[string]*template.Template{
	TemplateRegistration: template.Must(template.Must(template.New(TemplateRegistration).Parse(layout)).Parse(registrationBody)),
	TemplateApproval:     template.Must(template.Must(template.New(TemplateApproval).Parse(layout)).Parse(approvalBody)),
	TemplateRejection:    template.Must(template.Must(template.New(TemplateRejection).Parse(layout)).Parse(rejectionBody)),
}

func render(name string, data templateData) (string, error) {
	tmpl, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
