// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
	"time"
)

// ContactEmailProps carries the fields rendered into the contact
// notification email body.
type ContactEmailProps struct {
	Name       string
	Email      string
	Message    string
	ReceivedAt time.Time
	MessageID  string
}

// EmailLayoutProps wraps pre-rendered content in the outer email shell.
type EmailLayoutProps struct {
	Content string
}

var contactTemplate = template.Must(template.New("contactEmail").Parse(`
    <h2 style="font-family: Helvetica, sans-serif; font-size: 20px; margin: 0 0 16px;">New contact message</h2>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 8px;"><strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 8px;"><strong>Received:</strong> {{.ReceivedAt.Format "2006-01-02 15:04 MST"}}</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 16px; white-space: pre-wrap;">{{.Message}}</p>
    <p style="font-family: Helvetica, sans-serif; font-size: 12px; color: #888888; margin: 0;">Message ID: {{.MessageID}}</p>`))

var layoutTemplate = template.Must(template.New("emailLayout").Parse(`<!DOCTYPE html>
<html>
  <body style="background-color: #f6f6f6; font-family: Helvetica, sans-serif; margin: 0; padding: 0;">
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%" style="background-color: #f6f6f6;">
      <tr>
        <td>&nbsp;</td>
        <td style="display: block; max-width: 580px; padding: 24px; margin: 0 auto; background-color: #ffffff; border-radius: 4px;">
          {{.Content}}
        </td>
        <td>&nbsp;</td>
      </tr>
    </table>
  </body>
</html>`))

// GetContactEmailContent renders the contact notification body.
func GetContactEmailContent(props ContactEmailProps) string {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, props); err != nil {
		log.Printf("ERROR: failed to render contact email template: %v", err)
		return ""
	}
	return buf.String()
}

// GetEmailLayout wraps the content in the outer email layout.
func GetEmailLayout(props EmailLayoutProps) string {
	var buf bytes.Buffer
	data := struct{ Content template.HTML }{Content: template.HTML(props.Content)}
	if err := layoutTemplate.Execute(&buf, data); err != nil {
		log.Printf("ERROR: failed to render email layout: %v", err)
		return props.Content
	}
	return buf.String()
}
