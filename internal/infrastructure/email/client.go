// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/email/templates"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"github.com/resendlabs/resend-go"
)

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	SendContactNotification(msg *contact.Message) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	inbox     string
}

// NewService creates a new email service client, returning the Service interface.
func NewService() (Service, error) {
	if config.ResendAPIKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable is required")
	}
	if config.ContactInbox == "" {
		return nil, fmt.Errorf("CONTACT_INBOX environment variable is required")
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		inbox:     config.ContactInbox,
	}, nil
}

// SendContactNotification composes and sends the new-message notification to the site owner.
func (c *ResendClient) SendContactNotification(msg *contact.Message) error {
	subject := fmt.Sprintf("New contact message from %s", msg.Name)

	content := templates.GetContactEmailContent(templates.ContactEmailProps{
		Name:       msg.Name,
		Email:      msg.Email,
		Message:    msg.Message,
		ReceivedAt: msg.CreatedAt,
		MessageID:  msg.ID,
	})

	htmlContent := templates.GetEmailLayout(templates.EmailLayoutProps{
		Content: content,
	})

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.inbox},
		ReplyTo: msg.Email,
		Subject: subject,
		Html:    htmlContent,
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send contact notification via Resend: %w", err)
	}

	return nil
}
