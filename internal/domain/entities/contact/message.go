// Package contact defines the contact message entities
package contact

import "time"

// Message statuses.
const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

// Message represents a message submitted via the contact form.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListOptions carries filter and pagination parameters for listing contact
// messages. An empty or "all" status returns every message.
type ListOptions struct {
	Status string
	Limit  int
	Offset int
}

// SubmissionRequest is the JSON body accepted by the contact endpoint.
type SubmissionRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Message           string `json:"message"`
	RecaptchaResponse string `json:"g-recaptcha-response"`
	Timestamp         string `json:"timestamp"`
}
