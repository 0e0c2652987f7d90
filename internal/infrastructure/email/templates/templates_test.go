package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetContactEmailContent(t *testing.T) {
	content := GetContactEmailContent(ContactEmailProps{
		Name:       "Jordan Reyes",
		Email:      "jordan@example.com",
		Message:    "Line one.\nLine two.",
		ReceivedAt: time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
		MessageID:  "01JK4W8",
	})

	assert.Contains(t, content, "Jordan Reyes")
	assert.Contains(t, content, "jordan@example.com")
	assert.Contains(t, content, "Line one.\nLine two.")
	assert.Contains(t, content, "01JK4W8")
	assert.Contains(t, content, "2026-02-03")
}

func TestContactEmailEscapesMarkup(t *testing.T) {
	content := GetContactEmailContent(ContactEmailProps{
		Name:    `<script>alert("x")</script>`,
		Email:   "a@b.co",
		Message: "<b>bold</b>",
	})

	assert.NotContains(t, content, "<script>")
	assert.NotContains(t, content, "<b>bold</b>")
}

func TestGetEmailLayout(t *testing.T) {
	layout := GetEmailLayout(EmailLayoutProps{Content: "<p>hello</p>"})

	assert.Contains(t, layout, "<!DOCTYPE html>")
	// Pre-rendered content passes through unescaped.
	assert.Contains(t, layout, "<p>hello</p>")
}
