package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	contactrepo "github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/verification"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []*contact.Message
}

func (f *fakeMailer) SendContactNotification(msg *contact.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeVerifier struct {
	required bool
	err      error
	tokens   []string
}

func (f *fakeVerifier) Verify(_ context.Context, token, _ string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

func (f *fakeVerifier) Required() bool { return f.required }

func newContactFixture(t *testing.T, verifier verification.Verifier) (*ContactService, *fakeMailer) {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	db, err := database.NewConnection("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mailer := &fakeMailer{}
	svc := NewContactService(
		contactrepo.NewRepository(db),
		mailer,
		verifier,
		NewAnalyticsService(nil, false, logger),
		logger)
	return svc, mailer
}

func validRequest() contact.SubmissionRequest {
	return contact.SubmissionRequest{
		Name:      "Jordan Reyes",
		Email:     "jordan@example.com",
		Message:   "I would like to discuss a collaboration.",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestContactSubmitPersistsMessage(t *testing.T) {
	svc, mailer := newContactFixture(t, verification.NewNoopVerifier())

	msg, err := svc.Submit(context.Background(), validRequest(), "203.0.113.9")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg.ID == "" {
		t.Error("expected a generated message ID")
	}
	if msg.Status != contact.StatusUnread {
		t.Errorf("status = %q, want %q", msg.Status, contact.StatusUnread)
	}

	messages, err := svc.List(context.Background(), contact.ListOptions{Status: "all"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(messages) != 1 || messages[0].Email != "jordan@example.com" {
		t.Errorf("unexpected list result: %+v", messages)
	}

	// Notification delivery is async.
	deadline := time.Now().Add(2 * time.Second)
	for mailer.sentCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if mailer.sentCount() != 1 {
		t.Errorf("expected one notification email, got %d", mailer.sentCount())
	}
}

func TestContactSubmitValidation(t *testing.T) {
	svc, _ := newContactFixture(t, verification.NewNoopVerifier())

	tests := []struct {
		name   string
		mutate func(*contact.SubmissionRequest)
	}{
		{"short name", func(r *contact.SubmissionRequest) { r.Name = "A" }},
		{"invalid email", func(r *contact.SubmissionRequest) { r.Email = "nope" }},
		{"short message", func(r *contact.SubmissionRequest) { r.Message = "too short" }},
		{"whitespace name", func(r *contact.SubmissionRequest) { r.Name = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if _, err := svc.Submit(context.Background(), req, ""); !errors.Is(err, ErrInvalidSubmission) {
				t.Errorf("expected ErrInvalidSubmission, got %v", err)
			}
		})
	}
}

func TestContactSubmitVerificationGate(t *testing.T) {
	verifier := &fakeVerifier{required: true, err: verification.ErrVerificationFailed}
	svc, mailer := newContactFixture(t, verifier)

	req := validRequest()
	req.RecaptchaResponse = "bad-token"
	if _, err := svc.Submit(context.Background(), req, "203.0.113.9"); !errors.Is(err, verification.ErrVerificationFailed) {
		t.Fatalf("expected verification failure, got %v", err)
	}
	if mailer.sentCount() != 0 {
		t.Error("failed verification must not send email")
	}

	verifier.err = nil
	req.RecaptchaResponse = "good-token"
	if _, err := svc.Submit(context.Background(), req, "203.0.113.9"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(verifier.tokens) != 2 || verifier.tokens[1] != "good-token" {
		t.Errorf("verifier saw tokens %v", verifier.tokens)
	}
}

func TestContactMarkRead(t *testing.T) {
	svc, _ := newContactFixture(t, verification.NewNoopVerifier())

	msg, err := svc.Submit(context.Background(), validRequest(), "")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.MarkRead(context.Background(), msg.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := svc.List(context.Background(), contact.ListOptions{Status: contact.StatusUnread})
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 0 {
		t.Errorf("expected no unread messages, got %d", len(unread))
	}

	if err := svc.MarkRead(context.Background(), "missing-id"); err == nil {
		t.Error("expected error for unknown message ID")
	}
}
