package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	contactrepo "github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/verification"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"github.com/AtRiskMedia/portfolio-go/utils"
)

// ErrInvalidSubmission indicates the submission payload failed validation.
var ErrInvalidSubmission = errors.New("invalid submission")

// ContactService handles contact endpoint submissions: verification gating,
// persistence and owner notification.
type ContactService struct {
	repo      *contactrepo.Repository
	mailer    email.Service
	verifier  verification.Verifier
	analytics *AnalyticsService
	logger    *logging.ChanneledLogger
}

// NewContactService creates the contact service. The mailer may be nil, in
// which case owner notification is skipped.
func NewContactService(repo *contactrepo.Repository, mailer email.Service, verifier verification.Verifier, analytics *AnalyticsService, logger *logging.ChanneledLogger) *ContactService {
	return &ContactService{
		repo:      repo,
		mailer:    mailer,
		verifier:  verifier,
		analytics: analytics,
		logger:    logger,
	}
}

// Submit verifies, validates and persists one contact submission, then
// notifies the site owner by email. Email failure is logged but does not
// fail the submission.
func (s *ContactService) Submit(ctx context.Context, req contact.SubmissionRequest, remoteIP string) (*contact.Message, error) {
	if s.verifier.Required() {
		if err := s.verifier.Verify(ctx, req.RecaptchaResponse, remoteIP); err != nil {
			s.logger.Contact().Warn("Submission failed verification", "error", err.Error())
			return nil, err
		}
	}

	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &contact.Message{
		ID:        security.GenerateULID(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		Status:    contact.StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	if s.mailer != nil {
		go func(msg contact.Message) {
			if err := s.mailer.SendContactNotification(&msg); err != nil {
				s.logger.Email().Error("Failed to send contact notification", "messageId", msg.ID, "error", err.Error())
			}
		}(*msg)
	}

	s.analytics.TrackEvent("Contact", "received", msg.ID, 0)
	s.logger.Contact().Info("Contact message stored", "messageId", msg.ID)
	return msg, nil
}

// List returns stored messages according to the given options.
func (s *ContactService) List(ctx context.Context, opts contact.ListOptions) ([]*contact.Message, error) {
	return s.repo.List(ctx, opts)
}

// MarkRead transitions one message to the read status.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func validateSubmission(req contact.SubmissionRequest) error {
	if utils.TrimmedLength(req.Name) < config.NameMinLength {
		return fmt.Errorf("%w: name", ErrInvalidSubmission)
	}
	if !utils.ValidateEmail(req.Email) {
		return fmt.Errorf("%w: email", ErrInvalidSubmission)
	}
	if utils.TrimmedLength(req.Message) < config.MessageMinLength || utf8.RuneCountInString(req.Message) > config.MessageMaxLength {
		return fmt.Errorf("%w: message", ErrInvalidSubmission)
	}
	return nil
}
