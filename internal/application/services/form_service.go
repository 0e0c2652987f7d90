// Package services provides the singleton application services
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/forms"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/drafts"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
	"github.com/AtRiskMedia/portfolio-go/utils"
)

// User-facing validation and error messages.
const (
	msgNameRequired     = "Name is required"
	msgNameTooShort     = "Name is too short"
	msgEmailRequired    = "Email is required"
	msgEmailInvalid     = "Please enter a valid email address"
	msgMessageRequired  = "Message is required"
	msgMessageTooShort  = "Message should be at least 10 characters long"
	msgRecaptchaMissing = "Please complete the reCAPTCHA"
	msgRecaptchaFailed  = "Failed to load reCAPTCHA. Please refresh the page."
	msgRateLimited      = "Too many attempts. Please try again in a minute."
)

// SubmissionClient is the fetch-style transport used to post the contact
// payload to the submission endpoint.
type SubmissionClient interface {
	Post(ctx context.Context, endpoint string, body []byte) (int, error)
}

// HTTPSubmissionClient posts JSON payloads over HTTP.
type HTTPSubmissionClient struct {
	client *http.Client
}

var _ SubmissionClient = (*HTTPSubmissionClient)(nil)

// NewHTTPSubmissionClient creates a submission client. A nil http client
// falls back to a default with a 30s timeout.
func NewHTTPSubmissionClient(client *http.Client) *HTTPSubmissionClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSubmissionClient{client: client}
}

// Post sends the payload and returns the response status code.
func (c *HTTPSubmissionClient) Post(ctx context.Context, endpoint string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("submission request failed: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// FormService owns the contact form lifecycle per session: field mutation,
// blur validation, draft persistence, rate limiting, verification gating,
// submission and recovery. All state transitions happen under the session
// lock; the network call runs outside it.
type FormService struct {
	mu       sync.Mutex
	sessions map[string]*formSession

	drafts    drafts.Store
	submitter SubmissionClient
	analytics *AnalyticsService
	logger    *logging.ChanneledLogger

	endpoint             string
	verificationRequired bool
	draftKeyPrefix       string
	draftDebounce        time.Duration
	successReset         time.Duration
	rateLimitWindow      time.Duration
	rateLimitMaxTries    int

	// Injectable clocks for deterministic tests.
	now   func() time.Time
	after func(d time.Duration, fn func())
}

type formSession struct {
	mu        sync.Mutex
	state     *forms.State
	ledger    forms.AttemptLedger
	debouncer *utils.Debouncer
	gone      bool
}

// NewFormService creates the form controller service.
func NewFormService(draftStore drafts.Store, submitter SubmissionClient, analytics *AnalyticsService, logger *logging.ChanneledLogger) *FormService {
	return &FormService{
		sessions:             make(map[string]*formSession),
		drafts:               draftStore,
		submitter:            submitter,
		analytics:            analytics,
		logger:               logger,
		endpoint:             config.ContactEndpoint,
		verificationRequired: config.IsProduction(),
		draftKeyPrefix:       config.DraftStorageKey,
		draftDebounce:        config.DraftDebounce,
		successReset:         config.SuccessResetDelay,
		rateLimitWindow:      config.RateLimitWindow,
		rateLimitMaxTries:    config.RateLimitMaxTries,
		now:                  func() time.Time { return time.Now().UTC() },
		after:                func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

func (s *FormService) draftKey(sessionID string) string {
	return s.draftKeyPrefix + ":" + sessionID
}

// session returns the state container for sessionID, creating it seeded from
// a persisted draft if one exists.
func (s *FormService) session(sessionID string) *formSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[sessionID]; exists {
		return session
	}

	var draft *forms.Draft
	if loaded, found, err := s.drafts.Load(s.draftKey(sessionID)); err != nil {
		s.logger.Form().Warn("Failed to load form draft", "sessionId", sessionID, "error", err.Error())
	} else if found {
		draft = loaded
	}

	session := &formSession{
		state:     forms.NewState(draft),
		debouncer: utils.NewDebouncer(s.draftDebounce),
	}
	s.sessions[sessionID] = session
	return session
}

// GetState returns a snapshot of the session's form state.
func (s *FormService) GetState(sessionID string) forms.State {
	session := s.session(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()
	return snapshotState(session.state)
}

// HandleFieldChange updates one field, optimistically clears its error,
// recomputes the character count for the message field, schedules a
// debounced draft write and emits an interaction event. The persistence is
// fire-and-forget and never blocks the calling event.
func (s *FormService) HandleFieldChange(sessionID, field, value string) (forms.State, error) {
	session := s.session(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	switch field {
	case forms.FieldName:
		session.state.Name = value
	case forms.FieldEmail:
		session.state.Email = value
	case forms.FieldMessage:
		session.state.Message = value
		session.state.CharacterCount = utf8.RuneCountInString(value)
	default:
		return snapshotState(session.state), fmt.Errorf("unknown form field: %s", field)
	}

	delete(session.state.Errors, field)
	session.state.LastInteraction = s.now()

	draft := forms.Draft{
		Name:    session.state.Name,
		Email:   session.state.Email,
		Message: session.state.Message,
	}
	key := s.draftKey(sessionID)
	session.debouncer.Trigger(func() {
		if err := s.drafts.Save(key, &draft); err != nil {
			s.logger.Form().Warn("Failed to save form draft", "sessionId", sessionID, "error", err.Error())
		}
	})

	s.analytics.TrackFormInteraction("contact", field, "input")
	return snapshotState(session.state), nil
}

// HandleBlur validates one field on blur: required checks everywhere, plus
// the length bounds for the message field.
func (s *FormService) HandleBlur(sessionID, field string) forms.State {
	session := s.session(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	state := session.state
	switch field {
	case forms.FieldName:
		if utils.TrimmedLength(state.Name) == 0 {
			state.Errors[forms.FieldName] = msgNameRequired
		}
	case forms.FieldEmail:
		if utils.TrimmedLength(state.Email) == 0 {
			state.Errors[forms.FieldEmail] = msgEmailRequired
		}
	case forms.FieldMessage:
		switch {
		case utils.TrimmedLength(state.Message) == 0:
			state.Errors[forms.FieldMessage] = msgMessageRequired
		case utils.TrimmedLength(state.Message) < config.MessageMinLength:
			state.Errors[forms.FieldMessage] = msgMessageTooShort
		case utf8.RuneCountInString(state.Message) > config.MessageMaxLength:
			state.Errors[forms.FieldMessage] = fmt.Sprintf("Message exceeds %d characters", config.MessageMaxLength)
		default:
			delete(state.Errors, forms.FieldMessage)
		}
	}
	return snapshotState(state)
}

// HandleVerification stores the verification token on success; on failure it
// clears any stored token and surfaces a reload instruction.
func (s *FormService) HandleVerification(sessionID, token string, ok bool) forms.State {
	session := s.session(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	if ok {
		session.state.RecaptchaToken = token
		delete(session.state.Errors, forms.FieldRecaptcha)
	} else {
		session.state.RecaptchaToken = ""
		session.state.Errors[forms.FieldRecaptcha] = msgRecaptchaFailed
	}
	return snapshotState(session.state)
}

// SetFieldError surfaces an error for one field directly.
func (s *FormService) SetFieldError(sessionID, field, message string) forms.State {
	session := s.session(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()
	session.state.Errors[field] = message
	return snapshotState(session.state)
}

// Clear wipes the form after explicit confirmation. A declined confirmation
// leaves every field unchanged.
func (s *FormService) Clear(sessionID string, confirmed bool) forms.State {
	session := s.session(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	if !confirmed {
		return snapshotState(session.state)
	}

	session.debouncer.Stop()
	session.state.Name = ""
	session.state.Email = ""
	session.state.Message = ""
	session.state.Errors = make(map[string]string)
	session.state.CharacterCount = 0
	session.state.RecaptchaToken = ""

	if err := s.drafts.Remove(s.draftKey(sessionID)); err != nil {
		s.logger.Form().Warn("Failed to remove form draft", "sessionId", sessionID, "error", err.Error())
	}

	s.analytics.TrackFormInteraction("contact", "form", "cleared")
	return snapshotState(session.state)
}

// Submit runs the authoritative validation gate and, when the form is valid,
// posts the sanitized payload to the submission endpoint.
func (s *FormService) Submit(ctx context.Context, sessionID string) forms.State {
	session := s.session(sessionID)
	now := s.now()

	s.analytics.TrackFormInteraction("contact", "form", "submission_attempt")

	session.mu.Lock()

	// Rate limit check runs before any field validation.
	if session.ledger.Limited(now, s.rateLimitWindow, s.rateLimitMaxTries) {
		session.state.Error = msgRateLimited
		session.ledger.Record(now)
		state := snapshotState(session.state)
		session.mu.Unlock()
		s.analytics.TrackFormSubmission("contact", "error", "rate_limit_exceeded")
		return state
	}

	if !s.validateLocked(session.state, now) {
		session.ledger.Record(now)
		state := snapshotState(session.state)
		session.mu.Unlock()
		return state
	}

	session.ledger.Record(now)
	session.state.IsSubmitting = true
	session.state.Error = ""

	payload := map[string]string{
		"name":                 utils.SanitizeInput(session.state.Name),
		"email":                utils.SanitizeInput(session.state.Email),
		"message":              utils.SanitizeInput(session.state.Message),
		"g-recaptcha-response": session.state.RecaptchaToken,
		"timestamp":            now.Format(time.RFC3339),
	}
	session.mu.Unlock()

	body, err := json.Marshal(payload)
	var status int
	if err == nil {
		status, err = s.submitter.Post(ctx, s.endpoint, body)
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// A stale response must not mutate state after teardown.
	if session.gone {
		return snapshotState(session.state)
	}

	session.state.IsSubmitting = false

	if err != nil || status < 200 || status >= 300 {
		message := fmt.Sprintf("HTTP error! status: %d", status)
		if err != nil {
			message = err.Error()
		}
		session.state.Error = message
		session.state.RecaptchaToken = ""
		s.logger.Form().Error("Form submission failed", "sessionId", sessionID, "status", status, "error", message)
		s.analytics.TrackFormSubmission("contact", "error", message)
		return snapshotState(session.state)
	}

	session.state.IsSuccess = true
	session.state.Name = ""
	session.state.Email = ""
	session.state.Message = ""
	session.state.CharacterCount = 0
	session.state.RecaptchaToken = ""
	session.state.Error = ""

	if err := s.drafts.Remove(s.draftKey(sessionID)); err != nil {
		s.logger.Form().Warn("Failed to remove form draft", "sessionId", sessionID, "error", err.Error())
	}

	s.analytics.TrackFormSubmission("contact", "success", "")
	s.logger.Form().Info("Form submission succeeded", "sessionId", sessionID)

	s.after(s.successReset, func() {
		session.mu.Lock()
		defer session.mu.Unlock()
		if !session.gone {
			session.state.IsSuccess = false
		}
	})

	return snapshotState(session.state)
}

// validateLocked runs full field validation, collecting every violation into
// the errors map. Caller holds the session lock.
func (s *FormService) validateLocked(state *forms.State, now time.Time) bool {
	valid := true

	if utils.TrimmedLength(state.Name) == 0 {
		state.Errors[forms.FieldName] = msgNameRequired
		valid = false
	} else if utils.TrimmedLength(state.Name) < config.NameMinLength {
		state.Errors[forms.FieldName] = msgNameTooShort
		valid = false
	}

	if utils.TrimmedLength(state.Email) == 0 {
		state.Errors[forms.FieldEmail] = msgEmailRequired
		valid = false
	} else if !utils.ValidateEmail(state.Email) {
		state.Errors[forms.FieldEmail] = msgEmailInvalid
		valid = false
	}

	if utils.TrimmedLength(state.Message) == 0 {
		state.Errors[forms.FieldMessage] = msgMessageRequired
		valid = false
	} else if utils.TrimmedLength(state.Message) < config.MessageMinLength {
		state.Errors[forms.FieldMessage] = msgMessageTooShort
		valid = false
	} else if utf8.RuneCountInString(state.Message) > config.MessageMaxLength {
		state.Errors[forms.FieldMessage] = fmt.Sprintf("Message exceeds %d characters", config.MessageMaxLength)
		valid = false
	}

	if s.verificationRequired && state.RecaptchaToken == "" {
		state.Errors[forms.FieldRecaptcha] = msgRecaptchaMissing
		valid = false
	}

	state.LastInteraction = now
	return valid
}

// Flush runs any pending draft write immediately.
func (s *FormService) Flush(sessionID string) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	s.mu.Unlock()
	if exists {
		session.debouncer.Flush()
	}
}

// Teardown flushes the draft and discards the session's state container.
// Responses arriving after teardown become no-ops.
func (s *FormService) Teardown(sessionID string) {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	if exists {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !exists {
		return
	}

	session.debouncer.Flush()
	session.mu.Lock()
	session.gone = true
	session.mu.Unlock()
}

func snapshotState(state *forms.State) forms.State {
	snapshot := *state
	snapshot.Errors = make(map[string]string, len(state.Errors))
	for k, v := range state.Errors {
		snapshot.Errors[k] = v
	}
	return snapshot
}
