// Package forms defines the contact form state machine entities
package forms

import "time"

// Field names accepted by the form controller.
const (
	FieldName      = "name"
	FieldEmail     = "email"
	FieldMessage   = "message"
	FieldRecaptcha = "recaptcha"
)

// State is the single source of truth for one in-progress contact
// submission. isSubmitting and isSuccess are never simultaneously true, and
// Errors only holds entries for currently-invalid fields.
type State struct {
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Message         string            `json:"message"`
	Errors          map[string]string `json:"errors"`
	IsSubmitting    bool              `json:"isSubmitting"`
	IsSuccess       bool              `json:"isSuccess"`
	Error           string            `json:"error,omitempty"`
	CharacterCount  int               `json:"characterCount"`
	RecaptchaToken  string            `json:"-"`
	LastInteraction time.Time         `json:"lastInteraction"`
}

// NewState creates an empty form state, optionally seeded from a draft.
func NewState(draft *Draft) *State {
	state := &State{Errors: make(map[string]string)}
	if draft != nil {
		state.Name = draft.Name
		state.Email = draft.Email
		state.Message = draft.Message
		state.CharacterCount = len(draft.Message)
	}
	return state
}

// Draft is the durable, best-effort snapshot of the three content fields.
// Security and ephemeral fields (errors, verification token) are never
// persisted.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Empty reports whether the draft has no content worth persisting.
func (d *Draft) Empty() bool {
	return d.Name == "" && d.Email == "" && d.Message == ""
}

// AttemptLedger holds the process-local rate-limit counters. It is never
// persisted, so a full restart resets it.
type AttemptLedger struct {
	LastSubmissionTime time.Time
	SubmissionAttempts int
}

// Record stamps one submission attempt.
func (l *AttemptLedger) Record(now time.Time) {
	l.SubmissionAttempts++
	l.LastSubmissionTime = now
}

// Limited reports whether an attempt at now falls inside the rate-limit
// window with the attempt budget already spent. Counters are not reset by
// successful submissions, only by window expiry.
func (l *AttemptLedger) Limited(now time.Time, window time.Duration, maxTries int) bool {
	return now.Sub(l.LastSubmissionTime) < window && l.SubmissionAttempts >= maxTries
}
