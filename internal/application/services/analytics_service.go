package services

import (
	"context"
	"fmt"

	analyticsrepo "github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/analytics"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
)

// AnalyticsService is the fire-and-forget event sink. In production events
// are buffered and persisted by a background worker; otherwise they degrade
// to the analytics log channel. Emission never affects caller state.
type AnalyticsService struct {
	repo    *analyticsrepo.Repository
	logger  *logging.ChanneledLogger
	events  chan analyticsrepo.Event
	persist bool
}

// NewAnalyticsService creates the analytics sink. A nil repository or
// persist=false degrades every event to a log line.
func NewAnalyticsService(repo *analyticsrepo.Repository, persist bool, logger *logging.ChanneledLogger) *AnalyticsService {
	return &AnalyticsService{
		repo:    repo,
		logger:  logger,
		events:  make(chan analyticsrepo.Event, 256),
		persist: persist && repo != nil,
	}
}

// Start runs the persistence worker until ctx is cancelled.
func (s *AnalyticsService) Start(ctx context.Context) {
	if !s.persist {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-s.events:
			if err := s.repo.Insert(ctx, &event); err != nil {
				s.logger.Analytics().Warn("Failed to persist analytics event",
					"category", event.Category, "action", event.Action, "error", err.Error())
			}
		}
	}
}

// TrackEvent emits one event. Non-blocking: if the buffer is full the event
// is dropped after logging.
func (s *AnalyticsService) TrackEvent(category, action, label string, value int) {
	if !s.persist {
		s.logger.Analytics().Info("Analytics event",
			"category", category, "action", action, "label", label, "value", value)
		return
	}

	event := analyticsrepo.Event{Category: category, Action: action, Label: label, Value: value}
	select {
	case s.events <- event:
	default:
		s.logger.Analytics().Warn("Analytics buffer full, dropping event",
			"category", category, "action", action)
	}
}

// Summary returns persisted event counts grouped by category.
func (s *AnalyticsService) Summary(ctx context.Context) (map[string]int, error) {
	if s.repo == nil {
		return map[string]int{}, nil
	}
	return s.repo.CountByCategory(ctx)
}

// TrackFormInteraction reports a field-level interaction on a form.
func (s *AnalyticsService) TrackFormInteraction(formID, fieldName, action string) {
	s.TrackEvent("Form Interaction", action, fmt.Sprintf("%s - %s", formID, fieldName), 0)
}

// TrackFormSubmission reports a submission outcome; reason is empty on success.
func (s *AnalyticsService) TrackFormSubmission(formID, status, reason string) {
	label := formID
	value := 0
	if reason != "" {
		label = fmt.Sprintf("%s - %s", formID, reason)
		value = 1
	}
	s.TrackEvent("Form Submission", status, label, value)
}
