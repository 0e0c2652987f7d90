// Package performance provides lightweight operation timing markers for
// portfolio-go request handling and background work.
package performance

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Marker tracks one in-flight operation from start to completion.
type Marker struct {
	ID        string
	Operation string
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Success   bool
	Completed bool

	tracker *Tracker
	mu      sync.Mutex
}

// Tracker manages performance markers and aggregate operation stats.
type Tracker struct {
	mu         sync.RWMutex
	markers    map[string]*Marker
	maxMarkers int
	started    time.Time
}

// OperationStats summarizes completed markers for one operation name.
type OperationStats struct {
	Operation string        `json:"operation"`
	Count     int           `json:"count"`
	Failures  int           `json:"failures"`
	Total     time.Duration `json:"total"`
	Max       time.Duration `json:"max"`
}

// NewTracker creates a performance tracker retaining up to maxMarkers markers.
func NewTracker(maxMarkers int) *Tracker {
	if maxMarkers <= 0 {
		maxMarkers = 10000
	}
	return &Tracker{
		markers:    make(map[string]*Marker),
		maxMarkers: maxMarkers,
		started:    time.Now().UTC(),
	}
}

// StartOperation begins tracking a named operation and returns its marker.
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		ID:        ulid.Make().String(),
		Operation: operation,
		StartTime: time.Now().UTC(),
		Success:   true,
		tracker:   t,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.markers) >= t.maxMarkers {
		t.evictOldestLocked()
	}
	t.markers[marker.ID] = marker
	return marker
}

// Complete finalizes the marker, recording its duration.
func (m *Marker) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Completed {
		return
	}
	m.EndTime = time.Now().UTC()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess records whether the tracked operation succeeded.
func (m *Marker) SetSuccess(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Success = success
}

// Stats aggregates completed markers grouped by operation name.
func (t *Tracker) Stats() map[string]*OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[string]*OperationStats)
	for _, marker := range t.markers {
		if !marker.Completed {
			continue
		}
		s, ok := stats[marker.Operation]
		if !ok {
			s = &OperationStats{Operation: marker.Operation}
			stats[marker.Operation] = s
		}
		s.Count++
		s.Total += marker.Duration
		if marker.Duration > s.Max {
			s.Max = marker.Duration
		}
		if !marker.Success {
			s.Failures++
		}
	}
	return stats
}

// Uptime reports how long the tracker has been running.
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

func (t *Tracker) evictOldestLocked() {
	var oldestID string
	var oldestTime time.Time
	for id, marker := range t.markers {
		if oldestID == "" || marker.StartTime.Before(oldestTime) {
			oldestID = id
			oldestTime = marker.StartTime
		}
	}
	if oldestID != "" {
		delete(t.markers, oldestID)
	}
}
