// Package types defines the shared cache gateway data structures
package types

import (
	"net/http"
	"time"
)

// Entry is a stored response snapshot for one request key: status, headers,
// body, the final URL the response came from, and the storage timestamp.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	URL      string      `json:"url"`
	StoredAt time.Time   `json:"storedAt"`
}

// Clone returns a deep copy of the entry so callers can mutate headers or
// body without affecting the stored snapshot.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := &Entry{
		Status:   e.Status,
		Header:   make(http.Header, len(e.Header)),
		Body:     make([]byte, len(e.Body)),
		URL:      e.URL,
		StoredAt: e.StoredAt,
	}
	for k, vs := range e.Header {
		clone.Header[k] = append([]string(nil), vs...)
	}
	copy(clone.Body, e.Body)
	return clone
}

// EntryKey builds the request identity key: method plus canonical URL.
func EntryKey(method, url string) string {
	return method + " " + url
}

// Action is the caching decision for one intercepted request.
type Action int

const (
	// ActionPassThrough leaves the request completely unhandled.
	ActionPassThrough Action = iota
	// ActionNetworkFirst fetches from the origin, caching successes and
	// falling back to the cache on network failure.
	ActionNetworkFirst
	// ActionCacheFirst serves a cached snapshot when present, fetching and
	// caching from the origin otherwise.
	ActionCacheFirst
)

// String implements fmt.Stringer for log output.
func (a Action) String() string {
	switch a {
	case ActionNetworkFirst:
		return "network-first"
	case ActionCacheFirst:
		return "cache-first"
	default:
		return "pass-through"
	}
}

// PushPayload is the JSON body delivered to the push path.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	URL   string `json:"url"`
}

// NotificationData carries the target metadata attached to a notification.
type NotificationData struct {
	URL string `json:"url"`
}

// Notification is the displayable notification derived from a push payload,
// with fallback strings applied for any absent fields.
type Notification struct {
	Title string           `json:"title"`
	Body  string           `json:"body"`
	Icon  string           `json:"icon"`
	Badge string           `json:"badge"`
	Data  NotificationData `json:"data"`
}
