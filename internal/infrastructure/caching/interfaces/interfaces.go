// Package interfaces defines the cache gateway contracts
package interfaces

import (
	"context"
	"net/http"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
)

// Generation is one named cache generation holding request-keyed snapshots.
// Keys are unique within a generation; a Put for an existing key overwrites.
type Generation interface {
	Name() string
	Match(key string) (*types.Entry, bool, error)
	Put(key string, entry *types.Entry) error
	Keys() ([]string, error)
	Delete(key string) error
}

// Store is the durable cache store: open-by-name plus generation enumeration
// and whole-generation deletion. These five primitives (open, match, put,
// keys, delete) are the only storage capabilities the gateway depends on.
type Store interface {
	Open(name string) (Generation, error)
	Names() ([]string, error)
	Delete(name string) error
}

// Fetcher performs an origin fetch for an intercepted request and returns the
// response snapshot. Implementations resolve paths against the asset origin.
type Fetcher interface {
	Fetch(ctx context.Context, method, url string, header http.Header) (*types.Entry, error)
}

// NotificationSurface displays notifications derived from push payloads.
type NotificationSurface interface {
	Show(notification types.Notification) error
}
