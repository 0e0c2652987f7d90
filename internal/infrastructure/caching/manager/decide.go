package manager

import (
	"net/http"
	"strings"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
)

// Decide is the pure strategy decision for one intercepted request. Only GET
// requests for web-standard schemes are cache candidates; data/API paths get
// network-first, everything else cache-first.
func Decide(method, rawURL, apiMarker string) types.Action {
	if method != http.MethodGet {
		return types.ActionPassThrough
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return types.ActionPassThrough
	}
	if strings.Contains(rawURL, apiMarker) {
		return types.ActionNetworkFirst
	}
	return types.ActionCacheFirst
}
