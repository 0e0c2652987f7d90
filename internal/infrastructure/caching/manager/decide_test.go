package manager

import (
	"testing"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		method string
		url    string
		want   types.Action
	}{
		{"static page is cache-first", "GET", "http://localhost:4321/index.html", types.ActionCacheFirst},
		{"root is cache-first", "GET", "http://localhost:4321/", types.ActionCacheFirst},
		{"api path is network-first", "GET", "http://localhost:4321/api/portfolio", types.ActionNetworkFirst},
		{"nested api path is network-first", "GET", "https://example.com/v2/api/things", types.ActionNetworkFirst},
		{"post passes through", "POST", "http://localhost:4321/api/contact", types.ActionPassThrough},
		{"put passes through", "PUT", "http://localhost:4321/thing", types.ActionPassThrough},
		{"delete passes through", "DELETE", "http://localhost:4321/thing", types.ActionPassThrough},
		{"chrome extension scheme passes through", "GET", "chrome-extension://abcdef/page.html", types.ActionPassThrough},
		{"data url passes through", "GET", "data:text/plain,hello", types.ActionPassThrough},
		{"https is eligible", "GET", "https://example.com/style.css", types.ActionCacheFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.method, tt.url, "/api/"); got != tt.want {
				t.Errorf("Decide(%s %s) = %s, want %s", tt.method, tt.url, got, tt.want)
			}
		})
	}
}
