package handlers

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// GatewayHandlers serves site assets through the cache gateway. Requests the
// gateway declines to handle fall through to a reverse proxy against the
// asset origin.
type GatewayHandlers struct {
	manager     *manager.Manager
	origin      *url.URL
	proxy       *httputil.ReverseProxy
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewGatewayHandlers creates gateway handlers for one asset origin.
func NewGatewayHandlers(mgr *manager.Manager, origin string, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) (*GatewayHandlers, error) {
	originURL, err := url.Parse(origin)
	if err != nil {
		return nil, err
	}

	proxy := httputil.NewSingleHostReverseProxy(originURL)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Cache().Warn("Origin proxy failed", "path", r.URL.Path, "error", err.Error())
		w.WriteHeader(http.StatusBadGateway)
	}

	return &GatewayHandlers{
		manager:     mgr,
		origin:      originURL,
		proxy:       proxy,
		logger:      logger,
		perfTracker: perfTracker,
	}, nil
}

// ServeAsset is the catch-all handler for non-API paths. Cached entries are
// replayed verbatim; a cache and network miss yields 504.
func (h *GatewayHandlers) ServeAsset(c *gin.Context) {
	marker := h.perfTracker.StartOperation("gateway_fetch")
	defer marker.Complete()

	rawURL := h.origin.Scheme + "://" + h.origin.Host + c.Request.RequestURI
	entry, handled, err := h.manager.HandleFetch(c.Request.Context(), c.Request.Method, rawURL, c.Request.Header)
	if !handled {
		h.proxy.ServeHTTP(c.Writer, c.Request)
		return
	}
	if err != nil {
		h.logger.Cache().Error("Gateway fetch failed", "url", rawURL, "error", err.Error())
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream fetch failed"})
		return
	}
	if entry == nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "offline and not cached"})
		return
	}

	marker.SetSuccess(true)
	header := c.Writer.Header()
	for key, values := range entry.Header {
		if key == "Content-Type" {
			continue
		}
		for _, value := range values {
			header.Add(key, value)
		}
	}
	c.Data(entry.Status, entry.Header.Get("Content-Type"), entry.Body)
}

// PostSync handles POST /api/v1/gateway/sync - replays a queued background
// sync tag.
func (h *GatewayHandlers) PostSync(c *gin.Context) {
	tag := c.DefaultPostForm("tag", manager.SyncTagForm)
	if err := h.manager.HandleSync(c.Request.Context(), tag); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// GetStatus handles GET /api/v1/gateway/status.
func (h *GatewayHandlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"registered": h.manager.Registered(),
		"version":    h.manager.Version(),
	})
}
