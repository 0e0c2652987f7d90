package cleanup

import (
	"net/http"
	"testing"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/types"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
)

func TestCleanupPrunesOnlyExpiredEntries(t *testing.T) {
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	store := stores.NewMemoryStore()
	gen, _ := store.Open("portfolio-v1")

	now := time.Now().UTC()
	gen.Put("GET /fresh", &types.Entry{
		Status: http.StatusOK, URL: "/fresh", StoredAt: now,
	})
	gen.Put("GET /stale", &types.Entry{
		Status: http.StatusOK, URL: "/stale", StoredAt: now.Add(-2 * time.Hour),
	})

	worker := NewWorker(store, Config{Interval: time.Minute, EntryTTL: time.Hour}, logger)
	worker.performCleanup()

	if _, found, _ := gen.Match("GET /fresh"); !found {
		t.Error("fresh entry must survive cleanup")
	}
	if _, found, _ := gen.Match("GET /stale"); found {
		t.Error("expired entry must be pruned")
	}
}
