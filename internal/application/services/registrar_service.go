package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/utils"
	"github.com/fsnotify/fsnotify"
)

// RegistrarService owns the cache gateway lifecycle: the validity probe, the
// periodic update poll that re-installs a new generation when the deployed
// asset manifest changes, and the local asset watch that triggers the same
// re-install on disk changes.
type RegistrarService struct {
	manager *manager.Manager
	fetcher interfaces.Fetcher
	logger  *logging.ChanneledLogger

	origin          string
	manifestPath    string
	fallbackVersion string
	pollInterval    time.Duration
	watchDir        string
}

// NewRegistrarService creates the registrar for one gateway manager.
func NewRegistrarService(mgr *manager.Manager, fetcher interfaces.Fetcher, origin, manifestPath, fallbackVersion string, pollInterval time.Duration, watchDir string, logger *logging.ChanneledLogger) *RegistrarService {
	return &RegistrarService{
		manager:         mgr,
		fetcher:         fetcher,
		logger:          logger,
		origin:          strings.TrimRight(origin, "/"),
		manifestPath:    manifestPath,
		fallbackVersion: fallbackVersion,
		pollInterval:    pollInterval,
		watchDir:        watchDir,
	}
}

// Register probes the asset manifest and, when valid, installs and activates
// the generation named for its content. An unreachable origin leaves the
// gateway unregistered (network-only operation); an invalid manifest
// unregisters an already-registered gateway.
func (s *RegistrarService) Register(ctx context.Context) error {
	version, valid, reachable := s.probe(ctx)
	if !reachable {
		s.logger.Cache().Info("Asset origin unreachable, running without cache gateway")
		return nil
	}
	if !valid {
		s.manager.Unregister()
		return nil
	}

	if version == s.manager.Version() && s.manager.Registered() {
		return nil
	}

	if err := s.manager.Install(ctx, version); err != nil {
		// Previous generation remains live; install failure is silent
		// toward users.
		return fmt.Errorf("cache generation install failed: %w", err)
	}
	return s.manager.Activate(ctx, version)
}

// probe re-fetches the manifest. It returns the generation version derived
// from the manifest content plus two distinct verdicts: valid (the manifest
// looks like a manifest) and reachable (the origin answered at all). A network
// failure leaves validity undetermined; callers treat that as offline rather
// than as grounds to unregister.
func (s *RegistrarService) probe(ctx context.Context) (version string, valid, reachable bool) {
	entry, err := s.fetcher.Fetch(ctx, http.MethodGet, s.origin+s.manifestPath, nil)
	if err != nil {
		return "", false, false
	}

	contentType := entry.Header.Get("Content-Type")
	if entry.Status == http.StatusNotFound ||
		(contentType != "" && !strings.Contains(contentType, "json") && !strings.Contains(contentType, "manifest")) {
		s.logger.Cache().Warn("Asset manifest invalid, unregistering gateway",
			"status", entry.Status, "contentType", contentType)
		return "", false, true
	}
	if entry.Status != http.StatusOK {
		return s.fallbackVersion, true, true
	}

	sum := sha256.Sum256(entry.Body)
	return "portfolio-" + hex.EncodeToString(sum[:])[:8], true, true
}

// StartUpdatePolling re-checks the manifest on the configured interval and
// re-registers when its content changes.
func (s *RegistrarService) StartUpdatePolling(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Register(ctx); err != nil {
				s.logger.Cache().Error("Gateway update check failed", "error", err.Error())
			}
		}
	}
}

// WatchAssets watches the local asset directory and re-registers the
// gateway when assets change on disk. Events are debounced so one build
// touching many files triggers a single re-install.
func (s *RegistrarService) WatchAssets(ctx context.Context) error {
	if s.watchDir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create asset watcher: %w", err)
	}
	if err := watcher.Add(s.watchDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch asset dir %s: %w", s.watchDir, err)
	}

	debouncer := utils.NewDebouncer(2 * time.Second)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				debouncer.Stop()
				return
			case event, open := <-watcher.Events:
				if !open {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				debouncer.Trigger(func() {
					s.logger.Cache().Info("Asset change detected, refreshing cache generation")
					if err := s.Register(ctx); err != nil {
						s.logger.Cache().Error("Gateway refresh failed", "error", err.Error())
					}
				})
			case err, open := <-watcher.Errors:
				if !open {
					return
				}
				s.logger.Cache().Warn("Asset watcher error", "error", err.Error())
			}
		}
	}()

	s.logger.Cache().Info("Asset watcher started", "dir", s.watchDir)
	return nil
}
