// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/AtRiskMedia/portfolio-go/internal/application/services"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/caching/manager"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/email"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/performance"
	analyticsrepo "github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/analytics"
	contactrepo "github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/contact"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/persistence/drafts"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/verification"
	"github.com/AtRiskMedia/portfolio-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	FormService      *services.FormService
	ContactService   *services.ContactService
	ContentService   *services.ContentService
	AnalyticsService *services.AnalyticsService
	AuthService      *services.AuthService

	// Infrastructure Dependencies
	DB             *database.DB
	CacheManager   *manager.Manager
	Broadcaster    *messaging.PushBroadcaster
	MediaProcessor *media.Processor
	Logger         *logging.ChanneledLogger
	PerfTracker    *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, cacheManager *manager.Manager, broadcaster *messaging.PushBroadcaster, logger *logging.ChanneledLogger) *Container {
	perfTracker := performance.NewTracker(1000)

	analyticsService := services.NewAnalyticsService(
		analyticsrepo.NewRepository(db), config.IsProduction(), logger)

	var mailer email.Service
	if svc, err := email.NewService(); err != nil {
		logger.Email().Warn("Email service disabled", "reason", err.Error())
	} else {
		mailer = svc
	}

	var verifier verification.Verifier = verification.NewNoopVerifier()
	if config.RecaptchaSecretKey != "" {
		verifier = verification.NewRecaptchaVerifier(config.RecaptchaSecretKey, config.RecaptchaEndpoint)
	}

	mediaProcessor := media.NewProcessor(
		config.MediaSourceDir, config.MediaOutputDir, config.MediaVariantSizes, logger)

	contentService := services.NewContentService(mediaProcessor, logger)

	contactService := services.NewContactService(
		contactrepo.NewRepository(db), mailer, verifier, analyticsService, logger)

	formService := services.NewFormService(
		drafts.NewSQLStore(db),
		services.NewHTTPSubmissionClient(nil),
		analyticsService,
		logger)

	return &Container{
		FormService:      formService,
		ContactService:   contactService,
		ContentService:   contentService,
		AnalyticsService: analyticsService,
		AuthService:      services.NewAuthService(logger),

		DB:             db,
		CacheManager:   cacheManager,
		Broadcaster:    broadcaster,
		MediaProcessor: mediaProcessor,
		Logger:         logger,
		PerfTracker:    perfTracker,
	}
}
