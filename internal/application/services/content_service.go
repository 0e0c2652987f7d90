package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/AtRiskMedia/portfolio-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ContentService loads the portfolio content document and serves its
// sections with markdown bodies rendered to HTML.
type ContentService struct {
	mu        sync.RWMutex
	portfolio *content.Portfolio
	md        goldmark.Markdown
	processor *media.Processor
	logger    *logging.ChanneledLogger
}

// NewContentService creates the content service. The media processor may be
// nil; project srcsets are then omitted.
func NewContentService(processor *media.Processor, logger *logging.ChanneledLogger) *ContentService {
	return &ContentService{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		processor: processor,
		logger:    logger,
	}
}

// Load reads and parses the YAML content document, rendering every markdown
// body. Safe to call again for reload.
func (s *ContentService) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read content file: %w", err)
	}

	portfolio := &content.Portfolio{}
	if err := yaml.Unmarshal(data, portfolio); err != nil {
		return fmt.Errorf("failed to parse content file: %w", err)
	}

	portfolio.About.SummaryHTML = s.renderMarkdown(portfolio.About.Summary)
	for i := range portfolio.Projects {
		project := &portfolio.Projects[i]
		project.DescriptionHTML = s.renderMarkdown(project.Description)
		if s.processor != nil && project.Image != "" {
			base := strings.TrimSuffix(filepath.Base(project.Image), filepath.Ext(project.Image))
			project.SrcSet = s.processor.SrcSet(base, "/images/generated")
		}
	}
	for i := range portfolio.Experience {
		portfolio.Experience[i].SummaryHTML = s.renderMarkdown(portfolio.Experience[i].Summary)
	}

	s.mu.Lock()
	s.portfolio = portfolio
	s.mu.Unlock()

	s.logger.Content().Info("Portfolio content loaded",
		"skills", len(portfolio.Skills),
		"projects", len(portfolio.Projects),
		"experience", len(portfolio.Experience),
		"achievements", len(portfolio.Achievements))
	return nil
}

// Portfolio returns the loaded content document, or nil before Load.
func (s *ContentService) Portfolio() *content.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.portfolio
}

// Section returns one named section of the portfolio.
func (s *ContentService) Section(name string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.portfolio == nil {
		return nil, false
	}
	switch name {
	case "about":
		return s.portfolio.About, true
	case "skills":
		return s.portfolio.Skills, true
	case "projects":
		return s.portfolio.Projects, true
	case "experience":
		return s.portfolio.Experience, true
	case "achievements":
		return s.portfolio.Achievements, true
	default:
		return nil, false
	}
}

func (s *ContentService) renderMarkdown(source string) string {
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		s.logger.Content().Warn("Markdown rendering failed", "error", err.Error())
		return ""
	}
	return buf.String()
}
