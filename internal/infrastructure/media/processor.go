// Package media provides the responsive image pipeline for project assets
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AtRiskMedia/portfolio-go/internal/infrastructure/observability/logging"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Processor generates multi-size WebP variants of source images so the site
// can serve responsive srcsets through the cache gateway.
type Processor struct {
	sourceDir string
	outputDir string
	sizes     []int
	logger    *logging.ChanneledLogger
}

// NewProcessor creates an image processor for the configured directories.
func NewProcessor(sourceDir, outputDir string, sizes []int, logger *logging.ChanneledLogger) *Processor {
	return &Processor{
		sourceDir: sourceDir,
		outputDir: outputDir,
		sizes:     sizes,
		logger:    logger,
	}
}

// GenerateAll walks the source directory and generates missing variants for
// every image found. Failures on individual files are logged and skipped;
// image generation is best-effort warming, never fatal.
func (p *Processor) GenerateAll() error {
	entries, err := os.ReadDir(p.sourceDir)
	if err != nil {
		return fmt.Errorf("failed to read media source dir: %w", err)
	}
	if err := os.MkdirAll(p.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create media output dir: %w", err)
	}

	var generated int
	for _, entry := range entries {
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}
		n, err := p.GenerateVariants(filepath.Join(p.sourceDir, entry.Name()))
		if err != nil {
			p.logger.Media().Warn("Skipping image", "file", entry.Name(), "error", err.Error())
			continue
		}
		generated += n
	}

	p.logger.Media().Info("Image variant generation completed", "generated", generated)
	return nil
}

// GenerateVariants produces one WebP file per configured width for srcPath,
// skipping variants that already exist. Returns the number generated.
func (p *Processor) GenerateVariants(srcPath string) (int, error) {
	src, err := imaging.Open(srcPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open image %s: %w", srcPath, err)
	}

	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	var generated int

	for _, width := range p.sizes {
		outPath := filepath.Join(p.outputDir, fmt.Sprintf("%s_%dw.webp", base, width))
		if _, err := os.Stat(outPath); err == nil {
			continue
		}

		resized := imaging.Resize(src, width, 0, imaging.Lanczos)

		out, err := os.Create(outPath)
		if err != nil {
			return generated, fmt.Errorf("failed to create variant %s: %w", outPath, err)
		}
		if err := webp.Encode(out, resized, &webp.Options{Quality: 80}); err != nil {
			out.Close()
			os.Remove(outPath)
			return generated, fmt.Errorf("failed to encode variant %s: %w", outPath, err)
		}
		if err := out.Close(); err != nil {
			return generated, err
		}
		generated++
	}

	return generated, nil
}

// SrcSet returns the srcset attribute value for a base image name, listing
// every configured variant width.
func (p *Processor) SrcSet(baseName, publicPrefix string) string {
	parts := make([]string, 0, len(p.sizes))
	for _, width := range p.sizes {
		parts = append(parts, fmt.Sprintf("%s/%s_%dw.webp %dw", strings.TrimRight(publicPrefix, "/"), baseName, width, width))
	}
	return strings.Join(parts, ", ")
}

func isImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff":
		return true
	default:
		return false
	}
}
