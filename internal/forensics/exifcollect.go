package forensics

import (
	"context"

	"github.com/GemFund/gemini-service/internal/exif"
	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/scratch"

	"go.uber.org/zap"
)

const (
	maxExifImages   = 3
	maxExifWarnings = 5
)

// MetadataExtractor is the per-file EXIF dependency of the EXIF collector.
type MetadataExtractor interface {
	Extract(path string) exif.Metadata
}

// ExifCollector aggregates metadata signals across downloaded images.
type ExifCollector struct {
	extractor MetadataExtractor
	logger    *zap.Logger
}

// NewExifCollector creates a new EXIF collector
func NewExifCollector(extractor MetadataExtractor, logger *zap.Logger) *ExifCollector {
	return &ExifCollector{extractor: extractor, logger: logger}
}

// Collect extracts metadata from up to three local images and merges the
// per-file flags with logical OR. Always returns a populated record; when no
// images are available it returns the default with one explanatory warning.
func (c *ExifCollector) Collect(ctx context.Context, files []scratch.LocalFile) models.ExifForensics {
	result := models.DefaultExifForensics()

	images := make([]scratch.LocalFile, 0, maxExifImages)
	for _, f := range files {
		if f.Item.Kind == models.MediaImage {
			images = append(images, f)
			if len(images) == maxExifImages {
				break
			}
		}
	}

	if len(images) == 0 {
		result.Warnings = append(result.Warnings, "no images available for EXIF analysis")
		return result
	}

	for _, img := range images {
		if ctx.Err() != nil {
			break
		}

		meta := c.extractor.Extract(img.LocalPath)
		result.HasGps = result.HasGps || meta.HasGps
		result.HasEdits = result.HasEdits || meta.HasEdits
		result.DateMismatch = result.DateMismatch || meta.DateMismatch
		result.Warnings = append(result.Warnings, meta.Warnings...)
	}

	if len(result.Warnings) > maxExifWarnings {
		result.Warnings = result.Warnings[:maxExifWarnings]
	}

	c.logger.Debug("EXIF forensics collected",
		zap.Int("images", len(images)),
		zap.Bool("has_gps", result.HasGps),
		zap.Bool("has_edits", result.HasEdits))

	return result
}
