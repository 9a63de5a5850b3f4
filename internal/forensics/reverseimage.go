package forensics

import (
	"context"
	"strings"

	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/serpapi"
	"github.com/GemFund/gemini-service/internal/storage"

	"go.uber.org/zap"
)

const (
	maxSearchImages    = 2
	maxSourcesPerImage = 3
	maxSourcesTotal    = 5
)

// stockIndicators are provider-name fragments that mark stock imagery.
var stockIndicators = []string{
	"shutterstock", "getty", "adobe stock", "istock", "alamy", "dreamstime", "stock photo",
}

// URLResolver turns a stored object path into a fetchable URL.
type URLResolver interface {
	Resolve(ctx context.Context, objectPath string) (*storage.ResolvedFile, error)
}

// ImageSearcher runs a reverse image search for one URL.
type ImageSearcher interface {
	ReverseSearch(ctx context.Context, imageURL string) (*serpapi.SearchResult, error)
}

// ReverseImageCollector detects recycled and stock imagery.
type ReverseImageCollector struct {
	resolver URLResolver
	searcher ImageSearcher
	logger   *zap.Logger
}

// NewReverseImageCollector creates a new reverse-image collector
func NewReverseImageCollector(resolver URLResolver, searcher ImageSearcher, logger *zap.Logger) *ReverseImageCollector {
	return &ReverseImageCollector{resolver: resolver, searcher: searcher, logger: logger}
}

// Collect reverse-searches up to two campaign images. Duplicates are summed
// across images, stock detection is a logical OR, and matched sources are
// capped per image and globally. Always returns a populated record.
func (c *ReverseImageCollector) Collect(ctx context.Context, media []models.MediaItem) models.ReverseImageForensics {
	result := models.DefaultReverseImageForensics()

	checked := 0
	for _, item := range media {
		if item.Kind != models.MediaImage {
			continue
		}
		if checked == maxSearchImages {
			break
		}
		checked++

		resolved, err := c.resolver.Resolve(ctx, item.Path)
		if err != nil {
			c.logger.Warn("Skipping reverse search, URL resolution failed",
				zap.String("path", item.Path),
				zap.Error(err))
			continue
		}

		search, err := c.searcher.ReverseSearch(ctx, resolved.URL)
		if err != nil {
			c.logger.Warn("Skipping reverse search, search failed",
				zap.String("path", item.Path),
				zap.Error(err))
			continue
		}

		result.DuplicatesFound += len(search.Sources)
		result.IsStockPhoto = result.IsStockPhoto || containsStockIndicator(search.Sources)

		kept := search.Sources
		if len(kept) > maxSourcesPerImage {
			kept = kept[:maxSourcesPerImage]
		}
		result.Sources = append(result.Sources, kept...)
	}

	if len(result.Sources) > maxSourcesTotal {
		result.Sources = result.Sources[:maxSourcesTotal]
	}

	return result
}

func containsStockIndicator(sources []models.ImageSource) bool {
	for _, s := range sources {
		source := strings.ToLower(s.Source)
		title := strings.ToLower(s.Title)
		for _, indicator := range stockIndicators {
			if strings.Contains(source, indicator) || strings.Contains(title, indicator) {
				return true
			}
		}
	}
	return false
}
