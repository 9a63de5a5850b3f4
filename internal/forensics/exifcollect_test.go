package forensics

import (
	"context"
	"testing"

	"github.com/GemFund/gemini-service/internal/exif"
	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/scratch"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubExtractor struct {
	byPath map[string]exif.Metadata
	calls  []string
}

func (s *stubExtractor) Extract(path string) exif.Metadata {
	s.calls = append(s.calls, path)
	return s.byPath[path]
}

func imageFile(path string) scratch.LocalFile {
	return scratch.LocalFile{
		Item:      models.MediaItem{Path: path, Kind: models.MediaImage},
		LocalPath: path,
		MIMEType:  "image/jpeg",
	}
}

func TestExifCollectorMergesFlags(t *testing.T) {
	extractor := &stubExtractor{byPath: map[string]exif.Metadata{
		"a.jpg": {HasGps: true},
		"b.jpg": {HasEdits: true, Warnings: []string{"Edited with: Adobe Photoshop"}},
		"c.jpg": {DateMismatch: true, Warnings: []string{"Image modified 45 days after capture"}},
	}}
	collector := NewExifCollector(extractor, zap.NewNop())

	got := collector.Collect(context.Background(), []scratch.LocalFile{
		imageFile("a.jpg"), imageFile("b.jpg"), imageFile("c.jpg"),
	})

	assert.True(t, got.HasGps)
	assert.True(t, got.HasEdits)
	assert.True(t, got.DateMismatch)
	assert.Equal(t, []string{
		"Edited with: Adobe Photoshop",
		"Image modified 45 days after capture",
	}, got.Warnings)
}

func TestExifCollectorNoImages(t *testing.T) {
	extractor := &stubExtractor{}
	collector := NewExifCollector(extractor, zap.NewNop())

	video := scratch.LocalFile{
		Item:      models.MediaItem{Path: "clip.mp4", Kind: models.MediaVideo},
		LocalPath: "clip.mp4",
	}
	got := collector.Collect(context.Background(), []scratch.LocalFile{video})

	assert.False(t, got.HasGps)
	assert.False(t, got.HasEdits)
	assert.False(t, got.DateMismatch)
	assert.Equal(t, []string{"no images available for EXIF analysis"}, got.Warnings)
	assert.Empty(t, extractor.calls)
}

func TestExifCollectorEditedImages(t *testing.T) {
	extractor := &stubExtractor{byPath: map[string]exif.Metadata{
		"a.jpg": {HasEdits: true, Warnings: []string{"Edited with: Adobe Photoshop"}},
		"b.jpg": {HasEdits: true, Warnings: []string{"Edited with: Adobe Photoshop"}},
	}}
	collector := NewExifCollector(extractor, zap.NewNop())

	got := collector.Collect(context.Background(), []scratch.LocalFile{
		imageFile("a.jpg"), imageFile("b.jpg"),
	})

	assert.True(t, got.HasEdits)
	assert.Len(t, got.Warnings, 2)
}

func TestExifCollectorCapsImagesAndWarnings(t *testing.T) {
	extractor := &stubExtractor{byPath: map[string]exif.Metadata{
		"a.jpg": {Warnings: []string{"w1", "w2"}},
		"b.jpg": {Warnings: []string{"w3", "w4"}},
		"c.jpg": {Warnings: []string{"w5", "w6"}},
		"d.jpg": {Warnings: []string{"w7"}},
	}}
	collector := NewExifCollector(extractor, zap.NewNop())

	got := collector.Collect(context.Background(), []scratch.LocalFile{
		imageFile("a.jpg"), imageFile("b.jpg"), imageFile("c.jpg"), imageFile("d.jpg"),
	})

	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, extractor.calls)
	assert.Equal(t, []string{"w1", "w2", "w3", "w4", "w5"}, got.Warnings)
}
