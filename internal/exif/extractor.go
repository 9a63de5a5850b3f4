// Package exif extracts forensic-relevant metadata from campaign images:
// GPS presence, editing-software signatures and capture/modify date drift.
package exif

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"
	"go.uber.org/zap"
)

// mismatchThreshold flags images modified long after capture.
const mismatchThreshold = 30 * 24 * time.Hour

const exifDateLayout = "2006:01:02 15:04:05"

// editingTools are software-tag fragments that indicate post-capture editing.
var editingTools = []string{"photoshop", "gimp", "lightroom", "snapseed", "vsco", "canva"}

// Metadata is the per-file extraction result. Extraction never fails hard:
// unreadable files yield zero metadata plus a warning.
type Metadata struct {
	HasGps       bool
	HasEdits     bool
	DateMismatch bool
	Software     string
	DateTaken    string
	DateModified string
	Warnings     []string
}

// Extractor reads EXIF metadata from local files.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new EXIF extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract reads forensic metadata from the image at path.
func (e *Extractor) Extract(path string) Metadata {
	meta := Metadata{Warnings: []string{}}

	f, err := os.Open(path)
	if err != nil {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("failed to read image: %v", err))
		return meta
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("failed to extract EXIF: %v", err))
		return meta
	}

	if lat, long, err := x.LatLong(); err == nil && (lat != 0 || long != 0) {
		meta.HasGps = true
	}

	if tag, err := x.Get(goexif.Software); err == nil {
		if software, err := tag.StringVal(); err == nil && software != "" {
			// Any software tag means the file was written by post-capture
			// tooling; the warning is reserved for known editors.
			meta.Software = software
			meta.HasEdits = true
			lower := strings.ToLower(software)
			for _, tool := range editingTools {
				if strings.Contains(lower, tool) {
					meta.Warnings = append(meta.Warnings, fmt.Sprintf("Edited with: %s", software))
					break
				}
			}
		}
	}

	taken := dateTag(x, goexif.DateTimeOriginal)
	modified := dateTag(x, goexif.DateTime)
	if taken != nil {
		meta.DateTaken = taken.Format(time.RFC3339)
	}
	if modified != nil {
		meta.DateModified = modified.Format(time.RFC3339)
	}

	if taken != nil && modified != nil {
		if drift := modified.Sub(*taken); drift > mismatchThreshold {
			meta.DateMismatch = true
			days := int(math.Round(drift.Hours() / 24))
			meta.Warnings = append(meta.Warnings, fmt.Sprintf("Image modified %d days after capture", days))
		}
	}

	e.logger.Debug("Extracted EXIF metadata",
		zap.String("path", path),
		zap.Bool("has_gps", meta.HasGps),
		zap.Bool("has_edits", meta.HasEdits))

	return meta
}

func dateTag(x *goexif.Exif, field goexif.FieldName) *time.Time {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}
	raw, err := tag.StringVal()
	if err != nil {
		return nil
	}
	t, err := time.Parse(exifDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &t
}
