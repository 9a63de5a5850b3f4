package exif

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeTaggedImage writes a minimal little-endian TIFF whose IFD0 carries a
// single Software tag, which goexif decodes like any EXIF payload.
func writeTaggedImage(t *testing.T, software string) string {
	t.Helper()

	buf := &bytes.Buffer{}
	buf.Write([]byte{0x49, 0x49, 0x2A, 0x00})              // II, magic 42
	binary.Write(buf, binary.LittleEndian, uint32(8))      // offset of IFD0
	binary.Write(buf, binary.LittleEndian, uint16(1))      // one entry
	binary.Write(buf, binary.LittleEndian, uint16(0x0131)) // Software
	binary.Write(buf, binary.LittleEndian, uint16(2))      // ASCII
	binary.Write(buf, binary.LittleEndian, uint32(len(software)+1))
	binary.Write(buf, binary.LittleEndian, uint32(26)) // value offset, past IFD
	binary.Write(buf, binary.LittleEndian, uint32(0))  // no next IFD
	buf.WriteString(software)
	buf.WriteByte(0)

	path := filepath.Join(t.TempDir(), "tagged.jpg")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	meta := e.Extract(filepath.Join(t.TempDir(), "missing.jpg"))

	assert.False(t, meta.HasGps)
	assert.False(t, meta.HasEdits)
	assert.False(t, meta.DateMismatch)
	require.Len(t, meta.Warnings, 1)
	assert.Contains(t, meta.Warnings[0], "failed to read image")
}

func TestExtractAnySoftwareTagMarksEdits(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	meta := e.Extract(writeTaggedImage(t, "Windows Photo Editor 10.0"))

	assert.Equal(t, "Windows Photo Editor 10.0", meta.Software)
	assert.True(t, meta.HasEdits)
	// the editing-tool warning stays reserved for known editors
	assert.Empty(t, meta.Warnings)
}

func TestExtractKnownEditorAddsWarning(t *testing.T) {
	e := NewExtractor(zap.NewNop())
	meta := e.Extract(writeTaggedImage(t, "Adobe Photoshop 25.0"))

	assert.True(t, meta.HasEdits)
	require.Len(t, meta.Warnings, 1)
	assert.Equal(t, "Edited with: Adobe Photoshop 25.0", meta.Warnings[0])
}

func TestExtractNonImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.jpg")
	require.NoError(t, os.WriteFile(path, []byte("plain text, no EXIF here"), 0o600))

	e := NewExtractor(zap.NewNop())
	meta := e.Extract(path)

	assert.False(t, meta.HasGps)
	assert.False(t, meta.HasEdits)
	require.Len(t, meta.Warnings, 1)
	assert.Contains(t, meta.Warnings[0], "failed to extract EXIF")
}
