// Package scratch manages per-request temporary media files. Every acquisition
// gets its own uniquely named directory so concurrent requests never collide,
// and release is guaranteed to be safe on every exit path.
package scratch

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/GemFund/gemini-service/internal/models"
	"github.com/GemFund/gemini-service/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Downloader fetches a stored object into a local writer.
type Downloader interface {
	Download(ctx context.Context, objectPath string, w io.Writer) error
}

// LocalFile is one successfully downloaded media item.
type LocalFile struct {
	Item      models.MediaItem
	LocalPath string
	MIMEType  string
}

// Lease holds the scratch files for one request. Release is idempotent and
// must be called exactly once per acquisition on every exit path.
type Lease struct {
	Files []LocalFile

	dir     string
	once    sync.Once
	logger  *zap.Logger
	removed bool
}

// Release deletes the lease's scratch directory. Safe to call multiple times.
func (l *Lease) Release() {
	l.once.Do(func() {
		if l.dir == "" {
			return
		}
		if err := os.RemoveAll(l.dir); err != nil {
			l.logger.Warn("Failed to remove scratch directory", zap.String("dir", l.dir), zap.Error(err))
			return
		}
		l.removed = true
		l.logger.Debug("Released scratch directory", zap.String("dir", l.dir))
	})
}

// Manager downloads remote media into scratch storage.
type Manager struct {
	downloader Downloader
	root       string
	logger     *zap.Logger
}

// NewManager creates a scratch manager rooted at the OS temp directory.
func NewManager(downloader Downloader, logger *zap.Logger) *Manager {
	return &Manager{
		downloader: downloader,
		root:       os.TempDir(),
		logger:     logger,
	}
}

// Acquire downloads each media item into a fresh request-scoped directory.
// Individual download failures skip the item rather than failing the
// acquisition; the returned lease must always be released by the caller.
func (m *Manager) Acquire(ctx context.Context, items []models.MediaItem) (*Lease, error) {
	dir := filepath.Join(m.root, "gemfund-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	lease := &Lease{dir: dir, logger: m.logger}

	for i, item := range items {
		localPath := filepath.Join(dir, uuid.New().String()+filepath.Ext(item.Path))
		if err := m.download(ctx, item.Path, localPath); err != nil {
			m.logger.Warn("Skipping media item, download failed",
				zap.String("path", item.Path),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}

		lease.Files = append(lease.Files, LocalFile{
			Item:      item,
			LocalPath: localPath,
			MIMEType:  storage.MIMETypeFor(item.Path),
		})
	}

	return lease, nil
}

func (m *Manager) download(ctx context.Context, objectPath, localPath string) error {
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}

	if err := m.downloader.Download(ctx, objectPath, f); err != nil {
		f.Close()
		os.Remove(localPath)
		return err
	}

	return f.Close()
}
