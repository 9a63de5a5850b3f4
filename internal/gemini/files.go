package gemini

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/GemFund/gemini-service/internal/apperr"
	"github.com/GemFund/gemini-service/internal/retry"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// UploadMedia pushes a local media file to the model's file store and, for
// videos, waits until remote processing finishes. A file that never becomes
// active within the poll budget is a fatal error for the request.
func (c *Client) UploadMedia(ctx context.Context, localPath, mimeType string) (*genai.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "gemini", "upload", "failed to open media file", err)
	}
	defer f.Close()

	file, err := c.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{MIMEType: mimeType})
	if err != nil {
		return nil, wrapModelError("upload", err)
	}

	if file.State == genai.FileStateActive {
		return file, nil
	}

	// Images are usually active immediately; videos go through a processing
	// state that must be polled.
	err = retry.Poll(ctx, c.pollInterval, c.pollAttempts, func(ctx context.Context) (bool, error) {
		file, err = c.client.GetFile(ctx, file.Name)
		if err != nil {
			return false, wrapModelError("upload", err)
		}

		switch file.State {
		case genai.FileStateActive:
			return true, nil
		case genai.FileStateFailed:
			return false, apperr.New(apperr.KindAI, "gemini", "upload", "media processing failed").With("file", file.Name)
		default:
			return false, nil
		}
	})
	if errors.Is(err, retry.ErrPollTimeout) {
		return nil, apperr.New(apperr.KindAI, "gemini", "upload", "media processing timed out").With("file", file.Name)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Media file active",
		zap.String("file", file.Name),
		zap.String("mime_type", mimeType),
		zap.Bool("video", strings.HasPrefix(mimeType, "video/")))

	return file, nil
}
