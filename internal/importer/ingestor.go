package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

// FileIngestor validates an uploaded file and stores it durably under a
// generated id. The file outlives the request: it stays in the store until
// the import task that consumes it reaches a terminal state.
type FileIngestor struct {
	log     *slog.Logger
	maxSize int64
	store   FileStore
	uploads UploadsRepository
}

func NewFileIngestor(log *slog.Logger, maxSize int64, store FileStore, uploads UploadsRepository) *FileIngestor {
	return &FileIngestor{
		log:     log,
		maxSize: maxSize,
		store:   store,
		uploads: uploads,
	}
}

func (i *FileIngestor) Accept(ctx context.Context, name string, size int64, contentType string, r io.Reader) (*domain.UploadedFile, error) {
	if size > i.maxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", domain.ErrFileTooLarge, size, i.maxSize)
	}

	if !acceptableFormat(name, contentType) {
		return nil, fmt.Errorf("%w: %q (%s)", domain.ErrUnsupportedFormat, filepath.Ext(name), contentType)
	}

	// The declared size is not trusted; read one byte past the limit to
	// catch oversized bodies.
	payload, err := io.ReadAll(io.LimitReader(r, i.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if int64(len(payload)) > i.maxSize {
		return nil, fmt.Errorf("%w: limit %d", domain.ErrFileTooLarge, i.maxSize)
	}

	if len(payload) == 0 {
		return nil, domain.ErrEmptyFile
	}

	file := &domain.UploadedFile{
		ID:          uuid.New(),
		Name:        filepath.Base(name),
		Size:        int64(len(payload)),
		ContentType: contentType,
		UploadedAt:  time.Now(),
	}

	if err := i.store.Put(file.ID, bytes.NewReader(payload)); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	if err := i.uploads.SaveFile(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	i.log.InfoContext(ctx, "accepted upload",
		slog.String("file_id", file.ID.String()),
		slog.String("filename", file.Name),
		slog.Int64("size", file.Size),
	)

	return file, nil
}

func acceptableFormat(name, contentType string) bool {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return true
	}

	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "text/csv", "application/csv":
		return true
	}

	return false
}
