package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

// FileSystem stores uploaded files and generated artifacts under two local
// directories, keyed by id and by artifact name respectively.
type FileSystem struct {
	uploadsDir   string
	artifactsDir string
}

func NewFileSystem(uploadsDir, artifactsDir string) (*FileSystem, error) {
	for _, dir := range []string{uploadsDir, artifactsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %q: %w", dir, err)
		}
	}

	return &FileSystem{
		uploadsDir:   uploadsDir,
		artifactsDir: artifactsDir,
	}, nil
}

func (s *FileSystem) Put(id uuid.UUID, r io.Reader) (err error) {
	f, err := os.Create(s.uploadPath(id))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *FileSystem) Open(id uuid.UUID) (io.ReadCloser, error) {
	f, err := os.Open(s.uploadPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, nil
}

func (s *FileSystem) Remove(id uuid.UUID) error {
	if err := os.Remove(s.uploadPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

func (s *FileSystem) PutArtifact(name string, data []byte) (string, error) {
	path := filepath.Join(s.artifactsDir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return path, nil
}

func (s *FileSystem) OpenArtifact(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.artifactsDir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}

	return f, nil
}

// ArtifactPath returns where an artifact lives and whether it already
// exists.
func (s *FileSystem) ArtifactPath(name string) (string, bool) {
	path := filepath.Join(s.artifactsDir, name)
	_, err := os.Stat(path)
	return path, err == nil
}

func (s *FileSystem) uploadPath(id uuid.UUID) string {
	return filepath.Join(s.uploadsDir, id.String()+".csv")
}
