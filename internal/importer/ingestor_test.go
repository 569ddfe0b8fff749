package importer_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/hrimport/candidate_importer/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxUploadSize = 1024

func newIngestor(env *testEnv) *importer.FileIngestor {
	return importer.NewFileIngestor(slog.New(slog.DiscardHandler), testMaxUploadSize, env.store, env.uploads)
}

func TestIngestor_Accept_HappyPath(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ingestor := newIngestor(env)

	content := "Nome,E-mail\nMaria,maria@example.com"

	file, err := ingestor.Accept(
		context.Background(),
		"/tmp/some/dir/candidates.csv",
		int64(len(content)),
		"text/csv; charset=utf-8",
		strings.NewReader(content),
	)
	require.NoError(t, err)

	assert.Equal(t, "candidates.csv", file.Name)
	assert.Equal(t, int64(len(content)), file.Size)
	assert.False(t, file.UploadedAt.IsZero())

	// The payload is durably stored under the generated id.
	f, err := env.store.Open(file.ID)
	require.NoError(t, err)
	defer f.Close()

	stored, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, content, string(stored))

	// And the metadata is queryable.
	saved, err := env.uploads.FileByID(context.Background(), file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.Name, saved.Name)
}

func TestIngestor_Accept_DeclaredSizeTooLarge(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ingestor := newIngestor(env)

	_, err := ingestor.Accept(
		context.Background(),
		"candidates.csv",
		testMaxUploadSize+1,
		"text/csv",
		strings.NewReader("small body"),
	)
	require.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestIngestor_Accept_ActualSizeTooLarge(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ingestor := newIngestor(env)

	// The declared size lies; the body itself exceeds the limit.
	body := strings.Repeat("a", testMaxUploadSize+1)

	_, err := ingestor.Accept(
		context.Background(),
		"candidates.csv",
		10,
		"text/csv",
		strings.NewReader(body),
	)
	require.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestIngestor_Accept_EmptyFile(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ingestor := newIngestor(env)

	_, err := ingestor.Accept(context.Background(), "candidates.csv", 0, "text/csv", strings.NewReader(""))
	require.ErrorIs(t, err, domain.ErrEmptyFile)
}

func TestIngestor_Accept_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ingestor := newIngestor(env)

	_, err := ingestor.Accept(context.Background(), "candidates.xlsx", 10, "application/vnd.ms-excel", strings.NewReader("0123456789"))
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIngestor_Accept_ContentTypeFallback(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ingestor := newIngestor(env)

	// No .csv extension, but the declared content type is CSV.
	file, err := ingestor.Accept(context.Background(), "export", 10, "text/csv", strings.NewReader("Nome\nMaria"))
	require.NoError(t, err)
	assert.Equal(t, "export", file.Name)

	// Uppercase extension is accepted regardless of content type.
	file, err = ingestor.Accept(context.Background(), "EXPORT.CSV", 10, "application/octet-stream", strings.NewReader("Nome\nMaria"))
	require.NoError(t, err)
	assert.Equal(t, "EXPORT.CSV", file.Name)
}
