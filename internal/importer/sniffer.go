package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const previewRows = 5

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// SchemaSniffer reads a stored file and derives its header columns, a short
// preview, the total data-row count, and a best-effort column-to-field
// mapping suggestion. Suggestions never fail the parse and are always
// overridable by the caller before an import starts.
type SchemaSniffer struct {
	log     *slog.Logger
	store   FileStore
	uploads UploadsRepository
}

func NewSchemaSniffer(log *slog.Logger, store FileStore, uploads UploadsRepository) *SchemaSniffer {
	return &SchemaSniffer{
		log:     log,
		store:   store,
		uploads: uploads,
	}
}

func (s *SchemaSniffer) Parse(ctx context.Context, fileID uuid.UUID) (_ *domain.ParseResult, err error) {
	if _, err := s.uploads.FileByID(ctx, fileID); err != nil {
		return nil, err
	}

	f, err := s.store.Open(fileID)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	result, err := s.parse(f)
	if err != nil {
		return nil, err
	}
	result.FileID = fileID

	s.log.DebugContext(ctx, "parsed file",
		slog.String("file_id", fileID.String()),
		slog.Int("columns", len(result.Columns)),
		slog.Int("total_rows", result.TotalRows),
	)

	return result, nil
}

func (s *SchemaSniffer) parse(r io.Reader) (*domain.ParseResult, error) {
	buffered := bufio.NewReader(r)
	if prefix, err := buffered.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = buffered.Discard(len(byteOrderMark))
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoHeaderRow
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedFile, err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	result := &domain.ParseResult{
		Columns:          columns,
		PreviewRows:      []map[string]string{},
		SuggestedMapping: suggestMapping(columns),
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedFile, err)
		}

		if result.TotalRows < previewRows {
			preview := make(map[string]string, len(columns))
			for i, col := range columns {
				if i < len(row) {
					preview[col] = row[i]
				} else {
					preview[col] = ""
				}
			}
			result.PreviewRows = append(result.PreviewRows, preview)
		}

		result.TotalRows++
	}

	return result, nil
}

// suggestMapping matches each column against the target-field synonym table,
// ignoring case and accents. Unmatched columns map to the empty string.
func suggestMapping(columns []string) map[string]string {
	mapping := make(map[string]string, len(columns))

	for _, col := range columns {
		mapping[col] = ""

		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}

		for _, field := range domain.TargetFields {
			for _, synonym := range field.Synonyms {
				if normalized == normalizeHeader(synonym) {
					mapping[col] = field.Name
					break
				}
			}
			if mapping[col] != "" {
				break
			}
		}
	}

	return mapping
}

var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func normalizeHeader(header string) string {
	folded, _, err := transform.String(accentFold, header)
	if err != nil {
		folded = header
	}

	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
