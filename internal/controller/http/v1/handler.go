package v1

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

type Ingestor interface {
	Accept(ctx context.Context, name string, size int64, contentType string, r io.Reader) (*domain.UploadedFile, error)
}

type Sniffer interface {
	Parse(ctx context.Context, fileID uuid.UUID) (*domain.ParseResult, error)
}

type Orchestrator interface {
	Start(ctx context.Context, fileID uuid.UUID, mapping map[string]string, strategy domain.DuplicateStrategy) (uuid.UUID, error)
	Result(ctx context.Context, taskID uuid.UUID) (*domain.ImportResult, error)
}

type StatusProvider interface {
	GetStatus(ctx context.Context, taskID uuid.UUID) (*domain.ImportTask, error)
}

type ErrorLogBuilder interface {
	BuildErrorLog(ctx context.Context, taskID uuid.UUID) (string, error)
}

type ArtifactOpener interface {
	OpenArtifact(name string) (io.ReadCloser, error)
}

type RowErrorsProvider interface {
	RowErrorsByTask(ctx context.Context, taskID uuid.UUID, limit, offset uint64) ([]*domain.RowOutcome, int, error)
}

type CandidatesRepository interface {
	CandidateByEmail(ctx context.Context, email string) (*domain.Candidate, error)
}

// ImportsHandler exposes the import wizard surface: upload, parse, start,
// poll, result, artifacts.
type ImportsHandler struct {
	ingestor     Ingestor
	sniffer      Sniffer
	orchestrator Orchestrator
	status       StatusProvider
	errorLog     ErrorLogBuilder
	artifacts    ArtifactOpener
	rowErrors    RowErrorsProvider

	maxUploadSize int64
	summaryName   func(uuid.UUID) string
}

func NewImportsHandler(
	ingestor Ingestor,
	sniffer Sniffer,
	orchestrator Orchestrator,
	status StatusProvider,
	errorLog ErrorLogBuilder,
	artifacts ArtifactOpener,
	rowErrors RowErrorsProvider,
	maxUploadSize int64,
	summaryName func(uuid.UUID) string,
) *ImportsHandler {
	return &ImportsHandler{
		ingestor:      ingestor,
		sniffer:       sniffer,
		orchestrator:  orchestrator,
		status:        status,
		errorLog:      errorLog,
		artifacts:     artifacts,
		rowErrors:     rowErrors,
		maxUploadSize: maxUploadSize,
		summaryName:   summaryName,
	}
}

func (h *ImportsHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+1)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `multipart field "file" is required`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	uploaded, err := h.ingestor.Accept(
		r.Context(),
		header.Filename,
		header.Size,
		header.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, uploaded)
}

func (h *ImportsHandler) ParseFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "file_id"))
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	result, err := h.sniffer.Parse(r.Context(), fileID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type StartImportRequest struct {
	FileID   uuid.UUID         `json:"file_id"`
	Mapping  map[string]string `json:"mapping"`
	Strategy string            `json:"strategy"`
}

type StartImportResponse struct {
	TaskID uuid.UUID `json:"task_id"`
}

func (h *ImportsHandler) StartImport(w http.ResponseWriter, r *http.Request) {
	var req StartImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, err)
		return
	}

	taskID, err := h.orchestrator.Start(r.Context(), req.FileID, req.Mapping, strategy)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, StartImportResponse{TaskID: taskID})
}

func (h *ImportsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.status.GetStatus(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *ImportsHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.orchestrator.Result(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ImportsHandler) DownloadErrorLog(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	name, err := h.errorLog.BuildErrorLog(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.serveArtifact(w, name, "text/csv")
}

func (h *ImportsHandler) DownloadSummary(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.status.GetStatus(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	if !task.Terminal() {
		writeError(w, domain.ErrTaskNotTerminal)
		return
	}

	h.serveArtifact(w, h.summaryName(taskID), "application/pdf")
}

type ListRowErrorsResponse struct {
	Errors     []*domain.RowOutcome `json:"errors"`
	Pagination Pagination           `json:"pagination"`
}

func (h *ImportsHandler) ListRowErrors(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	page, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	offset := (page - 1) * limit

	outcomes, total, err := h.rowErrors.RowErrorsByTask(r.Context(), taskID, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListRowErrorsResponse{
		Errors: outcomes,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + int(limit) - 1) / int(limit),
		},
	})
}

func (h *ImportsHandler) serveArtifact(w http.ResponseWriter, name, contentType string) {
	f, err := h.artifacts.OpenArtifact(name)
	if err != nil {
		writeError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = io.Copy(w, f)
}

// CandidatesHandler is a read surface over imported records, used to
// spot-check import outcomes.
type CandidatesHandler struct {
	candidates CandidatesRepository
}

func NewCandidatesHandler(candidates CandidatesRepository) *CandidatesHandler {
	return &CandidatesHandler{candidates: candidates}
}

func (h *CandidatesHandler) GetCandidateByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, `query parameter "email" is required`, http.StatusBadRequest)
		return
	}

	candidate, err := h.candidates.CandidateByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, candidate)
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return taskID, true
}

func parsePagination(r *http.Request) (page uint64, limit uint64, err error) {
	page, limit = 1, 50

	if p := r.URL.Query().Get("page"); p != "" {
		page, err = strconv.ParseUint(p, 10, 64)
		if err != nil || page == 0 {
			return 0, 0, errors.New("invalid page")
		}
	}

	if l := r.URL.Query().Get("limit"); l != "" {
		limit, err = strconv.ParseUint(l, 10, 64)
		if err != nil || limit < 1 || limit > 500 {
			return 0, 0, errors.New("invalid limit, must be in [1;500]")
		}
	}

	return page, limit, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrEmptyFile),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrMalformedFile),
		errors.Is(err, domain.ErrNoHeaderRow),
		errors.Is(err, domain.ErrInvalidStrategy),
		errors.Is(err, domain.ErrUnknownField):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrFileNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrCandidateNotFound),
		errors.Is(err, domain.ErrNoErrorsRecorded):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTaskNotTerminal):
		status = http.StatusConflict
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
