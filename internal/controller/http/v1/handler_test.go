package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	v1 "github.com/hrimport/candidate_importer/internal/controller/http/v1"
	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/hrimport/candidate_importer/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStatusProvider struct {
	task *domain.ImportTask
	err  error
}

func (s stubStatusProvider) GetStatus(context.Context, uuid.UUID) (*domain.ImportTask, error) {
	return s.task, s.err
}

type stubOrchestrator struct {
	taskID    uuid.UUID
	startErr  error
	result    *domain.ImportResult
	resultErr error
}

func (s stubOrchestrator) Start(context.Context, uuid.UUID, map[string]string, domain.DuplicateStrategy) (uuid.UUID, error) {
	return s.taskID, s.startErr
}

func (s stubOrchestrator) Result(context.Context, uuid.UUID) (*domain.ImportResult, error) {
	return s.result, s.resultErr
}

func newHandler(status stubStatusProvider, orchestrator stubOrchestrator) *v1.ImportsHandler {
	return v1.NewImportsHandler(
		nil,
		nil,
		orchestrator,
		status,
		nil,
		nil,
		nil,
		10<<20,
		importer.SummaryArtifactName,
	)
}

func taskRequest(method, target string, taskID string, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("task_id", taskID)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestImportsHandler_GetStatus(t *testing.T) {
	t.Parallel()

	task := &domain.ImportTask{
		ID:        uuid.New(),
		Status:    domain.StatusRunning,
		Total:     10,
		Processed: 4,
	}

	handler := newHandler(stubStatusProvider{task: task}, stubOrchestrator{})

	w := httptest.NewRecorder()
	handler.GetStatus(w, taskRequest(http.MethodGet, "/", task.ID.String(), ""))

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, task.ID.String(), got["task_id"])
	assert.Equal(t, "running", got["status"])
	assert.EqualValues(t, 4, got["processed"])
}

func TestImportsHandler_GetStatus_NotFound(t *testing.T) {
	t.Parallel()

	handler := newHandler(stubStatusProvider{err: domain.ErrTaskNotFound}, stubOrchestrator{})

	w := httptest.NewRecorder()
	handler.GetStatus(w, taskRequest(http.MethodGet, "/", uuid.NewString(), ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportsHandler_GetStatus_InvalidID(t *testing.T) {
	t.Parallel()

	handler := newHandler(stubStatusProvider{}, stubOrchestrator{})

	w := httptest.NewRecorder()
	handler.GetStatus(w, taskRequest(http.MethodGet, "/", "not-a-uuid", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportsHandler_StartImport(t *testing.T) {
	t.Parallel()

	taskID := uuid.New()
	handler := newHandler(stubStatusProvider{}, stubOrchestrator{taskID: taskID})

	body := `{"file_id":"` + uuid.NewString() + `","mapping":{"Nome":"full_name"},"strategy":"skip"}`

	w := httptest.NewRecorder()
	handler.StartImport(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusAccepted, w.Code)

	var got v1.StartImportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, taskID, got.TaskID)
}

func TestImportsHandler_StartImport_InvalidStrategy(t *testing.T) {
	t.Parallel()

	handler := newHandler(stubStatusProvider{}, stubOrchestrator{})

	body := `{"file_id":"` + uuid.NewString() + `","mapping":{},"strategy":"merge"}`

	w := httptest.NewRecorder()
	handler.StartImport(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportsHandler_StartImport_FileNotFound(t *testing.T) {
	t.Parallel()

	handler := newHandler(stubStatusProvider{}, stubOrchestrator{startErr: domain.ErrFileNotFound})

	body := `{"file_id":"` + uuid.NewString() + `","mapping":{},"strategy":"skip"}`

	w := httptest.NewRecorder()
	handler.StartImport(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportsHandler_GetResult_NotTerminal(t *testing.T) {
	t.Parallel()

	handler := newHandler(stubStatusProvider{}, stubOrchestrator{resultErr: domain.ErrTaskNotTerminal})

	w := httptest.NewRecorder()
	handler.GetResult(w, taskRequest(http.MethodGet, "/", uuid.NewString(), ""))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestImportsHandler_GetResult(t *testing.T) {
	t.Parallel()

	result := &domain.ImportResult{
		TaskID:     uuid.New(),
		Status:     domain.StatusSucceeded,
		Total:      5,
		Success:    4,
		ErrorCount: 1,
		HasLog:     true,
	}
	handler := newHandler(stubStatusProvider{}, stubOrchestrator{result: result})

	w := httptest.NewRecorder()
	handler.GetResult(w, taskRequest(http.MethodGet, "/", result.TaskID.String(), ""))

	require.Equal(t, http.StatusOK, w.Code)

	var got domain.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, result.TaskID, got.TaskID)
	assert.Equal(t, 4, got.Success)
	assert.True(t, got.HasLog)
}
