package importer_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
	"github.com/hrimport/candidate_importer/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorLogBuilder(env *testEnv) *importer.ErrorLogBuilder {
	return importer.NewErrorLogBuilder(slog.New(slog.DiscardHandler), env.tracker, env.rowErrors, env.store)
}

func terminalTask(env *testEnv, errored int) *domain.ImportTask {
	now := time.Now()
	task := &domain.ImportTask{
		ID:          uuid.New(),
		Status:      domain.StatusSucceeded,
		Total:       errored,
		Processed:   errored,
		Errored:     errored,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	env.tracker.Publish(task)

	return task
}

func TestErrorLogBuilder_Build(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	builder := newErrorLogBuilder(env)

	task := terminalTask(env, 2)
	require.NoError(t, env.rowErrors.SaveRowErrors(context.Background(), task.ID, []*domain.RowOutcome{
		{Row: 2, Name: "Quebrada", Email: "sem-arroba", Error: `invalid email "sem-arroba"`},
		{Row: 5, Name: "", Email: "", Error: "email is required"},
	}))

	name, err := builder.BuildErrorLog(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, importer.ErrorLogArtifactName(task.ID), name)

	f, err := env.store.OpenArtifact(name)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "row,nome,email,error")
	assert.Contains(t, content, "Quebrada")
	assert.Contains(t, content, "email is required")
}

func TestErrorLogBuilder_Build_Cached(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	builder := newErrorLogBuilder(env)

	task := terminalTask(env, 1)
	require.NoError(t, env.rowErrors.SaveRowErrors(context.Background(), task.ID, []*domain.RowOutcome{
		{Row: 2, Error: "email is required"},
	}))

	first, err := builder.BuildErrorLog(context.Background(), task.ID)
	require.NoError(t, err)

	// Once built, the artifact is served without touching the repository.
	env.rowErrors.loadErr = errors.New("repository down")

	second, err := builder.BuildErrorLog(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestErrorLogBuilder_Build_NotTerminal(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	builder := newErrorLogBuilder(env)

	running := &domain.ImportTask{
		ID:        uuid.New(),
		Status:    domain.StatusRunning,
		Errored:   3,
		CreatedAt: time.Now(),
	}
	env.tracker.Publish(running)

	_, err := builder.BuildErrorLog(context.Background(), running.ID)
	require.ErrorIs(t, err, domain.ErrTaskNotTerminal)
}

func TestErrorLogBuilder_Build_NoErrors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	builder := newErrorLogBuilder(env)

	task := terminalTask(env, 0)

	_, err := builder.BuildErrorLog(context.Background(), task.ID)
	require.ErrorIs(t, err, domain.ErrNoErrorsRecorded)
}

func TestErrorLogBuilder_Build_UnknownTask(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	builder := newErrorLogBuilder(env)

	_, err := builder.BuildErrorLog(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrTaskNotFound)
}
