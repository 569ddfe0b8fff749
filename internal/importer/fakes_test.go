package importer_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/hrimport/candidate_importer/internal/domain"
)

// Hand-written in-memory doubles. Everything is mutex-guarded because the
// orchestrator drives them from its own goroutine.

type fakeRecordStore struct {
	mu      sync.Mutex
	byEmail map[string]uuid.UUID
	byID    map[uuid.UUID]*domain.Candidate

	failEmail string
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		byEmail: make(map[string]uuid.UUID),
		byID:    make(map[uuid.UUID]*domain.Candidate),
	}
}

func (s *fakeRecordStore) FindIDByEmail(_ context.Context, email string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	return id, ok, nil
}

func (s *fakeRecordStore) Create(_ context.Context, candidate *domain.Candidate) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.Email == s.failEmail {
		return uuid.Nil, errors.New("record store unavailable")
	}

	if _, ok := s.byEmail[candidate.Email]; ok {
		return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrDuplicateKey, candidate.Email)
	}

	clone := *candidate
	clone.ID = uuid.New()
	s.byEmail[clone.Email] = clone.ID
	s.byID[clone.ID] = &clone

	return clone.ID, nil
}

func (s *fakeRecordStore) Update(_ context.Context, id uuid.UUID, candidate *domain.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if candidate.Email == s.failEmail {
		return errors.New("record store unavailable")
	}

	if _, ok := s.byID[id]; !ok {
		return domain.ErrCandidateNotFound
	}

	clone := *candidate
	clone.ID = id
	s.byID[id] = &clone
	s.byEmail[clone.Email] = id

	return nil
}

func (s *fakeRecordStore) get(email string) (*domain.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}
	return s.byID[id], true
}

func (s *fakeRecordStore) seed(candidate *domain.Candidate) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *candidate
	clone.ID = uuid.New()
	s.byEmail[clone.Email] = clone.ID
	s.byID[clone.ID] = &clone

	return clone.ID
}

type fakeUploadsRepository struct {
	mu    sync.Mutex
	files map[uuid.UUID]*domain.UploadedFile
}

func newFakeUploadsRepository() *fakeUploadsRepository {
	return &fakeUploadsRepository{files: make(map[uuid.UUID]*domain.UploadedFile)}
}

func (r *fakeUploadsRepository) SaveFile(_ context.Context, file *domain.UploadedFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *file
	r.files[file.ID] = &clone

	return nil
}

func (r *fakeUploadsRepository) FileByID(_ context.Context, id uuid.UUID) (*domain.UploadedFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, ok := r.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}

	clone := *file
	return &clone, nil
}

type fakeTaskRepository struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.ImportTask

	updateErr error
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{tasks: make(map[uuid.UUID]*domain.ImportTask)}
}

func (r *fakeTaskRepository) CreateTask(_ context.Context, task *domain.ImportTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task.Clone()

	return nil
}

func (r *fakeTaskRepository) UpdateTask(_ context.Context, task *domain.ImportTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}

	r.tasks[task.ID] = task.Clone()

	return nil
}

func (r *fakeTaskRepository) TaskByID(_ context.Context, id uuid.UUID) (*domain.ImportTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	return task.Clone(), nil
}

type fakeRowErrorsRepository struct {
	mu       sync.Mutex
	outcomes map[uuid.UUID][]*domain.RowOutcome

	loadErr error
}

func newFakeRowErrorsRepository() *fakeRowErrorsRepository {
	return &fakeRowErrorsRepository{outcomes: make(map[uuid.UUID][]*domain.RowOutcome)}
}

func (r *fakeRowErrorsRepository) SaveRowErrors(_ context.Context, taskID uuid.UUID, outcomes []*domain.RowOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outcomes[taskID] = append(r.outcomes[taskID], outcomes...)

	return nil
}

func (r *fakeRowErrorsRepository) RowErrorsByTask(_ context.Context, taskID uuid.UUID, limit, offset uint64) ([]*domain.RowOutcome, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return nil, 0, r.loadErr
	}

	all := r.outcomes[taskID]
	total := len(all)

	if offset >= uint64(total) {
		return nil, total, nil
	}

	end := offset + limit
	if end > uint64(total) {
		end = uint64(total)
	}

	return all[offset:end], total, nil
}

func (r *fakeRowErrorsRepository) AllRowErrorsByTask(_ context.Context, taskID uuid.UUID) ([]*domain.RowOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return nil, r.loadErr
	}

	return r.outcomes[taskID], nil
}

type fakeTransactor struct{}

func (fakeTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReportGenerator struct {
	mu    sync.Mutex
	paths []string
}

func (g *fakeReportGenerator) GenerateSummary(outputPath string, _ *domain.ImportTask, _ []*domain.RowOutcome) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.paths = append(g.paths, outputPath)

	return nil
}

func (g *fakeReportGenerator) generated() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]string(nil), g.paths...)
}
