package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard})
}

// fakeGateway is an in-memory DomainGateway backed by slices.
type fakeGateway struct {
	companies map[string]*domain.Company
	projects  []domain.Project
	tasks     []domain.Task
	materials []domain.Material
	workers   []domain.Worker
	entries   []domain.TimeEntry
	members   map[string]bool // userID + "|" + companyID
	entitled  map[string]bool
	err       error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		companies: make(map[string]*domain.Company),
		members:   make(map[string]bool),
		entitled:  make(map[string]bool),
	}
}

func (g *fakeGateway) GetCompany(_ context.Context, id string) (*domain.Company, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.companies[id], nil
}

func (g *fakeGateway) GetProject(_ context.Context, companyID, projectID string) (*domain.Project, error) {
	if g.err != nil {
		return nil, g.err
	}
	for i := range g.projects {
		if g.projects[i].ID == projectID && g.projects[i].CompanyID == companyID {
			return &g.projects[i], nil
		}
	}
	return nil, nil
}

func (g *fakeGateway) ListProjects(_ context.Context, companyID string) ([]domain.Project, error) {
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.Project
	for _, p := range g.projects {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListTasks(_ context.Context, scope domain.ReportScope) ([]domain.Task, error) {
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.Task
	for _, t := range g.tasks {
		if t.CompanyID != scope.CompanyID {
			continue
		}
		if scope.ProjectID != "" && t.ProjectID != scope.ProjectID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (g *fakeGateway) ListMaterials(_ context.Context, scope domain.ReportScope) ([]domain.Material, error) {
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.Material
	for _, m := range g.materials {
		if m.CompanyID != scope.CompanyID {
			continue
		}
		if scope.ProjectID != "" && m.ProjectID != scope.ProjectID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (g *fakeGateway) ListWorkers(_ context.Context, companyID string) ([]domain.Worker, error) {
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.Worker
	for _, w := range g.workers {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListTimeEntries(_ context.Context, scope domain.ReportScope) ([]domain.TimeEntry, error) {
	if g.err != nil {
		return nil, g.err
	}
	var out []domain.TimeEntry
	for _, e := range g.entries {
		if e.CompanyID != scope.CompanyID {
			continue
		}
		if scope.ProjectID != "" && e.ProjectID != scope.ProjectID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (g *fakeGateway) HasActiveMembership(_ context.Context, userID, companyID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.members[userID+"|"+companyID], nil
}

func (g *fakeGateway) HasAdvancedReporting(_ context.Context, userID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	return g.entitled[userID], nil
}

// fakeStore is an in-memory JobStore with guarded terminal transitions.
type fakeStore struct {
	mu   sync.Mutex
	jobs map[string]*domain.ReportJob

	createErr error
	// ctxAware makes writes reject expired contexts the way a real driver
	// does.
	ctxAware bool
	// beforeComplete runs just before Complete takes the lock, letting tests
	// interleave a concurrent delete deterministically.
	beforeComplete func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: make(map[string]*domain.ReportJob)}
}

func (s *fakeStore) Create(_ context.Context, job *domain.ReportJob) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*domain.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (s *fakeStore) GetForOwner(_ context.Context, id, ownerID string) (*domain.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.OwnerID != ownerID {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (s *fakeStore) List(_ context.Context, ownerID string, f domain.ReportJobFilter) ([]domain.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReportJob
	for _, job := range s.jobs {
		if job.OwnerID != ownerID {
			continue
		}
		if f.CompanyID != "" && job.CompanyID != f.CompanyID {
			continue
		}
		if f.Type != "" && job.Type != f.Type {
			continue
		}
		if f.Status != "" && job.Status != f.Status {
			continue
		}
		out = append(out, *job)
	}
	return out, nil
}

func (s *fakeStore) ListScheduled(_ context.Context) ([]domain.ReportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReportJob
	for _, job := range s.jobs {
		if job.Status == domain.StatusScheduled {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *fakeStore) Complete(ctx context.Context, id, artifactRef string, snapshot domain.Snapshot, generatedAt time.Time) (bool, error) {
	if s.ctxAware {
		if err := ctx.Err(); err != nil {
			return false, err
		}
	}
	if s.beforeComplete != nil {
		s.beforeComplete()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != domain.StatusGenerating {
		return false, nil
	}
	job.Status = domain.StatusCompleted
	job.ArtifactRef = artifactRef
	job.DataSnapshot = snapshot
	job.GeneratedAt = &generatedAt
	return true, nil
}

func (s *fakeStore) Fail(ctx context.Context, id string) (bool, error) {
	if s.ctxAware {
		if err := ctx.Err(); err != nil {
			return false, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != domain.StatusGenerating {
		return false, nil
	}
	job.Status = domain.StatusFailed
	return true, nil
}

func (s *fakeStore) MarkStale(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, job := range s.jobs {
		if job.Status == domain.StatusGenerating && job.CreatedAt.Before(cutoff) {
			job.Status = domain.StatusFailed
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

// fakeStorage is an in-memory ObjectStorage.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	uploadErr error
	copyErr   error
	deleteErr error
	// blockUploads parks Upload until the caller's context expires, standing
	// in for a hung storage backend.
	blockUploads bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) EnsureBucket(_ context.Context) error { return nil }

func (s *fakeStorage) Upload(ctx context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if s.blockUploads {
		<-ctx.Done()
		return ctx.Err()
	}
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Copy(_ context.Context, srcKey, dstKey string) error {
	if s.copyErr != nil {
		return s.copyErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[srcKey]
	if !ok {
		return fmt.Errorf("object %s not found", srcKey)
	}
	s.objects[dstKey] = append([]byte(nil), data...)
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *fakeStorage) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}

// stubRenderer returns fixed bytes or a fixed error.
type stubRenderer struct {
	payload []byte
	err     error
}

func (r *stubRenderer) Render(_ *Document) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.payload, nil
}
