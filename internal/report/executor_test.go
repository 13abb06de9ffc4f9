package report

import (
	"context"
	"testing"
	"time"

	"github.com/marco/workyard/internal/domain"
)

func testExecutor(t *testing.T, store *fakeStore, gw *fakeGateway, artifacts *fakeStorage, r Renderer) *Executor {
	t.Helper()
	renderers := map[domain.ReportFormat]Renderer{
		domain.FormatDocument:    r,
		domain.FormatSpreadsheet: r,
	}
	return NewExecutor(store, NewAggregator(gw), renderers, artifacts, testLogger(), ExecutorConfig{
		Workers:    2,
		QueueSize:  8,
		Timeout:    5 * time.Second,
		StaleAfter: time.Hour,
		SweepEvery: time.Hour,
	})
}

func waitForTerminal(t *testing.T, store *fakeStore, id string) *domain.ReportJob {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID returned error: %v", err)
		}
		if job != nil && job.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal status", id)
	return nil
}

func generatingJob(id string) *domain.ReportJob {
	return &domain.ReportJob{
		ID:        id,
		Name:      "Weekly Summary",
		Type:      domain.ReportTypeProjectSummary,
		Format:    domain.FormatDocument,
		Status:    domain.StatusGenerating,
		OwnerID:   "user-1",
		CompanyID: "co-1",
	}
}

func TestExecutorCompletesJob(t *testing.T) {
	store := newFakeStore()
	artifacts := newFakeStorage()
	exec := testExecutor(t, store, seedGateway(), artifacts, &stubRenderer{payload: []byte("%PDF-fake")})
	exec.Start(context.Background())
	defer exec.Stop()

	job := generatingJob("job-1")
	if err := store.Create(context.Background(), job); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := exec.Enqueue(job.ID); err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}

	done := waitForTerminal(t, store, job.ID)
	if done.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", done.Status)
	}
	if done.ArtifactRef != "reports/job-1.pdf" {
		t.Errorf("ArtifactRef = %q, want reports/job-1.pdf", done.ArtifactRef)
	}
	if len(done.DataSnapshot) == 0 {
		t.Error("completed job has no data snapshot")
	}
	if done.GeneratedAt == nil {
		t.Error("completed job has no generated_at timestamp")
	}

	exists, err := artifacts.Exists(context.Background(), done.ArtifactRef)
	if err != nil || !exists {
		t.Errorf("artifact %s missing from storage (exists=%v, err=%v)", done.ArtifactRef, exists, err)
	}
	// The temporary staging key must be cleaned up after promotion.
	for _, key := range artifacts.keys() {
		if key != done.ArtifactRef {
			t.Errorf("unexpected leftover object %s", key)
		}
	}
}

func TestExecutorFailsJobOnRenderError(t *testing.T) {
	store := newFakeStore()
	artifacts := newFakeStorage()
	exec := testExecutor(t, store, seedGateway(), artifacts, &stubRenderer{err: ErrRenderFailure})
	exec.Start(context.Background())
	defer exec.Stop()

	job := generatingJob("job-2")
	store.Create(context.Background(), job)
	exec.Enqueue(job.ID)

	done := waitForTerminal(t, store, job.ID)
	if done.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want FAILED", done.Status)
	}
	if done.ArtifactRef != "" {
		t.Errorf("failed job has artifact ref %q", done.ArtifactRef)
	}
	if len(artifacts.keys()) != 0 {
		t.Errorf("failed generation left objects behind: %v", artifacts.keys())
	}
}

func TestExecutorFailsJobOnUnresolvableScope(t *testing.T) {
	store := newFakeStore()
	exec := testExecutor(t, store, seedGateway(), newFakeStorage(), &stubRenderer{payload: []byte("x")})
	exec.Start(context.Background())
	defer exec.Stop()

	job := generatingJob("job-3")
	job.CompanyID = "co-missing"
	store.Create(context.Background(), job)
	exec.Enqueue(job.ID)

	done := waitForTerminal(t, store, job.ID)
	if done.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want FAILED", done.Status)
	}
}

func TestExecutorSkipsDeletedJob(t *testing.T) {
	store := newFakeStore()
	artifacts := newFakeStorage()
	exec := testExecutor(t, store, seedGateway(), artifacts, &stubRenderer{payload: []byte("x")})

	job := generatingJob("job-4")
	store.Create(context.Background(), job)
	// Simulate deletion racing the worker: the row vanishes before run picks
	// the job up.
	store.Delete(context.Background(), job.ID)

	exec.run(context.Background(), job.ID)

	got, _ := store.GetByID(context.Background(), job.ID)
	if got != nil {
		t.Fatalf("deleted job reappeared: %+v", got)
	}
	if len(artifacts.keys()) != 0 {
		t.Errorf("run on deleted job left objects behind: %v", artifacts.keys())
	}
}

func TestExecutorDiscardsArtifactWhenDeletedMidFlight(t *testing.T) {
	store := newFakeStore()
	artifacts := newFakeStorage()
	exec := testExecutor(t, store, seedGateway(), artifacts, &stubRenderer{payload: []byte("x")})

	job := generatingJob("job-5")
	store.Create(context.Background(), job)

	// Interleave a concurrent DELETE between artifact promotion and the
	// terminal write. The executor must notice the vanished row and remove
	// the orphaned artifact instead of completing.
	store.beforeComplete = func() {
		store.Delete(context.Background(), job.ID)
	}

	exec.run(context.Background(), job.ID)

	got, _ := store.GetByID(context.Background(), job.ID)
	if got != nil {
		t.Fatalf("deleted job reappeared: %+v", got)
	}
	if len(artifacts.keys()) != 0 {
		t.Errorf("mid-flight delete left objects behind: %v", artifacts.keys())
	}
}

func TestExecutorFailsJobPromptlyAfterTimeout(t *testing.T) {
	// A hung storage backend exhausts the generation timeout. The FAILED
	// write must still land immediately even though the store rejects
	// expired contexts, rather than leaving the job GENERATING for the
	// stale sweep.
	store := newFakeStore()
	store.ctxAware = true
	artifacts := newFakeStorage()
	artifacts.blockUploads = true

	renderers := map[domain.ReportFormat]Renderer{
		domain.FormatDocument: &stubRenderer{payload: []byte("x")},
	}
	exec := NewExecutor(store, NewAggregator(seedGateway()), renderers, artifacts, testLogger(), ExecutorConfig{
		Workers:    1,
		QueueSize:  1,
		Timeout:    50 * time.Millisecond,
		StaleAfter: time.Hour,
		SweepEvery: time.Hour,
	})

	job := generatingJob("job-timeout")
	store.Create(context.Background(), job)

	exec.run(context.Background(), job.ID)

	got, err := store.GetByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != domain.StatusFailed {
		t.Fatalf("status after timed-out run = %s, want FAILED", got.Status)
	}
}

func TestExecutorSweepFailsStaleJobs(t *testing.T) {
	store := newFakeStore()
	exec := testExecutor(t, store, seedGateway(), newFakeStorage(), &stubRenderer{payload: []byte("x")})

	stale := generatingJob("job-stale")
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	store.Create(context.Background(), stale)

	fresh := generatingJob("job-fresh")
	fresh.CreatedAt = time.Now()
	store.Create(context.Background(), fresh)

	terminal := generatingJob("job-done")
	terminal.Status = domain.StatusCompleted
	terminal.CreatedAt = time.Now().Add(-2 * time.Hour)
	store.Create(context.Background(), terminal)

	exec.sweep(context.Background())

	got, _ := store.GetByID(context.Background(), stale.ID)
	if got.Status != domain.StatusFailed {
		t.Errorf("stale job status = %s, want FAILED", got.Status)
	}
	got, _ = store.GetByID(context.Background(), fresh.ID)
	if got.Status != domain.StatusGenerating {
		t.Errorf("fresh job status = %s, want GENERATING", got.Status)
	}
	got, _ = store.GetByID(context.Background(), terminal.ID)
	if got.Status != domain.StatusCompleted {
		t.Errorf("completed job status = %s, want COMPLETED untouched", got.Status)
	}
}

func TestExecutorConcurrentJobsIndependent(t *testing.T) {
	store := newFakeStore()
	artifacts := newFakeStorage()
	exec := testExecutor(t, store, seedGateway(), artifacts, &stubRenderer{payload: []byte("x")})
	exec.Start(context.Background())
	defer exec.Stop()

	ids := []string{"job-a", "job-b", "job-c", "job-d"}
	for _, id := range ids {
		store.Create(context.Background(), generatingJob(id))
		if err := exec.Enqueue(id); err != nil {
			t.Fatalf("Enqueue(%s) returned error: %v", id, err)
		}
	}
	for _, id := range ids {
		done := waitForTerminal(t, store, id)
		if done.Status != domain.StatusCompleted {
			t.Errorf("job %s status = %s, want COMPLETED", id, done.Status)
		}
	}
}

func TestExecutorQueueFull(t *testing.T) {
	store := newFakeStore()
	renderers := map[domain.ReportFormat]Renderer{
		domain.FormatDocument: &stubRenderer{payload: []byte("x")},
	}
	exec := NewExecutor(store, NewAggregator(seedGateway()), renderers, newFakeStorage(), testLogger(), ExecutorConfig{
		Workers:   1,
		QueueSize: 1,
	})
	// Not started, so the queue never drains.
	if err := exec.Enqueue("job-1"); err != nil {
		t.Fatalf("first Enqueue returned error: %v", err)
	}
	if err := exec.Enqueue("job-2"); err == nil {
		t.Error("Enqueue on a full queue did not return an error")
	}
}
