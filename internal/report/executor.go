package report

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/logger"
	"github.com/marco/workyard/internal/storage"
)

// ExecutorConfig holds tuning for the async executor.
type ExecutorConfig struct {
	Workers    int
	QueueSize  int
	Timeout    time.Duration // ceiling per generation run
	StaleAfter time.Duration // GENERATING older than this is considered stuck
	SweepEvery time.Duration // reconciliation sweep interval
}

// Executor runs report generation off the request/response cycle. Jobs are
// created GENERATING by the service layer, queued here, and moved to
// COMPLETED or FAILED by exactly one worker. The executor is the only writer
// to a job row after creation.
type Executor struct {
	store     JobStore
	agg       *Aggregator
	renderers map[domain.ReportFormat]Renderer
	artifacts storage.ObjectStorage
	logger    *logger.Logger
	cfg       ExecutorConfig

	queue  chan string
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewExecutor creates an executor. Renderers are keyed by output format.
func NewExecutor(
	store JobStore,
	agg *Aggregator,
	renderers map[domain.ReportFormat]Renderer,
	artifacts storage.ObjectStorage,
	log *logger.Logger,
	cfg ExecutorConfig,
) *Executor {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 10 * time.Minute
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = 5 * time.Minute
	}
	return &Executor{
		store:     store,
		agg:       agg,
		renderers: renderers,
		artifacts: artifacts,
		logger:    log,
		cfg:       cfg,
		queue:     make(chan string, cfg.QueueSize),
	}
}

// Start launches the worker pool and the reconciliation sweep. The first
// sweep runs immediately so jobs orphaned by a previous process die are
// failed before new traffic arrives.
func (e *Executor) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)

	e.sweep(ctx)

	for i := 0; i < e.cfg.Workers; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id, ok := <-e.queue:
					if !ok {
						return
					}
					e.run(ctx, id)
				}
			}
		}()
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ticker := time.NewTicker(e.cfg.SweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.sweep(ctx)
			}
		}
	}()

	e.logger.WithFields(logger.Fields{
		"workers":    e.cfg.Workers,
		"queue_size": e.cfg.QueueSize,
	}).Info("Report executor started")
}

// Stop cancels the workers and waits for in-flight runs to finish.
func (e *Executor) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
	e.logger.Info("Report executor stopped")
}

// Enqueue hands a GENERATING job to the worker pool. Returns an error when
// the queue is full rather than blocking the HTTP caller.
func (e *Executor) Enqueue(jobID string) error {
	select {
	case e.queue <- jobID:
		return nil
	default:
		return fmt.Errorf("report queue is full")
	}
}

// sweep fails every GENERATING job older than the stale threshold. A crash
// mid-generation must not leave a job in GENERATING forever.
func (e *Executor) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-e.cfg.StaleAfter)
	n, err := e.store.MarkStale(ctx, cutoff)
	if err != nil {
		e.logger.WithError(err).Error("Stale job sweep failed")
		return
	}
	if n > 0 {
		e.logger.WithField("count", n).Warn("Marked stuck GENERATING jobs as FAILED")
	}
}

// run executes the full generation pipeline for one job: aggregate, build
// the document model, render, persist the artifact, then apply the terminal
// status transition.
func (e *Executor) run(parent context.Context, jobID string) {
	ctx := logger.WithFields(parent, logger.Fields{
		logger.FieldReportID:  jobID,
		logger.FieldComponent: "executor",
	})

	// The timeout bounds the generation pipeline only. Terminal status
	// writes and artifact cleanup must still land after the deadline
	// expires, otherwise a timed-out job stays GENERATING until the stale
	// sweep instead of failing promptly.
	writeCtx := context.WithoutCancel(ctx)
	genCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	job, err := e.store.GetByID(genCtx, jobID)
	if err != nil {
		logger.CtxError(ctx, "Failed to load report job: %v", err)
		return
	}
	if job == nil || job.Status != domain.StatusGenerating {
		// Deleted or already handled; nothing to do.
		return
	}

	start := time.Now()
	artifactRef, snapshot, err := e.generate(genCtx, job)
	if err != nil {
		logger.CtxError(ctx, "Report generation failed: %v", err)
		if _, failErr := e.store.Fail(writeCtx, job.ID); failErr != nil {
			logger.CtxError(ctx, "Failed to mark report FAILED: %v", failErr)
		}
		return
	}

	applied, err := e.store.Complete(writeCtx, job.ID, artifactRef, snapshot, time.Now().UTC())
	if err != nil {
		logger.CtxError(ctx, "Failed to mark report COMPLETED: %v", err)
		return
	}
	if !applied {
		// The row was deleted while we were generating. Honor the pairing
		// invariant: no row, no artifact.
		if delErr := e.artifacts.Delete(writeCtx, artifactRef); delErr != nil {
			logger.CtxWarn(ctx, "Failed to remove artifact for deleted job: %v", delErr)
		}
		logger.CtxInfo(ctx, "Report job deleted mid-generation, skipped terminal write")
		return
	}

	e.logger.WithFields(logger.Fields{
		logger.FieldReportID:   job.ID,
		logger.FieldReportType: string(job.Type),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info("Report generated")
}

// generate produces the artifact for a job and returns its final storage key
// and document snapshot. The artifact is written to a temporary key first
// and only promoted to its final key once the write has fully succeeded, so
// a failure at any stage leaves no registered artifact behind.
func (e *Executor) generate(ctx context.Context, job *domain.ReportJob) (string, domain.Snapshot, error) {
	bundle, err := e.agg.Aggregate(ctx, job.Type, job.Scope())
	if err != nil {
		return "", nil, err
	}

	doc, err := BuildDocument(bundle)
	if err != nil {
		return "", nil, err
	}
	doc.Title = job.Name

	renderer, ok := e.renderers[job.Format]
	if !ok {
		return "", nil, fmt.Errorf("%w: no renderer for format %q", ErrRenderFailure, job.Format)
	}
	payload, err := renderer.Render(doc)
	if err != nil {
		return "", nil, err
	}

	snapshot, err := doc.Snapshot()
	if err != nil {
		return "", nil, err
	}

	tmpKey := fmt.Sprintf("reports/tmp/%s%s", job.ID, job.Format.Extension())
	finalKey := fmt.Sprintf("reports/%s%s", job.ID, job.Format.Extension())

	if err := e.artifacts.Upload(ctx, tmpKey, bytes.NewReader(payload), int64(len(payload)), job.Format.ContentType()); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrArtifactWrite, err)
	}
	if err := e.artifacts.Copy(ctx, tmpKey, finalKey); err != nil {
		e.discard(ctx, tmpKey)
		return "", nil, fmt.Errorf("%w: %v", ErrArtifactWrite, err)
	}
	e.discard(ctx, tmpKey)

	return finalKey, snapshot, nil
}

// discard removes a temporary artifact, logging rather than failing when
// cleanup itself errors.
func (e *Executor) discard(ctx context.Context, key string) {
	if err := e.artifacts.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "Failed to remove temporary artifact %s: %v", key, err)
	}
}
