package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron timers for SCHEDULED report templates. Timers are
// in-memory only, so Restore must be called on every process start to
// re-register every SCHEDULED row from the job store before the server
// accepts traffic, otherwise recurring reports silently stop firing after
// a restart.
type Scheduler struct {
	store  JobStore
	exec   *Executor
	cron   *cron.Cron
	logger *logger.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID // template id -> active timer
}

// NewScheduler creates a scheduler using standard 5-field cron expressions.
func NewScheduler(store JobStore, exec *Executor, log *logger.Logger) *Scheduler {
	return &Scheduler{
		store:   store,
		exec:    exec,
		cron:    cron.New(),
		logger:  log,
		entries: make(map[string]cron.EntryID),
	}
}

// ValidateSchedule checks a cron expression without registering anything.
// Returns ErrInvalidSchedule when the expression does not parse.
func ValidateSchedule(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSchedule, expr)
	}
	return nil
}

// Start begins firing registered timers.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Report scheduler started")
}

// Stop halts the timer subsystem and waits for a running tick to return.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Report scheduler stopped")
}

// Restore scans the job store for SCHEDULED templates and registers a timer
// for each. Templates whose stored expression no longer parses are skipped
// with a log line rather than failing startup.
func (s *Scheduler) Restore(ctx context.Context) error {
	templates, err := s.store.ListScheduled(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scheduled templates: %w", err)
	}
	restored := 0
	for i := range templates {
		if err := s.Register(&templates[i]); err != nil {
			s.logger.WithFields(logger.Fields{
				logger.FieldReportID: templates[i].ID,
			}).WithError(err).Error("Skipping template with invalid schedule")
			continue
		}
		restored++
	}
	s.logger.WithField("count", restored).Info("Restored scheduled report templates")
	return nil
}

// Register adds a cron timer for a SCHEDULED template. Each tick spawns a
// fresh GENERATING job with the template's type, scope, and format and hands
// it to the executor; the template row itself never transitions.
func (s *Scheduler) Register(tpl *domain.ReportJob) error {
	if err := ValidateSchedule(tpl.Schedule); err != nil {
		return err
	}

	templateID := tpl.ID
	entryID, err := s.cron.AddFunc(tpl.Schedule, func() {
		s.fire(templateID)
	})
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSchedule, tpl.Schedule)
	}

	s.mu.Lock()
	if old, ok := s.entries[templateID]; ok {
		s.cron.Remove(old)
	}
	s.entries[templateID] = entryID
	s.mu.Unlock()

	s.logger.WithFields(logger.Fields{
		logger.FieldReportID: templateID,
		"schedule":           tpl.Schedule,
	}).Info("Registered report template")
	return nil
}

// Unregister removes the timer for a template, if one is active.
func (s *Scheduler) Unregister(templateID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entryID, ok := s.entries[templateID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, templateID)
	}
}

// fire creates and enqueues one concrete job from a template. The template
// is re-read at tick time; a template deleted since registration no-ops.
func (s *Scheduler) fire(templateID string) {
	ctx := logger.WithFields(context.Background(), logger.Fields{
		logger.FieldReportID:  templateID,
		logger.FieldComponent: "scheduler",
	})

	tpl, err := s.store.GetByID(ctx, templateID)
	if err != nil {
		logger.CtxError(ctx, "Failed to load report template: %v", err)
		return
	}
	if tpl == nil || tpl.Status != domain.StatusScheduled {
		s.Unregister(templateID)
		return
	}

	now := time.Now().UTC()
	job := &domain.ReportJob{
		ID:          uuid.New().String(),
		Name:        fmt.Sprintf("%s - %s", tpl.Name, now.Format("2006-01-02 15:04")),
		Type:        tpl.Type,
		Format:      tpl.Format,
		Status:      domain.StatusGenerating,
		OwnerID:     tpl.OwnerID,
		CompanyID:   tpl.CompanyID,
		ProjectID:   tpl.ProjectID,
		PeriodStart: tpl.PeriodStart,
		PeriodEnd:   tpl.PeriodEnd,
	}
	if err := s.store.Create(ctx, job); err != nil {
		logger.CtxError(ctx, "Failed to create job from template: %v", err)
		return
	}
	if err := s.exec.Enqueue(job.ID); err != nil {
		logger.CtxError(ctx, "Failed to enqueue job from template: %v", err)
		return
	}
	logger.CtxInfo(ctx, "Spawned report job %s from template", job.ID)
}
