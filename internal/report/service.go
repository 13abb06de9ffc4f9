package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/logger"
	"github.com/marco/workyard/internal/storage"
)

// Service is the synchronous front of the report engine: it validates and
// authorizes requests, creates job rows, and hands generation to the
// executor. All validation, membership, and entitlement checks happen here,
// before job creation; failures after creation only ever surface as the
// job's terminal status.
type Service struct {
	store     JobStore
	gw        DomainGateway
	exec      *Executor
	sched     *Scheduler
	artifacts storage.ObjectStorage
	logger    *logger.Logger
}

// NewService creates the report service.
func NewService(
	store JobStore,
	gw DomainGateway,
	exec *Executor,
	sched *Scheduler,
	artifacts storage.ObjectStorage,
	log *logger.Logger,
) *Service {
	return &Service{
		store:     store,
		gw:        gw,
		exec:      exec,
		sched:     sched,
		artifacts: artifacts,
		logger:    log,
	}
}

// ScopeRequest carries the scope fields of a generate or schedule request.
type ScopeRequest struct {
	CompanyID   string     `json:"company_id"`
	ProjectID   string     `json:"project_id,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

// GenerateRequest is a one-off report generation request.
type GenerateRequest struct {
	Name   string              `json:"name"`
	Type   domain.ReportType   `json:"type"`
	Config ScopeRequest        `json:"config"`
	Format domain.ReportFormat `json:"format"`
}

// ScheduleRequest is a recurring report template request.
type ScheduleRequest struct {
	GenerateRequest
	Schedule string `json:"schedule"`
}

// validate checks request shape only; authorization is separate.
func (r *GenerateRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown report type %q", ErrValidation, r.Type)
	}
	if !r.Format.Valid() {
		return fmt.Errorf("%w: unknown output format %q", ErrValidation, r.Format)
	}
	if r.Config.CompanyID == "" {
		return fmt.Errorf("%w: config.company_id is required", ErrValidation)
	}
	if r.Config.PeriodStart != nil && r.Config.PeriodEnd != nil &&
		r.Config.PeriodEnd.Before(*r.Config.PeriodStart) {
		return fmt.Errorf("%w: period end precedes period start", ErrValidation)
	}
	return nil
}

// authorize enforces creation-time membership and entitlement checks.
// Neither is re-checked once a job or template exists.
func (s *Service) authorize(ctx context.Context, ownerID string, req *GenerateRequest) error {
	member, err := s.gw.HasActiveMembership(ctx, ownerID, req.Config.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: no active membership in company %s", ErrAccessDenied, req.Config.CompanyID)
	}
	if req.Type.Premium() {
		entitled, err := s.gw.HasAdvancedReporting(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check entitlement: %w", err)
		}
		if !entitled {
			return fmt.Errorf("%w: report type %s", ErrEntitlementRequired, req.Type)
		}
	}
	return nil
}

func newJob(ownerID string, req *GenerateRequest, status domain.ReportStatus) *domain.ReportJob {
	return &domain.ReportJob{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(req.Name),
		Type:        req.Type,
		Format:      req.Format,
		Status:      status,
		OwnerID:     ownerID,
		CompanyID:   req.Config.CompanyID,
		ProjectID:   req.Config.ProjectID,
		PeriodStart: req.Config.PeriodStart,
		PeriodEnd:   req.Config.PeriodEnd,
	}
}

// Generate validates and authorizes a request, creates a GENERATING job, and
// queues it for asynchronous execution. The caller gets the job back
// immediately; completion is observed by polling.
func (s *Service) Generate(ctx context.Context, ownerID string, req *GenerateRequest) (*domain.ReportJob, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, ownerID, req); err != nil {
		return nil, err
	}

	job := newJob(ownerID, req, domain.StatusGenerating)
	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create report job: %w", err)
	}
	if err := s.exec.Enqueue(job.ID); err != nil {
		// Job row exists but cannot run now; the stale sweep will fail it.
		logger.CtxError(ctx, "Failed to enqueue report job %s: %v", job.ID, err)
		return nil, fmt.Errorf("failed to queue report job: %w", err)
	}

	logger.CtxInfo(ctx, "Created report job %s (%s, %s)", job.ID, job.Type, job.Format)
	return job, nil
}

// Schedule validates and authorizes a recurring template, persists it as a
// SCHEDULED row, and registers its cron timer. Scheduling always requires
// the advanced-reporting entitlement, regardless of report type.
func (s *Service) Schedule(ctx context.Context, ownerID string, req *ScheduleRequest) (*domain.ReportJob, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := ValidateSchedule(req.Schedule); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, ownerID, &req.GenerateRequest); err != nil {
		return nil, err
	}
	entitled, err := s.gw.HasAdvancedReporting(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check entitlement: %w", err)
	}
	if !entitled {
		return nil, fmt.Errorf("%w: recurring reports", ErrEntitlementRequired)
	}

	tpl := newJob(ownerID, &req.GenerateRequest, domain.StatusScheduled)
	tpl.IsRecurring = true
	tpl.Schedule = req.Schedule
	if err := s.store.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to create report template: %w", err)
	}
	if err := s.sched.Register(tpl); err != nil {
		// The expression already validated; a registration failure here is
		// an internal fault, not a caller error. Keep row and error paired.
		if delErr := s.store.Delete(ctx, tpl.ID); delErr != nil {
			logger.CtxError(ctx, "Failed to roll back template %s: %v", tpl.ID, delErr)
		}
		return nil, fmt.Errorf("failed to register report template: %w", err)
	}

	logger.CtxInfo(ctx, "Created report template %s (%s)", tpl.ID, tpl.Schedule)
	return tpl, nil
}

// List returns the caller's jobs and templates, optionally filtered.
func (s *Service) List(ctx context.Context, ownerID string, f domain.ReportJobFilter) ([]domain.ReportJob, error) {
	return s.store.List(ctx, ownerID, f)
}

// Get returns one job owned by the caller, or ErrNotFound.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.ReportJob, error) {
	job, err := s.store.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrNotFound
	}
	return job, nil
}

// Download streams the artifact of a COMPLETED job owned by the caller.
// Non-completed jobs and foreign jobs are indistinguishable from missing
// ones.
func (s *Service) Download(ctx context.Context, ownerID, id string) (io.ReadCloser, *domain.ReportJob, error) {
	job, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != domain.StatusCompleted || job.ArtifactRef == "" {
		return nil, nil, ErrNotFound
	}
	rc, err := s.artifacts.Download(ctx, job.ArtifactRef)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch artifact: %w", err)
	}
	return rc, job, nil
}

// Filename returns the attachment filename for a job's artifact.
func Filename(job *domain.ReportJob) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, job.Name)
	if name == "" {
		name = job.ID
	}
	return name + job.Format.Extension()
}

// Delete removes a job row together with its artifact, or unregisters a
// template's timer before removing the row. The row/artifact pairing is an
// invariant: the artifact goes first and a storage failure aborts the
// delete so neither side is ever orphaned.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	job, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if job.Status == domain.StatusScheduled {
		s.sched.Unregister(job.ID)
	}
	if job.ArtifactRef != "" {
		if err := s.artifacts.Delete(ctx, job.ArtifactRef); err != nil {
			return fmt.Errorf("failed to delete artifact: %w", err)
		}
	}
	if err := s.store.Delete(ctx, job.ID); err != nil {
		return fmt.Errorf("failed to delete report job: %w", err)
	}

	logger.CtxInfo(ctx, "Deleted report job %s", id)
	return nil
}
