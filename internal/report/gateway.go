package report

import (
	"context"
	"time"

	"github.com/marco/workyard/internal/domain"
)

// DomainGateway is the read-only view of the business store that aggregation
// draws from. Lookups return (nil, nil) for absent records; list queries are
// scoped by the report scope's company, optional project, and optional
// period. Implemented by repository.DomainRepository.
type DomainGateway interface {
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	GetProject(ctx context.Context, companyID, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, companyID string) ([]domain.Project, error)
	ListTasks(ctx context.Context, scope domain.ReportScope) ([]domain.Task, error)
	ListMaterials(ctx context.Context, scope domain.ReportScope) ([]domain.Material, error)
	ListWorkers(ctx context.Context, companyID string) ([]domain.Worker, error)
	ListTimeEntries(ctx context.Context, scope domain.ReportScope) ([]domain.TimeEntry, error)
	HasActiveMembership(ctx context.Context, userID, companyID string) (bool, error)
	HasAdvancedReporting(ctx context.Context, userID string) (bool, error)
}

// JobStore is the persistence boundary for report job rows. Terminal
// transitions are guarded: Complete and Fail only touch rows still in
// GENERATING and report whether the transition was applied, so the executor
// can skip its terminal write when a row was deleted mid-flight.
// Implemented by repository.ReportJobRepository.
type JobStore interface {
	Create(ctx context.Context, job *domain.ReportJob) error
	GetByID(ctx context.Context, id string) (*domain.ReportJob, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*domain.ReportJob, error)
	List(ctx context.Context, ownerID string, f domain.ReportJobFilter) ([]domain.ReportJob, error)
	ListScheduled(ctx context.Context) ([]domain.ReportJob, error)
	Complete(ctx context.Context, id, artifactRef string, snapshot domain.Snapshot, generatedAt time.Time) (bool, error)
	Fail(ctx context.Context, id string) (bool, error)
	MarkStale(ctx context.Context, cutoff time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
}

// Renderer turns a built document into artifact bytes for one output format.
// Implementations live in internal/render.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
}
