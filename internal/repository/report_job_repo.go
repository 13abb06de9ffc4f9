package repository

import (
	"context"
	"errors"
	"time"

	"github.com/marco/workyard/internal/domain"
	"gorm.io/gorm"
)

// ReportJobRepository handles report job persistence.
type ReportJobRepository struct {
	db *gorm.DB
}

// NewReportJobRepository creates a new ReportJobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ReportJobRepository: repository instance bound to db.
func NewReportJobRepository(db *gorm.DB) *ReportJobRepository {
	return &ReportJobRepository{db: db}
}

// Create inserts a new report job row.
func (r *ReportJobRepository) Create(ctx context.Context, job *domain.ReportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves a report job by its ID. Returns (nil, nil) when no row
// exists so callers can distinguish absence from query failure.
func (r *ReportJobRepository) GetByID(ctx context.Context, id string) (*domain.ReportJob, error) {
	var job domain.ReportJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// GetForOwner retrieves a report job by ID scoped to its owner.
func (r *ReportJobRepository) GetForOwner(ctx context.Context, id, ownerID string) (*domain.ReportJob, error) {
	var job domain.ReportJob
	if err := r.db.WithContext(ctx).
		First(&job, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// List retrieves the owner's report jobs, newest first, with optional filters.
func (r *ReportJobRepository) List(ctx context.Context, ownerID string, f domain.ReportJobFilter) ([]domain.ReportJob, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if f.CompanyID != "" {
		query = query.Where("company_id = ?", f.CompanyID)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	var jobs []domain.ReportJob
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListScheduled retrieves all recurring template rows. Used by the scheduler
// to re-register cron timers on process start.
func (r *ReportJobRepository) ListScheduled(ctx context.Context) ([]domain.ReportJob, error) {
	var jobs []domain.ReportJob
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusScheduled).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Complete transitions a GENERATING job to COMPLETED with its artifact ref,
// document snapshot, and generation timestamp. The UPDATE is guarded on the
// current status so a deleted or already-terminal row is never touched;
// the boolean result reports whether the transition was applied.
func (r *ReportJobRepository) Complete(ctx context.Context, id, artifactRef string, snapshot domain.Snapshot, generatedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ReportJob{}).
		Where("id = ? AND status = ?", id, domain.StatusGenerating).
		Updates(map[string]interface{}{
			"status":        domain.StatusCompleted,
			"artifact_ref":  artifactRef,
			"data_snapshot": snapshot,
			"generated_at":  generatedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Fail transitions a GENERATING job to FAILED, guarded the same way as
// Complete.
func (r *ReportJobRepository) Fail(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ReportJob{}).
		Where("id = ? AND status = ?", id, domain.StatusGenerating).
		Update("status", domain.StatusFailed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkStale fails every GENERATING job created before the cutoff. A job stuck
// in GENERATING past the threshold means its executor died mid-run.
func (r *ReportJobRepository) MarkStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.ReportJob{}).
		Where("status = ? AND created_at < ?", domain.StatusGenerating, cutoff).
		Update("status", domain.StatusFailed)
	return res.RowsAffected, res.Error
}

// Delete removes a report job row by ID.
func (r *ReportJobRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.ReportJob{}, "id = ?", id).Error
}
