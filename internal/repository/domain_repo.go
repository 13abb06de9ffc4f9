package repository

import (
	"context"
	"errors"

	"github.com/marco/workyard/internal/domain"
	"gorm.io/gorm"
)

// DomainRepository is the read-only gateway into the business store that
// report aggregation draws from. All queries are scoped by company and,
// where the scope carries them, by project and time period.
type DomainRepository struct {
	db *gorm.DB
}

// NewDomainRepository creates a new DomainRepository.
func NewDomainRepository(db *gorm.DB) *DomainRepository {
	return &DomainRepository{db: db}
}

// GetCompany retrieves a company by ID. Returns (nil, nil) when absent.
func (r *DomainRepository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	var company domain.Company
	if err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

// GetProject retrieves a project by ID within a company. Returns (nil, nil)
// when absent or when the project belongs to another company.
func (r *DomainRepository) GetProject(ctx context.Context, companyID, projectID string) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		First(&project, "id = ? AND company_id = ?", projectID, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

// ListProjects retrieves all projects of a company.
func (r *DomainRepository) ListProjects(ctx context.Context, companyID string) ([]domain.Project, error) {
	var projects []domain.Project
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListTasks retrieves tasks matching the report scope.
func (r *DomainRepository) ListTasks(ctx context.Context, scope domain.ReportScope) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", scope.CompanyID)
	if scope.ProjectID != "" {
		query = query.Where("project_id = ?", scope.ProjectID)
	}
	if scope.PeriodStart != nil {
		query = query.Where("created_at >= ?", *scope.PeriodStart)
	}
	if scope.PeriodEnd != nil {
		query = query.Where("created_at <= ?", *scope.PeriodEnd)
	}
	var tasks []domain.Task
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListMaterials retrieves material lines matching the report scope.
func (r *DomainRepository) ListMaterials(ctx context.Context, scope domain.ReportScope) ([]domain.Material, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", scope.CompanyID)
	if scope.ProjectID != "" {
		query = query.Where("project_id = ?", scope.ProjectID)
	}
	var materials []domain.Material
	if err := query.Order("name ASC").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// ListWorkers retrieves all workers of a company.
func (r *DomainRepository) ListWorkers(ctx context.Context, companyID string) ([]domain.Worker, error) {
	var workers []domain.Worker
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

// ListTimeEntries retrieves time entries matching the report scope.
func (r *DomainRepository) ListTimeEntries(ctx context.Context, scope domain.ReportScope) ([]domain.TimeEntry, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", scope.CompanyID)
	if scope.ProjectID != "" {
		query = query.Where("project_id = ?", scope.ProjectID)
	}
	if scope.PeriodStart != nil {
		query = query.Where("date >= ?", *scope.PeriodStart)
	}
	if scope.PeriodEnd != nil {
		query = query.Where("date <= ?", *scope.PeriodEnd)
	}
	var entries []domain.TimeEntry
	if err := query.Order("date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// HasActiveMembership reports whether the user holds an active membership in
// the company. Session management lives outside this service; this check is
// the report engine's creation-time authorization boundary.
func (r *DomainRepository) HasActiveMembership(ctx context.Context, userID, companyID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("user_id = ? AND company_id = ? AND active = ?", userID, companyID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasAdvancedReporting reports whether the user is entitled to premium report
// types. Checked at creation time only, never re-checked mid-generation.
func (r *DomainRepository) HasAdvancedReporting(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Entitlement{}).
		Where("user_id = ? AND advanced_reporting = ?", userID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
