package domain

import "time"

// ProjectStatus represents the lifecycle state of a construction project.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "PLANNING"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
)

// Project represents a construction project within a company.
type Project struct {
	ID        string        `gorm:"type:text;primaryKey" json:"id"`
	CompanyID string        `gorm:"type:text;not null;index" json:"company_id"`
	Name      string        `gorm:"type:text;not null" json:"name"`
	Address   string        `gorm:"type:text" json:"address,omitempty"`
	Status    ProjectStatus `gorm:"type:text;default:PLANNING" json:"status"`
	Budget    float64       `gorm:"default:0" json:"budget"`
	Spent     float64       `gorm:"default:0" json:"spent"`
	StartDate *time.Time    `json:"start_date,omitempty"`
	EndDate   *time.Time    `json:"end_date,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Project.
func (Project) TableName() string {
	return "projects"
}
