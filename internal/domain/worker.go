package domain

import "time"

// Worker represents a crew member employed by a company.
type Worker struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	CompanyID  string    `gorm:"type:text;not null;index" json:"company_id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Trade      string    `gorm:"type:text" json:"trade,omitempty"`
	HourlyRate float64   `gorm:"default:0" json:"hourly_rate"`
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for Worker.
func (Worker) TableName() string {
	return "workers"
}

// TimeEntry represents hours a worker logged against a task on a given day.
type TimeEntry struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	TaskID    string    `gorm:"type:text;not null;index" json:"task_id"`
	ProjectID string    `gorm:"type:text;not null;index" json:"project_id"`
	CompanyID string    `gorm:"type:text;not null;index" json:"company_id"`
	WorkerID  string    `gorm:"type:text;not null;index" json:"worker_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Hours     float64   `gorm:"default:0" json:"hours"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for TimeEntry.
func (TimeEntry) TableName() string {
	return "time_entries"
}
