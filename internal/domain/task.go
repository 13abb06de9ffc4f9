package domain

import "time"

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
)

// Task represents a unit of work on a project.
type Task struct {
	ID             string     `gorm:"type:text;primaryKey" json:"id"`
	ProjectID      string     `gorm:"type:text;not null;index" json:"project_id"`
	CompanyID      string     `gorm:"type:text;not null;index" json:"company_id"`
	Title          string     `gorm:"type:text;not null" json:"title"`
	Status         TaskStatus `gorm:"type:text;default:TODO;index" json:"status"`
	Priority       string     `gorm:"type:text" json:"priority,omitempty"`
	AssigneeID     string     `gorm:"type:text;index" json:"assignee_id,omitempty"`
	EstimatedHours float64    `gorm:"default:0" json:"estimated_hours"`
	ActualHours    float64    `gorm:"default:0" json:"actual_hours"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string {
	return "tasks"
}
