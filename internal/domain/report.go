package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ReportType identifies one of the supported report catalogs.
type ReportType string

const (
	ReportTypeProjectSummary    ReportType = "PROJECT_SUMMARY"
	ReportTypeFinancial         ReportType = "FINANCIAL_REPORT"
	ReportTypeTeamProductivity  ReportType = "TEAM_PRODUCTIVITY"
	ReportTypeTaskCompletion    ReportType = "TASK_COMPLETION"
	ReportTypeMaterialInventory ReportType = "MATERIAL_INVENTORY"
	ReportTypeTimeTracking      ReportType = "TIME_TRACKING"
)

// ReportTypes lists all supported report types in catalog order.
var ReportTypes = []ReportType{
	ReportTypeProjectSummary,
	ReportTypeFinancial,
	ReportTypeTeamProductivity,
	ReportTypeTaskCompletion,
	ReportTypeMaterialInventory,
	ReportTypeTimeTracking,
}

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeProjectSummary, ReportTypeFinancial, ReportTypeTeamProductivity,
		ReportTypeTaskCompletion, ReportTypeMaterialInventory, ReportTypeTimeTracking:
		return true
	}
	return false
}

// Premium reports whether t requires the advanced-reporting entitlement.
func (t ReportType) Premium() bool {
	switch t {
	case ReportTypeFinancial, ReportTypeTeamProductivity, ReportTypeTimeTracking:
		return true
	}
	return false
}

// ReportFormat selects the rendered output format.
type ReportFormat string

const (
	FormatDocument    ReportFormat = "OUTPUT_DOCUMENT"
	FormatSpreadsheet ReportFormat = "OUTPUT_SPREADSHEET"
)

// Valid reports whether f is a known output format.
func (f ReportFormat) Valid() bool {
	return f == FormatDocument || f == FormatSpreadsheet
}

// ContentType returns the MIME type served for artifacts of this format.
func (f ReportFormat) ContentType() string {
	if f == FormatSpreadsheet {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Extension returns the file extension (with dot) for artifacts of this format.
func (f ReportFormat) Extension() string {
	if f == FormatSpreadsheet {
		return ".xlsx"
	}
	return ".pdf"
}

// ReportStatus represents the lifecycle state of a report job.
//
// GENERATING is the initial state for concrete jobs and moves exactly once to
// COMPLETED or FAILED. SCHEDULED marks a recurring template row that never
// transitions; it only spawns new GENERATING rows on each cron tick.
type ReportStatus string

const (
	StatusGenerating ReportStatus = "GENERATING"
	StatusCompleted  ReportStatus = "COMPLETED"
	StatusFailed     ReportStatus = "FAILED"
	StatusScheduled  ReportStatus = "SCHEDULED"
)

// Valid reports whether s is a known job status.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusGenerating, StatusCompleted, StatusFailed, StatusScheduled:
		return true
	}
	return false
}

// ReportScope parameterizes the data selection for a single report: the
// company, an optional project, and an optional time window.
type ReportScope struct {
	CompanyID   string     `json:"company_id"`
	ProjectID   string     `json:"project_id,omitempty"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
}

// Snapshot stores the format-neutral document content of a completed report
// as JSON in a text column, so a report can be inspected or re-rendered
// without re-running aggregation.
type Snapshot json.RawMessage

// Value implements driver.Valuer for database serialization.
func (s Snapshot) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return string(s), nil
}

// Scan implements sql.Scanner for database deserialization.
func (s *Snapshot) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*s = Snapshot(append([]byte(nil), v...))
	case string:
		*s = Snapshot(v)
	default:
		return errors.New("failed to scan Snapshot")
	}
	return nil
}

// MarshalJSON emits the raw snapshot content.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// UnmarshalJSON stores the raw snapshot content.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	*s = Snapshot(append([]byte(nil), data...))
	return nil
}

// ReportJob is the central report engine entity: a concrete generation run
// (GENERATING/COMPLETED/FAILED) or a recurring template (SCHEDULED).
type ReportJob struct {
	ID          string       `gorm:"type:text;primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Type        ReportType   `gorm:"type:text;not null;index" json:"type"`
	Format      ReportFormat `gorm:"type:text;not null" json:"format"`
	Status      ReportStatus `gorm:"type:text;not null;index" json:"status"`
	OwnerID     string       `gorm:"type:text;not null;index" json:"owner_id"`
	CompanyID   string       `gorm:"type:text;not null;index" json:"company_id"`
	ProjectID   string       `gorm:"type:text" json:"project_id,omitempty"`
	PeriodStart *time.Time   `json:"period_start,omitempty"`
	PeriodEnd   *time.Time   `json:"period_end,omitempty"`
	IsRecurring bool         `gorm:"default:false" json:"is_recurring"`
	Schedule    string       `gorm:"type:text" json:"schedule,omitempty"`
	// DataSnapshot holds the built document model; set only on COMPLETED rows.
	DataSnapshot Snapshot `gorm:"type:text" json:"data_snapshot,omitempty"`
	// ArtifactRef points into artifact storage; non-empty iff COMPLETED.
	ArtifactRef string     `gorm:"type:text" json:"artifact_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// TableName returns the database table name for ReportJob.
func (ReportJob) TableName() string {
	return "report_jobs"
}

// Scope assembles the report scope descriptor from the stored columns.
func (j *ReportJob) Scope() ReportScope {
	return ReportScope{
		CompanyID:   j.CompanyID,
		ProjectID:   j.ProjectID,
		PeriodStart: j.PeriodStart,
		PeriodEnd:   j.PeriodEnd,
	}
}

// Terminal reports whether the job has reached a final state.
func (j *ReportJob) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// ReportJobFilter narrows report job listings. Zero-valued fields are ignored.
type ReportJobFilter struct {
	CompanyID string
	Type      ReportType
	Status    ReportStatus
}
