package report

import (
	"math"

	"github.com/marco/workyard/internal/domain"
)

// DataBundle is the typed, renderer-agnostic output of aggregation for one
// report type. All numeric semantics (rates, variances, efficiencies) are
// resolved during aggregation; document building and rendering never compute
// figures of their own.
type DataBundle interface {
	ReportType() domain.ReportType
}

// TaskLine is a single task row shared by several bundle types.
type TaskLine struct {
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Assignee       string  `json:"assignee"`
	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	DueDate        string  `json:"due_date"`
}

// ProjectLine summarizes one project's standing.
type ProjectLine struct {
	Name           string  `json:"name"`
	Status         string  `json:"status"`
	Budget         float64 `json:"budget"`
	Spent          float64 `json:"spent"`
	Variance       float64 `json:"variance"`
	TaskCount      int     `json:"task_count"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// ProjectSummaryBundle backs PROJECT_SUMMARY reports.
type ProjectSummaryBundle struct {
	Projects       []ProjectLine `json:"projects"`
	TotalTasks     int           `json:"total_tasks"`
	CompletedTasks int           `json:"completed_tasks"`
	CompletionRate float64       `json:"completion_rate"`
	Tasks          []TaskLine    `json:"tasks"`
}

func (ProjectSummaryBundle) ReportType() domain.ReportType { return domain.ReportTypeProjectSummary }

// FinancialLine is one project's budget standing.
type FinancialLine struct {
	ProjectName string  `json:"project_name"`
	Budget      float64 `json:"budget"`
	Spent       float64 `json:"spent"`
	Variance    float64 `json:"variance"`
	SpentPct    float64 `json:"spent_pct"`
}

// FinancialBundle backs FINANCIAL_REPORT reports.
type FinancialBundle struct {
	Lines         []FinancialLine `json:"lines"`
	TotalBudget   float64         `json:"total_budget"`
	TotalSpent    float64         `json:"total_spent"`
	TotalVariance float64         `json:"total_variance"`
	MaterialCost  float64         `json:"material_cost"`
	LaborCost     float64         `json:"labor_cost"`
}

func (FinancialBundle) ReportType() domain.ReportType { return domain.ReportTypeFinancial }

// WorkerLine is one crew member's productivity standing.
type WorkerLine struct {
	Name           string  `json:"name"`
	Trade          string  `json:"trade"`
	AssignedTasks  int     `json:"assigned_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	HoursLogged    float64 `json:"hours_logged"`
}

// TeamProductivityBundle backs TEAM_PRODUCTIVITY reports.
type TeamProductivityBundle struct {
	Workers           []WorkerLine `json:"workers"`
	TotalWorkers      int          `json:"total_workers"`
	AvgCompletionRate float64      `json:"avg_completion_rate"`
	TotalHoursLogged  float64      `json:"total_hours_logged"`
}

func (TeamProductivityBundle) ReportType() domain.ReportType {
	return domain.ReportTypeTeamProductivity
}

// TaskCompletionBundle backs TASK_COMPLETION reports.
type TaskCompletionBundle struct {
	TotalTasks     int        `json:"total_tasks"`
	TodoCount      int        `json:"todo_count"`
	InProgress     int        `json:"in_progress_count"`
	DoneCount      int        `json:"done_count"`
	BlockedCount   int        `json:"blocked_count"`
	OverdueCount   int        `json:"overdue_count"`
	CompletionRate float64    `json:"completion_rate"`
	Tasks          []TaskLine `json:"tasks"`
}

func (TaskCompletionBundle) ReportType() domain.ReportType { return domain.ReportTypeTaskCompletion }

// MaterialLine is one material line item with its extended cost.
type MaterialLine struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitCost  float64 `json:"unit_cost"`
	TotalCost float64 `json:"total_cost"`
	Status    string  `json:"status"`
	Supplier  string  `json:"supplier"`
}

// MaterialInventoryBundle backs MATERIAL_INVENTORY reports.
type MaterialInventoryBundle struct {
	Materials      []MaterialLine `json:"materials"`
	TotalLines     int            `json:"total_lines"`
	TotalValue     float64        `json:"total_value"`
	DeliveredCount int            `json:"delivered_count"`
	OrderedCount   int            `json:"ordered_count"`
}

func (MaterialInventoryBundle) ReportType() domain.ReportType {
	return domain.ReportTypeMaterialInventory
}

// TimeLine is one task's estimated-versus-actual standing.
type TimeLine struct {
	Title          string  `json:"title"`
	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	Efficiency     float64 `json:"efficiency"`
}

// TimeTrackingBundle backs TIME_TRACKING reports.
type TimeTrackingBundle struct {
	Tasks             []TimeLine `json:"tasks"`
	TotalEstimated    float64    `json:"total_estimated"`
	TotalActual       float64    `json:"total_actual"`
	OverallEfficiency float64    `json:"overall_efficiency"`
	EntryCount        int        `json:"entry_count"`
}

func (TimeTrackingBundle) ReportType() domain.ReportType { return domain.ReportTypeTimeTracking }

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// completionRate returns completed/total as a percentage rounded to two
// decimals; an empty population yields 0.
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}

// efficiency returns estimated/actual as a percentage rounded to two
// decimals. Either operand being zero yields a defined efficiency of 0
// rather than a division fault.
func efficiency(estimated, actual float64) float64 {
	if estimated == 0 || actual == 0 {
		return 0
	}
	return round2(estimated / actual * 100)
}
