package report

import "github.com/marco/workyard/internal/domain"

// TypeInfo describes one entry of the report type catalog served by the
// templates endpoint.
type TypeInfo struct {
	Type        domain.ReportType     `json:"type"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	ScopeFields []string              `json:"scope_fields"`
	Formats     []domain.ReportFormat `json:"formats"`
	Premium     bool                  `json:"premium"`
}

var allFormats = []domain.ReportFormat{domain.FormatDocument, domain.FormatSpreadsheet}

// Catalog returns the static report type catalog.
func Catalog() []TypeInfo {
	return []TypeInfo{
		{
			Type:        domain.ReportTypeProjectSummary,
			Name:        "Project Summary",
			Description: "Project standing with budgets, task counts, and completion rates.",
			ScopeFields: []string{"company_id", "project_id?", "period?"},
			Formats:     allFormats,
			Premium:     domain.ReportTypeProjectSummary.Premium(),
		},
		{
			Type:        domain.ReportTypeFinancial,
			Name:        "Financial Report",
			Description: "Budget versus spend per project plus material and labor costs.",
			ScopeFields: []string{"company_id", "project_id?", "period?"},
			Formats:     allFormats,
			Premium:     domain.ReportTypeFinancial.Premium(),
		},
		{
			Type:        domain.ReportTypeTeamProductivity,
			Name:        "Team Productivity",
			Description: "Per-worker task completion and hours logged.",
			ScopeFields: []string{"company_id", "project_id?", "period?"},
			Formats:     allFormats,
			Premium:     domain.ReportTypeTeamProductivity.Premium(),
		},
		{
			Type:        domain.ReportTypeTaskCompletion,
			Name:        "Task Completion",
			Description: "Task status breakdown with overdue tracking.",
			ScopeFields: []string{"company_id", "project_id?", "period?"},
			Formats:     allFormats,
			Premium:     domain.ReportTypeTaskCompletion.Premium(),
		},
		{
			Type:        domain.ReportTypeMaterialInventory,
			Name:        "Material Inventory",
			Description: "Material line items with extended costs and procurement status.",
			ScopeFields: []string{"company_id", "project_id?"},
			Formats:     allFormats,
			Premium:     domain.ReportTypeMaterialInventory.Premium(),
		},
		{
			Type:        domain.ReportTypeTimeTracking,
			Name:        "Time Tracking",
			Description: "Estimated versus actual hours with per-task efficiency.",
			ScopeFields: []string{"company_id", "project_id?", "period?"},
			Formats:     allFormats,
			Premium:     domain.ReportTypeTimeTracking.Premium(),
		},
	}
}
