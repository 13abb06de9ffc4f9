package report

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/marco/workyard/internal/domain"
)

// Document is the format-neutral intermediate representation shared by both
// renderers: an ordered list of sections, each a title plus a key/value
// summary block, a table, or both. Formatting decisions that are irrelevant
// to rendering (currency symbol, date and percent formatting) are resolved
// here once so the renderers stay thin and type-agnostic.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is one titled block of the document.
type Section struct {
	Title   string        `json:"title"`
	Summary []SummaryPair `json:"summary,omitempty"`
	Table   *Table        `json:"table,omitempty"`
}

// SummaryPair is one label/value line in a summary block.
type SummaryPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a column-headed grid of scalar cells.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// BuildDocument builds the document model from a data bundle. The build is
// pure and deterministic: the same bundle always yields a structurally
// identical document.
func BuildDocument(bundle DataBundle) (*Document, error) {
	switch b := bundle.(type) {
	case ProjectSummaryBundle:
		return buildProjectSummary(b), nil
	case FinancialBundle:
		return buildFinancial(b), nil
	case TeamProductivityBundle:
		return buildTeamProductivity(b), nil
	case TaskCompletionBundle:
		return buildTaskCompletion(b), nil
	case MaterialInventoryBundle:
		return buildMaterialInventory(b), nil
	case TimeTrackingBundle:
		return buildTimeTracking(b), nil
	default:
		return nil, fmt.Errorf("%w: no document builder for bundle type %T", ErrValidation, bundle)
	}
}

func buildProjectSummary(b ProjectSummaryBundle) *Document {
	doc := &Document{Title: "Project Summary"}

	doc.Sections = append(doc.Sections, Section{
		Title: "Overview",
		Summary: []SummaryPair{
			{Label: "Projects", Value: strconv.Itoa(len(b.Projects))},
			{Label: "Total Tasks", Value: strconv.Itoa(b.TotalTasks)},
			{Label: "Completed Tasks", Value: strconv.Itoa(b.CompletedTasks)},
			{Label: "Completion Rate", Value: formatPercent(b.CompletionRate)},
		},
	})

	if len(b.Projects) > 0 {
		table := &Table{Headers: []string{"Project", "Status", "Budget", "Spent", "Variance", "Tasks", "Completion"}}
		for _, p := range b.Projects {
			table.Rows = append(table.Rows, []string{
				p.Name, p.Status, formatMoney(p.Budget), formatMoney(p.Spent),
				formatMoney(p.Variance), strconv.Itoa(p.TaskCount), formatPercent(p.CompletionRate),
			})
		}
		doc.Sections = append(doc.Sections, Section{Title: "Projects", Table: table})
	}

	doc.Sections = append(doc.Sections, Section{Title: "Tasks", Table: taskTable(b.Tasks)})
	return doc
}

func buildFinancial(b FinancialBundle) *Document {
	doc := &Document{Title: "Financial Report"}

	doc.Sections = append(doc.Sections, Section{
		Title: "Totals",
		Summary: []SummaryPair{
			{Label: "Total Budget", Value: formatMoney(b.TotalBudget)},
			{Label: "Total Spent", Value: formatMoney(b.TotalSpent)},
			{Label: "Variance", Value: formatMoney(b.TotalVariance)},
			{Label: "Material Cost", Value: formatMoney(b.MaterialCost)},
			{Label: "Labor Cost", Value: formatMoney(b.LaborCost)},
		},
	})

	table := &Table{Headers: []string{"Project", "Budget", "Spent", "Variance", "Spent %"}}
	for _, l := range b.Lines {
		table.Rows = append(table.Rows, []string{
			l.ProjectName, formatMoney(l.Budget), formatMoney(l.Spent),
			formatMoney(l.Variance), formatPercent(l.SpentPct),
		})
	}
	doc.Sections = append(doc.Sections, Section{Title: "Budget by Project", Table: table})
	return doc
}

func buildTeamProductivity(b TeamProductivityBundle) *Document {
	doc := &Document{Title: "Team Productivity"}

	doc.Sections = append(doc.Sections, Section{
		Title: "Team Overview",
		Summary: []SummaryPair{
			{Label: "Workers", Value: strconv.Itoa(b.TotalWorkers)},
			{Label: "Average Completion Rate", Value: formatPercent(b.AvgCompletionRate)},
			{Label: "Total Hours Logged", Value: formatHours(b.TotalHoursLogged)},
		},
	})

	table := &Table{Headers: []string{"Worker", "Trade", "Assigned", "Completed", "Completion", "Hours"}}
	for _, w := range b.Workers {
		table.Rows = append(table.Rows, []string{
			w.Name, w.Trade, strconv.Itoa(w.AssignedTasks), strconv.Itoa(w.CompletedTasks),
			formatPercent(w.CompletionRate), formatHours(w.HoursLogged),
		})
	}
	doc.Sections = append(doc.Sections, Section{Title: "Workers", Table: table})
	return doc
}

func buildTaskCompletion(b TaskCompletionBundle) *Document {
	doc := &Document{Title: "Task Completion"}

	doc.Sections = append(doc.Sections, Section{
		Title: "Status Breakdown",
		Summary: []SummaryPair{
			{Label: "Total Tasks", Value: strconv.Itoa(b.TotalTasks)},
			{Label: "To Do", Value: strconv.Itoa(b.TodoCount)},
			{Label: "In Progress", Value: strconv.Itoa(b.InProgress)},
			{Label: "Done", Value: strconv.Itoa(b.DoneCount)},
			{Label: "Blocked", Value: strconv.Itoa(b.BlockedCount)},
			{Label: "Overdue", Value: strconv.Itoa(b.OverdueCount)},
			{Label: "Completion Rate", Value: formatPercent(b.CompletionRate)},
		},
	})

	doc.Sections = append(doc.Sections, Section{Title: "Tasks", Table: taskTable(b.Tasks)})
	return doc
}

func buildMaterialInventory(b MaterialInventoryBundle) *Document {
	doc := &Document{Title: "Material Inventory"}

	doc.Sections = append(doc.Sections, Section{
		Title: "Inventory Overview",
		Summary: []SummaryPair{
			{Label: "Line Items", Value: strconv.Itoa(b.TotalLines)},
			{Label: "Total Value", Value: formatMoney(b.TotalValue)},
			{Label: "Delivered", Value: strconv.Itoa(b.DeliveredCount)},
			{Label: "On Order", Value: strconv.Itoa(b.OrderedCount)},
		},
	})

	table := &Table{Headers: []string{"Material", "Quantity", "Unit", "Unit Cost", "Total", "Status", "Supplier"}}
	for _, m := range b.Materials {
		table.Rows = append(table.Rows, []string{
			m.Name, formatQuantity(m.Quantity), m.Unit, formatMoney(m.UnitCost),
			formatMoney(m.TotalCost), m.Status, m.Supplier,
		})
	}
	doc.Sections = append(doc.Sections, Section{Title: "Materials", Table: table})
	return doc
}

func buildTimeTracking(b TimeTrackingBundle) *Document {
	doc := &Document{Title: "Time Tracking"}

	doc.Sections = append(doc.Sections, Section{
		Title: "Hours Overview",
		Summary: []SummaryPair{
			{Label: "Estimated Hours", Value: formatHours(b.TotalEstimated)},
			{Label: "Actual Hours", Value: formatHours(b.TotalActual)},
			{Label: "Overall Efficiency", Value: formatPercent(b.OverallEfficiency)},
			{Label: "Time Entries", Value: strconv.Itoa(b.EntryCount)},
		},
	})

	table := &Table{Headers: []string{"Task", "Estimated", "Actual", "Efficiency"}}
	for _, t := range b.Tasks {
		table.Rows = append(table.Rows, []string{
			t.Title, formatHours(t.EstimatedHours), formatHours(t.ActualHours), formatPercent(t.Efficiency),
		})
	}
	doc.Sections = append(doc.Sections, Section{Title: "Tasks", Table: table})
	return doc
}

func taskTable(tasks []TaskLine) *Table {
	table := &Table{Headers: []string{"Task", "Status", "Priority", "Assignee", "Est. Hours", "Actual Hours", "Due"}}
	for _, t := range tasks {
		table.Rows = append(table.Rows, []string{
			t.Title, t.Status, t.Priority, t.Assignee,
			formatHours(t.EstimatedHours), formatHours(t.ActualHours), t.DueDate,
		})
	}
	return table
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(round2(v), 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Snapshot serializes the document for the job row's data snapshot column.
func (d *Document) Snapshot() (domain.Snapshot, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document snapshot: %w", err)
	}
	return domain.Snapshot(data), nil
}
