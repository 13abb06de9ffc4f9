package report

import (
	"context"
	"fmt"
	"time"

	"github.com/marco/workyard/internal/domain"
)

// Aggregator turns a report scope into a typed data bundle by querying the
// domain gateway. Aggregation is a pure read: it never mutates domain data
// and aggregating the same scope twice yields equivalent bundles up to
// domain-data changes in between. An empty scope produces a zeroed bundle,
// never an error; an unresolvable scope produces ErrScopeNotFound.
type Aggregator struct {
	gw DomainGateway
}

// NewAggregator creates an Aggregator over the given gateway.
func NewAggregator(gw DomainGateway) *Aggregator {
	return &Aggregator{gw: gw}
}

// Aggregate builds the data bundle for one report type and scope.
func (a *Aggregator) Aggregate(ctx context.Context, typ domain.ReportType, scope domain.ReportScope) (DataBundle, error) {
	projects, err := a.resolveScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	switch typ {
	case domain.ReportTypeProjectSummary:
		return a.projectSummary(ctx, scope, projects)
	case domain.ReportTypeFinancial:
		return a.financial(ctx, scope, projects)
	case domain.ReportTypeTeamProductivity:
		return a.teamProductivity(ctx, scope)
	case domain.ReportTypeTaskCompletion:
		return a.taskCompletion(ctx, scope)
	case domain.ReportTypeMaterialInventory:
		return a.materialInventory(ctx, scope)
	case domain.ReportTypeTimeTracking:
		return a.timeTracking(ctx, scope)
	default:
		return nil, fmt.Errorf("%w: unknown report type %q", ErrValidation, typ)
	}
}

// resolveScope verifies the scoped company (and project, when set) exist and
// returns the projects the scope covers.
func (a *Aggregator) resolveScope(ctx context.Context, scope domain.ReportScope) ([]domain.Project, error) {
	company, err := a.gw.GetCompany(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company %s", ErrScopeNotFound, scope.CompanyID)
	}

	if scope.ProjectID != "" {
		project, err := a.gw.GetProject(ctx, scope.CompanyID, scope.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project: %w", err)
		}
		if project == nil {
			return nil, fmt.Errorf("%w: project %s", ErrScopeNotFound, scope.ProjectID)
		}
		return []domain.Project{*project}, nil
	}

	projects, err := a.gw.ListProjects(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// workerNames builds an id -> display name index for task assignees.
func (a *Aggregator) workerNames(ctx context.Context, companyID string) (map[string]string, error) {
	workers, err := a.gw.ListWorkers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.Name
	}
	return names, nil
}

func taskLine(t domain.Task, names map[string]string) TaskLine {
	line := TaskLine{
		Title:          t.Title,
		Status:         string(t.Status),
		Priority:       t.Priority,
		Assignee:       names[t.AssigneeID],
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
	}
	if t.DueDate != nil {
		line.DueDate = t.DueDate.Format("2006-01-02")
	}
	return line
}

func (a *Aggregator) projectSummary(ctx context.Context, scope domain.ReportScope, projects []domain.Project) (DataBundle, error) {
	tasks, err := a.gw.ListTasks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	names, err := a.workerNames(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}

	byProject := make(map[string][]domain.Task)
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
	}

	bundle := ProjectSummaryBundle{
		Projects: make([]ProjectLine, 0, len(projects)),
		Tasks:    make([]TaskLine, 0, len(tasks)),
	}

	completed := 0
	for _, p := range projects {
		pt := byProject[p.ID]
		done := 0
		for _, t := range pt {
			if t.Status == domain.TaskStatusDone {
				done++
			}
		}
		bundle.Projects = append(bundle.Projects, ProjectLine{
			Name:           p.Name,
			Status:         string(p.Status),
			Budget:         p.Budget,
			Spent:          p.Spent,
			Variance:       p.Budget - p.Spent,
			TaskCount:      len(pt),
			CompletedTasks: done,
			CompletionRate: completionRate(done, len(pt)),
		})
	}
	for _, t := range tasks {
		if t.Status == domain.TaskStatusDone {
			completed++
		}
		bundle.Tasks = append(bundle.Tasks, taskLine(t, names))
	}

	bundle.TotalTasks = len(tasks)
	bundle.CompletedTasks = completed
	bundle.CompletionRate = completionRate(completed, len(tasks))
	return bundle, nil
}

func (a *Aggregator) financial(ctx context.Context, scope domain.ReportScope, projects []domain.Project) (DataBundle, error) {
	materials, err := a.gw.ListMaterials(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	entries, err := a.gw.ListTimeEntries(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	workers, err := a.gw.ListWorkers(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	rates := make(map[string]float64, len(workers))
	for _, w := range workers {
		rates[w.ID] = w.HourlyRate
	}

	bundle := FinancialBundle{Lines: make([]FinancialLine, 0, len(projects))}
	for _, p := range projects {
		spentPct := 0.0
		if p.Budget > 0 {
			spentPct = round2(p.Spent / p.Budget * 100)
		}
		bundle.Lines = append(bundle.Lines, FinancialLine{
			ProjectName: p.Name,
			Budget:      p.Budget,
			Spent:       p.Spent,
			Variance:    p.Budget - p.Spent,
			SpentPct:    spentPct,
		})
		bundle.TotalBudget += p.Budget
		bundle.TotalSpent += p.Spent
	}
	bundle.TotalVariance = bundle.TotalBudget - bundle.TotalSpent

	for _, m := range materials {
		bundle.MaterialCost += m.TotalCost()
	}
	for _, e := range entries {
		bundle.LaborCost += e.Hours * rates[e.WorkerID]
	}
	bundle.MaterialCost = round2(bundle.MaterialCost)
	bundle.LaborCost = round2(bundle.LaborCost)
	return bundle, nil
}

func (a *Aggregator) teamProductivity(ctx context.Context, scope domain.ReportScope) (DataBundle, error) {
	workers, err := a.gw.ListWorkers(ctx, scope.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	tasks, err := a.gw.ListTasks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	entries, err := a.gw.ListTimeEntries(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	assigned := make(map[string]int)
	done := make(map[string]int)
	for _, t := range tasks {
		if t.AssigneeID == "" {
			continue
		}
		assigned[t.AssigneeID]++
		if t.Status == domain.TaskStatusDone {
			done[t.AssigneeID]++
		}
	}
	hours := make(map[string]float64)
	for _, e := range entries {
		hours[e.WorkerID] += e.Hours
	}

	bundle := TeamProductivityBundle{
		Workers:      make([]WorkerLine, 0, len(workers)),
		TotalWorkers: len(workers),
	}
	var rateSum float64
	for _, w := range workers {
		line := WorkerLine{
			Name:           w.Name,
			Trade:          w.Trade,
			AssignedTasks:  assigned[w.ID],
			CompletedTasks: done[w.ID],
			CompletionRate: completionRate(done[w.ID], assigned[w.ID]),
			HoursLogged:    round2(hours[w.ID]),
		}
		bundle.Workers = append(bundle.Workers, line)
		bundle.TotalHoursLogged += hours[w.ID]
		rateSum += line.CompletionRate
	}
	bundle.TotalHoursLogged = round2(bundle.TotalHoursLogged)
	if len(workers) > 0 {
		bundle.AvgCompletionRate = round2(rateSum / float64(len(workers)))
	}
	return bundle, nil
}

func (a *Aggregator) taskCompletion(ctx context.Context, scope domain.ReportScope) (DataBundle, error) {
	tasks, err := a.gw.ListTasks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	names, err := a.workerNames(ctx, scope.CompanyID)
	if err != nil {
		return nil, err
	}

	bundle := TaskCompletionBundle{
		TotalTasks: len(tasks),
		Tasks:      make([]TaskLine, 0, len(tasks)),
	}
	now := time.Now()
	for _, t := range tasks {
		switch t.Status {
		case domain.TaskStatusTodo:
			bundle.TodoCount++
		case domain.TaskStatusInProgress:
			bundle.InProgress++
		case domain.TaskStatusDone:
			bundle.DoneCount++
		case domain.TaskStatusBlocked:
			bundle.BlockedCount++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != domain.TaskStatusDone {
			bundle.OverdueCount++
		}
		bundle.Tasks = append(bundle.Tasks, taskLine(t, names))
	}
	bundle.CompletionRate = completionRate(bundle.DoneCount, bundle.TotalTasks)
	return bundle, nil
}

func (a *Aggregator) materialInventory(ctx context.Context, scope domain.ReportScope) (DataBundle, error) {
	materials, err := a.gw.ListMaterials(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	bundle := MaterialInventoryBundle{
		Materials:  make([]MaterialLine, 0, len(materials)),
		TotalLines: len(materials),
	}
	for _, m := range materials {
		total := round2(m.TotalCost())
		bundle.Materials = append(bundle.Materials, MaterialLine{
			Name:      m.Name,
			Quantity:  m.Quantity,
			Unit:      m.Unit,
			UnitCost:  m.UnitCost,
			TotalCost: total,
			Status:    string(m.Status),
			Supplier:  m.Supplier,
		})
		bundle.TotalValue += total
		switch m.Status {
		case domain.MaterialStatusDelivered:
			bundle.DeliveredCount++
		case domain.MaterialStatusOrdered:
			bundle.OrderedCount++
		}
	}
	bundle.TotalValue = round2(bundle.TotalValue)
	return bundle, nil
}

func (a *Aggregator) timeTracking(ctx context.Context, scope domain.ReportScope) (DataBundle, error) {
	tasks, err := a.gw.ListTasks(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	entries, err := a.gw.ListTimeEntries(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}

	bundle := TimeTrackingBundle{
		Tasks:      make([]TimeLine, 0, len(tasks)),
		EntryCount: len(entries),
	}
	for _, t := range tasks {
		bundle.Tasks = append(bundle.Tasks, TimeLine{
			Title:          t.Title,
			EstimatedHours: t.EstimatedHours,
			ActualHours:    t.ActualHours,
			Efficiency:     efficiency(t.EstimatedHours, t.ActualHours),
		})
		bundle.TotalEstimated += t.EstimatedHours
		bundle.TotalActual += t.ActualHours
	}
	bundle.TotalEstimated = round2(bundle.TotalEstimated)
	bundle.TotalActual = round2(bundle.TotalActual)
	bundle.OverallEfficiency = efficiency(bundle.TotalEstimated, bundle.TotalActual)
	return bundle, nil
}
