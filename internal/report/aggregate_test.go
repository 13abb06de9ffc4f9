package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marco/workyard/internal/domain"
)

func seedGateway() *fakeGateway {
	gw := newFakeGateway()
	gw.companies["co-1"] = &domain.Company{ID: "co-1", Name: "Acme Construction"}
	return gw
}

func TestAggregateEmptyScope(t *testing.T) {
	// A company with no projects, tasks, or workers must aggregate to a
	// zeroed bundle for every report type, never an error.
	agg := NewAggregator(seedGateway())
	scope := domain.ReportScope{CompanyID: "co-1"}

	for _, typ := range domain.ReportTypes {
		t.Run(string(typ), func(t *testing.T) {
			bundle, err := agg.Aggregate(context.Background(), typ, scope)
			if err != nil {
				t.Fatalf("Aggregate(%s) returned error: %v", typ, err)
			}
			if bundle == nil {
				t.Fatalf("Aggregate(%s) returned nil bundle", typ)
			}
			if bundle.ReportType() != typ {
				t.Errorf("bundle type = %s, want %s", bundle.ReportType(), typ)
			}
		})
	}
}

func TestAggregateScopeNotFound(t *testing.T) {
	agg := NewAggregator(seedGateway())

	tests := []struct {
		name  string
		scope domain.ReportScope
	}{
		{"unknown company", domain.ReportScope{CompanyID: "co-missing"}},
		{"unknown project", domain.ReportScope{CompanyID: "co-1", ProjectID: "prj-missing"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := agg.Aggregate(context.Background(), domain.ReportTypeProjectSummary, tt.scope)
			if !errors.Is(err, ErrScopeNotFound) {
				t.Errorf("Aggregate error = %v, want ErrScopeNotFound", err)
			}
		})
	}
}

func TestAggregateUnknownType(t *testing.T) {
	agg := NewAggregator(seedGateway())
	_, err := agg.Aggregate(context.Background(), domain.ReportType("BOGUS"), domain.ReportScope{CompanyID: "co-1"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Aggregate error = %v, want ErrValidation", err)
	}
}

func TestProjectSummaryCompletionRate(t *testing.T) {
	gw := seedGateway()
	gw.projects = []domain.Project{
		{ID: "prj-1", CompanyID: "co-1", Name: "Tower A", Budget: 1000, Spent: 400},
	}
	for i := 0; i < 10; i++ {
		status := domain.TaskStatusTodo
		if i < 6 {
			status = domain.TaskStatusDone
		}
		gw.tasks = append(gw.tasks, domain.Task{
			ID: string(rune('a' + i)), ProjectID: "prj-1", CompanyID: "co-1",
			Title: "task", Status: status,
		})
	}

	agg := NewAggregator(gw)
	bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeProjectSummary, domain.ReportScope{CompanyID: "co-1"})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	ps := bundle.(ProjectSummaryBundle)

	if ps.TotalTasks != 10 || ps.CompletedTasks != 6 {
		t.Errorf("tasks = %d/%d, want 6/10", ps.CompletedTasks, ps.TotalTasks)
	}
	if ps.CompletionRate != 60.0 {
		t.Errorf("CompletionRate = %v, want 60.0", ps.CompletionRate)
	}
	if len(ps.Projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(ps.Projects))
	}
	if ps.Projects[0].Variance != 600 {
		t.Errorf("Variance = %v, want 600", ps.Projects[0].Variance)
	}
}

func TestFinancialCosts(t *testing.T) {
	gw := seedGateway()
	gw.projects = []domain.Project{
		{ID: "prj-1", CompanyID: "co-1", Name: "Tower A", Budget: 1000, Spent: 250},
		{ID: "prj-2", CompanyID: "co-1", Name: "Tower B", Budget: 500, Spent: 600},
	}
	gw.materials = []domain.Material{
		{ID: "m-1", ProjectID: "prj-1", CompanyID: "co-1", Name: "Lumber", Quantity: 10, UnitCost: 4.5},
	}
	gw.workers = []domain.Worker{
		{ID: "w-1", CompanyID: "co-1", Name: "Ana", HourlyRate: 50},
	}
	gw.entries = []domain.TimeEntry{
		{ID: "e-1", TaskID: "t-1", ProjectID: "prj-1", CompanyID: "co-1", WorkerID: "w-1", Hours: 8},
	}

	agg := NewAggregator(gw)
	bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeFinancial, domain.ReportScope{CompanyID: "co-1"})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	fin := bundle.(FinancialBundle)

	if fin.TotalBudget != 1500 || fin.TotalSpent != 850 {
		t.Errorf("totals = %v/%v, want 850/1500", fin.TotalSpent, fin.TotalBudget)
	}
	if fin.TotalVariance != 650 {
		t.Errorf("TotalVariance = %v, want 650", fin.TotalVariance)
	}
	if fin.MaterialCost != 45 {
		t.Errorf("MaterialCost = %v, want 45", fin.MaterialCost)
	}
	if fin.LaborCost != 400 {
		t.Errorf("LaborCost = %v, want 400", fin.LaborCost)
	}
	if fin.Lines[0].SpentPct != 25.0 {
		t.Errorf("SpentPct = %v, want 25.0", fin.Lines[0].SpentPct)
	}
}

func TestTimeTrackingEfficiency(t *testing.T) {
	tests := []struct {
		name      string
		estimated float64
		actual    float64
		want      float64
	}{
		{"under budget", 100, 80, 125.0},
		{"over budget", 50, 100, 50.0},
		{"zero estimate", 0, 5, 0},
		{"zero actual", 40, 0, 0},
		{"both zero", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := seedGateway()
			gw.projects = []domain.Project{{ID: "prj-1", CompanyID: "co-1", Name: "P"}}
			gw.tasks = []domain.Task{{
				ID: "t-1", ProjectID: "prj-1", CompanyID: "co-1", Title: "task",
				EstimatedHours: tt.estimated, ActualHours: tt.actual,
			}}

			agg := NewAggregator(gw)
			bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeTimeTracking, domain.ReportScope{CompanyID: "co-1"})
			if err != nil {
				t.Fatalf("Aggregate returned error: %v", err)
			}
			tr := bundle.(TimeTrackingBundle)
			if got := tr.Tasks[0].Efficiency; got != tt.want {
				t.Errorf("efficiency(%v, %v) = %v, want %v", tt.estimated, tt.actual, got, tt.want)
			}
		})
	}
}

func TestTaskCompletionOverdue(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	gw := seedGateway()
	gw.projects = []domain.Project{{ID: "prj-1", CompanyID: "co-1", Name: "P"}}
	gw.tasks = []domain.Task{
		{ID: "t-1", ProjectID: "prj-1", CompanyID: "co-1", Title: "late todo", Status: domain.TaskStatusTodo, DueDate: &past},
		{ID: "t-2", ProjectID: "prj-1", CompanyID: "co-1", Title: "late but done", Status: domain.TaskStatusDone, DueDate: &past},
		{ID: "t-3", ProjectID: "prj-1", CompanyID: "co-1", Title: "on track", Status: domain.TaskStatusInProgress, DueDate: &future},
		{ID: "t-4", ProjectID: "prj-1", CompanyID: "co-1", Title: "no due date", Status: domain.TaskStatusBlocked},
	}

	agg := NewAggregator(gw)
	bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeTaskCompletion, domain.ReportScope{CompanyID: "co-1"})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	tc := bundle.(TaskCompletionBundle)

	if tc.OverdueCount != 1 {
		t.Errorf("OverdueCount = %d, want 1 (done tasks are never overdue)", tc.OverdueCount)
	}
	if tc.TodoCount != 1 || tc.InProgress != 1 || tc.DoneCount != 1 || tc.BlockedCount != 1 {
		t.Errorf("status counts = %d/%d/%d/%d, want 1 each",
			tc.TodoCount, tc.InProgress, tc.DoneCount, tc.BlockedCount)
	}
	if tc.CompletionRate != 25.0 {
		t.Errorf("CompletionRate = %v, want 25.0", tc.CompletionRate)
	}
}

func TestMaterialInventoryTotals(t *testing.T) {
	gw := seedGateway()
	gw.projects = []domain.Project{{ID: "prj-1", CompanyID: "co-1", Name: "P"}}
	gw.materials = []domain.Material{
		{ID: "m-1", ProjectID: "prj-1", CompanyID: "co-1", Name: "Lumber", Quantity: 100, UnitCost: 4.85, Status: domain.MaterialStatusDelivered},
		{ID: "m-2", ProjectID: "prj-1", CompanyID: "co-1", Name: "Wire", Quantity: 500, UnitCost: 0.62, Status: domain.MaterialStatusOrdered},
	}

	agg := NewAggregator(gw)
	bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeMaterialInventory, domain.ReportScope{CompanyID: "co-1"})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	mi := bundle.(MaterialInventoryBundle)

	if mi.TotalLines != 2 {
		t.Errorf("TotalLines = %d, want 2", mi.TotalLines)
	}
	if mi.TotalValue != 795.0 {
		t.Errorf("TotalValue = %v, want 795.0", mi.TotalValue)
	}
	if mi.DeliveredCount != 1 || mi.OrderedCount != 1 {
		t.Errorf("delivered/ordered = %d/%d, want 1/1", mi.DeliveredCount, mi.OrderedCount)
	}
}

func TestTeamProductivityPerWorker(t *testing.T) {
	gw := seedGateway()
	gw.projects = []domain.Project{{ID: "prj-1", CompanyID: "co-1", Name: "P"}}
	gw.workers = []domain.Worker{
		{ID: "w-1", CompanyID: "co-1", Name: "Ana", Trade: "Electrician"},
		{ID: "w-2", CompanyID: "co-1", Name: "Joe", Trade: "Carpenter"},
	}
	gw.tasks = []domain.Task{
		{ID: "t-1", ProjectID: "prj-1", CompanyID: "co-1", Title: "a", AssigneeID: "w-1", Status: domain.TaskStatusDone},
		{ID: "t-2", ProjectID: "prj-1", CompanyID: "co-1", Title: "b", AssigneeID: "w-1", Status: domain.TaskStatusTodo},
		{ID: "t-3", ProjectID: "prj-1", CompanyID: "co-1", Title: "c", Status: domain.TaskStatusDone}, // unassigned
	}
	gw.entries = []domain.TimeEntry{
		{ID: "e-1", TaskID: "t-1", ProjectID: "prj-1", CompanyID: "co-1", WorkerID: "w-1", Hours: 6.5},
		{ID: "e-2", TaskID: "t-2", ProjectID: "prj-1", CompanyID: "co-1", WorkerID: "w-1", Hours: 2},
	}

	agg := NewAggregator(gw)
	bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeTeamProductivity, domain.ReportScope{CompanyID: "co-1"})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	tp := bundle.(TeamProductivityBundle)

	if tp.TotalWorkers != 2 {
		t.Fatalf("TotalWorkers = %d, want 2", tp.TotalWorkers)
	}
	ana := tp.Workers[0]
	if ana.AssignedTasks != 2 || ana.CompletedTasks != 1 {
		t.Errorf("Ana tasks = %d/%d, want 1/2", ana.CompletedTasks, ana.AssignedTasks)
	}
	if ana.CompletionRate != 50.0 {
		t.Errorf("Ana CompletionRate = %v, want 50.0", ana.CompletionRate)
	}
	if ana.HoursLogged != 8.5 {
		t.Errorf("Ana HoursLogged = %v, want 8.5", ana.HoursLogged)
	}
	if tp.TotalHoursLogged != 8.5 {
		t.Errorf("TotalHoursLogged = %v, want 8.5", tp.TotalHoursLogged)
	}
	// One worker at 50%, one at 0%.
	if tp.AvgCompletionRate != 25.0 {
		t.Errorf("AvgCompletionRate = %v, want 25.0", tp.AvgCompletionRate)
	}
}

func TestProjectScopeNarrowsAggregation(t *testing.T) {
	gw := seedGateway()
	gw.projects = []domain.Project{
		{ID: "prj-1", CompanyID: "co-1", Name: "A"},
		{ID: "prj-2", CompanyID: "co-1", Name: "B"},
	}
	gw.tasks = []domain.Task{
		{ID: "t-1", ProjectID: "prj-1", CompanyID: "co-1", Title: "in scope", Status: domain.TaskStatusDone},
		{ID: "t-2", ProjectID: "prj-2", CompanyID: "co-1", Title: "out of scope", Status: domain.TaskStatusDone},
	}

	agg := NewAggregator(gw)
	bundle, err := agg.Aggregate(context.Background(), domain.ReportTypeProjectSummary,
		domain.ReportScope{CompanyID: "co-1", ProjectID: "prj-1"})
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	ps := bundle.(ProjectSummaryBundle)

	if ps.TotalTasks != 1 {
		t.Errorf("TotalTasks = %d, want 1", ps.TotalTasks)
	}
	if len(ps.Projects) != 1 || ps.Projects[0].Name != "A" {
		t.Errorf("projects = %+v, want only project A", ps.Projects)
	}
}
