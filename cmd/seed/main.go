// Command seed populates a development database with a small construction
// company dataset so the report endpoints return non-empty documents.
package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/marco/workyard/internal/config"
	"github.com/marco/workyard/internal/domain"
	"github.com/marco/workyard/internal/repository"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	log.Println("Seed data created")
}

func ptr(t time.Time) *time.Time { return &t }

func seed(db *gorm.DB) error {
	now := time.Now().UTC()

	company := domain.Company{
		ID:       "co-demo",
		Name:     "Granite Ridge Builders",
		Industry: "Commercial construction",
	}

	memberships := []domain.Membership{
		{ID: uuid.New().String(), UserID: "user-demo", CompanyID: company.ID, Role: "owner", Active: true},
		{ID: uuid.New().String(), UserID: "user-foreman", CompanyID: company.ID, Role: "member", Active: true},
	}

	entitlements := []domain.Entitlement{
		{ID: uuid.New().String(), UserID: "user-demo", AdvancedReporting: true},
		{ID: uuid.New().String(), UserID: "user-foreman", AdvancedReporting: false},
	}

	projects := []domain.Project{
		{
			ID: "prj-riverside", CompanyID: company.ID, Name: "Riverside Office Park",
			Address: "120 Riverside Dr", Status: domain.ProjectStatusActive,
			Budget: 850000, Spent: 412500,
			StartDate: ptr(now.AddDate(0, -4, 0)), EndDate: ptr(now.AddDate(0, 5, 0)),
		},
		{
			ID: "prj-depot", CompanyID: company.ID, Name: "Transit Depot Retrofit",
			Address: "9 Yard Rd", Status: domain.ProjectStatusPlanning,
			Budget: 300000, Spent: 18000,
			StartDate: ptr(now.AddDate(0, 1, 0)),
		},
	}

	workers := []domain.Worker{
		{ID: "wrk-ana", CompanyID: company.ID, Name: "Ana Silva", Trade: "Electrician", HourlyRate: 52, Active: true},
		{ID: "wrk-joe", CompanyID: company.ID, Name: "Joe Keller", Trade: "Carpenter", HourlyRate: 41, Active: true},
		{ID: "wrk-mei", CompanyID: company.ID, Name: "Mei Tan", Trade: "Site Manager", HourlyRate: 65, Active: true},
	}

	tasks := []domain.Task{
		{
			ID: "tsk-1", ProjectID: "prj-riverside", CompanyID: company.ID,
			Title: "Rough-in electrical, floors 1-2", Status: domain.TaskStatusDone,
			Priority: "high", AssigneeID: "wrk-ana",
			EstimatedHours: 80, ActualHours: 74,
			DueDate: ptr(now.AddDate(0, -1, 0)), CompletedAt: ptr(now.AddDate(0, -1, -3)),
		},
		{
			ID: "tsk-2", ProjectID: "prj-riverside", CompanyID: company.ID,
			Title: "Frame interior partitions", Status: domain.TaskStatusInProgress,
			Priority: "high", AssigneeID: "wrk-joe",
			EstimatedHours: 120, ActualHours: 65,
			DueDate: ptr(now.AddDate(0, 0, 14)),
		},
		{
			ID: "tsk-3", ProjectID: "prj-riverside", CompanyID: company.ID,
			Title: "HVAC ductwork inspection", Status: domain.TaskStatusBlocked,
			Priority: "medium", AssigneeID: "wrk-mei",
			EstimatedHours: 16, ActualHours: 4,
			DueDate: ptr(now.AddDate(0, 0, -2)),
		},
		{
			ID: "tsk-4", ProjectID: "prj-depot", CompanyID: company.ID,
			Title: "Survey and permits", Status: domain.TaskStatusTodo,
			Priority: "medium", AssigneeID: "wrk-mei",
			EstimatedHours: 40, ActualHours: 0,
			DueDate: ptr(now.AddDate(0, 1, 15)),
		},
	}

	materials := []domain.Material{
		{
			ID: "mat-1", ProjectID: "prj-riverside", CompanyID: company.ID,
			Name: "2x4 lumber", Quantity: 1200, Unit: "pc", UnitCost: 4.85,
			Status: domain.MaterialStatusDelivered, Supplier: "Northside Lumber",
		},
		{
			ID: "mat-2", ProjectID: "prj-riverside", CompanyID: company.ID,
			Name: "12 AWG copper wire", Quantity: 5000, Unit: "ft", UnitCost: 0.62,
			Status: domain.MaterialStatusInUse, Supplier: "Volt Supply Co",
		},
		{
			ID: "mat-3", ProjectID: "prj-depot", CompanyID: company.ID,
			Name: "Ready-mix concrete", Quantity: 45, Unit: "yd3", UnitCost: 165,
			Status: domain.MaterialStatusOrdered, Supplier: "Cascade Concrete",
		},
	}

	timeEntries := []domain.TimeEntry{
		{ID: uuid.New().String(), TaskID: "tsk-1", ProjectID: "prj-riverside", CompanyID: company.ID, WorkerID: "wrk-ana", Date: now.AddDate(0, -1, -10), Hours: 8},
		{ID: uuid.New().String(), TaskID: "tsk-1", ProjectID: "prj-riverside", CompanyID: company.ID, WorkerID: "wrk-ana", Date: now.AddDate(0, -1, -9), Hours: 7.5},
		{ID: uuid.New().String(), TaskID: "tsk-2", ProjectID: "prj-riverside", CompanyID: company.ID, WorkerID: "wrk-joe", Date: now.AddDate(0, 0, -3), Hours: 9},
		{ID: uuid.New().String(), TaskID: "tsk-2", ProjectID: "prj-riverside", CompanyID: company.ID, WorkerID: "wrk-joe", Date: now.AddDate(0, 0, -2), Hours: 8},
		{ID: uuid.New().String(), TaskID: "tsk-3", ProjectID: "prj-riverside", CompanyID: company.ID, WorkerID: "wrk-mei", Date: now.AddDate(0, 0, -5), Hours: 4},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&company).Error; err != nil {
			return err
		}
		for _, batch := range []interface{}{
			&memberships, &entitlements, &projects, &workers, &tasks, &materials, &timeEntries,
		} {
			if err := tx.Save(batch).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
