package domain

import "time"

// MaterialStatus represents the procurement state of a material line.
type MaterialStatus string

const (
	MaterialStatusOrdered   MaterialStatus = "ORDERED"
	MaterialStatusDelivered MaterialStatus = "DELIVERED"
	MaterialStatusInUse     MaterialStatus = "IN_USE"
	MaterialStatusDepleted  MaterialStatus = "DEPLETED"
)

// Material represents a material line item tracked against a project.
type Material struct {
	ID        string         `gorm:"type:text;primaryKey" json:"id"`
	ProjectID string         `gorm:"type:text;not null;index" json:"project_id"`
	CompanyID string         `gorm:"type:text;not null;index" json:"company_id"`
	Name      string         `gorm:"type:text;not null" json:"name"`
	Quantity  float64        `gorm:"default:0" json:"quantity"`
	Unit      string         `gorm:"type:text" json:"unit,omitempty"`
	UnitCost  float64        `gorm:"default:0" json:"unit_cost"`
	Status    MaterialStatus `gorm:"type:text;default:ORDERED;index" json:"status"`
	Supplier  string         `gorm:"type:text" json:"supplier,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the database table name for Material.
func (Material) TableName() string {
	return "materials"
}

// TotalCost returns quantity times unit cost for the line.
func (m *Material) TotalCost() float64 {
	return m.Quantity * m.UnitCost
}
