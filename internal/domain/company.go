package domain

import "time"

// Company represents a tenant on the platform.
type Company struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Industry  string    `gorm:"type:text" json:"industry,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Company.
func (Company) TableName() string {
	return "companies"
}

// Membership links a user to a company. Report scopes are only valid for
// companies the owner holds an active membership in.
type Membership struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	UserID    string    `gorm:"type:text;not null;index:idx_memberships_user_company,unique" json:"user_id"`
	CompanyID string    `gorm:"type:text;not null;index:idx_memberships_user_company,unique" json:"company_id"`
	Role      string    `gorm:"type:text" json:"role,omitempty"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Membership.
func (Membership) TableName() string {
	return "memberships"
}

// Entitlement is the read-side projection of the billing system's feature
// flags consumed by the report engine. Billing itself lives outside this
// service; rows here are synced in by the subscription pipeline.
type Entitlement struct {
	ID                string    `gorm:"type:text;primaryKey" json:"id"`
	UserID            string    `gorm:"type:text;not null;uniqueIndex:idx_entitlements_user" json:"user_id"`
	AdvancedReporting bool      `gorm:"default:false" json:"advanced_reporting"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the database table name for Entitlement.
func (Entitlement) TableName() string {
	return "entitlements"
}
