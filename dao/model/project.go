package model

import (
	"time"

	"gorm.io/gorm"
)

// Project is a client engagement booking equipment for a usage interval.
// The interval is half-open [UsageStart, UsageEnd); both endpoints must be
// set before the project can be evaluated or confirmed.
type Project struct {
	gorm.Model
	Title          string     `gorm:"type:varchar(128);not null;comment:project title" json:"title"`
	ClientName     string     `gorm:"type:varchar(128);comment:client name" json:"client_name"`
	Venue          string     `gorm:"type:varchar(256);comment:venue" json:"venue"`
	PersonInCharge string     `gorm:"type:varchar(64);comment:person in charge" json:"person_in_charge"`
	Status         Status     `gorm:"type:varchar(16);index:status;not null;default:draft;comment:lifecycle status (draft, confirmed, cancelled)" json:"status"`
	ShippingType   string     `gorm:"type:varchar(32);comment:shipping type" json:"shipping_type"`
	ShippingDate   *time.Time `gorm:"comment:shipping date" json:"shipping_date"`
	UsageStart     *time.Time `gorm:"index;comment:usage interval start (inclusive)" json:"usage_start_at"`
	UsageEnd       *time.Time `gorm:"index;comment:usage interval end (exclusive)" json:"usage_end_at"`

	Items []ProjectItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ProjectItem is one equipment demand line. At most one row exists per
// (project, equipment) pair; re-adding the pair replaces the quantity.
type ProjectItem struct {
	gorm.Model
	ProjectID   uint `gorm:"uniqueIndex:idx_project_equipment;not null" json:"project_id"`
	EquipmentID uint `gorm:"uniqueIndex:idx_project_equipment;not null" json:"equipment_id"`
	Quantity    int  `gorm:"not null;comment:demanded quantity, positive" json:"quantity"`

	Equipment Equipment `json:"-"`
}
