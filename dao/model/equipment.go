package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Optional catalog attributes (image, tags)
type EquipmentExtra struct {
	ImageURL *string  `json:"image_url,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Equipment is a catalog entry with a finite stock. TotalQuantity is the
// ceiling on simultaneous use; availability is always computed relative to
// a query interval, the row itself has no time dimension.
type Equipment struct {
	gorm.Model
	Name          string                             `gorm:"type:varchar(128);not null;comment:equipment name" json:"name"`
	TotalQuantity int                                `gorm:"not null;comment:total owned stock" json:"total_quantity"`
	Extra         datatypes.JSONType[EquipmentExtra] `gorm:"comment:extra attributes (image url, tags)" json:"extra"`

	Items []ProjectItem `json:"-"`
}
