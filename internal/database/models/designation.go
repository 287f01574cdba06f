package models

import "github.com/google/uuid"

type Designation struct {
	Base
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Status      Status    `gorm:"default:'active';index" json:"status"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Users   []User   `gorm:"foreignKey:DesignationID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Designation) TableName() string {
	return "designations"
}
