package models

import "github.com/google/uuid"

type Department struct {
	Base
	CompanyID   uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Status      Status    `gorm:"default:'active';index" json:"status"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"-"`
	Users   []User   `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Department) TableName() string {
	return "departments"
}
