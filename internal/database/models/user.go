package models

import "github.com/google/uuid"

type User struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Tenant association. Nil for platform-level users (super admins).
	CompanyID     *uuid.UUID `gorm:"type:uuid;index" json:"company_id,omitempty"`
	DepartmentID  *uuid.UUID `gorm:"type:uuid;index" json:"department_id,omitempty"`
	DesignationID *uuid.UUID `gorm:"type:uuid;index" json:"designation_id,omitempty"`

	Role        Role      `gorm:"default:'employee';index" json:"role"`
	Phone       string    `json:"phone,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	SocialLinks StringMap `gorm:"type:jsonb" json:"social_links,omitempty"`
	Status      Status    `gorm:"default:'active';index" json:"status"`

	// Relationships
	Company       *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Department    *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Designation   *Designation   `gorm:"foreignKey:DesignationID" json:"designation,omitempty"`
	BusinessCards []BusinessCard `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}
