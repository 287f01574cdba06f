package models

import "gorm.io/gorm"

type Company struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `gorm:"type:text" json:"address,omitempty"`
	Status      Status `gorm:"default:'active';index" json:"status"`

	// Relationships
	Users         []User         `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Departments   []Department   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Designations  []Designation  `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	BusinessCards []BusinessCard `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

// BeforeCreate assigns the id and derives the slug from the name when the
// caller did not supply one. The slug is immutable after creation.
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if err := c.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}
