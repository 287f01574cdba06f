package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardTemplate string

const (
	TemplateDefault  CardTemplate = "default"
	TemplateModern   CardTemplate = "modern"
	TemplateClassic  CardTemplate = "classic"
	TemplateCreative CardTemplate = "creative"
)

// Valid reports whether t is one of the known card templates.
func (t CardTemplate) Valid() bool {
	switch t {
	case TemplateDefault, TemplateModern, TemplateClassic, TemplateCreative:
		return true
	}
	return false
}

// ErrSlugSpaceExhausted is returned when a fresh random slug could not be
// found within the retry budget.
var ErrSlugSpaceExhausted = errors.New("could not generate a unique card slug")

const slugAttempts = 5

type BusinessCard struct {
	Base
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	// CompanyID is the owner's company at time of issuance. It is not kept
	// in sync if the user later moves companies.
	CompanyID uuid.UUID `gorm:"type:uuid;index;not null" json:"company_id"`

	Slug         string       `gorm:"uniqueIndex;not null" json:"slug"`
	Template     CardTemplate `gorm:"default:'default';not null" json:"template"`
	Colors       StringMap    `gorm:"type:jsonb" json:"colors,omitempty"`
	CustomFields JSONMap      `gorm:"type:jsonb" json:"custom_fields,omitempty"`
	// No column defaults on the booleans: gorm would drop an explicit false
	// on insert. Create-time defaulting happens in the service layer.
	IsDefault    bool       `gorm:"index" json:"is_default"`
	IsPublic     bool       `gorm:"index" json:"is_public"`
	ViewsCount   int64      `gorm:"not null;default:0" json:"views_count"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty"`

	// Relationships
	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (BusinessCard) TableName() string {
	return "business_cards"
}

// BeforeCreate assigns the id and a random slug when the caller did not
// supply one. The random space is not collision-free, so candidates are
// checked against existing rows and retried a bounded number of times.
func (c *BusinessCard) BeforeCreate(tx *gorm.DB) error {
	if err := c.Base.BeforeCreate(tx); err != nil {
		return err
	}
	if c.Slug != "" {
		return nil
	}

	for i := 0; i < slugAttempts; i++ {
		candidate, err := RandomSlug(CardSlugLength)
		if err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&BusinessCard{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			c.Slug = candidate
			return nil
		}
	}
	return ErrSlugSpaceExhausted
}
