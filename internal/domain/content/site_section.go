package content

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SectionHero     = "hero"
	SectionPrograms = "programs"
	SectionColors   = "colors"
)

// Sections lists the editable site sections in display order.
var Sections = []string{SectionHero, SectionPrograms, SectionColors}

func IsSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

// SiteSection is one admin-editable JSON document keyed by section name.
type SiteSection struct {
	Name      string         `gorm:"primaryKey;column:name" json:"name"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb;not null" json:"data"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (SiteSection) TableName() string { return "site_section" }
