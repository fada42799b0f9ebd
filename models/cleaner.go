package models

import (
	"fmt"
	"time"
)

// Cleaner is a service worker who can be matched to bookings. Cleaners are
// deactivated, never hard-deleted.
type Cleaner struct {
	ID              string          `bson:"id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name            string          `bson:"name" json:"name" gorm:"not null"`
	Active          bool            `bson:"active" json:"active" gorm:"index"`
	Available       bool            `bson:"available" json:"available" gorm:"index"`
	Rating          float64         `bson:"rating" json:"rating"`                   // 0..5
	TotalRatings    int             `bson:"totalRatings" json:"totalRatings"`       // number of reviews behind Rating
	ExperienceYears int             `bson:"experienceYears" json:"experienceYears"` // whole years
	Bio             string          `bson:"bio,omitempty" json:"bio,omitempty"`     // free text shown on the candidate card
	HourlyRate      *float64        `bson:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`
	AvatarRef       string          `bson:"avatarRef,omitempty" json:"avatarRef,omitempty"` // cloudinary public id or absolute URL
	AreaIDs         []string        `bson:"areaIds" json:"areaIds" gorm:"-"`                // coverage; cleaner_areas rows in postgres
	WorkingWindows  []WorkingWindow `bson:"workingWindows" json:"workingWindows" gorm:"foreignKey:CleanerID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the profile invariants before a cleaner is persisted.
func (c *Cleaner) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("cleaner id is required")
	}
	if c.Rating < 0 || c.Rating > 5 {
		return fmt.Errorf("cleaner %s: rating %.2f out of range [0,5]", c.ID, c.Rating)
	}
	if c.TotalRatings < 0 {
		return fmt.Errorf("cleaner %s: total ratings cannot be negative", c.ID)
	}
	if c.ExperienceYears < 0 {
		return fmt.Errorf("cleaner %s: experience years cannot be negative", c.ID)
	}
	for _, w := range c.WorkingWindows {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("cleaner %s: %w", c.ID, err)
		}
	}
	return nil
}

// CoversArea reports whether the cleaner has a coverage entry for areaID.
func (c *Cleaner) CoversArea(areaID string) bool {
	for _, id := range c.AreaIDs {
		if id == areaID {
			return true
		}
	}
	return false
}

// ServiceArea is a geographic unit cleaners cover.
type ServiceArea struct {
	ID        string    `bson:"id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// CleanerArea is the coverage join row used by the relational store.
type CleanerArea struct {
	CleanerID string `gorm:"primaryKey;type:varchar(64)"`
	AreaID    string `gorm:"primaryKey;type:varchar(64);index"`
}
