package models

import "fmt"

// MinutesPerDay bounds every minute-of-day value.
const MinutesPerDay = 24 * 60

// WorkingWindow is a recurring weekly interval during which a cleaner works.
// A request must fit inside one window; windows on the same day are never joined.
type WorkingWindow struct {
	ID        uint   `bson:"-" json:"-" gorm:"primaryKey"`
	CleanerID string `bson:"-" json:"-" gorm:"index;type:varchar(64)"`
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	Start     int    `bson:"start" json:"start"`         // minutes from midnight (e.g., 480 for 8:00 AM)
	End       int    `bson:"end" json:"end"`             // minutes from midnight, exclusive
	Available bool   `bson:"available" json:"available"`
}

func (w WorkingWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("working window day %d out of range", w.DayOfWeek)
	}
	if w.Start < 0 || w.End > MinutesPerDay || w.Start >= w.End {
		return fmt.Errorf("working window %d-%d is not a valid same-day interval", w.Start, w.End)
	}
	return nil
}
