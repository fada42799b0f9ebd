package models

// AvailabilityQuery is the customer's search for cleaners at a place and time.
type AvailabilityQuery struct {
	AreaID    string `json:"areaId" binding:"required"`
	Date      string `json:"date" binding:"required"`      // "YYYY-MM-DD"
	StartTime string `json:"startTime" binding:"required"` // "HH:MM"
	EndTime   string `json:"endTime" binding:"required"`   // "HH:MM"
	Bedrooms  *int   `json:"bedrooms,omitempty"`
	Bathrooms *int   `json:"bathrooms,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// Candidate is a ranked, display-ready view of an eligible cleaner.
type Candidate struct {
	CleanerID       string   `json:"cleanerId"`
	Name            string   `json:"name"`
	Rating          float64  `json:"rating"`
	TotalRatings    int      `json:"totalRatings"`
	ExperienceYears int      `json:"experienceYears"`
	Bio             string   `json:"bio,omitempty"`
	Avatar          string   `json:"avatar,omitempty"`
	HourlyRate      *float64 `json:"hourlyRate,omitempty"`
	ETA             string   `json:"eta"`
	Badges          []string `json:"badges"`
	Preferred       bool     `json:"preferred,omitempty"` // head of the ranked list
}

type AvailabilityResult struct {
	Candidates []Candidate `json:"candidates"`
	TotalCount int         `json:"totalCount"`
}

// AssignRequest binds a cleaner to a booking, either the one the customer
// picked or, with AutoAssign, the best-ranked one.
type AssignRequest struct {
	BookingID  string `json:"bookingId" binding:"required"`
	CleanerID  string `json:"cleanerId,omitempty"`
	AutoAssign bool   `json:"autoAssign,omitempty"`
}

type AssignmentStatus string

const (
	AssignmentAssigned            AssignmentStatus = "ASSIGNED"
	AssignmentConflict            AssignmentStatus = "CONFLICT"
	AssignmentNoCleanersAvailable AssignmentStatus = "NO_CLEANERS_AVAILABLE"
)

type AssignmentResult struct {
	Status        AssignmentStatus `json:"status"`
	BookingID     string           `json:"bookingId"`
	CleanerID     string           `json:"cleanerId,omitempty"`
	BookingStatus BookingStatus    `json:"bookingStatus,omitempty"`
	Message       string           `json:"message,omitempty"`
}
