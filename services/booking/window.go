package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sparkclean/models"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// TimeWindow is a validated half-open interval [Start, End) on one calendar date.
type TimeWindow struct {
	Date  string
	Day   time.Weekday
	Start int // minutes from midnight
	End   int // minutes from midnight, exclusive
}

// ParseClock parses "HH:MM" into minutes from midnight. "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[1]) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("time %q has a bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("time %q has a bad minute", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NewTimeWindow validates a date and "HH:MM" bounds. A window that ends at or
// before its start, including one that would cross midnight, is rejected.
func NewTimeWindow(date, start, end string) (TimeWindow, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, wrapError(CodeInvalidWindow, err, "invalid start time")
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, wrapError(CodeInvalidWindow, err, "invalid end time")
	}
	return newTimeWindow(date, startMin, endMin)
}

// WindowFromBooking validates the window stored on a booking.
func WindowFromBooking(b *models.Booking) (TimeWindow, error) {
	return newTimeWindow(b.Date, b.Start, b.End)
}

func newTimeWindow(date string, start, end int) (TimeWindow, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return TimeWindow{}, wrapError(CodeInvalidWindow, err, "date %q is not YYYY-MM-DD", date)
	}
	if start < 0 || end > models.MinutesPerDay {
		return TimeWindow{}, newError(CodeInvalidWindow, "window %s-%s is outside the day", FormatClock(start), FormatClock(end))
	}
	if start >= end {
		return TimeWindow{}, newError(CodeInvalidWindow, "window start %s must be before end %s", FormatClock(start), FormatClock(end))
	}
	return TimeWindow{Date: date, Day: d.Weekday(), Start: start, End: end}, nil
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("%s %s-%s", w.Date, FormatClock(w.Start), FormatClock(w.End))
}

// Overlaps is the half-open interval test: touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Contains reports whether [start, end) lies entirely inside [outerStart, outerEnd).
func Contains(outerStart, outerEnd, start, end int) bool {
	return outerStart <= start && end <= outerEnd
}
