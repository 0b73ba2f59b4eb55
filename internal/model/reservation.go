package model

import (
	"time"

	"roomres/internal/timefmt"
)

// Reservation represents a consultation room booking record.
type Reservation struct {
	ID            string    `json:"id"`
	Room          string    `json:"room"`
	Date          string    `json:"date"`       // MM/DD/YYYY
	StartTime     string    `json:"start_time"` // HH:MMAM
	EndTime       string    `json:"end_time"`   // HH:MMAM
	StudentName   string    `json:"student_name"`
	StudentNumber string    `json:"student_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Interval returns the parsed start and end times. ok is false if either
// stored time is malformed.
func (r *Reservation) Interval() (start, end timefmt.TimeOfDay, ok bool) {
	start, ok = timefmt.ParseTime(r.StartTime)
	if !ok {
		return
	}
	end, ok = timefmt.ParseTime(r.EndTime)
	return
}

// Overlaps checks if this reservation conflicts with another one.
// Two reservations conflict only when they share a room and date and
// their [start, end) intervals intersect; touching boundaries coexist.
func (r *Reservation) Overlaps(other *Reservation) bool {
	if r.Room != other.Room || r.Date != other.Date {
		return false
	}
	thisStart, thisEnd, ok := r.Interval()
	if !ok {
		return false
	}
	otherStart, otherEnd, ok := other.Interval()
	if !ok {
		return false
	}
	return timefmt.Overlaps(thisStart, thisEnd, otherStart, otherEnd)
}
