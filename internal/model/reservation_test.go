package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func res(room, date, start, end string) Reservation {
	return Reservation{
		Room:      room,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
}

func TestReservation_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		existing Reservation
		request  Reservation
		overlap  bool
	}{
		{
			name:     "same room and date, overlapping times",
			existing: res("Room A", "12/01/2025", "09:00AM", "11:00AM"),
			request:  res("Room A", "12/01/2025", "10:00AM", "10:30AM"),
			overlap:  true,
		},
		{
			name:     "same room and date, touching boundary",
			existing: res("Room A", "12/01/2025", "09:00AM", "10:00AM"),
			request:  res("Room A", "12/01/2025", "10:00AM", "11:00AM"),
			overlap:  false,
		},
		{
			name:     "different room, same interval",
			existing: res("Room A", "12/01/2025", "09:00AM", "10:00AM"),
			request:  res("Room B", "12/01/2025", "09:00AM", "10:00AM"),
			overlap:  false,
		},
		{
			name:     "different date, same interval",
			existing: res("Room A", "12/01/2025", "09:00AM", "10:00AM"),
			request:  res("Room A", "12/02/2025", "09:00AM", "10:00AM"),
			overlap:  false,
		},
		{
			name:     "identical reservations",
			existing: res("Room A", "12/01/2025", "09:00AM", "10:00AM"),
			request:  res("Room A", "12/01/2025", "09:00AM", "10:00AM"),
			overlap:  true,
		},
		{
			name:     "malformed stored time never conflicts",
			existing: res("Room A", "12/01/2025", "junk", "10:00AM"),
			request:  res("Room A", "12/01/2025", "09:00AM", "10:00AM"),
			overlap:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.existing.Overlaps(&tt.request)
			assert.Equal(t, tt.overlap, result)

			reverse := tt.request.Overlaps(&tt.existing)
			assert.Equal(t, tt.overlap, reverse, "Overlaps should be symmetric")
		})
	}
}
