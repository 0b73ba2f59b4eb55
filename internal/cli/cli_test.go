package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomres/internal/database"
	"roomres/internal/model"
	"roomres/internal/service"
)

func newTestMenu(t *testing.T, input string) (*Menu, *service.Service, *bytes.Buffer) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(filepath.Join(t.TempDir(), "cli.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := service.New(db, []string{"Room A", "Room B"}, nil, logger)
	out := &bytes.Buffer{}
	return New(svc, nil, strings.NewReader(input), out), svc, out
}

func TestIsCancelWord(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"cancel", true},
		{"CANCEL", true},
		{"  Cancel  ", true},
		{"cancelled", false},
		{"", false},
		{"exit", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsCancelWord(tt.input), "input %q", tt.input)
	}
}

func TestRun_ExitImmediately(t *testing.T) {
	menu, _, out := newTestMenu(t, "7\n")

	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "Exiting the program...")
}

func TestRun_InvalidMenuChoice(t *testing.T) {
	menu, _, out := newTestMenu(t, "9\n7\n")

	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "Invalid choice. Please enter a number between 1 and 7.")
}

func TestRun_MakeReservationScripted(t *testing.T) {
	// December 31 of the current year is never in the past.
	input := strings.Join([]string{
		"2",          // make a reservation
		"1",          // Room A
		"Juan Dela Cruz",
		"20251234-A",
		"12",         // December
		"31",
		"09:00am",    // lower case is accepted and normalized
		"10:00AM",
		"y",
		"7",
	}, "\n") + "\n"

	menu, svc, out := newTestMenu(t, input)
	require.NoError(t, menu.Run(context.Background()))

	assert.Contains(t, out.String(), "Reservation created successfully!")
	assert.Contains(t, out.String(), fmt.Sprintf("Year has been automatically set to %d.", time.Now().Year()))

	date := fmt.Sprintf("12/31/%04d", time.Now().Year())
	reservations, err := svc.ScheduleForDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "Room A", reservations[0].Room)
	assert.Equal(t, "09:00AM", reservations[0].StartTime)
}

func TestRun_MakeReservationCancelledAtRoomPrompt(t *testing.T) {
	menu, svc, out := newTestMenu(t, "2\ncancel\n7\n")

	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "Reservation cancelled.")

	date := fmt.Sprintf("12/31/%04d", time.Now().Year())
	reservations, err := svc.ScheduleForDate(context.Background(), date)
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestRun_MakeReservationRejectedAtConfirm(t *testing.T) {
	input := strings.Join([]string{
		"2", "1", "Juan Dela Cruz", "20251234-A", "12", "31",
		"09:00AM", "10:00AM",
		"n",
		"7",
	}, "\n") + "\n"

	menu, _, out := newTestMenu(t, input)
	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "Reservation cancelled by user.")
}

func TestRun_MakeReservationRepromptsOnBadInput(t *testing.T) {
	input := strings.Join([]string{
		"2",
		"5", "1", // bad room index, then Room A
		"Juan Dela Cruz",
		"2025-A", "20251234-A", // bad number, then valid
		"13", "12", // bad month, then December
		"32", "31", // bad day, then valid
		"9:00AM", "09:00AM", // missing zero pad, then valid
		"08:00AM", "10:00AM", // end before start, then valid
		"y",
		"7",
	}, "\n") + "\n"

	menu, _, out := newTestMenu(t, input)
	require.NoError(t, menu.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Invalid choice. Please try again.")
	assert.Contains(t, text, "Invalid student number.")
	assert.Contains(t, text, "Invalid month. Please try again.")
	assert.Contains(t, text, "Invalid day for chosen month.")
	assert.Contains(t, text, "Invalid time format. Please try again.")
	assert.Contains(t, text, "End time must be after start time.")
	assert.Contains(t, text, "Reservation created successfully!")
}

func TestRun_ViewScheduleEmpty(t *testing.T) {
	date := fmt.Sprintf("12/31/%04d", time.Now().Year())
	menu, _, out := newTestMenu(t, "1\n"+date+"\n7\n")

	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "No reservations found.")
}

func TestRun_CancelReservationNotFound(t *testing.T) {
	menu, _, out := newTestMenu(t, "3\n000000-000000-000000\ncancel\n7\n")

	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "No reservation found with ID '000000-000000-000000'.")
}

func TestRenderTable(t *testing.T) {
	out := &bytes.Buffer{}
	renderTable(out, []model.Reservation{
		{
			ID:            "101325-120125-143522",
			Room:          "Room A",
			Date:          "12/01/2025",
			StartTime:     "09:00AM",
			EndTime:       "10:00AM",
			StudentName:   "Juan Dela Cruz",
			StudentNumber: "20251234-A",
		},
	})

	text := out.String()
	assert.Contains(t, text, "Reservation ID")
	assert.Contains(t, text, "101325-120125-143522")
	assert.Contains(t, text, "Juan Dela Cruz")
	assert.True(t, strings.HasPrefix(text, "+"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a very ...", truncate("a very long student name", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
}
