// Package cli implements the interactive menu over the reservation
// engine. It collects raw strings, delegates every decision to the
// engine, and renders whatever comes back.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"roomres/internal/model"
	"roomres/internal/service"
	"roomres/internal/timefmt"
)

// Exporter writes a day's schedule to a file.
type Exporter interface {
	ExportSchedule(date string, reservations []model.Reservation) (string, error)
}

// Menu drives the interactive session.
type Menu struct {
	svc      *service.Service
	exporter Exporter
	in       *bufio.Scanner
	out      io.Writer
}

func New(svc *service.Service, exporter Exporter, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		svc:      svc,
		exporter: exporter,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run loops on the main menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	fmt.Fprintln(m.out, "LIBRARY CONSULTATION ROOM RESERVATION SYSTEM")
	fmt.Fprintln(m.out, "--------------------------------------------")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, "Main Menu:")
		fmt.Fprintln(m.out, "1. View Daily Schedule")
		fmt.Fprintln(m.out, "2. Make a Reservation")
		fmt.Fprintln(m.out, "3. Cancel a Reservation")
		fmt.Fprintln(m.out, "4. Edit a Reservation")
		fmt.Fprintln(m.out, "5. Search Reservations")
		fmt.Fprintln(m.out, "6. Export Daily Schedule")
		fmt.Fprintln(m.out, "7. Exit")

		choice, ok := m.prompt("Enter your choice: ")
		if !ok {
			return nil
		}

		switch strings.TrimSpace(choice) {
		case "1":
			m.viewDailySchedule(ctx)
		case "2":
			m.makeReservation(ctx)
		case "3":
			m.cancelReservation(ctx)
		case "4":
			m.editReservation(ctx)
		case "5":
			m.searchReservations(ctx)
		case "6":
			m.exportSchedule(ctx)
		case "7":
			fmt.Fprintln(m.out, "Exiting the program...")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please enter a number between 1 and 7.")
		}
	}
}

func (m *Menu) viewDailySchedule(ctx context.Context) {
	date, ok := m.promptDate()
	if !ok {
		return
	}

	reservations, err := m.svc.ScheduleForDate(ctx, date)
	if err != nil {
		fmt.Fprintf(m.out, "Error retrieving schedule: %v\n", err)
		return
	}

	fmt.Fprintf(m.out, "\nSchedule for %s\n", date)
	renderTable(m.out, reservations)
}

func (m *Menu) makeReservation(ctx context.Context) {
	fmt.Fprintln(m.out, "\nMAKE A RESERVATION")
	fmt.Fprintln(m.out, "-------------------")

	session := service.NewSession("")
	if !m.collectFields(session) {
		fmt.Fprintln(m.out, "Reservation cancelled.")
		return
	}

	if !m.confirm("Confirm reservation? (Y/N): ") {
		fmt.Fprintln(m.out, "Reservation cancelled by user.")
		return
	}

	id, err := m.svc.Create(ctx, session.Draft)
	if err != nil {
		m.reportError(err)
		return
	}
	session.Advance(service.StepComplete)

	fmt.Fprintf(m.out, "\nReservation created successfully!\nReservation ID: %s\n", id)
}

func (m *Menu) cancelReservation(ctx context.Context) {
	fmt.Fprintln(m.out, "\nCANCEL A RESERVATION")
	fmt.Fprintln(m.out, "--------------------")

	r, ok := m.promptReservation(ctx)
	if !ok {
		return
	}

	fmt.Fprintln(m.out, "\nReservation found:")
	renderTable(m.out, []model.Reservation{*r})

	if !m.confirm("Are you sure you want to cancel this reservation? (Y/N): ") {
		fmt.Fprintln(m.out, "Cancellation aborted.")
		return
	}

	if err := m.svc.Cancel(ctx, r.ID); err != nil {
		m.reportError(err)
		return
	}
	fmt.Fprintf(m.out, "\nReservation '%s' successfully cancelled.\n", r.ID)
}

func (m *Menu) editReservation(ctx context.Context) {
	fmt.Fprintln(m.out, "\nEDIT A RESERVATION")
	fmt.Fprintln(m.out, "--------------------")

	r, ok := m.promptReservation(ctx)
	if !ok {
		return
	}

	fmt.Fprintln(m.out, "\nReservation found:")
	renderTable(m.out, []model.Reservation{*r})
	fmt.Fprintln(m.out, "\nEnter the new details.")

	session := service.NewSession(r.ID)
	if !m.collectFields(session) {
		fmt.Fprintln(m.out, "Edit cancelled.")
		return
	}

	if !m.confirm("Confirm changes? (Y/N): ") {
		fmt.Fprintln(m.out, "Update cancelled.")
		return
	}

	if err := m.svc.Edit(ctx, r.ID, session.Draft); err != nil {
		m.reportError(err)
		return
	}
	session.Advance(service.StepComplete)

	fmt.Fprintf(m.out, "\nReservation '%s' successfully updated.\n", r.ID)
}

func (m *Menu) searchReservations(ctx context.Context) {
	fmt.Fprintln(m.out, "\nSEARCH RESERVATIONS")
	fmt.Fprintln(m.out, "-------------------")
	fmt.Fprintln(m.out, "Search by:")
	fmt.Fprintln(m.out, "1. Student Name")
	fmt.Fprintln(m.out, "2. Reservation ID")

	choice, ok := m.prompt("Enter your choice (1-2): ")
	if !ok {
		return
	}

	switch strings.TrimSpace(choice) {
	case "1":
		name, ok := m.prompt("Enter student name (or 'cancel' to abort): ")
		if !ok || IsCancelWord(name) {
			fmt.Fprintln(m.out, "Search cancelled.")
			return
		}
		results, err := m.svc.SearchByName(ctx, name)
		if err != nil {
			m.reportError(err)
			return
		}
		fmt.Fprintf(m.out, "\nSearch results for '%s':\n", strings.TrimSpace(name))
		renderTable(m.out, results)
	case "2":
		r, ok := m.promptReservation(ctx)
		if !ok {
			return
		}
		fmt.Fprintf(m.out, "\nSearch results for ID '%s':\n", r.ID)
		renderTable(m.out, []model.Reservation{*r})
	default:
		fmt.Fprintln(m.out, "Invalid choice.")
	}
}

func (m *Menu) exportSchedule(ctx context.Context) {
	if m.exporter == nil {
		fmt.Fprintln(m.out, "Export is not configured.")
		return
	}

	date, ok := m.promptDate()
	if !ok {
		return
	}

	reservations, err := m.svc.ScheduleForDate(ctx, date)
	if err != nil {
		m.reportError(err)
		return
	}

	path, err := m.exporter.ExportSchedule(date, reservations)
	if err != nil {
		fmt.Fprintf(m.out, "Export failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Schedule exported to %s\n", path)
}

// collectFields walks the session through every input step. It returns
// false when the user cancels or input ends.
func (m *Menu) collectFields(session *service.Session) bool {
	var month, day int

	for !session.Done() && session.Step != service.StepConfirm {
		switch session.Step {
		case service.StepRoom:
			fmt.Fprintln(m.out, "\nAvailable Consultation Rooms:")
			rooms := m.svc.Rooms()
			for i, room := range rooms {
				fmt.Fprintf(m.out, "%d. %s\n", i+1, room)
			}
			input, ok := m.prompt("Select consultation room (or 'cancel' to abort): ")
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			idx, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || idx < 1 || idx > len(rooms) {
				fmt.Fprintln(m.out, "Invalid choice. Please try again.")
				break
			}
			session.Draft.Room = rooms[idx-1]
			session.Advance(service.StepName)

		case service.StepName:
			input, ok := m.prompt("Enter student name (or 'cancel' to abort): ")
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			if strings.TrimSpace(input) == "" {
				fmt.Fprintln(m.out, "Name cannot be empty. Please try again.")
				break
			}
			session.Draft.StudentName = strings.TrimSpace(input)
			session.Advance(service.StepNumber)

		case service.StepNumber:
			input, ok := m.prompt("Enter student number (or 'cancel' to abort): ")
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			input = strings.TrimSpace(input)
			if !service.ValidStudentNumber(input) {
				fmt.Fprintln(m.out, "Invalid student number. Expected 8 digits, a dash, and one character.")
				break
			}
			session.Draft.StudentNumber = input
			session.Advance(service.StepMonth)

		case service.StepMonth:
			fmt.Fprintln(m.out, "Select month:")
			fmt.Fprintln(m.out, "1. January    2. February   3. March      4. April")
			fmt.Fprintln(m.out, "5. May        6. June       7. July       8. August")
			fmt.Fprintln(m.out, "9. September  10. October   11. November  12. December")
			input, ok := m.prompt("Enter month (1-12, or 'cancel' to abort): ")
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			v, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || v < 1 || v > 12 {
				fmt.Fprintln(m.out, "Invalid month. Please try again.")
				break
			}
			month = v
			session.Advance(service.StepDay)

		case service.StepDay:
			input, ok := m.prompt(fmt.Sprintf("Enter day (1-%d, or 'cancel' to abort): ", timefmt.DaysIn(month)))
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			v, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || v < 1 || v > timefmt.DaysIn(month) {
				fmt.Fprintln(m.out, "Invalid day for chosen month. Please try again.")
				break
			}
			day = v
			year := m.svc.Year()
			session.Draft.Date = fmt.Sprintf("%02d/%02d/%04d", month, day, year)
			fmt.Fprintf(m.out, "Year has been automatically set to %d.\n", year)
			session.Advance(service.StepStart)

		case service.StepStart:
			input, ok := m.prompt("Enter start time (HH:MM AM/PM, e.g. 12:00PM, or 'cancel' to abort): ")
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			input = strings.ToUpper(strings.TrimSpace(input))
			if !timefmt.ValidateTime(input) {
				fmt.Fprintln(m.out, "Invalid time format. Please try again.")
				break
			}
			session.Draft.StartTime = input
			session.Advance(service.StepEnd)

		case service.StepEnd:
			input, ok := m.prompt("Enter end time (HH:MM AM/PM, e.g. 01:00PM, or 'cancel' to abort): ")
			if !ok || IsCancelWord(input) {
				session.Advance(service.StepCancelled)
				break
			}
			input = strings.ToUpper(strings.TrimSpace(input))
			end, valid := timefmt.ParseTime(input)
			if !valid {
				fmt.Fprintln(m.out, "Invalid time format. Please try again.")
				break
			}
			start, _ := timefmt.ParseTime(session.Draft.StartTime)
			if timefmt.CompareTimes(start, end) != timefmt.Before {
				fmt.Fprintln(m.out, "End time must be after start time. Please try again.")
				break
			}
			session.Draft.EndTime = input
			session.Advance(service.StepConfirm)
		}
	}

	if session.Step != service.StepConfirm {
		return false
	}

	fmt.Fprintln(m.out, "\nPlease confirm the details:")
	renderDraft(m.out, &session.Draft)
	return true
}

// promptReservation asks for a reservation id until one matches or the
// user cancels.
func (m *Menu) promptReservation(ctx context.Context) (*model.Reservation, bool) {
	for {
		input, ok := m.prompt("Enter Reservation ID (or 'cancel' to go back): ")
		if !ok || IsCancelWord(input) {
			fmt.Fprintln(m.out, "Operation cancelled.")
			return nil, false
		}

		r, err := m.svc.FindByID(ctx, strings.TrimSpace(input))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				fmt.Fprintf(m.out, "\nNo reservation found with ID '%s'.\nPlease check the ID and try again.\n", strings.TrimSpace(input))
				continue
			}
			m.reportError(err)
			return nil, false
		}
		return r, true
	}
}

// promptDate asks for a date until it is well formed or the user cancels.
func (m *Menu) promptDate() (string, bool) {
	for {
		input, ok := m.prompt("Enter date (MM/DD/YYYY) or 'cancel' to abort: ")
		if !ok || IsCancelWord(input) {
			fmt.Fprintln(m.out, "Operation cancelled.")
			return "", false
		}
		input = strings.TrimSpace(input)
		if !timefmt.ValidateDate(input) {
			fmt.Fprintln(m.out, "Invalid date format. Please use MM/DD/YYYY.")
			continue
		}
		return input, true
	}
}

func (m *Menu) confirm(promptText string) bool {
	input, ok := m.prompt(promptText)
	if !ok {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func (m *Menu) prompt(text string) (string, bool) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) reportError(err error) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	var storeErr *service.StoreError

	switch {
	case errors.As(err, &conflictErr):
		fmt.Fprintln(m.out, "Time slot is already reserved. Please try a different time.")
	case errors.As(err, &validationErr):
		fmt.Fprintf(m.out, "Invalid %s: %s.\n", validationErr.Field, validationErr.Reason)
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintln(m.out, "No reservation found with that ID.")
	case errors.As(err, &storeErr):
		fmt.Fprintln(m.out, "Database error occurred. The operation was aborted.")
	default:
		fmt.Fprintf(m.out, "Unexpected error: %v\n", err)
	}
}

// IsCancelWord reports whether the input is the cancel escape word,
// case-insensitively.
func IsCancelWord(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "cancel")
}
