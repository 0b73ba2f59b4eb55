// Package service implements the reservation engine: validation,
// conflict detection and the CRUD orchestration against the store.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"roomres/internal/database"
	"roomres/internal/events"
	"roomres/internal/metrics"
	"roomres/internal/model"
	"roomres/internal/resid"
	"roomres/internal/timefmt"
)

// Store is the persistence contract the engine requires.
type Store interface {
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, r *model.Reservation) error
	Update(ctx context.Context, r *model.Reservation) error
	Delete(ctx context.Context, id string) error
	GetByDate(ctx context.Context, date string) ([]model.Reservation, error)
	SearchByName(ctx context.Context, name string) ([]model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	FindConflicting(ctx context.Context, room, date, start, end, excludeID string) ([]model.Reservation, error)
}

// Request carries the raw field values for a create or edit operation.
// Times may arrive in any case; the engine upper-cases the meridiem
// before validating.
type Request struct {
	Room          string
	StudentName   string
	StudentNumber string
	Date          string
	StartTime     string
	EndTime       string
}

// Service validates candidate reservations and commits them to the store.
type Service struct {
	store  Store
	rooms  []string
	bus    *events.EventBus
	logger zerolog.Logger
	now    func() time.Time
}

func New(store Store, rooms []string, bus *events.EventBus, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		rooms:  rooms,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// Rooms returns the configured consultation room list.
func (s *Service) Rooms() []string {
	return s.rooms
}

// Year returns the current year. Reservation dates entered through the
// menu are always placed in the current year.
func (s *Service) Year() int {
	return s.now().Year()
}

// Create validates a candidate reservation, checks it against existing
// bookings for the room and date, and persists it. It returns the
// generated reservation id.
func (s *Service) Create(ctx context.Context, req Request) (string, error) {
	s.normalize(&req)
	if err := s.validate(&req); err != nil {
		return "", err
	}
	if err := s.checkConflict(ctx, &req, ""); err != nil {
		return "", err
	}

	now := s.now()
	r := &model.Reservation{
		ID:            resid.Generate(now, req.Date),
		Room:          req.Room,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StudentName:   req.StudentName,
		StudentNumber: req.StudentNumber,
	}

	if err := s.store.Insert(ctx, r); err != nil {
		if errors.Is(err, database.ErrConflict) {
			// Another writer claimed the slot between check and commit.
			metrics.IncConflictRejected()
			return "", &ConflictError{}
		}
		return "", &StoreError{Op: "insert", Err: err}
	}

	metrics.IncReservationCreated()
	s.publish(events.ReservationCreated, r)
	s.logger.Info().
		Str("id", r.ID).
		Str("room", r.Room).
		Str("date", r.Date).
		Msg("Reservation created")
	return r.ID, nil
}

// Edit re-validates every field of an existing reservation and persists
// the change. The conflict check excludes the reservation itself, so a
// no-op time change succeeds.
func (s *Service) Edit(ctx context.Context, id string, req Request) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return &StoreError{Op: "exists", Err: err}
	}
	if !exists {
		return ErrNotFound
	}

	s.normalize(&req)
	if err := s.validate(&req); err != nil {
		return err
	}
	if err := s.checkConflict(ctx, &req, id); err != nil {
		return err
	}

	r := &model.Reservation{
		ID:            id,
		Room:          req.Room,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		StudentName:   req.StudentName,
		StudentNumber: req.StudentNumber,
	}

	if err := s.store.Update(ctx, r); err != nil {
		switch {
		case errors.Is(err, database.ErrConflict):
			metrics.IncConflictRejected()
			return &ConflictError{}
		case errors.Is(err, database.ErrNotFound):
			return ErrNotFound
		default:
			return &StoreError{Op: "update", Err: err}
		}
	}

	metrics.IncReservationUpdated()
	s.publish(events.ReservationUpdated, r)
	s.logger.Info().Str("id", id).Msg("Reservation updated")
	return nil
}

// Cancel permanently removes a reservation.
func (s *Service) Cancel(ctx context.Context, id string) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return &StoreError{Op: "exists", Err: err}
	}
	if !exists {
		return ErrNotFound
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete", Err: err}
	}

	metrics.IncReservationCancelled()
	s.publish(events.ReservationCancelled, &model.Reservation{ID: id})
	s.logger.Info().Str("id", id).Msg("Reservation cancelled")
	return nil
}

// ScheduleForDate returns all reservations for a date, ordered by start
// time. Past dates are allowed here; the date only has to be well formed.
func (s *Service) ScheduleForDate(ctx context.Context, date string) ([]model.Reservation, error) {
	if !timefmt.ValidateDate(date) {
		metrics.IncValidationFailed("date")
		return nil, &ValidationError{Field: "date", Reason: "must be MM/DD/YYYY"}
	}
	reservations, err := s.store.GetByDate(ctx, date)
	if err != nil {
		return nil, &StoreError{Op: "get_by_date", Err: err}
	}
	return reservations, nil
}

// SearchByName returns reservations whose student name contains the
// given substring, case-insensitively.
func (s *Service) SearchByName(ctx context.Context, name string) ([]model.Reservation, error) {
	if strings.TrimSpace(name) == "" {
		metrics.IncValidationFailed("student_name")
		return nil, &ValidationError{Field: "student_name", Reason: "cannot be empty"}
	}
	reservations, err := s.store.SearchByName(ctx, name)
	if err != nil {
		return nil, &StoreError{Op: "search_by_name", Err: err}
	}
	return reservations, nil
}

// FindByID returns a single reservation.
func (s *Service) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get_by_id", Err: err}
	}
	return r, nil
}

func (s *Service) normalize(req *Request) {
	req.StudentName = strings.TrimSpace(req.StudentName)
	req.StartTime = strings.ToUpper(strings.TrimSpace(req.StartTime))
	req.EndTime = strings.ToUpper(strings.TrimSpace(req.EndTime))
	req.Date = strings.TrimSpace(req.Date)
	req.StudentNumber = strings.TrimSpace(req.StudentNumber)
}

// validate checks fields in a fixed order so the first failure reported
// is deterministic: room, name, student number, date, start, end, range.
func (s *Service) validate(req *Request) error {
	fail := func(field, reason string) error {
		metrics.IncValidationFailed(field)
		return &ValidationError{Field: field, Reason: reason}
	}

	if !s.hasRoom(req.Room) {
		return fail("room", "not a known consultation room")
	}
	if req.StudentName == "" {
		return fail("student_name", "cannot be empty")
	}
	if !ValidStudentNumber(req.StudentNumber) {
		return fail("student_number", "must be 8 digits, a dash, and one alphanumeric character")
	}

	date, ok := timefmt.ParseDate(req.Date)
	if !ok {
		return fail("date", "must be MM/DD/YYYY")
	}
	if date.Before(today(s.now())) {
		return fail("date", "must be on or after the current date")
	}

	start, ok := timefmt.ParseTime(req.StartTime)
	if !ok {
		return fail("start_time", "must be HH:MM followed by AM or PM")
	}
	end, ok := timefmt.ParseTime(req.EndTime)
	if !ok {
		return fail("end_time", "must be HH:MM followed by AM or PM")
	}
	if timefmt.CompareTimes(start, end) != timefmt.Before {
		return fail("end_time", "must be after start time")
	}

	return nil
}

func (s *Service) checkConflict(ctx context.Context, req *Request, excludeID string) error {
	conflicts, err := s.store.FindConflicting(ctx, req.Room, req.Date, req.StartTime, req.EndTime, excludeID)
	if err != nil {
		return &StoreError{Op: "find_conflicting", Err: err}
	}
	if len(conflicts) > 0 {
		metrics.IncConflictRejected()
		return &ConflictError{Existing: conflicts}
	}
	return nil
}

func (s *Service) hasRoom(name string) bool {
	for _, room := range s.rooms {
		if room == name {
			return true
		}
	}
	return false
}

func (s *Service) publish(eventType string, r *model.Reservation) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, r); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

// ValidStudentNumber checks the fixed 10-character token: 8 digits, a
// literal dash, then one alphanumeric character.
func ValidStudentNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < 8; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	if s[8] != '-' {
		return false
	}
	c := s[9]
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func today(now time.Time) timefmt.Date {
	return timefmt.Date{Month: int(now.Month()), Day: now.Day(), Year: now.Year()}
}
