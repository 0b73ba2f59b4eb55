package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roomres/internal/database"
	"roomres/internal/events"
	"roomres/internal/model"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Insert(ctx context.Context, r *model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) Update(ctx context.Context, r *model.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockStore) GetByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *mockStore) SearchByName(ctx context.Context, name string) ([]model.Reservation, error) {
	args := m.Called(ctx, name)
	return args.Get(0).([]model.Reservation), args.Error(1)
}

func (m *mockStore) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reservation), args.Error(1)
}

func (m *mockStore) FindConflicting(ctx context.Context, room, date, start, end, excludeID string) ([]model.Reservation, error) {
	args := m.Called(ctx, room, date, start, end, excludeID)
	return args.Get(0).([]model.Reservation), args.Error(1)
}

var testRooms = []string{"Consultation Room 1", "Consultation Room 2"}

func newTestService(store Store) *Service {
	svc := New(store, testRooms, events.NewEventBus(), zerolog.New(io.Discard))
	// Pin the clock so "today" and the generated id are stable.
	svc.now = func() time.Time {
		return time.Date(2025, 10, 13, 14, 35, 22, 0, time.Local)
	}
	return svc
}

func validRequest() Request {
	return Request{
		Room:          "Consultation Room 1",
		StudentName:   "Juan Dela Cruz",
		StudentNumber: "20251234-A",
		Date:          "12/01/2025",
		StartTime:     "09:00AM",
		EndTime:       "10:00AM",
	}
}

func TestCreate_Success(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("FindConflicting", mock.Anything, "Consultation Room 1", "12/01/2025", "09:00AM", "10:00AM", "").
		Return([]model.Reservation{}, nil)
	store.On("Insert", mock.Anything, mock.AnythingOfType("*model.Reservation")).Return(nil)

	id, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "101325-120125-143522", id)
	store.AssertExpectations(t)
}

func TestCreate_NormalizesLowercaseMeridiem(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("FindConflicting", mock.Anything, "Consultation Room 1", "12/01/2025", "09:00AM", "10:00AM", "").
		Return([]model.Reservation{}, nil)
	store.On("Insert", mock.Anything, mock.AnythingOfType("*model.Reservation")).Return(nil)

	req := validRequest()
	req.StartTime = "09:00am"
	req.EndTime = "10:00am"

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCreate_Conflict(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	existing := model.Reservation{ID: "other", Room: "Consultation Room 1", Date: "12/01/2025"}
	store.On("FindConflicting", mock.Anything, "Consultation Room 1", "12/01/2025", "09:00AM", "10:00AM", "").
		Return([]model.Reservation{existing}, nil)

	_, err := svc.Create(context.Background(), validRequest())

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Len(t, conflictErr.Existing, 1)
	store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreate_ConflictRaceAtInsert(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("FindConflicting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Reservation{}, nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(database.ErrConflict)

	_, err := svc.Create(context.Background(), validRequest())

	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestCreate_StoreFailure(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("FindConflicting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Reservation{}, nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Create(context.Background(), validRequest())

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "insert", storeErr.Op)
}

func TestCreate_ValidationOrder(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Request)
		wantField string
	}{
		{
			name:      "unknown room reported first",
			mutate:    func(r *Request) { r.Room = "Broom Closet"; r.StudentName = "" },
			wantField: "room",
		},
		{
			name:      "empty name",
			mutate:    func(r *Request) { r.StudentName = "   "; r.StudentNumber = "bad" },
			wantField: "student_name",
		},
		{
			name:      "student number too short",
			mutate:    func(r *Request) { r.StudentNumber = "1234-A" },
			wantField: "student_number",
		},
		{
			name:      "student number missing dash",
			mutate:    func(r *Request) { r.StudentNumber = "202512345A" },
			wantField: "student_number",
		},
		{
			name:      "student number symbol suffix",
			mutate:    func(r *Request) { r.StudentNumber = "20251234-#" },
			wantField: "student_number",
		},
		{
			name:      "malformed date",
			mutate:    func(r *Request) { r.Date = "12/1/2025"; r.StartTime = "junk" },
			wantField: "date",
		},
		{
			name:      "date in the past",
			mutate:    func(r *Request) { r.Date = "10/12/2025" },
			wantField: "date",
		},
		{
			name:      "malformed start time",
			mutate:    func(r *Request) { r.StartTime = "9:00AM" },
			wantField: "start_time",
		},
		{
			name:      "malformed end time",
			mutate:    func(r *Request) { r.EndTime = "25:00PM" },
			wantField: "end_time",
		},
		{
			name:      "start equals end",
			mutate:    func(r *Request) { r.StartTime = "09:00AM"; r.EndTime = "09:00AM" },
			wantField: "end_time",
		},
		{
			name:      "start after end",
			mutate:    func(r *Request) { r.StartTime = "02:00PM"; r.EndTime = "11:00AM" },
			wantField: "end_time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(mockStore)
			svc := newTestService(store)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
			store.AssertNotCalled(t, "FindConflicting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_TodayIsAllowed(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("FindConflicting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Reservation{}, nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	req := validRequest()
	req.Date = "10/13/2025"

	_, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestEdit_ExcludesSelfFromConflictCheck(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("Exists", mock.Anything, "res-1").Return(true, nil)
	store.On("FindConflicting", mock.Anything, "Consultation Room 1", "12/01/2025", "09:00AM", "10:00AM", "res-1").
		Return([]model.Reservation{}, nil)
	store.On("Update", mock.Anything, mock.AnythingOfType("*model.Reservation")).Return(nil)

	err := svc.Edit(context.Background(), "res-1", validRequest())
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestEdit_ConflictWithOtherReservation(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	other := model.Reservation{ID: "res-2"}
	store.On("Exists", mock.Anything, "res-1").Return(true, nil)
	store.On("FindConflicting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, "res-1").
		Return([]model.Reservation{other}, nil)

	err := svc.Edit(context.Background(), "res-1", validRequest())

	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEdit_NotFound(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("Exists", mock.Anything, "missing").Return(false, nil)

	err := svc.Edit(context.Background(), "missing", validRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancel(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("Exists", mock.Anything, "res-1").Return(true, nil)
	store.On("Delete", mock.Anything, "res-1").Return(nil)

	require.NoError(t, svc.Cancel(context.Background(), "res-1"))
	store.AssertExpectations(t)
}

func TestCancel_NotFound(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("Exists", mock.Anything, "missing").Return(false, nil)

	err := svc.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestScheduleForDate_RejectsMalformedDate(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	_, err := svc.ScheduleForDate(context.Background(), "13/40/2025")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "date", validationErr.Field)
}

func TestScheduleForDate_AllowsPastDates(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("GetByDate", mock.Anything, "01/05/2020").Return([]model.Reservation{}, nil)

	_, err := svc.ScheduleForDate(context.Background(), "01/05/2020")
	assert.NoError(t, err)
}

func TestFindByID_MapsNotFound(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	store.On("GetByID", mock.Anything, "missing").Return(nil, database.ErrNotFound)

	_, err := svc.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_PublishesEvent(t *testing.T) {
	store := new(mockStore)
	bus := events.NewEventBus()
	svc := New(store, testRooms, bus, zerolog.New(io.Discard))
	svc.now = func() time.Time {
		return time.Date(2025, 10, 13, 14, 35, 22, 0, time.Local)
	}

	var published []string
	bus.Subscribe(events.ReservationCreated, func(e events.Event) error {
		published = append(published, e.Type)
		return nil
	})

	store.On("FindConflicting", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]model.Reservation{}, nil)
	store.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, []string{events.ReservationCreated}, published)
}
