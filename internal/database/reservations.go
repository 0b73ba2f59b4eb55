package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"roomres/internal/model"
)

// Exists checks whether a reservation with the given id exists.
func (db *DB) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE id = ?", id,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert persists a new reservation. The overlap check and the insert run
// in a single immediate transaction so invariant I1 holds even with
// concurrent writers.
func (db *DB) Insert(ctx context.Context, r *model.Reservation) error {
	startMin, endMin, err := intervalMinutes(r)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	booked, err := slotBooked(ctx, tx, r.Room, r.Date, startMin, endMin, "")
	if err != nil {
		return err
	}
	if booked {
		return ErrConflict
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservations (
			id, room, date, start_time, end_time, start_min, end_min,
			student_name, student_number, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Room, r.Date, r.StartTime, r.EndTime, startMin, endMin,
		r.StudentName, r.StudentNumber, now, now,
	)
	if err != nil {
		return err
	}

	r.CreatedAt = now
	r.UpdatedAt = now
	return tx.Commit()
}

// Update rewrites all mutable fields of an existing reservation. The
// overlap check excludes the reservation itself, so a no-op time change
// succeeds.
func (db *DB) Update(ctx context.Context, r *model.Reservation) error {
	startMin, endMin, err := intervalMinutes(r)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	booked, err := slotBooked(ctx, tx, r.Room, r.Date, startMin, endMin, r.ID)
	if err != nil {
		return err
	}
	if booked {
		return ErrConflict
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE reservations
		SET room = ?, date = ?, start_time = ?, end_time = ?,
		    start_min = ?, end_min = ?, student_name = ?, student_number = ?,
		    updated_at = ?
		WHERE id = ?`,
		r.Room, r.Date, r.StartTime, r.EndTime,
		startMin, endMin, r.StudentName, r.StudentNumber,
		now, r.ID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	r.UpdatedAt = now
	return tx.Commit()
}

// Delete permanently removes a reservation.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM reservations WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByDate returns all reservations for a date, ordered by start time.
func (db *DB) GetByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, selectColumns+`
		FROM reservations
		WHERE date = ?
		ORDER BY start_min, room`,
		date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReservations(rows)
}

// SearchByName returns reservations whose student name contains the given
// substring, case-insensitively. The term is matched as literal text, so
// % and _ in a name do not act as wildcards.
func (db *DB) SearchByName(ctx context.Context, name string) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, selectColumns+`
		FROM reservations
		WHERE lower(student_name) LIKE '%' || lower(?) || '%' ESCAPE '\'
		ORDER BY date, start_min`,
		escapeLike(name),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectReservations(rows)
}

// GetByID returns a single reservation or ErrNotFound.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	row := db.QueryRowContext(ctx, selectColumns+`
		FROM reservations
		WHERE id = ?`,
		id,
	)

	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// FindConflicting returns reservations for the room and date whose
// half-open intervals overlap [start, end). excludeID, when non-empty,
// removes the reservation being edited from consideration. The (room,
// date) bucket is fetched by SQL; the interval comparison itself runs
// through Reservation.Overlaps.
func (db *DB) FindConflicting(ctx context.Context, room, date, start, end, excludeID string) ([]model.Reservation, error) {
	candidate := model.Reservation{Room: room, Date: date, StartTime: start, EndTime: end}
	if _, _, ok := candidate.Interval(); !ok {
		return nil, fmt.Errorf("malformed times %q-%q", start, end)
	}

	rows, err := db.QueryContext(ctx, selectColumns+`
		FROM reservations
		WHERE room = ? AND date = ? AND id != ?
		ORDER BY start_min`,
		room, date, excludeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bucket, err := collectReservations(rows)
	if err != nil {
		return nil, err
	}

	var conflicts []model.Reservation
	for _, r := range bucket {
		if candidate.Overlaps(&r) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts, nil
}

const selectColumns = `
	SELECT id, room, date, start_time, end_time,
	       student_name, student_number, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var r model.Reservation
	err := row.Scan(
		&r.ID, &r.Room, &r.Date, &r.StartTime, &r.EndTime,
		&r.StudentName, &r.StudentNumber, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
	var reservations []model.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters so a search term matches
// as literal text under ESCAPE '\'.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func slotBooked(ctx context.Context, tx *sql.Tx, room, date string, startMin, endMin int, excludeID string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE room = ? AND date = ?
		AND start_min < ? AND end_min > ?
		AND id != ?`,
		room, date, endMin, startMin, excludeID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func intervalMinutes(r *model.Reservation) (startMin, endMin int, err error) {
	start, end, ok := r.Interval()
	if !ok {
		return 0, 0, fmt.Errorf("malformed reservation times %q-%q", r.StartTime, r.EndTime)
	}
	return start.MinutesSinceMidnight(), end.MinutesSinceMidnight(), nil
}
