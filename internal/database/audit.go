package database

import (
	"context"
	"time"
)

// AuditEntry is one recorded reservation action.
type AuditEntry struct {
	ID            string    `json:"id"`
	Action        string    `json:"action"`
	ReservationID string    `json:"reservation_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

// InsertAuditEntry appends an entry to the audit log.
func (db *DB) InsertAuditEntry(ctx context.Context, e *AuditEntry) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, reservation_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.ReservationID, e.Detail, time.Now(),
	)
	return err
}

// ListAuditEntries returns audit entries for a reservation, oldest first.
func (db *DB) ListAuditEntries(ctx context.Context, reservationID string) ([]AuditEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, action, reservation_id, detail, created_at
		FROM audit_log
		WHERE reservation_id = ?
		ORDER BY created_at`,
		reservationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.ReservationID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
