// Package audit keeps a trail of reservation actions and exports daily
// schedules to xlsx workbooks.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roomres/internal/database"
	"roomres/internal/events"
)

// Recorder subscribes to reservation events and appends audit entries.
type Recorder struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewRecorder(db *database.DB, logger *zerolog.Logger) *Recorder {
	return &Recorder{db: db, logger: logger}
}

// Subscribe attaches the recorder to all reservation lifecycle events.
func (r *Recorder) Subscribe(bus *events.EventBus) {
	for _, eventType := range []string{
		events.ReservationCreated,
		events.ReservationUpdated,
		events.ReservationCancelled,
	} {
		bus.Subscribe(eventType, r.handle)
	}
}

func (r *Recorder) handle(event events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entry := &database.AuditEntry{
		ID:            uuid.NewString(),
		Action:        event.Type,
		ReservationID: reservationID(event.Payload),
		Detail:        string(event.Payload),
	}
	if err := r.db.InsertAuditEntry(ctx, entry); err != nil {
		r.logger.Error().Err(err).Str("action", event.Type).Msg("Failed to record audit entry")
		return err
	}
	return nil
}

func reservationID(payload []byte) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.ID
}
