package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomres",
			Name:      "reservation_created_total",
			Help:      "Count of reservations created.",
		},
	)

	reservationUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomres",
			Name:      "reservation_updated_total",
			Help:      "Count of reservations edited.",
		},
	)

	reservationCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomres",
			Name:      "reservation_cancelled_total",
			Help:      "Count of reservations cancelled.",
		},
	)

	conflictRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "roomres",
			Name:      "conflict_rejected_total",
			Help:      "Count of reservations rejected due to time conflicts.",
		},
	)

	validationFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomres",
			Name:      "validation_failed_total",
			Help:      "Count of validation failures by field.",
		},
		[]string{"field"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationCreated, reservationUpdated, reservationCancelled,
			conflictRejected, validationFailed,
		)
	})
}

func IncReservationCreated() {
	reservationCreated.Inc()
}

func IncReservationUpdated() {
	reservationUpdated.Inc()
}

func IncReservationCancelled() {
	reservationCancelled.Inc()
}

func IncConflictRejected() {
	conflictRejected.Inc()
}

func IncValidationFailed(field string) {
	validationFailed.WithLabelValues(field).Inc()
}
