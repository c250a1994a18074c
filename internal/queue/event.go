// Package queue carries catalog events over RabbitMQ: the publisher used by
// the API and the consumer run by the worker.
package queue

import "time"

// Routing keys on the catalog topic exchange.
const (
	VenueCreated  = "venue.created"
	VenueUpdated  = "venue.updated"
	VenueDeleted  = "venue.deleted"
	TariffCreated = "tariff.created"
	TariffUpdated = "tariff.updated"
	TariffDeleted = "tariff.deleted"
)

// CatalogEvent is published after a venue or tariff mutation commits.  It
// holds enough context for audit logging without a database round trip.
type CatalogEvent struct {
	Type           string    `json:"type"`
	ActorUserID    uint64    `json:"actor_user_id"`
	ClubID         uint64    `json:"club_id"`
	VenueID        uint64    `json:"venue_id"`
	VenueName      string    `json:"venue_name"`
	TariffID       uint64    `json:"tariff_id,omitempty"`
	DayOfWeek      *uint8    `json:"day_of_week,omitempty"`
	StartTime      string    `json:"start_time,omitempty"`
	EndTime        string    `json:"end_time,omitempty"`
	Price          string    `json:"price,omitempty"`
	RemovedTariffs int       `json:"removed_tariffs,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
