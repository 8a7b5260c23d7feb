// Package queue defines the villa.events message contract plus the publisher
// and the background audit consumer that drains it.
package queue

// Actions carried by VillaEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// eventsQueueName is the durable queue villa mutations are published to.
const eventsQueueName = "villa.events"

// VillaEvent is published whenever a villa or one of its room numbers is
// created, updated or deleted. It carries enough of a snapshot for
// downstream consumers to audit or notify without querying the database.
type VillaEvent struct {
	Action     string `json:"action"`
	Entity     string `json:"entity"` // "villa" or "villa_number"
	ID         uint64 `json:"id"`     // villa id, or villa_no for room numbers
	Name       string `json:"name,omitempty"`
	Actor      string `json:"actor,omitempty"` // username of the authenticated caller
	OccurredAt string `json:"occurred_at"`     // RFC 3339 UTC
}
