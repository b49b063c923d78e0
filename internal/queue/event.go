// Package queue defines the domain events exchanged over the message
// broker and the background consumer that audits them.
package queue

// Queue names. Both queues are durable and carry persistent JSON
// messages.
const (
	RentalRequestedQueue     = "rental.requested"
	RentalStatusChangedQueue = "rental.status_changed"
)

// RentalRequestedEvent is published when a user books a costume. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type RentalRequestedEvent struct {
	RentalID    uint64 `json:"rental_id"`
	UserID      uint64 `json:"user_id"`
	CostumeID   uint64 `json:"costume_id"`
	CostumeName string `json:"costume_name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TotalPrice  string `json:"total_price"`
	RequestedAt string `json:"requested_at"`
}

// RentalStatusChangedEvent is published when a rental moves through its
// lifecycle, whether by an admin transition or a user cancellation.
type RentalStatusChangedEvent struct {
	RentalID  uint64 `json:"rental_id"`
	CostumeID uint64 `json:"costume_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ChangedBy string `json:"changed_by"` // "admin" or "user"
	ChangedAt string `json:"changed_at"`
}
