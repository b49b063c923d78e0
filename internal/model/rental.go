package model

import "time"

// Rental statuses. A rental is created as pending; admins move it through
// the lifecycle and users may cancel. Rejected, cancelled and completed
// are terminal.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Rental records a booking of a costume for an inclusive date range.
// It mirrors a row in the `rentals` table.
type Rental struct {
	ID              uint64    // rentals.id
	UserID          uint64    // rentals.user_id
	CostumeID       uint64    // rentals.costume_id
	StartDate       time.Time // rentals.start_date (inclusive)
	EndDate         time.Time // rentals.end_date (inclusive)
	TotalPriceCents int64     // rentals.total_price_cents
	Status          string    // rentals.status
	Notes           *string   // rentals.notes (nullable)
	CreatedAt       time.Time // rentals.created_at
	UpdatedAt       time.Time // rentals.updated_at
}

// ValidStatus reports whether s is one of the known rental statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether an admin may move a rental from one
// status to another:
//
//	pending   -> confirmed | rejected | cancelled
//	confirmed -> cancelled | completed
//
// Terminal states admit no transitions.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusRejected || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled || to == StatusCompleted
	}
	return false
}

// Blocking reports whether a rental in this status makes its dates
// unavailable to other bookings.
func Blocking(status string) bool {
	return status == StatusPending || status == StatusConfirmed
}
