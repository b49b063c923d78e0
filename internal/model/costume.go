package model

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// ImageKind tags the source of a costume image. A costume either links to
// an external URL or owns a file uploaded to the blob store; the two cases
// are resolved to a public URL at read time by the storage layer.
type ImageKind uint8

const (
	ImageNone   ImageKind = iota // no image
	ImageURL                     // costumes.image_url
	ImageStored                  // costumes.image_path
)

// ImageSource is the tagged variant (URL | stored path) for a costume
// image. Ref holds the URL or the store-relative path depending on Kind.
type ImageSource struct {
	Kind ImageKind
	Ref  string
}

// Costume represents a rentable item owned by a single admin. It mirrors
// a row in the `costumes` table.
//
// Availability is governed by four independent constraints:
//   - Published and Availability flags must both be true.
//   - When AvailableFrom / AvailableUntil are set the date must fall
//     inside the inclusive bounds (either bound may be nil).
//   - When AvailabilityDates is non-nil it is an explicit allow-list of
//     bookable dates and the date must be a member.
//   - The date must not be covered by a pending or confirmed rental
//     (checked in the booking layer, not here).
type Costume struct {
	ID                uint64     // costumes.id
	AdminID           uint64     // costumes.admin_id (owner)
	Name              string     // costumes.name
	Description       *string    // costumes.description (nullable)
	Category          *string    // costumes.category (nullable)
	Size              *string    // costumes.size (nullable)
	PricePerDayCents  int64      // costumes.price_per_day_cents
	Availability      bool       // costumes.availability
	Published         bool       // costumes.published
	ImageURL          *string    // costumes.image_url (nullable)
	ImagePath         *string    // costumes.image_path (nullable)
	WhatsappLink      *string    // costumes.whatsapp_link (nullable)
	AvailabilityDates []string   // costumes.availability_dates (JSON, nil when unset)
	AvailableFrom     *time.Time // costumes.available_from (nullable DATE)
	AvailableUntil    *time.Time // costumes.available_until (nullable DATE)
	CreatedAt         time.Time  // costumes.created_at
	UpdatedAt         time.Time  // costumes.updated_at
}

// Image returns the tagged image source for the costume. A stored upload
// wins over a lingering external URL, matching the original read path.
func (c Costume) Image() ImageSource {
	if c.ImagePath != nil && *c.ImagePath != "" {
		return ImageSource{Kind: ImageStored, Ref: *c.ImagePath}
	}
	if c.ImageURL != nil && *c.ImageURL != "" {
		return ImageSource{Kind: ImageURL, Ref: *c.ImageURL}
	}
	return ImageSource{}
}

// Rentable reports whether the costume can be rented at all, ignoring
// dates: it must be published and flagged available.
func (c Costume) Rentable() bool { return c.Published && c.Availability }

// AllowsDate checks the costume's own calendar constraints for a single
// day: the published/availability flags, the optional [from, until]
// bounds and the optional allow-list. Overlap with existing rentals is a
// separate check owned by the booking engine.
func (c Costume) AllowsDate(day time.Time) bool {
	if !c.Rentable() {
		return false
	}
	if c.AvailableFrom != nil && day.Before(*c.AvailableFrom) {
		return false
	}
	if c.AvailableUntil != nil && day.After(*c.AvailableUntil) {
		return false
	}
	if c.AvailabilityDates != nil {
		s := day.Format(DateLayout)
		for _, d := range c.AvailabilityDates {
			if d == s {
				return true
			}
		}
		return false
	}
	return true
}
