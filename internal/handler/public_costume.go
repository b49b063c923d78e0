package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/booking"
	"github.com/ayoub-kd/costume-rental/internal/model"
	"github.com/ayoub-kd/costume-rental/internal/repository"
	"github.com/ayoub-kd/costume-rental/internal/storage"
	"github.com/ayoub-kd/costume-rental/internal/utils"
)

// availableDatesWindow is the default horizon of the available-dates
// report when the caller gives no range.
const availableDatesWindow = 3 // months

// PublicCostumeHandler serves the unauthenticated catalog endpoints.
type PublicCostumeHandler struct {
	Costumes *repository.CostumeRepo
	Rentals  *repository.RentalRepo
	Store    *storage.Store
	Log      *zap.Logger
}

func NewPublicCostumeHandler(costumes *repository.CostumeRepo, rentals *repository.RentalRepo, store *storage.Store, log *zap.Logger) *PublicCostumeHandler {
	return &PublicCostumeHandler{Costumes: costumes, Rentals: rentals, Store: store, Log: log}
}

// costumeResponse is the public shape of a costume. price_per_day is a
// decimal string ("20.00"); available folds the published and
// availability flags together.
type costumeResponse struct {
	ID                uint64   `json:"id"`
	Name              string   `json:"name"`
	Description       *string  `json:"description"`
	Category          *string  `json:"category"`
	Size              *string  `json:"size"`
	PricePerDay       string   `json:"price_per_day"`
	Available         bool     `json:"available"`
	ImageURL          *string  `json:"image_url"`
	WhatsappLink      *string  `json:"whatsapp_link"`
	AvailableFrom     *string  `json:"available_from"`
	AvailableUntil    *string  `json:"available_until"`
	AvailabilityDates []string `json:"availability_dates,omitempty"`
}

func (h *PublicCostumeHandler) toResponse(c model.Costume) costumeResponse {
	return costumeResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		Category:          c.Category,
		Size:              c.Size,
		PricePerDay:       utils.FormatPrice(c.PricePerDayCents),
		Available:         c.Rentable(),
		ImageURL:          h.Store.ResolveImage(c.Image()),
		WhatsappLink:      c.WhatsappLink,
		AvailableFrom:     fmtDate(c.AvailableFrom),
		AvailableUntil:    fmtDate(c.AvailableUntil),
		AvailabilityDates: c.AvailabilityDates,
	}
}

// List serves GET /v1/costumes with optional category, size, available
// and search filters.
func (h *PublicCostumeHandler) List(c echo.Context) error {
	var f repository.CatalogFilter
	if v := strings.TrimSpace(c.QueryParam("category")); v != "" {
		f.Category = &v
	}
	if v := strings.TrimSpace(c.QueryParam("size")); v != "" {
		f.Size = &v
	}
	if v := strings.TrimSpace(c.QueryParam("available")); v != "" {
		b := v == "1" || strings.EqualFold(v, "true")
		f.Available = &b
	}
	if v := strings.TrimSpace(c.QueryParam("search")); v != "" {
		f.Search = &v
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costumes, err := h.Costumes.ListPublished(ctx, f)
	if err != nil {
		h.Log.Error("listing costumes failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Could not load costumes")
	}

	out := make([]costumeResponse, 0, len(costumes))
	for _, cm := range costumes {
		out = append(out, h.toResponse(cm))
	}
	return respond(c, http.StatusOK, echo.Map{"costumes": out})
}

// Show serves GET /v1/costumes/:id for published costumes only.
func (h *PublicCostumeHandler) Show(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Costume not found")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costume, err := h.Costumes.GetPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("loading costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not load costume")
	}
	return respond(c, http.StatusOK, echo.Map{"costume": h.toResponse(costume)})
}

// Categories serves GET /v1/costumes/categories.
func (h *PublicCostumeHandler) Categories(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	cats, err := h.Costumes.Categories(ctx)
	if err != nil {
		h.Log.Error("listing categories failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Could not load categories")
	}
	return respond(c, http.StatusOK, echo.Map{"categories": cats})
}

// AvailableDates serves GET /v1/costumes/:id/available-dates. Without
// explicit bounds it reports from today to three months out.
func (h *PublicCostumeHandler) AvailableDates(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Costume not found")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	start := today
	end := today.AddDate(0, availableDatesWindow, 0)

	errs := fieldErrors{}
	if v := c.QueryParam("start_date"); v != "" {
		if start, err = booking.ParseDate(v); err != nil {
			errs.add("start_date", "The start date is not a valid date.")
		}
	}
	if v := c.QueryParam("end_date"); v != "" {
		if end, err = booking.ParseDate(v); err != nil {
			errs.add("end_date", "The end date is not a valid date.")
		}
	}
	if len(errs) == 0 && end.Before(start) {
		errs.add("end_date", "The end date must be a date after or equal to start date.")
	}
	if len(errs) > 0 {
		return failValidation(c, errs)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costume, err := h.Costumes.GetPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("loading costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not load costume")
	}

	booked, err := h.Rentals.BlockingRanges(ctx, id)
	if err != nil {
		h.Log.Error("loading rental ranges failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not load availability")
	}

	available, unavailable := booking.Partition(costume, start, end, booked)
	return respond(c, http.StatusOK, echo.Map{
		"costume_id":        costume.ID,
		"start_date":        start.Format(model.DateLayout),
		"end_date":          end.Format(model.DateLayout),
		"available_dates":   available,
		"unavailable_dates": unavailable,
	})
}
