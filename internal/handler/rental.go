package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/booking"
	"github.com/ayoub-kd/costume-rental/internal/model"
	"github.com/ayoub-kd/costume-rental/internal/queue"
	"github.com/ayoub-kd/costume-rental/internal/repository"
	queue_publisher "github.com/ayoub-kd/costume-rental/internal/service"
	"github.com/ayoub-kd/costume-rental/internal/storage"
	"github.com/ayoub-kd/costume-rental/internal/utils"
)

// RentalHandler serves the authenticated customer rental endpoints.
type RentalHandler struct {
	Rentals  *repository.RentalRepo
	Costumes *repository.CostumeRepo
	Store    *storage.Store
	Log      *zap.Logger
}

func NewRentalHandler(rentals *repository.RentalRepo, costumes *repository.CostumeRepo, store *storage.Store, log *zap.Logger) *RentalHandler {
	return &RentalHandler{Rentals: rentals, Costumes: costumes, Store: store, Log: log}
}

type createRentalRequest struct {
	CostumeID uint64  `json:"costume_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Notes     *string `json:"notes"`
}

// rentalCostume is the costume summary embedded in rental responses.
type rentalCostume struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url"`
}

type rentalResponse struct {
	ID         uint64         `json:"id"`
	Costume    rentalCostume  `json:"costume"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	TotalPrice string         `json:"total_price"`
	Status     string         `json:"status"`
	Notes      *string        `json:"notes"`
	CreatedAt  time.Time      `json:"created_at"`
	User       *rentalUser    `json:"user,omitempty"`
}

type rentalUser struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *RentalHandler) toResponse(d repository.Detail, withUser bool) rentalResponse {
	img := model.Costume{ImageURL: d.CostumeImageURL, ImagePath: d.CostumeImagePath}.Image()
	out := rentalResponse{
		ID: d.Rental.ID,
		Costume: rentalCostume{
			ID:          d.Rental.CostumeID,
			Name:        d.CostumeName,
			Description: d.CostumeDescription,
			ImageURL:    h.Store.ResolveImage(img),
		},
		StartDate:  d.Rental.StartDate.Format(model.DateLayout),
		EndDate:    d.Rental.EndDate.Format(model.DateLayout),
		TotalPrice: utils.FormatPrice(d.Rental.TotalPriceCents),
		Status:     d.Rental.Status,
		Notes:      d.Rental.Notes,
		CreatedAt:  d.Rental.CreatedAt,
	}
	if withUser {
		out.User = &rentalUser{ID: d.Rental.UserID, Name: d.UserName, Email: d.UserEmail}
	}
	return out
}

// List serves GET /v1/rentals: the authenticated user's rentals, newest
// first.
func (h *RentalHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	details, err := h.Rentals.ListByUser(ctx, uid)
	if err != nil {
		h.Log.Error("listing rentals failed", zap.Error(err), zap.Uint64("user_id", uid))
		return fail(c, http.StatusInternalServerError, "Could not load rentals")
	}
	out := make([]rentalResponse, 0, len(details))
	for _, d := range details {
		out = append(out, h.toResponse(d, false))
	}
	return respond(c, http.StatusOK, echo.Map{"rentals": out})
}

// Show serves GET /v1/rentals/:id scoped to the authenticated user.
func (h *RentalHandler) Show(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Rental not found")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Rentals.GetByIDForUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Rental not found")
		}
		h.Log.Error("loading rental failed", zap.Error(err), zap.Uint64("rental_id", id))
		return fail(c, http.StatusInternalServerError, "Could not load rental")
	}
	return respond(c, http.StatusOK, echo.Map{"rental": h.toResponse(d, false)})
}

// Create serves POST /v1/rentals. The availability check and the insert
// run inside a single transaction holding a row lock on the costume's
// blocking rentals, so two users cannot book the same dates.
func (h *RentalHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	var req createRentalRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	errs := fieldErrors{}
	if req.CostumeID == 0 {
		errs.add("costume_id", "The costume id field is required.")
	}
	var start, end time.Time
	if req.StartDate == "" {
		errs.add("start_date", "The start date field is required.")
	} else if start, err = booking.ParseDate(req.StartDate); err != nil {
		errs.add("start_date", "The start date is not a valid date.")
	}
	if req.EndDate == "" {
		errs.add("end_date", "The end date field is required.")
	} else if end, err = booking.ParseDate(req.EndDate); err != nil {
		errs.add("end_date", "The end date is not a valid date.")
	}
	if len(errs) == 0 {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if start.Before(today) {
			errs.add("start_date", "The start date must be a date after or equal to today.")
		}
		if end.Before(start) {
			errs.add("end_date", "The end date must be a date after or equal to start date.")
		}
	}
	if len(errs) > 0 {
		return failValidation(c, errs)
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costume, err := h.Costumes.GetPublishedByID(ctx, req.CostumeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("loading costume failed", zap.Error(err), zap.Uint64("costume_id", req.CostumeID))
		return fail(c, http.StatusInternalServerError, "Could not create rental")
	}

	rental := model.Rental{
		UserID:          uid,
		CostumeID:       costume.ID,
		StartDate:       start,
		EndDate:         end,
		TotalPriceCents: booking.TotalPriceCents(costume.PricePerDayCents, start, end),
		Status:          model.StatusPending,
		Notes:           req.Notes,
	}

	if err := h.book(ctx, costume, &rental); err != nil {
		var hb *bookingError
		if errors.As(err, &hb) {
			return fail(c, http.StatusBadRequest, hb.msg)
		}
		h.Log.Error("booking transaction failed", zap.Error(err), zap.Uint64("costume_id", costume.ID))
		return fail(c, http.StatusInternalServerError, "Could not create rental")
	}

	queue_publisher.PublishRentalRequested(ctx, h.Log, queue.RentalRequestedEvent{
		RentalID:    rental.ID,
		UserID:      uid,
		CostumeID:   costume.ID,
		CostumeName: costume.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalPrice:  utils.FormatPrice(rental.TotalPriceCents),
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return respondMsg(c, http.StatusCreated, "Rental request created successfully", echo.Map{
		"rental": rentalResponse{
			ID: rental.ID,
			Costume: rentalCostume{
				ID:       costume.ID,
				Name:     costume.Name,
				ImageURL: h.Store.ResolveImage(costume.Image()),
			},
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			TotalPrice: utils.FormatPrice(rental.TotalPriceCents),
			Status:     rental.Status,
			Notes:      rental.Notes,
			CreatedAt:  rental.CreatedAt,
		},
	})
}

// bookingError is a business rejection surfaced as 400.
type bookingError struct{ msg string }

func (e *bookingError) Error() string { return e.msg }

// book runs the locking booking transaction: lock blocking rentals,
// re-check availability under the lock, insert.
func (h *RentalHandler) book(ctx context.Context, costume model.Costume, rental *model.Rental) error {
	tx, err := h.Rentals.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	booked, err := h.Rentals.BlockingRangesTx(ctx, tx, costume.ID)
	if err != nil {
		return err
	}
	if day, bad := booking.FirstUnavailable(costume, rental.StartDate, rental.EndDate, booked); bad {
		return &bookingError{msg: "Costume is not available on " + day.Format(model.DateLayout)}
	}
	if booking.ConflictsWith(booking.Range{Start: rental.StartDate, End: rental.EndDate}, booked) {
		return &bookingError{msg: "Costume is already rented for the selected period"}
	}
	if err := h.Rentals.CreateTx(ctx, tx, rental); err != nil {
		return err
	}
	return tx.Commit()
}

// Cancel serves PATCH /v1/rentals/:id/cancel. Any non-cancelled rental
// may be cancelled by its owner.
func (h *RentalHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Rental not found")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	rental, err := h.Rentals.GetOwnedByUser(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Rental not found")
		}
		h.Log.Error("loading rental failed", zap.Error(err), zap.Uint64("rental_id", id))
		return fail(c, http.StatusInternalServerError, "Could not cancel rental")
	}
	if rental.Status == model.StatusCancelled {
		return fail(c, http.StatusBadRequest, "Rental is already cancelled")
	}

	if err := h.Rentals.UpdateStatus(ctx, rental.ID, model.StatusCancelled); err != nil {
		h.Log.Error("cancelling rental failed", zap.Error(err), zap.Uint64("rental_id", id))
		return fail(c, http.StatusInternalServerError, "Could not cancel rental")
	}

	queue_publisher.PublishRentalStatusChanged(ctx, h.Log, queue.RentalStatusChangedEvent{
		RentalID:  rental.ID,
		CostumeID: rental.CostumeID,
		OldStatus: rental.Status,
		NewStatus: model.StatusCancelled,
		ChangedBy: "user",
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return respondMsg(c, http.StatusOK, "Rental cancelled successfully", nil)
}
