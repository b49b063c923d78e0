package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/model"
	"github.com/ayoub-kd/costume-rental/internal/queue"
	"github.com/ayoub-kd/costume-rental/internal/repository"
	queue_publisher "github.com/ayoub-kd/costume-rental/internal/service"
	"github.com/ayoub-kd/costume-rental/internal/storage"
)

// AdminRentalHandler serves rental management for admins, scoped to
// rentals on costumes the admin owns.
type AdminRentalHandler struct {
	Rentals *repository.RentalRepo
	Store   *storage.Store
	Log     *zap.Logger
}

func NewAdminRentalHandler(rentals *repository.RentalRepo, store *storage.Store, log *zap.Logger) *AdminRentalHandler {
	return &AdminRentalHandler{Rentals: rentals, Store: store, Log: log}
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AdminRentalHandler) toResponse(d repository.Detail) rentalResponse {
	rh := RentalHandler{Store: h.Store}
	return rh.toResponse(d, true)
}

// List serves GET /v1/admin/rentals: every rental on the admin's
// costumes, newest first, with renter details.
func (h *AdminRentalHandler) List(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	details, err := h.Rentals.ListForAdmin(ctx, adminID)
	if err != nil {
		h.Log.Error("listing admin rentals failed", zap.Error(err), zap.Uint64("admin_id", adminID))
		return fail(c, http.StatusInternalServerError, "Could not load rentals")
	}
	out := make([]rentalResponse, 0, len(details))
	for _, d := range details {
		out = append(out, h.toResponse(d))
	}
	return respond(c, http.StatusOK, echo.Map{"rentals": out})
}

// Show serves GET /v1/admin/rentals/:id. A rental on another admin's
// costume is indistinguishable from a missing one.
func (h *AdminRentalHandler) Show(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Rental not found")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Rentals.GetByIDForAdmin(ctx, id, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Rental not found")
		}
		h.Log.Error("loading rental failed", zap.Error(err), zap.Uint64("rental_id", id))
		return fail(c, http.StatusInternalServerError, "Could not load rental")
	}
	return respond(c, http.StatusOK, echo.Map{"rental": h.toResponse(d)})
}

// UpdateStatus serves PATCH /v1/admin/rentals/:id/status, enforcing the
// rental lifecycle: pending may become confirmed, rejected or
// cancelled; confirmed may become cancelled or completed.
func (h *AdminRentalHandler) UpdateStatus(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Rental not found")
	}

	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if !model.ValidStatus(req.Status) {
		return failValidation(c, fieldErrors{"status": {"The selected status is invalid."}})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Rentals.GetByIDForAdmin(ctx, id, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Rental not found")
		}
		h.Log.Error("loading rental failed", zap.Error(err), zap.Uint64("rental_id", id))
		return fail(c, http.StatusInternalServerError, "Could not update rental")
	}

	old := d.Rental.Status
	if !model.CanTransition(old, req.Status) {
		return fail(c, http.StatusBadRequest, "Cannot change rental status from "+old+" to "+req.Status)
	}

	if err := h.Rentals.UpdateStatus(ctx, id, req.Status); err != nil {
		h.Log.Error("updating rental status failed", zap.Error(err), zap.Uint64("rental_id", id))
		return fail(c, http.StatusInternalServerError, "Could not update rental")
	}
	d.Rental.Status = req.Status

	queue_publisher.PublishRentalStatusChanged(ctx, h.Log, queue.RentalStatusChangedEvent{
		RentalID:  d.Rental.ID,
		CostumeID: d.Rental.CostumeID,
		OldStatus: old,
		NewStatus: req.Status,
		ChangedBy: "admin",
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return respondMsg(c, http.StatusOK, "Rental status updated successfully", echo.Map{
		"rental": h.toResponse(d),
	})
}
