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

// AdminCostumeHandler serves costume management for admins. Every query
// is scoped to the authenticated admin, so one admin can never reach
// another admin's costumes.
type AdminCostumeHandler struct {
	Costumes *repository.CostumeRepo
	Store    *storage.Store
	Log      *zap.Logger
}

func NewAdminCostumeHandler(costumes *repository.CostumeRepo, store *storage.Store, log *zap.Logger) *AdminCostumeHandler {
	return &AdminCostumeHandler{Costumes: costumes, Store: store, Log: log}
}

// costumeForm carries create/update fields. Accepted both as JSON and
// as multipart form data (the latter for image uploads); pointer fields
// distinguish "absent" from "set to empty" on update.
type costumeForm struct {
	Name              *string  `json:"name" form:"name"`
	Description       *string  `json:"description" form:"description"`
	Category          *string  `json:"category" form:"category"`
	Size              *string  `json:"size" form:"size"`
	PricePerDay       *string  `json:"price_per_day" form:"price_per_day"`
	Availability      *bool    `json:"availability" form:"availability"`
	Published         *bool    `json:"published" form:"published"`
	ImageURL          *string  `json:"image_url" form:"image_url"`
	WhatsappLink      *string  `json:"whatsapp_link" form:"whatsapp_link"`
	AvailabilityDates []string `json:"availability_dates" form:"availability_dates"`
	AvailableFrom     *string  `json:"available_from" form:"available_from"`
	AvailableUntil    *string  `json:"available_until" form:"available_until"`
}

// adminCostumeResponse exposes the full record including the publish
// state, unlike the public shape.
type adminCostumeResponse struct {
	ID                uint64    `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	Category          *string   `json:"category"`
	Size              *string   `json:"size"`
	PricePerDay       string    `json:"price_per_day"`
	Availability      bool      `json:"availability"`
	Published         bool      `json:"published"`
	ImageURL          *string   `json:"image_url"`
	WhatsappLink      *string   `json:"whatsapp_link"`
	AvailabilityDates []string  `json:"availability_dates"`
	AvailableFrom     *string   `json:"available_from"`
	AvailableUntil    *string   `json:"available_until"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (h *AdminCostumeHandler) toResponse(c model.Costume) adminCostumeResponse {
	return adminCostumeResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		Category:          c.Category,
		Size:              c.Size,
		PricePerDay:       utils.FormatPrice(c.PricePerDayCents),
		Availability:      c.Availability,
		Published:         c.Published,
		ImageURL:          h.Store.ResolveImage(c.Image()),
		WhatsappLink:      c.WhatsappLink,
		AvailabilityDates: c.AvailabilityDates,
		AvailableFrom:     fmtDate(c.AvailableFrom),
		AvailableUntil:    fmtDate(c.AvailableUntil),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// List serves GET /v1/admin/costumes: every costume of the admin,
// published or not, newest first.
func (h *AdminCostumeHandler) List(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costumes, err := h.Costumes.ListByAdmin(ctx, adminID)
	if err != nil {
		h.Log.Error("listing admin costumes failed", zap.Error(err), zap.Uint64("admin_id", adminID))
		return fail(c, http.StatusInternalServerError, "Could not load costumes")
	}
	out := make([]adminCostumeResponse, 0, len(costumes))
	for _, cm := range costumes {
		out = append(out, h.toResponse(cm))
	}
	return respond(c, http.StatusOK, echo.Map{"costumes": out})
}

// Create serves POST /v1/admin/costumes. Accepts JSON or multipart
// with an optional image file; availability defaults to true and
// published to false.
func (h *AdminCostumeHandler) Create(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}

	var form costumeForm
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	costume := model.Costume{AdminID: adminID, Availability: true}
	errs := fieldErrors{}
	if form.Name == nil || strings.TrimSpace(*form.Name) == "" {
		errs.add("name", "The name field is required.")
	} else {
		costume.Name = strings.TrimSpace(*form.Name)
	}
	if form.PricePerDay == nil || *form.PricePerDay == "" {
		errs.add("price_per_day", "The price per day field is required.")
	} else if cents, perr := utils.ParsePrice(*form.PricePerDay); perr != nil {
		errs.add("price_per_day", "The price per day must be a valid amount.")
	} else {
		costume.PricePerDayCents = cents
	}
	h.applyForm(&costume, form, errs)
	if len(errs) > 0 {
		return failValidation(c, errs)
	}

	if fh, ferr := c.FormFile("image"); ferr == nil && fh != nil {
		rel, serr := h.Store.SaveCostumeImage(fh)
		if serr != nil {
			return h.imageError(c, serr)
		}
		costume.ImagePath = &rel
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Costumes.Create(ctx, &costume); err != nil {
		h.Log.Error("creating costume failed", zap.Error(err), zap.Uint64("admin_id", adminID))
		return fail(c, http.StatusInternalServerError, "Could not create costume")
	}
	return respondMsg(c, http.StatusCreated, "Costume created successfully", echo.Map{
		"costume": h.toResponse(costume),
	})
}

// Update serves POST|PUT /v1/admin/costumes/:id. Only the provided
// fields change; a new image replaces and deletes the previous upload.
func (h *AdminCostumeHandler) Update(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Costume not found")
	}

	var form costumeForm
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costume, err := h.Costumes.GetByIDAndAdmin(ctx, id, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("loading costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not update costume")
	}

	errs := fieldErrors{}
	if form.Name != nil {
		if strings.TrimSpace(*form.Name) == "" {
			errs.add("name", "The name field is required.")
		} else {
			costume.Name = strings.TrimSpace(*form.Name)
		}
	}
	if form.PricePerDay != nil && *form.PricePerDay != "" {
		if cents, perr := utils.ParsePrice(*form.PricePerDay); perr != nil {
			errs.add("price_per_day", "The price per day must be a valid amount.")
		} else {
			costume.PricePerDayCents = cents
		}
	}
	h.applyForm(&costume, form, errs)
	if len(errs) > 0 {
		return failValidation(c, errs)
	}

	if fh, ferr := c.FormFile("image"); ferr == nil && fh != nil {
		rel, serr := h.Store.SaveCostumeImage(fh)
		if serr != nil {
			return h.imageError(c, serr)
		}
		if costume.ImagePath != nil {
			if derr := h.Store.Delete(*costume.ImagePath); derr != nil {
				h.Log.Warn("deleting replaced image failed", zap.Error(derr), zap.String("path", *costume.ImagePath))
			}
		}
		costume.ImagePath = &rel
	}

	if err := h.Costumes.Update(ctx, &costume); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("updating costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not update costume")
	}

	fresh, err := h.Costumes.GetByIDAndAdmin(ctx, id, adminID)
	if err != nil {
		fresh = costume
	}
	return respondMsg(c, http.StatusOK, "Costume updated successfully", echo.Map{
		"costume": h.toResponse(fresh),
	})
}

// applyForm merges the optional shared fields of create/update into the
// costume, accumulating validation errors.
func (h *AdminCostumeHandler) applyForm(costume *model.Costume, form costumeForm, errs fieldErrors) {
	if form.Description != nil {
		costume.Description = emptyToNil(*form.Description)
	}
	if form.Category != nil {
		costume.Category = emptyToNil(*form.Category)
	}
	if form.Size != nil {
		costume.Size = emptyToNil(*form.Size)
	}
	if form.Availability != nil {
		costume.Availability = *form.Availability
	}
	if form.Published != nil {
		costume.Published = *form.Published
	}
	if form.ImageURL != nil {
		costume.ImageURL = emptyToNil(*form.ImageURL)
	}
	if form.WhatsappLink != nil {
		costume.WhatsappLink = emptyToNil(*form.WhatsappLink)
	}
	if len(form.AvailabilityDates) > 0 {
		for _, d := range form.AvailabilityDates {
			if _, derr := booking.ParseDate(d); derr != nil {
				errs.add("availability_dates", "The availability dates must be valid dates.")
				break
			}
		}
		costume.AvailabilityDates = form.AvailabilityDates
	}
	if form.AvailableFrom != nil {
		costume.AvailableFrom = parseDateField(*form.AvailableFrom, "available_from", errs)
	}
	if form.AvailableUntil != nil {
		costume.AvailableUntil = parseDateField(*form.AvailableUntil, "available_until", errs)
	}
	if costume.AvailableFrom != nil && costume.AvailableUntil != nil &&
		costume.AvailableUntil.Before(*costume.AvailableFrom) {
		errs.add("available_until", "The available until must be a date after or equal to available from.")
	}
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// parseDateField parses an optional date field; an empty string clears
// the bound.
func parseDateField(s, field string, errs fieldErrors) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	t, err := booking.ParseDate(s)
	if err != nil {
		errs.add(field, "The "+strings.ReplaceAll(field, "_", " ")+" is not a valid date.")
		return nil
	}
	return &t
}

func (h *AdminCostumeHandler) imageError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrBadImageType):
		return failValidation(c, fieldErrors{"image": {"The image must be a file of type: jpg, jpeg, png, gif."}})
	case errors.Is(err, storage.ErrImageTooBig):
		return failValidation(c, fieldErrors{"image": {"The image may not be greater than 5 megabytes."}})
	default:
		h.Log.Error("storing image failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Could not store image")
	}
}

// Delete serves DELETE /v1/admin/costumes/:id and removes any stored
// image alongside the record.
func (h *AdminCostumeHandler) Delete(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Costume not found")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costume, err := h.Costumes.GetByIDAndAdmin(ctx, id, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("loading costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not delete costume")
	}

	if err := h.Costumes.Delete(ctx, id, adminID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("deleting costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not delete costume")
	}

	if costume.ImagePath != nil {
		if derr := h.Store.Delete(*costume.ImagePath); derr != nil {
			h.Log.Warn("deleting costume image failed", zap.Error(derr), zap.String("path", *costume.ImagePath))
		}
	}
	return respondMsg(c, http.StatusOK, "Costume deleted successfully", nil)
}

// TogglePublish serves PATCH /v1/admin/costumes/:id/toggle-publish.
func (h *AdminCostumeHandler) TogglePublish(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthenticated")
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusNotFound, "Costume not found")
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	costume, err := h.Costumes.GetByIDAndAdmin(ctx, id, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Costume not found")
		}
		h.Log.Error("loading costume failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not update costume")
	}

	next := !costume.Published
	if err := h.Costumes.SetPublished(ctx, id, adminID, next); err != nil {
		h.Log.Error("toggling publish failed", zap.Error(err), zap.Uint64("costume_id", id))
		return fail(c, http.StatusInternalServerError, "Could not update costume")
	}
	costume.Published = next

	msg := "Costume unpublished successfully"
	if next {
		msg = "Costume published successfully"
	}
	return respondMsg(c, http.StatusOK, msg, echo.Map{"costume": h.toResponse(costume)})
}
