// Package handler contains the HTTP handlers for the costume rental
// API. Every JSON endpoint answers with the same envelope:
//
//	{"success": bool, "message"?: string, "data"?: ..., "errors"?: {field: [msg]}}
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ayoub-kd/costume-rental/internal/middleware"
	"github.com/ayoub-kd/costume-rental/internal/model"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// respond is the success envelope. data may be nil.
func respond(c echo.Context, status int, data any) error {
	body := echo.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// respondMsg is the success envelope with a human-readable message.
func respondMsg(c echo.Context, status int, msg string, data any) error {
	body := echo.Map{"success": true, "message": msg}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// fail is the error envelope: validation failures use failValidation
// instead.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// fieldErrors accumulates per-field validation messages for 422
// responses.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) { fe[field] = append(fe[field], msg) }

func failValidation(c echo.Context, errs fieldErrors) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

var errNoUser = errors.New("no authenticated user in context")

// getUserID reads the principal stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if uid, ok := c.Get(middleware.CtxUserID).(uint64); ok && uid != 0 {
		return uid, nil
	}
	return 0, errNoUser
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// fmtDate renders a date pointer as YYYY-MM-DD or nil.
func fmtDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(model.DateLayout)
	return &s
}
