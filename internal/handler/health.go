package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers the banner on GET /.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Costume Rental API",
		"version": "1.0.0",
	})
}

// Health answers GET /healthz for load balancers and probes.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
