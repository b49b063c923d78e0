package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/pdf"
	"github.com/ayoub-kd/costume-rental/internal/repository"
)

// PDFHandler serves the downloadable costume catalog.
type PDFHandler struct {
	Costumes *repository.CostumeRepo
	Log      *zap.Logger
}

func NewPDFHandler(costumes *repository.CostumeRepo, log *zap.Logger) *PDFHandler {
	return &PDFHandler{Costumes: costumes, Log: log}
}

// Catalog serves GET /costumes/pdf: the published, available costumes
// rendered as a PDF table.
func (h *PDFHandler) Catalog(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	costumes, err := h.Costumes.ListPublishedAvailable(ctx)
	if err != nil {
		h.Log.Error("loading catalog failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Could not generate catalog")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/pdf")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="costumes.pdf"`)
	res.WriteHeader(http.StatusOK)
	if err := pdf.WriteCatalog(res, costumes); err != nil {
		h.Log.Error("rendering catalog failed", zap.Error(err))
		return err
	}
	return nil
}
