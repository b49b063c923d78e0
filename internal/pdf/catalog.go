// Package pdf renders the printable catalog of published, available
// costumes.
package pdf

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ayoub-kd/costume-rental/internal/model"
	"github.com/ayoub-kd/costume-rental/internal/utils"
)

// WriteCatalog renders an A4 table of costumes, grouped the way the
// repository orders them (category, then name), and writes the PDF to w.
func WriteCatalog(w io.Writer, costumes []model.Costume) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Available Costumes", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "Available Costumes", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, "Generated "+time.Now().UTC().Format("2006-01-02"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	const (
		nameW  = 70.0
		catW   = 45.0
		sizeW  = 25.0
		priceW = 30.0
		rowH   = 8.0
	)

	header := func() {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetFillColor(230, 230, 230)
		doc.CellFormat(nameW, rowH, "Name", "1", 0, "L", true, 0, "")
		doc.CellFormat(catW, rowH, "Category", "1", 0, "L", true, 0, "")
		doc.CellFormat(sizeW, rowH, "Size", "1", 0, "C", true, 0, "")
		doc.CellFormat(priceW, rowH, "Price / day", "1", 1, "R", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
	}
	header()

	for _, c := range costumes {
		if doc.GetY() > 270 {
			doc.AddPage()
			header()
		}
		category, size := "-", "-"
		if c.Category != nil && *c.Category != "" {
			category = *c.Category
		}
		if c.Size != nil && *c.Size != "" {
			size = *c.Size
		}
		doc.CellFormat(nameW, rowH, c.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(catW, rowH, category, "1", 0, "L", false, 0, "")
		doc.CellFormat(sizeW, rowH, size, "1", 0, "C", false, 0, "")
		doc.CellFormat(priceW, rowH, utils.FormatPrice(c.PricePerDayCents), "1", 1, "R", false, 0, "")
	}

	if len(costumes) == 0 {
		doc.CellFormat(nameW+catW+sizeW+priceW, rowH, "No costumes currently available", "1", 1, "C", false, 0, "")
	}

	return doc.Output(w)
}
