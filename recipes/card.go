package recipes

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tasteknowledge/db"
	"tasteknowledge/utils"
)

// Card renders a printable A4 recipe card: title, chef, nutrition totals,
// ingredient list, numbered steps, and a QR code linking back to the
// recipe page.
func (h *Handlers) Card(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	recipeID := ps.ByName("id")

	rec, err := h.store.RecipeByID(r.Context(), recipeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate card")
		return
	}

	enriched, err := h.enricher.Enrich(r.Context(), rec)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate card")
		return
	}

	recipeURL := fmt.Sprintf("%s/recipe?id=%s", h.baseURL, recipeID)
	qrPNG, err := qrcode.Encode(recipeURL, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, enriched.Title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 12)
	if enriched.UserName != "" {
		pdf.Cell(0, 8, "By "+enriched.UserName)
		pdf.Ln(8)
	}
	if enriched.Time != "" {
		pdf.Cell(0, 8, "Time: "+enriched.Time)
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Nutrition: %d kcal / %dg protein / %dg carbs / %dg fats",
		enriched.Calories, enriched.Protein, enriched.Carbs, enriched.Fats))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Ingredients")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, ing := range enriched.Ingredients {
		pdf.Cell(0, 6, fmt.Sprintf("- %s %.0f %s", ing.Name, ing.Quantity, ing.Unit))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Steps")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for i, step := range enriched.Steps {
		pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, step.Description), "", "L", false)
		pdf.Ln(1)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=recipe-"+recipeID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
