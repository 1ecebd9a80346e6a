package controller

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/service"
)

// CatalogController handles HTTP requests for printable catalog generation
type CatalogController struct {
	catalogService service.CatalogServiceInterface
	cfg            *config.Config
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService service.CatalogServiceInterface, cfg *config.Config) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		cfg:            cfg,
	}
}

// tableParam extracts and validates the table query parameter
func (c *CatalogController) tableParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if table == "" {
		http.Error(w, "table parameter is required", http.StatusBadRequest)
		return "", false
	}
	if !c.cfg.ValidTable(table) {
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return "", false
	}
	return table, true
}

// RenderCatalog handles GET /admin/catalog/render?table=instrumentais
// Returns the HTML template for the catalog (used by chromedp for PDF generation)
func (c *CatalogController) RenderCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ RenderCatalog: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table, ok := c.tableParam(w, r)
	if !ok {
		return
	}

	// Absolute URLs, no base64: chromedp fetches the images itself
	htmlContent, err := c.catalogService.RenderCatalogHTML(r.Context(), table, false)
	if err != nil {
		log.Printf("❌ RenderCatalog: Error rendering HTML for %s: %v", table, err)
		http.Error(w, fmt.Sprintf("Failed to render catalog: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(htmlContent)); err != nil {
		log.Printf("❌ RenderCatalog: Error writing HTML response: %v", err)
	}
}

// GeneratePDF handles GET /admin/catalog/pdf?table=instrumentais
func (c *CatalogController) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GeneratePDF: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table, ok := c.tableParam(w, r)
	if !ok {
		return
	}

	pdfData, err := c.catalogService.GeneratePDF(r.Context(), table)
	if err != nil {
		log.Printf("❌ GeneratePDF: Error generating PDF for %s: %v", table, err)
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("catalogo_%s.pdf", table)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfData); err != nil {
		log.Printf("❌ GeneratePDF: Error writing PDF response: %v", err)
	}
}
