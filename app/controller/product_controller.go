package controller

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/service"
)

// ProductController handles HTTP requests for the product catalog views
type ProductController struct {
	catalogService service.CatalogServiceInterface
	cfg            *config.Config
}

// NewProductController creates a new ProductController
func NewProductController(catalogService service.CatalogServiceInterface, cfg *config.Config) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		cfg:            cfg,
	}
}

// GetListing handles GET /catalog/listing?table=instrumentais
func (c *ProductController) GetListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetListing: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	if table == "" {
		log.Printf("❌ GetListing: table parameter is required")
		http.Error(w, "table parameter is required", http.StatusBadRequest)
		return
	}
	if !c.cfg.ValidTable(table) {
		log.Printf("❌ GetListing: Invalid table: %s", table)
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	listing, err := c.catalogService.BuildListing(r.Context(), table)
	if err != nil {
		log.Printf("❌ GetListing: Error building listing for %s: %v", table, err)
		http.Error(w, "Failed to build listing", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(listing); err != nil {
		log.Printf("❌ GetListing: Error encoding response: %v", err)
	}
}

// GetProduct handles GET /catalog/product?table=instrumentais&token=XYZ
func (c *ProductController) GetProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		log.Printf("❌ GetProduct: Method not allowed: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	table := strings.TrimSpace(r.URL.Query().Get("table"))
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if table == "" || token == "" {
		log.Printf("❌ GetProduct: table and token parameters are required")
		http.Error(w, "table and token parameters are required", http.StatusBadRequest)
		return
	}
	if !c.cfg.ValidTable(table) {
		log.Printf("❌ GetProduct: Invalid table: %s", table)
		http.Error(w, "Invalid table", http.StatusBadRequest)
		return
	}

	detail, err := c.catalogService.GetProductDetail(r.Context(), table, token)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			log.Printf("⚠️  GetProduct: Product not found for token %s in %s", token, table)
			http.Error(w, "Product not found", http.StatusNotFound)
			return
		}
		log.Printf("❌ GetProduct: Error loading product: %v", err)
		http.Error(w, "Failed to load product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(detail); err != nil {
		log.Printf("❌ GetProduct: Error encoding response: %v", err)
	}
}

// GetTables handles GET /catalog/tables
// Returns the list of browsable product tables
func (c *ProductController) GetTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"tables": c.cfg.TableNames(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("❌ GetTables: Error encoding response: %v", err)
	}
}
