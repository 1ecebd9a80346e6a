package router

import (
	"net/http"
	"strings"

	"catalogo-instrumentais/app/controller"
)

type Controllers struct {
	Product *controller.ProductController
	Image   *controller.ImageController
	Catalog *controller.CatalogController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Catalog browsing routes
	http.HandleFunc("/catalog/listing", controllers.Product.GetListing)
	http.HandleFunc("/catalog/product", controllers.Product.GetProduct)
	http.HandleFunc("/catalog/tables", controllers.Product.GetTables)

	// Image ingestion from Google Drive
	http.HandleFunc("/admin/images/sync", controllers.Image.SyncImages)

	// Optimized image serving: /admin/images/{id}/file
	http.HandleFunc("/admin/images/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/file") {
			controllers.Image.GetOptimizedImage(w, r)
			return
		}
		http.Error(w, "Not found", http.StatusNotFound)
	})

	// Printable catalog routes
	http.HandleFunc("/admin/catalog/render", controllers.Catalog.RenderCatalog)
	http.HandleFunc("/admin/catalog/pdf", controllers.Catalog.GeneratePDF)

	// Static assets for the printable catalog
	http.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}
