package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/imagematch"
	"catalogo-instrumentais/models"
	"catalogo-instrumentais/repository"
	"catalogo-instrumentais/utils"
	"catalogo-instrumentais/variation"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/errgroup"
)

// CatalogService builds listing and detail views for the product catalog
type CatalogService struct {
	productRepo repository.ProductRepositoryInterface
	resolver    *imagematch.Resolver
	cfg         *config.Config
	baseURL     string // Base URL for image endpoints (e.g., "http://localhost:8080")
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	productRepo repository.ProductRepositoryInterface,
	resolver *imagematch.Resolver,
	cfg *config.Config,
	baseURL string,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		resolver:    resolver,
		cfg:         cfg,
		baseURL:     baseURL,
	}
}

// Ensure CatalogService implements CatalogServiceInterface
var _ CatalogServiceInterface = (*CatalogService)(nil)

// BuildListing assembles the grouped, image-resolved listing for one product
// table. Image resolution fans out across groups with a bounded worker
// count; a group whose images cannot be resolved still appears, just
// without imagery.
func (s *CatalogService) BuildListing(ctx context.Context, table string) (*models.ListingResponse, error) {
	if !s.cfg.ValidTable(table) {
		return nil, fmt.Errorf("unknown product table: %s", table)
	}

	rows, err := s.productRepo.FetchAllRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows for %s: %w", table, err)
	}

	rules := s.cfg.RulesFor(table)
	groups := variation.Group(rows, rules.Matchers)
	log.Printf("📦 %s: %d rows grouped into %d products", table, len(rows), len(groups))

	listing := make([]models.ListingGroup, len(groups))
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.MaxConcurrentResolutions)
	for i, group := range groups {
		eg.Go(func() error {
			entry := s.buildListingGroup(egCtx, group, rules)
			mu.Lock()
			listing[i] = entry
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	variation.OrderForDisplay(listing,
		func(g models.ListingGroup) string { return g.BaseName },
		func(g models.ListingGroup) bool { return len(g.Images) > 0 },
	)

	return &models.ListingResponse{
		Table:  table,
		Groups: listing,
		Total:  len(listing),
	}, nil
}

// buildListingGroup resolves one product group's imagery and card image.
// The preferred representative (when configured) is tried first; otherwise
// members are tried in their display order until one yields images.
func (s *CatalogService) buildListingGroup(ctx context.Context, group models.ProductGroup, rules config.TableRules) models.ListingGroup {
	entry := models.ListingGroup{
		BaseName:    group.BaseName,
		Token:       utils.EncodeNameToken(group.BaseName),
		HasVariants: group.HasVariants,
		Members:     group.Members,
	}

	members := group.Members
	if preferred, ok := rules.Preferred[group.BaseName]; ok {
		members = preferFirst(members, preferred)
	}

	// Name-keyed tables can answer for the whole group in one query
	if imgs, ok := s.resolver.ResolveFirstNameKeyed(ctx, members); ok {
		entry.Images = imgs
	} else {
		for _, member := range members {
			if imgs := s.resolver.ResolveImages(ctx, member); len(imgs) > 0 {
				entry.Images = imgs
				break
			}
		}
	}

	// Tables with configured card imagery get it when no member has photos
	if len(entry.Images) == 0 && rules.Override != nil && rules.Override.CardKey != "" && len(members) > 0 {
		if imgs := s.resolver.ResolveByKey(ctx, members[0].SourceTable, rules.Override.CardKey); len(imgs) > 0 {
			entry.Images = imgs
		}
	}

	entry.CardImage = s.cardImage(entry, rules)
	return entry
}

// preferFirst reorders members so the named row is tried first
func preferFirst(members []models.CatalogRow, preferred string) []models.CatalogRow {
	for i, member := range members {
		if member.RawName != preferred {
			continue
		}
		reordered := make([]models.CatalogRow, 0, len(members))
		reordered = append(reordered, members[i])
		reordered = append(reordered, members[:i]...)
		reordered = append(reordered, members[i+1:]...)
		return reordered
	}
	return members
}

// cardImage picks the thumbnail shown on the listing card: the resolved
// primary image, then the table's configured fallback, then whatever URL
// the row itself carries
func (s *CatalogService) cardImage(entry models.ListingGroup, rules config.TableRules) string {
	if len(entry.Images) > 0 {
		return entry.Images[0].URL
	}
	if rules.Override != nil && rules.Override.FallbackURL != "" {
		return rules.Override.FallbackURL
	}
	for _, member := range entry.Members {
		if member.HasEmbeddedImage() {
			return member.ImageURL
		}
	}
	return ""
}

// GetProductDetail resolves a single product by its listing token. The
// token decodes to a group base name or a raw row name; the row whose name
// or group base matches is returned with its variant and imagery.
func (s *CatalogService) GetProductDetail(ctx context.Context, table, token string) (*models.ProductDetail, error) {
	if !s.cfg.ValidTable(table) {
		return nil, fmt.Errorf("unknown product table: %s", table)
	}

	name := utils.DecodeNameToken(token)
	target := variation.Normalize(name)

	rows, err := s.productRepo.FetchAllRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rows for %s: %w", table, err)
	}

	rules := s.cfg.RulesFor(table)
	extractor := variation.NewExtractor(rules.Matchers)

	var match *models.CatalogRow
	var variant models.VariantDescriptor
	for i, row := range rows {
		desc := extractor.Extract(row.RawName)
		if variation.Normalize(row.RawName) == target || variation.Normalize(desc.BaseName) == target {
			match = &rows[i]
			variant = desc
			break
		}
	}
	if match == nil {
		return nil, fmt.Errorf("product not found: %s", name)
	}

	return &models.ProductDetail{
		Row:     *match,
		Variant: variant,
		Images:  s.resolver.ResolveImages(ctx, *match),
	}, nil
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// fetchImageAsBase64 fetches an image and converts it to a base64 payload
func (s *CatalogService) fetchImageAsBase64(imageURL string) (string, error) {
	var fullURL string
	if imageURL[0] == '/' {
		fullURL = s.baseURL + imageURL
	} else {
		fullURL = imageURL
	}

	resp, err := http.Get(fullURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	return base64.StdEncoding.EncodeToString(imageData), nil
}

// catalogCard is one rendered cell of the printable catalog
type catalogCard struct {
	Name        string
	Code        string
	Variants    int
	ImageURL    string
	ImageBase64 string
}

// paginateCards splits cards into pages of 9 cards each
func paginateCards(cards []catalogCard) [][]catalogCard {
	const cardsPerPage = 9
	var pages [][]catalogCard

	for i := 0; i < len(cards); i += cardsPerPage {
		end := i + cardsPerPage
		if end > len(cards) {
			end = len(cards)
		}
		pages = append(pages, cards[i:end])
	}

	return pages
}

// RenderCatalogHTML renders the printable catalog page for one table.
// useBase64 inlines images for direct browser viewing; the PDF path keeps
// URLs so Chrome fetches them itself.
func (s *CatalogService) RenderCatalogHTML(ctx context.Context, table string, useBase64 bool) (string, error) {
	listing, err := s.BuildListing(ctx, table)
	if err != nil {
		return "", err
	}

	cards := make([]catalogCard, 0, len(listing.Groups))
	for _, group := range listing.Groups {
		card := catalogCard{
			Name:     group.BaseName,
			ImageURL: group.CardImage,
		}
		if len(group.Members) > 0 {
			card.Code = group.Members[0].Code
		}
		if group.HasVariants {
			card.Variants = len(group.Members)
		}
		if useBase64 && card.ImageURL != "" {
			b64, err := s.fetchImageAsBase64(card.ImageURL)
			if err != nil {
				log.Printf("⚠️  Warning: Failed to fetch image for %s: %v", card.Name, err)
			} else {
				card.ImageBase64 = b64
			}
		}
		cards = append(cards, card)
	}

	logoURL := ""
	extensions := []string{".png", ".jpg", ".jpeg"}
	for _, ext := range extensions {
		if _, err := os.Stat(filepath.Join("static", "catalog", "logo"+ext)); err == nil {
			logoURL = fmt.Sprintf("%s/static/catalog/logo%s", s.baseURL, ext)
			break
		}
	}

	templateData := struct {
		Table   string
		Pages   [][]catalogCard
		LogoURL string
	}{
		Table:   table,
		Pages:   paginateCards(cards),
		LogoURL: logoURL,
	}

	templatePath := filepath.Join("templates", "catalog.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// GeneratePDF generates a PDF of the printable catalog using chromedp.
// table parameter is used to construct the render URL.
func (s *CatalogService) GeneratePDF(ctx context.Context, table string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	chromePath := detectChromePath()
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/admin/catalog/render?table=%s", s.baseURL, table)

	var pdfBuf []byte

	// 210mm = 794px at 96 DPI
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 5000),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.Sleep(2000),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			(function() {
				return Promise.all([
					document.fonts.ready,
					Promise.all(Array.from(document.querySelectorAll('img')).map(img => {
						return new Promise((resolve) => {
							if (img.complete && img.naturalWidth > 0 && img.naturalHeight > 0) {
								resolve();
								return;
							}
							const timeout = setTimeout(() => resolve(), 5000);
							img.onload = () => { clearTimeout(timeout); resolve(); };
							img.onerror = () => { clearTimeout(timeout); resolve(); };
						});
					}))
				]);
			})();
		`, nil),
		chromedp.Sleep(1000),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 portrait; page breaks come from the CSS page-break-after
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}
