package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/sitelens/models"
)

// Selectors for the structural markers the extractor recognises.
const (
	categorySelector = `.category, [data-type="category"]`
	productSelector  = `.product, [data-type="product"]`
)

// BuildSnapshot walks the rendered HTML and assembles a SiteSnapshot.
//
// It is a pure function of its inputs: every selection runs in document
// order, missing elements degrade to empty fields, and a page with none of
// the markers still yields a valid (mostly empty) snapshot. It never fails —
// unparseable HTML produces an empty snapshot with just the title set.
func BuildSnapshot(rawHTML, title string) *models.SiteSnapshot {
	snap := &models.SiteSnapshot{
		Title:      CleanText(title),
		Categories: []models.Category{},
		Navigation: []models.NavLink{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return snap
	}

	// ── Categories and their products ───────────────────────────────
	doc.Find(categorySelector).Each(func(_ int, cs *goquery.Selection) {
		cat := models.Category{
			// First heading in document order names the category.
			Name:        CleanText(cs.Find("h2, h3").First().Text()),
			Description: CleanText(cs.Find(".description").First().Text()),
			Products:    []models.Product{},
		}

		cs.Find(productSelector).Each(func(_ int, ps *goquery.Selection) {
			name := CleanText(ps.Find(".product-name").First().Text())
			if name == "" {
				name = CleanText(ps.Find("h3").First().Text())
			}

			href, _ := ps.Find("a").First().Attr("href")

			cat.Products = append(cat.Products, models.Product{
				Name:        name,
				Category:    cat.Name,
				Price:       CleanText(ps.Find(".price").First().Text()),
				Description: CleanText(ps.Find(".description").First().Text()),
				Rating:      CleanText(ps.Find(".rating").First().Text()),
				URL:         href,
			})
		})

		snap.Categories = append(snap.Categories, cat)
	})

	// ── Navigation ──────────────────────────────────────────────────
	doc.Find("nav a").Each(func(_ int, as *goquery.Selection) {
		link := models.NavLink{Text: CleanText(as.Text())}
		if href, ok := as.Attr("href"); ok {
			link.URL = &href
		}
		snap.Navigation = append(snap.Navigation, link)
	})

	// ── Main content ────────────────────────────────────────────────
	snap.MainContent = CleanText(doc.Find("main").First().Text())

	return snap
}
