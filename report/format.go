// Package report renders a SiteSnapshot into the plain-text summary returned
// to callers. Formatting is deterministic: the same snapshot always produces
// byte-identical output.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/use-agent/sitelens/models"
)

// Options controls which parts of the report are rendered.
type Options struct {
	// IncludeProducts controls per-product blocks and the price analysis.
	// Category names and descriptions are always listed.
	IncludeProducts bool
}

// Format renders the multi-section text report. Sections appear in a fixed
// order, separated by one blank line:
//
//	Website: <title>
//	Navigation Structure:  (one "- <text>" line per entry)
//	Product Categories:    (omitted entirely when there are none)
//	Price Analysis:        (omitted unless at least one price parses)
//
// Format is total: any snapshot, however empty, renders without error.
func Format(snap *models.SiteSnapshot, opts Options) string {
	if snap == nil {
		snap = &models.SiteSnapshot{}
	}

	sections := []string{"Website: " + snap.Title}

	// ── Navigation ──────────────────────────────────────────────────
	var nav strings.Builder
	nav.WriteString("Navigation Structure:")
	for _, n := range snap.Navigation {
		nav.WriteString("\n- ")
		nav.WriteString(n.Text)
	}
	sections = append(sections, nav.String())

	// ── Categories ──────────────────────────────────────────────────
	if len(snap.Categories) > 0 {
		blocks := make([]string, 0, len(snap.Categories)+1)
		blocks = append(blocks, "Product Categories:")
		for _, cat := range snap.Categories {
			blocks = append(blocks, formatCategory(cat, opts))
		}
		sections = append(sections, strings.Join(blocks, "\n\n"))
	}

	// ── Price analysis ──────────────────────────────────────────────
	if opts.IncludeProducts {
		if cheapest, premium, ok := extremes(priceSamples(snap)); ok {
			sections = append(sections, fmt.Sprintf(
				"Price Analysis:\nMost Affordable: %s at %s\nPremium Option: %s at %s",
				cheapest.Name, formatPrice(cheapest.Price),
				premium.Name, formatPrice(premium.Price),
			))
		}
	}

	return strings.Join(sections, "\n\n")
}

// formatCategory renders one category block: name, underline, optional
// description, optional product list.
func formatCategory(cat models.Category, opts Options) string {
	var b strings.Builder
	b.WriteString(cat.Name)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(cat.Name)))

	if cat.Description != "" {
		b.WriteString("\nDescription: ")
		b.WriteString(cat.Description)
	}

	if opts.IncludeProducts && len(cat.Products) > 0 {
		b.WriteString("\nProducts:")
		for _, p := range cat.Products {
			b.WriteString("\n• ")
			b.WriteString(p.Name)
			if p.Price != "" {
				b.WriteString("\n  Price: ")
				b.WriteString(p.Price)
			}
			if p.Description != "" {
				b.WriteString("\n  Description: ")
				b.WriteString(p.Description)
			}
			if p.Rating != "" {
				b.WriteString("\n  Rating: ")
				b.WriteString(p.Rating)
			}
		}
	}

	return b.String()
}
