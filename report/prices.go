package report

import (
	"strconv"
	"strings"

	"github.com/use-agent/sitelens/models"
)

// PriceSample is one product whose price field parsed to a number.
// Samples are ephemeral: built for a single Format call and discarded.
type PriceSample struct {
	Name  string
	Price float64
}

// parsePrice strips every character that is not a digit or '.' from raw and
// parses the remainder as a float. Prices that strip to nothing or fail to
// parse ("Contact us", "$..") report ok=false and take no part in the
// extremes comparison — a malformed price must never win Most Affordable.
func parsePrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// priceSamples collects the parseable prices across all categories, in
// document order.
func priceSamples(snap *models.SiteSnapshot) []PriceSample {
	var samples []PriceSample
	for _, cat := range snap.Categories {
		for _, p := range cat.Products {
			if p.Price == "" {
				continue
			}
			if v, ok := parsePrice(p.Price); ok {
				samples = append(samples, PriceSample{Name: p.Name, Price: v})
			}
		}
	}
	return samples
}

// extremes returns the cheapest and most expensive samples. Ties go to the
// leftmost sample (strict comparisons keep the reduce stable).
func extremes(samples []PriceSample) (cheapest, premium PriceSample, ok bool) {
	if len(samples) == 0 {
		return PriceSample{}, PriceSample{}, false
	}
	cheapest, premium = samples[0], samples[0]
	for _, s := range samples[1:] {
		if s.Price < cheapest.Price {
			cheapest = s
		}
		if s.Price > premium.Price {
			premium = s
		}
	}
	return cheapest, premium, true
}

// formatPrice renders a parsed price without trailing zeros ("10", "25.5").
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
