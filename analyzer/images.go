package analyzer

import (
	nurl "net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/sitelens/models"
	"golang.org/x/net/html"
)

// ImageURLs collects the srcs of img elements in document order, the way the
// live DOM would report them (relative srcs resolved against sourceURL).
//
// selector, when non-empty, restricts collection to matching img elements; a
// selector that fails to parse is an INVALID_INPUT error, a selector that
// matches nothing yields an empty slice. URLs that do not end up with an
// http(s) scheme (data:, javascript:, unresolvable) are dropped. Every match
// is collected, so an image shown twice on the page is reported twice.
func ImageURLs(rawHTML, sourceURL, selector string) ([]string, error) {
	if selector == "" {
		selector = "img"
	}
	// ParseGroup so selector lists ("img.hero, img.banner") work.
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, models.NewAnalyzeError(
			models.ErrCodeInvalidInput,
			"invalid image selector",
			err,
		)
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, models.NewAnalyzeError(
			models.ErrCodeContent,
			"failed to parse page HTML",
			err,
		)
	}

	base, err := nurl.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	urls := []string{}

	for _, node := range cascadia.QueryAll(doc, sel) {
		if node.Data != "img" {
			continue
		}
		src := attrVal(node, "src")
		if src == "" {
			continue
		}

		abs := src
		if base != nil {
			if resolved, resolveErr := base.Parse(src); resolveErr == nil {
				abs = resolved.String()
			}
		}
		if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
			continue
		}

		urls = append(urls, abs)
	}

	return urls, nil
}

// attrVal returns the value of the named attribute, or "".
func attrVal(node *html.Node, name string) string {
	for _, a := range node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
