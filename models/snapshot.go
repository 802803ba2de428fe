package models

// Product is one product entry extracted from a category marker.
// All fields except Name and Category may be empty; Category always equals
// the Name of the category the product was found under (a value copy, not a
// reference).
type Product struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price,omitempty"`
	Description string `json:"description,omitempty"`
	Rating      string `json:"rating,omitempty"`
	URL         string `json:"url"`
}

// Category groups the products found under one category marker.
// Names need not be unique on a page; duplicates stay separate entries.
type Category struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Products    []Product `json:"products"`
}

// NavLink is one anchor collected from a nav element. URL is the raw href
// attribute and is nil when the anchor has none.
type NavLink struct {
	Text string  `json:"text"`
	URL  *string `json:"url"`
}

// SiteSnapshot is the structured view of a single rendered page.
// It is built once per analysis call, never mutated afterwards, and never
// shared across requests. Slice order follows DOM document order.
type SiteSnapshot struct {
	Title       string     `json:"title"`
	Categories  []Category `json:"categories"`
	Navigation  []NavLink  `json:"navigation"`
	MainContent string     `json:"main_content"`
}

// ImageResult is one image OCR transcript. Images whose OCR failed or came
// back empty are not represented here at all.
type ImageResult struct {
	ImageURL string `json:"image_url"`
	Text     string `json:"text"`
}
