package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopHTML = `<html><head><title>Shop</title></head><body>
<nav>
  <a href="/">Home</a>
  <a href="/sale">  Sale
     Items </a>
  <a>No Link</a>
</nav>
<main>  Welcome to
  the shop. </main>
<div class="category">
  <h2> Phone   Cases </h2>
  <p class="description">Protective cases.</p>
  <div class="product">
    <span class="product-name">Clear Case</span>
    <span class="price">$10</span>
    <span class="description">Slim fit.</span>
    <span class="rating">4.5</span>
    <a href="/p/clear">view</a>
  </div>
  <div data-type="product">
    <h3>Rugged Case</h3>
    <span class="price">$25</span>
  </div>
</div>
<section data-type="category">
  <h3>Chargers</h3>
</section>
</body></html>`

func TestBuildSnapshot(t *testing.T) {
	snap := BuildSnapshot(shopHTML, "Shop")

	assert.Equal(t, "Shop", snap.Title)
	assert.Equal(t, "Welcome to the shop.", snap.MainContent)

	// Navigation in document order, raw hrefs, nil when absent.
	require.Len(t, snap.Navigation, 3)
	assert.Equal(t, "Home", snap.Navigation[0].Text)
	require.NotNil(t, snap.Navigation[0].URL)
	assert.Equal(t, "/", *snap.Navigation[0].URL)
	assert.Equal(t, "Sale Items", snap.Navigation[1].Text)
	assert.Nil(t, snap.Navigation[2].URL)

	// Categories by class and by data-type, in document order.
	require.Len(t, snap.Categories, 2)
	cases := snap.Categories[0]
	assert.Equal(t, "Phone Cases", cases.Name)
	assert.Equal(t, "Protective cases.", cases.Description)

	require.Len(t, cases.Products, 2)
	clearCase := cases.Products[0]
	assert.Equal(t, "Clear Case", clearCase.Name)
	assert.Equal(t, "$10", clearCase.Price)
	assert.Equal(t, "Slim fit.", clearCase.Description)
	assert.Equal(t, "4.5", clearCase.Rating)
	assert.Equal(t, "/p/clear", clearCase.URL)

	// h3 fallback for the name, empty fields stay empty.
	rugged := cases.Products[1]
	assert.Equal(t, "Rugged Case", rugged.Name)
	assert.Equal(t, "$25", rugged.Price)
	assert.Empty(t, rugged.Description)
	assert.Empty(t, rugged.URL)

	chargers := snap.Categories[1]
	assert.Equal(t, "Chargers", chargers.Name)
	assert.Empty(t, chargers.Description)
	assert.Empty(t, chargers.Products)
}

func TestBuildSnapshot_CategoryInvariant(t *testing.T) {
	snap := BuildSnapshot(shopHTML, "Shop")

	names := make(map[string]struct{})
	for _, cat := range snap.Categories {
		names[cat.Name] = struct{}{}
	}
	for _, cat := range snap.Categories {
		for _, p := range cat.Products {
			assert.Contains(t, names, p.Category,
				"product %q references category %q not present in snapshot", p.Name, p.Category)
			assert.Equal(t, cat.Name, p.Category)
		}
	}
}

func TestBuildSnapshot_EmptyPage(t *testing.T) {
	snap := BuildSnapshot("<html><body><p>nothing here</p></body></html>", "")

	assert.Empty(t, snap.Title)
	assert.Empty(t, snap.Categories)
	assert.Empty(t, snap.Navigation)
	assert.Empty(t, snap.MainContent)
}

func TestBuildSnapshot_DuplicateCategoryNames(t *testing.T) {
	html := `<div class="category"><h2>Deals</h2></div>
<div class="category"><h2>Deals</h2></div>`
	snap := BuildSnapshot(html, "x")

	require.Len(t, snap.Categories, 2)
	assert.Equal(t, snap.Categories[0].Name, snap.Categories[1].Name)
}
