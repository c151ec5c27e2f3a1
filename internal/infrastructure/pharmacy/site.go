package pharmacy

import (
	"net/url"
	"strings"
)

// Site describes one scrapeable pharmacy: where to search and which CSS
// selectors locate product containers and price nodes on its results page.
// Selector lists are ordered most-specific first; extraction stops at the
// first selector that yields usable nodes.
type Site struct {
	Name             string
	BaseURL          string
	SearchURL        string // template with a {query} placeholder
	ProductSelectors []string
	PriceSelectors   []string
	NameSelectors    []string

	// FallbackToText enables the plain-text price sweep when every
	// selector comes up empty (some sites render prices outside any
	// recognizable container).
	FallbackToText bool
}

// SearchFor expands the search URL template for a term.
func (s Site) SearchFor(term string) string {
	return strings.ReplaceAll(s.SearchURL, "{query}", url.QueryEscape(term))
}

// Shared selector sets. The sites cluster by storefront platform
// (WooCommerce, Magento, VTEX), so most selectors repeat.
var (
	genericPriceSelectors = []string{
		".price", ".precio", "[class*='price']", "[class*='precio']",
		".product-price", ".price-value", "span.price", ".amount",
		"[data-price]", "[itemprop='price']",
	}
	genericProductSelectors = []string{
		".product", ".product-item", ".product-card", "[class*='product']",
		".search-result", ".product-wrapper", "[class*='search-result']",
		"article.product", "li.product",
	}
	wooPriceSelectors = append([]string{
		".woocommerce-Price-amount", "span.woocommerce-Price-amount",
	}, genericPriceSelectors...)
	wooProductSelectors = append([]string{
		".woocommerce ul.products li.product", "li.product",
	}, genericProductSelectors...)
	magentoPriceSelectors = append([]string{
		"span.price", "[data-price-type]", ".price-box .price",
	}, genericPriceSelectors...)
	magentoProductSelectors = append([]string{
		".products-grid .product-item", "li.product-item",
	}, genericProductSelectors...)
	vtexPriceSelectors = append([]string{
		".vtex-store-components-3-x-sellingPrice",
		".vtex-product-price-1-x-sellingPrice", "[class*='vtex-price']",
	}, genericPriceSelectors...)
	vtexProductSelectors = append([]string{
		".vtex-product-summary-2-x-container",
		".vtex-search-result-3-x-galleryItem", "[class*='product-summary']",
	}, genericProductSelectors...)
	genericNameSelectors = []string{
		".product-name", ".product-title", "[class*='product-name']",
		"[class*='product-title']", "h2 a", "h3 a", "h2", "h3", "a[title]",
	}
)

// KnownSites is the curated pharmacy registry. Order is significant: the
// orchestrator contributes results in this order, which fixes dedup
// keep-first and sort tie-break behavior across runs.
var KnownSites = []Site{
	{
		Name:             "Mifarma",
		BaseURL:          "https://www.mifarma.com.pe",
		SearchURL:        "https://www.mifarma.com.pe/buscador?q={query}",
		ProductSelectors: genericProductSelectors,
		PriceSelectors:   genericPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
	{
		Name:             "Inkafarma",
		BaseURL:          "https://inkafarma.pe",
		SearchURL:        "https://inkafarma.pe/buscador?keyword={query}",
		ProductSelectors: genericProductSelectors,
		PriceSelectors:   genericPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
	{
		Name:             "Boticas y Salud",
		BaseURL:          "https://www.boticasysalud.com",
		SearchURL:        "https://www.boticasysalud.com/tienda/busqueda?q={query}",
		ProductSelectors: genericProductSelectors,
		PriceSelectors:   genericPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
	{
		Name:             "Boticas Perú",
		BaseURL:          "https://boticasperu.pe",
		SearchURL:        "https://boticasperu.pe/catalogsearch/result/?q={query}",
		ProductSelectors: magentoProductSelectors,
		PriceSelectors:   magentoPriceSelectors,
		NameSelectors:    genericNameSelectors,
	},
	{
		Name:             "Hogar y Salud",
		BaseURL:          "https://www.hogarysalud.com.pe",
		SearchURL:        "https://www.hogarysalud.com.pe/?s={query}&post_type=product",
		ProductSelectors: wooProductSelectors,
		PriceSelectors:   wooPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
	{
		Name:             "Farmacia Universal",
		BaseURL:          "https://www.farmaciauniversal.com",
		SearchURL:        "https://www.farmaciauniversal.com/{query}?_q={query}&map=ft",
		ProductSelectors: vtexProductSelectors,
		PriceSelectors:   vtexPriceSelectors,
		NameSelectors:    genericNameSelectors,
	},
	{
		Name:             "Farmauna",
		BaseURL:          "https://www.farmauna.com",
		SearchURL:        "https://www.farmauna.com/search?q={query}",
		ProductSelectors: genericProductSelectors,
		PriceSelectors:   genericPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
	{
		Name:             "Farmacias Lider",
		BaseURL:          "https://www.farmaciaslider.pe",
		SearchURL:        "https://www.farmaciaslider.pe/category_product_search?product_name={query}",
		ProductSelectors: genericProductSelectors,
		PriceSelectors:   genericPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
	{
		Name:             "Farmacenter",
		BaseURL:          "https://farmacenter.com.pe",
		SearchURL:        "https://farmacenter.com.pe/?s={query}&post_type=product",
		ProductSelectors: wooProductSelectors,
		PriceSelectors:   wooPriceSelectors,
		NameSelectors:    genericNameSelectors,
		FallbackToText:   true,
	},
}
