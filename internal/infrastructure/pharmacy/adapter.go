package pharmacy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/medifarma/backend/internal/domain"
)

// maxRecordsPerSite caps how many listings one site may contribute to a
// single query. Search result pages occasionally dump whole catalogs.
const maxRecordsPerSite = 40

// SiteAdapter scrapes one pharmacy site's search results page into canonical
// records. It implements domain.SourceAdapter.
type SiteAdapter struct {
	site   Site
	client *Client
}

// NewSiteAdapter builds an adapter for one site sharing the given client.
func NewSiteAdapter(site Site, client *Client) *SiteAdapter {
	return &SiteAdapter{site: site, client: client}
}

func (a *SiteAdapter) Name() string          { return a.site.Name }
func (a *SiteAdapter) Origin() domain.Origin { return domain.OriginWeb }

// Fetch runs the site search and extracts priced listings. All failures are
// returned as this adapter's error, classified into the timeout / network /
// parse taxonomy; the orchestrator records them without failing the query.
func (a *SiteAdapter) Fetch(ctx context.Context, q domain.SearchQuery) ([]domain.CanonicalRecord, time.Time, error) {
	term := strings.TrimSpace(q.Term)
	searchURL := a.site.SearchFor(term)

	body, err := a.client.Get(ctx, searchURL)
	if err != nil {
		return nil, time.Time{}, classifyFetchErr(err)
	}

	records, err := a.parse(body, searchURL, term)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %s: %v", domain.ErrAdapterParse, a.site.Name, err)
	}

	log.Printf("[pharmacy] %s: %d records for %q", a.site.Name, len(records), term)
	return records, time.Now(), nil
}

func classifyFetchErr(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrAdapterTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", domain.ErrAdapterTimeout, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrAdapterNetwork, err)
	}
}

// parse walks the product containers and pulls out (name, price, link)
// triples. An empty result page is valid; only an unreadable document is a
// parse error.
func (a *SiteAdapter) parse(body []byte, searchURL, term string) ([]domain.CanonicalRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var records []domain.CanonicalRecord
	seen := make(map[string]bool)

	add := func(name, price, link string) {
		if price == "" {
			return
		}
		if name == "" {
			name = strings.ToUpper(term)
		}
		if link == "" {
			link = searchURL
		}
		key := name + "|" + price + "|" + link
		if seen[key] || len(records) >= maxRecordsPerSite {
			return
		}
		seen[key] = true
		records = append(records, domain.CanonicalRecord{
			Product: strings.ToUpper(strings.TrimSpace(name)),
			Price:   price,
			Source:  a.site.Name,
			Link:    link,
			Origin:  domain.OriginWeb,
		})
	}

	for _, sel := range a.site.ProductSelectors {
		doc.Find(sel).Each(func(_ int, container *goquery.Selection) {
			name, price, link := a.extract(container)
			add(name, price, link)
		})
		if len(records) > 0 {
			break
		}
	}

	if len(records) == 0 && a.site.FallbackToText {
		if price := NormalizePrice(doc.Text()); price != "" {
			add("", price, "")
		}
	}

	return records, nil
}

// extract pulls the first usable name, price and link out of one product
// container. Fields the page does not expose stay blank.
func (a *SiteAdapter) extract(container *goquery.Selection) (name, price, link string) {
	for _, sel := range a.site.PriceSelectors {
		node := container.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if p := NormalizePrice(node.Text()); p != "" {
			price = p
			break
		}
		if attr, ok := node.Attr("data-price"); ok {
			if p := NormalizePrice(attr); p != "" {
				price = p
				break
			}
		}
	}
	if price == "" {
		return "", "", ""
	}

	for _, sel := range a.site.NameSelectors {
		node := container.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		text := cleanText(node.Text())
		if text == "" {
			text = cleanText(node.AttrOr("title", ""))
		}
		if len(text) >= 3 {
			name = text
			break
		}
	}

	if href, ok := container.Find("a[href]").First().Attr("href"); ok {
		link = a.absoluteURL(href)
	}
	return name, price, link
}

func (a *SiteAdapter) absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "" || strings.HasPrefix(href, "javascript:"):
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	default:
		return strings.TrimRight(a.site.BaseURL, "/") + "/" + strings.TrimLeft(href, "/")
	}
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// Adapters builds a SiteAdapter per known site, in registry order.
func Adapters(client *Client) []domain.SourceAdapter {
	out := make([]domain.SourceAdapter, 0, len(KnownSites))
	for _, site := range KnownSites {
		out = append(out, NewSiteAdapter(site, client))
	}
	return out
}
