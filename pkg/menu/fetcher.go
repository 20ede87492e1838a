// Package menu retrieves and parses per-hall menu pages from the upstream
// dining site and matches tracked food names against cached menus.
package menu

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/scrounge/pkg/domain"
)

// FetchError is a failed menu retrieval: transport error, bad status or
// unparseable markup. It carries the hall so callers can report which
// hall's refresh failed. An empty menu is not a FetchError.
type FetchError struct {
	Hall string
	Err  error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch menu for %s: %v", e.Hall, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves one hall's menu page over HTTP and parses it.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	strict    *bluemonday.Policy
}

// NewFetcher creates a fetcher for the given upstream base URL, e.g.
// "https://dining.umich.edu/menus-locations/dining-halls".
func NewFetcher(baseURL string, timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		strict:    bluemonday.StrictPolicy(),
	}
}

// Fetch retrieves and parses the menu for a hall. An empty date means the
// source's current day; otherwise it must be YYYY-MM-DD and is passed
// through as the menuDate query parameter. The cache is never touched here.
func (f *Fetcher) Fetch(ctx context.Context, hall, date string) (*domain.Menu, error) {
	pageURL := f.baseURL + "/" + hall + "/"
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, &FetchError{Hall: hall, Err: fmt.Errorf("bad date %q: %w", date, err)}
		}
		pageURL += "?menuDate=" + url.QueryEscape(date)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, &FetchError{Hall: hall, Err: fmt.Errorf("create request: %w", err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Hall: hall, Err: fmt.Errorf("get %s: %w", pageURL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Hall: hall, Err: fmt.Errorf("get %s: unexpected status %s", pageURL, resp.Status)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &FetchError{Hall: hall, Err: fmt.Errorf("parse page: %w", err)}
	}

	return f.parse(doc, hall), nil
}

// parse walks the menu container: each h3 is a meal, the following div holds
// a list of station blocks (h4 name + nested item list), each item contributes
// one name from its item-name element. Stations without an h4 and items
// without an item-name element are skipped, upstream markup is often ragged.
func (f *Fetcher) parse(doc *goquery.Document, hall string) *domain.Menu {
	menu := &domain.Menu{Hall: hall}

	doc.Find("#mdining-items h3").Each(func(_ int, mealSel *goquery.Selection) {
		meal := domain.Meal{Name: f.text(mealSel)}

		mealSel.NextAllFiltered("div").First().Find("ul").First().ChildrenFiltered("li").
			Each(func(_ int, stationSel *goquery.Selection) {
				nameTag := stationSel.Find("h4").First()
				if nameTag.Length() == 0 {
					return
				}
				station := domain.Station{Name: f.text(nameTag)}

				stationSel.Find("ul").First().Find("li").Each(func(_ int, itemSel *goquery.Selection) {
					itemName := itemSel.Find("div.item-name").First()
					if itemName.Length() == 0 {
						return
					}
					if name := f.text(itemName); name != "" {
						station.Items = append(station.Items, name)
					}
				})
				meal.Stations = append(meal.Stations, station)
			})

		menu.Meals = append(menu.Meals, meal)
	})

	return menu
}

// text extracts the plain text of a node with any stray inline markup
// stripped via bluemonday.
func (f *Fetcher) text(sel *goquery.Selection) string {
	raw, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(html.UnescapeString(f.strict.Sanitize(raw)))
}
