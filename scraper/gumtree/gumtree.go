package gumtree

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"bikewatch/config"
	"bikewatch/models"
	"bikewatch/scraper"
	"bikewatch/services"
	"bikewatch/utils"
)

const searchBase = "https://www.gumtree.com/search"

// Gumtree listing links live under /p/ paths; titles ride on the anchor's
// aria-label with the anchor text as fallback.
const extractJS = `
	(function() {
		var results = [];
		var seen = {};
		var anchors = document.querySelectorAll('a[href^="/p/"]');
		for (var i = 0; i < anchors.length; i++) {
			var a = anchors[i];
			var href = a.getAttribute('href');
			if (!href || seen[href]) continue;
			seen[href] = true;
			var title = (a.getAttribute('aria-label') || '').trim();
			if (!title) title = a.textContent.trim();
			results.push({ title: title, link: 'https://www.gumtree.com' + href });
		}
		return results;
	})()
`

// Scraper fetches the Gumtree bicycles search page and extracts listings.
// The search is already area-scoped server-side, so the feed carries no
// per-listing location.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	pacer   *utils.Pacer
	visited *utils.URLSet
	retry   *utils.RetryConfig
}

// New creates a ready-to-use Gumtree Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		pacer:   utils.NewPacer(time.Duration(cfg.RateLimitMs) * time.Millisecond),
		visited: utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Fetch loads the search results page and returns the extracted listings.
func (s *Scraper) Fetch() ([]*models.Listing, error) {
	allocCtx, cancel := scraper.NewAllocator(context.Background(), s.cfg.ChromeBin)
	defer cancel()

	pageURL := s.searchURL()
	s.logger.Info("[gumtree] Fetching Gumtree results...")

	type card struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	}
	var cards []card

	err := s.retry.Do("gumtree-search", func() error {
		s.pacer.Wait()

		ctx, cancelCtx := chromedp.NewContext(allocCtx)
		defer cancelCtx()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(3*time.Second),
			chromedp.Evaluate(extractJS, &cards),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("gumtree: search page: %w", err)
	}

	s.logger.Info("[gumtree] Parsed %d real Gumtree listings", len(cards))

	listings := make([]*models.Listing, 0, len(cards))
	for _, c := range cards {
		link := strings.TrimSpace(c.Link)
		if link != "" && !s.visited.Add(link) {
			continue
		}

		listings = append(listings, &models.Listing{
			Title:     strings.TrimSpace(c.Title),
			Identity:  link,
			Location:  "Unknown",
			Source:    models.SourceGumtree,
			ScrapedAt: time.Now(),
		})
	}
	return listings, nil
}

// searchURL scopes the bicycles category search to the target area in
// restricted mode and to the whole UK otherwise.
func (s *Scraper) searchURL() string {
	area := "united-kingdom"
	if services.LocationMode(s.cfg.LocationMode) == services.ModeRestricted {
		area = s.cfg.TargetArea
	}

	params := url.Values{}
	params.Set("search_category", "bicycles")
	params.Set("search_location", area)
	params.Set("q", strings.Join(s.cfg.SearchKeywords, " "))
	return searchBase + "?" + params.Encode()
}
