package ebay

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
	"bikewatch/utils"
)

const searchBase = "https://www.ebay.co.uk/sch/i.html"

// TitleTrimLen is the length of the "New Listing" boilerplate prefix eBay
// prepends to fresh listings. Emitted titles drop it; matching never does.
const TitleTrimLen = len("New Listing")

const extractJS = `
	(function() {
		var results = [];
		var items = document.querySelectorAll('.s-item');
		for (var i = 0; i < items.length; i++) {
			var link = items[i].querySelector('a.s-item__link');
			var title = items[i].querySelector('.s-item__title');
			var loc = items[i].querySelector('.s-item__location');
			results.push({
				title: title ? title.textContent.trim() : '',
				link: link ? link.href : '',
				location: loc ? loc.textContent.trim() : ''
			});
		}
		return results;
	})()
`

// Scraper fetches the eBay UK search results page and extracts listings.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	pacer   *utils.Pacer
	visited *utils.URLSet
	retry   *utils.RetryConfig
}

// New creates a ready-to-use eBay Scraper.
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
	s.logger.Info("[ebay] Fetching eBay results...")

	type card struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Location string `json:"location"`
	}
	var cards []card

	err := s.retry.Do("ebay-search", func() error {
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
		return nil, fmt.Errorf("ebay: search page: %w", err)
	}

	s.logger.Info("[ebay] Found %d eBay listings", len(cards))

	listings := make([]*models.Listing, 0, len(cards))
	for _, c := range cards {
		identity := NormalizeURL(strings.TrimSpace(c.Link))
		if identity != "" && !s.visited.Add(identity) {
			s.logger.Debug("[ebay] Skipping duplicate card: %s", identity)
			continue
		}

		location := strings.TrimSpace(c.Location)
		if location == "" {
			location = "Unknown"
		}

		listings = append(listings, &models.Listing{
			Title:     strings.TrimSpace(c.Title),
			Identity:  identity,
			Location:  location,
			Source:    models.SourceEBay,
			ScrapedAt: time.Now(),
		})
	}
	return listings, nil
}

// searchURL builds the used-condition, UK-only, newest-first search query.
func (s *Scraper) searchURL() string {
	params := url.Values{}
	params.Set("_nkw", strings.Join(s.cfg.SearchKeywords, " "))
	params.Set("_sop", "10")            // newly listed first
	params.Set("LH_ItemCondition", "3") // used
	params.Set("LH_PrefLoc", "1")       // UK sellers only
	params.Set("_ipg", "100")
	return searchBase + "?" + params.Encode()
}

// NormalizeURL strips the transient query and fragment components eBay
// appends to listing links, leaving a stable identity for deduplication.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
