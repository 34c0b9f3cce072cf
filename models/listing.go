package models

import "time"

// Source identifies which marketplace produced a listing. It selects the
// similarity threshold and the seen-store variant that apply to it.
type Source string

const (
	SourceEBay    Source = "ebay"
	SourceGumtree Source = "gumtree"
)

// Listing is a single classified ad extracted by a marketplace scraper.
// Listings are ephemeral: built fresh each run and discarded after processing.
type Listing struct {
	Title     string
	Identity  string // canonical dedup key, usually a normalized link
	Location  string // free text; "Unknown" when the feed carries none
	Source    Source
	ScrapedAt time.Time
}

// Match is a listing that passed both the relevance and location checks
// and had not been surfaced on any previous run.
type Match struct {
	Source    Source
	Title     string
	Identity  string
	MatchedAt time.Time
}
