package ebay

import (
	"path/filepath"
	"testing"

	"bikewatch/config"
	"bikewatch/models"
	"bikewatch/services"
	"bikewatch/storage"
	"bikewatch/utils"
)

func testLogger() *utils.Logger { return utils.NewLogger(false) }

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://x/item?id=1&ref=abc", "https://x/item"},
		{"https://x/item?id=1", "https://x/item"},
		{"https://x/item#section", "https://x/item"},
		{"https://x/item", "https://x/item"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeURL(tt.raw); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q; want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeURLCollapsesQueryVariants(t *testing.T) {
	a := NormalizeURL("https://www.ebay.co.uk/itm/12345?hash=abc&_trkparms=x")
	b := NormalizeURL("https://www.ebay.co.uk/itm/12345?campid=999")
	if a != b {
		t.Errorf("query variants of the same listing must share an identity: %q vs %q", a, b)
	}
}

func TestSearchURLEncodesKeywords(t *testing.T) {
	s := New(&config.Config{SearchKeywords: []string{"bike", "bicycle"}, MaxRetries: 1}, testLogger())

	got := s.searchURL()
	want := "https://www.ebay.co.uk/sch/i.html?LH_ItemCondition=3&LH_PrefLoc=1&_ipg=100&_nkw=bike+bicycle&_sop=10"
	if got != want {
		t.Errorf("searchURL:\n got %s\nwant %s", got, want)
	}
}

// Re-listing the same item with a different tracking query string must be
// treated as already seen.
func TestQueryVariantsAreDeduplicatedAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	newPipeline := func() *services.Pipeline {
		return services.NewPipeline(
			models.SourceEBay,
			services.NewMatcher(services.RelevanceModel{
				KnownTerms:        []string{"Trek"},
				ThresholdBySource: map[models.Source]float64{models.SourceEBay: 0.2},
			}, testLogger()),
			services.NewLocationFilter(services.ModeAnywhere, "", testLogger()),
			storage.NewJSONSetStore(path),
			services.PipelineOptions{HasLocation: true},
			testLogger(),
		)
	}

	listing := func(raw string) *models.Listing {
		return &models.Listing{
			Title:    "Trek Marlin 5 hybrid bike",
			Identity: NormalizeURL(raw),
			Location: "Edinburgh",
			Source:   models.SourceEBay,
		}
	}

	first, err := newPipeline().Run([]*models.Listing{listing("https://x/item?id=1&ref=abc")})
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("first submission: got %d matches, want 1", len(first))
	}

	second, err := newPipeline().Run([]*models.Listing{listing("https://x/item?id=1")})
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != 0 {
		t.Errorf("query-string variant should be already seen, got %d matches", len(second))
	}
}

func TestTitleTrimLenMatchesBoilerplate(t *testing.T) {
	if TitleTrimLen != 11 {
		t.Errorf("TitleTrimLen = %d; want 11 (len of %q)", TitleTrimLen, "New Listing")
	}
}
