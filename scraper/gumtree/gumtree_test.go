package gumtree

import (
	"testing"

	"bikewatch/config"
	"bikewatch/utils"
)

func testConfig(mode string) *config.Config {
	return &config.Config{
		SearchKeywords: []string{"bike"},
		LocationMode:   mode,
		TargetArea:     "edinburgh",
		MaxRetries:     1,
	}
}

func TestSearchURLRestrictedMode(t *testing.T) {
	s := New(testConfig("restricted"), utils.NewLogger(false))

	got := s.searchURL()
	want := "https://www.gumtree.com/search?q=bike&search_category=bicycles&search_location=edinburgh"
	if got != want {
		t.Errorf("searchURL:\n got %s\nwant %s", got, want)
	}
}

func TestSearchURLAnywhereMode(t *testing.T) {
	s := New(testConfig("anywhere"), utils.NewLogger(false))

	got := s.searchURL()
	want := "https://www.gumtree.com/search?q=bike&search_category=bicycles&search_location=united-kingdom"
	if got != want {
		t.Errorf("searchURL:\n got %s\nwant %s", got, want)
	}
}
