package services

import (
	"errors"
	"path/filepath"
	"testing"

	"bikewatch/models"
	"bikewatch/storage"
)

func TestControllerIsolatesFetchFailure(t *testing.T) {
	dir := t.TempDir()

	broken := SourceRun{
		Source: models.SourceEBay,
		Fetch: func() ([]*models.Listing, error) {
			return nil, errors.New("connection refused")
		},
		Pipeline: newEBayPipeline(storage.NewJSONSetStore(filepath.Join(dir, "seen_ebay.json")), 0),
	}
	working := SourceRun{
		Source: models.SourceGumtree,
		Fetch: func() ([]*models.Listing, error) {
			return []*models.Listing{
				{Title: "Trek hybrid bike", Identity: "https://gumtree.com/p/1", Source: models.SourceGumtree},
			}, nil
		},
		Pipeline: NewPipeline(
			models.SourceGumtree,
			NewMatcher(testModel(0.2, 0.05), newTestLogger()),
			NewLocationFilter(ModeAnywhere, "", newTestLogger()),
			storage.NewAppendLogStore(filepath.Join(dir, "seen_gumtree.txt")),
			PipelineOptions{HasLocation: false},
			newTestLogger(),
		),
	}

	report := NewController([]SourceRun{broken, working}, false, newTestLogger()).RunAll()

	if report.Failures[models.SourceEBay] == nil {
		t.Error("fetch failure should be reported")
	}
	if len(report.Matches[models.SourceGumtree]) != 1 {
		t.Errorf("other sources must still run, got %d gumtree matches",
			len(report.Matches[models.SourceGumtree]))
	}
	if report.Total() != 1 {
		t.Errorf("Total: got %d, want 1", report.Total())
	}
}

func TestControllerClearFirstResetsNovelty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	listings := []*models.Listing{
		{Title: "Trek road bike", Identity: "https://x/item/1", Location: "Edinburgh", Source: models.SourceEBay},
	}

	run := func(clearFirst bool) *RunReport {
		sr := SourceRun{
			Source:   models.SourceEBay,
			Fetch:    func() ([]*models.Listing, error) { return listings, nil },
			Pipeline: newEBayPipeline(storage.NewJSONSetStore(path), 0),
		}
		return NewController([]SourceRun{sr}, clearFirst, newTestLogger()).RunAll()
	}

	if got := len(run(false).Matches[models.SourceEBay]); got != 1 {
		t.Fatalf("first run: got %d matches, want 1", got)
	}
	if got := len(run(false).Matches[models.SourceEBay]); got != 0 {
		t.Fatalf("repeat run without clear: got %d matches, want 0", got)
	}
	if got := len(run(true).Matches[models.SourceEBay]); got != 1 {
		t.Errorf("run after clear: got %d matches, want 1 (seen set reset)", got)
	}
}

func TestControllerPreservesEmissionOrder(t *testing.T) {
	sr := SourceRun{
		Source: models.SourceEBay,
		Fetch: func() ([]*models.Listing, error) {
			return []*models.Listing{
				{Title: "Trek bike one", Identity: "https://x/item/1", Location: "Edinburgh", Source: models.SourceEBay},
				{Title: "Trek bike two", Identity: "https://x/item/2", Location: "Edinburgh", Source: models.SourceEBay},
			}, nil
		},
		Pipeline: newEBayPipeline(storage.NewJSONSetStore(filepath.Join(t.TempDir(), "seen.json")), 0),
	}

	report := NewController([]SourceRun{sr}, false, newTestLogger()).RunAll()

	matches := report.Matches[models.SourceEBay]
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Identity != "https://x/item/1" || matches[1].Identity != "https://x/item/2" {
		t.Errorf("matches out of input order: %s, %s", matches[0].Identity, matches[1].Identity)
	}
}
