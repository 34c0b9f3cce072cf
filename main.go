package main

import (
	"fmt"

	"bikewatch/config"
	"bikewatch/models"
	"bikewatch/scraper/ebay"
	"bikewatch/scraper/gumtree"
	"bikewatch/services"
	"bikewatch/storage"
	"bikewatch/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.EnableDebugLog)

	logger.Info("=== Bike Listing Watcher starting ===")
	logger.Info("Config — keywords: %v | known bikes: %v | location: %s (%s) | clear: %v",
		cfg.SearchKeywords, cfg.KnownBikes, cfg.LocationMode, cfg.TargetArea, cfg.ClearCacheOnStart)

	matcher := services.NewMatcher(services.RelevanceModel{
		KnownTerms: cfg.KnownBikes,
		Keywords:   cfg.SearchKeywords,
		ThresholdBySource: map[models.Source]float64{
			models.SourceEBay:    cfg.EBayThreshold,
			models.SourceGumtree: cfg.GumtreeThreshold,
		},
		KeywordSource: models.SourceGumtree,
	}, logger)
	filter := services.NewLocationFilter(services.LocationMode(cfg.LocationMode), cfg.TargetArea, logger)

	var runs []services.SourceRun
	if cfg.EnableEBay {
		pipeline := services.NewPipeline(models.SourceEBay, matcher, filter,
			storage.NewJSONSetStore(cfg.SeenEBayPath()),
			services.PipelineOptions{TrimPrefixLen: ebay.TitleTrimLen, HasLocation: true},
			logger)
		runs = append(runs, services.SourceRun{
			Source:   models.SourceEBay,
			Fetch:    ebay.New(cfg, logger).Fetch,
			Pipeline: pipeline,
		})
	}
	if cfg.EnableGumtree {
		pipeline := services.NewPipeline(models.SourceGumtree, matcher, filter,
			storage.NewAppendLogStore(cfg.SeenGumtreePath()),
			services.PipelineOptions{HasLocation: false},
			logger)
		runs = append(runs, services.SourceRun{
			Source:   models.SourceGumtree,
			Fetch:    gumtree.New(cfg, logger).Fetch,
			Pipeline: pipeline,
		})
	}

	if len(runs) == 0 {
		logger.Error("No sources enabled. Exiting.")
		return
	}

	report := services.NewController(runs, cfg.ClearCacheOnStart, logger).RunAll()

	var all []models.Match
	for _, run := range runs {
		matches := report.Matches[run.Source]
		if len(matches) > 0 {
			fmt.Printf("All %s matches!\n", run.Source)
			for _, m := range matches {
				fmt.Println(m.Title)
				fmt.Println(m.Identity + "\n")
			}
		}
		all = append(all, matches...)
	}

	if len(all) > 0 {
		writeCSVReport(cfg, logger, all)
		if cfg.MatchDBEnabled {
			archiveMatches(cfg, logger, all)
		}
	}

	for _, run := range runs {
		if err := report.Failures[run.Source]; err != nil {
			logger.Error("[%s] source failed this run: %v", run.Source, err)
		}
	}

	logger.Info("Watcher finished — %d new matches", len(all))
}

func writeCSVReport(cfg *config.Config, logger *utils.Logger, matches []models.Match) {
	writer, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		return
	}
	defer writer.Close()

	if err := writer.Write(matches); err != nil {
		logger.Error("CSV write failed: %v", err)
		return
	}
	logger.Info("Matches saved to %s", cfg.CSVOutputPath)
}

func archiveMatches(cfg *config.Config, logger *utils.Logger, matches []models.Match) {
	pg, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Warn("Match archive unavailable: %v", err)
		return
	}
	defer pg.Close()

	if err := pg.Write(matches); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return
	}
	logger.Info("Matches archived in PostgreSQL (table: matches)")

	if recent, err := pg.FetchRecent(5); err == nil {
		for _, m := range recent {
			logger.Debug("[archive] %s — %s", m.Source, m.Title)
		}
	}
}
