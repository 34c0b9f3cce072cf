package services

import (
	"bikewatch/models"
	"bikewatch/utils"
)

// SourceRun couples a fetch collaborator with the pipeline that consumes its
// listings.
type SourceRun struct {
	Source   models.Source
	Fetch    func() ([]*models.Listing, error)
	Pipeline *Pipeline
}

// RunReport aggregates a full run: matches grouped by source in emission
// order, and any per-source failures.
type RunReport struct {
	Matches  map[models.Source][]models.Match
	Failures map[models.Source]error
}

// Total returns the number of matches across all sources.
func (r *RunReport) Total() int {
	n := 0
	for _, ms := range r.Matches {
		n += len(ms)
	}
	return n
}

// Controller runs the configured source pipelines sequentially.
type Controller struct {
	runs       []SourceRun
	clearFirst bool
	logger     *utils.Logger
}

// NewController creates a Controller. When clearFirst is set, every seen
// store is wiped before any pipeline executes.
func NewController(runs []SourceRun, clearFirst bool, logger *utils.Logger) *Controller {
	return &Controller{runs: runs, clearFirst: clearFirst, logger: logger}
}

// RunAll executes each configured pipeline in order. A fetch or pipeline
// failure for one source never prevents the remaining sources from running;
// failures are reported in the returned RunReport instead of raised.
func (c *Controller) RunAll() *RunReport {
	report := &RunReport{
		Matches:  make(map[models.Source][]models.Match),
		Failures: make(map[models.Source]error),
	}

	if c.clearFirst {
		c.logger.Info("Clearing seen stores before run")
		for _, run := range c.runs {
			if err := run.Pipeline.ClearSeen(); err != nil {
				c.logger.Warn("[%s] clearing seen store failed: %v", run.Source, err)
			}
		}
	}

	for _, run := range c.runs {
		listings, err := run.Fetch()
		if err != nil {
			c.logger.Error("[%s] fetch failed: %v — continuing with remaining sources", run.Source, err)
			report.Failures[run.Source] = err
			continue
		}

		matches, err := run.Pipeline.Run(listings)
		if err != nil {
			c.logger.Error("[%s] pipeline error: %v", run.Source, err)
			report.Failures[run.Source] = err
		}
		report.Matches[run.Source] = matches
	}

	return report
}
