package services

import (
	"fmt"
	"time"

	"bikewatch/models"
	"bikewatch/storage"
	"bikewatch/utils"
)

// PipelineOptions carries the per-source quirks of a pipeline.
type PipelineOptions struct {
	// TrimPrefixLen strips a fixed-length boilerplate prefix from emitted
	// titles. Cosmetic only: matching always sees the full title.
	TrimPrefixLen int
	// HasLocation is false for feeds that carry no location data; such
	// sources are location-agnostic by construction and always pass the
	// filter.
	HasLocation bool
}

// Pipeline runs the relevance and dedup pass for a single source.
type Pipeline struct {
	source  models.Source
	matcher *Matcher
	filter  *LocationFilter
	store   storage.SeenStore
	opts    PipelineOptions
	logger  *utils.Logger
}

// NewPipeline wires a pipeline for one source. The pipeline owns the store
// exclusively for the duration of a run.
func NewPipeline(source models.Source, matcher *Matcher, filter *LocationFilter,
	store storage.SeenStore, opts PipelineOptions, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		source:  source,
		matcher: matcher,
		filter:  filter,
		store:   store,
		opts:    opts,
		logger:  logger,
	}
}

// Run processes listings in input order: skip structurally incomplete ones,
// skip already-seen identities, emit those that are both relevant and
// geographically acceptable, and record every evaluated identity as seen
// regardless of match outcome so irrelevant listings are never re-scored on
// future runs.
//
// Matches are returned even when persisting the seen set fails; the error
// reports the persistence problem.
func (p *Pipeline) Run(listings []*models.Listing) ([]models.Match, error) {
	seen, err := p.store.Load()
	if err != nil {
		return nil, fmt.Errorf("pipeline[%s]: load seen set: %w", p.source, err)
	}
	p.logger.Info("[%s] %d listings to process, %d previously seen", p.source, len(listings), len(seen))

	var matches []models.Match
	for i, l := range listings {
		p.logger.Debug("[%s] processing item %d/%d", p.source, i+1, len(listings))

		if l.Identity == "" || l.Title == "" {
			p.logger.Debug("[%s] missing link or title: skipping", p.source)
			continue
		}
		if _, ok := seen[l.Identity]; ok {
			p.logger.Debug("[%s] already seen: skipping", p.source)
			continue
		}

		matched := p.matcher.Matches(l.Title, p.source)
		located := !p.opts.HasLocation || p.filter.Acceptable(l.Location)

		if matched && located {
			matches = append(matches, models.Match{
				Source:    p.source,
				Title:     p.trimTitle(l.Title),
				Identity:  l.Identity,
				MatchedAt: time.Now(),
			})
		}

		if err := p.store.Add(l.Identity); err != nil {
			p.logger.Warn("[%s] could not record %s as seen: %v", p.source, l.Identity, err)
		}
		seen[l.Identity] = struct{}{}
	}

	if err := p.store.Flush(); err != nil {
		return matches, fmt.Errorf("pipeline[%s]: persist seen set: %w", p.source, err)
	}

	p.logger.Info("[%s] run complete — %d new matches", p.source, len(matches))
	return matches, nil
}

// ClearSeen wipes the persisted seen set so every listing counts as new on
// the next run.
func (p *Pipeline) ClearSeen() error {
	return p.store.Clear()
}

func (p *Pipeline) trimTitle(title string) string {
	if p.opts.TrimPrefixLen <= 0 {
		return title
	}
	runes := []rune(title)
	if len(runes) <= p.opts.TrimPrefixLen {
		return title
	}
	return string(runes[p.opts.TrimPrefixLen:])
}
